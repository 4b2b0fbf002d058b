// Package notification forwards domain events to connected dashboard
// clients over SSE. This module subscribes to events and inverts the
// dependency: domain modules never need to know about the streaming layer.
package notification

import (
	"context"

	"prospector_backend/internal/events"
	apphttp "prospector_backend/internal/http"
	"prospector_backend/internal/notification/sse"
)

// Module bridges the event bus to the SSE stream.
type Module struct {
	sse *sse.Service
}

// New creates the notification module.
func New() *Module {
	return &Module{sse: sse.New()}
}

// SSE returns the underlying stream service.
func (m *Module) SSE() *sse.Service {
	return m.sse
}

// RegisterHandlers subscribes the module to the domain events it forwards.
func (m *Module) RegisterHandlers(bus events.Bus) {
	forward := func(eventName string, sseType sse.EventType) {
		bus.Subscribe(eventName, events.HandlerFunc(func(_ context.Context, event events.Event) error {
			m.sse.Broadcast(sse.Event{Type: sseType, Data: event})
			return nil
		}))
	}

	forward(events.LeadsDiscovered{}.EventName(), sse.EventLeadsDiscovered)
	forward(events.LeadStatusChanged{}.EventName(), sse.EventLeadStatusChanged)
	forward(events.LeadDraftFailed{}.EventName(), sse.EventLeadDraftFailed)
	forward(events.LeadDeleted{}.EventName(), sse.EventLeadDeleted)
	forward(events.BulkRunStarted{}.EventName(), sse.EventBulkStarted)
	forward(events.BulkRunProgress{}.EventName(), sse.EventBulkProgress)
	forward(events.BulkRunCompleted{}.EventName(), sse.EventBulkCompleted)
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "notification"
}

// RegisterRoutes mounts the SSE stream endpoint.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	ctx.V1.GET("/events/stream", m.sse.Handler())
}

// Close shuts down the stream service.
func (m *Module) Close() {
	m.sse.Close()
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
