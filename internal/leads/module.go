// Package leads provides the lead pipeline bounded context module.
// This file defines the module that encapsulates all leads setup and route registration.
package leads

import (
	"context"

	"prospector_backend/internal/events"
	apphttp "prospector_backend/internal/http"
	"prospector_backend/internal/leads/bulk"
	"prospector_backend/internal/leads/handler"
	"prospector_backend/internal/leads/ports"
	"prospector_backend/internal/leads/service"
	"prospector_backend/internal/leads/store"
	"prospector_backend/platform/config"
	"prospector_backend/platform/logger"
	"prospector_backend/platform/validator"
)

// Module is the leads bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
	runner  *bulk.Runner
	store   *store.Store
}

// NewModule creates and initializes the leads module with all its dependencies.
func NewModule(searcher ports.LeadSearcher, drafter ports.EmailDrafter, eventBus events.Bus, val *validator.Validator, cfg config.BulkConfig, log *logger.Logger) *Module {
	st := store.New()
	svc := service.New(st, searcher, drafter, eventBus, log)
	runner := bulk.NewRunner(svc, st, eventBus, cfg, log)

	// Draft failures are non-blocking notices; surface them in the server log.
	eventBus.Subscribe(events.LeadDraftFailed{}.EventName(), events.HandlerFunc(func(_ context.Context, event events.Event) error {
		e, ok := event.(events.LeadDraftFailed)
		if !ok {
			return nil
		}
		log.Warn("email draft failed",
			"leadId", e.LeadID,
			"company", e.CompanyName,
			"reason", e.Reason,
			"attempts", e.Attempts,
		)
		return nil
	}))

	return &Module{
		handler: handler.New(svc, runner, val),
		service: svc,
		runner:  runner,
		store:   st,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "leads"
}

// Service returns the leads service for external use.
func (m *Module) Service() *service.Service {
	return m.service
}

// Store returns the lead collection for read-side modules (exports).
func (m *Module) Store() *store.Store {
	return m.store
}

// Runner returns the bulk runner, exposed for graceful shutdown.
func (m *Module) Runner() *bulk.Runner {
	return m.runner
}

// RegisterRoutes mounts leads routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	leadsGroup := ctx.V1.Group("/leads")
	m.handler.RegisterRoutes(leadsGroup)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
