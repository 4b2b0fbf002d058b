// Package events provides domain event definitions for decoupled,
// event-driven communication between modules.
// Infrastructure (Bus, Handler) is in platform/events.
package events

import (
	"prospector_backend/platform/events"
	"prospector_backend/platform/logger"

	"github.com/google/uuid"
)

// Re-export platform types for convenience
type (
	Event       = events.Event
	Bus         = events.Bus
	Handler     = events.Handler
	HandlerFunc = events.HandlerFunc
	BaseEvent   = events.BaseEvent
	InMemoryBus = events.InMemoryBus
)

// Re-export platform functions
var NewBaseEvent = events.NewBaseEvent

// NewInMemoryBus creates a new in-memory event bus.
func NewInMemoryBus(log *logger.Logger) *InMemoryBus {
	return events.NewInMemoryBus(log)
}

// =============================================================================
// Leads Domain Events
// =============================================================================

// LeadsDiscovered is published when a search ingests new candidate leads.
type LeadsDiscovered struct {
	BaseEvent
	Query string `json:"query"`
	Count int    `json:"count"`
}

func (e LeadsDiscovered) EventName() string { return "leads.discovered" }

// LeadStatusChanged is published whenever a lead moves along the pipeline.
type LeadStatusChanged struct {
	BaseEvent
	LeadID    uuid.UUID `json:"leadId"`
	OldStatus string    `json:"oldStatus"`
	NewStatus string    `json:"newStatus"`
}

func (e LeadStatusChanged) EventName() string { return "leads.status.changed" }

// LeadDraftFailed is published when the AI drafting call fails and the lead
// reverts to NEW. Surfaced as a non-blocking notice, never an abort.
type LeadDraftFailed struct {
	BaseEvent
	LeadID      uuid.UUID `json:"leadId"`
	CompanyName string    `json:"companyName"`
	Reason      string    `json:"reason"`
	Attempts    int       `json:"attempts"`
}

func (e LeadDraftFailed) EventName() string { return "leads.draft.failed" }

// LeadDeleted is published when a lead is removed from the collection.
type LeadDeleted struct {
	BaseEvent
	LeadID uuid.UUID `json:"leadId"`
}

func (e LeadDeleted) EventName() string { return "leads.deleted" }

// =============================================================================
// Bulk Run Events
// =============================================================================

// BulkRunStarted is published when a bulk action begins over a frozen
// target set.
type BulkRunStarted struct {
	BaseEvent
	Action string `json:"action"`
	Total  int    `json:"total"`
}

func (e BulkRunStarted) EventName() string { return "bulk.run.started" }

// BulkRunProgress is published after every completed item.
type BulkRunProgress struct {
	BaseEvent
	Action    string   `json:"action"`
	Completed int      `json:"completed"`
	Total     int      `json:"total"`
	Percent   int      `json:"percent"`
	Logs      []string `json:"logs"`
}

func (e BulkRunProgress) EventName() string { return "bulk.run.progress" }

// BulkRunCompleted is published when the batch has processed every item.
type BulkRunCompleted struct {
	BaseEvent
	Action string `json:"action"`
	Total  int    `json:"total"`
	Failed int    `json:"failed"`
}

func (e BulkRunCompleted) EventName() string { return "bulk.run.completed" }
