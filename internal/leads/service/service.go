// Package service implements the single-item pipeline operations. Each
// operation reads and writes one lead through the domain transition rules;
// collaborator failures are converted into typed errors so callers (notably
// the bulk runner) can track per-item outcomes without aborting a batch.
package service

import (
	"context"
	"strings"

	"prospector_backend/internal/events"
	"prospector_backend/internal/leads/domain"
	"prospector_backend/internal/leads/ports"
	"prospector_backend/internal/leads/store"
	"prospector_backend/platform/apperr"
	"prospector_backend/platform/logger"

	"github.com/google/uuid"
)

const msgLeadNotFound = "lead not found"

// Service wires the collection store to the AI collaborators.
type Service struct {
	store    *store.Store
	searcher ports.LeadSearcher
	drafter  ports.EmailDrafter
	bus      events.Bus
	log      *logger.Logger
}

// New creates the leads service.
func New(st *store.Store, searcher ports.LeadSearcher, drafter ports.EmailDrafter, bus events.Bus, log *logger.Logger) *Service {
	return &Service{
		store:    st,
		searcher: searcher,
		drafter:  drafter,
		bus:      bus,
		log:      log,
	}
}

// Store exposes the underlying collection for read-side collaborators
// (exports, bulk runner).
func (s *Service) Store() *store.Store {
	return s.store
}

// Search asks the AI collaborator for candidate companies and ingests them
// as NEW leads, ranked by qualification score ahead of the existing
// collection.
func (s *Service) Search(ctx context.Context, query ports.SearchQuery) ([]domain.Lead, error) {
	candidates, err := s.searcher.SearchLeads(ctx, query)
	if err != nil {
		s.log.AIEvent("search", false, err.Error())
		return nil, apperr.Wrap(apperr.KindUnavailable, "lead search failed", err).WithOp("leads.Search")
	}
	s.log.AIEvent("search", true, "")

	leads := make([]domain.Lead, 0, len(candidates))
	for _, c := range candidates {
		source := strings.Join(query.Sources, ", ")
		if c.Source != nil && *c.Source != "" {
			source = *c.Source
		}

		var offering *string
		if query.Pitch != "" {
			pitch := query.Pitch
			offering = &pitch
		}

		leads = append(leads, domain.NewLead(domain.NewLeadParams{
			CompanyName:         c.CompanyName,
			ContactName:         c.ContactName,
			Email:               c.Email,
			Website:             c.Website,
			Location:            c.Location,
			Description:         c.Description,
			Source:              source,
			OfferingDetails:     offering,
			QualificationScore:  c.QualificationScore,
			QualificationReason: c.QualificationReason,
		}))
	}

	s.store.InsertRanked(leads)

	if len(leads) > 0 {
		s.bus.Publish(ctx, events.LeadsDiscovered{
			BaseEvent: events.NewBaseEvent(),
			Query:     query.Keywords,
			Count:     len(leads),
		})
	}

	return leads, nil
}

// List returns an ordered snapshot of the collection, optionally filtered
// by status.
func (s *Service) List(status *domain.Status) []domain.Lead {
	if status == nil {
		return s.store.All()
	}
	return s.store.FindByStatus(*status)
}

// GetByID returns one lead.
func (s *Service) GetByID(id uuid.UUID) (domain.Lead, error) {
	lead, ok := s.store.GetByID(id)
	if !ok {
		return domain.Lead{}, apperr.NotFound(msgLeadNotFound)
	}
	return lead, nil
}

// GenerateEmail moves a NEW lead to DRAFTING, invokes the drafting
// collaborator, and on success stores both variants moving the lead to
// REVIEW. On collaborator failure the lead reverts to NEW and the error is
// returned as a signal; the caller decides whether to surface or continue.
func (s *Service) GenerateEmail(ctx context.Context, id uuid.UUID, instructions string) error {
	var lead domain.Lead
	var terr error
	found := s.store.UpdateByID(id, func(l *domain.Lead) {
		if terr = l.BeginDraft(); terr == nil {
			lead = *l
		}
	})
	if !found {
		return apperr.NotFound(msgLeadNotFound).WithOp("leads.GenerateEmail")
	}
	if terr != nil {
		return apperr.Wrap(apperr.KindConflict, "lead is not ready for drafting", terr).WithOp("leads.GenerateEmail")
	}
	s.publishStatusChange(ctx, id, domain.StatusNew, domain.StatusDrafting)

	draft, err := s.drafter.DraftEmail(ctx, lead, instructions)
	if err != nil {
		attempts := 0
		s.store.UpdateByID(id, func(l *domain.Lead) {
			_ = l.FailDraft()
			attempts = l.DraftAttempts
		})
		s.publishStatusChange(ctx, id, domain.StatusDrafting, domain.StatusNew)
		s.bus.Publish(ctx, events.LeadDraftFailed{
			BaseEvent:   events.NewBaseEvent(),
			LeadID:      id,
			CompanyName: lead.CompanyName,
			Reason:      err.Error(),
			Attempts:    attempts,
		})
		s.log.AIEvent("draft", false, err.Error())
		return apperr.Wrap(apperr.KindUnavailable, "email drafting failed", err).WithOp("leads.GenerateEmail")
	}
	s.log.AIEvent("draft", true, "")

	found = s.store.UpdateByID(id, func(l *domain.Lead) {
		terr = l.CompleteDraft(draft.VariantA, draft.VariantB)
	})
	if !found {
		// Deleted while the AI call was in flight; the late write is dropped.
		return apperr.NotFound(msgLeadNotFound).WithOp("leads.GenerateEmail")
	}
	if terr != nil {
		return apperr.Wrap(apperr.KindConflict, "draft completion rejected", terr).WithOp("leads.GenerateEmail")
	}
	s.publishStatusChange(ctx, id, domain.StatusDrafting, domain.StatusReview)
	return nil
}

// Approve collapses the A/B comparison to the chosen variant with its
// possibly edited content, moving the lead to READY.
func (s *Service) Approve(ctx context.Context, id uuid.UUID, variant domain.Variant, subject, body string) error {
	var old domain.Status
	var terr error
	found := s.store.UpdateByID(id, func(l *domain.Lead) {
		old = l.Status
		terr = l.Approve(variant, subject, body)
	})
	if !found {
		return apperr.NotFound(msgLeadNotFound).WithOp("leads.Approve")
	}
	if terr != nil {
		return apperr.Wrap(apperr.KindConflict, "lead cannot be approved", terr).WithOp("leads.Approve")
	}
	s.publishStatusChange(ctx, id, old, domain.StatusReady)
	return nil
}

// ApproveSelected approves a lead using the current content of its selected
// variant. This is the bulk-approve path: no edits, just the transition.
func (s *Service) ApproveSelected(ctx context.Context, id uuid.UUID) error {
	var old domain.Status
	var terr error
	found := s.store.UpdateByID(id, func(l *domain.Lead) {
		old = l.Status
		content, ok := l.SelectedContent()
		if !ok {
			terr = &domain.InvalidTransitionError{From: l.Status, Event: domain.EventApprove}
			return
		}
		terr = l.Approve(l.SelectedVariant, content.Subject, content.Body)
	})
	if !found {
		return apperr.NotFound(msgLeadNotFound).WithOp("leads.ApproveSelected")
	}
	if terr != nil {
		return apperr.Wrap(apperr.KindConflict, "lead cannot be approved", terr).WithOp("leads.ApproveSelected")
	}
	s.publishStatusChange(ctx, id, old, domain.StatusReady)
	return nil
}

// Send marks a READY lead as SENT. Dispatch is simulated; there is no
// transport call and no rollback path.
func (s *Service) Send(ctx context.Context, id uuid.UUID) error {
	var terr error
	found := s.store.UpdateByID(id, func(l *domain.Lead) {
		terr = l.Dispatch()
	})
	if !found {
		return apperr.NotFound(msgLeadNotFound).WithOp("leads.Send")
	}
	if terr != nil {
		return apperr.Wrap(apperr.KindConflict, "lead cannot be sent", terr).WithOp("leads.Send")
	}
	s.publishStatusChange(ctx, id, domain.StatusReady, domain.StatusSent)
	return nil
}

// Regenerate re-invokes the drafting collaborator for a lead already in
// REVIEW or READY, overwriting both variants in place. The approved final
// snapshot survives until the user explicitly re-approves.
func (s *Service) Regenerate(ctx context.Context, id uuid.UUID, instructions string) error {
	lead, ok := s.store.GetByID(id)
	if !ok {
		return apperr.NotFound(msgLeadNotFound).WithOp("leads.Regenerate")
	}
	if lead.Status != domain.StatusReview && lead.Status != domain.StatusReady {
		return apperr.Conflict("lead has no drafts to regenerate").WithOp("leads.Regenerate")
	}

	draft, err := s.drafter.DraftEmail(ctx, lead, instructions)
	if err != nil {
		s.log.AIEvent("draft", false, err.Error())
		return apperr.Wrap(apperr.KindUnavailable, "email drafting failed", err).WithOp("leads.Regenerate")
	}
	s.log.AIEvent("draft", true, "")

	var terr error
	now := events.NewBaseEvent().Timestamp
	found := s.store.UpdateByID(id, func(l *domain.Lead) {
		terr = l.ReplaceDrafts(draft.VariantA, draft.VariantB, now)
	})
	if !found {
		return apperr.NotFound(msgLeadNotFound).WithOp("leads.Regenerate")
	}
	if terr != nil {
		return apperr.Wrap(apperr.KindConflict, "drafts cannot be replaced", terr).WithOp("leads.Regenerate")
	}
	return nil
}

// Delete removes the lead from the collection regardless of status.
// Deleting an absent id is a no-op, not an error.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) {
	if s.store.RemoveByID(id) {
		s.bus.Publish(ctx, events.LeadDeleted{
			BaseEvent: events.NewBaseEvent(),
			LeadID:    id,
		})
	}
}

// Stats are the per-status counts shown on the dashboard cards.
type Stats struct {
	Total    int `json:"total"`
	New      int `json:"new"`
	Drafting int `json:"drafting"`
	Review   int `json:"review"`
	Ready    int `json:"ready"`
	Sent     int `json:"sent"`
}

// Stats counts leads per pipeline status.
func (s *Service) Stats() Stats {
	all := s.store.All()
	st := Stats{Total: len(all)}
	for _, l := range all {
		switch l.Status {
		case domain.StatusNew:
			st.New++
		case domain.StatusDrafting:
			st.Drafting++
		case domain.StatusReview:
			st.Review++
		case domain.StatusReady:
			st.Ready++
		case domain.StatusSent:
			st.Sent++
		}
	}
	return st
}

func (s *Service) publishStatusChange(ctx context.Context, id uuid.UUID, old, next domain.Status) {
	s.bus.Publish(ctx, events.LeadStatusChanged{
		BaseEvent: events.NewBaseEvent(),
		LeadID:    id,
		OldStatus: string(old),
		NewStatus: string(next),
	})
}
