package domain

import (
	"errors"
	"fmt"
	"time"
)

// TransitionEvent names a requested status change in the send pipeline.
type TransitionEvent string

const (
	EventBeginDraft     TransitionEvent = "begin-draft"
	EventDraftSucceeded TransitionEvent = "draft-succeeded"
	EventDraftFailed    TransitionEvent = "draft-failed"
	EventApprove        TransitionEvent = "approve"
	EventDispatch       TransitionEvent = "dispatch"
	// EventRegenerate is a self-transition: variant content is rewritten in
	// place without the lead changing status.
	EventRegenerate TransitionEvent = "regenerate"
)

// transitions is the single source of truth for legal pipeline edges.
// Deletion is a collection mutation, not a status, and is absent here.
// The READY approve self-edge lets a user re-approve after regenerating
// drafts so the final snapshot catches up with the edited content.
var transitions = map[Status]map[TransitionEvent]Status{
	StatusNew: {
		EventBeginDraft: StatusDrafting,
	},
	StatusDrafting: {
		EventDraftSucceeded: StatusReview,
		EventDraftFailed:    StatusNew,
	},
	StatusReview: {
		EventApprove:    StatusReady,
		EventRegenerate: StatusReview,
	},
	StatusReady: {
		EventDispatch:   StatusSent,
		EventApprove:    StatusReady,
		EventRegenerate: StatusReady,
	},
}

// ErrInvalidTransition is matched by errors.Is for any illegal edge.
var ErrInvalidTransition = errors.New("invalid pipeline transition")

// InvalidTransitionError reports the rejected edge.
type InvalidTransitionError struct {
	From  Status
	Event TransitionEvent
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("cannot apply %q in status %q", e.Event, e.From)
}

func (e *InvalidTransitionError) Is(target error) bool {
	return target == ErrInvalidTransition
}

// apply moves the lead along the requested edge or rejects it.
func (l *Lead) apply(event TransitionEvent) error {
	next, ok := transitions[l.Status][event]
	if !ok {
		return &InvalidTransitionError{From: l.Status, Event: event}
	}
	l.Status = next
	return nil
}

// BeginDraft marks the lead as having an AI drafting call in flight.
func (l *Lead) BeginDraft() error {
	return l.apply(EventBeginDraft)
}

// CompleteDraft stores both drafted variants, selects variant A and snapshots
// it as the final content, moving the lead to REVIEW.
func (l *Lead) CompleteDraft(variantA, variantB EmailVariant) error {
	if err := l.apply(EventDraftSucceeded); err != nil {
		return err
	}

	a, b := variantA, variantB
	l.VariantA = &a
	l.VariantB = &b
	l.SelectedVariant = VariantA
	subject, body := a.Subject, a.Body
	l.FinalSubject = &subject
	l.FinalBody = &body
	l.RegeneratedAt = nil
	return nil
}

// FailDraft reverts a failed drafting attempt to the pre-draft state.
// No partial variant content survives the reversal.
func (l *Lead) FailDraft() error {
	if err := l.apply(EventDraftFailed); err != nil {
		return err
	}
	l.DraftAttempts++
	return nil
}

// Approve collapses the A/B comparison to one chosen variant, snapshotting
// the possibly edited subject/body as the content to send.
func (l *Lead) Approve(variant Variant, subject, body string) error {
	if variant != VariantA && variant != VariantB {
		return fmt.Errorf("unknown variant %q", variant)
	}
	if err := l.apply(EventApprove); err != nil {
		return err
	}

	l.SelectedVariant = variant
	l.FinalSubject = &subject
	l.FinalBody = &body
	l.RegeneratedAt = nil
	return nil
}

// Dispatch marks the lead as sent. There is no rollback path.
func (l *Lead) Dispatch() error {
	return l.apply(EventDispatch)
}

// ReplaceDrafts overwrites both variant contents in place without changing
// status. Before approval the default final snapshot follows the selected
// variant; after approval the snapshot is preserved and RegeneratedAt
// records the divergence until the user re-approves.
func (l *Lead) ReplaceDrafts(variantA, variantB EmailVariant, at time.Time) error {
	approved := l.Status == StatusReady
	if err := l.apply(EventRegenerate); err != nil {
		return err
	}

	a, b := variantA, variantB
	l.VariantA = &a
	l.VariantB = &b
	if approved {
		ts := at
		l.RegeneratedAt = &ts
		return nil
	}

	content, _ := l.SelectedContent()
	subject, body := content.Subject, content.Body
	l.FinalSubject = &subject
	l.FinalBody = &body
	return nil
}
