// Package domain provides core business rules for the leads bounded context.
package domain

import (
	"time"

	"github.com/google/uuid"
)

// Status is the lifecycle state of a lead in the send pipeline.
type Status string

const (
	StatusNew      Status = "NEW"
	StatusDrafting Status = "DRAFTING"
	StatusReview   Status = "REVIEW"
	StatusReady    Status = "READY"
	StatusSent     Status = "SENT"
	StatusArchived Status = "ARCHIVED"
)

var knownStatuses = map[Status]struct{}{
	StatusNew:      {},
	StatusDrafting: {},
	StatusReview:   {},
	StatusReady:    {},
	StatusSent:     {},
	StatusArchived: {},
}

// IsKnownStatus reports whether the value is a defined lifecycle status.
func IsKnownStatus(status Status) bool {
	_, ok := knownStatuses[status]
	return ok
}

// IsTerminal reports whether no operation transitions out of the status.
func (s Status) IsTerminal() bool {
	return s == StatusSent || s == StatusArchived
}

// Variant identifies one of the two independently drafted email candidates.
type Variant string

const (
	VariantA Variant = "A"
	VariantB Variant = "B"
)

// EmailVariant is one drafted email candidate.
type EmailVariant struct {
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

// Lead is a prospective business contact moving through the outreach pipeline.
// Optional fields are pointers; absence means the AI collaborator did not
// supply a value, never a silent zero.
type Lead struct {
	ID          uuid.UUID `json:"id"`
	CompanyName string    `json:"companyName"`
	ContactName *string   `json:"contactName,omitempty"`
	Email       *string   `json:"email,omitempty"`
	Website     *string   `json:"website,omitempty"`
	Location    *string   `json:"location,omitempty"`
	Description *string   `json:"description,omitempty"`
	Source      string    `json:"source"`

	// Context for what is being sold to this lead, carried from search time
	// into draft-generation prompts.
	OfferingDetails *string `json:"offeringDetails,omitempty"`

	QualificationScore  *int    `json:"qualificationScore,omitempty"`
	QualificationReason *string `json:"qualificationReason,omitempty"`

	VariantA *EmailVariant `json:"variantA,omitempty"`
	VariantB *EmailVariant `json:"variantB,omitempty"`

	// SelectedVariant marks which candidate is authoritative; the final
	// subject/body snapshots are written at draft completion and approval.
	SelectedVariant Variant `json:"selectedVariant"`
	FinalSubject    *string `json:"finalSubject,omitempty"`
	FinalBody       *string `json:"finalBody,omitempty"`

	Status Status `json:"status"`

	// DraftAttempts counts failed drafting attempts. Failures are retryable
	// indefinitely; the counter only surfaces churn to callers.
	DraftAttempts int `json:"draftAttempts"`

	// RegeneratedAt marks that variant content was regenerated after the
	// final snapshot was written, so a UI can flag the divergence.
	RegeneratedAt *time.Time `json:"regeneratedAt,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
}

// NewLeadParams carries the descriptive attributes sourced from the AI
// collaborator at search-result ingestion.
type NewLeadParams struct {
	CompanyName         string
	ContactName         *string
	Email               *string
	Website             *string
	Location            *string
	Description         *string
	Source              string
	OfferingDetails     *string
	QualificationScore  *int
	QualificationReason *string
}

// NewLead creates a lead in the initial NEW state with variant A selected.
// A qualification score outside [0,100] is clamped into range.
func NewLead(params NewLeadParams) Lead {
	name := params.CompanyName
	if name == "" {
		name = "Unknown"
	}

	return Lead{
		ID:                  uuid.New(),
		CompanyName:         name,
		ContactName:         params.ContactName,
		Email:               params.Email,
		Website:             params.Website,
		Location:            params.Location,
		Description:         params.Description,
		Source:              params.Source,
		OfferingDetails:     params.OfferingDetails,
		QualificationScore:  clampScore(params.QualificationScore),
		QualificationReason: params.QualificationReason,
		SelectedVariant:     VariantA,
		Status:              StatusNew,
		CreatedAt:           time.Now(),
	}
}

// SelectedContent returns the subject/body of the currently selected variant.
// The second return value is false when that variant has not been drafted.
func (l *Lead) SelectedContent() (EmailVariant, bool) {
	switch l.SelectedVariant {
	case VariantB:
		if l.VariantB == nil {
			return EmailVariant{}, false
		}
		return *l.VariantB, true
	default:
		if l.VariantA == nil {
			return EmailVariant{}, false
		}
		return *l.VariantA, true
	}
}

func clampScore(score *int) *int {
	if score == nil {
		return nil
	}
	v := *score
	if v < 0 {
		v = 0
	}
	if v > 100 {
		v = 100
	}
	return &v
}
