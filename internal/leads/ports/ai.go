// Package ports defines the collaborator contracts the leads bounded context
// depends on but does not implement (AI provider, geolocation).
package ports

import (
	"context"

	"prospector_backend/internal/leads/domain"
)

// SearchQuery describes a prospect search request.
type SearchQuery struct {
	Keywords string
	Location string
	Role     string
	Sources  []string
	Pitch    string
}

// CandidateLead is one company proposed by the AI collaborator. All fields
// except CompanyName are optional.
type CandidateLead struct {
	CompanyName         string  `json:"companyName"`
	ContactName         *string `json:"contactName,omitempty"`
	Email               *string `json:"email,omitempty"`
	Website             *string `json:"website,omitempty"`
	Location            *string `json:"location,omitempty"`
	Description         *string `json:"description,omitempty"`
	Source              *string `json:"source,omitempty"`
	QualificationScore  *int    `json:"qualificationScore,omitempty"`
	QualificationReason *string `json:"qualificationReason,omitempty"`
}

// EmailDraft is the pair of candidate emails produced for one lead.
type EmailDraft struct {
	VariantA domain.EmailVariant `json:"variantA"`
	VariantB domain.EmailVariant `json:"variantB"`
}

// LeadSearcher proposes qualified candidate companies for a search query.
type LeadSearcher interface {
	SearchLeads(ctx context.Context, query SearchQuery) ([]CandidateLead, error)
}

// EmailDrafter produces two personalized email variants for a lead.
// Instructions carry optional free-text steering on regeneration.
type EmailDrafter interface {
	DraftEmail(ctx context.Context, lead domain.Lead, instructions string) (EmailDraft, error)
}
