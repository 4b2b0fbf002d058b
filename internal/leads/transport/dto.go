// Package transport defines the request DTOs for the leads HTTP API.
package transport

// SearchRequest describes a prospect search.
type SearchRequest struct {
	Keywords string   `json:"keywords" validate:"required,min=2,max=200"`
	Location string   `json:"location" validate:"max=200"`
	Role     string   `json:"role" validate:"max=100"`
	Sources  []string `json:"sources" validate:"omitempty,dive,oneof=google linkedin directories social"`
	Pitch    string   `json:"pitch" validate:"max=2000"`
}

// ApproveRequest carries the chosen variant and its (possibly edited)
// content from the review editor.
type ApproveRequest struct {
	Variant string `json:"variant" validate:"required,oneof=A B"`
	Subject string `json:"subject" validate:"required,max=500"`
	Body    string `json:"body" validate:"required"`
}

// RegenerateRequest carries optional steering text for a fresh draft pass.
type RegenerateRequest struct {
	Instructions string `json:"instructions" validate:"max=2000"`
}
