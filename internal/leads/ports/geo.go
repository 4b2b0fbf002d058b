package ports

import "context"

// Coordinates is a best-effort device location used only to enrich search
// prompts.
type Coordinates struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Locator resolves the caller's approximate location. Implementations must
// bound their own timeouts; callers treat any error as "location unknown".
type Locator interface {
	CurrentLocation(ctx context.Context) (*Coordinates, error)
}
