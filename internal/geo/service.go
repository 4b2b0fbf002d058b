// Package geo resolves the server's approximate position from an IP
// geolocation API. Lookups are best effort: any failure means "location
// unknown" and search prompts simply omit the hint.
package geo

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"prospector_backend/internal/leads/ports"
	"prospector_backend/platform/config"
	"prospector_backend/platform/logger"
)

type Service struct {
	client  *http.Client
	baseURL string
	enabled bool
	log     *logger.Logger
}

func NewService(cfg config.GeoConfig, log *logger.Logger) *Service {
	return &Service{
		client:  &http.Client{Timeout: cfg.GetGeoTimeout()},
		baseURL: cfg.GetGeoLookupURL(),
		enabled: cfg.IsGeoEnabled(),
		log:     log,
	}
}

type lookupResponse struct {
	Status  string  `json:"status"`
	Message string  `json:"message"`
	Lat     float64 `json:"lat"`
	Lon     float64 `json:"lon"`
}

// CurrentLocation implements ports.Locator.
func (s *Service) CurrentLocation(ctx context.Context) (*ports.Coordinates, error) {
	if !s.enabled {
		return nil, fmt.Errorf("geolocation disabled")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL, nil)
	if err != nil {
		return nil, err
	}

	resp, err := s.client.Do(req)
	if err != nil {
		s.log.Debug("geolocation request failed", "error", err)
		return nil, err
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("upstream api error: %d", resp.StatusCode)
	}

	var raw lookupResponse
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, err
	}
	if raw.Status != "success" {
		return nil, fmt.Errorf("lookup rejected: %s", raw.Message)
	}

	return &ports.Coordinates{Latitude: raw.Lat, Longitude: raw.Lon}, nil
}

// Compile-time check that Service implements ports.Locator
var _ ports.Locator = (*Service)(nil)
