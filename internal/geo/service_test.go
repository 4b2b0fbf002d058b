package geo

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"prospector_backend/platform/logger"
)

type fakeGeoConfig struct {
	url     string
	enabled bool
}

func (c fakeGeoConfig) GetGeoLookupURL() string      { return c.url }
func (c fakeGeoConfig) GetGeoTimeout() time.Duration { return time.Second }
func (c fakeGeoConfig) IsGeoEnabled() bool           { return c.enabled }

func TestCurrentLocationParsesCoordinates(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"status":"success","lat":45.75,"lon":4.85}`))
	}))
	defer srv.Close()

	svc := NewService(fakeGeoConfig{url: srv.URL, enabled: true}, logger.NewDiscard())
	got, err := svc.CurrentLocation(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if got.Latitude != 45.75 || got.Longitude != 4.85 {
		t.Errorf("coordinates = %+v", got)
	}
}

func TestCurrentLocationLookupRejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"status":"fail","message":"private range"}`))
	}))
	defer srv.Close()

	svc := NewService(fakeGeoConfig{url: srv.URL, enabled: true}, logger.NewDiscard())
	if _, err := svc.CurrentLocation(context.Background()); err == nil {
		t.Fatal("expected an error for a rejected lookup")
	}
}

func TestCurrentLocationDisabled(t *testing.T) {
	svc := NewService(fakeGeoConfig{enabled: false}, logger.NewDiscard())
	if _, err := svc.CurrentLocation(context.Background()); err == nil {
		t.Fatal("disabled lookup must error, not call out")
	}
}
