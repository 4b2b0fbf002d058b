package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"prospector_backend/internal/events"
	"prospector_backend/internal/leads/bulk"
	"prospector_backend/internal/leads/domain"
	"prospector_backend/internal/leads/ports"
	"prospector_backend/internal/leads/service"
	"prospector_backend/internal/leads/store"
	"prospector_backend/platform/logger"
	"prospector_backend/platform/validator"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type stubSearcher struct {
	candidates []ports.CandidateLead
}

func (s stubSearcher) SearchLeads(context.Context, ports.SearchQuery) ([]ports.CandidateLead, error) {
	return s.candidates, nil
}

type stubDrafter struct{}

func (stubDrafter) DraftEmail(context.Context, domain.Lead, string) (ports.EmailDraft, error) {
	return ports.EmailDraft{
		VariantA: domain.EmailVariant{Subject: "Subject A", Body: "Body A"},
		VariantB: domain.EmailVariant{Subject: "Subject B", Body: "Body B"},
	}, nil
}

type instantBulkConfig struct{}

func (instantBulkConfig) GetBulkApproveDelay() time.Duration { return 0 }
func (instantBulkConfig) GetBulkSendDelay() time.Duration    { return 0 }
func (instantBulkConfig) GetBulkCooldown() time.Duration     { return 0 }

type env struct {
	router *gin.Engine
	store  *store.Store
	runner *bulk.Runner
}

func newEnv(t *testing.T, searcher ports.LeadSearcher) *env {
	t.Helper()
	gin.SetMode(gin.TestMode)
	log := logger.NewDiscard()
	bus := events.NewInMemoryBus(log)
	st := store.New()
	svc := service.New(st, searcher, stubDrafter{}, bus, log)
	runner := bulk.NewRunner(svc, st, bus, instantBulkConfig{}, log)

	engine := gin.New()
	New(svc, runner, validator.New()).RegisterRoutes(engine.Group("/leads"))
	return &env{router: engine, store: st, runner: runner}
}

func (e *env) do(method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func (e *env) seed(t *testing.T) domain.Lead {
	t.Helper()
	lead := domain.NewLead(domain.NewLeadParams{CompanyName: "Acme", Source: "google"})
	e.store.InsertRanked([]domain.Lead{lead})
	return lead
}

func TestSearchValidatesRequest(t *testing.T) {
	e := newEnv(t, stubSearcher{})

	if w := e.do(http.MethodPost, "/leads/search", `{"keywords":""}`); w.Code != http.StatusBadRequest {
		t.Errorf("empty keywords: status = %d, want 400", w.Code)
	}
	if w := e.do(http.MethodPost, "/leads/search", `{"keywords":"x","sources":["myspace"]}`); w.Code != http.StatusBadRequest {
		t.Errorf("unknown source: status = %d, want 400", w.Code)
	}
}

func TestSearchIngestsAndReturnsCreated(t *testing.T) {
	e := newEnv(t, stubSearcher{candidates: []ports.CandidateLead{{CompanyName: "Acme"}}})

	w := e.do(http.MethodPost, "/leads/search", `{"keywords":"plumbers","sources":["google"]}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201: %s", w.Code, w.Body.String())
	}
	if e.store.Len() != 1 {
		t.Errorf("store len = %d, want 1", e.store.Len())
	}
}

func TestListRejectsUnknownStatusFilter(t *testing.T) {
	e := newEnv(t, stubSearcher{})

	if w := e.do(http.MethodGet, "/leads?status=BOGUS", ""); w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
	if w := e.do(http.MethodGet, "/leads?status=new", ""); w.Code != http.StatusOK {
		t.Errorf("lowercase known status: status = %d, want 200", w.Code)
	}
}

func TestGenerateUnknownLeadIs404(t *testing.T) {
	e := newEnv(t, stubSearcher{})

	if w := e.do(http.MethodPost, "/leads/"+uuid.NewString()+"/generate", ""); w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", w.Code)
	}
	if w := e.do(http.MethodPost, "/leads/not-a-uuid/generate", ""); w.Code != http.StatusBadRequest {
		t.Errorf("malformed id: status = %d, want 400", w.Code)
	}
}

func TestGenerateThenApproveFlow(t *testing.T) {
	e := newEnv(t, stubSearcher{})
	lead := e.seed(t)

	if w := e.do(http.MethodPost, "/leads/"+lead.ID.String()+"/generate", ""); w.Code != http.StatusOK {
		t.Fatalf("generate: status = %d: %s", w.Code, w.Body.String())
	}

	// Approving without a payload is a validation error.
	if w := e.do(http.MethodPost, "/leads/"+lead.ID.String()+"/approve", `{}`); w.Code != http.StatusBadRequest {
		t.Errorf("empty approve: status = %d, want 400", w.Code)
	}

	body := `{"variant":"B","subject":"Edited","body":"Edited body"}`
	if w := e.do(http.MethodPost, "/leads/"+lead.ID.String()+"/approve", body); w.Code != http.StatusOK {
		t.Fatalf("approve: status = %d: %s", w.Code, w.Body.String())
	}

	got, _ := e.store.GetByID(lead.ID)
	if got.Status != domain.StatusReady {
		t.Errorf("status = %q, want READY", got.Status)
	}

	// Sending a second approve against READY re-approves; sending against
	// SENT conflicts.
	if w := e.do(http.MethodPost, "/leads/"+lead.ID.String()+"/send", ""); w.Code != http.StatusOK {
		t.Fatalf("send: status = %d", w.Code)
	}
	if w := e.do(http.MethodPost, "/leads/"+lead.ID.String()+"/send", ""); w.Code != http.StatusConflict {
		t.Errorf("second send: status = %d, want 409", w.Code)
	}
}

func TestDeleteIsIdempotentOverHTTP(t *testing.T) {
	e := newEnv(t, stubSearcher{})
	lead := e.seed(t)

	if w := e.do(http.MethodDelete, "/leads/"+lead.ID.String(), ""); w.Code != http.StatusNoContent {
		t.Fatalf("delete: status = %d, want 204", w.Code)
	}
	if w := e.do(http.MethodDelete, "/leads/"+lead.ID.String(), ""); w.Code != http.StatusNoContent {
		t.Errorf("repeat delete: status = %d, want 204", w.Code)
	}
}

func TestBulkEndpoints(t *testing.T) {
	e := newEnv(t, stubSearcher{})
	e.seed(t)

	if w := e.do(http.MethodPost, "/leads/bulk/explode", ""); w.Code != http.StatusBadRequest {
		t.Errorf("unknown action: status = %d, want 400", w.Code)
	}

	if w := e.do(http.MethodPost, "/leads/bulk/generate", ""); w.Code != http.StatusAccepted {
		t.Fatalf("bulk generate: status = %d: %s", w.Code, w.Body.String())
	}
	e.runner.Wait()

	if w := e.do(http.MethodGet, "/leads/bulk/status", ""); w.Code != http.StatusOK {
		t.Errorf("bulk status: status = %d, want 200", w.Code)
	}
}

func TestStatsEndpoint(t *testing.T) {
	e := newEnv(t, stubSearcher{})
	e.seed(t)

	w := e.do(http.MethodGet, "/leads/stats", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if !strings.Contains(w.Body.String(), `"total":1`) {
		t.Errorf("body = %s", w.Body.String())
	}
}
