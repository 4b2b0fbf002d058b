package exports

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"prospector_backend/internal/leads/domain"
	"prospector_backend/internal/leads/store"

	"github.com/gin-gonic/gin"
)

func newTestRouter(st *store.Store) *gin.Engine {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	engine.GET("/leads.csv", NewHandler(st).ExportLeadsCSV)
	return engine
}

func TestExportEmptyCollectionIsBadRequest(t *testing.T) {
	router := newTestRouter(store.New())

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/leads.csv", nil))

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
}

func TestExportWritesBOMHeaderAndRows(t *testing.T) {
	st := store.New()
	score := 85
	email := "contact@acme.test"
	st.InsertRanked([]domain.Lead{
		domain.NewLead(domain.NewLeadParams{
			CompanyName:        "Acme Corp",
			Email:              &email,
			Source:             "google",
			QualificationScore: &score,
		}),
		domain.NewLead(domain.NewLeadParams{
			CompanyName: "Unscored BV",
			Source:      "google",
		}),
	})
	router := newTestRouter(st)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/leads.csv", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if got := w.Header().Get("Content-Disposition"); !strings.Contains(got, "leads-export.csv") {
		t.Errorf("content-disposition = %q", got)
	}

	body := w.Body.String()
	if !strings.HasPrefix(body, "\ufeff") {
		t.Error("CSV must start with a UTF-8 BOM")
	}

	lines := strings.Split(strings.TrimSpace(strings.TrimPrefix(body, "\ufeff")), "\n")
	if lines[0] != "Company,Score,Email,Status" {
		t.Errorf("header = %q", lines[0])
	}
	if len(lines) != 3 {
		t.Fatalf("row count = %d, want 3", len(lines))
	}
	if lines[1] != "Acme Corp,85,contact@acme.test,NEW" {
		t.Errorf("row = %q", lines[1])
	}
	// Absent score renders as an empty cell, not 0.
	if lines[2] != "Unscored BV,,,NEW" {
		t.Errorf("row = %q", lines[2])
	}
}
