package exports

import (
	"net/http"

	"prospector_backend/internal/leads/store"
	"prospector_backend/platform/httpkit"

	"github.com/gin-gonic/gin"
)

// Handler serves CSV downloads of the lead collection.
type Handler struct {
	store *store.Store
}

// NewHandler creates a new export handler.
func NewHandler(st *store.Store) *Handler {
	return &Handler{store: st}
}

// ExportLeadsCSV streams the full collection as CSV. Exporting an empty
// collection is a user error, not an empty file.
func (h *Handler) ExportLeadsCSV(c *gin.Context) {
	leads := h.store.All()
	if len(leads) == 0 {
		httpkit.Error(c, http.StatusBadRequest, "no leads to export", nil)
		return
	}

	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", "attachment; filename=leads-export.csv")

	if err := WriteCSV(c.Writer, leads); err != nil {
		// Headers are already out; nothing useful left to send.
		_ = c.Error(err)
	}
}
