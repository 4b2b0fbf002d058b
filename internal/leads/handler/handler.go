// Package handler exposes the leads pipeline over HTTP.
package handler

import (
	"net/http"
	"strings"

	"prospector_backend/internal/leads/bulk"
	"prospector_backend/internal/leads/domain"
	"prospector_backend/internal/leads/ports"
	"prospector_backend/internal/leads/service"
	"prospector_backend/internal/leads/transport"
	"prospector_backend/platform/httpkit"
	"prospector_backend/platform/validator"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	msgInvalidRequest   = "invalid request"
	msgValidationFailed = "validation failed"
	msgInvalidLeadID    = "invalid lead id"
)

type Handler struct {
	svc    *service.Service
	runner *bulk.Runner
	val    *validator.Validator
}

func New(svc *service.Service, runner *bulk.Runner, val *validator.Validator) *Handler {
	return &Handler{svc: svc, runner: runner, val: val}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("", h.List)
	rg.GET("/stats", h.Stats)
	rg.GET("/:id", h.GetByID)
	rg.POST("/search", h.Search)
	rg.POST("/:id/generate", h.Generate)
	rg.POST("/:id/approve", h.Approve)
	rg.POST("/:id/send", h.Send)
	rg.POST("/:id/regenerate", h.Regenerate)
	rg.DELETE("/:id", h.Delete)
	rg.POST("/bulk/:action", h.StartBulk)
	rg.GET("/bulk/status", h.BulkStatus)
}

func (h *Handler) List(c *gin.Context) {
	var status *domain.Status
	if raw := c.Query("status"); raw != "" {
		s := domain.Status(strings.ToUpper(raw))
		if !domain.IsKnownStatus(s) {
			httpkit.Error(c, http.StatusBadRequest, "unknown status filter", nil)
			return
		}
		status = &s
	}

	httpkit.OK(c, h.svc.List(status))
}

func (h *Handler) Stats(c *gin.Context) {
	httpkit.OK(c, h.svc.Stats())
}

func (h *Handler) GetByID(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidLeadID, nil)
		return
	}

	lead, err := h.svc.GetByID(id)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, lead)
}

func (h *Handler) Search(c *gin.Context) {
	var req transport.SearchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	leads, err := h.svc.Search(c.Request.Context(), ports.SearchQuery{
		Keywords: req.Keywords,
		Location: req.Location,
		Role:     req.Role,
		Sources:  req.Sources,
		Pitch:    req.Pitch,
	})
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.JSON(c, http.StatusCreated, leads)
}

func (h *Handler) Generate(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidLeadID, nil)
		return
	}

	if err := h.svc.GenerateEmail(c.Request.Context(), id, ""); httpkit.HandleError(c, err) {
		return
	}

	lead, err := h.svc.GetByID(id)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, lead)
}

func (h *Handler) Approve(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidLeadID, nil)
		return
	}

	var req transport.ApproveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	if err := h.svc.Approve(c.Request.Context(), id, domain.Variant(req.Variant), req.Subject, req.Body); httpkit.HandleError(c, err) {
		return
	}

	lead, err := h.svc.GetByID(id)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, lead)
}

func (h *Handler) Send(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidLeadID, nil)
		return
	}

	if err := h.svc.Send(c.Request.Context(), id); httpkit.HandleError(c, err) {
		return
	}

	lead, err := h.svc.GetByID(id)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, lead)
}

func (h *Handler) Regenerate(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidLeadID, nil)
		return
	}

	// Body is optional; an empty body means "same brief, fresh drafts".
	var req transport.RegenerateRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
			return
		}
		if err := h.val.Struct(req); err != nil {
			httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
			return
		}
	}

	if err := h.svc.Regenerate(c.Request.Context(), id, req.Instructions); httpkit.HandleError(c, err) {
		return
	}

	lead, err := h.svc.GetByID(id)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, lead)
}

func (h *Handler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidLeadID, nil)
		return
	}

	h.svc.Delete(c.Request.Context(), id)
	c.Status(http.StatusNoContent)
}

func (h *Handler) StartBulk(c *gin.Context) {
	action, ok := parseAction(c.Param("action"))
	if !ok {
		httpkit.Error(c, http.StatusBadRequest, "unknown bulk action", nil)
		return
	}

	if err := h.runner.Start(c.Request.Context(), action); httpkit.HandleError(c, err) {
		return
	}

	httpkit.JSON(c, http.StatusAccepted, h.runner.Status())
}

func (h *Handler) BulkStatus(c *gin.Context) {
	httpkit.OK(c, h.runner.Status())
}

func parseAction(raw string) (bulk.Action, bool) {
	switch strings.ToLower(raw) {
	case "generate":
		return bulk.ActionGenerate, true
	case "approve":
		return bulk.ActionApprove, true
	case "send":
		return bulk.ActionSend, true
	default:
		return "", false
	}
}
