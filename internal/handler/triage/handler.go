package triage

import (
	"github.com/gin-gonic/gin"

	"github.com/jwalitptl/hospital-api/internal/handler"
	"github.com/jwalitptl/hospital-api/internal/model"
	"github.com/jwalitptl/hospital-api/internal/service/triage"
	"github.com/jwalitptl/hospital-api/pkg/httputil"
)

type Handler struct {
	service triage.TriageService
}

func NewHandler(service triage.TriageService) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	group := r.Group("/triage")
	{
		group.GET("", h.Queue)
		group.POST("", h.CreateRecord)
		group.GET("/:id", h.GetRecord)
		group.POST("/:id/seen", h.MarkSeen)
	}
}

// Queue lists waiting patients ordered by level, then arrival.
func (h *Handler) Queue(c *gin.Context) {
	records, err := h.service.Queue(c.Request.Context())
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, records)
}

func (h *Handler) CreateRecord(c *gin.Context) {
	var req model.CreateTriageRequest
	if !handler.BindJSON(c, &req) {
		return
	}

	record, err := h.service.CreateRecord(c.Request.Context(), &req)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithCreated(c, record)
}

func (h *Handler) GetRecord(c *gin.Context) {
	id, ok := handler.PathID(c, "id", "triage record")
	if !ok {
		return
	}

	record, err := h.service.GetRecord(c.Request.Context(), id)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, record)
}

func (h *Handler) MarkSeen(c *gin.Context) {
	id, ok := handler.PathID(c, "id", "triage record")
	if !ok {
		return
	}

	record, err := h.service.MarkSeen(c.Request.Context(), id)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, record)
}
