package ward

import (
	"github.com/gin-gonic/gin"

	"github.com/jwalitptl/hospital-api/internal/handler"
	"github.com/jwalitptl/hospital-api/internal/model"
	"github.com/jwalitptl/hospital-api/internal/service/ward"
	"github.com/jwalitptl/hospital-api/pkg/httputil"
)

type Handler struct {
	service ward.WardService
}

func NewHandler(service ward.WardService) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	wards := r.Group("/wards")
	{
		wards.GET("", h.ListWards)
		wards.POST("", h.CreateWard)
		wards.GET("/:id", h.GetWard)
		wards.GET("/:id/beds", h.ListBeds)
		wards.POST("/:id/beds", h.CreateBed)
	}
}

func (h *Handler) ListWards(c *gin.Context) {
	wards, err := h.service.ListWards(c.Request.Context())
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, wards)
}

func (h *Handler) CreateWard(c *gin.Context) {
	var req model.CreateWardRequest
	if !handler.BindJSON(c, &req) {
		return
	}

	ward, err := h.service.CreateWard(c.Request.Context(), &req)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithCreated(c, ward)
}

func (h *Handler) GetWard(c *gin.Context) {
	id, ok := handler.PathID(c, "id", "ward")
	if !ok {
		return
	}

	ward, err := h.service.GetWard(c.Request.Context(), id)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, ward)
}

func (h *Handler) ListBeds(c *gin.Context) {
	id, ok := handler.PathID(c, "id", "ward")
	if !ok {
		return
	}

	beds, err := h.service.ListBeds(c.Request.Context(), id)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, beds)
}

func (h *Handler) CreateBed(c *gin.Context) {
	id, ok := handler.PathID(c, "id", "ward")
	if !ok {
		return
	}
	var req model.CreateBedRequest
	if !handler.BindJSON(c, &req) {
		return
	}

	bed, err := h.service.CreateBed(c.Request.Context(), id, &req)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithCreated(c, bed)
}
