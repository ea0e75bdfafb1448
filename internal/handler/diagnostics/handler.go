package diagnostics

import (
	"github.com/gin-gonic/gin"

	"github.com/jwalitptl/hospital-api/internal/handler"
	"github.com/jwalitptl/hospital-api/internal/model"
	"github.com/jwalitptl/hospital-api/internal/service/diagnostics"
	"github.com/jwalitptl/hospital-api/pkg/httputil"
)

// Handler serves both lab and radiology orders.
type Handler struct {
	service diagnostics.DiagnosticsService
}

func NewHandler(service diagnostics.DiagnosticsService) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	lab := r.Group("/lab/orders")
	{
		lab.GET("", h.ListLabOrders)
		lab.POST("", h.CreateLabOrder)
		lab.GET("/:id", h.GetLabOrder)
		lab.POST("/:id/result", h.RecordLabResult)
	}

	radiology := r.Group("/radiology/orders")
	{
		radiology.GET("", h.ListRadiologyOrders)
		radiology.POST("", h.CreateRadiologyOrder)
		radiology.GET("/:id", h.GetRadiologyOrder)
		radiology.POST("/:id/report", h.RecordRadiologyReport)
	}
}

func orderFilters(c *gin.Context) (*model.OrderFilters, bool) {
	patientID, ok := handler.QueryID(c, "patientId")
	if !ok {
		return nil, false
	}
	return &model.OrderFilters{
		PatientID: patientID,
		Status:    model.OrderStatus(c.Query("status")),
	}, true
}

func (h *Handler) ListLabOrders(c *gin.Context) {
	filters, ok := orderFilters(c)
	if !ok {
		return
	}

	orders, err := h.service.ListLabOrders(c.Request.Context(), filters)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, orders)
}

func (h *Handler) CreateLabOrder(c *gin.Context) {
	var req model.CreateLabOrderRequest
	if !handler.BindJSON(c, &req) {
		return
	}

	order, err := h.service.CreateLabOrder(c.Request.Context(), &req)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithCreated(c, order)
}

func (h *Handler) GetLabOrder(c *gin.Context) {
	id, ok := handler.PathID(c, "id", "lab order")
	if !ok {
		return
	}

	order, err := h.service.GetLabOrder(c.Request.Context(), id)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, order)
}

func (h *Handler) RecordLabResult(c *gin.Context) {
	id, ok := handler.PathID(c, "id", "lab order")
	if !ok {
		return
	}
	var req model.LabResultRequest
	if !handler.BindJSON(c, &req) {
		return
	}

	order, err := h.service.RecordLabResult(c.Request.Context(), id, &req)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, order)
}

func (h *Handler) ListRadiologyOrders(c *gin.Context) {
	filters, ok := orderFilters(c)
	if !ok {
		return
	}

	orders, err := h.service.ListRadiologyOrders(c.Request.Context(), filters)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, orders)
}

func (h *Handler) CreateRadiologyOrder(c *gin.Context) {
	var req model.CreateRadiologyOrderRequest
	if !handler.BindJSON(c, &req) {
		return
	}

	order, err := h.service.CreateRadiologyOrder(c.Request.Context(), &req)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithCreated(c, order)
}

func (h *Handler) GetRadiologyOrder(c *gin.Context) {
	id, ok := handler.PathID(c, "id", "radiology order")
	if !ok {
		return
	}

	order, err := h.service.GetRadiologyOrder(c.Request.Context(), id)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, order)
}

func (h *Handler) RecordRadiologyReport(c *gin.Context) {
	id, ok := handler.PathID(c, "id", "radiology order")
	if !ok {
		return
	}
	var req model.RadiologyReportRequest
	if !handler.BindJSON(c, &req) {
		return
	}

	order, err := h.service.RecordRadiologyReport(c.Request.Context(), id, &req)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, order)
}
