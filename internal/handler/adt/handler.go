package adt

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jwalitptl/hospital-api/internal/handler"
	"github.com/jwalitptl/hospital-api/internal/model"
	"github.com/jwalitptl/hospital-api/internal/service/adt"
	"github.com/jwalitptl/hospital-api/pkg/httputil"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type Handler struct {
	service adt.ADTService
}

func NewHandler(service adt.ADTService) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	group := r.Group("/adt")
	{
		group.GET("/admissions", h.ListAdmissions)
		group.POST("/admissions", h.Admit)
		group.GET("/admissions/:id", h.GetAdmission)
		group.PATCH("/admissions/:id", h.UpdateAdmission)

		group.GET("/transfers", h.ListTransfers)
		group.POST("/transfers", h.Transfer)

		group.GET("/discharges", h.ListDischarges)
		group.POST("/discharges", h.Discharge)

		group.GET("/census", h.Census)
		group.GET("/census/export", h.ExportCensus)
	}
}

func dateRange(c *gin.Context) (model.DateRange, bool) {
	from, ok := handler.QueryTime(c, "from")
	if !ok {
		return model.DateRange{}, false
	}
	to, ok := handler.QueryTime(c, "to")
	if !ok {
		return model.DateRange{}, false
	}
	return model.DateRange{From: from, To: to}, true
}

// ListAdmissions filters by wardId, patientId, from/to on the admission
// date and open=true for current inpatients.
func (h *Handler) ListAdmissions(c *gin.Context) {
	wardID, ok := handler.QueryID(c, "wardId")
	if !ok {
		return
	}
	patientID, ok := handler.QueryID(c, "patientId")
	if !ok {
		return
	}
	dates, ok := dateRange(c)
	if !ok {
		return
	}

	admissions, err := h.service.ListAdmissions(c.Request.Context(), &model.AdmissionFilters{
		DateRange: dates,
		WardID:    wardID,
		PatientID: patientID,
		OpenOnly:  handler.QueryBool(c, "open"),
	})
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, admissions)
}

func (h *Handler) Admit(c *gin.Context) {
	var req model.CreateAdmissionRequest
	if !handler.BindJSON(c, &req) {
		return
	}

	admission, err := h.service.Admit(c.Request.Context(), &req)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithCreated(c, admission)
}

func (h *Handler) GetAdmission(c *gin.Context) {
	id, ok := handler.PathID(c, "id", "admission")
	if !ok {
		return
	}

	admission, err := h.service.GetAdmission(c.Request.Context(), id)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, admission)
}

func (h *Handler) UpdateAdmission(c *gin.Context) {
	id, ok := handler.PathID(c, "id", "admission")
	if !ok {
		return
	}
	var req model.UpdateAdmissionRequest
	if !handler.BindJSON(c, &req) {
		return
	}

	admission, err := h.service.UpdateAdmission(c.Request.Context(), id, &req)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, admission)
}

func (h *Handler) ListTransfers(c *gin.Context) {
	admissionID, ok := handler.QueryID(c, "admissionId")
	if !ok {
		return
	}

	transfers, err := h.service.ListTransfers(c.Request.Context(), admissionID)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, transfers)
}

func (h *Handler) Transfer(c *gin.Context) {
	var req model.CreateTransferRequest
	if !handler.BindJSON(c, &req) {
		return
	}

	transfer, err := h.service.Transfer(c.Request.Context(), &req)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithCreated(c, transfer)
}

func (h *Handler) ListDischarges(c *gin.Context) {
	patientID, ok := handler.QueryID(c, "patientId")
	if !ok {
		return
	}
	dates, ok := dateRange(c)
	if !ok {
		return
	}

	discharges, err := h.service.ListDischarges(c.Request.Context(), &model.DischargeFilters{
		DateRange: dates,
		PatientID: patientID,
	})
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, discharges)
}

func (h *Handler) Discharge(c *gin.Context) {
	var req model.CreateDischargeRequest
	if !handler.BindJSON(c, &req) {
		return
	}

	discharge, err := h.service.Discharge(c.Request.Context(), &req)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithCreated(c, discharge)
}

func (h *Handler) Census(c *gin.Context) {
	census, err := h.service.Census(c.Request.Context())
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, census)
}

func (h *Handler) ExportCensus(c *gin.Context) {
	data, err := h.service.ExportCensus(c.Request.Context())
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	filename := fmt.Sprintf("census-%s.xlsx", time.Now().UTC().Format("2006-01-02"))
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, xlsxContentType, data)
}
