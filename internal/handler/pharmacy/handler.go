package pharmacy

import (
	"github.com/gin-gonic/gin"

	"github.com/jwalitptl/hospital-api/internal/handler"
	"github.com/jwalitptl/hospital-api/internal/model"
	"github.com/jwalitptl/hospital-api/internal/service/pharmacy"
	"github.com/jwalitptl/hospital-api/pkg/httputil"
)

type Handler struct {
	service pharmacy.PharmacyService
}

func NewHandler(service pharmacy.PharmacyService) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	group := r.Group("/pharmacy")
	{
		group.GET("/medications", h.ListMedications)
		group.POST("/medications", h.CreateMedication)
		group.GET("/medications/:id", h.GetMedication)
		group.POST("/medications/:id/restock", h.Restock)

		group.GET("/prescriptions", h.ListPrescriptions)
		group.POST("/prescriptions", h.CreatePrescription)
		group.GET("/prescriptions/:id", h.GetPrescription)
		group.POST("/prescriptions/:id/dispense", h.Dispense)
	}
}

func (h *Handler) ListMedications(c *gin.Context) {
	medications, err := h.service.ListMedications(c.Request.Context())
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, medications)
}

func (h *Handler) CreateMedication(c *gin.Context) {
	var req model.CreateMedicationRequest
	if !handler.BindJSON(c, &req) {
		return
	}

	medication, err := h.service.CreateMedication(c.Request.Context(), &req)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithCreated(c, medication)
}

func (h *Handler) GetMedication(c *gin.Context) {
	id, ok := handler.PathID(c, "id", "medication")
	if !ok {
		return
	}

	medication, err := h.service.GetMedication(c.Request.Context(), id)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, medication)
}

func (h *Handler) Restock(c *gin.Context) {
	id, ok := handler.PathID(c, "id", "medication")
	if !ok {
		return
	}
	var req model.RestockRequest
	if !handler.BindJSON(c, &req) {
		return
	}

	medication, err := h.service.Restock(c.Request.Context(), id, &req)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, medication)
}

func (h *Handler) ListPrescriptions(c *gin.Context) {
	patientID, ok := handler.QueryID(c, "patientId")
	if !ok {
		return
	}

	prescriptions, err := h.service.ListPrescriptions(c.Request.Context(), &model.PrescriptionFilters{
		PatientID: patientID,
		Status:    model.PrescriptionStatus(c.Query("status")),
	})
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, prescriptions)
}

func (h *Handler) CreatePrescription(c *gin.Context) {
	var req model.CreatePrescriptionRequest
	if !handler.BindJSON(c, &req) {
		return
	}

	prescription, err := h.service.CreatePrescription(c.Request.Context(), &req)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithCreated(c, prescription)
}

func (h *Handler) GetPrescription(c *gin.Context) {
	id, ok := handler.PathID(c, "id", "prescription")
	if !ok {
		return
	}

	prescription, err := h.service.GetPrescription(c.Request.Context(), id)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, prescription)
}

func (h *Handler) Dispense(c *gin.Context) {
	id, ok := handler.PathID(c, "id", "prescription")
	if !ok {
		return
	}

	prescription, err := h.service.Dispense(c.Request.Context(), id)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, prescription)
}
