package appointment

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwalitptl/hospital-api/internal/model"
	apperrors "github.com/jwalitptl/hospital-api/pkg/errors"
	"github.com/jwalitptl/hospital-api/pkg/validator"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	if err := validator.Register(); err != nil {
		panic(err)
	}
	os.Exit(m.Run())
}

type stubAppointments struct {
	filters      *model.AppointmentFilters
	cancelReason string
}

func (s *stubAppointments) CreateAppointment(ctx context.Context, req *model.CreateAppointmentRequest) (*model.Appointment, error) {
	return &model.Appointment{
		Base:      model.Base{ID: uuid.New()},
		PatientID: req.PatientID,
		DoctorID:  req.DoctorID,
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
		Status:    model.AppointmentStatusScheduled,
	}, nil
}

func (s *stubAppointments) GetAppointment(ctx context.Context, id uuid.UUID) (*model.Appointment, error) {
	return nil, apperrors.NotFound("appointment", nil)
}

func (s *stubAppointments) ListAppointments(ctx context.Context, filters *model.AppointmentFilters) ([]*model.Appointment, error) {
	s.filters = filters
	return []*model.Appointment{}, nil
}

func (s *stubAppointments) CancelAppointment(ctx context.Context, id uuid.UUID, reason string) (*model.Appointment, error) {
	s.cancelReason = reason
	return &model.Appointment{Base: model.Base{ID: id}, Status: model.AppointmentStatusCancelled}, nil
}

func (s *stubAppointments) CompleteAppointment(ctx context.Context, id uuid.UUID) (*model.Appointment, error) {
	return &model.Appointment{Base: model.Base{ID: id}, Status: model.AppointmentStatusCompleted}, nil
}

func perform(svc *stubAppointments, method, path string, body interface{}) *httptest.ResponseRecorder {
	r := gin.New()
	NewHandler(svc).RegisterRoutes(r.Group("/api"))

	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestCreateAppointment(t *testing.T) {
	start := time.Now().Add(24 * time.Hour).UTC().Truncate(time.Minute)

	t.Run("created", func(t *testing.T) {
		w := perform(&stubAppointments{}, http.MethodPost, "/api/appointments", gin.H{
			"patient_id": uuid.New(),
			"doctor_id":  uuid.New(),
			"department": "cardiology",
			"start_time": start,
			"end_time":   start.Add(30 * time.Minute),
		})
		assert.Equal(t, http.StatusCreated, w.Code)
	})

	t.Run("end before start", func(t *testing.T) {
		w := perform(&stubAppointments{}, http.MethodPost, "/api/appointments", gin.H{
			"patient_id": uuid.New(),
			"doctor_id":  uuid.New(),
			"department": "cardiology",
			"start_time": start,
			"end_time":   start.Add(-30 * time.Minute),
		})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestListAppointments_Filters(t *testing.T) {
	svc := &stubAppointments{}
	doctor := uuid.New()

	w := perform(svc, http.MethodGet, "/api/appointments?doctorId="+doctor.String()+"&from=2026-01-01&status=scheduled", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, svc.filters)
	assert.Equal(t, doctor, *svc.filters.DoctorID)
	assert.Nil(t, svc.filters.PatientID)
	require.NotNil(t, svc.filters.From)
	assert.Equal(t, 2026, svc.filters.From.Year())
	assert.Equal(t, model.AppointmentStatusScheduled, svc.filters.Status)

	w = perform(svc, http.MethodGet, "/api/appointments?patientId=nope", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCancelAppointment(t *testing.T) {
	svc := &stubAppointments{}
	id := uuid.New().String()

	w := perform(svc, http.MethodPost, "/api/appointments/"+id+"/cancel", gin.H{})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = perform(svc, http.MethodPost, "/api/appointments/"+id+"/cancel", gin.H{"reason": "patient request"})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "patient request", svc.cancelReason)
}

func TestGetAppointment(t *testing.T) {
	w := perform(&stubAppointments{}, http.MethodGet, "/api/appointments/not-a-uuid", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = perform(&stubAppointments{}, http.MethodGet, "/api/appointments/"+uuid.New().String(), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
