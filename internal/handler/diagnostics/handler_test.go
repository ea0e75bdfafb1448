package diagnostics

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwalitptl/hospital-api/internal/model"
	"github.com/jwalitptl/hospital-api/internal/repository"
	"github.com/jwalitptl/hospital-api/internal/service"
	"github.com/jwalitptl/hospital-api/pkg/validator"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	if err := validator.Register(); err != nil {
		panic(err)
	}
	os.Exit(m.Run())
}

// stubDiagnostics completes an order on the first result or report and
// refuses the second one.
type stubDiagnostics struct {
	completed map[uuid.UUID]bool
	filters   *model.OrderFilters
}

func newStub() *stubDiagnostics {
	return &stubDiagnostics{completed: map[uuid.UUID]bool{}}
}

func (s *stubDiagnostics) complete(id uuid.UUID) error {
	if s.completed[id] {
		return service.RepoError(repository.ErrOrderClosed, "order")
	}
	s.completed[id] = true
	return nil
}

func (s *stubDiagnostics) CreateLabOrder(ctx context.Context, req *model.CreateLabOrderRequest) (*model.LabOrder, error) {
	return &model.LabOrder{Base: model.Base{ID: uuid.New()}, PatientID: req.PatientID, TestCode: req.TestCode, Status: model.OrderStatusOrdered}, nil
}

func (s *stubDiagnostics) GetLabOrder(ctx context.Context, id uuid.UUID) (*model.LabOrder, error) {
	return nil, service.RepoError(repository.ErrNotFound, "lab order")
}

func (s *stubDiagnostics) ListLabOrders(ctx context.Context, filters *model.OrderFilters) ([]*model.LabOrder, error) {
	s.filters = filters
	return []*model.LabOrder{}, nil
}

func (s *stubDiagnostics) RecordLabResult(ctx context.Context, id uuid.UUID, req *model.LabResultRequest) (*model.LabOrder, error) {
	if err := s.complete(id); err != nil {
		return nil, err
	}
	return &model.LabOrder{Base: model.Base{ID: id}, Status: model.OrderStatusCompleted, Result: &req.Result, ResultFlag: &req.Flag}, nil
}

func (s *stubDiagnostics) CreateRadiologyOrder(ctx context.Context, req *model.CreateRadiologyOrderRequest) (*model.RadiologyOrder, error) {
	return &model.RadiologyOrder{Base: model.Base{ID: uuid.New()}, PatientID: req.PatientID, Modality: req.Modality, Status: model.OrderStatusOrdered}, nil
}

func (s *stubDiagnostics) GetRadiologyOrder(ctx context.Context, id uuid.UUID) (*model.RadiologyOrder, error) {
	return &model.RadiologyOrder{Base: model.Base{ID: id}}, nil
}

func (s *stubDiagnostics) ListRadiologyOrders(ctx context.Context, filters *model.OrderFilters) ([]*model.RadiologyOrder, error) {
	s.filters = filters
	return []*model.RadiologyOrder{}, nil
}

func (s *stubDiagnostics) RecordRadiologyReport(ctx context.Context, id uuid.UUID, req *model.RadiologyReportRequest) (*model.RadiologyOrder, error) {
	if err := s.complete(id); err != nil {
		return nil, err
	}
	return &model.RadiologyOrder{Base: model.Base{ID: id}, Status: model.OrderStatusCompleted, Findings: &req.Findings}, nil
}

func perform(svc *stubDiagnostics, method, path string, body interface{}) *httptest.ResponseRecorder {
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

func errorMessage(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Error string `json:"error"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body.Error
}

func TestCreateLabOrder(t *testing.T) {
	tests := []struct {
		name string
		body gin.H
		code int
	}{
		{"valid", gin.H{"patient_id": uuid.New(), "test_code": "CBC", "test_name": "Full blood count", "ordered_by": "Dr. Bailey"}, http.StatusCreated},
		{"stat priority", gin.H{"patient_id": uuid.New(), "test_code": "K", "test_name": "Potassium", "ordered_by": "Dr. Bailey", "priority": "stat"}, http.StatusCreated},
		{"unknown priority", gin.H{"patient_id": uuid.New(), "test_code": "K", "test_name": "Potassium", "ordered_by": "Dr. Bailey", "priority": "whenever"}, http.StatusBadRequest},
		{"missing test code", gin.H{"patient_id": uuid.New(), "test_name": "Potassium", "ordered_by": "Dr. Bailey"}, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := perform(newStub(), http.MethodPost, "/api/lab/orders", tt.body)
			assert.Equal(t, tt.code, w.Code)
		})
	}
}

func TestRecordLabResult(t *testing.T) {
	svc := newStub()
	path := "/api/lab/orders/" + uuid.New().String() + "/result"

	w := perform(svc, http.MethodPost, path, gin.H{"result": "4.1 mmol/L", "flag": "borderline"})
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, errorMessage(t, w), "must be one of [normal abnormal critical]")

	w = perform(svc, http.MethodPost, path, gin.H{"result": "6.8 mmol/L", "flag": "critical"})
	require.Equal(t, http.StatusOK, w.Code)

	w = perform(svc, http.MethodPost, path, gin.H{"result": "4.1 mmol/L", "flag": "normal"})
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, repository.ErrOrderClosed.Error(), errorMessage(t, w))
}

func TestGetLabOrder(t *testing.T) {
	w := perform(newStub(), http.MethodGet, "/api/lab/orders/not-a-uuid", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "invalid lab order ID", errorMessage(t, w))

	w = perform(newStub(), http.MethodGet, "/api/lab/orders/"+uuid.New().String(), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestListOrders_Filters(t *testing.T) {
	svc := newStub()
	patientID := uuid.New()

	w := perform(svc, http.MethodGet, "/api/lab/orders?patientId="+patientID.String()+"&status=ordered", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, svc.filters.PatientID)
	assert.Equal(t, patientID, *svc.filters.PatientID)
	assert.Equal(t, model.OrderStatusOrdered, svc.filters.Status)

	w = perform(svc, http.MethodGet, "/api/radiology/orders?patientId=42", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreateRadiologyOrder_Modality(t *testing.T) {
	for _, tc := range []struct {
		modality string
		code     int
	}{
		{"mri", http.StatusCreated},
		{"xray", http.StatusCreated},
		{"pet", http.StatusBadRequest},
	} {
		w := perform(newStub(), http.MethodPost, "/api/radiology/orders", gin.H{
			"patient_id": uuid.New(),
			"modality":   tc.modality,
			"body_part":  "chest",
			"ordered_by": "Dr. Yang",
		})
		assert.Equal(t, tc.code, w.Code, "modality %s", tc.modality)
	}
}

func TestRecordRadiologyReport(t *testing.T) {
	svc := newStub()
	path := "/api/radiology/orders/" + uuid.New().String() + "/report"

	w := perform(svc, http.MethodPost, path, gin.H{"findings": "clear lung fields"})
	require.Equal(t, http.StatusBadRequest, w.Code)

	report := gin.H{"findings": "clear lung fields", "impression": "no acute disease"}
	w = perform(svc, http.MethodPost, path, report)
	require.Equal(t, http.StatusOK, w.Code)

	w = perform(svc, http.MethodPost, path, report)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
