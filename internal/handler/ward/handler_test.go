package ward

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
	"github.com/jwalitptl/hospital-api/pkg/validator"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	if err := validator.Register(); err != nil {
		panic(err)
	}
	os.Exit(m.Run())
}

type stubWards struct {
	bedWard uuid.UUID
}

func (s *stubWards) CreateWard(ctx context.Context, req *model.CreateWardRequest) (*model.Ward, error) {
	return &model.Ward{Base: model.Base{ID: uuid.New()}, Name: req.Name, Type: req.Type}, nil
}

func (s *stubWards) GetWard(ctx context.Context, id uuid.UUID) (*model.Ward, error) {
	return &model.Ward{Base: model.Base{ID: id}}, nil
}

func (s *stubWards) ListWards(ctx context.Context) ([]*model.Ward, error) {
	return []*model.Ward{}, nil
}

func (s *stubWards) CreateBed(ctx context.Context, wardID uuid.UUID, req *model.CreateBedRequest) (*model.Bed, error) {
	s.bedWard = wardID
	return &model.Bed{Base: model.Base{ID: uuid.New()}, WardID: wardID, Number: req.Number}, nil
}

func (s *stubWards) ListBeds(ctx context.Context, wardID uuid.UUID) ([]*model.Bed, error) {
	return []*model.Bed{{WardID: wardID, Number: "A1", Occupied: true}}, nil
}

func perform(svc *stubWards, method, path string, body interface{}) *httptest.ResponseRecorder {
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

func TestCreateWard_Type(t *testing.T) {
	w := perform(&stubWards{}, http.MethodPost, "/api/wards", gin.H{"name": "North", "type": "icu", "floor": 2})
	assert.Equal(t, http.StatusCreated, w.Code)

	w = perform(&stubWards{}, http.MethodPost, "/api/wards", gin.H{"name": "North", "type": "lounge"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestBeds(t *testing.T) {
	svc := &stubWards{}
	wardID := uuid.New()

	w := perform(svc, http.MethodPost, "/api/wards/"+wardID.String()+"/beds", gin.H{"number": "A1"})
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, wardID, svc.bedWard)

	w = perform(svc, http.MethodGet, "/api/wards/"+wardID.String()+"/beds", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var body struct {
		Data []model.Bed `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Len(t, body.Data, 1)
	assert.True(t, body.Data[0].Occupied)

	w = perform(svc, http.MethodGet, "/api/wards/bad/beds", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
