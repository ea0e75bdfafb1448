package ward

import (
	"context"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwalitptl/hospital-api/internal/model"
	"github.com/jwalitptl/hospital-api/internal/repository"
	apperrors "github.com/jwalitptl/hospital-api/pkg/errors"
)

type mockRepo struct {
	wards map[uuid.UUID]*model.Ward
	beds  []*model.Bed
}

func (m *mockRepo) CreateWard(ctx context.Context, ward *model.Ward) error {
	for _, w := range m.wards {
		if w.Name == ward.Name {
			return repository.ErrDuplicate
		}
	}
	m.wards[ward.ID] = ward
	return nil
}

func (m *mockRepo) GetWard(ctx context.Context, id uuid.UUID) (*model.Ward, error) {
	w, ok := m.wards[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return w, nil
}

func (m *mockRepo) ListWards(ctx context.Context) ([]*model.Ward, error) {
	out := []*model.Ward{}
	for _, w := range m.wards {
		out = append(out, w)
	}
	return out, nil
}

func (m *mockRepo) CreateBed(ctx context.Context, bed *model.Bed) error {
	for _, b := range m.beds {
		if b.WardID == bed.WardID && b.Number == bed.Number {
			return repository.ErrDuplicate
		}
	}
	m.beds = append(m.beds, bed)
	return nil
}

func (m *mockRepo) GetBed(ctx context.Context, id uuid.UUID) (*model.Bed, error) {
	for _, b := range m.beds {
		if b.ID == id {
			return b, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *mockRepo) ListBeds(ctx context.Context, wardID uuid.UUID) ([]*model.Bed, error) {
	out := []*model.Bed{}
	for _, b := range m.beds {
		if b.WardID == wardID {
			out = append(out, b)
		}
	}
	return out, nil
}

func TestWardAndBeds(t *testing.T) {
	svc := NewService(&mockRepo{wards: map[uuid.UUID]*model.Ward{}})
	ctx := context.Background()

	ward, err := svc.CreateWard(ctx, &model.CreateWardRequest{Name: " ICU ", Type: model.WardTypeICU, Floor: 2})
	require.NoError(t, err)
	assert.Equal(t, "ICU", ward.Name)

	_, err = svc.CreateWard(ctx, &model.CreateWardRequest{Name: "ICU", Type: model.WardTypeICU})
	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, http.StatusConflict, appErr.StatusCode())

	bed, err := svc.CreateBed(ctx, ward.ID, &model.CreateBedRequest{Number: "ICU-1"})
	require.NoError(t, err)
	assert.False(t, bed.Occupied)

	_, err = svc.CreateBed(ctx, ward.ID, &model.CreateBedRequest{Number: "ICU-1"})
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, http.StatusConflict, appErr.StatusCode())

	beds, err := svc.ListBeds(ctx, ward.ID)
	require.NoError(t, err)
	assert.Len(t, beds, 1)
}

func TestCreateBed_UnknownWard(t *testing.T) {
	svc := NewService(&mockRepo{wards: map[uuid.UUID]*model.Ward{}})

	_, err := svc.CreateBed(context.Background(), uuid.New(), &model.CreateBedRequest{Number: "1"})

	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, http.StatusNotFound, appErr.StatusCode())
	assert.Equal(t, "ward not found", appErr.Message)
}
