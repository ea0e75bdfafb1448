package appointment

import (
	"context"
	"io"
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwalitptl/hospital-api/internal/model"
	"github.com/jwalitptl/hospital-api/internal/repository"
	apperrors "github.com/jwalitptl/hospital-api/pkg/errors"
	"github.com/jwalitptl/hospital-api/pkg/logger"
)

type mockRepo struct {
	appointments map[uuid.UUID]*model.Appointment
}

func (m *mockRepo) Create(ctx context.Context, apt *model.Appointment) error {
	m.appointments[apt.ID] = apt
	return nil
}

func (m *mockRepo) Get(ctx context.Context, id uuid.UUID) (*model.Appointment, error) {
	apt, ok := m.appointments[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *apt
	return &cp, nil
}

func (m *mockRepo) Update(ctx context.Context, apt *model.Appointment) error {
	m.appointments[apt.ID] = apt
	return nil
}

func (m *mockRepo) List(ctx context.Context, filters *model.AppointmentFilters) ([]*model.Appointment, error) {
	out := []*model.Appointment{}
	for _, apt := range m.appointments {
		if filters.DoctorID != nil && apt.DoctorID != *filters.DoctorID {
			continue
		}
		out = append(out, apt)
	}
	return out, nil
}

func (m *mockRepo) CheckConflicts(ctx context.Context, doctorID uuid.UUID, start, end time.Time, excludeID *uuid.UUID) (bool, error) {
	for _, apt := range m.appointments {
		if excludeID != nil && apt.ID == *excludeID {
			continue
		}
		if apt.DoctorID == doctorID && apt.Status == model.AppointmentStatusScheduled &&
			apt.StartTime.Before(end) && apt.EndTime.After(start) {
			return true, nil
		}
	}
	return false, nil
}

var clock = time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC)

func newTestService() (*Service, *mockRepo) {
	repo := &mockRepo{appointments: map[uuid.UUID]*model.Appointment{}}
	svc := NewService(repo, logger.NewLogger(&logger.Config{Output: io.Discard}))
	svc.now = func() time.Time { return clock }
	return svc, repo
}

func request(doctorID uuid.UUID, start time.Time, d time.Duration) *model.CreateAppointmentRequest {
	return &model.CreateAppointmentRequest{
		PatientID:  uuid.New(),
		DoctorID:   doctorID,
		Department: "Cardiology",
		StartTime:  start,
		EndTime:    start.Add(d),
	}
}

func requireStatus(t *testing.T, err error, status int) {
	t.Helper()
	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, status, appErr.StatusCode())
}

func TestCreateAppointment_RejectsOverlap(t *testing.T) {
	svc, repo := newTestService()
	doctor := uuid.New()
	start := clock.Add(24 * time.Hour)

	_, err := svc.CreateAppointment(context.Background(), request(doctor, start, 30*time.Minute))
	require.NoError(t, err)

	_, err = svc.CreateAppointment(context.Background(), request(doctor, start.Add(15*time.Minute), 30*time.Minute))
	requireStatus(t, err, http.StatusBadRequest)

	_, err = svc.CreateAppointment(context.Background(), request(uuid.New(), start, 30*time.Minute))
	require.NoError(t, err)

	_, err = svc.CreateAppointment(context.Background(), request(doctor, start.Add(30*time.Minute), 30*time.Minute))
	require.NoError(t, err)
	assert.Len(t, repo.appointments, 3)
}

func TestCreateAppointment_TimeRules(t *testing.T) {
	svc, _ := newTestService()
	doctor := uuid.New()

	tests := []struct {
		name  string
		start time.Time
		d     time.Duration
	}{
		{"in the past", clock.Add(-time.Hour), 30 * time.Minute},
		{"too short", clock.Add(time.Hour), 5 * time.Minute},
		{"too long", clock.Add(time.Hour), 5 * time.Hour},
		{"too far ahead", clock.Add(100 * 24 * time.Hour), 30 * time.Minute},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.CreateAppointment(context.Background(), request(doctor, tt.start, tt.d))
			requireStatus(t, err, http.StatusBadRequest)
		})
	}
}

func TestCancelAppointment_FreesSlot(t *testing.T) {
	svc, _ := newTestService()
	doctor := uuid.New()
	start := clock.Add(2 * time.Hour)

	apt, err := svc.CreateAppointment(context.Background(), request(doctor, start, time.Hour))
	require.NoError(t, err)

	cancelled, err := svc.CancelAppointment(context.Background(), apt.ID, "patient unwell")
	require.NoError(t, err)
	assert.Equal(t, model.AppointmentStatusCancelled, cancelled.Status)
	assert.Equal(t, "patient unwell", *cancelled.CancelReason)

	_, err = svc.CancelAppointment(context.Background(), apt.ID, "again")
	requireStatus(t, err, http.StatusBadRequest)

	_, err = svc.CreateAppointment(context.Background(), request(doctor, start, time.Hour))
	require.NoError(t, err)
}

func TestCompleteAppointment(t *testing.T) {
	svc, _ := newTestService()
	apt, err := svc.CreateAppointment(context.Background(), request(uuid.New(), clock.Add(time.Hour), time.Hour))
	require.NoError(t, err)

	_, err = svc.CompleteAppointment(context.Background(), apt.ID)
	requireStatus(t, err, http.StatusBadRequest)

	svc.now = func() time.Time { return clock.Add(90 * time.Minute) }
	done, err := svc.CompleteAppointment(context.Background(), apt.ID)
	require.NoError(t, err)
	assert.Equal(t, model.AppointmentStatusCompleted, done.Status)

	_, err = svc.CompleteAppointment(context.Background(), uuid.New())
	requireStatus(t, err, http.StatusNotFound)
}
