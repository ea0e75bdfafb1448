package appointment

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jwalitptl/hospital-api/internal/model"
	"github.com/jwalitptl/hospital-api/internal/repository"
	"github.com/jwalitptl/hospital-api/internal/service"
	apperrors "github.com/jwalitptl/hospital-api/pkg/errors"
	"github.com/jwalitptl/hospital-api/pkg/logger"
)

const (
	MinAppointmentDuration = 15 * time.Minute
	MaxAppointmentDuration = 4 * time.Hour
	MaxAdvanceBooking      = 90 * 24 * time.Hour
)

type AppointmentService interface {
	CreateAppointment(ctx context.Context, req *model.CreateAppointmentRequest) (*model.Appointment, error)
	GetAppointment(ctx context.Context, id uuid.UUID) (*model.Appointment, error)
	ListAppointments(ctx context.Context, filters *model.AppointmentFilters) ([]*model.Appointment, error)
	CancelAppointment(ctx context.Context, id uuid.UUID, reason string) (*model.Appointment, error)
	CompleteAppointment(ctx context.Context, id uuid.UUID) (*model.Appointment, error)
}

type Service struct {
	repo   repository.AppointmentRepository
	logger *logger.Logger
	now    func() time.Time
}

func NewService(repo repository.AppointmentRepository, logger *logger.Logger) *Service {
	return &Service{repo: repo, logger: logger, now: time.Now}
}

func (s *Service) validateAppointmentTime(startTime, endTime time.Time) error {
	now := s.now()
	duration := endTime.Sub(startTime)

	if startTime.Before(now) {
		return apperrors.BadRequest("appointment cannot be scheduled in the past", nil)
	}
	if startTime.After(now.Add(MaxAdvanceBooking)) {
		return apperrors.BadRequest("appointment cannot be booked more than 90 days ahead", nil)
	}
	if duration < MinAppointmentDuration {
		return apperrors.BadRequest(fmt.Sprintf("appointment duration must be at least %v", MinAppointmentDuration), nil)
	}
	if duration > MaxAppointmentDuration {
		return apperrors.BadRequest(fmt.Sprintf("appointment duration cannot exceed %v", MaxAppointmentDuration), nil)
	}
	return nil
}

// CreateAppointment books a slot. A doctor cannot hold two scheduled
// appointments that overlap.
func (s *Service) CreateAppointment(ctx context.Context, req *model.CreateAppointmentRequest) (*model.Appointment, error) {
	if err := s.validateAppointmentTime(req.StartTime, req.EndTime); err != nil {
		return nil, err
	}

	conflict, err := s.repo.CheckConflicts(ctx, req.DoctorID, req.StartTime, req.EndTime, nil)
	if err != nil {
		return nil, service.RepoError(err, "appointment")
	}
	if conflict {
		return nil, apperrors.BadRequest("doctor already has an appointment in this time slot", nil)
	}

	apt := &model.Appointment{
		Base:       model.Base{ID: uuid.New()},
		PatientID:  req.PatientID,
		DoctorID:   req.DoctorID,
		Department: strings.TrimSpace(req.Department),
		StartTime:  req.StartTime.UTC(),
		EndTime:    req.EndTime.UTC(),
		Status:     model.AppointmentStatusScheduled,
		Reason:     req.Reason,
	}
	if err := s.repo.Create(ctx, apt); err != nil {
		return nil, service.RepoError(err, "appointment")
	}

	s.logger.Info("appointment scheduled",
		"appointment_id", apt.ID.String(),
		"doctor_id", apt.DoctorID.String())
	return apt, nil
}

func (s *Service) GetAppointment(ctx context.Context, id uuid.UUID) (*model.Appointment, error) {
	apt, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, service.RepoError(err, "appointment")
	}
	return apt, nil
}

func (s *Service) ListAppointments(ctx context.Context, filters *model.AppointmentFilters) ([]*model.Appointment, error) {
	appointments, err := s.repo.List(ctx, filters)
	if err != nil {
		return nil, service.RepoError(err, "appointment")
	}
	return appointments, nil
}

func (s *Service) CancelAppointment(ctx context.Context, id uuid.UUID, reason string) (*model.Appointment, error) {
	apt, err := s.scheduled(ctx, id)
	if err != nil {
		return nil, err
	}

	apt.Status = model.AppointmentStatusCancelled
	apt.CancelReason = &reason
	if err := s.repo.Update(ctx, apt); err != nil {
		return nil, service.RepoError(err, "appointment")
	}
	return apt, nil
}

func (s *Service) CompleteAppointment(ctx context.Context, id uuid.UUID) (*model.Appointment, error) {
	apt, err := s.scheduled(ctx, id)
	if err != nil {
		return nil, err
	}
	if apt.StartTime.After(s.now()) {
		return nil, apperrors.BadRequest("appointment has not started yet", nil)
	}

	apt.Status = model.AppointmentStatusCompleted
	if err := s.repo.Update(ctx, apt); err != nil {
		return nil, service.RepoError(err, "appointment")
	}
	return apt, nil
}

func (s *Service) scheduled(ctx context.Context, id uuid.UUID) (*model.Appointment, error) {
	apt, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, service.RepoError(err, "appointment")
	}
	if apt.Status != model.AppointmentStatusScheduled {
		return nil, apperrors.BadRequest(fmt.Sprintf("appointment is already %s", apt.Status), nil)
	}
	return apt, nil
}
