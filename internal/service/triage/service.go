package triage

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jwalitptl/hospital-api/internal/model"
	"github.com/jwalitptl/hospital-api/internal/repository"
	"github.com/jwalitptl/hospital-api/internal/service"
	apperrors "github.com/jwalitptl/hospital-api/pkg/errors"
	"github.com/jwalitptl/hospital-api/pkg/logger"
)

type TriageService interface {
	CreateRecord(ctx context.Context, req *model.CreateTriageRequest) (*model.TriageRecord, error)
	GetRecord(ctx context.Context, id uuid.UUID) (*model.TriageRecord, error)
	Queue(ctx context.Context) ([]*model.TriageRecord, error)
	MarkSeen(ctx context.Context, id uuid.UUID) (*model.TriageRecord, error)
}

type Service struct {
	repo   repository.TriageRepository
	logger *logger.Logger
	now    func() time.Time
}

func NewService(repo repository.TriageRepository, logger *logger.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

func (s *Service) CreateRecord(ctx context.Context, req *model.CreateTriageRequest) (*model.TriageRecord, error) {
	if req.Level < model.TriageResuscitation || req.Level > model.TriageNonUrgent {
		return nil, apperrors.BadRequest("triage level must be between 1 and 5", nil)
	}

	now := s.now()
	arrived := now
	if req.ArrivedAt != nil {
		if req.ArrivedAt.After(now) {
			return nil, apperrors.BadRequest("arrival time cannot be in the future", nil)
		}
		arrived = req.ArrivedAt.UTC()
	}

	record := &model.TriageRecord{
		Base:             model.Base{ID: uuid.New()},
		PatientID:        req.PatientID,
		Level:            req.Level,
		ChiefComplaint:   strings.TrimSpace(req.ChiefComplaint),
		HeartRate:        req.HeartRate,
		RespiratoryRate:  req.RespiratoryRate,
		BloodPressure:    req.BloodPressure,
		Temperature:      req.Temperature,
		OxygenSaturation: req.OxygenSaturation,
		Status:           model.TriageStatusWaiting,
		ArrivedAt:        arrived,
	}
	if err := s.repo.Create(ctx, record); err != nil {
		return nil, service.RepoError(err, "triage record")
	}

	if record.Level == model.TriageResuscitation {
		s.logger.Warn("resuscitation triage",
			"triage_id", record.ID.String(),
			"patient_id", record.PatientID.String())
	}
	return record, nil
}

func (s *Service) GetRecord(ctx context.Context, id uuid.UUID) (*model.TriageRecord, error) {
	record, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, service.RepoError(err, "triage record")
	}
	return record, nil
}

// Queue lists waiting patients, most urgent first.
func (s *Service) Queue(ctx context.Context) ([]*model.TriageRecord, error) {
	records, err := s.repo.Queue(ctx)
	if err != nil {
		return nil, service.RepoError(err, "triage record")
	}
	return records, nil
}

func (s *Service) MarkSeen(ctx context.Context, id uuid.UUID) (*model.TriageRecord, error) {
	record, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, service.RepoError(err, "triage record")
	}
	if record.Status != model.TriageStatusWaiting {
		return nil, apperrors.BadRequest("patient has already been seen", nil)
	}

	at := s.now()
	if err := s.repo.MarkSeen(ctx, id, at); err != nil {
		return nil, service.RepoError(err, "triage record")
	}
	record.Status = model.TriageStatusSeen
	record.SeenAt = &at
	record.UpdatedAt = at
	return record, nil
}
