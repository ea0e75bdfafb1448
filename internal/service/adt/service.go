package adt

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/jwalitptl/hospital-api/internal/model"
	"github.com/jwalitptl/hospital-api/internal/repository"
	"github.com/jwalitptl/hospital-api/internal/service"
	apperrors "github.com/jwalitptl/hospital-api/pkg/errors"
	"github.com/jwalitptl/hospital-api/pkg/logger"
	"github.com/jwalitptl/hospital-api/pkg/metrics"
)

const aggregateAdmission = "admission"

// ADTService admits, transfers and discharges patients. Every mutating call
// runs in a single transaction together with its outbox event.
type ADTService interface {
	Admit(ctx context.Context, req *model.CreateAdmissionRequest) (*model.Admission, error)
	Transfer(ctx context.Context, req *model.CreateTransferRequest) (*model.Transfer, error)
	Discharge(ctx context.Context, req *model.CreateDischargeRequest) (*model.Discharge, error)
	UpdateAdmission(ctx context.Context, id uuid.UUID, req *model.UpdateAdmissionRequest) (*model.Admission, error)
	GetAdmission(ctx context.Context, id uuid.UUID) (*model.Admission, error)
	ListAdmissions(ctx context.Context, filters *model.AdmissionFilters) ([]*model.Admission, error)
	ListTransfers(ctx context.Context, admissionID *uuid.UUID) ([]*model.Transfer, error)
	ListDischarges(ctx context.Context, filters *model.DischargeFilters) ([]*model.Discharge, error)
	Census(ctx context.Context) ([]*model.WardCensus, error)
	ExportCensus(ctx context.Context) ([]byte, error)
}

type Service struct {
	repo    repository.ADTRepository
	metrics *metrics.Metrics
	logger  *logger.Logger
	now     func() time.Time
}

func NewService(repo repository.ADTRepository, metrics *metrics.Metrics, logger *logger.Logger) *Service {
	return &Service{
		repo:    repo,
		metrics: metrics,
		logger:  logger,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

func (s *Service) Admit(ctx context.Context, req *model.CreateAdmissionRequest) (*model.Admission, error) {
	now := s.now()
	admission := &model.Admission{
		Base:            model.Base{ID: uuid.New(), CreatedAt: now, UpdatedAt: now},
		PatientID:       req.PatientID,
		WardID:          req.WardID,
		BedID:           req.BedID,
		AdmissionDate:   dateOr(req.AdmissionDate, now),
		Reason:          req.Reason,
		AttendingDoctor: req.AttendingDoctor,
		Notes:           req.Notes,
	}

	err := s.repo.WithTx(ctx, func(tx repository.ADTTx) error {
		patient, err := tx.GetPatient(ctx, req.PatientID)
		if err != nil {
			return service.RepoError(err, "patient")
		}
		if _, err := tx.GetWard(ctx, req.WardID); err != nil {
			return service.RepoError(err, "ward")
		}
		if req.BedID != nil {
			if err := claimBed(ctx, tx, *req.BedID, req.WardID); err != nil {
				return err
			}
		}

		if err := tx.CreateAdmission(ctx, admission); err != nil {
			return service.RepoError(err, "admission")
		}
		admission.PatientName = patient.FullName()

		return enqueue(ctx, tx, admission.ID, model.EventAdmitted, admission)
	})
	if err != nil {
		return nil, s.fail("admit", err)
	}

	s.metrics.Admissions.Inc()
	s.logger.Info("patient admitted",
		"admission_id", admission.ID.String(),
		"patient_id", admission.PatientID.String(),
		"ward_id", admission.WardID.String())
	return admission, nil
}

func (s *Service) Transfer(ctx context.Context, req *model.CreateTransferRequest) (*model.Transfer, error) {
	now := s.now()
	var transfer *model.Transfer

	err := s.repo.WithTx(ctx, func(tx repository.ADTTx) error {
		admission, err := tx.LockAdmission(ctx, req.AdmissionID)
		if err != nil {
			return service.RepoError(err, "admission")
		}
		if !admission.IsOpen() {
			return apperrors.BadRequest("admission is already discharged", nil)
		}
		if _, err := tx.GetWard(ctx, req.ToWardID); err != nil {
			return service.RepoError(err, "ward")
		}

		if req.ToBedID != nil {
			if sameBed(admission.BedID, req.ToBedID) {
				return apperrors.BadRequest("patient already occupies this bed", nil)
			}
			if err := claimBed(ctx, tx, *req.ToBedID, req.ToWardID); err != nil {
				return err
			}
		} else if req.ToWardID == admission.WardID && admission.BedID == nil {
			return apperrors.BadRequest("transfer must change the ward or the bed", nil)
		}

		at := dateOr(req.TransferDate, now)
		if err := checkEventDate(ctx, tx, admission, at, "transfer"); err != nil {
			return err
		}

		transfer = &model.Transfer{
			ID:           uuid.New(),
			AdmissionID:  admission.ID,
			FromWardID:   admission.WardID,
			FromBedID:    admission.BedID,
			ToWardID:     req.ToWardID,
			ToBedID:      req.ToBedID,
			TransferDate: at,
			Reason:       req.Reason,
			CreatedAt:    now,
		}

		// Moving the admission releases the old bed and claims the new one
		// in the same statement.
		admission.WardID = req.ToWardID
		admission.BedID = req.ToBedID
		admission.UpdatedAt = now
		if err := tx.UpdateAdmission(ctx, admission); err != nil {
			return service.RepoError(err, "admission")
		}
		if err := tx.CreateTransfer(ctx, transfer); err != nil {
			return service.RepoError(err, "transfer")
		}

		return enqueue(ctx, tx, admission.ID, model.EventTransferred, transfer)
	})
	if err != nil {
		return nil, s.fail("transfer", err)
	}

	s.metrics.Transfers.Inc()
	s.logger.Info("patient transferred",
		"admission_id", transfer.AdmissionID.String(),
		"to_ward_id", transfer.ToWardID.String())
	return transfer, nil
}

func (s *Service) Discharge(ctx context.Context, req *model.CreateDischargeRequest) (*model.Discharge, error) {
	now := s.now()
	var discharge *model.Discharge

	err := s.repo.WithTx(ctx, func(tx repository.ADTTx) error {
		admission, err := tx.LockAdmission(ctx, req.AdmissionID)
		if err != nil {
			return service.RepoError(err, "admission")
		}
		if !admission.IsOpen() {
			return apperrors.BadRequest("admission is already discharged", nil)
		}

		at := dateOr(req.DischargeDate, now)
		if err := checkEventDate(ctx, tx, admission, at, "discharge"); err != nil {
			return err
		}

		admission.DischargedAt = &at
		admission.UpdatedAt = now
		if err := tx.UpdateAdmission(ctx, admission); err != nil {
			return service.RepoError(err, "admission")
		}

		discharge = &model.Discharge{
			ID:            uuid.New(),
			AdmissionID:   admission.ID,
			PatientID:     admission.PatientID,
			BedID:         admission.BedID,
			DischargeDate: at,
			Notes:         req.Notes,
			CreatedAt:     now,
		}
		if err := tx.CreateDischarge(ctx, discharge); err != nil {
			if errors.Is(err, repository.ErrDuplicate) {
				return apperrors.BadRequest("admission is already discharged", err)
			}
			return service.RepoError(err, "discharge")
		}

		return enqueue(ctx, tx, admission.ID, model.EventDischarged, discharge)
	})
	if err != nil {
		return nil, s.fail("discharge", err)
	}

	s.metrics.Discharges.Inc()
	s.logger.Info("patient discharged",
		"admission_id", discharge.AdmissionID.String(),
		"patient_id", discharge.PatientID.String())
	return discharge, nil
}

// UpdateAdmission edits an admission in place. A ward or bed change follows
// the same occupancy rules as a transfer but records no transfer row.
func (s *Service) UpdateAdmission(ctx context.Context, id uuid.UUID, req *model.UpdateAdmissionRequest) (*model.Admission, error) {
	now := s.now()
	var admission *model.Admission

	err := s.repo.WithTx(ctx, func(tx repository.ADTTx) error {
		var err error
		admission, err = tx.LockAdmission(ctx, id)
		if err != nil {
			return service.RepoError(err, "admission")
		}

		if req.MovesPatient() {
			if !admission.IsOpen() {
				return apperrors.BadRequest("cannot move a discharged admission", nil)
			}

			wardID := admission.WardID
			if req.WardID != nil && *req.WardID != admission.WardID {
				if _, err := tx.GetWard(ctx, *req.WardID); err != nil {
					return service.RepoError(err, "ward")
				}
				wardID = *req.WardID
				if req.BedID == nil {
					admission.BedID = nil
				}
			}

			if req.BedID != nil && !sameBed(admission.BedID, req.BedID) {
				if err := claimBed(ctx, tx, *req.BedID, wardID); err != nil {
					return err
				}
				admission.BedID = req.BedID
			} else if req.BedID != nil && wardID != admission.WardID {
				return apperrors.BadRequest("bed does not belong to ward", nil)
			}
			admission.WardID = wardID
		}

		if req.Reason != nil {
			admission.Reason = *req.Reason
		}
		if req.AttendingDoctor != nil {
			admission.AttendingDoctor = req.AttendingDoctor
		}
		if req.Notes != nil {
			admission.Notes = req.Notes
		}
		admission.UpdatedAt = now

		if err := tx.UpdateAdmission(ctx, admission); err != nil {
			return service.RepoError(err, "admission")
		}
		return enqueue(ctx, tx, admission.ID, model.EventUpdated, admission)
	})
	if err != nil {
		return nil, s.fail("update", err)
	}
	return admission, nil
}

func (s *Service) GetAdmission(ctx context.Context, id uuid.UUID) (*model.Admission, error) {
	admission, err := s.repo.GetAdmission(ctx, id)
	if err != nil {
		return nil, service.RepoError(err, "admission")
	}
	return admission, nil
}

func (s *Service) ListAdmissions(ctx context.Context, filters *model.AdmissionFilters) ([]*model.Admission, error) {
	admissions, err := s.repo.ListAdmissions(ctx, filters)
	if err != nil {
		return nil, service.RepoError(err, "admission")
	}
	return admissions, nil
}

func (s *Service) ListTransfers(ctx context.Context, admissionID *uuid.UUID) ([]*model.Transfer, error) {
	transfers, err := s.repo.ListTransfers(ctx, admissionID)
	if err != nil {
		return nil, service.RepoError(err, "transfer")
	}
	return transfers, nil
}

func (s *Service) ListDischarges(ctx context.Context, filters *model.DischargeFilters) ([]*model.Discharge, error) {
	discharges, err := s.repo.ListDischarges(ctx, filters)
	if err != nil {
		return nil, service.RepoError(err, "discharge")
	}
	return discharges, nil
}

func (s *Service) Census(ctx context.Context) ([]*model.WardCensus, error) {
	census, err := s.repo.Census(ctx)
	if err != nil {
		return nil, service.RepoError(err, "ward")
	}
	return census, nil
}

// claimBed locks the bed and checks that it belongs to wardID and is free.
func claimBed(ctx context.Context, tx repository.ADTTx, bedID, wardID uuid.UUID) error {
	bed, err := tx.LockBed(ctx, bedID)
	if err != nil {
		return service.RepoError(err, "bed")
	}
	if bed.WardID != wardID {
		return apperrors.BadRequest("bed does not belong to ward", nil)
	}
	if bed.Occupied {
		return repository.ErrBedOccupied
	}
	return nil
}

func enqueue(ctx context.Context, tx repository.ADTTx, admissionID uuid.UUID, eventType string, payload interface{}) error {
	event, err := model.NewOutboxEvent(aggregateAdmission, admissionID, eventType, payload)
	if err != nil {
		return apperrors.Internal(err)
	}
	if err := tx.EnqueueEvent(ctx, event); err != nil {
		return apperrors.Internal(err)
	}
	return nil
}

// fail records bed conflicts and converts err for the caller.
func (s *Service) fail(operation string, err error) error {
	if errors.Is(err, repository.ErrBedOccupied) {
		s.metrics.BedConflicts.WithLabelValues(operation).Inc()
		s.logger.Warn("bed conflict", "operation", operation)
	}
	return service.RepoError(err, "admission")
}

func sameBed(a, b *uuid.UUID) bool {
	return a != nil && b != nil && *a == *b
}

func dateOr(t *time.Time, fallback time.Time) time.Time {
	if t == nil || t.IsZero() {
		return fallback
	}
	return t.UTC()
}

// checkEventDate keeps an admission's history ordered: a transfer or
// discharge may not predate the admission or its latest transfer.
func checkEventDate(ctx context.Context, tx repository.ADTTx, admission *model.Admission, at time.Time, kind string) error {
	if at.Before(admission.AdmissionDate) {
		return apperrors.BadRequest(kind+" date is before the admission date", nil)
	}
	latest, err := tx.LatestTransferDate(ctx, admission.ID)
	if err != nil {
		return service.RepoError(err, "transfer")
	}
	if latest != nil && at.Before(*latest) {
		return apperrors.BadRequest(kind+" date is before the latest transfer", nil)
	}
	return nil
}
