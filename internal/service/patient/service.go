package patient

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jwalitptl/hospital-api/internal/model"
	"github.com/jwalitptl/hospital-api/internal/repository"
	"github.com/jwalitptl/hospital-api/internal/service"
	apperrors "github.com/jwalitptl/hospital-api/pkg/errors"
	"github.com/jwalitptl/hospital-api/pkg/logger"
)

type PatientService interface {
	CreatePatient(ctx context.Context, req *model.CreatePatientRequest) (*model.Patient, error)
	GetPatient(ctx context.Context, id uuid.UUID) (*model.Patient, error)
	UpdatePatient(ctx context.Context, id uuid.UUID, req *model.UpdatePatientRequest) (*model.Patient, error)
	DeletePatient(ctx context.Context, id uuid.UUID) error
	ListPatients(ctx context.Context, filters *model.PatientFilters) ([]*model.Patient, int, error)
}

type Service struct {
	repo   repository.PatientRepository
	logger *logger.Logger
}

func NewService(repo repository.PatientRepository, logger *logger.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

func (s *Service) CreatePatient(ctx context.Context, req *model.CreatePatientRequest) (*model.Patient, error) {
	if req.DateOfBirth.After(time.Now()) {
		return nil, apperrors.BadRequest("date of birth cannot be in the future", nil)
	}

	patient := &model.Patient{
		Base:             model.Base{ID: uuid.New()},
		MRN:              strings.ToUpper(strings.TrimSpace(req.MRN)),
		FirstName:        strings.TrimSpace(req.FirstName),
		LastName:         strings.TrimSpace(req.LastName),
		DateOfBirth:      req.DateOfBirth,
		Gender:           req.Gender,
		BloodGroup:       req.BloodGroup,
		Phone:            req.Phone,
		Email:            req.Email,
		Address:          req.Address,
		EmergencyContact: req.EmergencyContact,
	}

	if err := s.repo.Create(ctx, patient); err != nil {
		return nil, service.RepoError(err, "patient with this MRN")
	}

	s.logger.Info("patient registered", "patient_id", patient.ID.String(), "mrn", patient.MRN)
	return patient, nil
}

func (s *Service) GetPatient(ctx context.Context, id uuid.UUID) (*model.Patient, error) {
	patient, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, service.RepoError(err, "patient")
	}
	return patient, nil
}

func (s *Service) UpdatePatient(ctx context.Context, id uuid.UUID, req *model.UpdatePatientRequest) (*model.Patient, error) {
	patient, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, service.RepoError(err, "patient")
	}

	req.Apply(patient)
	if patient.DateOfBirth.After(time.Now()) {
		return nil, apperrors.BadRequest("date of birth cannot be in the future", nil)
	}

	if err := s.repo.Update(ctx, patient); err != nil {
		return nil, service.RepoError(err, "patient")
	}
	return patient, nil
}

// DeletePatient removes a patient record. Patients with an open admission
// must be discharged first.
func (s *Service) DeletePatient(ctx context.Context, id uuid.UUID) error {
	open, err := s.repo.HasOpenAdmission(ctx, id)
	if err != nil {
		return service.RepoError(err, "patient")
	}
	if open {
		return apperrors.BadRequest("patient has an open admission", nil)
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrReferenced) {
			return apperrors.Conflict("patient has clinical records", err)
		}
		return service.RepoError(err, "patient")
	}

	s.logger.Info("patient deleted", "patient_id", id.String())
	return nil
}

func (s *Service) ListPatients(ctx context.Context, filters *model.PatientFilters) ([]*model.Patient, int, error) {
	filters.Normalize()
	filters.Search = strings.TrimSpace(filters.Search)

	patients, total, err := s.repo.List(ctx, filters)
	if err != nil {
		return nil, 0, service.RepoError(err, "patient")
	}
	return patients, total, nil
}
