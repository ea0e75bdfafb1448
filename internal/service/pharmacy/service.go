package pharmacy

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jwalitptl/hospital-api/internal/model"
	"github.com/jwalitptl/hospital-api/internal/repository"
	"github.com/jwalitptl/hospital-api/internal/service"
	"github.com/jwalitptl/hospital-api/pkg/logger"
)

type PharmacyService interface {
	CreateMedication(ctx context.Context, req *model.CreateMedicationRequest) (*model.Medication, error)
	GetMedication(ctx context.Context, id uuid.UUID) (*model.Medication, error)
	ListMedications(ctx context.Context) ([]*model.Medication, error)
	Restock(ctx context.Context, id uuid.UUID, req *model.RestockRequest) (*model.Medication, error)
	CreatePrescription(ctx context.Context, req *model.CreatePrescriptionRequest) (*model.Prescription, error)
	GetPrescription(ctx context.Context, id uuid.UUID) (*model.Prescription, error)
	ListPrescriptions(ctx context.Context, filters *model.PrescriptionFilters) ([]*model.Prescription, error)
	Dispense(ctx context.Context, id uuid.UUID) (*model.Prescription, error)
}

type Service struct {
	repo   repository.PharmacyRepository
	logger *logger.Logger
	now    func() time.Time
}

func NewService(repo repository.PharmacyRepository, logger *logger.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

func (s *Service) CreateMedication(ctx context.Context, req *model.CreateMedicationRequest) (*model.Medication, error) {
	medication := &model.Medication{
		Base:           model.Base{ID: uuid.New()},
		Name:           strings.TrimSpace(req.Name),
		Form:           req.Form,
		Strength:       strings.TrimSpace(req.Strength),
		StockQuantity:  req.StockQuantity,
		UnitPriceCents: req.UnitPriceCents,
	}
	if err := s.repo.CreateMedication(ctx, medication); err != nil {
		return nil, service.RepoError(err, "medication")
	}
	return medication, nil
}

func (s *Service) GetMedication(ctx context.Context, id uuid.UUID) (*model.Medication, error) {
	medication, err := s.repo.GetMedication(ctx, id)
	if err != nil {
		return nil, service.RepoError(err, "medication")
	}
	return medication, nil
}

func (s *Service) ListMedications(ctx context.Context) ([]*model.Medication, error) {
	medications, err := s.repo.ListMedications(ctx)
	if err != nil {
		return nil, service.RepoError(err, "medication")
	}
	return medications, nil
}

func (s *Service) Restock(ctx context.Context, id uuid.UUID, req *model.RestockRequest) (*model.Medication, error) {
	medication, err := s.repo.Restock(ctx, id, req.Quantity)
	if err != nil {
		return nil, service.RepoError(err, "medication")
	}
	s.logger.Info("medication restocked",
		"medication_id", id.String(),
		"quantity", req.Quantity,
		"stock", medication.StockQuantity)
	return medication, nil
}

func (s *Service) CreatePrescription(ctx context.Context, req *model.CreatePrescriptionRequest) (*model.Prescription, error) {
	medication, err := s.repo.GetMedication(ctx, req.MedicationID)
	if err != nil {
		return nil, service.RepoError(err, "medication")
	}

	prescription := &model.Prescription{
		Base:           model.Base{ID: uuid.New()},
		PatientID:      req.PatientID,
		AdmissionID:    req.AdmissionID,
		MedicationID:   medication.ID,
		MedicationName: medication.Name,
		Dosage:         req.Dosage,
		Frequency:      req.Frequency,
		DurationDays:   req.DurationDays,
		Quantity:       req.Quantity,
		PrescribedBy:   req.PrescribedBy,
		Status:         model.PrescriptionStatusActive,
	}
	if err := s.repo.CreatePrescription(ctx, prescription); err != nil {
		return nil, service.RepoError(err, "prescription")
	}
	return prescription, nil
}

func (s *Service) GetPrescription(ctx context.Context, id uuid.UUID) (*model.Prescription, error) {
	prescription, err := s.repo.GetPrescription(ctx, id)
	if err != nil {
		return nil, service.RepoError(err, "prescription")
	}
	return prescription, nil
}

func (s *Service) ListPrescriptions(ctx context.Context, filters *model.PrescriptionFilters) ([]*model.Prescription, error) {
	prescriptions, err := s.repo.ListPrescriptions(ctx, filters)
	if err != nil {
		return nil, service.RepoError(err, "prescription")
	}
	return prescriptions, nil
}

// Dispense hands out an active prescription. Stock is decremented in the
// same transaction; insufficient stock leaves both untouched.
func (s *Service) Dispense(ctx context.Context, id uuid.UUID) (*model.Prescription, error) {
	prescription, err := s.repo.Dispense(ctx, id, s.now())
	if err != nil {
		s.logger.Warn("dispense rejected", "prescription_id", id.String(), "reason", err.Error())
		return nil, service.RepoError(err, "prescription")
	}
	s.logger.Info("prescription dispensed",
		"prescription_id", id.String(),
		"medication_id", prescription.MedicationID.String(),
		"quantity", prescription.Quantity)
	return prescription, nil
}
