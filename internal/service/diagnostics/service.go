package diagnostics

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

const flagCritical = "critical"

// DiagnosticsService manages lab and radiology orders. An order accepts
// exactly one result or report, after which it is completed.
type DiagnosticsService interface {
	CreateLabOrder(ctx context.Context, req *model.CreateLabOrderRequest) (*model.LabOrder, error)
	GetLabOrder(ctx context.Context, id uuid.UUID) (*model.LabOrder, error)
	ListLabOrders(ctx context.Context, filters *model.OrderFilters) ([]*model.LabOrder, error)
	RecordLabResult(ctx context.Context, id uuid.UUID, req *model.LabResultRequest) (*model.LabOrder, error)
	CreateRadiologyOrder(ctx context.Context, req *model.CreateRadiologyOrderRequest) (*model.RadiologyOrder, error)
	GetRadiologyOrder(ctx context.Context, id uuid.UUID) (*model.RadiologyOrder, error)
	ListRadiologyOrders(ctx context.Context, filters *model.OrderFilters) ([]*model.RadiologyOrder, error)
	RecordRadiologyReport(ctx context.Context, id uuid.UUID, req *model.RadiologyReportRequest) (*model.RadiologyOrder, error)
}

type Service struct {
	repo   repository.DiagnosticsRepository
	logger *logger.Logger
	now    func() time.Time
}

func NewService(repo repository.DiagnosticsRepository, logger *logger.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

func priorityOr(p model.OrderPriority) model.OrderPriority {
	if p == "" {
		return model.PriorityRoutine
	}
	return p
}

func (s *Service) CreateLabOrder(ctx context.Context, req *model.CreateLabOrderRequest) (*model.LabOrder, error) {
	order := &model.LabOrder{
		Base:        model.Base{ID: uuid.New()},
		PatientID:   req.PatientID,
		AdmissionID: req.AdmissionID,
		TestCode:    strings.ToUpper(strings.TrimSpace(req.TestCode)),
		TestName:    strings.TrimSpace(req.TestName),
		Priority:    priorityOr(req.Priority),
		Status:      model.OrderStatusOrdered,
		OrderedBy:   req.OrderedBy,
	}
	if err := s.repo.CreateLabOrder(ctx, order); err != nil {
		return nil, service.RepoError(err, "lab order")
	}
	return order, nil
}

func (s *Service) GetLabOrder(ctx context.Context, id uuid.UUID) (*model.LabOrder, error) {
	order, err := s.repo.GetLabOrder(ctx, id)
	if err != nil {
		return nil, service.RepoError(err, "lab order")
	}
	return order, nil
}

func (s *Service) ListLabOrders(ctx context.Context, filters *model.OrderFilters) ([]*model.LabOrder, error) {
	orders, err := s.repo.ListLabOrders(ctx, filters)
	if err != nil {
		return nil, service.RepoError(err, "lab order")
	}
	return orders, nil
}

func (s *Service) RecordLabResult(ctx context.Context, id uuid.UUID, req *model.LabResultRequest) (*model.LabOrder, error) {
	order, err := s.repo.GetLabOrder(ctx, id)
	if err != nil {
		return nil, service.RepoError(err, "lab order")
	}
	if order.Status != model.OrderStatusOrdered {
		return nil, service.RepoError(repository.ErrOrderClosed, "lab order")
	}

	at := s.now()
	order.Result = &req.Result
	order.ResultFlag = &req.Flag
	order.ResultedAt = &at
	if err := s.repo.RecordLabResult(ctx, order); err != nil {
		return nil, service.RepoError(err, "lab order")
	}

	if req.Flag == flagCritical {
		s.logger.Warn("critical lab result",
			"order_id", order.ID.String(),
			"patient_id", order.PatientID.String(),
			"test_code", order.TestCode)
	}
	return order, nil
}

func (s *Service) CreateRadiologyOrder(ctx context.Context, req *model.CreateRadiologyOrderRequest) (*model.RadiologyOrder, error) {
	order := &model.RadiologyOrder{
		Base:        model.Base{ID: uuid.New()},
		PatientID:   req.PatientID,
		AdmissionID: req.AdmissionID,
		Modality:    req.Modality,
		BodyPart:    strings.TrimSpace(req.BodyPart),
		Priority:    priorityOr(req.Priority),
		Status:      model.OrderStatusOrdered,
		OrderedBy:   req.OrderedBy,
	}
	if err := s.repo.CreateRadiologyOrder(ctx, order); err != nil {
		return nil, service.RepoError(err, "radiology order")
	}
	return order, nil
}

func (s *Service) GetRadiologyOrder(ctx context.Context, id uuid.UUID) (*model.RadiologyOrder, error) {
	order, err := s.repo.GetRadiologyOrder(ctx, id)
	if err != nil {
		return nil, service.RepoError(err, "radiology order")
	}
	return order, nil
}

func (s *Service) ListRadiologyOrders(ctx context.Context, filters *model.OrderFilters) ([]*model.RadiologyOrder, error) {
	orders, err := s.repo.ListRadiologyOrders(ctx, filters)
	if err != nil {
		return nil, service.RepoError(err, "radiology order")
	}
	return orders, nil
}

func (s *Service) RecordRadiologyReport(ctx context.Context, id uuid.UUID, req *model.RadiologyReportRequest) (*model.RadiologyOrder, error) {
	order, err := s.repo.GetRadiologyOrder(ctx, id)
	if err != nil {
		return nil, service.RepoError(err, "radiology order")
	}
	if order.Status != model.OrderStatusOrdered {
		return nil, service.RepoError(repository.ErrOrderClosed, "radiology order")
	}

	at := s.now()
	order.Findings = &req.Findings
	order.Impression = &req.Impression
	order.ReportedAt = &at
	if err := s.repo.RecordRadiologyReport(ctx, order); err != nil {
		return nil, service.RepoError(err, "radiology order")
	}
	return order, nil
}
