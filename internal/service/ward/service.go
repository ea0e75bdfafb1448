package ward

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/jwalitptl/hospital-api/internal/model"
	"github.com/jwalitptl/hospital-api/internal/repository"
	"github.com/jwalitptl/hospital-api/internal/service"
)

type WardService interface {
	CreateWard(ctx context.Context, req *model.CreateWardRequest) (*model.Ward, error)
	GetWard(ctx context.Context, id uuid.UUID) (*model.Ward, error)
	ListWards(ctx context.Context) ([]*model.Ward, error)
	CreateBed(ctx context.Context, wardID uuid.UUID, req *model.CreateBedRequest) (*model.Bed, error)
	ListBeds(ctx context.Context, wardID uuid.UUID) ([]*model.Bed, error)
}

type Service struct {
	repo repository.WardRepository
}

func NewService(repo repository.WardRepository) *Service {
	return &Service{repo: repo}
}

func (s *Service) CreateWard(ctx context.Context, req *model.CreateWardRequest) (*model.Ward, error) {
	ward := &model.Ward{
		Base:  model.Base{ID: uuid.New()},
		Name:  strings.TrimSpace(req.Name),
		Type:  req.Type,
		Floor: req.Floor,
	}
	if err := s.repo.CreateWard(ctx, ward); err != nil {
		return nil, service.RepoError(err, "ward")
	}
	return ward, nil
}

func (s *Service) GetWard(ctx context.Context, id uuid.UUID) (*model.Ward, error) {
	ward, err := s.repo.GetWard(ctx, id)
	if err != nil {
		return nil, service.RepoError(err, "ward")
	}
	return ward, nil
}

func (s *Service) ListWards(ctx context.Context) ([]*model.Ward, error) {
	wards, err := s.repo.ListWards(ctx)
	if err != nil {
		return nil, service.RepoError(err, "ward")
	}
	return wards, nil
}

// CreateBed adds a free bed to the ward. Bed numbers are unique per ward.
func (s *Service) CreateBed(ctx context.Context, wardID uuid.UUID, req *model.CreateBedRequest) (*model.Bed, error) {
	if _, err := s.repo.GetWard(ctx, wardID); err != nil {
		return nil, service.RepoError(err, "ward")
	}

	bed := &model.Bed{
		Base:   model.Base{ID: uuid.New()},
		WardID: wardID,
		Number: strings.TrimSpace(req.Number),
	}
	if err := s.repo.CreateBed(ctx, bed); err != nil {
		return nil, service.RepoError(err, "bed")
	}
	return bed, nil
}

// ListBeds returns the ward's beds with occupancy derived from open
// admissions.
func (s *Service) ListBeds(ctx context.Context, wardID uuid.UUID) ([]*model.Bed, error) {
	if _, err := s.repo.GetWard(ctx, wardID); err != nil {
		return nil, service.RepoError(err, "ward")
	}
	beds, err := s.repo.ListBeds(ctx, wardID)
	if err != nil {
		return nil, service.RepoError(err, "bed")
	}
	return beds, nil
}
