package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/jwalitptl/hospital-api/internal/model"
	"github.com/jwalitptl/hospital-api/internal/repository"
)

// bedSelect derives occupancy from the open admission on each bed.
const bedSelect = `
	SELECT b.id, b.ward_id, b.number, b.created_at, b.updated_at,
		a.id AS admission_id, (a.id IS NOT NULL) AS occupied
	FROM beds b
	LEFT JOIN admissions a ON a.bed_id = b.id AND a.discharged_at IS NULL`

type wardRepository struct {
	db *sqlx.DB
}

func NewWardRepository(db *sqlx.DB) repository.WardRepository {
	return &wardRepository{db: db}
}

func (r *wardRepository) CreateWard(ctx context.Context, ward *model.Ward) error {
	query := `
		INSERT INTO wards (id, name, type, floor, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)`
	if ward.ID == uuid.Nil {
		ward.ID = uuid.New()
	}
	now := time.Now().UTC()
	ward.CreatedAt = now
	ward.UpdatedAt = now

	_, err := r.db.ExecContext(ctx, query, ward.ID, ward.Name, ward.Type, ward.Floor, ward.CreatedAt, ward.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create ward: %w", mapError(err))
	}
	return nil
}

func (r *wardRepository) GetWard(ctx context.Context, id uuid.UUID) (*model.Ward, error) {
	var ward model.Ward
	query := `SELECT id, name, type, floor, created_at, updated_at FROM wards WHERE id = $1`
	if err := r.db.GetContext(ctx, &ward, query, id); err != nil {
		return nil, fmt.Errorf("failed to get ward: %w", mapError(err))
	}
	return &ward, nil
}

func (r *wardRepository) ListWards(ctx context.Context) ([]*model.Ward, error) {
	wards := []*model.Ward{}
	query := `SELECT id, name, type, floor, created_at, updated_at FROM wards ORDER BY name`
	if err := r.db.SelectContext(ctx, &wards, query); err != nil {
		return nil, fmt.Errorf("failed to list wards: %w", err)
	}
	return wards, nil
}

func (r *wardRepository) CreateBed(ctx context.Context, bed *model.Bed) error {
	query := `
		INSERT INTO beds (id, ward_id, number, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)`
	if bed.ID == uuid.Nil {
		bed.ID = uuid.New()
	}
	now := time.Now().UTC()
	bed.CreatedAt = now
	bed.UpdatedAt = now
	bed.Occupied = false
	bed.AdmissionID = nil

	_, err := r.db.ExecContext(ctx, query, bed.ID, bed.WardID, bed.Number, bed.CreatedAt, bed.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create bed: %w", mapError(err))
	}
	return nil
}

func (r *wardRepository) GetBed(ctx context.Context, id uuid.UUID) (*model.Bed, error) {
	var bed model.Bed
	if err := r.db.GetContext(ctx, &bed, bedSelect+` WHERE b.id = $1`, id); err != nil {
		return nil, fmt.Errorf("failed to get bed: %w", mapError(err))
	}
	return &bed, nil
}

func (r *wardRepository) ListBeds(ctx context.Context, wardID uuid.UUID) ([]*model.Bed, error) {
	beds := []*model.Bed{}
	if err := r.db.SelectContext(ctx, &beds, bedSelect+` WHERE b.ward_id = $1 ORDER BY b.number`, wardID); err != nil {
		return nil, fmt.Errorf("failed to list beds: %w", err)
	}
	return beds, nil
}
