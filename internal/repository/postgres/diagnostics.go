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

const labOrderColumns = `id, patient_id, admission_id, test_code, test_name, priority, status,
	ordered_by, result, result_flag, resulted_at, created_at, updated_at`

const radiologyOrderColumns = `id, patient_id, admission_id, modality, body_part, priority, status,
	ordered_by, findings, impression, reported_at, created_at, updated_at`

type diagnosticsRepository struct {
	db *sqlx.DB
}

func NewDiagnosticsRepository(db *sqlx.DB) repository.DiagnosticsRepository {
	return &diagnosticsRepository{db: db}
}

func orderConditions(filters *model.OrderFilters) conditions {
	var c conditions
	if filters.PatientID != nil {
		c.add("patient_id = ?", *filters.PatientID)
	}
	if filters.Status != "" {
		c.add("status = ?", filters.Status)
	}
	return c
}

func (r *diagnosticsRepository) CreateLabOrder(ctx context.Context, order *model.LabOrder) error {
	query := `
		INSERT INTO lab_orders (` + labOrderColumns + `)
		VALUES (:id, :patient_id, :admission_id, :test_code, :test_name, :priority, :status,
			:ordered_by, :result, :result_flag, :resulted_at, :created_at, :updated_at)`
	if order.ID == uuid.Nil {
		order.ID = uuid.New()
	}
	now := time.Now().UTC()
	order.CreatedAt = now
	order.UpdatedAt = now

	if _, err := r.db.NamedExecContext(ctx, query, order); err != nil {
		return fmt.Errorf("failed to create lab order: %w", mapError(err))
	}
	return nil
}

func (r *diagnosticsRepository) GetLabOrder(ctx context.Context, id uuid.UUID) (*model.LabOrder, error) {
	var order model.LabOrder
	if err := r.db.GetContext(ctx, &order, `SELECT `+labOrderColumns+` FROM lab_orders WHERE id = $1`, id); err != nil {
		return nil, fmt.Errorf("failed to get lab order: %w", mapError(err))
	}
	return &order, nil
}

func (r *diagnosticsRepository) ListLabOrders(ctx context.Context, filters *model.OrderFilters) ([]*model.LabOrder, error) {
	c := orderConditions(filters)
	orders := []*model.LabOrder{}
	query := `SELECT ` + labOrderColumns + ` FROM lab_orders` + c.where() + ` ORDER BY created_at DESC`
	if err := r.db.SelectContext(ctx, &orders, query, c.args...); err != nil {
		return nil, fmt.Errorf("failed to list lab orders: %w", err)
	}
	return orders, nil
}

// RecordLabResult stores the result only while the order is still open.
func (r *diagnosticsRepository) RecordLabResult(ctx context.Context, order *model.LabOrder) error {
	query := `
		UPDATE lab_orders SET
			status = $1, result = $2, result_flag = $3, resulted_at = $4, updated_at = $4
		WHERE id = $5 AND status = $6`
	result, err := r.db.ExecContext(ctx, query,
		model.OrderStatusCompleted,
		order.Result,
		order.ResultFlag,
		order.ResultedAt,
		order.ID,
		model.OrderStatusOrdered,
	)
	if err != nil {
		return fmt.Errorf("failed to record lab result: %w", err)
	}
	if err := requireRows(result); err != nil {
		return fmt.Errorf("failed to record lab result: %w", repository.ErrOrderClosed)
	}
	order.Status = model.OrderStatusCompleted
	return nil
}

func (r *diagnosticsRepository) CreateRadiologyOrder(ctx context.Context, order *model.RadiologyOrder) error {
	query := `
		INSERT INTO radiology_orders (` + radiologyOrderColumns + `)
		VALUES (:id, :patient_id, :admission_id, :modality, :body_part, :priority, :status,
			:ordered_by, :findings, :impression, :reported_at, :created_at, :updated_at)`
	if order.ID == uuid.Nil {
		order.ID = uuid.New()
	}
	now := time.Now().UTC()
	order.CreatedAt = now
	order.UpdatedAt = now

	if _, err := r.db.NamedExecContext(ctx, query, order); err != nil {
		return fmt.Errorf("failed to create radiology order: %w", mapError(err))
	}
	return nil
}

func (r *diagnosticsRepository) GetRadiologyOrder(ctx context.Context, id uuid.UUID) (*model.RadiologyOrder, error) {
	var order model.RadiologyOrder
	if err := r.db.GetContext(ctx, &order, `SELECT `+radiologyOrderColumns+` FROM radiology_orders WHERE id = $1`, id); err != nil {
		return nil, fmt.Errorf("failed to get radiology order: %w", mapError(err))
	}
	return &order, nil
}

func (r *diagnosticsRepository) ListRadiologyOrders(ctx context.Context, filters *model.OrderFilters) ([]*model.RadiologyOrder, error) {
	c := orderConditions(filters)
	orders := []*model.RadiologyOrder{}
	query := `SELECT ` + radiologyOrderColumns + ` FROM radiology_orders` + c.where() + ` ORDER BY created_at DESC`
	if err := r.db.SelectContext(ctx, &orders, query, c.args...); err != nil {
		return nil, fmt.Errorf("failed to list radiology orders: %w", err)
	}
	return orders, nil
}

func (r *diagnosticsRepository) RecordRadiologyReport(ctx context.Context, order *model.RadiologyOrder) error {
	query := `
		UPDATE radiology_orders SET
			status = $1, findings = $2, impression = $3, reported_at = $4, updated_at = $4
		WHERE id = $5 AND status = $6`
	result, err := r.db.ExecContext(ctx, query,
		model.OrderStatusCompleted,
		order.Findings,
		order.Impression,
		order.ReportedAt,
		order.ID,
		model.OrderStatusOrdered,
	)
	if err != nil {
		return fmt.Errorf("failed to record radiology report: %w", err)
	}
	if err := requireRows(result); err != nil {
		return fmt.Errorf("failed to record radiology report: %w", repository.ErrOrderClosed)
	}
	order.Status = model.OrderStatusCompleted
	return nil
}
