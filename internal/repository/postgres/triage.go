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

const triageColumns = `id, patient_id, level, chief_complaint, heart_rate, respiratory_rate,
	blood_pressure, temperature, oxygen_saturation, status, arrived_at, seen_at, created_at, updated_at`

type triageRepository struct {
	db *sqlx.DB
}

func NewTriageRepository(db *sqlx.DB) repository.TriageRepository {
	return &triageRepository{db: db}
}

func (r *triageRepository) Create(ctx context.Context, record *model.TriageRecord) error {
	query := `
		INSERT INTO triage_records (` + triageColumns + `)
		VALUES (:id, :patient_id, :level, :chief_complaint, :heart_rate, :respiratory_rate,
			:blood_pressure, :temperature, :oxygen_saturation, :status, :arrived_at, :seen_at,
			:created_at, :updated_at)`
	if record.ID == uuid.Nil {
		record.ID = uuid.New()
	}
	now := time.Now().UTC()
	record.CreatedAt = now
	record.UpdatedAt = now

	if _, err := r.db.NamedExecContext(ctx, query, record); err != nil {
		return fmt.Errorf("failed to create triage record: %w", mapError(err))
	}
	return nil
}

func (r *triageRepository) Get(ctx context.Context, id uuid.UUID) (*model.TriageRecord, error) {
	var record model.TriageRecord
	if err := r.db.GetContext(ctx, &record, `SELECT `+triageColumns+` FROM triage_records WHERE id = $1`, id); err != nil {
		return nil, fmt.Errorf("failed to get triage record: %w", mapError(err))
	}
	return &record, nil
}

// Queue returns waiting patients, most urgent level first and then by
// arrival time.
func (r *triageRepository) Queue(ctx context.Context) ([]*model.TriageRecord, error) {
	records := []*model.TriageRecord{}
	query := `SELECT ` + triageColumns + ` FROM triage_records
		WHERE status = $1
		ORDER BY level ASC, arrived_at ASC`
	if err := r.db.SelectContext(ctx, &records, query, model.TriageStatusWaiting); err != nil {
		return nil, fmt.Errorf("failed to list triage queue: %w", err)
	}
	return records, nil
}

func (r *triageRepository) MarkSeen(ctx context.Context, id uuid.UUID, at time.Time) error {
	query := `
		UPDATE triage_records SET status = $1, seen_at = $2, updated_at = $2
		WHERE id = $3 AND status = $4`
	result, err := r.db.ExecContext(ctx, query, model.TriageStatusSeen, at, id, model.TriageStatusWaiting)
	if err != nil {
		return fmt.Errorf("failed to mark triage record seen: %w", err)
	}
	if err := requireRows(result); err != nil {
		return fmt.Errorf("failed to mark triage record seen: %w", err)
	}
	return nil
}
