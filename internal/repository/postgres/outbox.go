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

type outboxRepository struct {
	BaseRepository
}

func NewOutboxRepository(db *sqlx.DB) repository.OutboxRepository {
	return &outboxRepository{NewBaseRepository(db)}
}

// insertOutboxEvent writes event using the caller's transaction so it
// commits or rolls back with the change that produced it.
func insertOutboxEvent(ctx context.Context, ex sqlx.ExecerContext, event *model.OutboxEvent) error {
	if event == nil {
		return fmt.Errorf("event cannot be nil")
	}
	if event.Payload == nil {
		return fmt.Errorf("event payload cannot be nil")
	}
	if event.ID == uuid.Nil {
		event.ID = uuid.New()
	}
	if event.Status == "" {
		event.Status = model.OutboxStatusPending
	}

	query := `
		INSERT INTO outbox_events (
			id, aggregate_type, aggregate_id, event_type, payload, status, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := ex.ExecContext(ctx, query,
		event.ID,
		event.AggregateType,
		event.AggregateID,
		event.EventType,
		[]byte(event.Payload),
		event.Status,
		event.CreatedAt,
		event.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create outbox event: %w", err)
	}
	return nil
}

func (r *outboxRepository) ProcessPending(
	ctx context.Context,
	limit, maxRetries int,
	fn func(*model.OutboxEvent) error,
) (processed, failed int, err error) {
	err = r.WithTx(ctx, func(tx *sqlx.Tx) error {
		query := `
			SELECT id, aggregate_type, aggregate_id, event_type, payload, status,
				error_message, retry_count, created_at, processed_at, updated_at
			FROM outbox_events
			WHERE status = $1
			ORDER BY created_at ASC
			LIMIT $2
			FOR UPDATE SKIP LOCKED`

		var events []*model.OutboxEvent
		if err := tx.SelectContext(ctx, &events, query, model.OutboxStatusPending, limit); err != nil {
			return fmt.Errorf("failed to get pending events: %w", err)
		}

		for _, event := range events {
			if pubErr := fn(event); pubErr != nil {
				status := model.OutboxStatusPending
				if event.RetryCount+1 >= maxRetries {
					status = model.OutboxStatusFailed
				}
				msg := pubErr.Error()
				_, err := tx.ExecContext(ctx, `
					UPDATE outbox_events
					SET status = $1, error_message = $2, retry_count = retry_count + 1, updated_at = NOW()
					WHERE id = $3`, status, msg, event.ID)
				if err != nil {
					return fmt.Errorf("failed to update event status: %w", err)
				}
				failed++
				continue
			}

			_, err := tx.ExecContext(ctx, `
				UPDATE outbox_events
				SET status = $1, error_message = NULL, processed_at = NOW(), updated_at = NOW()
				WHERE id = $2`, model.OutboxStatusProcessed, event.ID)
			if err != nil {
				return fmt.Errorf("failed to update event status: %w", err)
			}
			processed++
		}
		return nil
	})
	if err != nil {
		return 0, 0, err
	}
	return processed, failed, nil
}

func (r *outboxRepository) DeleteProcessedBefore(ctx context.Context, before time.Time) (int64, error) {
	query := `
		DELETE FROM outbox_events
		WHERE status = $1
		AND processed_at < $2`
	result, err := r.db.ExecContext(ctx, query, model.OutboxStatusProcessed, before)
	if err != nil {
		return 0, fmt.Errorf("failed to delete processed events: %w", err)
	}

	return result.RowsAffected()
}
