package kafka

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

const (
	OutboxStatusPending = "pending"
	OutboxStatusSent    = "sent"
	OutboxStatusFailed  = "failed"
)

type OutboxEvent struct {
	ID            string
	RequestID     string
	AggregateType string
	AggregateID   string
	EventType     string
	Topic         string
	Payload       []byte
	Status        string
	RetryCount    int
	NextRetryAt   time.Time
}

type OutboxRepository interface {
	WithTx(tx *sql.Tx) OutboxRepository
	Create(ctx context.Context, event OutboxEvent) error
	ListPending(ctx context.Context, limit int) ([]OutboxEvent, error)
	MarkSent(ctx context.Context, id string) error
	MarkFailed(ctx context.Context, id string, reason string) error
}

type outboxRepository struct {
	db *sql.DB
	tx *sql.Tx
}

func NewOutboxRepository(db *sql.DB) OutboxRepository {
	return &outboxRepository{db: db}
}

func (r *outboxRepository) WithTx(tx *sql.Tx) OutboxRepository {
	return &outboxRepository{db: r.db, tx: tx}
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func (r *outboxRepository) execer() execer {
	if r.tx != nil {
		return r.tx
	}
	return r.db
}

func (r *outboxRepository) Create(ctx context.Context, event OutboxEvent) error {
	query := `
        INSERT INTO outbox_events (
            id, request_id, aggregate_type, aggregate_id, event_type, topic, payload, status
        ) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
    `
	_, err := r.execer().ExecContext(ctx, query,
		event.ID,
		event.RequestID,
		event.AggregateType,
		event.AggregateID,
		event.EventType,
		event.Topic,
		event.Payload,
		OutboxStatusPending,
	)
	return err
}

func (r *outboxRepository) ListPending(ctx context.Context, limit int) ([]OutboxEvent, error) {
	if limit <= 0 {
		limit = 50
	}

	query := `
        SELECT id, request_id, aggregate_type, aggregate_id, event_type, topic, payload, status, retry_count
        FROM outbox_events
        WHERE status = $1 AND next_retry_at <= NOW()
        ORDER BY created_at ASC
        LIMIT $2
    `
	rows, err := r.db.QueryContext(ctx, query, OutboxStatusPending, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []OutboxEvent
	for rows.Next() {
		var ev OutboxEvent
		if err := rows.Scan(
			&ev.ID,
			&ev.RequestID,
			&ev.AggregateType,
			&ev.AggregateID,
			&ev.EventType,
			&ev.Topic,
			&ev.Payload,
			&ev.Status,
			&ev.RetryCount,
		); err != nil {
			return nil, err
		}
		events = append(events, ev)
	}
	return events, rows.Err()
}

func (r *outboxRepository) MarkSent(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE outbox_events SET status = $1, sent_at = NOW() WHERE id = $2`,
		OutboxStatusSent, id,
	)
	if err != nil {
		return err
	}
	return ensureRowUpdated(res, id)
}

func (r *outboxRepository) MarkFailed(ctx context.Context, id string, reason string) error {
	// Exponential-ish backoff: retry_count minutes until the next attempt.
	res, err := r.db.ExecContext(ctx, `
        UPDATE outbox_events
        SET retry_count = retry_count + 1,
            last_error = $1,
            next_retry_at = NOW() + make_interval(mins => retry_count + 1),
            status = CASE WHEN retry_count + 1 >= 5 THEN $2 ELSE status END
        WHERE id = $3
    `, reason, OutboxStatusFailed, id)
	if err != nil {
		return err
	}
	return ensureRowUpdated(res, id)
}

func ensureRowUpdated(res sql.Result, id string) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return fmt.Errorf("outbox event %s not found", id)
	}
	return nil
}
