package kafka

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"uni-hris/internal/shared/dbtx"

	"gorm.io/gorm"
)

const (
	OutboxStatusPending = "pending"
	OutboxStatusSent    = "sent"
	OutboxStatusFailed  = "failed"

	maxErrorMessage = 500
	retryStep       = 15 * time.Second
	maxRetrySteps   = 10
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

type outboxRow struct {
	ID            string `gorm:"primaryKey"`
	RequestID     string
	AggregateType string
	AggregateID   string
	EventType     string
	Topic         string
	Payload       string
	Status        string
	RetryCount    int
	ErrorMessage  *string
	NextRetryAt   *time.Time
	ProcessedAt   *time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func (outboxRow) TableName() string { return "outbox_events" }

//go:generate mockgen -source=outbox_repo.go -destination=mock/outbox_repo_mock.go -package=mock

type OutboxRepository interface {
	WithTx(tx *sql.Tx) OutboxRepository
	Create(ctx context.Context, event OutboxEvent) error
	ListPending(ctx context.Context, limit int) ([]OutboxEvent, error)
	MarkSent(ctx context.Context, id string) error
	MarkFailed(ctx context.Context, id string, reason string) error
}

type outboxRepository struct {
	db  *gorm.DB
	tx  *sql.Tx
	now func() time.Time
}

func NewOutboxRepository(db *gorm.DB) OutboxRepository {
	return &outboxRepository{db: db, now: time.Now}
}

func (r *outboxRepository) WithTx(tx *sql.Tx) OutboxRepository {
	return &outboxRepository{db: r.db, tx: tx, now: r.now}
}

func (r *outboxRepository) Create(ctx context.Context, event OutboxEvent) error {
	if event.Status == "" {
		event.Status = OutboxStatusPending
	}
	if err := ValidateOutboxEvent(event); err != nil {
		return err
	}

	now := r.now().UTC()
	return dbtx.Conn(ctx, r.db, r.tx).Create(&outboxRow{
		ID:            event.ID,
		RequestID:     event.RequestID,
		AggregateType: event.AggregateType,
		AggregateID:   event.AggregateID,
		EventType:     event.EventType,
		Topic:         event.Topic,
		Payload:       string(event.Payload),
		Status:        event.Status,
		CreatedAt:     now,
		UpdatedAt:     now,
	}).Error
}

// ListPending returns pending events and failed events whose back-off has
// elapsed, oldest first.
func (r *outboxRepository) ListPending(ctx context.Context, limit int) ([]OutboxEvent, error) {
	var rows []outboxRow
	err := dbtx.Conn(ctx, r.db, r.tx).
		Where("status IN ?", []string{OutboxStatusPending, OutboxStatusFailed}).
		Where("next_retry_at IS NULL OR next_retry_at <= ?", r.now().UTC()).
		Order("created_at ASC").
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	events := make([]OutboxEvent, 0, len(rows))
	for _, row := range rows {
		e := OutboxEvent{
			ID:            row.ID,
			RequestID:     row.RequestID,
			AggregateType: row.AggregateType,
			AggregateID:   row.AggregateID,
			EventType:     row.EventType,
			Topic:         row.Topic,
			Payload:       []byte(row.Payload),
			Status:        row.Status,
			RetryCount:    row.RetryCount,
			NextRetryAt:   row.CreatedAt,
		}
		if row.NextRetryAt != nil {
			e.NextRetryAt = *row.NextRetryAt
		}
		events = append(events, e)
	}
	return events, nil
}

func (r *outboxRepository) MarkSent(ctx context.Context, id string) error {
	now := r.now().UTC()
	return dbtx.Conn(ctx, r.db, r.tx).
		Model(&outboxRow{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"status":        OutboxStatusSent,
			"processed_at":  now,
			"error_message": nil,
			"updated_at":    now,
		}).Error
}

// MarkFailed schedules the next attempt with a linear back-off capped at
// maxRetrySteps * retryStep.
func (r *outboxRepository) MarkFailed(ctx context.Context, id string, reason string) error {
	conn := dbtx.Conn(ctx, r.db, r.tx)

	var row outboxRow
	if err := conn.Select("retry_count").Where("id = ?", id).Take(&row).Error; err != nil {
		return err
	}

	if len(reason) > maxErrorMessage {
		reason = reason[:maxErrorMessage]
	}
	now := r.now().UTC()
	next := now.Add(NextRetryDelay(row.RetryCount + 1))

	return dbtx.Conn(ctx, r.db, r.tx).
		Model(&outboxRow{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"status":        OutboxStatusFailed,
			"retry_count":   gorm.Expr("retry_count + 1"),
			"error_message": reason,
			"next_retry_at": next,
			"updated_at":    now,
		}).Error
}

func NextRetryDelay(attempt int) time.Duration {
	if attempt < 1 {
		attempt = 1
	}
	return time.Duration(min(attempt, maxRetrySteps)) * retryStep
}

func ValidateOutboxEvent(event OutboxEvent) error {
	if event.ID == "" {
		return errors.New("outbox id is required")
	}
	if event.Topic == "" {
		return errors.New("outbox topic is required")
	}
	if len(event.Payload) == 0 {
		return errors.New("outbox payload is required")
	}
	switch event.Status {
	case OutboxStatusPending, OutboxStatusSent, OutboxStatusFailed:
		return nil
	default:
		return fmt.Errorf("invalid outbox status: %s", event.Status)
	}
}
