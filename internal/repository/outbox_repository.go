package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"servicedesk/internal/model"
)

// OutboxRepository defines outbox persistence operations.
type OutboxRepository interface {
	Enqueue(ctx context.Context, message *model.OutboxMessage) error
	EnqueueBatch(ctx context.Context, messages []model.OutboxMessage) error
	FetchUnprocessed(ctx context.Context, limit, maxAttempts int) ([]model.OutboxMessage, error)
	MarkProcessed(ctx context.Context, id uuid.UUID) error
	MarkFailed(ctx context.Context, id uuid.UUID, lastError string) error
}

type outboxRepository struct {
	db *gorm.DB
}

// NewOutboxRepository creates a new outbox repository.
func NewOutboxRepository(db *gorm.DB) OutboxRepository {
	return &outboxRepository{db: db}
}

func (r *outboxRepository) Enqueue(ctx context.Context, message *model.OutboxMessage) error {
	return r.db.WithContext(ctx).Create(message).Error
}

func (r *outboxRepository) EnqueueBatch(ctx context.Context, messages []model.OutboxMessage) error {
	if len(messages) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).CreateInBatches(messages, 100).Error
}

// FetchUnprocessed returns pending messages oldest first, skipping rows that
// have exhausted their retry budget.
func (r *outboxRepository) FetchUnprocessed(ctx context.Context, limit, maxAttempts int) ([]model.OutboxMessage, error) {
	var messages []model.OutboxMessage
	err := r.db.WithContext(ctx).
		Where("processed_at IS NULL AND attempts < ?", maxAttempts).
		Order("created_at ASC").Limit(limit).Find(&messages).Error
	if err != nil {
		return nil, err
	}
	return messages, nil
}

func (r *outboxRepository) MarkProcessed(ctx context.Context, id uuid.UUID) error {
	now := time.Now()
	return r.db.WithContext(ctx).Model(&model.OutboxMessage{}).
		Where("id = ?", id).Update("processed_at", now).Error
}

func (r *outboxRepository) MarkFailed(ctx context.Context, id uuid.UUID, lastError string) error {
	return r.db.WithContext(ctx).Model(&model.OutboxMessage{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"attempts":   gorm.Expr("attempts + 1"),
			"last_error": lastError,
		}).Error
}
