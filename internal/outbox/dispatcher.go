package outbox

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"servicedesk/internal/logger"
	"servicedesk/internal/metrics"
	"servicedesk/internal/model"
	"servicedesk/internal/repository"
)

// FeedPublisher pushes a payload to a recipient's live channel.
type FeedPublisher interface {
	Publish(ctx context.Context, userID uuid.UUID, payload []byte) error
}

// Dispatcher drains the outbox table and delivers each message at least once.
// A failed delivery increments the row's attempt counter and is retried on a
// later pass; rows that exhaust the budget stay in the table with their last
// error for inspection.
type Dispatcher struct {
	outboxRepo       repository.OutboxRepository
	notificationRepo repository.NotificationRepository
	feed             FeedPublisher
	publisher        EventPublisher

	interval    time.Duration
	batchSize   int
	maxAttempts int

	stop chan struct{}
	done chan struct{}
}

// NewDispatcher creates a dispatcher with the default polling cadence.
func NewDispatcher(
	outboxRepo repository.OutboxRepository,
	notificationRepo repository.NotificationRepository,
	feed FeedPublisher,
	publisher EventPublisher,
) *Dispatcher {
	return &Dispatcher{
		outboxRepo:       outboxRepo,
		notificationRepo: notificationRepo,
		feed:             feed,
		publisher:        publisher,
		interval:         2 * time.Second,
		batchSize:        50,
		maxAttempts:      5,
		stop:             make(chan struct{}),
		done:             make(chan struct{}),
	}
}

// Start launches the polling loop.
func (d *Dispatcher) Start(ctx context.Context) {
	go d.run(ctx)
}

// Stop halts the loop, waits for the in-flight pass to finish, then runs one
// final pass so nothing committed just before shutdown waits a full restart to
// go out. The polling context may already be cancelled at this point, so the
// final pass gets its own deadline.
func (d *Dispatcher) Stop() {
	close(d.stop)
	<-d.done

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	d.drain(ctx)
}

func (d *Dispatcher) run(ctx context.Context) {
	defer close(d.done)
	ticker := time.NewTicker(d.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			d.drain(ctx)
		case <-d.stop:
			return
		case <-ctx.Done():
			return
		}
	}
}

func (d *Dispatcher) drain(ctx context.Context) {
	messages, err := d.outboxRepo.FetchUnprocessed(ctx, d.batchSize, d.maxAttempts)
	if err != nil {
		logger.FromContext(ctx).Error("outbox fetch failed", zap.Error(err))
		return
	}

	for i := range messages {
		msg := &messages[i]
		if err := d.deliver(ctx, msg); err != nil {
			metrics.ObserveOutbox(msg.Kind, "failed")
			logger.FromContext(ctx).Warn("outbox delivery failed",
				zap.String("id", msg.ID.String()),
				zap.String("kind", msg.Kind),
				zap.Int("attempts", msg.Attempts+1),
				zap.Error(err))
			if err := d.outboxRepo.MarkFailed(ctx, msg.ID, err.Error()); err != nil {
				logger.FromContext(ctx).Error("outbox mark failed", zap.Error(err))
			}
			continue
		}
		metrics.ObserveOutbox(msg.Kind, "delivered")
		if err := d.outboxRepo.MarkProcessed(ctx, msg.ID); err != nil {
			// The message will be re-delivered next pass; consumers tolerate
			// duplicates under the at-least-once contract.
			logger.FromContext(ctx).Error("outbox mark processed failed", zap.Error(err))
		}
	}
}

func (d *Dispatcher) deliver(ctx context.Context, msg *model.OutboxMessage) error {
	switch msg.Kind {
	case model.OutboxKindNotification:
		return d.deliverNotification(ctx, msg)
	case model.OutboxKindEvent:
		return d.publisher.Publish(ctx, msg.RoutingKey, []byte(msg.Payload))
	default:
		return fmt.Errorf("unknown outbox kind %q", msg.Kind)
	}
}

func (d *Dispatcher) deliverNotification(ctx context.Context, msg *model.OutboxMessage) error {
	var payload NotificationPayload
	if err := json.Unmarshal([]byte(msg.Payload), &payload); err != nil {
		return fmt.Errorf("decode notification payload: %w", err)
	}

	notification := &model.Notification{
		UserID:  payload.UserID,
		Title:   payload.Title,
		Message: payload.Message,
		Type:    payload.Type,
	}
	if err := d.notificationRepo.Create(ctx, notification); err != nil {
		return fmt.Errorf("insert notification: %w", err)
	}

	// Live push and broker mirror are best effort: the row is the source of
	// truth and the list endpoint reconciles missed pushes.
	if body, err := json.Marshal(notification); err == nil {
		if err := d.feed.Publish(ctx, payload.UserID, body); err != nil {
			logger.FromContext(ctx).Debug("live push failed", zap.Error(err))
		}
		if err := d.publisher.Publish(ctx, msg.RoutingKey, body); err != nil {
			logger.FromContext(ctx).Debug("broker mirror failed", zap.Error(err))
		}
	}
	return nil
}
