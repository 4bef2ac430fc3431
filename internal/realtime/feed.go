package realtime

import (
	"context"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const channelPrefix = "notify:"

// Feed pushes freshly created notifications to a recipient's open sessions
// over Redis pub/sub. There is no replay: a reconnecting client reconciles
// against the notification list endpoint.
type Feed struct {
	client *redis.Client
}

// New creates a feed over a dedicated Redis connection.
func New(addr, password string, db int) *Feed {
	return &Feed{client: redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})}
}

func channelFor(userID uuid.UUID) string {
	return channelPrefix + userID.String()
}

// Publish pushes a payload to the user's live channel. Delivery is best
// effort; subscribers that are not listening miss the event.
func (f *Feed) Publish(ctx context.Context, userID uuid.UUID, payload []byte) error {
	if f == nil || f.client == nil {
		return nil
	}
	return f.client.Publish(ctx, channelFor(userID), payload).Err()
}

// Subscribe opens the user's live channel. The returned channel closes when
// ctx is cancelled; the cleanup func must be called by the consumer.
func (f *Feed) Subscribe(ctx context.Context, userID uuid.UUID) (<-chan *redis.Message, func()) {
	sub := f.client.Subscribe(ctx, channelFor(userID))
	return sub.Channel(), func() { _ = sub.Close() }
}

// Close releases the underlying connection.
func (f *Feed) Close() error {
	return f.client.Close()
}
