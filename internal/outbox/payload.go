package outbox

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"servicedesk/internal/model"
)

// Routing keys for broker-bound events.
const (
	RoutingNotificationCreated = "notification.created"
	RoutingRequestStatus       = "request.status_changed"
)

// NotificationPayload is the body of an OutboxKindNotification message. The
// dispatcher turns it into a notification row plus a live push.
type NotificationPayload struct {
	UserID  uuid.UUID              `json:"user_id"`
	Title   string                 `json:"title"`
	Message string                 `json:"message"`
	Type    model.NotificationType `json:"type"`
}

// StatusChangedPayload is the body of the request.status_changed event.
type StatusChangedPayload struct {
	RequestID  uuid.UUID `json:"request_id"`
	Title      string    `json:"title"`
	FromStatus string    `json:"from_status"`
	ToStatus   string    `json:"to_status"`
	ActorID    uuid.UUID `json:"actor_id"`
	AssigneeID string    `json:"assignee_id,omitempty"`
	OccurredAt string    `json:"occurred_at"`
}

// NewNotificationMessage builds an outbox row carrying a notification for one
// recipient.
func NewNotificationMessage(userID uuid.UUID, title, message string, typ model.NotificationType) (model.OutboxMessage, error) {
	body, err := json.Marshal(NotificationPayload{
		UserID:  userID,
		Title:   title,
		Message: message,
		Type:    typ,
	})
	if err != nil {
		return model.OutboxMessage{}, fmt.Errorf("marshal notification payload: %w", err)
	}
	return model.OutboxMessage{
		Kind:       model.OutboxKindNotification,
		RoutingKey: RoutingNotificationCreated,
		Payload:    string(body),
	}, nil
}

// NewEventMessage builds an outbox row carrying a broker-bound domain event.
func NewEventMessage(routingKey string, payload interface{}) (model.OutboxMessage, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return model.OutboxMessage{}, fmt.Errorf("marshal event payload: %w", err)
	}
	return model.OutboxMessage{
		Kind:       model.OutboxKindEvent,
		RoutingKey: routingKey,
		Payload:    string(body),
	}, nil
}
