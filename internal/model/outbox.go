package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Outbox message kinds.
const (
	OutboxKindNotification = "notification"
	OutboxKindEvent        = "event"
)

// OutboxMessage is a pending side effect written in the same transaction as
// the state change that caused it. The dispatcher drains unprocessed rows and
// delivers them at least once; rows that exhaust their retry budget stay in
// the table with LastError set for inspection.
type OutboxMessage struct {
	ID          uuid.UUID  `json:"id" gorm:"type:char(36);primaryKey"`
	Kind        string     `json:"kind" gorm:"size:20;not null;index"`
	RoutingKey  string     `json:"routing_key" gorm:"size:100;not null"`
	Payload     string     `json:"payload" gorm:"type:text;not null"` // JSON
	Attempts    int        `json:"attempts" gorm:"not null;default:0"`
	LastError   string     `json:"last_error,omitempty" gorm:"type:text"`
	ProcessedAt *time.Time `json:"processed_at,omitempty" gorm:"index"`
	CreatedAt   time.Time  `json:"created_at"`
}

// BeforeCreate sets UUID before creating the record.
func (m *OutboxMessage) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}
