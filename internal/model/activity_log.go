package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Common activity actions. The column is free-form; these cover the actions
// the services emit.
const (
	ActionCreateRequest = "create_request"
	ActionStatusChange  = "status_change"
	ActionRoleChange    = "role_change"
	ActionSignUp        = "sign_up"
)

// ActivityLog is an append-only audit record. No update or delete path exists
// anywhere in the codebase.
type ActivityLog struct {
	ID          uuid.UUID `json:"id" gorm:"type:char(36);primaryKey"`
	UserID      uuid.UUID `json:"user_id" gorm:"type:char(36);not null;index"`
	Action      string    `json:"action" gorm:"size:50;not null;index"`
	Description string    `json:"description" gorm:"type:text"`
	EntityType  string    `json:"entity_type,omitempty" gorm:"size:50;index:idx_activity_entity"`
	EntityID    string    `json:"entity_id,omitempty" gorm:"size:36;index:idx_activity_entity"`
	FromStatus  string    `json:"from_status,omitempty" gorm:"size:20"`
	ToStatus    string    `json:"to_status,omitempty" gorm:"size:20"`
	Metadata    string    `json:"metadata,omitempty" gorm:"type:text"` // JSON blob
	CreatedAt   time.Time `json:"created_at"`
}

// BeforeCreate sets UUID before creating the record.
func (al *ActivityLog) BeforeCreate(tx *gorm.DB) error {
	if al.ID == uuid.Nil {
		al.ID = uuid.New()
	}
	return nil
}
