package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// RequestStatus is the lifecycle state of a service request.
type RequestStatus string

const (
	RequestStatusPending    RequestStatus = "pending"
	RequestStatusAssigned   RequestStatus = "assigned"
	RequestStatusInProgress RequestStatus = "in_progress"
	RequestStatusCompleted  RequestStatus = "completed"
	RequestStatusCancelled  RequestStatus = "cancelled"
)

// requestTransitions is the full set of admitted status edges. The working
// states are strictly forward-only; cancelled is terminal and reachable only
// before work starts.
var requestTransitions = map[RequestStatus][]RequestStatus{
	RequestStatusPending:    {RequestStatusAssigned, RequestStatusCancelled},
	RequestStatusAssigned:   {RequestStatusInProgress, RequestStatusCancelled},
	RequestStatusInProgress: {RequestStatusCompleted},
}

// CanTransitionTo reports whether the lifecycle admits the edge s -> target.
func (s RequestStatus) CanTransitionTo(target RequestStatus) bool {
	for _, next := range requestTransitions[s] {
		if next == target {
			return true
		}
	}
	return false
}

// Terminal reports whether no further transition is possible.
func (s RequestStatus) Terminal() bool {
	return len(requestTransitions[s]) == 0
}

// RequestPriority is the urgency of a service request.
type RequestPriority string

const (
	PriorityLow    RequestPriority = "low"
	PriorityMedium RequestPriority = "medium"
	PriorityHigh   RequestPriority = "high"
	PriorityUrgent RequestPriority = "urgent"
)

// ServiceRequest is a maintenance/support ticket raised by a user and worked
// by a technician through the forward-only lifecycle.
type ServiceRequest struct {
	ID                   uuid.UUID       `json:"id" gorm:"type:char(36);primaryKey"`
	Title                string          `json:"title" gorm:"size:255;not null"`
	Description          string          `json:"description" gorm:"type:text"`
	JobType              string          `json:"job_type" gorm:"size:100;not null;index"`
	Priority             RequestPriority `json:"priority" gorm:"type:varchar(10);not null;default:'medium';index"`
	Status               RequestStatus   `json:"status" gorm:"type:varchar(20);not null;default:'pending';index"`
	Location             string          `json:"location,omitempty" gorm:"size:255"`
	RequiredSpecialty    string          `json:"required_specialty,omitempty" gorm:"size:100"`
	ScheduledDate        *time.Time      `json:"scheduled_date,omitempty"`
	UserID               uuid.UUID       `json:"user_id" gorm:"type:char(36);not null;index"`
	AssignedTechnicianID *uuid.UUID      `json:"assigned_technician_id,omitempty" gorm:"type:char(36);index"`
	CompletedAt          *time.Time      `json:"completed_at,omitempty"`
	CreatedAt            time.Time       `json:"created_at"`
	UpdatedAt            time.Time       `json:"updated_at"`
	DeletedAt            gorm.DeletedAt  `json:"-" gorm:"index"`

	// Relations
	Requester Profile  `json:"-" gorm:"foreignKey:UserID"`
	Assignee  *Profile `json:"-" gorm:"foreignKey:AssignedTechnicianID"`
}

// BeforeCreate sets UUID before creating the record.
func (r *ServiceRequest) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}
