package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Profile represents an authenticated user's account and contact details.
// One profile exists per identity; it is created at sign-up and removed only
// through identity removal.
type Profile struct {
	ID           uuid.UUID      `json:"id" gorm:"type:char(36);primaryKey"`
	FirstName    string         `json:"first_name" gorm:"size:100;not null"`
	LastName     string         `json:"last_name" gorm:"size:100;not null"`
	Email        string         `json:"email" gorm:"uniqueIndex;size:255;not null"`
	PasswordHash string         `json:"-" gorm:"size:255;not null"` // Never expose in JSON
	Phone        string         `json:"phone,omitempty" gorm:"size:30"`
	Bio          string         `json:"bio,omitempty" gorm:"type:text"`
	Company      string         `json:"company,omitempty" gorm:"size:255"`
	Position     string         `json:"position,omitempty" gorm:"size:255"`
	AvatarURL    string         `json:"avatar_url,omitempty" gorm:"size:512"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `json:"-" gorm:"index"`

	// Relations
	RoleAssignment *RoleAssignment `json:"role_assignment,omitempty" gorm:"foreignKey:UserID"`
}

// BeforeCreate sets UUID before creating the record.
func (p *Profile) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// FullName joins the name parts for display and notification text.
func (p *Profile) FullName() string {
	if p.FirstName == "" {
		return p.LastName
	}
	if p.LastName == "" {
		return p.FirstName
	}
	return p.FirstName + " " + p.LastName
}
