package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ContactStatus is the sales-pipeline stage of a contact.
type ContactStatus string

const (
	ContactStatusLead     ContactStatus = "lead"
	ContactStatusProspect ContactStatus = "prospect"
	ContactStatusCustomer ContactStatus = "customer"
)

// Contact is a CRM customer contact owned by the user who created it.
type Contact struct {
	ID        uuid.UUID      `json:"id" gorm:"type:char(36);primaryKey"`
	Name      string         `json:"name" gorm:"size:255;not null;index"`
	Email     string         `json:"email,omitempty" gorm:"size:255;index"`
	Phone     string         `json:"phone,omitempty" gorm:"size:30"`
	Company   string         `json:"company,omitempty" gorm:"size:255"`
	Status    ContactStatus  `json:"status" gorm:"type:varchar(20);not null;default:'lead';index"`
	Notes     string         `json:"notes,omitempty" gorm:"type:text"`
	UserID    uuid.UUID      `json:"user_id" gorm:"type:char(36);not null;index"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

// BeforeCreate sets UUID before creating the record.
func (c *Contact) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}
