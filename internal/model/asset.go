package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AssetStatus is the operational state of an equipment record. Unlike the
// inventory stock status it is user-edited state, stored as written.
type AssetStatus string

const (
	AssetStatusActive      AssetStatus = "active"
	AssetStatusMaintenance AssetStatus = "maintenance"
	AssetStatusRetired     AssetStatus = "retired"
)

// Asset is a free-form equipment record owned by one user, independent of
// inventory stock keeping.
type Asset struct {
	ID             uuid.UUID      `json:"id" gorm:"type:char(36);primaryKey"`
	Name           string         `json:"name" gorm:"size:255;not null;index"`
	Type           string         `json:"type" gorm:"size:100;not null;index"`
	Manufacturer   string         `json:"manufacturer,omitempty" gorm:"size:255"`
	Specifications string         `json:"specifications,omitempty" gorm:"type:text"`
	Status         AssetStatus    `json:"status" gorm:"type:varchar(20);not null;default:'active';index"`
	UserID         uuid.UUID      `json:"user_id" gorm:"type:char(36);not null;index"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
	DeletedAt      gorm.DeletedAt `json:"-" gorm:"index"`
}

// BeforeCreate sets UUID before creating the record.
func (a *Asset) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}
