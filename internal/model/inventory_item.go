package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// StockStatus is derived from quantity against the minimum stock level. It is
// never persisted; readers recompute it on every fetch, so there is no stored
// copy to drift under concurrent quantity writes.
type StockStatus string

const (
	StockStatusInStock    StockStatus = "in_stock"
	StockStatusLowStock   StockStatus = "low_stock"
	StockStatusOutOfStock StockStatus = "out_of_stock"
)

// InventoryItem is a stock-keeping entity, distinct from Asset.
type InventoryItem struct {
	ID            uuid.UUID       `json:"id" gorm:"type:char(36);primaryKey"`
	Name          string          `json:"name" gorm:"size:255;not null;index"`
	Category      string          `json:"category,omitempty" gorm:"size:100;index"`
	Quantity      int             `json:"quantity" gorm:"not null;default:0"`
	MinStockLevel int             `json:"min_stock_level" gorm:"not null;default:0"`
	UnitPrice     decimal.Decimal `json:"unit_price" gorm:"type:decimal(20,2);not null;default:0"`
	Supplier      string          `json:"supplier,omitempty" gorm:"size:255"`
	Location      string          `json:"location,omitempty" gorm:"size:255"`
	Status        StockStatus     `json:"status" gorm:"-"` // derived, populated on read
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
	DeletedAt     gorm.DeletedAt  `json:"-" gorm:"index"`
}

// BeforeCreate sets UUID before creating the record.
func (i *InventoryItem) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}

// DeriveStatus computes the stock status from current quantities and stores
// it in the transient Status field for serialization.
func (i *InventoryItem) DeriveStatus() StockStatus {
	switch {
	case i.Quantity == 0:
		i.Status = StockStatusOutOfStock
	case i.Quantity <= i.MinStockLevel:
		i.Status = StockStatusLowStock
	default:
		i.Status = StockStatusInStock
	}
	return i.Status
}

// AfterFind recomputes the derived status whenever a row is loaded.
func (i *InventoryItem) AfterFind(tx *gorm.DB) error {
	i.DeriveStatus()
	return nil
}

// TotalValue returns quantity times unit price.
func (i *InventoryItem) TotalValue() decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromInt(int64(i.Quantity)))
}
