package model

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestInventoryItemDeriveStatus(t *testing.T) {
	tests := []struct {
		name     string
		quantity int
		minLevel int
		expected StockStatus
	}{
		{"zero quantity is out of stock", 0, 5, StockStatusOutOfStock},
		{"zero quantity with zero threshold", 0, 0, StockStatusOutOfStock},
		{"at threshold is low", 5, 5, StockStatusLowStock},
		{"below threshold is low", 3, 5, StockStatusLowStock},
		{"above threshold is in stock", 6, 5, StockStatusInStock},
		{"positive quantity with zero threshold", 1, 0, StockStatusInStock},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			item := InventoryItem{Quantity: tt.quantity, MinStockLevel: tt.minLevel}
			assert.Equal(t, tt.expected, item.DeriveStatus())
			assert.Equal(t, tt.expected, item.Status)
		})
	}
}

func TestInventoryItemTotalValue(t *testing.T) {
	item := InventoryItem{
		Quantity:  3,
		UnitPrice: decimal.NewFromFloat(4.50),
	}
	assert.True(t, item.TotalValue().Equal(decimal.NewFromFloat(13.50)))

	empty := InventoryItem{UnitPrice: decimal.NewFromFloat(4.50)}
	assert.True(t, empty.TotalValue().IsZero())
}
