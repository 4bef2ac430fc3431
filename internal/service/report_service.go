package service

import (
	"context"

	"github.com/shopspring/decimal"

	domerr "servicedesk/internal/errors"
	"servicedesk/internal/model"
	"servicedesk/internal/repository"
)

// Summary aggregates operational counts for the reporting endpoint.
type Summary struct {
	RequestsByStatus   map[model.RequestStatus]int64 `json:"requests_by_status"`
	InventoryItems     int                           `json:"inventory_items"`
	InventoryValuation decimal.Decimal               `json:"inventory_valuation"`
	LowStockItems      int                           `json:"low_stock_items"`
	OutOfStockItems    int                           `json:"out_of_stock_items"`
}

// ReportService produces aggregate views for elevated roles.
type ReportService interface {
	Summary(ctx context.Context, actor Actor) (*Summary, error)
	ExportInventory(ctx context.Context, actor Actor) ([]model.InventoryItem, error)
}

type reportService struct {
	requestRepo   repository.ServiceRequestRepository
	inventoryRepo repository.InventoryRepository
}

// NewReportService creates a new report service.
func NewReportService(requestRepo repository.ServiceRequestRepository, inventoryRepo repository.InventoryRepository) ReportService {
	return &reportService{requestRepo: requestRepo, inventoryRepo: inventoryRepo}
}

func (s *reportService) Summary(ctx context.Context, actor Actor) (*Summary, error) {
	if !actor.CanSeeAll() {
		return nil, domerr.ErrForbidden
	}

	counts, err := s.requestRepo.CountByStatus(ctx)
	if err != nil {
		return nil, err
	}

	items, err := s.inventoryRepo.List(ctx, repository.InventoryFilter{})
	if err != nil {
		return nil, err
	}

	summary := &Summary{
		RequestsByStatus:   counts,
		InventoryItems:     len(items),
		InventoryValuation: decimal.Zero,
	}
	for i := range items {
		summary.InventoryValuation = summary.InventoryValuation.Add(items[i].TotalValue())
		switch items[i].DeriveStatus() {
		case model.StockStatusLowStock:
			summary.LowStockItems++
		case model.StockStatusOutOfStock:
			summary.OutOfStockItems++
		}
	}
	return summary, nil
}

// ExportInventory returns the full inventory with derived stock status
// populated, for the JSON export download.
func (s *reportService) ExportInventory(ctx context.Context, actor Actor) ([]model.InventoryItem, error) {
	if !actor.CanSeeAll() {
		return nil, domerr.ErrForbidden
	}
	return s.inventoryRepo.List(ctx, repository.InventoryFilter{})
}
