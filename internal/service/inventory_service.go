package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	domerr "servicedesk/internal/errors"
	"servicedesk/internal/model"
	"servicedesk/internal/outbox"
	"servicedesk/internal/repository"
)

// InventoryService owns stock-keeping CRUD. Stock status is derived on every
// read and never written; when a quantity change drops an item to low or out
// of stock, admins and managers get an outbox notification.
type InventoryService interface {
	Create(ctx context.Context, item *model.InventoryItem) (*model.InventoryItem, error)
	Get(ctx context.Context, id uuid.UUID) (*model.InventoryItem, error)
	List(ctx context.Context, filter repository.InventoryFilter) ([]model.InventoryItem, error)
	Update(ctx context.Context, id uuid.UUID, updated *model.InventoryItem) (*model.InventoryItem, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type inventoryService struct {
	inventoryRepo repository.InventoryRepository
	uow           repository.UnitOfWork
}

// NewInventoryService creates a new inventory service.
func NewInventoryService(inventoryRepo repository.InventoryRepository, uow repository.UnitOfWork) InventoryService {
	return &inventoryService{inventoryRepo: inventoryRepo, uow: uow}
}

func (s *inventoryService) Create(ctx context.Context, item *model.InventoryItem) (*model.InventoryItem, error) {
	item.ID = uuid.New()
	if err := s.inventoryRepo.Create(ctx, item); err != nil {
		return nil, err
	}
	item.DeriveStatus()
	return item, nil
}

func (s *inventoryService) Get(ctx context.Context, id uuid.UUID) (*model.InventoryItem, error) {
	item, err := s.inventoryRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domerr.ErrItemNotFound
		}
		return nil, err
	}
	return item, nil
}

func (s *inventoryService) List(ctx context.Context, filter repository.InventoryFilter) ([]model.InventoryItem, error) {
	return s.inventoryRepo.List(ctx, filter)
}

func (s *inventoryService) Update(ctx context.Context, id uuid.UUID, updated *model.InventoryItem) (*model.InventoryItem, error) {
	item, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	wasHealthy := item.DeriveStatus() == model.StockStatusInStock

	item.Name = updated.Name
	item.Category = updated.Category
	item.Quantity = updated.Quantity
	item.MinStockLevel = updated.MinStockLevel
	item.UnitPrice = updated.UnitPrice
	item.Supplier = updated.Supplier
	item.Location = updated.Location

	nowStatus := item.DeriveStatus()

	err = s.uow.Do(ctx, func(ctx context.Context, repos repository.Set) error {
		if err := repos.Inventory.Update(ctx, item); err != nil {
			return err
		}
		if !wasHealthy || nowStatus == model.StockStatusInStock {
			return nil
		}
		adminIDs, err := repos.Roles.ListUserIDsByRoles(ctx, []model.Role{model.RoleAdmin, model.RoleManager})
		if err != nil {
			return fmt.Errorf("list stock alert recipients: %w", err)
		}
		messages := make([]model.OutboxMessage, 0, len(adminIDs))
		for _, adminID := range adminIDs {
			msg, err := outbox.NewNotificationMessage(adminID,
				"Stock alert",
				fmt.Sprintf("%q is %s (quantity %d, minimum %d).", item.Name, nowStatus, item.Quantity, item.MinStockLevel),
				model.NotificationWarning)
			if err != nil {
				return err
			}
			messages = append(messages, msg)
		}
		return repos.Outbox.EnqueueBatch(ctx, messages)
	})
	if err != nil {
		return nil, err
	}
	return item, nil
}

func (s *inventoryService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	return s.inventoryRepo.Delete(ctx, id)
}
