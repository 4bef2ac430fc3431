package service

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"servicedesk/internal/model"
	"servicedesk/internal/repository"
)

func TestInventoryService_Update_StockAlert(t *testing.T) {
	itemID := uuid.New()
	adminID := uuid.New()

	stored := func(quantity int) *model.InventoryItem {
		return &model.InventoryItem{
			ID:            itemID,
			Name:          "Circuit breaker 16A",
			Quantity:      quantity,
			MinStockLevel: 10,
			UnitPrice:     decimal.NewFromFloat(12.90),
		}
	}

	t.Run("drop below threshold alerts admins", func(t *testing.T) {
		mockInventory := new(MockInventoryRepository)
		txInventory := new(MockInventoryRepository)
		mockRoles := new(MockRoleRepository)
		mockOutbox := new(MockOutboxRepository)

		mockInventory.On("FindByID", mock.Anything, itemID).Return(stored(25), nil)
		txInventory.On("Update", mock.Anything, mock.MatchedBy(func(i *model.InventoryItem) bool {
			return i.Quantity == 4
		})).Return(nil)
		mockRoles.On("ListUserIDsByRoles", mock.Anything, []model.Role{model.RoleAdmin, model.RoleManager}).
			Return([]uuid.UUID{adminID}, nil)
		mockOutbox.On("EnqueueBatch", mock.Anything, mock.MatchedBy(func(msgs []model.OutboxMessage) bool {
			return len(msgs) == 1 && msgs[0].Kind == model.OutboxKindNotification
		})).Return(nil)

		service := NewInventoryService(mockInventory, &fakeUnitOfWork{repos: repository.Set{
			Roles:     mockRoles,
			Outbox:    mockOutbox,
			Inventory: txInventory,
		}})

		next := stored(25)
		next.Quantity = 4
		item, err := service.Update(context.Background(), itemID, next)

		assert.NoError(t, err)
		assert.Equal(t, model.StockStatusLowStock, item.Status)
		mockInventory.AssertExpectations(t)
		txInventory.AssertExpectations(t)
		mockRoles.AssertExpectations(t)
		mockOutbox.AssertExpectations(t)
	})

	t.Run("healthy to healthy stays quiet", func(t *testing.T) {
		mockInventory := new(MockInventoryRepository)
		txInventory := new(MockInventoryRepository)
		mockOutbox := new(MockOutboxRepository)

		mockInventory.On("FindByID", mock.Anything, itemID).Return(stored(25), nil)
		txInventory.On("Update", mock.Anything, mock.AnythingOfType("*model.InventoryItem")).Return(nil)

		service := NewInventoryService(mockInventory, &fakeUnitOfWork{repos: repository.Set{
			Outbox:    mockOutbox,
			Inventory: txInventory,
		}})

		next := stored(25)
		next.Quantity = 30
		item, err := service.Update(context.Background(), itemID, next)

		assert.NoError(t, err)
		assert.Equal(t, model.StockStatusInStock, item.Status)
		mockOutbox.AssertNotCalled(t, "EnqueueBatch", mock.Anything, mock.Anything)
	})

	t.Run("already low does not re-alert", func(t *testing.T) {
		mockInventory := new(MockInventoryRepository)
		txInventory := new(MockInventoryRepository)
		mockOutbox := new(MockOutboxRepository)

		mockInventory.On("FindByID", mock.Anything, itemID).Return(stored(8), nil)
		txInventory.On("Update", mock.Anything, mock.AnythingOfType("*model.InventoryItem")).Return(nil)

		service := NewInventoryService(mockInventory, &fakeUnitOfWork{repos: repository.Set{
			Outbox:    mockOutbox,
			Inventory: txInventory,
		}})

		next := stored(8)
		next.Quantity = 7
		_, err := service.Update(context.Background(), itemID, next)

		assert.NoError(t, err)
		mockOutbox.AssertNotCalled(t, "EnqueueBatch", mock.Anything, mock.Anything)
	})

	t.Run("write stays inside the transaction when the alert enqueue fails", func(t *testing.T) {
		mockInventory := new(MockInventoryRepository)
		txInventory := new(MockInventoryRepository)
		mockRoles := new(MockRoleRepository)
		mockOutbox := new(MockOutboxRepository)

		mockInventory.On("FindByID", mock.Anything, itemID).Return(stored(25), nil)
		txInventory.On("Update", mock.Anything, mock.AnythingOfType("*model.InventoryItem")).Return(nil)
		mockRoles.On("ListUserIDsByRoles", mock.Anything, []model.Role{model.RoleAdmin, model.RoleManager}).
			Return([]uuid.UUID{adminID}, nil)
		mockOutbox.On("EnqueueBatch", mock.Anything, mock.Anything).Return(errors.New("insert failed"))

		service := NewInventoryService(mockInventory, &fakeUnitOfWork{repos: repository.Set{
			Roles:     mockRoles,
			Outbox:    mockOutbox,
			Inventory: txInventory,
		}})

		next := stored(25)
		next.Quantity = 0
		_, err := service.Update(context.Background(), itemID, next)

		assert.Error(t, err)
		// The UPDATE must go through the transaction-scoped repo so a failed
		// enqueue rolls the quantity change back with it.
		mockInventory.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
		txInventory.AssertExpectations(t)
	})
}
