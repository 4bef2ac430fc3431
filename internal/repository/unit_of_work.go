package repository

import (
	"context"

	"gorm.io/gorm"
)

// Set bundles transaction-scoped repositories handed to a unit of work. All
// members operate on the same underlying transaction, so writes either all
// commit or all roll back.
type Set struct {
	Profiles      ProfileRepository
	Roles         RoleRepository
	Requests      ServiceRequestRepository
	Activity      ActivityLogRepository
	Notifications NotificationRepository
	Outbox        OutboxRepository
	Inventory     InventoryRepository
}

// UnitOfWork runs a function against a transaction-scoped repository set.
type UnitOfWork interface {
	Do(ctx context.Context, fn func(ctx context.Context, repos Set) error) error
}

type unitOfWork struct {
	db *gorm.DB
}

// NewUnitOfWork creates a UnitOfWork over the given database handle.
func NewUnitOfWork(db *gorm.DB) UnitOfWork {
	return &unitOfWork{db: db}
}

func (u *unitOfWork) Do(ctx context.Context, fn func(ctx context.Context, repos Set) error) error {
	return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(ctx, Set{
			Profiles:      NewProfileRepository(tx),
			Roles:         NewRoleRepository(tx),
			Requests:      NewServiceRequestRepository(tx),
			Activity:      NewActivityLogRepository(tx),
			Notifications: NewNotificationRepository(tx),
			Outbox:        NewOutboxRepository(tx),
			Inventory:     NewInventoryRepository(tx),
		})
	})
}
