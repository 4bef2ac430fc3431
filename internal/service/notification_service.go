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

// NotificationService owns notification delivery and read state. All creation
// goes through the outbox so delivery is at least once; direct inserts exist
// only inside the dispatcher.
type NotificationService interface {
	NotifyUser(ctx context.Context, userID uuid.UUID, title, message string, typ model.NotificationType) error
	NotifyRoles(ctx context.Context, roles []model.Role, title, message string, typ model.NotificationType) error
	Broadcast(ctx context.Context, title, message string, typ model.NotificationType) error
	ListForUser(ctx context.Context, userID uuid.UUID, unreadOnly bool) ([]model.Notification, error)
	MarkRead(ctx context.Context, userID, notificationID uuid.UUID) error
	MarkAllRead(ctx context.Context, userID uuid.UUID) error
	CountUnread(ctx context.Context, userID uuid.UUID) (int64, error)
}

type notificationService struct {
	notificationRepo repository.NotificationRepository
	roleRepo         repository.RoleRepository
	profileRepo      repository.ProfileRepository
	uow              repository.UnitOfWork
}

// NewNotificationService creates a new notification service.
func NewNotificationService(
	notificationRepo repository.NotificationRepository,
	roleRepo repository.RoleRepository,
	profileRepo repository.ProfileRepository,
	uow repository.UnitOfWork,
) NotificationService {
	return &notificationService{
		notificationRepo: notificationRepo,
		roleRepo:         roleRepo,
		profileRepo:      profileRepo,
		uow:              uow,
	}
}

func (s *notificationService) NotifyUser(ctx context.Context, userID uuid.UUID, title, message string, typ model.NotificationType) error {
	return s.enqueue(ctx, []uuid.UUID{userID}, title, message, typ)
}

// NotifyRoles targets every user currently holding one of the given roles.
// The role table is scanned at call time, so recipients reflect the roles as
// of the send, not a stale snapshot.
func (s *notificationService) NotifyRoles(ctx context.Context, roles []model.Role, title, message string, typ model.NotificationType) error {
	ids, err := s.roleRepo.ListUserIDsByRoles(ctx, roles)
	if err != nil {
		return fmt.Errorf("resolve role recipients: %w", err)
	}
	return s.enqueue(ctx, ids, title, message, typ)
}

// Broadcast targets every profile in the system.
func (s *notificationService) Broadcast(ctx context.Context, title, message string, typ model.NotificationType) error {
	ids, err := s.profileRepo.ListIDs(ctx)
	if err != nil {
		return fmt.Errorf("resolve broadcast recipients: %w", err)
	}
	return s.enqueue(ctx, ids, title, message, typ)
}

func (s *notificationService) enqueue(ctx context.Context, recipients []uuid.UUID, title, message string, typ model.NotificationType) error {
	messages := make([]model.OutboxMessage, 0, len(recipients))
	for _, userID := range recipients {
		msg, err := outbox.NewNotificationMessage(userID, title, message, typ)
		if err != nil {
			return err
		}
		messages = append(messages, msg)
	}
	return s.uow.Do(ctx, func(ctx context.Context, repos repository.Set) error {
		return repos.Outbox.EnqueueBatch(ctx, messages)
	})
}

func (s *notificationService) ListForUser(ctx context.Context, userID uuid.UUID, unreadOnly bool) ([]model.Notification, error) {
	return s.notificationRepo.ListByUser(ctx, userID, unreadOnly)
}

// MarkRead flips the read flag for a notification the user owns. Marking an
// already-read notification is a no-op, not an error.
func (s *notificationService) MarkRead(ctx context.Context, userID, notificationID uuid.UUID) error {
	affected, err := s.notificationRepo.MarkRead(ctx, notificationID, userID)
	if err != nil {
		return err
	}
	if affected > 0 {
		return nil
	}

	// Zero rows: either already read (fine) or not the caller's notification.
	notification, err := s.notificationRepo.FindByID(ctx, notificationID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domerr.ErrNotificationNotFound
		}
		return err
	}
	if notification.UserID != userID {
		return domerr.ErrForbidden
	}
	return nil
}

func (s *notificationService) MarkAllRead(ctx context.Context, userID uuid.UUID) error {
	return s.notificationRepo.MarkAllRead(ctx, userID)
}

func (s *notificationService) CountUnread(ctx context.Context, userID uuid.UUID) (int64, error) {
	return s.notificationRepo.CountUnread(ctx, userID)
}
