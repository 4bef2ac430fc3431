package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"servicedesk/internal/cache"
	domerr "servicedesk/internal/errors"
	"servicedesk/internal/model"
	"servicedesk/internal/outbox"
	"servicedesk/internal/repository"
)

const roleCacheTTL = time.Minute

// RoleService resolves and mutates role assignments.
type RoleService interface {
	// Resolve returns the user's role. A user with no assignment row resolves
	// to RoleUnassigned; only a real lookup failure returns an error.
	Resolve(ctx context.Context, userID uuid.UUID) (model.Role, error)
	// SetRole grants a role. Admin only.
	SetRole(ctx context.Context, actor Actor, userID uuid.UUID, role model.Role, specialty string) error
}

type roleService struct {
	roleRepo repository.RoleRepository
	uow      repository.UnitOfWork
	cache    *cache.Client
}

// NewRoleService creates a new role service.
func NewRoleService(roleRepo repository.RoleRepository, uow repository.UnitOfWork, cache *cache.Client) RoleService {
	return &roleService{roleRepo: roleRepo, uow: uow, cache: cache}
}

func roleCacheKey(userID uuid.UUID) string {
	return "role:" + userID.String()
}

func (s *roleService) Resolve(ctx context.Context, userID uuid.UUID) (model.Role, error) {
	if data, _ := s.cache.Get(ctx, roleCacheKey(userID)); data != nil {
		return model.Role(data), nil
	}

	assignment, err := s.roleRepo.FindByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// No row yet (e.g. mid sign-up): an explicit lowest-privilege
			// state, not an error and not "still loading".
			return model.RoleUnassigned, nil
		}
		return model.RoleUnassigned, fmt.Errorf("find role assignment: %w", err)
	}

	_ = s.cache.Set(ctx, roleCacheKey(userID), []byte(assignment.Role), roleCacheTTL)
	return assignment.Role, nil
}

func (s *roleService) SetRole(ctx context.Context, actor Actor, userID uuid.UUID, role model.Role, specialty string) error {
	if !actor.IsAdmin() {
		return domerr.ErrForbidden
	}
	// Claims go stale between token refreshes; for a grant, re-check the
	// actor's role against the store.
	current, err := s.Resolve(ctx, actor.ID)
	if err != nil {
		return err
	}
	if current != model.RoleAdmin {
		return domerr.ErrForbidden
	}
	if !role.Valid() {
		return domerr.ErrInvalidRole
	}
	if role != model.RoleTechnician {
		specialty = ""
	}

	notify, err := outbox.NewNotificationMessage(userID,
		"Role updated",
		fmt.Sprintf("Your access level is now %q.", role),
		model.NotificationInfo)
	if err != nil {
		return err
	}

	err = s.uow.Do(ctx, func(ctx context.Context, repos repository.Set) error {
		if err := repos.Roles.Upsert(ctx, &model.RoleAssignment{
			UserID:    userID,
			Role:      role,
			Specialty: specialty,
		}); err != nil {
			return fmt.Errorf("upsert role: %w", err)
		}
		if err := repos.Activity.Create(ctx, &model.ActivityLog{
			UserID:      actor.ID,
			Action:      model.ActionRoleChange,
			Description: fmt.Sprintf("role of %s set to %s", userID, role),
			EntityType:  "role_assignment",
			EntityID:    userID.String(),
		}); err != nil {
			return err
		}
		return repos.Outbox.Enqueue(ctx, &notify)
	})
	if err != nil {
		return err
	}

	_ = s.cache.Delete(ctx, roleCacheKey(userID))
	return nil
}
