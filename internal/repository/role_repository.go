package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"servicedesk/internal/model"
)

// RoleRepository defines role assignment persistence operations.
type RoleRepository interface {
	Upsert(ctx context.Context, assignment *model.RoleAssignment) error
	FindByUserID(ctx context.Context, userID uuid.UUID) (*model.RoleAssignment, error)
	ListUserIDsByRoles(ctx context.Context, roles []model.Role) ([]uuid.UUID, error)
}

type roleRepository struct {
	db *gorm.DB
}

// NewRoleRepository creates a new role repository.
func NewRoleRepository(db *gorm.DB) RoleRepository {
	return &roleRepository{db: db}
}

// Upsert writes the assignment keyed on user_id in a single statement, so the
// one-row-per-user invariant holds without a delete-then-insert window.
func (r *roleRepository) Upsert(ctx context.Context, assignment *model.RoleAssignment) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"role", "specialty", "updated_at"}),
	}).Create(assignment).Error
}

func (r *roleRepository) FindByUserID(ctx context.Context, userID uuid.UUID) (*model.RoleAssignment, error) {
	var assignment model.RoleAssignment
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&assignment).Error; err != nil {
		return nil, err
	}
	return &assignment, nil
}

// ListUserIDsByRoles returns the ids of every user currently holding one of
// the given roles. Resolved at call time, not cached.
func (r *roleRepository) ListUserIDsByRoles(ctx context.Context, roles []model.Role) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	if err := r.db.WithContext(ctx).Model(&model.RoleAssignment{}).
		Where("role IN ?", roles).Pluck("user_id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}
