package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Role is the access level a user holds. Every authenticated user resolves to
// exactly one role; a user with no assignment row resolves to RoleUnassigned,
// which is a real value distinct from a failed lookup and carries no
// privileges beyond authentication.
type Role string

const (
	RoleUnassigned Role = "unassigned"
	RoleUser       Role = "user"
	RoleAdmin      Role = "admin"
	RoleTechnician Role = "technician"
	RoleSales      Role = "sales"
	RoleCEO        Role = "ceo"
	RoleManager    Role = "manager"
)

// AssignableRoles are the roles an admin may grant.
var AssignableRoles = []Role{RoleUser, RoleAdmin, RoleTechnician, RoleSales, RoleCEO, RoleManager}

// Valid reports whether r is a grantable role.
func (r Role) Valid() bool {
	for _, candidate := range AssignableRoles {
		if r == candidate {
			return true
		}
	}
	return false
}

// Elevated reports whether r may see all rows of user-scoped entities.
func (r Role) Elevated() bool {
	return r == RoleAdmin || r == RoleManager || r == RoleCEO
}

// RoleAssignment maps a user to their single role. The unique index on UserID
// plus upsert-on-write keeps the one-row-per-user invariant without a
// delete-then-insert window.
type RoleAssignment struct {
	ID        uuid.UUID `json:"id" gorm:"type:char(36);primaryKey"`
	UserID    uuid.UUID `json:"user_id" gorm:"type:char(36);not null;uniqueIndex"`
	Role      Role      `json:"role" gorm:"type:varchar(20);not null;index"`
	Specialty string    `json:"specialty,omitempty" gorm:"size:100"` // technicians only
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// BeforeCreate sets UUID before creating the record.
func (ra *RoleAssignment) BeforeCreate(tx *gorm.DB) error {
	if ra.ID == uuid.Nil {
		ra.ID = uuid.New()
	}
	return nil
}
