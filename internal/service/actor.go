package service

import (
	"github.com/google/uuid"

	"servicedesk/internal/model"
)

// Actor is the authenticated identity performing an operation. Services check
// permissions against it once, centrally; handlers never duplicate the check.
type Actor struct {
	ID   uuid.UUID
	Role model.Role
}

// CanSeeAll reports whether the actor may read all rows of user-scoped
// entities instead of only their own.
func (a Actor) CanSeeAll() bool {
	return a.Role.Elevated()
}

// IsAdmin reports whether the actor holds the admin role.
func (a Actor) IsAdmin() bool {
	return a.Role == model.RoleAdmin
}
