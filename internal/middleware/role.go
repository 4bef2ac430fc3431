package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"servicedesk/internal/errors"
	"servicedesk/internal/model"
)

// RequireRole enforces that the authenticated user holds one of the allowed
// roles. Access is granted iff the resolved role is in the allow-list; an
// unassigned role never passes a role-gated route. Assumes Identity ran
// earlier in the chain.
func RequireRole(roles ...model.Role) echo.MiddlewareFunc {
	allowed := make(map[model.Role]bool, len(roles))
	for _, r := range roles {
		allowed[r] = true
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			role, ok := c.Get(ContextRole).(model.Role)
			if !ok || !allowed[role] {
				return echo.NewHTTPError(http.StatusForbidden, errors.ErrorResponse{
					Error: "insufficient role",
					Code:  "FORBIDDEN",
				})
			}
			return next(c)
		}
	}
}
