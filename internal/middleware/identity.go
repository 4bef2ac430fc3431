package middleware

import (
	"net/http"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"servicedesk/internal/auth"
	"servicedesk/internal/model"
)

// Context keys populated by Identity.
const (
	ContextUserID = "user_id"
	ContextEmail  = "email"
	ContextRole   = "role"
)

// Identity extracts the verified JWT claims stored by the echo-jwt middleware
// and places the user id, email, and role in the request context. It must run
// after the JWT middleware on every secured group.
func Identity() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token, ok := c.Get("user").(*jwt.Token)
			if !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing token")
			}
			claims, ok := token.Claims.(*auth.Claims)
			if !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token claims")
			}
			userID, role, err := claims.Identity()
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, err.Error())
			}
			c.Set(ContextUserID, userID)
			c.Set(ContextEmail, claims.Email)
			c.Set(ContextRole, role)
			return next(c)
		}
	}
}

// ActorFrom returns the authenticated identity placed by Identity.
func ActorFrom(c echo.Context) (uuid.UUID, model.Role, bool) {
	userID, ok := c.Get(ContextUserID).(uuid.UUID)
	if !ok {
		return uuid.Nil, model.RoleUnassigned, false
	}
	role, ok := c.Get(ContextRole).(model.Role)
	if !ok {
		return uuid.Nil, model.RoleUnassigned, false
	}
	return userID, role, true
}
