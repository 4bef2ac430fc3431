package handler

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"servicedesk/internal/errors"
	"servicedesk/internal/middleware"
	"servicedesk/internal/service"
)

// actorFrom builds the acting identity from the request context. Secured
// routes always run the Identity middleware first, so a miss here means a
// wiring mistake rather than a user error.
func actorFrom(c echo.Context) (service.Actor, error) {
	userID, role, ok := middleware.ActorFrom(c)
	if !ok {
		return service.Actor{}, echo.NewHTTPError(http.StatusUnauthorized, errors.ErrorResponse{
			Error: "missing identity",
			Code:  "UNAUTHORIZED",
		})
	}
	return service.Actor{ID: userID, Role: role}, nil
}

// parseID parses a uuid path parameter.
func parseID(c echo.Context, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		return uuid.Nil, echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
			Error: "invalid " + name,
			Code:  "INVALID_UUID",
		})
	}
	return id, nil
}

// domainError maps a service error to the standard error envelope.
func domainError(err error) *echo.HTTPError {
	httpErr := errors.MapErrorToHTTP(err)
	return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
}
