package handler

import (
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"servicedesk/internal/repository"
	"servicedesk/internal/service"
)

// ActivityHandler exposes the append-only activity log.
type ActivityHandler struct {
	activityService service.ActivityService
}

// NewActivityHandler creates a new activity handler.
func NewActivityHandler(activityService service.ActivityService) *ActivityHandler {
	return &ActivityHandler{activityService: activityService}
}

// List godoc
// @Summary List activity log entries
// @Tags activity
// @Produce json
// @Security BearerAuth
// @Param user_id query string false "Filter by acting user"
// @Param action query string false "Filter by action"
// @Param entity_type query string false "Filter by entity type"
// @Param entity_id query string false "Filter by entity ID"
// @Param limit query int false "Max entries (default 100, cap 500)"
// @Success 200 {array} model.ActivityLog
// @Router /activity [get]
func (h *ActivityHandler) List(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	filter := repository.ActivityFilter{
		Action:     c.QueryParam("action"),
		EntityType: c.QueryParam("entity_type"),
		EntityID:   c.QueryParam("entity_id"),
	}
	if raw := c.QueryParam("user_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid user id")
		}
		filter.UserID = &id
	}
	if raw := c.QueryParam("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 0 {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid limit")
		}
		filter.Limit = limit
	}
	entries, err := h.activityService.List(c.Request().Context(), actor, filter)
	if err != nil {
		return domainError(err)
	}
	return c.JSON(http.StatusOK, entries)
}
