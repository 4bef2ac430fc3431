package handler

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"servicedesk/internal/model"
	"servicedesk/internal/realtime"
	"servicedesk/internal/service"
)

// NotificationHandler handles the notification inbox and the live stream.
type NotificationHandler struct {
	notificationService service.NotificationService
	feed                *realtime.Feed
}

// NewNotificationHandler creates a new notification handler.
func NewNotificationHandler(notificationService service.NotificationService, feed *realtime.Feed) *NotificationHandler {
	return &NotificationHandler{notificationService: notificationService, feed: feed}
}

// NotifyRolesRequest targets every holder of the listed roles.
type NotifyRolesRequest struct {
	Roles   []string `json:"roles" validate:"required,min=1,dive,oneof=user admin technician sales ceo manager"`
	Title   string   `json:"title" validate:"required"`
	Message string   `json:"message" validate:"required"`
	Type    string   `json:"type" validate:"omitempty,oneof=info success warning error"`
}

// BroadcastRequest targets every registered user.
type BroadcastRequest struct {
	Title   string `json:"title" validate:"required"`
	Message string `json:"message" validate:"required"`
	Type    string `json:"type" validate:"omitempty,oneof=info success warning error"`
}

func notificationType(s string) model.NotificationType {
	if s == "" {
		return model.NotificationInfo
	}
	return model.NotificationType(s)
}

// List godoc
// @Summary List the caller's notifications
// @Tags notifications
// @Produce json
// @Security BearerAuth
// @Param unread query bool false "Only unread notifications"
// @Success 200 {array} model.Notification
// @Router /notifications [get]
func (h *NotificationHandler) List(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	unreadOnly := c.QueryParam("unread") == "true"
	notifications, err := h.notificationService.ListForUser(c.Request().Context(), actor.ID, unreadOnly)
	if err != nil {
		return domainError(err)
	}
	return c.JSON(http.StatusOK, notifications)
}

// UnreadCount godoc
// @Summary Count the caller's unread notifications
// @Tags notifications
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]int64
// @Router /notifications/unread-count [get]
func (h *NotificationHandler) UnreadCount(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	count, err := h.notificationService.CountUnread(c.Request().Context(), actor.ID)
	if err != nil {
		return domainError(err)
	}
	return c.JSON(http.StatusOK, map[string]int64{"unread": count})
}

// MarkRead godoc
// @Summary Mark one notification read
// @Tags notifications
// @Produce json
// @Security BearerAuth
// @Param id path string true "Notification ID"
// @Success 200 {object} map[string]string
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /notifications/{id}/read [put]
func (h *NotificationHandler) MarkRead(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	if err := h.notificationService.MarkRead(c.Request().Context(), actor.ID, id); err != nil {
		return domainError(err)
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "notification read"})
}

// MarkAllRead godoc
// @Summary Mark every unread notification read
// @Tags notifications
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]string
// @Router /notifications/read-all [put]
func (h *NotificationHandler) MarkAllRead(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	if err := h.notificationService.MarkAllRead(c.Request().Context(), actor.ID); err != nil {
		return domainError(err)
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "all notifications read"})
}

// Stream godoc
// @Summary Stream the caller's notifications over server-sent events
// @Tags notifications
// @Produce text/event-stream
// @Security BearerAuth
// @Success 200 {string} string "SSE stream"
// @Router /notifications/stream [get]
func (h *NotificationHandler) Stream(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}

	w := c.Response()
	w.Header().Set(echo.HeaderContentType, "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	w.Flush()

	ctx := c.Request().Context()
	messages, cleanup := h.feed.Subscribe(ctx, actor.ID)
	defer cleanup()

	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-messages:
			if !ok {
				return nil
			}
			if _, err := fmt.Fprintf(w, "event: notification\ndata: %s\n\n", msg.Payload); err != nil {
				return nil
			}
			w.Flush()
		}
	}
}

// NotifyRoles godoc
// @Summary Send a notification to every holder of the given roles
// @Tags notifications
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body NotifyRolesRequest true "Targets and content"
// @Success 202 {object} map[string]string
// @Failure 400 {object} errors.ErrorResponse
// @Router /notifications/roles [post]
func (h *NotificationHandler) NotifyRoles(c echo.Context) error {
	var req NotifyRolesRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	roles := make([]model.Role, 0, len(req.Roles))
	for _, r := range req.Roles {
		roles = append(roles, model.Role(r))
	}
	if err := h.notificationService.NotifyRoles(c.Request().Context(), roles, req.Title, req.Message, notificationType(req.Type)); err != nil {
		return domainError(err)
	}
	return c.JSON(http.StatusAccepted, map[string]string{"message": "notification queued"})
}

// Broadcast godoc
// @Summary Send a notification to every user
// @Tags notifications
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body BroadcastRequest true "Content"
// @Success 202 {object} map[string]string
// @Failure 400 {object} errors.ErrorResponse
// @Router /notifications/broadcast [post]
func (h *NotificationHandler) Broadcast(c echo.Context) error {
	var req BroadcastRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := h.notificationService.Broadcast(c.Request().Context(), req.Title, req.Message, notificationType(req.Type)); err != nil {
		return domainError(err)
	}
	return c.JSON(http.StatusAccepted, map[string]string{"message": "broadcast queued"})
}
