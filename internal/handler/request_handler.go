package handler

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"servicedesk/internal/model"
	"servicedesk/internal/repository"
	"servicedesk/internal/service"
)

// RequestHandler handles service request endpoints, including the lifecycle
// actions. Every lifecycle route funnels into the same service transition.
type RequestHandler struct {
	requestService service.RequestService
}

// NewRequestHandler creates a new request handler.
func NewRequestHandler(requestService service.RequestService) *RequestHandler {
	return &RequestHandler{requestService: requestService}
}

// CreateRequestRequest carries the fields of a new service request.
type CreateRequestRequest struct {
	Title             string     `json:"title" validate:"required"`
	Description       string     `json:"description"`
	JobType           string     `json:"job_type" validate:"required"`
	Priority          string     `json:"priority" validate:"omitempty,oneof=low medium high urgent"`
	Location          string     `json:"location"`
	RequiredSpecialty string     `json:"required_specialty"`
	ScheduledDate     *time.Time `json:"scheduled_date"`
}

// UpdateRequestRequest carries the editable fields of an existing request.
// There is no status field here; status moves through the lifecycle routes.
type UpdateRequestRequest struct {
	Title             string     `json:"title" validate:"required"`
	Description       string     `json:"description"`
	Priority          string     `json:"priority" validate:"omitempty,oneof=low medium high urgent"`
	Location          string     `json:"location"`
	RequiredSpecialty string     `json:"required_specialty"`
	ScheduledDate     *time.Time `json:"scheduled_date"`
}

// AssignRequest names the technician for an admin-initiated assignment.
type AssignRequest struct {
	TechnicianID string `json:"technician_id" validate:"required,uuid"`
}

// Create godoc
// @Summary Create a service request
// @Tags requests
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateRequestRequest true "Request data"
// @Success 201 {object} model.ServiceRequest
// @Failure 400 {object} errors.ErrorResponse
// @Router /requests [post]
func (h *RequestHandler) Create(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	var req CreateRequestRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	request, err := h.requestService.Create(c.Request().Context(), actor, service.CreateRequestInput{
		Title:             req.Title,
		Description:       req.Description,
		JobType:           req.JobType,
		Priority:          model.RequestPriority(req.Priority),
		Location:          req.Location,
		RequiredSpecialty: req.RequiredSpecialty,
		ScheduledDate:     req.ScheduledDate,
	})
	if err != nil {
		return domainError(err)
	}
	return c.JSON(http.StatusCreated, request)
}

// List godoc
// @Summary List service requests visible to the caller
// @Tags requests
// @Produce json
// @Security BearerAuth
// @Param status query string false "Status filter"
// @Param priority query string false "Priority filter"
// @Param job_type query string false "Job type filter"
// @Param search query string false "Substring match on title"
// @Success 200 {array} model.ServiceRequest
// @Router /requests [get]
func (h *RequestHandler) List(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	requests, err := h.requestService.List(c.Request().Context(), actor, repository.RequestFilter{
		Status:   model.RequestStatus(c.QueryParam("status")),
		Priority: model.RequestPriority(c.QueryParam("priority")),
		JobType:  c.QueryParam("job_type"),
		Search:   c.QueryParam("search"),
	})
	if err != nil {
		return domainError(err)
	}
	return c.JSON(http.StatusOK, requests)
}

// Get godoc
// @Summary Get a service request
// @Tags requests
// @Produce json
// @Security BearerAuth
// @Param id path string true "Request ID"
// @Success 200 {object} model.ServiceRequest
// @Failure 404 {object} errors.ErrorResponse
// @Router /requests/{id} [get]
func (h *RequestHandler) Get(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	request, err := h.requestService.Get(c.Request().Context(), actor, id)
	if err != nil {
		return domainError(err)
	}
	return c.JSON(http.StatusOK, request)
}

// Update godoc
// @Summary Update a service request
// @Tags requests
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Request ID"
// @Param request body UpdateRequestRequest true "Request data"
// @Success 200 {object} model.ServiceRequest
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /requests/{id} [put]
func (h *RequestHandler) Update(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	var req UpdateRequestRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	request, err := h.requestService.Update(c.Request().Context(), actor, id, service.UpdateRequestInput{
		Title:             req.Title,
		Description:       req.Description,
		Priority:          model.RequestPriority(req.Priority),
		Location:          req.Location,
		RequiredSpecialty: req.RequiredSpecialty,
		ScheduledDate:     req.ScheduledDate,
	})
	if err != nil {
		return domainError(err)
	}
	return c.JSON(http.StatusOK, request)
}

// Delete godoc
// @Summary Delete a service request
// @Tags requests
// @Produce json
// @Security BearerAuth
// @Param id path string true "Request ID"
// @Success 200 {object} map[string]string
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /requests/{id} [delete]
func (h *RequestHandler) Delete(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	if err := h.requestService.Delete(c.Request().Context(), actor, id); err != nil {
		return domainError(err)
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "request deleted"})
}

// Claim godoc
// @Summary Claim a pending request as the calling technician
// @Tags requests
// @Produce json
// @Security BearerAuth
// @Param id path string true "Request ID"
// @Success 200 {object} model.ServiceRequest
// @Failure 403 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Router /requests/{id}/claim [post]
func (h *RequestHandler) Claim(c echo.Context) error {
	return h.transition(c, model.RequestStatusAssigned, service.TransitionOptions{})
}

// Assign godoc
// @Summary Assign a pending request to a named technician
// @Tags requests
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Request ID"
// @Param request body AssignRequest true "Technician"
// @Success 200 {object} model.ServiceRequest
// @Failure 403 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Router /requests/{id}/assign [post]
func (h *RequestHandler) Assign(c echo.Context) error {
	var req AssignRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	technicianID, err := uuid.Parse(req.TechnicianID)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid technician id")
	}
	return h.transition(c, model.RequestStatusAssigned, service.TransitionOptions{AssigneeID: &technicianID})
}

// Start godoc
// @Summary Move an assigned request to in progress
// @Tags requests
// @Produce json
// @Security BearerAuth
// @Param id path string true "Request ID"
// @Success 200 {object} model.ServiceRequest
// @Failure 403 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Router /requests/{id}/start [post]
func (h *RequestHandler) Start(c echo.Context) error {
	return h.transition(c, model.RequestStatusInProgress, service.TransitionOptions{})
}

// Complete godoc
// @Summary Mark an in-progress request completed
// @Tags requests
// @Produce json
// @Security BearerAuth
// @Param id path string true "Request ID"
// @Success 200 {object} model.ServiceRequest
// @Failure 403 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Router /requests/{id}/complete [post]
func (h *RequestHandler) Complete(c echo.Context) error {
	return h.transition(c, model.RequestStatusCompleted, service.TransitionOptions{})
}

// Cancel godoc
// @Summary Cancel a pending or assigned request
// @Tags requests
// @Produce json
// @Security BearerAuth
// @Param id path string true "Request ID"
// @Success 200 {object} model.ServiceRequest
// @Failure 403 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Router /requests/{id}/cancel [post]
func (h *RequestHandler) Cancel(c echo.Context) error {
	return h.transition(c, model.RequestStatusCancelled, service.TransitionOptions{})
}

func (h *RequestHandler) transition(c echo.Context, target model.RequestStatus, opts service.TransitionOptions) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	request, err := h.requestService.Transition(c.Request().Context(), actor, id, target, opts)
	if err != nil {
		return domainError(err)
	}
	return c.JSON(http.StatusOK, request)
}
