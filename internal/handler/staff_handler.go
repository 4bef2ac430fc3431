package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"servicedesk/internal/model"
	"servicedesk/internal/service"
)

// StaffHandler handles the staff management endpoints (directory, role
// grants, identity removal).
type StaffHandler struct {
	profileService service.ProfileService
	roleService    service.RoleService
}

// NewStaffHandler creates a new staff handler.
func NewStaffHandler(profileService service.ProfileService, roleService service.RoleService) *StaffHandler {
	return &StaffHandler{profileService: profileService, roleService: roleService}
}

// SetRoleRequest grants a role to a user.
type SetRoleRequest struct {
	Role      string `json:"role" validate:"required"`
	Specialty string `json:"specialty"`
}

// List godoc
// @Summary List staff with their roles
// @Tags staff
// @Produce json
// @Security BearerAuth
// @Success 200 {array} model.Profile
// @Failure 403 {object} errors.ErrorResponse
// @Router /staff [get]
func (h *StaffHandler) List(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	profiles, err := h.profileService.ListStaff(c.Request().Context(), actor)
	if err != nil {
		return domainError(err)
	}
	return c.JSON(http.StatusOK, profiles)
}

// Get godoc
// @Summary Get a staff member's profile
// @Tags staff
// @Produce json
// @Security BearerAuth
// @Param id path string true "User ID"
// @Success 200 {object} model.Profile
// @Failure 404 {object} errors.ErrorResponse
// @Router /staff/{id} [get]
func (h *StaffHandler) Get(c echo.Context) error {
	userID, err := parseID(c, "id")
	if err != nil {
		return err
	}
	profile, err := h.profileService.Get(c.Request().Context(), userID)
	if err != nil {
		return domainError(err)
	}
	return c.JSON(http.StatusOK, profile)
}

// Update godoc
// @Summary Update a staff member's profile
// @Tags staff
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "User ID"
// @Param request body UpdateProfileRequest true "Profile data"
// @Success 200 {object} model.Profile
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /staff/{id} [put]
func (h *StaffHandler) Update(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	userID, err := parseID(c, "id")
	if err != nil {
		return err
	}
	var req UpdateProfileRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	profile, err := h.profileService.Update(c.Request().Context(), actor, userID, req.toInput())
	if err != nil {
		return domainError(err)
	}
	return c.JSON(http.StatusOK, profile)
}

// SetRole godoc
// @Summary Grant a role to a user
// @Tags staff
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "User ID"
// @Param request body SetRoleRequest true "Role grant"
// @Success 200 {object} map[string]string
// @Failure 400 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Router /staff/{id}/role [put]
func (h *StaffHandler) SetRole(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	userID, err := parseID(c, "id")
	if err != nil {
		return err
	}
	var req SetRoleRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := h.roleService.SetRole(c.Request().Context(), actor, userID, model.Role(req.Role), req.Specialty); err != nil {
		return domainError(err)
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "role updated"})
}

// Delete godoc
// @Summary Remove a user identity
// @Tags staff
// @Produce json
// @Security BearerAuth
// @Param id path string true "User ID"
// @Success 200 {object} map[string]string
// @Failure 403 {object} errors.ErrorResponse
// @Router /staff/{id} [delete]
func (h *StaffHandler) Delete(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	userID, err := parseID(c, "id")
	if err != nil {
		return err
	}
	if err := h.profileService.Delete(c.Request().Context(), actor, userID); err != nil {
		return domainError(err)
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "user removed"})
}
