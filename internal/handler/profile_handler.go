package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"servicedesk/internal/service"
)

// ProfileHandler handles the authenticated user's own profile.
type ProfileHandler struct {
	profileService service.ProfileService
}

// NewProfileHandler creates a new profile handler.
func NewProfileHandler(profileService service.ProfileService) *ProfileHandler {
	return &ProfileHandler{profileService: profileService}
}

// UpdateProfileRequest carries the owner-editable fields.
type UpdateProfileRequest struct {
	FirstName string `json:"first_name" validate:"required"`
	LastName  string `json:"last_name" validate:"required"`
	Phone     string `json:"phone"`
	Bio       string `json:"bio"`
	Company   string `json:"company"`
	Position  string `json:"position"`
	AvatarURL string `json:"avatar_url"`
}

func (r *UpdateProfileRequest) toInput() service.UpdateProfileInput {
	return service.UpdateProfileInput{
		FirstName: r.FirstName,
		LastName:  r.LastName,
		Phone:     r.Phone,
		Bio:       r.Bio,
		Company:   r.Company,
		Position:  r.Position,
		AvatarURL: r.AvatarURL,
	}
}

// Me godoc
// @Summary Get the caller's profile
// @Tags profile
// @Produce json
// @Security BearerAuth
// @Success 200 {object} model.Profile
// @Failure 404 {object} errors.ErrorResponse
// @Router /me [get]
func (h *ProfileHandler) Me(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	profile, err := h.profileService.Get(c.Request().Context(), actor.ID)
	if err != nil {
		return domainError(err)
	}
	return c.JSON(http.StatusOK, profile)
}

// UpdateMe godoc
// @Summary Update the caller's profile
// @Tags profile
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body UpdateProfileRequest true "Profile fields"
// @Success 200 {object} model.Profile
// @Failure 400 {object} errors.ErrorResponse
// @Router /me [put]
func (h *ProfileHandler) UpdateMe(c echo.Context) error {
	actor, err := actorFrom(c)
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

	profile, err := h.profileService.Update(c.Request().Context(), actor, actor.ID, req.toInput())
	if err != nil {
		return domainError(err)
	}
	return c.JSON(http.StatusOK, profile)
}
