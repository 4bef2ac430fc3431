package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"servicedesk/internal/model"
	"servicedesk/internal/repository"
	"servicedesk/internal/service"
)

// AssetHandler handles equipment asset endpoints.
type AssetHandler struct {
	assetService service.AssetService
}

// NewAssetHandler creates a new asset handler.
func NewAssetHandler(assetService service.AssetService) *AssetHandler {
	return &AssetHandler{assetService: assetService}
}

// AssetRequest carries asset fields for create and update.
type AssetRequest struct {
	Name           string `json:"name" validate:"required"`
	Type           string `json:"type" validate:"required"`
	Manufacturer   string `json:"manufacturer"`
	Specifications string `json:"specifications"`
	Status         string `json:"status" validate:"omitempty,oneof=active maintenance retired"`
}

func (r *AssetRequest) toModel() *model.Asset {
	return &model.Asset{
		Name:           r.Name,
		Type:           r.Type,
		Manufacturer:   r.Manufacturer,
		Specifications: r.Specifications,
		Status:         model.AssetStatus(r.Status),
	}
}

// List godoc
// @Summary List assets
// @Tags assets
// @Produce json
// @Security BearerAuth
// @Param status query string false "Status filter"
// @Param type query string false "Type filter"
// @Param search query string false "Substring match on name and manufacturer"
// @Success 200 {array} model.Asset
// @Router /assets [get]
func (h *AssetHandler) List(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	assets, err := h.assetService.List(c.Request().Context(), actor, repository.AssetFilter{
		Status: model.AssetStatus(c.QueryParam("status")),
		Type:   c.QueryParam("type"),
		Search: c.QueryParam("search"),
	})
	if err != nil {
		return domainError(err)
	}
	return c.JSON(http.StatusOK, assets)
}

// Get godoc
// @Summary Get an asset
// @Tags assets
// @Produce json
// @Security BearerAuth
// @Param id path string true "Asset ID"
// @Success 200 {object} model.Asset
// @Failure 404 {object} errors.ErrorResponse
// @Router /assets/{id} [get]
func (h *AssetHandler) Get(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	asset, err := h.assetService.Get(c.Request().Context(), actor, id)
	if err != nil {
		return domainError(err)
	}
	return c.JSON(http.StatusOK, asset)
}

// Create godoc
// @Summary Create an asset
// @Tags assets
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body AssetRequest true "Asset data"
// @Success 201 {object} model.Asset
// @Failure 400 {object} errors.ErrorResponse
// @Router /assets [post]
func (h *AssetHandler) Create(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	var req AssetRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	asset, err := h.assetService.Create(c.Request().Context(), actor, req.toModel())
	if err != nil {
		return domainError(err)
	}
	return c.JSON(http.StatusCreated, asset)
}

// Update godoc
// @Summary Update an asset
// @Tags assets
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Asset ID"
// @Param request body AssetRequest true "Asset data"
// @Success 200 {object} model.Asset
// @Failure 404 {object} errors.ErrorResponse
// @Router /assets/{id} [put]
func (h *AssetHandler) Update(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	var req AssetRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	asset, err := h.assetService.Update(c.Request().Context(), actor, id, req.toModel())
	if err != nil {
		return domainError(err)
	}
	return c.JSON(http.StatusOK, asset)
}

// Delete godoc
// @Summary Delete an asset
// @Tags assets
// @Produce json
// @Security BearerAuth
// @Param id path string true "Asset ID"
// @Success 200 {object} map[string]string
// @Failure 404 {object} errors.ErrorResponse
// @Router /assets/{id} [delete]
func (h *AssetHandler) Delete(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	if err := h.assetService.Delete(c.Request().Context(), actor, id); err != nil {
		return domainError(err)
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "asset deleted"})
}
