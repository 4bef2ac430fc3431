package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"servicedesk/internal/model"
	"servicedesk/internal/repository"
	"servicedesk/internal/service"
)

// InventoryHandler handles stock-keeping endpoints. Route-level role
// middleware restricts who reaches these; the handler itself does not
// re-check ownership because inventory is shared, not per-user.
type InventoryHandler struct {
	inventoryService service.InventoryService
}

// NewInventoryHandler creates a new inventory handler.
func NewInventoryHandler(inventoryService service.InventoryService) *InventoryHandler {
	return &InventoryHandler{inventoryService: inventoryService}
}

// InventoryItemRequest carries item fields for create and update.
type InventoryItemRequest struct {
	Name          string `json:"name" validate:"required"`
	Category      string `json:"category"`
	Quantity      int    `json:"quantity" validate:"min=0"`
	MinStockLevel int    `json:"min_stock_level" validate:"min=0"`
	UnitPrice     string `json:"unit_price" validate:"omitempty,numeric"`
	Supplier      string `json:"supplier"`
	Location      string `json:"location"`
}

func (r *InventoryItemRequest) toModel() (*model.InventoryItem, error) {
	price := decimal.Zero
	if r.UnitPrice != "" {
		var err error
		price, err = decimal.NewFromString(r.UnitPrice)
		if err != nil {
			return nil, err
		}
	}
	return &model.InventoryItem{
		Name:          r.Name,
		Category:      r.Category,
		Quantity:      r.Quantity,
		MinStockLevel: r.MinStockLevel,
		UnitPrice:     price,
		Supplier:      r.Supplier,
		Location:      r.Location,
	}, nil
}

// List godoc
// @Summary List inventory items
// @Tags inventory
// @Produce json
// @Security BearerAuth
// @Param category query string false "Category filter"
// @Param supplier query string false "Supplier filter"
// @Param search query string false "Substring match on name"
// @Success 200 {array} model.InventoryItem
// @Router /inventory [get]
func (h *InventoryHandler) List(c echo.Context) error {
	items, err := h.inventoryService.List(c.Request().Context(), repository.InventoryFilter{
		Category: c.QueryParam("category"),
		Supplier: c.QueryParam("supplier"),
		Search:   c.QueryParam("search"),
	})
	if err != nil {
		return domainError(err)
	}
	return c.JSON(http.StatusOK, items)
}

// Get godoc
// @Summary Get an inventory item
// @Tags inventory
// @Produce json
// @Security BearerAuth
// @Param id path string true "Item ID"
// @Success 200 {object} model.InventoryItem
// @Failure 404 {object} errors.ErrorResponse
// @Router /inventory/{id} [get]
func (h *InventoryHandler) Get(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	item, err := h.inventoryService.Get(c.Request().Context(), id)
	if err != nil {
		return domainError(err)
	}
	return c.JSON(http.StatusOK, item)
}

// Create godoc
// @Summary Create an inventory item
// @Tags inventory
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body InventoryItemRequest true "Item data"
// @Success 201 {object} model.InventoryItem
// @Failure 400 {object} errors.ErrorResponse
// @Router /inventory [post]
func (h *InventoryHandler) Create(c echo.Context) error {
	var req InventoryItemRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	input, err := req.toModel()
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid unit price")
	}
	item, err := h.inventoryService.Create(c.Request().Context(), input)
	if err != nil {
		return domainError(err)
	}
	return c.JSON(http.StatusCreated, item)
}

// Update godoc
// @Summary Update an inventory item
// @Tags inventory
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Item ID"
// @Param request body InventoryItemRequest true "Item data"
// @Success 200 {object} model.InventoryItem
// @Failure 404 {object} errors.ErrorResponse
// @Router /inventory/{id} [put]
func (h *InventoryHandler) Update(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	var req InventoryItemRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	input, err := req.toModel()
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid unit price")
	}
	item, err := h.inventoryService.Update(c.Request().Context(), id, input)
	if err != nil {
		return domainError(err)
	}
	return c.JSON(http.StatusOK, item)
}

// Delete godoc
// @Summary Delete an inventory item
// @Tags inventory
// @Produce json
// @Security BearerAuth
// @Param id path string true "Item ID"
// @Success 200 {object} map[string]string
// @Failure 404 {object} errors.ErrorResponse
// @Router /inventory/{id} [delete]
func (h *InventoryHandler) Delete(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	if err := h.inventoryService.Delete(c.Request().Context(), id); err != nil {
		return domainError(err)
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "inventory item deleted"})
}
