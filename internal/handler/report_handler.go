package handler

import (
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"servicedesk/internal/service"
)

// ReportHandler exposes aggregate views and exports for elevated roles.
type ReportHandler struct {
	reportService service.ReportService
}

// NewReportHandler creates a new report handler.
func NewReportHandler(reportService service.ReportService) *ReportHandler {
	return &ReportHandler{reportService: reportService}
}

// Summary godoc
// @Summary Operational summary across requests and inventory
// @Tags reports
// @Produce json
// @Security BearerAuth
// @Success 200 {object} service.Summary
// @Failure 403 {object} errors.ErrorResponse
// @Router /reports/summary [get]
func (h *ReportHandler) Summary(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	summary, err := h.reportService.Summary(c.Request().Context(), actor)
	if err != nil {
		return domainError(err)
	}
	return c.JSON(http.StatusOK, summary)
}

// ExportInventory godoc
// @Summary Export the full inventory as a JSON download
// @Tags reports
// @Produce json
// @Security BearerAuth
// @Success 200 {array} model.InventoryItem
// @Failure 403 {object} errors.ErrorResponse
// @Router /reports/inventory/export [get]
func (h *ReportHandler) ExportInventory(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	items, err := h.reportService.ExportInventory(c.Request().Context(), actor)
	if err != nil {
		return domainError(err)
	}
	filename := fmt.Sprintf("inventory-%s.json", time.Now().Format("2006-01-02"))
	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", filename))
	return c.JSON(http.StatusOK, items)
}
