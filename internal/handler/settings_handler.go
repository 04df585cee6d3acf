package handler

import (
	"net/http"

	"github.com/GoldenInvestBI/FUSION-BEEF/internal/pricing"
	"github.com/GoldenInvestBI/FUSION-BEEF/pkg/logger"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// MarkupRequest defines the body of a default markup update
type MarkupRequest struct {
	Markup *decimal.Decimal `json:"markup"`
}

// ListSettings returns every stored setting
func (h *Handler) ListSettings(c echo.Context) error {
	settings, err := h.catalog.Settings(c.Request().Context())
	if err != nil {
		logger.FromContext(c).Error("Failed to list settings", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to retrieve settings"})
	}
	return c.JSON(http.StatusOK, settings)
}

// UpdateMarkup stores a new default markup and reprices the catalog
func (h *Handler) UpdateMarkup(c echo.Context) error {
	log := logger.FromContext(c)

	var req MarkupRequest
	if err := c.Bind(&req); err != nil || req.Markup == nil {
		log.Warn("Invalid markup request", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request data"})
	}
	if err := pricing.ValidateDefaultMarkup(*req.Markup); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}

	repriced, err := h.catalog.SetMarkup(c.Request().Context(), *req.Markup)
	if err != nil {
		log.Error("Failed to update markup", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to update markup"})
	}

	log.Info("Default markup updated",
		zap.String("markup", req.Markup.String()),
		zap.Int("repriced", repriced))
	return c.JSON(http.StatusOK, echo.Map{"markup": req.Markup.String(), "repriced": repriced})
}
