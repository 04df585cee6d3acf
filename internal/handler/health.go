package handler

import (
	"net/http"

	"github.com/GoldenInvestBI/FUSION-BEEF/pkg/logger"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// Health reports liveness; with ?check=db it also pings the database
func (h *Handler) Health(c echo.Context) error {
	if c.QueryParam("check") == "db" {
		if err := h.catalog.Ping(c.Request().Context()); err != nil {
			logger.FromContext(c).Error("Database health check failed", zap.Error(err))
			return c.JSON(http.StatusServiceUnavailable, echo.Map{"status": "unavailable", "error": "database unreachable"})
		}
	}
	return c.JSON(http.StatusOK, echo.Map{"status": "ok"})
}
