package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/GoldenInvestBI/FUSION-BEEF/internal/coordinator"
	"github.com/GoldenInvestBI/FUSION-BEEF/internal/store"
	"github.com/GoldenInvestBI/FUSION-BEEF/pkg/logger"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// ListRuns returns the most recent scrape logs
func (h *Handler) ListRuns(c echo.Context) error {
	limit := 20
	if v := c.QueryParam("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > 200 {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "limit must be between 1 and 200"})
		}
		limit = n
	}

	runs, err := h.catalog.ListRuns(c.Request().Context(), limit)
	if err != nil {
		logger.FromContext(c).Error("Failed to list runs", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to retrieve runs"})
	}
	return c.JSON(http.StatusOK, runs)
}

// TriggerRun runs a catalog sync and responds with its summary. The run
// outlives the request: a client disconnect does not abort it mid-stage.
func (h *Handler) TriggerRun(c echo.Context) error {
	log := logger.FromContext(c)
	log.Info("Catalog sync requested", zap.Any("subject", c.Get("subject")))

	summary, err := h.runner.Run(context.WithoutCancel(c.Request().Context()))
	if errors.Is(err, coordinator.ErrRunInProgress) || errors.Is(err, store.ErrLocked) {
		return c.JSON(http.StatusConflict, echo.Map{"error": err.Error()})
	}
	if err != nil && summary.RunID == "" {
		log.Error("Catalog sync could not start", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to start catalog sync"})
	}
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error(), "summary": summary})
	}
	return c.JSON(http.StatusOK, summary)
}
