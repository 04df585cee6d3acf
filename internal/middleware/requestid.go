package middleware

import (
	"github.com/GoldenInvestBI/FUSION-BEEF/pkg/logger"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// RequestIDMiddleware adds a unique request ID to each request
func RequestIDMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		requestID := c.Request().Header.Get(echo.HeaderXRequestID)
		if requestID == "" {
			requestID = uuid.New().String()
		}

		c.Request().Header.Set(echo.HeaderXRequestID, requestID)
		c.Response().Header().Set(echo.HeaderXRequestID, requestID)
		c.Set("request_id", requestID)

		// The request context carries the logger too, so work started from a
		// handler (such as a sync run) logs with the request ID
		log := logger.GetLogger().With(zap.String("request_id", requestID))
		c.Set("logger", log)
		c.SetRequest(c.Request().WithContext(logger.WithLogger(c.Request().Context(), log)))

		return next(c)
	}
}
