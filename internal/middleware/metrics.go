package middleware

import (
	"strconv"
	"time"

	"github.com/GoldenInvestBI/FUSION-BEEF/prometheus"

	"github.com/labstack/echo/v4"
)

// MetricsMiddleware adds prometheus metrics to track HTTP requests
func MetricsMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		start := time.Now()

		err := next(c)
		if err != nil {
			// let the error handler write the response so the status is final
			c.Error(err)
		}

		prometheus.RecordHTTPRequest(c.Request().Method, c.Path(), strconv.Itoa(c.Response().Status), time.Since(start))
		return nil
	}
}
