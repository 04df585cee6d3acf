package middleware

import (
	"net/http"
	"strings"

	"github.com/GoldenInvestBI/FUSION-BEEF/pkg/jwtutil"
	"github.com/GoldenInvestBI/FUSION-BEEF/pkg/logger"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// AdminAuth validates the bearer token and requires the admin role
func AdminAuth(j *jwtutil.JWTUtil) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			log := logger.FromContext(c)

			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				log.Warn("Missing Authorization header")
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing authorization token"})
			}

			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
				log.Warn("Invalid Authorization header format")
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid authorization format, expected Bearer token"})
			}

			claims, err := j.ValidateToken(parts[1])
			if err != nil {
				log.Warn("Invalid JWT token", zap.Error(err))
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid or expired token"})
			}
			if claims.Role != jwtutil.RoleAdmin {
				log.Warn("Token without admin role", zap.String("subject", claims.Subject), zap.String("role", claims.Role))
				return c.JSON(http.StatusForbidden, echo.Map{"error": "admin role required"})
			}

			c.Set("subject", claims.Subject)
			return next(c)
		}
	}
}
