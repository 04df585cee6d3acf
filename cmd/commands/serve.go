package commands

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/GoldenInvestBI/FUSION-BEEF/internal/handler"
	mid "github.com/GoldenInvestBI/FUSION-BEEF/internal/middleware"
	"github.com/GoldenInvestBI/FUSION-BEEF/pkg/jwtutil"
	"github.com/GoldenInvestBI/FUSION-BEEF/pkg/logger"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func init() {
	rootCmd.AddCommand(serveCmd)
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serves the admin API and metrics, running scheduled syncs when SYNC_INTERVAL is set.",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		a, err := newApp(ctx, appConfig, true)
		if err != nil {
			return err
		}
		defer a.close(context.WithoutCancel(ctx))

		e := newServer(a)

		if interval := a.cfg.Sync.Interval; interval > 0 {
			go a.coordinator.Schedule(logger.WithLogger(ctx, a.log), interval)
		}

		errCh := make(chan error, 1)
		go func() {
			a.log.Info("Starting server", zap.String("port", a.cfg.Server.Port))
			errCh <- e.Start(":" + a.cfg.Server.Port)
		}()

		select {
		case err := <-errCh:
			if !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		case <-ctx.Done():
		}

		a.log.Info("Shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 10*time.Second)
		defer cancel()
		return e.Shutdown(shutdownCtx)
	},
}

func newServer(a *app) *echo.Echo {
	e := echo.New()
	e.HideBanner = true

	e.Use(middleware.Recover())
	e.Use(mid.RequestIDMiddleware)
	e.Use(mid.MetricsMiddleware)

	h := handler.New(a.store, a.coordinator)

	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
	e.GET("/health", h.Health)

	if a.cfg.Assets.Enabled {
		e.Static(a.cfg.Assets.PublicPrefix, a.cfg.Assets.Dir)
	}

	api := e.Group("/api", mid.AdminAuth(jwtutil.New(a.cfg.JWT.SigningKey)))
	h.Register(api)
	return e
}
