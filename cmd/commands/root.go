package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/GoldenInvestBI/FUSION-BEEF/pkg/config"
	"github.com/GoldenInvestBI/FUSION-BEEF/pkg/logger"
	"github.com/GoldenInvestBI/FUSION-BEEF/prometheus"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var appConfig *config.Config

var rootCmd = &cobra.Command{
	Use:           "catalog-sync",
	Short:         "catalog-sync keeps the Fusion Beef product catalog in step with the supplier portal.",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// A missing .env is fine, the environment may be set another way
		_ = godotenv.Load()

		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}
		appConfig = cfg

		logger.InitLogger(cfg)
		prometheus.InitMetrics(cfg)
		logger.GetLogger().Debug("Configuration loaded", cfg.LogConfig()...)
		return nil
	},
}

// ExecuteContext runs the CLI and exits non-zero on error
func ExecuteContext(ctx context.Context) {
	err := rootCmd.ExecuteContext(ctx)
	_ = logger.GetLogger().Sync()
	if err != nil {
		logger.GetLogger().Error("Command failed", zap.Error(err))
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
