package commands

import (
	"context"

	"github.com/spf13/cobra"
)

var (
	runSource *string
	runKind   *string
)

func init() {
	runSource = runCmd.Flags().String("source", "", "Path to the scraper output, overriding SYNC_SOURCE_PATH.")
	runKind = runCmd.Flags().String("kind", "", "Source kind, json or html, overriding SYNC_SOURCE_KIND.")
	rootCmd.AddCommand(runCmd)
}

var runCmd = &cobra.Command{
	Use:   "run [--source <path>] [--kind json|html]",
	Short: "Runs one catalog sync and prints its summary.",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		cfg := *appConfig
		if *runSource != "" {
			cfg.Sync.SourcePath = *runSource
		}
		if *runKind != "" {
			cfg.Sync.SourceKind = *runKind
		}
		if err := cfg.Validate(); err != nil {
			return err
		}

		a, err := newApp(ctx, &cfg, true)
		if err != nil {
			return err
		}
		defer a.close(context.WithoutCancel(ctx))

		summary, err := a.coordinator.Run(ctx)
		if summary.RunID != "" {
			renderSummary(summary)
		}
		return err
	},
}
