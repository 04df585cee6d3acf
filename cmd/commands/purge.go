package commands

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var purgeDays *int

func init() {
	purgeDays = purgeCmd.Flags().Int("days", 0, "Retention in days, overriding SYNC_RETENTION_DAYS.")
	rootCmd.AddCommand(purgeCmd)
}

var purgeCmd = &cobra.Command{
	Use:   "purge [--days <n>]",
	Short: "Soft deletes products that have been unavailable for longer than the retention period.",
	RunE: func(cmd *cobra.Command, args []string) error {
		days := appConfig.Sync.RetentionDays
		if *purgeDays > 0 {
			days = *purgeDays
		}
		if days <= 0 {
			return errors.New("retention is disabled, set SYNC_RETENTION_DAYS or --days")
		}

		ctx := cmd.Context()
		a, err := newApp(ctx, appConfig, false)
		if err != nil {
			return err
		}
		defer a.close(context.WithoutCancel(ctx))

		cutoff := time.Now().UTC().AddDate(0, 0, -days)
		purged, err := a.store.Purge(ctx, cutoff)
		if err != nil {
			return err
		}
		a.log.Info("Unavailable products purged", zap.Int64("count", purged), zap.Time("cutoff", cutoff))
		fmt.Fprintf(cmd.OutOrStdout(), "purged %d products unavailable since before %s\n", purged, cutoff.Format(time.DateOnly))
		return nil
	},
}
