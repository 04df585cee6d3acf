package commands

import (
	"context"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

var runsLimit *int

func init() {
	runsLimit = runsCmd.Flags().Int("limit", 20, "Number of runs to list.")
	rootCmd.AddCommand(runsCmd)
}

var runsCmd = &cobra.Command{
	Use:   "runs [--limit <n>]",
	Short: "Lists the most recent catalog sync runs.",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		a, err := newApp(ctx, appConfig, false)
		if err != nil {
			return err
		}
		defer a.close(context.WithoutCancel(ctx))

		runs, err := a.store.ListRuns(ctx, *runsLimit)
		if err != nil {
			return err
		}

		t := newTable()
		t.AppendHeader(table.Row{"Run", "Status", "Started", "Seconds", "Found", "Added", "Updated", "Removed", "Failed", "Rejected", "Error"})
		for _, r := range runs {
			t.AppendRow(table.Row{
				r.RunID,
				r.Status,
				r.StartedAt.Local().Format(time.DateTime),
				r.DurationSeconds,
				r.ProductsFound,
				r.ProductsAdded,
				r.ProductsUpdated,
				r.ProductsRemoved,
				r.ProductsFailed,
				r.RecordsRejected,
				r.ErrorMessage,
			})
		}
		t.Render()
		return nil
	},
}
