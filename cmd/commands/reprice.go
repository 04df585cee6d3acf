package commands

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var repriceMarkup *string

func init() {
	repriceMarkup = repriceCmd.Flags().String("markup", "", "New default markup percent, between 0 and 200.")
	_ = repriceCmd.MarkFlagRequired("markup")
	rootCmd.AddCommand(repriceCmd)
}

var repriceCmd = &cobra.Command{
	Use:   "reprice --markup <percent>",
	Short: "Stores a new default markup and reprices every product with it.",
	RunE: func(cmd *cobra.Command, args []string) error {
		markup, err := decimal.NewFromString(*repriceMarkup)
		if err != nil {
			return fmt.Errorf("invalid markup %q: %w", *repriceMarkup, err)
		}

		ctx := cmd.Context()
		a, err := newApp(ctx, appConfig, false)
		if err != nil {
			return err
		}
		defer a.close(context.WithoutCancel(ctx))

		repriced, err := a.store.SetMarkup(ctx, markup)
		if err != nil {
			return err
		}
		a.log.Info("Catalog repriced", zap.String("markup", markup.String()), zap.Int("products", repriced))
		fmt.Fprintf(cmd.OutOrStdout(), "repriced %d products with a %s%% markup\n", repriced, markup)
		return nil
	},
}
