package commands

import (
	"fmt"
	"time"

	"github.com/GoldenInvestBI/FUSION-BEEF/pkg/jwtutil"

	"github.com/spf13/cobra"
)

var (
	tokenSubject *string
	tokenTTL     *time.Duration
)

func init() {
	tokenSubject = tokenCmd.Flags().String("subject", "admin", "Subject recorded in the token.")
	tokenTTL = tokenCmd.Flags().Duration("ttl", 24*time.Hour, "How long the token is valid.")
	rootCmd.AddCommand(tokenCmd)
}

var tokenCmd = &cobra.Command{
	Use:   "token [--subject <name>] [--ttl <duration>]",
	Short: "Prints an admin API token signed with JWT_SIGNING_KEY.",
	RunE: func(cmd *cobra.Command, args []string) error {
		token, err := jwtutil.New(appConfig.JWT.SigningKey).GenerateToken(*tokenSubject, jwtutil.RoleAdmin, *tokenTTL)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), token)
		return nil
	},
}
