// Package cmd contains all the CLI commands for the application,
// built using the Cobra library.
package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/korryu3/github-profile-trophy/internal/config"
	"github.com/korryu3/github-profile-trophy/internal/gateway"
)

var tokensCmd = &cobra.Command{
	Use:   "tokens",
	Short: "Checks each configured access token against the rate limit endpoint",
	Long: `Verifies every credential slot in the pool by querying the REST rate
limit endpoint, and reports the remaining core quota per slot. Useful for
confirming pool order and spotting expired tokens before they show up as
rotation failures.`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		logger := newLogger(cmd)

		cfg, err := config.Parse()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		githubGateway, err := gateway.NewGitHubGateway(cfg.Tokens, logger)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to create GitHub gateway: %v\n", err)
			os.Exit(1)
		}

		for i := range cfg.Tokens {
			info, err := githubGateway.VerifyCredential(ctx, i)
			if err != nil {
				fmt.Printf("token %d: INVALID (%v)\n", i+1, err)
				continue
			}
			fmt.Printf("token %d: OK, %d/%d core requests remaining, resets at %s\n",
				i+1, info.Remaining, info.Limit, info.ResetAt.Format(time.RFC3339))
		}
	},
}

func init() {
	rootCmd.AddCommand(tokensCmd)
}
