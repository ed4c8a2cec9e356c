// Package cmd contains all the CLI commands for the application,
// built using the Cobra library.
package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Aggregates a user's profile and outputs it as JSON",
	Long: `Aggregates repository, activity, issue and pull request stats for the
specified GitHub user, computes the all-time commit count, and outputs the
composite profile in JSON format.`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		logger := newLogger(cmd)

		user, _ := cmd.Flags().GetString("user")

		service, _, err := newProfileService(logger)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		profile, err := service.RequestUserInfo(ctx, user)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to aggregate profile: %v\n", err)
			os.Exit(1)
		}

		jsonData, err := json.MarshalIndent(profile, "", "  ")
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to marshal profile to JSON: %v\n", err)
			os.Exit(1)
		}

		fmt.Println(string(jsonData))
	},
}

func init() {
	rootCmd.AddCommand(profileCmd)
	profileCmd.Flags().StringP("user", "u", "", "Target GitHub user name (required)")
	profileCmd.MarkFlagRequired("user")
}
