// Package cmd contains all the CLI commands for the application,
// built using the Cobra library.
package cmd

import (
	"fmt"
	"io"
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/korryu3/github-profile-trophy/internal/config"
	"github.com/korryu3/github-profile-trophy/internal/gateway"
	"github.com/korryu3/github-profile-trophy/internal/retry"
	"github.com/korryu3/github-profile-trophy/internal/usecase"
)

var rootCmd = &cobra.Command{
	Use:   "github-profile-trophy",
	Short: "Aggregates a GitHub user's profile over the GraphQL API.",
	Long: `github-profile-trophy aggregates a user's repository, activity, issue
and pull request stats into a single profile, rotating across a pool of
access tokens whenever a query fails. It also sweeps the account's
calendar years to compute an all-time commit count.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	// Add a persistent flag for verbose output, available to all commands.
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose/debug logging")
}

// newLogger builds the shared logger: discarded unless --verbose is set.
func newLogger(cmd *cobra.Command) *log.Logger {
	verbose, _ := cmd.InheritedFlags().GetBool("verbose")
	logger := log.New(io.Discard, "", log.LstdFlags)
	if verbose {
		logger.SetOutput(os.Stderr)
	}
	return logger
}

// newProfileService wires config, gateway and rotator into a service.
func newProfileService(logger *log.Logger) (*usecase.ProfileService, *config.Config, error) {
	cfg, err := config.Parse()
	if err != nil {
		return nil, nil, fmt.Errorf("can't parse app config: %w", err)
	}
	githubGateway, err := gateway.NewGitHubGateway(cfg.Tokens, logger)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create GitHub gateway: %w", err)
	}
	rotator := retry.NewRotator(len(cfg.Tokens), cfg.RetryDelay)
	return usecase.NewProfileService(githubGateway, rotator, logger), cfg, nil
}
