// Package cmd contains all the CLI commands for the application,
// built using the Cobra library.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/korryu3/github-profile-trophy/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serves aggregated profiles over HTTP",
	Long: `Starts an HTTP server exposing GET /api/users/{username}, which returns
the aggregated profile as JSON. The listen address is taken from the
LISTEN_ADDR environment variable.`,
	Run: func(cmd *cobra.Command, args []string) {
		logger := newLogger(cmd)

		service, cfg, err := newProfileService(logger)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		srv := server.New(logger, cfg.ListenAddr, service)

		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		errCh := make(chan error, 1)
		go func() { errCh <- srv.Start() }()

		select {
		case err := <-errCh:
			if err != nil && !errors.Is(err, http.ErrServerClosed) {
				fmt.Fprintf(os.Stderr, "Server failed: %v\n", err)
				os.Exit(1)
			}
		case <-ctx.Done():
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				fmt.Fprintf(os.Stderr, "Shutdown failed: %v\n", err)
			}
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
