// ABOUTME: Serve command starts the HTTP JSON API
// ABOUTME: Shuts down gracefully on interrupt or SIGTERM
package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/harper/proposal-forge/internal/server"
	"github.com/spf13/cobra"
)

// NewServeCmd creates the serve command
func NewServeCmd() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API server",
		Long: `Start the HTTP API server.

Serves proposal generation, portfolio management, tracking, and
profile endpoints as JSON. The listen address defaults to
PROPOSALS_ADDR (":8080").`,
		Example: `  proposals serve
  proposals serve --addr 127.0.0.1:9000`,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd)
			if err != nil {
				return err
			}
			defer func() { _ = a.Close() }()

			if addr == "" {
				addr = a.Config.ListenAddr
			}
			if !a.AIEnabled {
				a.Logger.Warn("OPENAI_API_KEY not set, generation and analysis endpoints will fail")
			}

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			srv := server.New(a.Services, a.Config.RequestTimeout, a.Logger)
			if err := srv.ListenAndServe(ctx, addr); err != nil {
				return fmt.Errorf("server error: %w", err)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (overrides PROPOSALS_ADDR)")

	return cmd
}
