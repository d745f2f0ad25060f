// ABOUTME: MCP command starts Model Context Protocol server
// ABOUTME: Lets LLM agents like Claude generate proposals and manage the portfolio via stdio
package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/harper/proposal-forge/internal/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"
)

// NewMCPCmd creates the MCP command
func NewMCPCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "Start MCP server for LLM agents",
		Long: `Start MCP server for LLM agents

Runs proposals as an MCP (Model Context Protocol) server, enabling
LLM agents like Claude to write proposals, search your portfolio,
and review proposal history via stdio.

Configure in Claude Desktop's config file to enable the tools.`,
		RunE: runMCP,
		Example: `  # Start MCP server (typically called by Claude Desktop)
  proposals mcp

  # Configure in claude_desktop_config.json:
  # {
  #   "mcpServers": {
  #     "proposals": {
  #       "command": "proposals",
  #       "args": ["mcp"]
  #     }
  #   }
  # }`,
	}

	return cmd
}

// runMCP starts the MCP server
func runMCP(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer func() { _ = a.Close() }()

	if !a.AIEnabled {
		a.Logger.Warn("OPENAI_API_KEY not set, generation and analysis tools will fail")
	}

	user := userID
	if user == "" {
		user = a.Settings.DefaultUserID
	}

	server := mcpserver.NewMCPServer(
		"Proposal Forge",
		versionInfo.Version,
	)
	mcp.RegisterTools(server, a.Services, user, a.Logger)

	ctx, stop := signal.NotifyContext(context.Background(),
		os.Interrupt, syscall.SIGTERM)
	defer stop()

	a.Logger.Info("MCP server starting on stdio", "user", user)

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- mcpserver.ServeStdio(server)
	}()

	select {
	case <-ctx.Done():
		a.Logger.Info("shutdown signal received")
	case err := <-serverErr:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
	}

	return nil
}
