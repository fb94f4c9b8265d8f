// ABOUTME: MCP command starts Model Context Protocol server
// ABOUTME: Lets LLM agents generate tips and publish posts via stdio
package commands

import (
	"context"
	"errors"
	"fmt"

	mcpserver "github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/harper/assistant-manager/internal/config"
	"github.com/harper/assistant-manager/internal/mcp"
	"github.com/harper/assistant-manager/internal/thread"
)

// NewMCPCmd creates the MCP command
func NewMCPCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "Start MCP server for LLM agents",
		Long: `Start MCP server for LLM agents

Runs amgr as an MCP (Model Context Protocol) server, letting LLM agents
like Claude generate tips, list assistants, and publish to Bluesky via
stdio. Logs go to stderr; stdout carries the protocol.

Tools whose credentials are missing report an error when called.`,
		RunE: runMCP,
		Example: `  # Start MCP server (typically called by Claude Desktop)
  amgr mcp

  # Configure in claude_desktop_config.json:
  # {
  #   "mcpServers": {
  #     "amgr": {
  #       "command": "amgr",
  #       "args": ["mcp"]
  #     }
  #   }
  # }`,
	}

	return cmd
}

// runMCP starts the MCP server
func runMCP(cmd *cobra.Command, args []string) error {
	a := appFrom(cmd)
	cfg, err := a.config()
	if err != nil {
		return err
	}

	deps := mcp.Deps{
		MaxGraphemes: cfg.MaxGraphemes,
		Strict:       cfg.Strict,
		Logger:       a.logger,
	}

	manager, err := a.manager()
	switch {
	case err == nil:
		deps.Assistants = manager
	case errors.Is(err, config.ErrMissingCredentials):
		a.logger.Warn("OpenAI tools disabled", zap.Error(err))
	default:
		return err
	}

	if err := cfg.Bluesky.Validate(); err != nil {
		a.logger.Warn("live publishing disabled, dry runs still work", zap.Error(err))
	}
	deps.NewPoster = func(ctx context.Context, dryRun bool) (thread.Poster, error) {
		return a.poster(ctx, dryRun)
	}

	server := mcpserver.NewMCPServer("amgr", versionInfo.Version)
	mcp.RegisterTools(server, deps)

	a.logger.Info("MCP server starting on stdio")

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- mcpserver.ServeStdio(server)
	}()

	select {
	case <-cmd.Context().Done():
		a.logger.Info("shutdown signal received")
	case err := <-serverErr:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
	}

	return nil
}
