package main

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/PmSerg/social-media-agent-system/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Serve the agency's operations as MCP tools over stdio",
	Long: `Starts a Model Context Protocol server over stdin/stdout exposing
execute_command, list_commands, and task_status tools, so MCP clients can
drive the content pipeline directly. Tool calls run workflows synchronously
and return the finished task record.`,
	RunE: runMCP,
}

func runMCP(cmd *cobra.Command, _ []string) error {
	cfg, err := LoadConfig()
	if err != nil {
		return err
	}

	// stdout belongs to the MCP transport; logs go to stderr.
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.SlogLevel()}))
	slog.SetDefault(log)

	runner, store, err := buildRunner(cmd.Context(), cfg, log)
	if err != nil {
		return err
	}

	log.Info("mcp server starting", "provider", cfg.Provider, "commands_dir", cfg.CommandsDir)
	return mcp.ServeStdio(mcp.NewService(runner, store),
		mcp.WithName("social-media-agent-system"),
		mcp.WithVersion(version))
}
