package main

import (
	"context"
	"errors"
	"log/slog"
	"os"

	"github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"

	"github.com/kalambet/careernav/internal/tools"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Serve careernav tools over MCP (stdio)",
	Long: `Serve careernav tools over the Model Context Protocol on stdin/stdout.

Register it with an MCP-capable assistant, e.g.:
  {"command": "careernav", "args": ["mcp"]}`,
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newAPIClient(true)
		if err != nil {
			return err
		}

		mcpSrv := tools.NewServer(tools.Deps{API: client, Version: version})
		stdioSrv := server.NewStdioServer(mcpSrv)
		slog.Info("MCP server started (stdio transport)")
		if err := stdioSrv.Listen(cmd.Context(), os.Stdin, os.Stdout); err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
		return nil
	},
}
