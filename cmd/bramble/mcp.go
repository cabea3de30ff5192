package main

import (
	"log"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/atlasbruce/bramble"
	fileAdapter "github.com/atlasbruce/bramble/internal/adapters/file"
	mcpAdapter "github.com/atlasbruce/bramble/pkg/adapters/mcp"
)

// mcpCmd represents the mcp command
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Run the Model Context Protocol (MCP) server",
	Long: `Starts the editor as an MCP server over stdio, so AI agents can
author graphs through validated, undoable tools.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfig(cmd)
		if err != nil {
			log.Fatalf("Error loading config: %v", err)
		}

		logger := newLogger(cmd)
		slog.SetDefault(logger)

		editor := bramble.New(
			bramble.WithStore(fileAdapter.New(cfg.Store.Path)),
			bramble.WithLogger(logger),
			bramble.WithHistoryLimit(cfg.HistoryLimit),
		)

		// Ensure logs don't corrupt JSON-RPC on Stdout.
		log.SetOutput(os.Stderr)
		logger.Info("starting MCP server (stdio)")

		srv := mcpAdapter.NewServer(editor)
		if err := srv.ServeStdio(); err != nil {
			logger.Error("MCP server execution failed", "err", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}
