package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/nvandessel/simdata/internal/logging"
	"github.com/nvandessel/simdata/internal/mcp"
)

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run an MCP server over stdio",
		Long: `Run a Model Context Protocol server on stdin/stdout exposing:
  simulate_divisions  draw divisions, optionally writing a CSV under --root
  simulate_sales      draw sales records

Logs go to stderr; stdout carries the protocol.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			root, _ := cmd.Flags().GetString("root")

			absRoot, err := filepath.Abs(root)
			if err != nil {
				return fmt.Errorf("failed to resolve root: %w", err)
			}

			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			ctx, stop := signalContext(cmd.Context())
			defer stop()

			runStore, err := openStore(ctx, cfg)
			if err != nil {
				return err
			}
			if runStore != nil {
				defer runStore.Close()
			}

			journal := logging.NewRunJournal(cfg.Logging.Dir, cfg.Logging.Level)
			defer journal.Close()

			server, err := mcp.NewServer(&mcp.Config{
				Name:    "simdata",
				Version: version,
				Root:    absRoot,
				Sim:     cfg,
				Logger:  logging.NewLogger(cfg.Logging.Level, os.Stderr),
				Store:   runStore,
				Journal: journal,
			})
			if err != nil {
				return fmt.Errorf("failed to create MCP server: %w", err)
			}
			return server.Run(ctx)
		},
	}

	cmd.Flags().String("root", ".", "Directory that tool output paths must stay inside")
	cmd.Flags().String("db", "", "Record tool runs in this SQLite database")
	return cmd
}
