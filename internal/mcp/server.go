// Package mcp provides an MCP (Model Context Protocol) server exposing the
// simulations as tools.
package mcp

import (
	"context"
	"fmt"
	"log/slog"

	sdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/nvandessel/simdata/internal/config"
	"github.com/nvandessel/simdata/internal/logging"
	"github.com/nvandessel/simdata/internal/ratelimit"
	"github.com/nvandessel/simdata/internal/store"
)

// Server wraps the MCP SDK server.
type Server struct {
	server   *sdk.Server
	base     *config.SimConfig
	root     string
	logger   *slog.Logger
	store    *store.RunStore
	journal  *logging.RunJournal
	limiters ratelimit.ToolLimiters
}

// Config holds server configuration.
type Config struct {
	Name    string            // Server name (e.g., "simdata")
	Version string            // Server version
	Root    string            // Directory that tool output paths must stay inside
	Sim     *config.SimConfig // Base settings; tool arguments override seed and count
	Logger  *slog.Logger      // Must not write to stdout, which carries the protocol
	Store   *store.RunStore   // Optional run store
	Journal *logging.RunJournal
}

// NewServer creates a new MCP server with the simulation tools registered.
func NewServer(cfg *Config) (*Server, error) {
	if cfg.Root == "" {
		return nil, fmt.Errorf("server root is required")
	}
	base := cfg.Sim
	if base == nil {
		base = config.Default()
	}
	if err := base.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Discard()
	}

	mcpServer := sdk.NewServer(&sdk.Implementation{
		Name:    cfg.Name,
		Version: cfg.Version,
	}, nil)

	s := &Server{
		server:   mcpServer,
		base:     base,
		root:     cfg.Root,
		logger:   logger,
		store:    cfg.Store,
		journal:  cfg.Journal,
		limiters: ratelimit.DefaultToolLimiters(),
	}
	s.registerTools()
	return s, nil
}

// Run serves over stdio until the client disconnects or ctx is cancelled.
func (s *Server) Run(ctx context.Context) error {
	s.logger.Info("mcp server listening on stdio", "root", s.root)
	return s.server.Run(ctx, &sdk.StdioTransport{})
}
