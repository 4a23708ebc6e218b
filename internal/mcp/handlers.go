package mcp

import (
	"context"
	"fmt"
	"io"
	"time"

	sdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/nvandessel/simdata/internal/config"
	"github.com/nvandessel/simdata/internal/electoral"
	"github.com/nvandessel/simdata/internal/pathutil"
	"github.com/nvandessel/simdata/internal/ratelimit"
	"github.com/nvandessel/simdata/internal/sales"
	"github.com/nvandessel/simdata/internal/sampling"
	"github.com/nvandessel/simdata/internal/simulator"
)

// registerTools registers the simulation tools with the server.
func (s *Server) registerTools() {
	sdk.AddTool(s.server, &sdk.Tool{
		Name:        "simulate_divisions",
		Description: "Simulate Australian federal electoral divisions (state and winning party per division), optionally writing the CSV",
	}, s.handleSimulateDivisions)

	sdk.AddTool(s.server, &sdk.Tool{
		Name:        "simulate_sales",
		Description: "Simulate timestamped vendor sales of the egg product catalog",
	}, s.handleSimulateSales)
}

// logCall records one tool invocation at debug level.
func (s *Server) logCall(tool string, start time.Time, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	s.logger.Debug("tool call",
		"tool", tool,
		"status", status,
		"duration_ms", time.Since(start).Milliseconds(),
		"error", err)
}

// overrides copies the base config and applies a tool's seed and count.
func (s *Server) overrides(seed *uint64, count int, setCount func(*config.SimConfig, int)) (*config.SimConfig, error) {
	if count < 0 {
		return nil, fmt.Errorf("count must not be negative, got %d", count)
	}
	if err := sampling.CheckCount(count); err != nil {
		return nil, err
	}
	cfg := s.base.Clone()
	if seed != nil {
		cfg.Seed = *seed
	}
	if count > 0 {
		setCount(cfg, count)
	}
	cfg.Output.Parquet = ""
	cfg.Output.SalesParquet = ""
	return cfg, nil
}

func (s *Server) newRunner(cfg *config.SimConfig) (*simulator.Runner, error) {
	return simulator.NewRunner(cfg, simulator.Options{
		Logger:  s.logger,
		Stdout:  io.Discard,
		Store:   s.store,
		Journal: s.journal,
	})
}

func (s *Server) handleSimulateDivisions(ctx context.Context, req *sdk.CallToolRequest, args SimulateDivisionsInput) (_ *sdk.CallToolResult, _ SimulateDivisionsOutput, retErr error) {
	start := time.Now()
	defer func() { s.logCall("simulate_divisions", start, retErr) }()

	if err := ratelimit.CheckLimit(s.limiters, "simulate_divisions"); err != nil {
		return nil, SimulateDivisionsOutput{}, err
	}

	cfg, err := s.overrides(args.Seed, args.Count, func(c *config.SimConfig, n int) { c.Divisions.Count = n })
	if err != nil {
		return nil, SimulateDivisionsOutput{}, err
	}

	out := SimulateDivisionsOutput{Seed: cfg.Seed}
	var divisions []electoral.Division

	if args.Output != "" {
		path, err := pathutil.ResolveOutput(args.Output, s.root)
		if err != nil {
			return nil, SimulateDivisionsOutput{}, err
		}
		cfg.Output.CSV = path

		runner, err := s.newRunner(cfg)
		if err != nil {
			return nil, SimulateDivisionsOutput{}, err
		}
		res, err := runner.RunDivisions(ctx)
		if err != nil {
			return nil, SimulateDivisionsOutput{}, fmt.Errorf("division run failed for %s: %w", pathutil.RedactPath(path), err)
		}
		out.RunID = res.RunID
		out.Output = args.Output
		divisions = res.Divisions
	} else {
		ecfg, err := cfg.ElectoralConfig()
		if err != nil {
			return nil, SimulateDivisionsOutput{}, err
		}
		divisions, err = electoral.Simulate(ecfg, sampling.NewGenerator(cfg.Seed))
		if err != nil {
			return nil, SimulateDivisionsOutput{}, err
		}
	}

	out.Count = len(divisions)
	out.Divisions = divisions
	out.States = make(map[string]int)
	out.Parties = make(map[string]int)
	for _, d := range divisions {
		out.States[d.State]++
		out.Parties[d.Party]++
	}
	return nil, out, nil
}

func (s *Server) handleSimulateSales(ctx context.Context, req *sdk.CallToolRequest, args SimulateSalesInput) (_ *sdk.CallToolResult, _ SimulateSalesOutput, retErr error) {
	start := time.Now()
	defer func() { s.logCall("simulate_sales", start, retErr) }()

	if err := ratelimit.CheckLimit(s.limiters, "simulate_sales"); err != nil {
		return nil, SimulateSalesOutput{}, err
	}

	cfg, err := s.overrides(args.Seed, args.Count, func(c *config.SimConfig, n int) { c.Sales.Count = n })
	if err != nil {
		return nil, SimulateSalesOutput{}, err
	}
	cfg.Sales.Enabled = true

	runner, err := s.newRunner(cfg)
	if err != nil {
		return nil, SimulateSalesOutput{}, err
	}
	res, err := runner.RunSales(ctx)
	if err != nil {
		return nil, SimulateSalesOutput{}, err
	}

	rows := make([]SaleRow, len(res.Sales))
	for i, r := range res.Sales {
		rows[i] = toSaleRow(r)
	}
	return nil, SimulateSalesOutput{
		RunID:   res.RunID,
		Seed:    res.Seed,
		Count:   len(rows),
		Records: rows,
	}, nil
}

func toSaleRow(r sales.Record) SaleRow {
	return SaleRow{
		Timestamp:    r.Timestamp.Format(time.RFC3339Nano),
		Vendor:       r.Vendor,
		ProductID:    r.ProductID,
		ProductName:  r.ProductName,
		Brand:        r.Brand,
		CurrentPrice: r.CurrentPrice.StringFixed(2),
		Units:        r.Units,
	}
}
