// Package store records simulation runs in SQLite.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	_ "modernc.org/sqlite" // SQLite driver

	"github.com/nvandessel/simdata/internal/electoral"
	"github.com/nvandessel/simdata/internal/sales"
)

// timeLayout is fixed-width so stored times sort lexically.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// ErrRunNotFound is returned when a run id is not in the store.
var ErrRunNotFound = errors.New("run not found")

// Run is the summary row for one simulation run.
type Run struct {
	ID            string    `json:"id"`
	Seed          uint64    `json:"seed"`
	CreatedAt     time.Time `json:"created_at"`
	DivisionCount int       `json:"division_count"`
	SalesCount    int       `json:"sales_count"`
	OutputCSV     string    `json:"output_csv,omitempty"`
}

// RunStore persists runs and their generated rows in a SQLite database.
type RunStore struct {
	mu sync.Mutex
	db *sql.DB
}

// Open opens (creating if needed) the run database at path.
func Open(ctx context.Context, path string) (*RunStore, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path+"?_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(1) // SQLite works best with single writer

	if err := InitSchema(ctx, db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return &RunStore{db: db}, nil
}

// SaveRun stores a run with its divisions and sales in one transaction.
func (s *RunStore) SaveRun(ctx context.Context, run Run, divisions []electoral.Division, records []sales.Record) error {
	if run.ID == "" {
		return fmt.Errorf("run ID is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO runs (id, seed, created_at, division_count, sales_count, output_csv) VALUES (?, ?, ?, ?, ?, ?)`,
		run.ID, int64(run.Seed), run.CreatedAt.UTC().Format(timeLayout), len(divisions), len(records), run.OutputCSV,
	); err != nil {
		return fmt.Errorf("failed to insert run: %w", err)
	}

	divStmt, err := tx.PrepareContext(ctx,
		`INSERT INTO divisions (run_id, position, division, state, party) VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare division insert: %w", err)
	}
	defer divStmt.Close()

	for i, d := range divisions {
		if _, err := divStmt.ExecContext(ctx, run.ID, i, d.Name, d.State, d.Party); err != nil {
			return fmt.Errorf("failed to insert division %s: %w", d.Name, err)
		}
	}

	saleStmt, err := tx.PrepareContext(ctx,
		`INSERT INTO sales (run_id, position, nowtime, vendor, product_id, product_name, brand, current_price, units)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare sale insert: %w", err)
	}
	defer saleStmt.Close()

	for i, r := range records {
		if _, err := saleStmt.ExecContext(ctx, run.ID, i,
			r.Timestamp.UTC().Format(timeLayout), r.Vendor, r.ProductID,
			r.ProductName, r.Brand, r.CurrentPrice.String(), r.Units,
		); err != nil {
			return fmt.Errorf("failed to insert sale %d: %w", i, err)
		}
	}

	return tx.Commit()
}

// ListRuns returns the most recent runs first. A limit <= 0 returns all runs.
func (s *RunStore) ListRuns(ctx context.Context, limit int) ([]Run, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	query := `SELECT id, seed, created_at, division_count, sales_count, COALESCE(output_csv, '')
		FROM runs ORDER BY created_at DESC, id`
	args := []any{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// GetRun returns the run with the given id.
func (s *RunStore) GetRun(ctx context.Context, id string) (Run, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	row := s.db.QueryRowContext(ctx,
		`SELECT id, seed, created_at, division_count, sales_count, COALESCE(output_csv, '') FROM runs WHERE id = ?`, id)
	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Run{}, fmt.Errorf("%w: %s", ErrRunNotFound, id)
	}
	return run, err
}

// Divisions returns the divisions of a run in generation order.
func (s *RunStore) Divisions(ctx context.Context, runID string) ([]electoral.Division, error) {
	if _, err := s.GetRun(ctx, runID); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.db.QueryContext(ctx,
		`SELECT division, state, party FROM divisions WHERE run_id = ? ORDER BY position`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to query divisions: %w", err)
	}
	defer rows.Close()

	var divisions []electoral.Division
	for rows.Next() {
		var d electoral.Division
		if err := rows.Scan(&d.Name, &d.State, &d.Party); err != nil {
			return nil, fmt.Errorf("failed to scan division: %w", err)
		}
		divisions = append(divisions, d)
	}
	return divisions, rows.Err()
}

// Sales returns the sales of a run in timestamp order.
func (s *RunStore) Sales(ctx context.Context, runID string) ([]sales.Record, error) {
	if _, err := s.GetRun(ctx, runID); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.db.QueryContext(ctx,
		`SELECT nowtime, vendor, product_id, product_name, brand, current_price, units
		 FROM sales WHERE run_id = ? ORDER BY position`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to query sales: %w", err)
	}
	defer rows.Close()

	var records []sales.Record
	for rows.Next() {
		var r sales.Record
		var ts, price string
		if err := rows.Scan(&ts, &r.Vendor, &r.ProductID, &r.ProductName, &r.Brand, &price, &r.Units); err != nil {
			return nil, fmt.Errorf("failed to scan sale: %w", err)
		}
		if r.Timestamp, err = time.Parse(timeLayout, ts); err != nil {
			return nil, fmt.Errorf("failed to parse sale time: %w", err)
		}
		if r.CurrentPrice, err = decimal.NewFromString(price); err != nil {
			return nil, fmt.Errorf("failed to parse sale price: %w", err)
		}
		records = append(records, r)
	}
	return records, rows.Err()
}

// Close closes the database.
func (s *RunStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.db.Close()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(row rowScanner) (Run, error) {
	var run Run
	var seed int64
	var created string
	if err := row.Scan(&run.ID, &seed, &created, &run.DivisionCount, &run.SalesCount, &run.OutputCSV); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Run{}, err
		}
		return Run{}, fmt.Errorf("failed to scan run: %w", err)
	}
	run.Seed = uint64(seed)

	t, err := time.Parse(timeLayout, created)
	if err != nil {
		return Run{}, fmt.Errorf("failed to parse run time: %w", err)
	}
	run.CreatedAt = t
	return run, nil
}
