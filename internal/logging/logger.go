// Package logging provides leveled logging and a run journal for simdata.
// It offers two complementary outputs:
//   - A leveled slog.Logger for stderr (operational output)
//   - A RunJournal that appends one JSONL line per run (<dir>/runs.jsonl)
package logging

import (
	"encoding/json"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

// LevelTrace is a custom slog level below Debug that also logs every drawn row.
const LevelTrace = slog.LevelDebug - 4

// JournalFile is the run journal filename inside the journal directory.
const JournalFile = "runs.jsonl"

// ParseLevel maps a string level name to a slog.Level.
// Supported values: "info", "debug", "trace" (case-insensitive).
// Unknown values default to info.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "trace":
		return LevelTrace
	default:
		return slog.LevelInfo
	}
}

// NewLogger creates a leveled slog.Logger writing to w.
func NewLogger(level string, w io.Writer) *slog.Logger {
	lvl := ParseLevel(level)
	opts := &slog.HandlerOptions{
		Level: lvl,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == slog.LevelKey {
				if lvl, ok := a.Value.Any().(slog.Level); ok && lvl == LevelTrace {
					a.Value = slog.StringValue("TRACE")
				}
			}
			return a
		},
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// Discard returns a logger that drops everything.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// RunEvent is one journal entry.
type RunEvent struct {
	RunID     string    `json:"run_id"`
	Seed      uint64    `json:"seed"`
	Divisions int       `json:"divisions"`
	Sales     int       `json:"sales"`
	Output    string    `json:"output"`
	Time      time.Time `json:"time"`
}

// RunJournal appends run events to a JSONL file.
// It is safe for concurrent use. A nil RunJournal is safe to use;
// all methods are no-ops on nil receiver.
type RunJournal struct {
	mu   sync.Mutex
	file *os.File
}

// NewRunJournal opens dir/runs.jsonl for append.
// At "info" level (the default) it returns nil and creates nothing.
// Returns nil if the file cannot be opened.
func NewRunJournal(dir string, level string) *RunJournal {
	if ParseLevel(level) == slog.LevelInfo {
		return nil
	}

	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil
	}

	f, err := os.OpenFile(filepath.Join(dir, JournalFile), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0600)
	if err != nil {
		return nil
	}

	return &RunJournal{file: f}
}

// Record writes ev as a single JSONL line. A zero Time is set to now (UTC).
// Safe to call on nil receiver.
func (j *RunJournal) Record(ev RunEvent) {
	if j == nil {
		return
	}
	if ev.Time.IsZero() {
		ev.Time = time.Now().UTC()
	}

	data, err := json.Marshal(ev)
	if err != nil {
		return
	}
	data = append(data, '\n')

	j.mu.Lock()
	defer j.mu.Unlock()
	if j.file == nil {
		return
	}
	_, _ = j.file.Write(data)
}

// Close closes the underlying file. Safe to call on nil receiver.
func (j *RunJournal) Close() {
	if j == nil {
		return
	}

	j.mu.Lock()
	defer j.mu.Unlock()

	if j.file == nil {
		return
	}
	j.file.Close()
	j.file = nil
}
