// Package dataset serializes Arrow records to CSV and Parquet files.
//
// Every write goes to a temp file in the destination directory and is renamed
// over the target only after it has been fully written and closed, so readers
// never observe a truncated file. The destination directory must exist.
package dataset

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// outputFileMode is applied to the temp file before it is renamed into place.
const outputFileMode = 0644

// writeOnly hides Close from serializers that would otherwise close the sink.
type writeOnly struct {
	w io.Writer
}

func (w writeOnly) Write(p []byte) (int, error) {
	return w.w.Write(p)
}

// atomicWrite calls write with a temp file next to path and renames it to path on success.
func atomicWrite(path string, write func(io.Writer) error) error {
	dir := filepath.Dir(path)

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file for %s: %w", path, err)
	}
	tmpPath := tmp.Name()

	committed := false
	defer func() {
		if !committed {
			tmp.Close()
			os.Remove(tmpPath)
		}
	}()

	if err := write(writeOnly{w: tmp}); err != nil {
		return err
	}
	if err := tmp.Sync(); err != nil {
		return fmt.Errorf("syncing temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Chmod(tmpPath, outputFileMode); err != nil {
		return fmt.Errorf("setting permissions on temp file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("renaming temp file to %s: %w", path, err)
	}

	committed = true
	return nil
}
