// Package pathutil checks output paths supplied by remote callers.
package pathutil

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ErrOutsideRoot is returned when a path escapes every allowed root.
var ErrOutsideRoot = errors.New("path is outside allowed directories")

// RedactPath reduces a full path to .../<parent>/<basename> for error messages.
// "/home/user/data/simulated_data.csv" becomes ".../data/simulated_data.csv".
func RedactPath(path string) string {
	if path == "" {
		return ""
	}
	cleaned := filepath.Clean(path)
	parent := filepath.Base(filepath.Dir(cleaned))
	if parent == "." || parent == string(filepath.Separator) {
		return filepath.Base(cleaned)
	}
	return ".../" + parent + "/" + filepath.Base(cleaned)
}

// ResolveOutput makes path absolute against root and checks that it stays
// inside one of the roots once symlinks on existing ancestors are resolved.
// Relative paths are taken relative to the first root.
func ResolveOutput(path string, roots ...string) (string, error) {
	if path == "" {
		return "", fmt.Errorf("output path is empty")
	}
	if len(roots) == 0 {
		return "", fmt.Errorf("no output roots configured")
	}
	if strings.ContainsRune(path, '\x00') {
		return "", fmt.Errorf("output path contains null byte")
	}

	abs := path
	if !filepath.IsAbs(abs) {
		abs = filepath.Join(roots[0], abs)
	}
	abs, err := filepath.Abs(filepath.Clean(abs))
	if err != nil {
		return "", fmt.Errorf("resolving %s: %w", RedactPath(path), err)
	}

	dir, err := resolveExisting(filepath.Dir(abs))
	if err != nil {
		return "", err
	}
	resolved := filepath.Join(dir, filepath.Base(abs))

	for _, root := range roots {
		rootAbs, err := filepath.Abs(filepath.Clean(root))
		if err != nil {
			continue
		}
		rootResolved, err := resolveExisting(rootAbs)
		if err != nil {
			continue
		}
		if isSubpath(resolved, rootResolved) {
			return abs, nil
		}
	}
	return "", fmt.Errorf("%w: %s", ErrOutsideRoot, RedactPath(abs))
}

// resolveExisting resolves symlinks on the deepest existing ancestor of dir
// and re-appends the missing tail.
func resolveExisting(dir string) (string, error) {
	if resolved, err := filepath.EvalSymlinks(dir); err == nil {
		return resolved, nil
	}

	parent := filepath.Dir(dir)
	if parent == dir {
		return "", fmt.Errorf("cannot resolve path: %s", RedactPath(dir))
	}
	resolvedParent, err := resolveExisting(parent)
	if err != nil {
		return "", err
	}
	return filepath.Join(resolvedParent, filepath.Base(dir)), nil
}

func isSubpath(path, base string) bool {
	if path == base {
		return true
	}
	return strings.HasPrefix(path, base+string(os.PathSeparator))
}
