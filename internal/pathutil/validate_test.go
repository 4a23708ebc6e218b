package pathutil

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedactPath(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"", ""},
		{"simulated_data.csv", "simulated_data.csv"},
		{"/simulated_data.csv", "simulated_data.csv"},
		{"/home/user/data/simulated_data.csv", ".../data/simulated_data.csv"},
		{"data/00-simulated_data/simulated_data.csv", ".../00-simulated_data/simulated_data.csv"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, RedactPath(tt.in), tt.in)
	}
}

func TestResolveOutput(t *testing.T) {
	root := t.TempDir()
	other := t.TempDir()

	tests := []struct {
		name    string
		path    string
		want    string
		wantErr bool
	}{
		{"relative", "data/out.csv", filepath.Join(root, "data", "out.csv"), false},
		{"absolute inside", filepath.Join(root, "out.csv"), filepath.Join(root, "out.csv"), false},
		{"traversal", "../escape.csv", "", true},
		{"other root", filepath.Join(other, "out.csv"), "", true},
		{"empty", "", "", true},
		{"null byte", "out\x00.csv", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ResolveOutput(tt.path, root)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResolveOutput_NoRoots(t *testing.T) {
	_, err := ResolveOutput("out.csv")
	assert.Error(t, err)
}

func TestResolveOutput_OutsideIsSentinel(t *testing.T) {
	_, err := ResolveOutput(filepath.Join(t.TempDir(), "x.csv"), t.TempDir())
	assert.ErrorIs(t, err, ErrOutsideRoot)
}

func TestResolveOutput_SymlinkEscape(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("symlinks need privileges on windows")
	}
	root := t.TempDir()
	outside := t.TempDir()
	require.NoError(t, os.Symlink(outside, filepath.Join(root, "link")))

	_, err := ResolveOutput("link/out.csv", root)
	assert.ErrorIs(t, err, ErrOutsideRoot)
}
