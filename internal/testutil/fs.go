package testutil

import (
	"testing"

	"github.com/spf13/afero"
)

// NewMemFS returns an in-memory filesystem with dirs already created.
func NewMemFS(t *testing.T, dirs ...string) afero.Fs {
	t.Helper()

	fs := afero.NewMemMapFs()
	for _, dir := range dirs {
		if err := fs.MkdirAll(dir, 0o750); err != nil {
			t.Fatalf("Failed to create %s: %v", dir, err)
		}
	}
	return fs
}
