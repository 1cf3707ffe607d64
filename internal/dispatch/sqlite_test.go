package dispatch

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wizzomafizzo/jmp/internal/config"
	"github.com/wizzomafizzo/jmp/internal/storage"
	"github.com/wizzomafizzo/jmp/internal/testutil"
)

func TestSQLiteBackendEndToEnd(t *testing.T) {
	t.Parallel()

	home := t.TempDir()
	project := filepath.Join(home, "src", "project")
	fs := afero.NewOsFs()
	require.NoError(t, fs.MkdirAll(project, 0o750))

	cfg := config.DefaultConfig()
	cfg.Backend = "sqlite"
	cfg.Color = config.ColorNever
	cfg.Pad = "pad"

	run := func(workDir string, opts Options, args ...string) string {
		t.Helper()

		var stdout, stderr bytes.Buffer
		req, err := ParseRequest(opts, args)
		require.NoError(t, err)

		ctx, _ := testutil.NewTestContext(t)
		d := New(Environment{
			FS:      fs,
			Stdout:  &stdout,
			Stderr:  &stderr,
			Getenv:  func(string) string { return "" },
			Paths:   storage.NewWithHome(fs, home),
			WorkDir: workDir,
		}, cfg)
		require.NoError(t, d.Run(ctx, req), stderr.String())
		return stdout.String()
	}

	run(project, Options{}, "proj", ".")
	run(project, Options{Relative: true}, "src", "..")

	assert.Equal(t, "bash: "+project+"\n", run(home, Options{}, "proj"))
	assert.Equal(t, "bash: "+filepath.Join(home, "src")+"\n", run("/", Options{}, "src"))
	assert.Contains(t, run("/", Options{Status: true}), filepath.Join(home, "pad", "jmp_table.db"))

	assert.Equal(t, "deleted proj\n", run("/", Options{Delete: true}, "proj"))
	assert.Contains(t, run("/", Options{}), "src")
}
