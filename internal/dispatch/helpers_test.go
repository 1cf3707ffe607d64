package dispatch

import (
	"bytes"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"
	"github.com/wizzomafizzo/jmp/internal/bookmark"
	"github.com/wizzomafizzo/jmp/internal/config"
	"github.com/wizzomafizzo/jmp/internal/storage"
	"github.com/wizzomafizzo/jmp/internal/store"
	"github.com/wizzomafizzo/jmp/internal/testutil"
)

const (
	testHome    = "/home/u"
	testConfig  = "/home/u/.config/jmp/config.yml"
	testDataDir = "/home/u/.local/share/jmp"
	testTable   = "/home/u/.jmp_pad/jmp_table.yml"
)

type harness struct {
	fs     afero.Fs
	cfg    *config.Config
	env    map[string]string
	stdout bytes.Buffer
	stderr bytes.Buffer
}

func newHarness(t *testing.T, dirs ...string) *harness {
	t.Helper()

	cfg := config.DefaultConfig()
	cfg.Color = config.ColorNever
	return &harness{
		fs:  testutil.NewMemFS(t, append([]string{testHome}, dirs...)...),
		cfg: cfg,
		env: map[string]string{"SHELL": "/bin/bash", "HOME": testHome},
	}
}

// run parses and dispatches one invocation from workDir, resetting the
// captured output first.
func (h *harness) run(t *testing.T, workDir string, opts Options, args ...string) error {
	t.Helper()

	h.stdout.Reset()
	h.stderr.Reset()

	req, err := ParseRequest(opts, args)
	if err != nil {
		return err
	}

	ctx, _ := testutil.NewTestContext(t)
	d := New(Environment{
		FS:         h.fs,
		Stdout:     &h.stdout,
		Stderr:     &h.stderr,
		Getenv:     func(key string) string { return h.env[key] },
		Paths:      storage.NewWithHome(h.fs, testHome),
		WorkDir:    workDir,
		ConfigPath: testConfig,
		DataDir:    testDataDir,
	}, h.cfg)
	return d.Run(ctx, req)
}

func (h *harness) mustRun(t *testing.T, workDir string, opts Options, args ...string) string {
	t.Helper()
	require.NoError(t, h.run(t, workDir, opts, args...))
	return h.stdout.String()
}

func (h *harness) table(t *testing.T) *bookmark.Table {
	t.Helper()

	ctx, _ := testutil.NewTestContext(t)
	table, err := store.NewFileBackend(h.fs, testTable).Load(ctx)
	require.NoError(t, err)
	return table
}
