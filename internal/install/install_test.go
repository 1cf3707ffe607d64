package install

import (
	"context"
	"strings"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wizzomafizzo/jmp/internal/shell"
)

const (
	testRC     = "/home/u/.bashrc"
	testPrefix = "/home/u/.local/share/jmp"
)

func bashOptions() Options {
	return Options{Shell: shell.Bash, RCPath: testRC, Prefix: testPrefix}
}

func readString(t *testing.T, fs afero.Fs, path string) string {
	t.Helper()
	data, err := afero.ReadFile(fs, path)
	require.NoError(t, err)
	return string(data)
}

func TestInstallWritesScriptAndSourceLine(t *testing.T) {
	t.Parallel()

	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, testRC, []byte("export EDITOR=vi\n"), 0o600))

	result, err := New(fs).Install(context.Background(), bashOptions())
	require.NoError(t, err)

	assert.Equal(t, testPrefix+"/jmp.bash", result.Script)
	assert.Equal(t, testRC+".bak", result.Backup)
	wrapper, err := shell.Render(shell.Bash)
	require.NoError(t, err)
	assert.Equal(t, wrapper, readString(t, fs, result.Script))
	assert.Equal(t, "export EDITOR=vi\n", readString(t, fs, result.Backup))
	assert.Equal(t,
		"export EDITOR=vi\nsource '"+testPrefix+"/jmp.bash' # jmp shell integration\n",
		readString(t, fs, testRC))

	info, err := fs.Stat(testRC)
	require.NoError(t, err)
	assert.Equal(t, "-rw-------", info.Mode().Perm().String())
}

func TestInstallIsIdempotent(t *testing.T) {
	t.Parallel()

	fs := afero.NewMemMapFs()
	installer := New(fs)

	for range 3 {
		_, err := installer.Install(context.Background(), bashOptions())
		require.NoError(t, err)
	}

	rc := readString(t, fs, testRC)
	assert.Equal(t, 1, strings.Count(rc, shell.Marker))
}

func TestInstallReplacesStaleLine(t *testing.T) {
	t.Parallel()

	fs := afero.NewMemMapFs()
	stale := "alias ll='ls -l'\nsource '/old/jmp.bash' # jmp shell integration\nexport A=1"
	require.NoError(t, afero.WriteFile(fs, testRC, []byte(stale), 0o644))

	_, err := New(fs).Install(context.Background(), bashOptions())
	require.NoError(t, err)

	rc := readString(t, fs, testRC)
	assert.NotContains(t, rc, "/old/jmp.bash")
	assert.Equal(t,
		"alias ll='ls -l'\nexport A=1\nsource '"+testPrefix+"/jmp.bash' # jmp shell integration\n",
		rc)
}

func TestInstallWithoutRCFile(t *testing.T) {
	t.Parallel()

	fs := afero.NewMemMapFs()
	opts := Options{Shell: shell.Fish, RCPath: "/home/u/.config/fish/config.fish", Prefix: testPrefix}

	result, err := New(fs).Install(context.Background(), opts)
	require.NoError(t, err)
	assert.Empty(t, result.Backup)

	exists, err := afero.Exists(fs, opts.RCPath+BackupSuffix)
	require.NoError(t, err)
	assert.False(t, exists)
	assert.Equal(t, SourceLine(testPrefix+"/jmp.fish")+"\n", readString(t, fs, opts.RCPath))
}

func TestInstallRejectsBadOptions(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		opts Options
	}{
		{name: "unsupported shell", opts: Options{Shell: "tcsh", RCPath: testRC, Prefix: testPrefix}},
		{name: "missing rc", opts: Options{Shell: shell.Bash, Prefix: testPrefix}},
		{name: "missing prefix", opts: Options{Shell: shell.Bash, RCPath: testRC}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			fs := afero.NewMemMapFs()
			_, err := New(fs).Install(context.Background(), tt.opts)
			require.Error(t, err)

			exists, err := afero.Exists(fs, testRC)
			require.NoError(t, err)
			assert.False(t, exists)
		})
	}
}

func TestUninstall(t *testing.T) {
	t.Parallel()

	fs := afero.NewMemMapFs()
	installer := New(fs)
	require.NoError(t, afero.WriteFile(fs, testRC, []byte("export A=1\n"), 0o644))

	_, err := installer.Install(context.Background(), bashOptions())
	require.NoError(t, err)

	installed, err := installer.Installed(testRC)
	require.NoError(t, err)
	assert.True(t, installed)

	changed, err := installer.Uninstall(context.Background(), bashOptions())
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, "export A=1\n", readString(t, fs, testRC))

	exists, err := afero.Exists(fs, ScriptPath(testPrefix, shell.Bash))
	require.NoError(t, err)
	assert.False(t, exists)

	installed, err = installer.Installed(testRC)
	require.NoError(t, err)
	assert.False(t, installed)

	changed, err = installer.Uninstall(context.Background(), bashOptions())
	require.NoError(t, err)
	assert.False(t, changed)
}

func TestDefaultRCPath(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		shell string
		want  string
	}{
		{name: "bash", shell: shell.Bash, want: "/home/u/.bashrc"},
		{name: "zsh", shell: shell.Zsh, want: "/home/u/.zshrc"},
		{name: "fish", shell: shell.Fish, want: "/home/u/.config/fish/config.fish"},
		{name: "unsupported", shell: "ksh", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, DefaultRCPath(tt.shell, "/home/u"))
		})
	}
}

func TestSourceLineQuotes(t *testing.T) {
	t.Parallel()

	assert.Equal(t, `source '/it'\''s/jmp.zsh' # jmp shell integration`, SourceLine("/it's/jmp.zsh"))
}
