package dispatch

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRequest(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		opts Options
		args []string
		want Request
	}{
		{name: "no args lists", want: Request{Mode: ModeList}},
		{name: "list flag", opts: Options{List: true}, want: Request{Mode: ModeList}},
		{name: "jump", args: []string{"work"}, want: Request{Mode: ModeJump, Target: "work"}},
		{name: "jump previous", args: []string{"-"}, want: Request{Mode: ModeJump, Target: "-"}},
		{
			name: "create absolute",
			args: []string{"work", "."},
			want: Request{Mode: ModeCreate, Name: "work", Target: "."},
		},
		{
			name: "create with -a",
			opts: Options{Absolute: true},
			args: []string{"work", "."},
			want: Request{Mode: ModeCreate, Name: "work", Target: "."},
		},
		{
			name: "create relative",
			opts: Options{Relative: true},
			args: []string{"up2", "../.."},
			want: Request{Mode: ModeCreate, Name: "up2", Target: "../..", Relative: true},
		},
		{
			name: "name shaped like a command",
			args: []string{"install"},
			want: Request{Mode: ModeJump, Target: "install"},
		},
		{name: "delete", opts: Options{Delete: true}, args: []string{"work"}, want: Request{Mode: ModeDelete, Target: "work"}},
		{name: "expand", opts: Options{Expand: true}, args: []string{"h/src"}, want: Request{Mode: ModeExpand, Target: "h/src"}},
		{name: "clear", opts: Options{Clear: true}, want: Request{Mode: ModeClear}},
		{name: "prune", opts: Options{Prune: true}, want: Request{Mode: ModePrune}},
		{name: "status", opts: Options{Status: true}, want: Request{Mode: ModeStatus}},
		{
			name: "complete keeps words",
			opts: Options{Complete: true},
			args: []string{"-d", "wo"},
			want: Request{Mode: ModeComplete, Words: []string{"-d", "wo"}},
		},
		{name: "complete without words", opts: Options{Complete: true}, want: Request{Mode: ModeComplete}},
		{name: "init", opts: Options{Init: "zsh"}, want: Request{Mode: ModeInit, Shell: "zsh"}},
		{
			name: "install with overrides",
			opts: Options{Install: true, Shell: "fish", RCPath: "~/rc", Prefix: "/opt/jmp"},
			want: Request{Mode: ModeInstall, Shell: "fish", RCPath: "~/rc", Prefix: "/opt/jmp"},
		},
		{name: "uninstall", opts: Options{Uninstall: true}, want: Request{Mode: ModeUninstall}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := ParseRequest(tt.opts, tt.args)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseRequestUsageErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		opts Options
		args []string
	}{
		{name: "relative without path", opts: Options{Relative: true}, args: []string{"up2"}},
		{name: "relative alone", opts: Options{Relative: true}},
		{name: "relative and absolute", opts: Options{Relative: true, Absolute: true}, args: []string{"a", "b"}},
		{name: "relative with delete", opts: Options{Relative: true, Delete: true}, args: []string{"a"}},
		{name: "absolute with list", opts: Options{Absolute: true, List: true}},
		{name: "two actions", opts: Options{Delete: true, Expand: true}, args: []string{"a"}},
		{name: "clear and prune", opts: Options{Clear: true, Prune: true}},
		{name: "too many args", args: []string{"a", "b", "c"}},
		{name: "delete without name", opts: Options{Delete: true}},
		{name: "delete two names", opts: Options{Delete: true}, args: []string{"a", "b"}},
		{name: "list with args", opts: Options{List: true}, args: []string{"a"}},
		{name: "clear with args", opts: Options{Clear: true}, args: []string{"a"}},
		{name: "unsupported init shell", opts: Options{Init: "tcsh"}},
		{name: "unsupported install shell", opts: Options{Install: true, Shell: "tcsh"}},
		{name: "rc without install", opts: Options{RCPath: "/rc"}, args: []string{"a"}},
		{name: "shell without install", opts: Options{Shell: "bash"}},
		{name: "invalid name with slash", args: []string{"a/b", "/tmp"}},
		{name: "name starting with dash", opts: Options{Relative: true}, args: []string{"-x", "."}},
		{name: "reserved name", args: []string{"..", "/tmp"}},
		{name: "empty path", args: []string{"work", ""}},
		{name: "empty jump target", args: []string{""}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := ParseRequest(tt.opts, tt.args)
			require.ErrorIs(t, err, ErrUsage)
			assert.Equal(t, ExitUsage, MapExitCode(err))
		})
	}
}

func TestModeString(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "jump", ModeJump.String())
	assert.Equal(t, "uninstall", ModeUninstall.String())
	assert.Equal(t, "Mode(99)", Mode(99).String())
}
