// Package install wires the jmp shell wrapper into a user's shell rc file.
package install

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
	"github.com/wizzomafizzo/jmp/internal/constants"
	"github.com/wizzomafizzo/jmp/internal/logging"
	"github.com/wizzomafizzo/jmp/internal/shell"
)

// BackupSuffix is appended to the rc file name for the pre-edit copy.
const BackupSuffix = ".bak"

// Options selects the shell and the files touched by Install and Uninstall.
type Options struct {
	Shell  string
	RCPath string
	Prefix string
}

// Result describes the files written by an install.
type Result struct {
	Script string
	RCPath string
	Backup string
}

type Installer struct {
	fs afero.Fs
}

func New(fs afero.Fs) *Installer {
	return &Installer{fs: fs}
}

// DefaultRCPath returns the rc file a shell reads at startup, or "" for an
// unsupported shell.
func DefaultRCPath(shellName, home string) string {
	switch shellName {
	case shell.Bash:
		return filepath.Join(home, ".bashrc")
	case shell.Zsh:
		return filepath.Join(home, ".zshrc")
	case shell.Fish:
		return filepath.Join(home, ".config", "fish", "config.fish")
	default:
		return ""
	}
}

// ScriptPath returns where the wrapper for shellName lives under prefix.
func ScriptPath(prefix, shellName string) string {
	return filepath.Join(prefix, constants.AppName+"."+shellName)
}

// SourceLine is the single line added to the rc file.
func SourceLine(script string) string {
	return "source " + quote(script) + " " + shell.Marker
}

// Install writes the wrapper script and makes the rc file source it. Any
// previous jmp lines are replaced, so running it twice leaves exactly one.
func (i *Installer) Install(ctx context.Context, opts Options) (*Result, error) {
	if err := validate(opts); err != nil {
		return nil, err
	}

	wrapper, err := shell.Render(opts.Shell)
	if err != nil {
		return nil, fmt.Errorf("failed to render wrapper: %w", err)
	}

	script := ScriptPath(opts.Prefix, opts.Shell)
	if err := i.fs.MkdirAll(opts.Prefix, 0o750); err != nil {
		return nil, fmt.Errorf("failed to create %s: %w", opts.Prefix, err)
	}
	if err := afero.WriteFile(i.fs, script, []byte(wrapper), 0o644); err != nil { //nolint:gosec // sourced by the shell
		return nil, fmt.Errorf("failed to write wrapper %s: %w", script, err)
	}

	content, mode, err := i.readRC(opts.RCPath)
	if err != nil {
		return nil, err
	}

	result := &Result{Script: script, RCPath: opts.RCPath}
	if content != "" {
		result.Backup, err = i.backup(opts.RCPath, content, mode)
		if err != nil {
			return nil, err
		}
	}

	updated, removed := stripMarked(content)
	if updated != "" && !strings.HasSuffix(updated, "\n") {
		updated += "\n"
	}
	updated += SourceLine(script) + "\n"

	if err := i.writeRC(opts.RCPath, updated, mode); err != nil {
		return nil, err
	}

	logging.Get(ctx).Info().
		Str("shell", opts.Shell).
		Str("rc", opts.RCPath).
		Str("script", script).
		Int("replaced", removed).
		Msg("installed shell integration")

	return result, nil
}

// Uninstall removes the jmp lines from the rc file and deletes the wrapper
// script. It reports whether anything was removed.
func (i *Installer) Uninstall(ctx context.Context, opts Options) (bool, error) {
	if err := validate(opts); err != nil {
		return false, err
	}

	changed := false

	content, mode, err := i.readRC(opts.RCPath)
	if err != nil {
		return false, err
	}
	if updated, removed := stripMarked(content); removed > 0 {
		if _, err := i.backup(opts.RCPath, content, mode); err != nil {
			return false, err
		}
		if err := i.writeRC(opts.RCPath, updated, mode); err != nil {
			return false, err
		}
		changed = true
	}

	script := ScriptPath(opts.Prefix, opts.Shell)
	switch err := i.fs.Remove(script); {
	case err == nil:
		changed = true
	case !errors.Is(err, os.ErrNotExist):
		return changed, fmt.Errorf("failed to remove wrapper %s: %w", script, err)
	}

	logging.Get(ctx).Info().
		Str("shell", opts.Shell).
		Str("rc", opts.RCPath).
		Bool("changed", changed).
		Msg("uninstalled shell integration")

	return changed, nil
}

// Installed reports whether rcPath carries a jmp line.
func (i *Installer) Installed(rcPath string) (bool, error) {
	content, _, err := i.readRC(rcPath)
	if err != nil {
		return false, err
	}
	_, removed := stripMarked(content)
	return removed > 0, nil
}

func validate(opts Options) error {
	if !shell.IsSupported(opts.Shell) {
		return fmt.Errorf("unsupported shell %q (supported: %s)",
			opts.Shell, strings.Join(shell.Supported(), ", "))
	}
	if opts.RCPath == "" {
		return errors.New("no rc file given")
	}
	if opts.Prefix == "" {
		return errors.New("no install prefix given")
	}
	return nil
}

func (i *Installer) readRC(path string) (string, os.FileMode, error) {
	info, err := i.fs.Stat(path)
	if errors.Is(err, os.ErrNotExist) {
		return "", 0o644, nil
	}
	if err != nil {
		return "", 0, fmt.Errorf("failed to stat %s: %w", path, err)
	}
	if info.IsDir() {
		return "", 0, fmt.Errorf("rc file %s is a directory", path)
	}

	data, err := afero.ReadFile(i.fs, path)
	if err != nil {
		return "", 0, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return string(data), info.Mode().Perm(), nil
}

func (i *Installer) writeRC(path, content string, mode os.FileMode) error {
	if err := i.fs.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return fmt.Errorf("failed to create %s: %w", filepath.Dir(path), err)
	}
	if err := afero.WriteFile(i.fs, path, []byte(content), mode); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

func (i *Installer) backup(path, content string, mode os.FileMode) (string, error) {
	backup := path + BackupSuffix
	if err := afero.WriteFile(i.fs, backup, []byte(content), mode); err != nil {
		return "", fmt.Errorf("failed to back up %s: %w", path, err)
	}
	return backup, nil
}

// stripMarked drops every line carrying the marker and returns how many went.
func stripMarked(content string) (string, int) {
	var b strings.Builder
	removed := 0
	for _, line := range strings.SplitAfter(content, "\n") {
		if strings.Contains(line, shell.Marker) {
			removed++
			continue
		}
		b.WriteString(line)
	}
	return b.String(), removed
}

func quote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}
