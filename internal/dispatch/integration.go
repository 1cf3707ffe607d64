package dispatch

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
	"github.com/wizzomafizzo/jmp/internal/config"
	"github.com/wizzomafizzo/jmp/internal/install"
	"github.com/wizzomafizzo/jmp/internal/logging"
	"github.com/wizzomafizzo/jmp/internal/shell"
	"github.com/wizzomafizzo/jmp/internal/store"
)

// printWrapper prints the wrapper for eval "$(jmp --init bash)" style setups.
func (d *Dispatcher) printWrapper(req Request) error {
	wrapper, err := shell.Render(req.Shell)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrUsage, err)
	}
	d.out.Raw(wrapper)
	return nil
}

func (d *Dispatcher) installOptions(req Request) (install.Options, error) {
	opts := install.Options{Shell: req.Shell, RCPath: req.RCPath, Prefix: req.Prefix}
	if opts.Shell == "" {
		opts.Shell = shell.Detect(d.env.Getenv)
	}
	if !shell.IsSupported(opts.Shell) {
		return opts, usagef("cannot use shell %q; pass --shell with one of %s",
			opts.Shell, strings.Join(shell.Supported(), ", "))
	}

	if opts.RCPath == "" {
		opts.RCPath = install.DefaultRCPath(opts.Shell, d.env.Paths.Home())
	}
	if opts.Prefix == "" {
		opts.Prefix = d.env.DataDir
	}
	if opts.Prefix == "" {
		return opts, usagef("no install prefix; pass --prefix")
	}

	opts.RCPath = d.expander().Absolute(opts.RCPath)
	opts.Prefix = d.expander().Absolute(opts.Prefix)
	return opts, nil
}

func (d *Dispatcher) install(ctx context.Context, req Request) error {
	opts, err := d.installOptions(req)
	if err != nil {
		return err
	}

	result, err := d.installer.Install(ctx, opts)
	if err != nil {
		return fmt.Errorf("failed to install: %w", err)
	}

	created, err := d.writeDefaultConfig()
	if err != nil {
		return err
	}

	d.out.Line("installed %s wrapper to %s", opts.Shell, d.out.path.Sprint(result.Script))
	d.out.Line("added source line to %s", d.out.path.Sprint(result.RCPath))
	if result.Backup != "" {
		d.out.Line("previous version saved as %s", result.Backup)
	}
	if created != "" {
		d.out.Line("wrote default config to %s", created)
	}
	d.out.Line("restart your shell or run: source %s", result.RCPath)

	logging.Get(ctx).Info().Str("shell", opts.Shell).Msg("install finished")
	return nil
}

func (d *Dispatcher) uninstall(ctx context.Context, req Request) error {
	opts, err := d.installOptions(req)
	if err != nil {
		return err
	}

	changed, err := d.installer.Uninstall(ctx, opts)
	if err != nil {
		return fmt.Errorf("failed to uninstall: %w", err)
	}
	if !changed {
		d.out.Line("%s integration was not installed in %s", opts.Shell, opts.RCPath)
		return nil
	}
	d.out.Line("removed %s integration from %s", opts.Shell, d.out.path.Sprint(opts.RCPath))
	return nil
}

// writeDefaultConfig writes the default config file when none exists and
// returns its path, or "" when nothing was written.
func (d *Dispatcher) writeDefaultConfig() (string, error) {
	path := d.env.ConfigPath
	if path == "" {
		return "", nil
	}
	_, err := d.env.FS.Stat(path)
	if err == nil {
		return "", nil
	}
	if !errors.Is(err, os.ErrNotExist) {
		return "", fmt.Errorf("failed to check config %s: %w", path, err)
	}

	data, err := config.DefaultConfigYAML()
	if err != nil {
		return "", err //nolint:wrapcheck // already wrapped
	}
	if err := d.env.FS.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return "", fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := afero.WriteFile(d.env.FS, path, data, 0o600); err != nil {
		return "", fmt.Errorf("failed to write config %s: %w", path, err)
	}
	return path, nil
}

func (d *Dispatcher) status(ctx context.Context, st *store.Store) error {
	table, err := st.Load(ctx)
	if err != nil {
		return err //nolint:wrapcheck // store errors carry their own context
	}

	d.out.Line("store:     %s", d.out.path.Sprint(st.Location()))
	d.out.Line("backend:   %s", d.cfg.Backend)
	d.out.Line("bookmarks: %d", table.Len())

	configState := "(defaults)"
	if ok, _ := afero.Exists(d.env.FS, d.env.ConfigPath); ok {
		configState = d.out.path.Sprint(d.env.ConfigPath)
	}
	d.out.Line("config:    %s", configState)

	for _, name := range shell.Supported() {
		rc := install.DefaultRCPath(name, d.env.Paths.Home())
		installed, err := d.installer.Installed(rc)
		if err != nil {
			logging.Get(ctx).Warn().Err(err).Str("rc", rc).Msg("failed to inspect rc file")
			continue
		}
		state := "not installed"
		if installed {
			state = "installed"
		}
		d.out.Line("%-10s %s (%s)", name+":", state, rc)
	}
	return nil
}
