// Package dispatch executes one jmp invocation against the bookmark store
// and writes the result using the shell cd protocol.
package dispatch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/afero"
	"github.com/wizzomafizzo/jmp/internal/bookmark"
	"github.com/wizzomafizzo/jmp/internal/config"
	"github.com/wizzomafizzo/jmp/internal/install"
	"github.com/wizzomafizzo/jmp/internal/logging"
	"github.com/wizzomafizzo/jmp/internal/storage"
	"github.com/wizzomafizzo/jmp/internal/store"
)

// Environment is everything a dispatch reads from the outside world.
type Environment struct {
	FS     afero.Fs
	Stdout io.Writer
	Stderr io.Writer
	Getenv func(string) string
	Paths  *storage.Manager
	// WorkDir is the shell's current directory.
	WorkDir    string
	ConfigPath string
	// DataDir is the default install prefix for wrapper scripts.
	DataDir string
}

type Dispatcher struct {
	env       Environment
	cfg       *config.Config
	out       *printer
	errOut    *printer
	installer *install.Installer
}

// New creates a dispatcher. A nil cfg selects the defaults.
func New(env Environment, cfg *config.Config) *Dispatcher {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	if env.Getenv == nil {
		env.Getenv = os.Getenv
	}
	if env.Paths == nil {
		env.Paths = storage.New(env.FS)
	}
	return &Dispatcher{
		env:       env,
		cfg:       cfg,
		out:       newPrinter(env.Stdout, ColorEnabled(cfg.Color, env.Stdout, env.Getenv)),
		errOut:    newPrinter(env.Stderr, ColorEnabled(cfg.Color, env.Stderr, env.Getenv)),
		installer: install.New(env.FS),
	}
}

// Run executes req. Nothing is written to stdout when it fails, apart from
// output already produced by list style modes.
func (d *Dispatcher) Run(ctx context.Context, req Request) error {
	log := logging.Get(ctx)
	log.Debug().Stringer("mode", req.Mode).Str("target", req.Target).Msg("dispatching")

	var err error
	switch req.Mode {
	case ModeInit:
		err = d.printWrapper(req)
	case ModeInstall:
		err = d.install(ctx, req)
	case ModeUninstall:
		err = d.uninstall(ctx, req)
	default:
		err = d.withStore(ctx, func(st *store.Store) error {
			return d.runStoreMode(ctx, st, req)
		})
	}

	if err == nil {
		err = errors.Join(d.out.Err(), d.errOut.Err())
	}
	if err != nil {
		log.Error().Err(err).Stringer("mode", req.Mode).Msg("dispatch failed")
		return err
	}
	return nil
}

func (d *Dispatcher) runStoreMode(ctx context.Context, st *store.Store, req Request) error {
	switch req.Mode {
	case ModeList:
		return d.list(ctx, st)
	case ModeCreate:
		return d.create(ctx, st, req)
	case ModeJump:
		return d.jump(ctx, st, req.Target)
	case ModeDelete:
		return d.remove(ctx, st, req.Target)
	case ModeExpand:
		return d.expand(ctx, st, req.Target)
	case ModeClear:
		return d.clear(ctx, st)
	case ModePrune:
		return d.prune(ctx, st)
	case ModeComplete:
		return d.complete(ctx, st, req.Words)
	case ModeStatus:
		return d.status(ctx, st)
	default:
		return fmt.Errorf("unhandled mode %s", req.Mode)
	}
}

func (d *Dispatcher) padDir() string {
	return d.env.Paths.GetPadDir(d.cfg.Pad)
}

func (d *Dispatcher) withStore(ctx context.Context, fn func(*store.Store) error) (err error) {
	st, err := store.Open(ctx, store.Options{
		FS:      d.env.FS,
		Backend: d.cfg.Backend,
		PadDir:  d.padDir(),
	})
	if err != nil {
		return fmt.Errorf("failed to open store: %w", err)
	}
	defer func() {
		if closeErr := st.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("failed to close store: %w", closeErr)
		}
	}()
	return fn(st)
}

// update runs a locked read-modify-write bounded by the configured lock timeout.
func (d *Dispatcher) update(ctx context.Context, st *store.Store, fn func(*bookmark.Table) (bool, error)) error {
	if d.cfg.LockTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d.cfg.LockTimeout)
		defer cancel()
	}
	return st.Update(ctx, fn) //nolint:wrapcheck // store errors carry their own context
}

func (d *Dispatcher) expander() bookmark.Expander {
	return bookmark.Expander{
		Getenv:  d.env.Getenv,
		Home:    d.env.Paths.Home(),
		WorkDir: d.env.WorkDir,
	}
}

func (d *Dispatcher) isDir(path string) bool {
	ok, err := afero.IsDir(d.env.FS, path)
	return err == nil && ok
}
