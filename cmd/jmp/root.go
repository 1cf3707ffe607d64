package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/wizzomafizzo/jmp/internal/config"
	"github.com/wizzomafizzo/jmp/internal/constants"
	"github.com/wizzomafizzo/jmp/internal/dispatch"
	"github.com/wizzomafizzo/jmp/internal/logging"
	"github.com/wizzomafizzo/jmp/internal/storage"
)

// Version is set at build time.
var Version = "dev"

// runtimeEnv is the process environment a command runs against.
type runtimeEnv struct {
	fs     afero.Fs
	paths  *storage.Manager
	getenv func(string) string
	getwd  func() (string, error)
	// logWriter replaces the log file when set.
	logWriter io.Writer
}

func defaultRuntime() runtimeEnv {
	fs := afero.NewOsFs()
	return runtimeEnv{
		fs:     fs,
		paths:  storage.New(fs),
		getenv: os.Getenv,
		getwd:  os.Getwd,
	}
}

type rootFlags struct {
	opts       dispatch.Options
	configPath string
	pad        string
}

// createRootCommand creates the jmp command. Every mode is a flag so that
// bookmark names never collide with subcommands.
func createRootCommand(rt runtimeEnv) *cobra.Command {
	flags := &rootFlags{}

	rootCmd := &cobra.Command{
		Use:   "jmp [flags] [name [path]]",
		Short: "Bookmark directories and jump to them by name",
		Long: `jmp bookmarks directories under short names.

  jmp <name> <path>     bookmark path (stored absolute)
  jmp -r <name> <path>  bookmark path relative to the current directory
  jmp <name>            jump to a bookmark, or name/sub/dir below it
  jmp                   list bookmarks

Jumping needs the shell wrapper: run 'jmp --install' or add
'eval "$(command jmp --init bash)"' to your shell rc file.`,
		Version:       Version,
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRoot(cmd, rt, flags, args)
		},
	}

	rootCmd.CompletionOptions.DisableDefaultCmd = true
	rootCmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return fmt.Errorf("%w: %w", dispatch.ErrUsage, err)
	})

	f := rootCmd.Flags()
	f.BoolVarP(&flags.opts.Relative, "relative", "r", false, "store the path relative to the current directory")
	f.BoolVarP(&flags.opts.Absolute, "absolute", "a", false, "store the absolute path (default)")
	f.BoolVarP(&flags.opts.List, "list", "l", false, "list bookmarks")
	f.BoolVarP(&flags.opts.Delete, "delete", "d", false, "delete a bookmark")
	f.BoolVarP(&flags.opts.Expand, "expand", "e", false, "print the directory a bookmark resolves to")
	f.BoolVar(&flags.opts.Clear, "clear", false, "delete all bookmarks")
	f.BoolVar(&flags.opts.Prune, "prune", false, "delete bookmarks whose directory no longer exists")
	f.BoolVar(&flags.opts.Complete, "complete", false, "print completion candidates for the words after --")
	f.StringVar(&flags.opts.Init, "init", "", "print the shell wrapper for `shell` (bash, zsh, fish)")
	f.BoolVar(&flags.opts.Install, "install", false, "install the shell wrapper")
	f.BoolVar(&flags.opts.Uninstall, "uninstall", false, "remove the shell wrapper")
	f.StringVar(&flags.opts.Shell, "shell", "", "shell to install for (default from $SHELL)")
	f.StringVar(&flags.opts.RCPath, "rc", "", "shell rc file to edit")
	f.StringVar(&flags.opts.Prefix, "prefix", "", "directory for the wrapper script")
	f.BoolVar(&flags.opts.Status, "status", false, "show store and install status")
	f.StringVarP(&flags.configPath, "config", "c", "", "path to config file")
	f.StringVar(&flags.pad, "pad", "", "directory holding the bookmark store")

	return rootCmd
}

func runRoot(cmd *cobra.Command, rt runtimeEnv, flags *rootFlags, args []string) error {
	req, err := dispatch.ParseRequest(flags.opts, args)
	if err != nil {
		return err //nolint:wrapcheck // usage errors are reported as is
	}

	configPath := flags.configPath
	if configPath == "" {
		configPath = rt.getenv(constants.EnvConfig)
	}
	if configPath == "" {
		configPath = rt.paths.GetConfigPath()
	}
	configPath = rt.paths.ExpandHome(configPath)

	cfg, err := config.Load(rt.fs, configPath, rt.getenv)
	if err != nil {
		return err //nolint:wrapcheck // config errors name the file
	}
	if flags.pad != "" {
		cfg.Pad = flags.pad
	}

	workDir, err := currentDir(rt.getenv, rt.getwd)
	if err != nil {
		return err
	}

	ctx := initLogging(cmd.Context(), rt, cfg, workDir)

	dataDir, err := rt.paths.GetDataDir()
	if err != nil {
		logging.Get(ctx).Warn().Err(err).Msg("no data directory")
		dataDir = ""
	}

	d := dispatch.New(dispatch.Environment{
		FS:         rt.fs,
		Stdout:     cmd.OutOrStdout(),
		Stderr:     cmd.ErrOrStderr(),
		Getenv:     rt.getenv,
		Paths:      rt.paths,
		WorkDir:    workDir,
		ConfigPath: configPath,
		DataDir:    dataDir,
	}, cfg)

	return d.Run(ctx, req) //nolint:wrapcheck // mapped to exit codes by the caller
}

// initLogging attaches the logger to ctx. Logging failures never block a jump.
func initLogging(ctx context.Context, rt runtimeEnv, cfg *config.Config, workDir string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}

	level, err := logging.ParseLevel(cfg.Logging.Level)
	if err != nil {
		level = logging.InfoLevel
	}

	return logging.NewOrDisabled(ctx, rt.fs, logging.Config{
		Writer:  rt.logWriter,
		Path:    rt.paths.ExpandHome(cfg.Logging.Path),
		WorkDir: workDir,
		Level:   level,
	})
}
