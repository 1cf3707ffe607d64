package logging

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"github.com/wizzomafizzo/jmp/internal/storage"
	"gopkg.in/natefinch/lumberjack.v2"
)

const (
	maxLogSizeMB  = 10
	maxLogBackups = 3
	maxLogAgeDays = 30
)

// Log levels - aliases for zerolog levels
const (
	ErrorLevel = zerolog.ErrorLevel
	WarnLevel  = zerolog.WarnLevel
	InfoLevel  = zerolog.InfoLevel
	DebugLevel = zerolog.DebugLevel
	TraceLevel = zerolog.TraceLevel
)

// Config defines the configuration for logger creation
type Config struct {
	Writer  io.Writer
	Path    string // log file; empty selects the XDG data directory
	WorkDir string
	Level   zerolog.Level
}

// New creates a new context with a logger attached
// For production: provide fs and leave Writer nil for file logging
// For tests: provide a custom Writer (like strings.Builder) for in-memory logging
func New(ctx context.Context, fs afero.Fs, config Config) (context.Context, error) {
	writer := config.Writer

	if writer == nil {
		if fs == nil {
			return nil, errors.New("filesystem required when no writer provided")
		}

		logFile, err := resolveLogPath(fs, config.Path)
		if err != nil {
			return nil, err
		}

		writer = &lumberjack.Logger{
			Filename:   logFile,
			MaxSize:    maxLogSizeMB,
			MaxBackups: maxLogBackups,
			MaxAge:     maxLogAgeDays,
		}
	}

	logger := zerolog.New(writer).With().
		Timestamp().
		Int("pid", os.Getpid()).
		Str("cwd", config.WorkDir).
		Logger().
		Level(config.Level)

	return logger.WithContext(ctx), nil
}

// NewOrDisabled behaves like New but never fails. When the log file cannot be
// opened the returned context carries a disabled logger, so a broken log
// directory never prevents a jump.
func NewOrDisabled(ctx context.Context, fs afero.Fs, config Config) context.Context {
	logCtx, err := New(ctx, fs, config)
	if err != nil {
		disabled := zerolog.Nop()
		return disabled.WithContext(ctx)
	}
	return logCtx
}

// Get retrieves the logger from the provided context
// Returns the logger associated with the context, or a disabled logger if none exists
func Get(ctx context.Context) *zerolog.Logger {
	return zerolog.Ctx(ctx)
}

// ParseLevel converts a config level name to a zerolog level. Empty means info.
func ParseLevel(name string) (zerolog.Level, error) {
	if name == "" {
		return InfoLevel, nil
	}
	level, err := zerolog.ParseLevel(name)
	if err != nil {
		return InfoLevel, fmt.Errorf("invalid log level %q: %w", name, err)
	}
	return level, nil
}

func resolveLogPath(fs afero.Fs, path string) (string, error) {
	if path == "" {
		logFile, err := storage.New(fs).GetLogPath()
		if err != nil {
			return "", fmt.Errorf("failed to get log path: %w", err)
		}
		return logFile, nil
	}

	if err := fs.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return "", fmt.Errorf("failed to create log directory %s: %w", filepath.Dir(path), err)
	}
	return path, nil
}
