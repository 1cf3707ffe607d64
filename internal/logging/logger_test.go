package logging

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createTestConfig(writer *strings.Builder) Config {
	return Config{
		Writer:  writer,
		WorkDir: "/work",
		Level:   InfoLevel,
	}
}

func TestGet_WithoutLogger(t *testing.T) {
	t.Parallel()

	logger := Get(context.Background())

	require.NotNil(t, logger)
	// When no logger is attached, zerolog.Ctx returns a disabled logger
	require.Equal(t, zerolog.Disabled, logger.GetLevel())
}

func TestNew_WithCustomWriter(t *testing.T) {
	t.Parallel()

	var buf strings.Builder
	ctx, err := New(context.Background(), nil, createTestConfig(&buf))

	require.NoError(t, err)
	logger := Get(ctx)
	assert.Equal(t, InfoLevel, logger.GetLevel())

	logger.Info().Str("bookmark", "work").Msg("created bookmark")

	output := buf.String()
	assert.Contains(t, output, `"message":"created bookmark"`)
	assert.Contains(t, output, `"bookmark":"work"`)
	assert.Contains(t, output, `"cwd":"/work"`)
	assert.Contains(t, output, `"pid":`)
}

func TestNew_LevelFiltersMessages(t *testing.T) {
	t.Parallel()

	var buf strings.Builder
	config := createTestConfig(&buf)
	config.Level = WarnLevel

	ctx, err := New(context.Background(), nil, config)
	require.NoError(t, err)

	Get(ctx).Info().Msg("hidden")
	Get(ctx).Warn().Msg("shown")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")
}

func TestNew_NoWriterNoFilesystem_ReturnsError(t *testing.T) {
	t.Parallel()

	ctx, err := New(context.Background(), nil, Config{Level: InfoLevel})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "filesystem required when no writer provided")
	assert.Nil(t, ctx)
}

func TestNew_ExplicitPathWritesFile(t *testing.T) {
	t.Parallel()

	logFile := filepath.Join(t.TempDir(), "nested", "jmp.log")
	ctx, err := New(context.Background(), afero.NewOsFs(), Config{Path: logFile, Level: DebugLevel})
	require.NoError(t, err)

	Get(ctx).Debug().Msg("written to disk")

	exists, err := afero.Exists(afero.NewOsFs(), logFile)
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestNewOrDisabled_FallsBackToDisabledLogger(t *testing.T) {
	t.Parallel()

	fs := afero.NewReadOnlyFs(afero.NewMemMapFs())
	ctx := NewOrDisabled(context.Background(), fs, Config{Path: "/nope/jmp.log", Level: InfoLevel})

	require.NotNil(t, ctx)
	assert.Equal(t, zerolog.Disabled, Get(ctx).GetLevel())
}

func TestParseLevel(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		input   string
		want    zerolog.Level
		wantErr bool
	}{
		{name: "empty defaults to info", input: "", want: InfoLevel},
		{name: "debug", input: "debug", want: DebugLevel},
		{name: "warn", input: "warn", want: WarnLevel},
		{name: "unknown", input: "loud", want: InfoLevel, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := ParseLevel(tt.input)
			if tt.wantErr {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}
