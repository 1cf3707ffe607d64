package store

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/afero"
	"github.com/wizzomafizzo/jmp/internal/bookmark"
	"gopkg.in/yaml.v3"
)

// FormatVersion is the version written to new YAML stores.
const FormatVersion = 1

// FileExt is the extension of the YAML store file.
const FileExt = ".yml"

type fileDocument struct {
	Version   int                  `yaml:"version"`
	Bookmarks map[string]fileEntry `yaml:"bookmarks"`
}

type fileEntry struct {
	Path     string `yaml:"path"`
	Relative bool   `yaml:"relative,omitempty"`
	Base     string `yaml:"base,omitempty"`
	Used     int    `yaml:"used,omitempty"`
}

// FileBackend stores the table as a single versioned YAML document.
type FileBackend struct {
	fs   afero.Fs
	path string
}

// NewFileBackend creates a YAML backend for path on fs.
func NewFileBackend(fs afero.Fs, path string) *FileBackend {
	return &FileBackend{fs: fs, path: path}
}

// Location implements Backend.
func (b *FileBackend) Location() string {
	return b.path
}

// Load implements Backend. A missing or empty file yields an empty table.
func (b *FileBackend) Load(_ context.Context) (*bookmark.Table, error) {
	data, err := afero.ReadFile(b.fs, b.path)
	if errors.Is(err, os.ErrNotExist) {
		return bookmark.NewTable(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read store %s: %w", b.path, err)
	}

	table, err := decodeTable(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", b.path, err)
	}
	return table, nil
}

// Save implements Backend. The table is written to a temporary file in the
// store directory, synced and renamed over the store file, so an interrupted
// save leaves the previous table intact.
func (b *FileBackend) Save(_ context.Context, table *bookmark.Table) error {
	data, err := encodeTable(table)
	if err != nil {
		return err
	}

	dir := filepath.Dir(b.path)
	if err := b.fs.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("failed to create store directory %s: %w", dir, err)
	}

	tmp, err := afero.TempFile(b.fs, dir, "."+filepath.Base(b.path)+"-*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmp.Name()

	if err := writeAndClose(tmp, data); err != nil {
		return errors.Join(err, b.fs.Remove(tmpPath))
	}
	if err := b.fs.Chmod(tmpPath, 0o600); err != nil {
		return errors.Join(fmt.Errorf("failed to set store permissions: %w", err), b.fs.Remove(tmpPath))
	}
	if err := b.fs.Rename(tmpPath, b.path); err != nil {
		return errors.Join(fmt.Errorf("failed to replace store %s: %w", b.path, err), b.fs.Remove(tmpPath))
	}
	return nil
}

// Close implements Backend.
func (*FileBackend) Close() error {
	return nil
}

func writeAndClose(f afero.File, data []byte) error {
	if _, err := f.Write(data); err != nil {
		_ = f.Close()
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := f.Sync(); err != nil {
		_ = f.Close()
		return fmt.Errorf("failed to sync temp file: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	return nil
}

func encodeTable(table *bookmark.Table) ([]byte, error) {
	doc := fileDocument{
		Version:   FormatVersion,
		Bookmarks: make(map[string]fileEntry, table.Len()),
	}
	for _, b := range table.Sorted() {
		doc.Bookmarks[b.Name] = fileEntry{
			Path:     b.Path,
			Relative: b.Relative,
			Base:     b.Base,
			Used:     b.Used,
		}
	}

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return nil, fmt.Errorf("failed to encode table: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("failed to encode table: %w", err)
	}
	return buf.Bytes(), nil
}

func decodeTable(data []byte) (*bookmark.Table, error) {
	var doc fileDocument
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return bookmark.NewTable(), nil
		}
		return nil, fmt.Errorf("%w: %w", ErrCorruptStore, err)
	}

	switch {
	case doc.Version == 0:
		return nil, fmt.Errorf("%w: missing format version", ErrCorruptStore)
	case doc.Version < 0:
		return nil, fmt.Errorf("%w: invalid format version %d", ErrCorruptStore, doc.Version)
	case doc.Version > FormatVersion:
		return nil, fmt.Errorf("%w: %d (supported up to %d)", ErrUnsupportedVersion, doc.Version, FormatVersion)
	}

	table := bookmark.NewTable()
	for name, entry := range doc.Bookmarks {
		if entry.Path == "" {
			return nil, fmt.Errorf("%w: bookmark %q has no path", ErrCorruptStore, name)
		}
		err := table.Put(bookmark.Bookmark{
			Name:     name,
			Path:     entry.Path,
			Relative: entry.Relative,
			Base:     entry.Base,
			Used:     entry.Used,
		})
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrCorruptStore, err)
		}
	}
	return table, nil
}
