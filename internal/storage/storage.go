// Package storage provides XDG-compliant storage path management for jmp.
package storage

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	"github.com/spf13/afero"
	"github.com/wizzomafizzo/jmp/internal/constants"
)

// Manager handles storage operations with filesystem abstraction
type Manager struct {
	fs   afero.Fs
	home string
}

// New creates a new storage manager with the given filesystem
func New(fs afero.Fs) *Manager {
	return &Manager{fs: fs, home: xdg.Home}
}

// NewWithHome creates a storage manager that expands "~" against home instead
// of the user's real home directory.
func NewWithHome(fs afero.Fs, home string) *Manager {
	return &Manager{fs: fs, home: home}
}

// Home returns the home directory used for "~" expansion
func (m *Manager) Home() string {
	return m.home
}

// GetDataDir returns the XDG data directory for jmp, creating it if necessary
func (m *Manager) GetDataDir() (string, error) {
	dataDir := filepath.Join(xdg.DataHome, constants.AppName)
	err := m.fs.MkdirAll(dataDir, 0o750)
	if err != nil {
		return "", fmt.Errorf("failed to create data directory %s: %w", dataDir, err)
	}
	return dataDir, nil
}

// GetLogPath returns the full path to the jmp log file
func (m *Manager) GetLogPath() (string, error) {
	dataDir, err := m.GetDataDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dataDir, constants.LogFilename), nil
}

// GetConfigPath returns the default config file path. The file may not exist.
func (*Manager) GetConfigPath() string {
	return filepath.Join(xdg.ConfigHome, constants.AppName, constants.ConfigFilename)
}

// GetPadDir returns the absolute store directory. An empty pad selects
// ~/.jmp_pad. The directory is not created here; saving the table does that.
func (m *Manager) GetPadDir(pad string) string {
	if pad == "" {
		return filepath.Join(m.home, constants.PadDir)
	}
	pad = m.ExpandHome(pad)
	if !filepath.IsAbs(pad) {
		pad = filepath.Join(m.home, pad)
	}
	return filepath.Clean(pad)
}

// GetTablePath returns the store file for the given pad directory and file extension
func (*Manager) GetTablePath(padDir, ext string) string {
	return filepath.Join(padDir, constants.TableBasename+ext)
}

// ExpandHome replaces a leading "~" with the home directory
func (m *Manager) ExpandHome(path string) string {
	if path == "~" {
		return m.home
	}
	if strings.HasPrefix(path, "~"+string(filepath.Separator)) {
		return filepath.Join(m.home, path[2:])
	}
	return path
}
