package dispatch

import (
	"errors"

	"github.com/wizzomafizzo/jmp/internal/bookmark"
	"github.com/wizzomafizzo/jmp/internal/store"
)

var (
	// ErrUsage marks a malformed invocation. The store is never touched.
	ErrUsage = errors.New("usage")
	// ErrNotDirectory is returned when a new bookmark does not point at a directory.
	ErrNotDirectory = errors.New("not a directory")
)

// ExitCode is the process exit status for a dispatch outcome.
type ExitCode int

const (
	ExitSuccess      ExitCode = 0
	ExitGeneral      ExitCode = 1
	ExitUsage        ExitCode = 2
	ExitUnknown      ExitCode = 3
	ExitCorruptStore ExitCode = 4
	ExitNotDirectory ExitCode = 5
)

// MapExitCode maps err onto the exit status the shell wrapper passes through.
func MapExitCode(err error) ExitCode {
	if err == nil {
		return ExitSuccess
	}
	switch {
	case errors.Is(err, ErrUsage), errors.Is(err, bookmark.ErrInvalidName):
		return ExitUsage
	case errors.Is(err, bookmark.ErrUnknownBookmark):
		return ExitUnknown
	case errors.Is(err, store.ErrCorruptStore):
		return ExitCorruptStore
	case errors.Is(err, ErrNotDirectory):
		return ExitNotDirectory
	default:
		return ExitGeneral
	}
}
