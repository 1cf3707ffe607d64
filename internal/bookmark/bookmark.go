// Package bookmark holds the bookmark table and the rules for turning a
// bookmark into the absolute directory a jump should land in.
package bookmark

import (
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"strings"
)

var (
	// ErrUnknownBookmark is returned when a name has no entry in the table.
	ErrUnknownBookmark = errors.New("unknown bookmark")

	// ErrInvalidName is returned for names that cannot be stored.
	ErrInvalidName = errors.New("invalid bookmark name")
)

// Bookmark is a named reference to a directory.
type Bookmark struct {
	Name string
	// Path is absolute unless Relative is set, in which case it is the raw
	// relative string given at creation time.
	Path     string
	Base     string
	Relative bool
	Used     int
}

// Resolve returns the absolute directory the bookmark points to. Relative
// bookmarks are resolved against the directory they were created in, never
// against the current one. The target is not required to exist.
func (b Bookmark) Resolve() string {
	if !b.Relative || filepath.IsAbs(b.Path) {
		return filepath.Clean(b.Path)
	}
	return filepath.Join(b.Base, b.Path)
}

// ValidateName reports whether name can be used as a bookmark key.
func ValidateName(name string) error {
	switch {
	case name == "":
		return fmt.Errorf("%w: name is empty", ErrInvalidName)
	case name == "." || name == "..":
		return fmt.Errorf("%w: %q is reserved", ErrInvalidName, name)
	case strings.HasPrefix(name, "-"):
		return fmt.Errorf("%w: %q starts with '-'", ErrInvalidName, name)
	case strings.ContainsRune(name, filepath.Separator) || strings.ContainsRune(name, '/'):
		return fmt.Errorf("%w: %q contains a path separator", ErrInvalidName, name)
	case strings.ContainsAny(name, "\n\r\t"):
		return fmt.Errorf("%w: %q contains whitespace control characters", ErrInvalidName, name)
	}
	return nil
}

// Table maps bookmark names to bookmarks.
type Table struct {
	entries map[string]Bookmark
}

// NewTable creates an empty table.
func NewTable() *Table {
	return &Table{entries: make(map[string]Bookmark)}
}

// Len returns the number of bookmarks.
func (t *Table) Len() int {
	return len(t.entries)
}

// Put inserts or silently overwrites the bookmark stored under b.Name.
func (t *Table) Put(b Bookmark) error {
	if err := ValidateName(b.Name); err != nil {
		return err
	}
	if b.Relative && !filepath.IsAbs(b.Base) {
		return fmt.Errorf("relative bookmark %q needs an absolute base, got %q", b.Name, b.Base)
	}
	if !b.Relative {
		if !filepath.IsAbs(b.Path) {
			return fmt.Errorf("bookmark %q needs an absolute path, got %q", b.Name, b.Path)
		}
		b.Base = ""
	}
	t.entries[b.Name] = b
	return nil
}

// Remove deletes name and reports whether it was present.
func (t *Table) Remove(name string) bool {
	if _, ok := t.entries[name]; !ok {
		return false
	}
	delete(t.entries, name)
	return true
}

// Clear removes every bookmark and returns how many were dropped.
func (t *Table) Clear() int {
	n := len(t.entries)
	t.entries = make(map[string]Bookmark)
	return n
}

// Lookup returns the bookmark stored under name.
func (t *Table) Lookup(name string) (Bookmark, error) {
	b, ok := t.entries[name]
	if !ok {
		return Bookmark{}, fmt.Errorf("%w: %s", ErrUnknownBookmark, name)
	}
	return b, nil
}

// Has reports whether name is in the table.
func (t *Table) Has(name string) bool {
	_, ok := t.entries[name]
	return ok
}

// MarkUsed increments the jump counter of name.
func (t *Table) MarkUsed(name string) {
	if b, ok := t.entries[name]; ok {
		b.Used++
		t.entries[name] = b
	}
}

// Sorted returns all bookmarks, most used first, ties broken by name.
func (t *Table) Sorted() []Bookmark {
	out := make([]Bookmark, 0, len(t.entries))
	for _, b := range t.entries {
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Used != out[j].Used {
			return out[i].Used > out[j].Used
		}
		return out[i].Name < out[j].Name
	})
	return out
}
