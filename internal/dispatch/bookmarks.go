package dispatch

import (
	"context"
	"fmt"
	"path/filepath"
	"strconv"

	"github.com/wizzomafizzo/jmp/internal/bookmark"
	"github.com/wizzomafizzo/jmp/internal/logging"
	"github.com/wizzomafizzo/jmp/internal/shell"
	"github.com/wizzomafizzo/jmp/internal/store"
)

// create stores a bookmark. It prints nothing on success. A target whose
// first segment names a bookmark is stored relative to that bookmark's
// directory, as a jump would resolve it.
func (d *Dispatcher) create(ctx context.Context, st *store.Store, req Request) error {
	exp := d.expander()
	b := bookmark.Bookmark{Name: req.Name}

	err := d.update(ctx, st, func(t *bookmark.Table) (bool, error) {
		target := exp.ExpandEnv(req.Target)
		switch {
		case req.Relative && !filepath.IsAbs(target):
			b.Path = target
			b.Relative = true
			b.Base = d.env.WorkDir
		case filepath.IsAbs(target):
			b.Path = filepath.Clean(target)
		default:
			b.Path, _ = t.Expand(exp, req.Target)
		}

		resolved := b.Resolve()
		if d.cfg.ShouldVerifyTargets() && !d.isDir(resolved) {
			return false, fmt.Errorf("%w: %s", ErrNotDirectory, resolved)
		}
		return true, t.Put(b)
	})
	if err != nil {
		return err
	}

	logging.Get(ctx).Info().
		Str("name", b.Name).
		Str("path", b.Path).
		Bool("relative", b.Relative).
		Msg("created bookmark")
	return nil
}

// jump prints the cd line for target. Bookmarks win over directories of the
// same name; a plain existing directory behaves like cd.
func (d *Dispatcher) jump(ctx context.Context, st *store.Store, target string) error {
	if target == shell.Previous {
		d.out.Line("%s", shell.ChdirLine(shell.Previous))
		return nil
	}

	table, err := st.Load(ctx)
	if err != nil {
		return err //nolint:wrapcheck // store errors carry their own context
	}

	path, name := table.Expand(d.expander(), target)
	if name == "" {
		if !d.isDir(path) {
			return fmt.Errorf("%w: %s", bookmark.ErrUnknownBookmark, target)
		}
		d.out.Line("%s", shell.ChdirLine(path))
		return nil
	}

	// Only exact-name jumps count as a use; "name/sub" does not.
	if target == name {
		d.recordUse(ctx, st, name)
	}

	if !d.isDir(path) {
		d.errOut.Line("%s %s does not exist; run %s to drop stale bookmarks",
			d.errOut.warn.Sprint("jmp: warning:"), path, d.errOut.name.Sprint("jmp --prune"))
	}

	d.out.Line("%s", shell.ChdirLine(path))
	return nil
}

func (d *Dispatcher) recordUse(ctx context.Context, st *store.Store, name string) {
	err := d.update(ctx, st, func(t *bookmark.Table) (bool, error) {
		if !t.Has(name) {
			return false, nil
		}
		t.MarkUsed(name)
		return true, nil
	})
	if err != nil {
		// The jump itself does not depend on the counter.
		logging.Get(ctx).Warn().Err(err).Str("name", name).Msg("failed to record bookmark use")
	}
}

func (d *Dispatcher) list(ctx context.Context, st *store.Store) error {
	table, err := st.Load(ctx)
	if err != nil {
		return err //nolint:wrapcheck // store errors carry their own context
	}

	if table.Len() == 0 {
		d.out.Line("no bookmarks; create one with: jmp <name> <path>")
		return nil
	}

	entries := table.Sorted()
	nameWidth, usedWidth := 0, 0
	for _, b := range entries {
		nameWidth = max(nameWidth, len(b.Name))
		usedWidth = max(usedWidth, len(strconv.Itoa(b.Used)))
	}

	// Entries are indented so no line can be mistaken for a cd line.
	d.out.Line("bookmarks (%d):", len(entries))
	for _, b := range entries {
		resolved := b.Resolve()
		pathText := d.out.path.Sprint(resolved)
		if !d.isDir(resolved) {
			pathText = d.out.warn.Sprint(resolved + " (missing)")
		}
		suffix := ""
		if b.Relative {
			suffix = d.out.faint.Sprintf("  [%s from %s]", b.Path, b.Base)
		}
		d.out.Line("  %s  %s  -> %s%s",
			d.out.name.Sprintf("%-*s", nameWidth, b.Name),
			d.out.faint.Sprintf("%*d", usedWidth, b.Used),
			pathText, suffix)
	}
	return nil
}

// remove deletes name. An absent name is reported, not an error.
func (d *Dispatcher) remove(ctx context.Context, st *store.Store, name string) error {
	var removed bool
	err := d.update(ctx, st, func(t *bookmark.Table) (bool, error) {
		removed = t.Remove(name)
		return removed, nil
	})
	if err != nil {
		return err
	}

	if !removed {
		d.out.Line("no bookmark named %s", name)
		return nil
	}
	logging.Get(ctx).Info().Str("name", name).Msg("deleted bookmark")
	d.out.Line("deleted %s", d.out.name.Sprint(name))
	return nil
}

// expand prints the resolved path without the cd sentinel.
func (d *Dispatcher) expand(ctx context.Context, st *store.Store, target string) error {
	table, err := st.Load(ctx)
	if err != nil {
		return err //nolint:wrapcheck // store errors carry their own context
	}

	path, name := table.Expand(d.expander(), target)
	if name == "" && !d.isDir(path) {
		return fmt.Errorf("%w: %s", bookmark.ErrUnknownBookmark, target)
	}
	d.out.Line("%s", path)
	return nil
}

func (d *Dispatcher) clear(ctx context.Context, st *store.Store) error {
	var n int
	err := d.update(ctx, st, func(t *bookmark.Table) (bool, error) {
		n = t.Clear()
		return n > 0, nil
	})
	if err != nil {
		return err
	}

	logging.Get(ctx).Info().Int("count", n).Msg("cleared bookmarks")
	d.out.Line("cleared %d bookmark%s", n, plural(n))
	return nil
}

// prune drops bookmarks whose target is no longer a directory.
func (d *Dispatcher) prune(ctx context.Context, st *store.Store) error {
	var pruned []bookmark.Bookmark
	err := d.update(ctx, st, func(t *bookmark.Table) (bool, error) {
		pruned = pruned[:0]
		for _, b := range t.Sorted() {
			if !d.isDir(b.Resolve()) {
				t.Remove(b.Name)
				pruned = append(pruned, b)
			}
		}
		return len(pruned) > 0, nil
	})
	if err != nil {
		return err
	}

	if len(pruned) == 0 {
		d.out.Line("nothing to prune")
		return nil
	}
	for _, b := range pruned {
		logging.Get(ctx).Info().Str("name", b.Name).Str("path", b.Resolve()).Msg("pruned bookmark")
		d.out.Line("pruned %s -> %s", d.out.name.Sprint(b.Name), b.Resolve())
	}
	return nil
}

func plural(n int) string {
	if n == 1 {
		return ""
	}
	return "s"
}
