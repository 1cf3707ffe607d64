package dispatch

import (
	"context"
	"path/filepath"
	"slices"
	"strings"

	"github.com/spf13/afero"
	"github.com/wizzomafizzo/jmp/internal/bookmark"
	"github.com/wizzomafizzo/jmp/internal/store"
)

var completionFlags = []string{
	"-a", "-d", "-e", "-l", "-r",
	"--clear", "--complete", "--init", "--install", "--prune", "--status", "--uninstall",
}

// complete prints candidates for the last of words, one per line. The words
// are the command line after "jmp", the last one being the word under the
// cursor.
func (d *Dispatcher) complete(ctx context.Context, st *store.Store, words []string) error {
	cur := ""
	if len(words) > 0 {
		cur = words[len(words)-1]
		words = words[:len(words)-1]
	}

	if strings.HasPrefix(cur, "-") {
		for _, flag := range completionFlags {
			if strings.HasPrefix(flag, cur) {
				d.out.Line("%s", flag)
			}
		}
		return nil
	}

	table, err := st.Load(ctx)
	if err != nil {
		return err //nolint:wrapcheck // store errors carry their own context
	}

	var candidates []string
	switch {
	case strings.Contains(cur, "/"):
		candidates = d.completeDirs(table, cur)
	case positionals(words) == 0:
		candidates = completeNames(table, cur)
		if len(candidates) == 0 {
			candidates = d.completeDirs(table, cur)
		}
	default:
		candidates = d.completeDirs(table, cur)
	}

	for _, c := range candidates {
		d.out.Line("%s", c)
	}
	return nil
}

func positionals(words []string) int {
	n := 0
	for _, w := range words {
		if !strings.HasPrefix(w, "-") {
			n++
		}
	}
	return n
}

func completeNames(table *bookmark.Table, prefix string) []string {
	var names []string
	for _, b := range table.Sorted() {
		if strings.HasPrefix(b.Name, prefix) {
			names = append(names, b.Name)
		}
	}
	return names
}

// completeDirs lists subdirectories matching cur. The directory part of cur
// may start with a bookmark name, which is expanded for the lookup but kept
// as typed in the candidates.
func (d *Dispatcher) completeDirs(table *bookmark.Table, cur string) []string {
	typedDir, partial := "", cur
	if i := strings.LastIndex(cur, "/"); i >= 0 {
		typedDir, partial = cur[:i+1], cur[i+1:]
	}

	dir := d.env.WorkDir
	if typedDir != "" {
		dir, _ = table.Expand(d.expander(), typedDir)
	}

	infos, err := afero.ReadDir(d.env.FS, dir)
	if err != nil {
		return nil
	}

	var out []string
	for _, info := range infos {
		name := info.Name()
		if !strings.HasPrefix(name, partial) {
			continue
		}
		if strings.HasPrefix(name, ".") && !strings.HasPrefix(partial, ".") {
			continue
		}
		if d.isDir(filepath.Join(dir, name)) {
			out = append(out, typedDir+name+"/")
		}
	}
	slices.Sort(out)
	return out
}
