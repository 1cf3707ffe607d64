package bookmark

import (
	"os"
	"path/filepath"
	"strings"
)

// Expander turns user-typed targets into absolute paths.
type Expander struct {
	Getenv  func(string) string
	Home    string
	WorkDir string
}

// ExpandEnv expands "~" and $VAR references. The result may still be relative.
func (e Expander) ExpandEnv(target string) string {
	getenv := e.Getenv
	if getenv == nil {
		getenv = os.Getenv
	}
	target = os.Expand(target, getenv)
	if target == "~" {
		return e.Home
	}
	if strings.HasPrefix(target, "~/") {
		return filepath.Join(e.Home, target[2:])
	}
	return target
}

// Absolute expands target and resolves it against the working directory.
func (e Expander) Absolute(target string) string {
	target = e.ExpandEnv(target)
	if filepath.IsAbs(target) {
		return filepath.Clean(target)
	}
	return filepath.Join(e.WorkDir, target)
}

// Expand resolves target the way a jump does: when its first segment names a
// bookmark the rest is joined onto that bookmark's directory (tag-relative
// paths such as "h/Documents"); otherwise it is expanded as a plain path.
// The second result is the bookmark name used, if any.
func (t *Table) Expand(e Expander, target string) (string, string) {
	head, rest, _ := strings.Cut(target, "/")
	if b, ok := t.entries[head]; ok {
		return filepath.Join(b.Resolve(), rest), head
	}
	return e.Absolute(target), ""
}
