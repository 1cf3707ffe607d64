package dispatch

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"github.com/wizzomafizzo/jmp/internal/config"
)

// ColorEnabled decides whether output written to w is colored. Auto mode
// colors only terminals and honours NO_COLOR.
func ColorEnabled(mode string, w io.Writer, getenv func(string) string) bool {
	switch mode {
	case config.ColorAlways:
		return true
	case config.ColorNever:
		return false
	}
	if getenv != nil && getenv("NO_COLOR") != "" {
		return false
	}
	f, ok := w.(interface{ Fd() uintptr })
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// printer writes plain text lines, optionally colored.
type printer struct {
	w     io.Writer
	name  *color.Color
	path  *color.Color
	faint *color.Color
	warn  *color.Color
	err   error
}

func newPrinter(w io.Writer, colored bool) *printer {
	p := &printer{
		w:     w,
		name:  color.New(color.FgCyan, color.Bold),
		path:  color.New(color.FgBlue),
		faint: color.New(color.Faint),
		warn:  color.New(color.FgYellow),
	}
	for _, c := range []*color.Color{p.name, p.path, p.faint, p.warn} {
		if colored {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

// Line writes one line. The first write error is kept and later writes are skipped.
func (p *printer) Line(format string, args ...any) {
	if p.err != nil {
		return
	}
	_, p.err = fmt.Fprintf(p.w, format+"\n", args...)
}

// Raw writes s unmodified.
func (p *printer) Raw(s string) {
	if p.err != nil {
		return
	}
	_, p.err = io.WriteString(p.w, s)
}

func (p *printer) Err() error {
	if p.err != nil {
		return fmt.Errorf("failed to write output: %w", p.err)
	}
	return nil
}
