package main

import (
	"fmt"
	"io"
	"os"

	"golang.org/x/term"

	"github.com/dkoosis/lta/pkg/pattern"
	"github.com/dkoosis/lta/pkg/render"
)

// isTTYWriter reports whether w is a terminal.
func isTTYWriter(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// isTTYReader reports whether r is a terminal.
func isTTYReader(r io.Reader) bool {
	f, ok := r.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// termWidth returns the terminal width for w, defaulting to 80.
func termWidth(w io.Writer) int {
	if f, ok := w.(*os.File); ok {
		if tw, _, err := term.GetSize(int(f.Fd())); err == nil && tw > 0 {
			return tw
		}
	}
	return 80
}

func resolveFormat(format string, w io.Writer) string {
	if format != "auto" {
		return format
	}
	// Auto-detect: TTY = terminal, piped = llm
	if isTTYWriter(w) {
		return "terminal"
	}
	return "llm"
}

func (a *app) renderer(meta render.Meta) render.Renderer {
	return render.ByFormat(resolveFormat(a.format, a.stdout), render.Options{
		Theme: a.theme,
		Width: termWidth(a.stdout),
		Meta:  meta,
	})
}

func (a *app) printPatterns(meta render.Meta, patterns []pattern.Pattern) {
	fmt.Fprint(a.stdout, a.renderer(meta).Render(patterns))
}
