// Package render provides output renderers for lta's analysis patterns.
package render

import "github.com/dkoosis/lta/pkg/pattern"

// Renderer converts patterns to formatted output.
type Renderer interface {
	Render(patterns []pattern.Pattern) string
}

// Options configures the renderer picked by ByFormat. Theme and Width
// apply to the terminal renderer, Meta to the JSON one.
type Options struct {
	Theme Theme
	Width int
	Meta  Meta
}

// ByFormat returns the renderer for a --format value. Unknown formats fall
// back to the terminal renderer.
func ByFormat(format string, opts Options) Renderer {
	switch format {
	case "json":
		return NewJSON(opts.Meta)
	case "llm":
		return NewLLM()
	default:
		return NewTerminal(opts.Theme, opts.Width)
	}
}
