package topics

import (
	"sync"

	"github.com/charmbracelet/glamour"
)

// GlamourRenderer renders markdown topics with glamour. Other formats are
// returned as they are, and so is markdown glamour fails on.
type GlamourRenderer struct {
	// Style is a glamour style name ("dark", "light", "notty") or a path to
	// a style file; empty or "auto" detects it from the terminal
	Style string
	// Width wraps output at this column; 0 keeps glamour's default
	Width int

	once     sync.Once
	renderer *glamour.TermRenderer
	err      error
}

// NewGlamourRenderer creates a markdown renderer detecting its style
func NewGlamourRenderer() *GlamourRenderer {
	return &GlamourRenderer{Style: "auto"}
}

// NewPlainGlamourRenderer creates a markdown renderer that emits no colors
func NewPlainGlamourRenderer() *GlamourRenderer {
	return &GlamourRenderer{Style: "notty"}
}

func (r *GlamourRenderer) init() {
	var options []glamour.TermRendererOption
	switch r.Style {
	case "", "auto":
		options = append(options, glamour.WithAutoStyle())
	case "dark", "light", "notty", "ascii", "dracula", "pink", "tokyo-night":
		options = append(options, glamour.WithStandardStyle(r.Style))
	default:
		options = append(options, glamour.WithStylePath(r.Style))
	}
	if r.Width > 0 {
		options = append(options, glamour.WithWordWrap(r.Width))
	}
	r.renderer, r.err = glamour.NewTermRenderer(options...)
}

// Render implements Renderer
func (r *GlamourRenderer) Render(content string, format string) string {
	if format != ".md" {
		return content
	}

	r.once.Do(r.init)
	if r.err != nil {
		return content
	}

	rendered, err := r.renderer.Render(content)
	if err != nil {
		return content
	}
	return rendered
}
