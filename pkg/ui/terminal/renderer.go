// Package terminal provides rich terminal output with colors and styling
package terminal

import (
	"fmt"
	"io"
	"strings"

	"github.com/frux-technologies/parcel/pkg/ui/display"
)

// Renderer provides styled terminal output
type Renderer struct {
	output io.Writer
}

// New creates a new terminal renderer
func New(w io.Writer) *Renderer {
	return &Renderer{output: w}
}

// RenderResult renders any result type with rich terminal formatting
func (r *Renderer) RenderResult(result interface{}) error {
	var b strings.Builder

	switch v := result.(type) {
	case *display.PhaseResult:
		b.WriteString(TitleStyle.Render(v.Phase))
		if v.Target != "" {
			b.WriteString(MutedStyle.Render(" for ") + v.Target)
		}
		b.WriteString("\n")
		if len(v.Plugins) == 0 {
			b.WriteString("  " + MutedStyle.Render("no plugins") + "\n")
		}
		for i, p := range v.Plugins {
			fmt.Fprintf(&b, "  %s %s", MutedStyle.Render(fmt.Sprintf("%d.", i+1)), IDStyle.Render(p.ID))
			if p.Version != "" {
				b.WriteString(MutedStyle.Render(" " + p.Version))
			}
			if p.Path != "" {
				b.WriteString("  " + MutedStyle.Render(p.Path))
			}
			b.WriteString("\n")
		}
	case *display.ValidationReport:
		b.WriteString(TitleStyle.Render(v.ConfigPath) + "\n")
		for _, c := range v.Checks {
			if c.OK {
				fmt.Fprintf(&b, "  %s %s", SuccessStyle.Render("✓"), IDStyle.Render(c.ID))
				if c.Version != "" {
					b.WriteString(MutedStyle.Render(" " + c.Version))
				}
				b.WriteString("\n")
			} else {
				fmt.Fprintf(&b, "  %s %s\n    %s\n", ErrorStyle.Render("✗"), IDStyle.Render(c.ID), c.Error)
			}
		}
		summary := fmt.Sprintf("%d plugins, %d failed", len(v.Checks), v.Failed())
		if v.Failed() > 0 {
			b.WriteString(ErrorStyle.Render(summary) + "\n")
		} else {
			b.WriteString(SuccessStyle.Render(summary) + "\n")
		}
	case *display.Document:
		if v.Title != "" {
			b.WriteString(TitleStyle.Render(v.Title) + "\n")
		}
		b.WriteString(DocumentStyle.Render(strings.TrimRight(v.Content, "\n")) + "\n")
	default:
		fmt.Fprintf(&b, "%+v\n", result)
	}

	_, err := io.WriteString(r.output, b.String())
	return err
}

// RenderError renders an error with appropriate formatting
func (r *Renderer) RenderError(err error) error {
	_, err2 := fmt.Fprintf(r.output, "%s %v\n", ErrorStyle.Render("Error:"), err)
	return err2
}

// RenderMessage renders a simple message
func (r *Renderer) RenderMessage(msg string) error {
	_, err := fmt.Fprintln(r.output, msg)
	return err
}
