// Package text provides plain text output without any styling
package text

import (
	"fmt"
	"io"
	"strings"

	"github.com/frux-technologies/parcel/pkg/ui/display"
)

// Renderer provides plain text output without colors or styling
type Renderer struct {
	output io.Writer
}

// New creates a new text renderer
func New(output io.Writer) *Renderer {
	return &Renderer{output: output}
}

// RenderResult renders any result type as plain text
func (r *Renderer) RenderResult(result interface{}) error {
	var b strings.Builder

	switch v := result.(type) {
	case *display.PhaseResult:
		header := v.Phase
		if v.Target != "" {
			header += " for " + v.Target
		}
		fmt.Fprintf(&b, "%s:\n", header)
		if len(v.Plugins) == 0 {
			b.WriteString("  (none)\n")
		}
		for _, p := range v.Plugins {
			b.WriteString("  " + p.ID)
			if p.Version != "" {
				b.WriteString("@" + p.Version)
			}
			if p.Path != "" {
				b.WriteString(" (" + p.Path + ")")
			}
			b.WriteString("\n")
		}
	case *display.ValidationReport:
		fmt.Fprintf(&b, "%s:\n", v.ConfigPath)
		for _, c := range v.Checks {
			if c.OK {
				fmt.Fprintf(&b, "  ok    %s\n", c.ID)
			} else {
				fmt.Fprintf(&b, "  FAIL  %s: %s\n", c.ID, c.Error)
			}
		}
		fmt.Fprintf(&b, "%d plugins, %d failed\n", len(v.Checks), v.Failed())
	case *display.Document:
		b.WriteString(v.Content)
		if !strings.HasSuffix(v.Content, "\n") {
			b.WriteString("\n")
		}
	default:
		fmt.Fprintf(&b, "%+v\n", result)
	}

	_, err := io.WriteString(r.output, b.String())
	return err
}

// RenderError renders an error as plain text
func (r *Renderer) RenderError(err error) error {
	_, err2 := fmt.Fprintf(r.output, "Error: %v\n", err)
	return err2
}

// RenderMessage renders a simple message
func (r *Renderer) RenderMessage(msg string) error {
	_, err := fmt.Fprintln(r.output, msg)
	return err
}
