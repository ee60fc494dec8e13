package main

import (
	"fmt"
	"os"

	"github.com/frux-technologies/parcel/pkg/ui"
	"github.com/frux-technologies/parcel/pkg/ui/terminal"
)

func main() {
	rootCmd := NewRootCmd()
	if err := rootCmd.Execute(); err != nil {
		format, _ := rootCmd.PersistentFlags().GetString("format")
		if f, _ := ui.ParseFormat(format); f == ui.FormatJSON {
			if renderer, rerr := ui.NewRenderer(f, os.Stderr); rerr == nil {
				_ = renderer.RenderError(err)
				os.Exit(1)
			}
		}

		fmt.Fprintln(os.Stderr, terminal.ErrorStyle.Render(fmt.Sprintf("Error: %v", err)))
		os.Exit(1)
	}
}
