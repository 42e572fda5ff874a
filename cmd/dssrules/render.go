package main

import (
	"os"
	"time"

	"github.com/charmbracelet/glamour"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"
)

const renderWidth = 100

// renderRequested honours an explicit --render flag and otherwise renders
// only when stdout is a colour-capable terminal.
func renderRequested(cmd *cobra.Command, flag bool) bool {
	if cmd.Flags().Changed("render") {
		return flag
	}
	return stdoutIsTerminal()
}

func stdoutIsTerminal() bool {
	return termenv.NewOutput(os.Stdout).Profile != termenv.Ascii
}

func renderMarkdown(text string) (string, error) {
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(detectGlamourStyle(50*time.Millisecond)),
		glamour.WithWordWrap(renderWidth),
	)
	if err != nil {
		return "", err
	}
	return r.Render(text)
}

// detectGlamourStyle asks the terminal for its background colour, unless
// GLAMOUR_STYLE names a concrete style. Terminals that never answer get the
// dark style once timeout passes. The query goroutine is then abandoned
// blocked on the terminal; the process exits right after rendering.
func detectGlamourStyle(timeout time.Duration) string {
	style := os.Getenv("GLAMOUR_STYLE")
	if style != "" && style != "auto" {
		return style
	}

	ch := make(chan string, 1)
	go func() {
		if termenv.NewOutput(os.Stdout).HasDarkBackground() {
			ch <- "dark"
			return
		}
		ch <- "light"
	}()

	select {
	case s := <-ch:
		return s
	case <-time.After(timeout):
		return "dark"
	}
}
