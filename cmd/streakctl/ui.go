package main

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
)

var (
	flame = lipgloss.Color("#FFBF00")
	jade  = lipgloss.Color("#50C878")
	ruby  = lipgloss.Color("#E0115F")
	dim   = lipgloss.Color("#666666")

	labelStyle = lipgloss.NewStyle().Foreground(dim).Width(16)
	currentVal = lipgloss.NewStyle().Foreground(flame).Bold(true)
	longestVal = lipgloss.NewStyle().Foreground(jade).Bold(true)
	errorStyle = lipgloss.NewStyle().Foreground(ruby).Bold(true)
	titleStyle = lipgloss.NewStyle().Bold(true).MarginBottom(1)
)

// isTerminal reports whether w is an interactive terminal; styling is skipped otherwise.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

func printError(w io.Writer, err error) {
	if isTerminal(w) {
		fmt.Fprintln(w, errorStyle.Render("✗ "+err.Error()))
		return
	}
	fmt.Fprintf(w, "error: %v\n", err)
}
