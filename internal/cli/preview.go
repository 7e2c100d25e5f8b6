package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	"github.com/jmylchreest/covertint/internal/style"
	"github.com/jmylchreest/covertint/internal/theme"
)

// isTerminal reports whether w is an interactive terminal.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// writePreview prints accent swatches when out is a terminal.
func writePreview(out io.Writer, sheet *style.Sheet) error {
	if !isTerminal(out) {
		return nil
	}
	_, err := io.WriteString(out, renderPreview(sheet))
	return err
}

// renderPreview draws the accent with its foreground, and the ring colour.
func renderPreview(sheet *style.Sheet) string {
	accent, ok := sheet.Get(theme.VarPrimary)
	if !ok {
		return "(no accent)\n"
	}
	fg, _ := sheet.Get(theme.VarPrimaryForeground)

	button := lipgloss.NewStyle().
		Background(lipgloss.Color(accent)).
		Foreground(lipgloss.Color(fg)).
		Padding(0, 2).
		Render(" " + accent + " ")
	ring := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(accent)).
		Padding(0, 1).
		Render("ring")

	var b strings.Builder
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Center, button, "  ", ring))
	b.WriteString("\n")
	if hover, ok := sheet.Get(theme.VarTrackHoverBg); ok {
		fmt.Fprintf(&b, "hover: %s\n", hover)
	}
	return b.String()
}
