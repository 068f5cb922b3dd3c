package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/PatchedDragon/Parser/syntax"
)

var (
	accentColor    = lipgloss.Color("#3B82F6")
	successColor   = lipgloss.Color("#10B981")
	errorColor     = lipgloss.Color("#EF4444")
	mutedColor     = lipgloss.Color("#6B7280")
	highlightColor = lipgloss.Color("#F59E0B")
)

type theme struct {
	header    lipgloss.Style
	result    lipgloss.Style
	err       lipgloss.Style
	muted     lipgloss.Style
	highlight lipgloss.Style
	border    lipgloss.Style
}

// newTheme returns the colored palette, or unstyled output when color is off.
func newTheme(color bool) theme {
	if !color {
		plain := lipgloss.NewStyle()
		return theme{header: plain, result: plain, err: plain, muted: plain, highlight: plain, border: plain}
	}
	return theme{
		header:    lipgloss.NewStyle().Foreground(accentColor).Bold(true),
		result:    lipgloss.NewStyle().Foreground(successColor),
		err:       lipgloss.NewStyle().Foreground(errorColor),
		muted:     lipgloss.NewStyle().Foreground(mutedColor),
		highlight: lipgloss.NewStyle().Foreground(highlightColor),
		border: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(accentColor).
			Padding(0, 1),
	}
}

func (th theme) symbolLines(symbols []syntax.Symbol) []string {
	lines := make([]string, 0, len(symbols))
	for _, sym := range symbols {
		value := "uninitialized"
		if sym.Value != nil {
			value = "= " + sym.Value.String()
		}
		lines = append(lines, fmt.Sprintf("%s %s %s %s",
			th.highlight.Render(fmt.Sprintf("%-8s", sym.Type)),
			sym.Name,
			th.muted.Render(value),
			th.muted.Render("("+sym.Pos.String()+")"),
		))
	}
	return lines
}

func (th theme) diagnosticLines(errs []error, source string) []string {
	lines := make([]string, 0, len(errs))
	for _, err := range errs {
		text := syntax.FormatDiagnostic(err, source)
		first, rest, hasFrame := strings.Cut(text, "\n")
		line := th.err.Render(first)
		if hasFrame {
			line += "\n" + th.muted.Render(rest)
		}
		lines = append(lines, line)
	}
	return lines
}
