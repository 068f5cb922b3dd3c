package syntax

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// FormatDiagnostic renders err and, for positioned diagnostics, a code frame
// pointing into source. Source is the notation text a stream was read from;
// an empty source yields just the message.
func FormatDiagnostic(err error, source string) string {
	var diag *Diagnostic
	if !errors.As(err, &diag) || diag.AtEOF {
		return err.Error()
	}
	frame := FormatCodeFrame(source, diag.Pos)
	if frame == "" {
		return err.Error()
	}
	return err.Error() + "\n" + frame
}

func FormatCodeFrame(source string, pos Position) string {
	if source == "" || pos.Line <= 0 {
		return ""
	}

	lines := strings.Split(source, "\n")
	if pos.Line > len(lines) {
		return ""
	}

	lineText := strings.TrimSuffix(lines[pos.Line-1], "\r")
	column := min(max(pos.Column, 1), len(lineText)+1)

	lineLabel := strconv.Itoa(pos.Line)
	return fmt.Sprintf(
		"  --> line %d, column %d\n %s | %s\n %s | %s^",
		pos.Line,
		column,
		lineLabel,
		lineText,
		strings.Repeat(" ", len(lineLabel)),
		strings.Repeat(" ", column-1),
	)
}
