package pretty

import (
	"fmt"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/youngspe/mintyml"
	"github.com/youngspe/mintyml/internal/span"
)

// defaultTermWidth is used when the output isn't a terminal or its
// width can't be determined.
const defaultTermWidth = 100

func terminalWidth() int {
	if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && w > 0 {
		return w
	}
	return defaultTermWidth
}

// FormatSyntaxError renders one syntax error as a path:line:col header
// followed by the offending source line and a caret under its span.
func (s *Styles) FormatSyntaxError(path string, src *span.Source, se mintyml.SyntaxError) string {
	var b strings.Builder

	line, col := src.LineCol(span.Position(se.Start))

	location := fmt.Sprintf("%s:%d:%d", s.FilePath.Render(path), line, col)
	b.WriteString(fmt.Sprintf("%s  %s  %s\n", location, s.Error.Render("error"), s.Message.Render(se.Message)))

	if sourceLine := src.LineText(line); sourceLine != "" {
		b.WriteString(s.FormatSourceContext(sourceLine, col, caretWidth(se)))
	}

	if len(se.Expected) > 0 {
		b.WriteString("    " + s.Dim.Render("expected:") + " " +
			s.Expected.Render(strings.Join(se.Expected, ", ")) + "\n")
	}

	return b.String()
}

func caretWidth(se mintyml.SyntaxError) int {
	n := se.End - se.Start
	if n < 1 {
		return 1
	}
	return n
}

// FormatSourceContext formats a source line with a caret marker
// starting at the 1-based column and spanning width bytes, truncating
// the line around the caret so it fits the terminal width.
func (s *Styles) FormatSourceContext(line string, column, width int) string {
	var b strings.Builder
	const indent = "    "

	line, column = fitToWidth(line, column, terminalWidth()-len(indent))

	b.WriteString(indent + s.SourceLine.Render(line) + "\n")

	if column > 0 {
		padding := indent + strings.Repeat(" ", column-1)
		b.WriteString(padding + s.Caret.Render(strings.Repeat("^", width)) + "\n")
	}

	return b.String()
}

// fitToWidth truncates line to maxWidth bytes, keeping the 1-based
// column visible by sliding the window so column lands near its
// start, and returns the adjusted (line, column) pair.
func fitToWidth(line string, column, maxWidth int) (string, int) {
	if maxWidth <= 0 || len(line) <= maxWidth {
		return line, column
	}

	const ellipsis = "... "
	window := maxWidth - len(ellipsis)
	if window < 1 {
		window = 1
	}

	start := column - 1 - window/4
	if start < 0 {
		start = 0
	}
	if start+window > len(line) {
		start = len(line) - window
	}
	if start < 0 {
		start = 0
	}

	end := start + window
	if end > len(line) {
		end = len(line)
	}

	truncated := line[start:end]
	prefix := ""
	if start > 0 {
		prefix = ellipsis
	}
	if end < len(line) {
		truncated += ellipsis
	}

	return prefix + truncated, column - start + len(prefix)
}

// FormatSummary renders a one-line pass/fail summary for a batch of
// files.
func (s *Styles) FormatSummary(processed, failed int) string {
	if failed == 0 {
		return s.Success.Render(fmt.Sprintf("%d file(s) converted", processed))
	}
	return s.Failure.Render(fmt.Sprintf("%d file(s) converted, %d failed", processed-failed, failed))
}
