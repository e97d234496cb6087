// Package span defines the byte-offset primitives every AST node and
// diagnostic in the compiler is anchored to.
package span

import (
	"fmt"
	"strings"
)

// Position is a byte offset into a Source.
type Position int

// Span is a half-open byte range [Start, End) into a Source.
type Span struct {
	Start Position
	End   Position
}

// Len returns the number of bytes the span covers.
func (s Span) Len() int {
	return int(s.End - s.Start)
}

// IsEmpty reports whether the span covers zero bytes.
func (s Span) IsEmpty() bool {
	return s.Start == s.End
}

// Contains reports whether pos falls within the span.
func (s Span) Contains(pos Position) bool {
	return pos >= s.Start && pos < s.End
}

// Covers reports whether s fully contains other.
func (s Span) Covers(other Span) bool {
	return s.Start <= other.Start && other.End <= s.End
}

// Join returns the smallest span covering both s and other.
func (s Span) Join(other Span) Span {
	start, end := s.Start, s.End
	if other.Start < start {
		start = other.Start
	}
	if other.End > end {
		end = other.End
	}
	return Span{Start: start, End: end}
}

func (s Span) String() string {
	return fmt.Sprintf("%d..%d", s.Start, s.End)
}

// At returns the zero-length span at pos.
func At(pos Position) Span {
	return Span{Start: pos, End: pos}
}

// Source is the immutable input string a conversion runs over. Every
// Span in the resulting tree is an offset into it; nodes never copy
// substrings, only slice Source.Text at write time.
type Source struct {
	Text string
	// lineStarts[i] is the byte offset of the start of line i+2 (1-based
	// lines; line 1 always starts at offset 0 and is not stored).
	lineStarts []int
}

// NewSource wraps src, precomputing line-start offsets for diagnostic
// line/column reporting.
func NewSource(src string) *Source {
	s := &Source{Text: src}
	for i := 0; i < len(src); i++ {
		if src[i] == '\n' {
			s.lineStarts = append(s.lineStarts, i+1)
		}
	}
	return s
}

// Slice returns the text covered by sp. Callers must ensure sp is a
// valid span into s (0 <= Start <= End <= len(Text)).
func (s *Source) Slice(sp Span) string {
	if sp.Start < 0 {
		sp.Start = 0
	}
	if int(sp.End) > len(s.Text) {
		sp.End = Position(len(s.Text))
	}
	if sp.Start > sp.End {
		return ""
	}
	return s.Text[sp.Start:sp.End]
}

// Len returns the length of the source in bytes.
func (s *Source) Len() int {
	return len(s.Text)
}

// LineText returns the text of the 1-based line n, excluding its
// trailing newline.
func (s *Source) LineText(n int) string {
	start := 0
	if n > 1 && n-2 < len(s.lineStarts) {
		start = s.lineStarts[n-2]
	} else if n > 1 {
		return ""
	}
	end := len(s.Text)
	if n-1 < len(s.lineStarts) {
		end = s.lineStarts[n-1]
	}
	line := s.Text[start:end]
	line = strings.TrimRight(line, "\r\n")
	return line
}

// LineCol converts a byte offset to a 1-based (line, column) pair.
// Column is a byte offset within the line, also 1-based.
func (s *Source) LineCol(pos Position) (line, col int) {
	p := int(pos)
	if p < 0 {
		p = 0
	}
	if p > len(s.Text) {
		p = len(s.Text)
	}
	// Binary search the last lineStart <= p.
	lo, hi := 0, len(s.lineStarts)
	for lo < hi {
		mid := (lo + hi) / 2
		if s.lineStarts[mid] <= p {
			lo = mid + 1
		} else {
			hi = mid
		}
	}
	lineIdx := lo // number of newlines strictly before p
	lineStart := 0
	if lineIdx > 0 {
		lineStart = s.lineStarts[lineIdx-1]
	}
	return lineIdx + 1, p - lineStart + 1
}
