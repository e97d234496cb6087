package parser

import (
	"strings"

	"github.com/youngspe/mintyml/internal/errs"
	"github.com/youngspe/mintyml/internal/lexer"
	"github.com/youngspe/mintyml/internal/span"
)

func spanOf(start, end int) span.Span {
	return span.Span{Start: span.Position(start), End: span.Position(end)}
}

func errsInvalidEscape(start, end int, actual string) *errs.SyntaxError {
	return errs.NewInvalidEscape(spanOf(start, end), actual)
}

// decodeEscapes runs the escape decoder over s, where s is the text
// that originated at source offset baseOffset, reporting any malformed
// sequence found along the way and keeping it literal in the output.
func decodeEscapes(p *Parser, baseOffset int, s string) string {
	var b strings.Builder
	b.Grow(len(s))
	i := 0
	for i < len(s) {
		if s[i] != '\\' {
			b.WriteByte(s[i])
			i++
			continue
		}
		res := lexer.DecodeEscape(s, i)
		if res.Err {
			p.errs.Add(errsInvalidEscape(baseOffset+i, baseOffset+i+res.Len, res.Text))
		}
		b.WriteString(res.Text)
		i += res.Len
	}
	return b.String()
}
