// Package parser turns MinTyML source into a concrete syntax tree of
// ast.Node values. It is a single-pass, hand-written recursive-descent
// parser: there is no separate tokenizer stage because the grammar's
// constructs (selectors, verbatim delimiters, plaintext fences) need
// lookahead that doesn't factor cleanly through a generic token stream.
package parser

import (
	"github.com/youngspe/mintyml/internal/ast"
	"github.com/youngspe/mintyml/internal/errs"
	"github.com/youngspe/mintyml/internal/lexer"
	"github.com/youngspe/mintyml/internal/logging"
	"github.com/youngspe/mintyml/internal/span"
)

// Parser holds the mutable scan position over one Source plus the
// error accumulator every recognizer reports into.
type Parser struct {
	src  *span.Source
	text string
	pos  int
	errs *errs.Errors
}

// New creates a Parser over src. When failFast is true the first
// recorded error aborts parsing immediately (see errs.Errors.Run).
func New(src *span.Source, failFast bool) *Parser {
	return &Parser{
		src:  src,
		text: src.Text,
		errs: &errs.Errors{FailFast: failFast},
	}
}

// Parse runs the parser to completion and returns the top-level nodes
// plus the accumulated (possibly empty) error set.
func Parse(src *span.Source, failFast bool) ([]*ast.Node, *errs.Errors) {
	p := New(src, failFast)
	var nodes []*ast.Node
	p.errs.Run(func() {
		nodes = p.parseContainer(containerKindRoot, nil)
	})
	return nodes, p.errs
}

type containerKind uint8

const (
	containerKindRoot containerKind = iota
	containerKindBlock
	containerKindLineBlock
	// containerKindInlineBody is the single Node inside `<( ... )>`: it
	// has no brace of its own, so a bare paragraph parsed in this
	// context must stop before the ")>" closer instead of running
	// straight through it.
	containerKindInlineBody
)

// terminatorAt reports whether kind's closing delimiter starts at pos.
// containerKindRoot has none; the brace-delimited kinds close on '}';
// an inline body closes on ")>".
func (p *Parser) terminatorAt(kind containerKind, pos int) bool {
	switch kind {
	case containerKindRoot:
		return false
	case containerKindInlineBody:
		return pos+1 < len(p.text) && p.text[pos] == ')' && p.text[pos+1] == '>'
	default:
		return pos < len(p.text) && p.text[pos] == '}'
	}
}

// parseContainer consumes nodes until EOF or, for brace-delimited
// containers, until the matching '}'. It does not consume the closing
// brace; callers of a brace form do that themselves.
func (p *Parser) parseContainer(kind containerKind, indentFloor *int) []*ast.Node {
	var nodes []*ast.Node
	for {
		p.skipBlankLines()
		if p.atEOF() {
			break
		}
		if p.terminatorAt(kind, p.pos) {
			break
		}
		before := p.pos
		node := p.parseNode(kind)
		if node != nil {
			nodes = append(nodes, node)
		}
		if p.pos == before {
			// Safety net: nothing consumed any input; force progress so
			// a truly unrecognizable byte can't loop forever.
			logging.Default().Debug("parser resync: forcing progress past unrecognized byte", "offset", p.pos)
			p.recordParseFailed(p.pos, p.pos+1, "node")
			p.advanceBytes(1)
		}
	}
	return nodes
}

// parseNode dispatches on the recognizers valid at a container's node
// boundary, in the grammar's priority order, falling back to a
// paragraph when nothing else matches. The inline element (`<( )>`)
// and formatting-shorthand forms (rules 8-9) are InlineItems per §3,
// not independent container-level productions: they're recognized
// here only through parseParagraph's own inline-item scan, so that a
// run of them on one line -- with or without surrounding text --
// collects into a single Paragraph instead of becoming unrelated
// top-level siblings with the text between them discarded.
func (p *Parser) parseNode(kind containerKind) *ast.Node {
	if n := p.tryComment(); n != nil {
		return n
	}
	if n := p.tryVerbatim(); n != nil {
		return n
	}
	if n := p.tryPlaintextBlock(); n != nil {
		return n
	}
	if n := p.tryCodeBlock(); n != nil {
		return n
	}
	if n := p.trySelectorForm(kind); n != nil {
		return n
	}
	return p.parseParagraph(kind)
}

// --- low-level cursor helpers ---

func (p *Parser) atEOF() bool { return p.pos >= len(p.text) }

func (p *Parser) peekByte() byte {
	if p.atEOF() {
		return 0
	}
	return p.text[p.pos]
}

func (p *Parser) peekByteAt(offset int) byte {
	i := p.pos + offset
	if i < 0 || i >= len(p.text) {
		return 0
	}
	return p.text[i]
}

func (p *Parser) hasPrefix(s string) bool {
	return p.pos+len(s) <= len(p.text) && p.text[p.pos:p.pos+len(s)] == s
}

func (p *Parser) advanceBytes(n int) { p.pos += n }

func (p *Parser) here() span.Position { return span.Position(p.pos) }

// skipInlineSpace advances over spaces and tabs only.
func (p *Parser) skipInlineSpace() {
	for !p.atEOF() && lexer.IsInlineSpace(p.text[p.pos]) {
		p.pos++
	}
}

// skipBlankLines advances over any run of whitespace-only lines,
// leaving the cursor at the first non-space byte of a non-blank line
// (or at EOF).
func (p *Parser) skipBlankLines() {
	for {
		lineStart := p.pos
		p.skipInlineSpace()
		if p.atEOF() {
			return
		}
		if lexer.IsLineBreak(p.text[p.pos]) {
			p.skipLineBreak()
			continue
		}
		p.pos = lineStart
		p.skipInlineSpace()
		return
	}
}

func (p *Parser) skipLineBreak() {
	if p.atEOF() {
		return
	}
	if p.text[p.pos] == '\r' {
		p.pos++
		if !p.atEOF() && p.text[p.pos] == '\n' {
			p.pos++
		}
		return
	}
	if p.text[p.pos] == '\n' {
		p.pos++
	}
}

// atLineEnd reports whether the cursor is at a line break or EOF.
func (p *Parser) atLineEnd() bool {
	return p.atEOF() || lexer.IsLineBreak(p.text[p.pos])
}

// restOfLine returns the remaining text up to (excluding) the next
// line break or EOF, without advancing.
func (p *Parser) restOfLine() string {
	i := p.pos
	for i < len(p.text) && !lexer.IsLineBreak(p.text[i]) {
		i++
	}
	return p.text[p.pos:i]
}

func (p *Parser) recordParseFailed(start, end int, expected ...string) {
	actual := ""
	if start < len(p.text) {
		e := end
		if e > len(p.text) {
			e = len(p.text)
		}
		if e > start {
			actual = p.text[start:e]
		}
	}
	p.errs.Add(errs.NewParseFailed(span.Span{Start: span.Position(start), End: span.Position(end)}, actual, expected...))
}

func (p *Parser) recordUnclosed(openSpan span.Span, delimiter string) {
	p.errs.Add(errs.NewUnclosed(openSpan, delimiter))
}
