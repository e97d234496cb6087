package parser

import (
	"strings"

	"github.com/youngspe/mintyml/internal/ast"
	"github.com/youngspe/mintyml/internal/lexer"
)

// interpolationPairs maps each opening token to its closing token for
// template passthroughs. Matching is purely lexical: the content
// between open and close is never parsed or validated.
var interpolationPairs = []struct{ open, close string }{
	{"{{", "}}"},
	{"{%", "%}"},
	{"<%", "%>"},
	{"<?", "?>"},
}

// formattingShorthands maps each `<X ... X>` delimiter pair to the
// Special kind it produces. The backtick form is verbatim; the rest
// parse their content as ordinary inline items.
var formattingShorthands = []struct {
	open, close string
	special     ast.Special
	verbatim    bool
}{
	{"<#", "#>", ast.SpecialStrong, false},
	{"</", "/>", ast.SpecialEmphasis, false},
	{"<_", "_>", ast.SpecialUnderline, false},
	{"<~", "~>", ast.SpecialStrike, false},
	{`<"`, `">`, ast.SpecialQuote, false},
	{"<`", "`>", ast.SpecialCode, true},
}

// parseParagraph gathers consecutive non-empty lines into one
// Paragraph node, scanning each line for inline items (text runs,
// inline elements, formatting shorthands, verbatim segments, comments,
// interpolations) and stopping before a blank line, EOF, a container
// boundary, or a line that itself opens a new container-level
// construct.
func (p *Parser) parseParagraph(kind containerKind) *ast.Node {
	start := p.pos
	var items []*ast.Node
	var textBuf strings.Builder
	textStart := p.pos

	flush := func(end int) {
		if textBuf.Len() > 0 {
			items = append(items, ast.NewText(spanOf(textStart, end), textBuf.String(), ast.TextFlags{}))
			textBuf.Reset()
		}
	}
	// flushFinal is used at every point the paragraph ends: it trims the
	// trailing run of inline space left by source formatting like
	// `selector{ text }` before emitting the last text atom.
	flushFinal := func(end int) {
		trimmed := strings.TrimRight(textBuf.String(), " \t")
		textBuf.Reset()
		textBuf.WriteString(trimmed)
		flush(end)
	}

	for {
		if p.atEOF() {
			break
		}
		if lexer.IsLineBreak(p.text[p.pos]) {
			lineEndPos := p.pos
			p.skipLineBreak()
			// Probe past the next line's indentation before deciding
			// whether it's blank, a container boundary, or the start of
			// a new container-level construct -- indentation must not
			// hide any of those from this check.
			p.skipInlineSpace()
			peekPos := p.pos
			blank := p.atEOF() || lexer.IsLineBreak(p.peekByte())
			if blank {
				flushFinal(lineEndPos)
				break
			}
			if p.terminatorAt(kind, peekPos) {
				p.pos = peekPos
				flushFinal(lineEndPos)
				break
			}
			if p.startsContainerForm(kind) {
				// startsContainerForm restores the cursor to peekPos
				// regardless of outcome; leave it there so the next
				// container-level parse starts past the indentation.
				flushFinal(lineEndPos)
				break
			}
			p.pos = peekPos
			if textBuf.Len() == 0 {
				textStart = p.pos
			} else {
				textBuf.WriteByte(' ')
			}
			continue
		}

		if p.terminatorAt(kind, p.pos) {
			flushFinal(p.pos)
			break
		}

		if p.peekByte() == '\\' {
			res := lexer.DecodeEscape(p.text, p.pos)
			if res.Err {
				p.errs.Add(errsInvalidEscape(p.pos, p.pos+res.Len, res.Text))
			}
			textBuf.WriteString(res.Text)
			p.pos += res.Len
			continue
		}

		itemStart := p.pos
		if item, consumed := p.tryInlineItem(); consumed {
			flush(itemStart)
			if item != nil {
				items = append(items, item)
			}
			textStart = p.pos
			continue
		}

		textBuf.WriteByte(p.text[p.pos])
		p.pos++
	}
	flushFinal(p.pos)

	if len(items) == 0 {
		return nil
	}
	return ast.NewParagraph(spanOf(start, p.pos), items)
}


// startsContainerForm reports whether the cursor is positioned at a
// construct that begins a new container-level node (and should
// therefore end an in-progress paragraph), without consuming input.
func (p *Parser) startsContainerForm(kind containerKind) bool {
	save := p.pos
	errMark := p.errs.Count()
	defer func() {
		p.pos = save
		p.errs.TruncateTo(errMark)
	}()

	if p.tryComment() != nil {
		return true
	}
	p.pos = save
	if p.tryVerbatim() != nil {
		return true
	}
	p.pos = save
	if p.tryPlaintextBlock() != nil {
		return true
	}
	p.pos = save
	if p.tryCodeBlock() != nil {
		return true
	}
	p.pos = save
	if p.trySelectorForm(kind) != nil {
		return true
	}
	return false
}

// tryInlineItem attempts every inline-item recognizer at the cursor:
// comment, verbatim segment, interpolation, inline element, formatting
// shorthand. Returns consumed=true (with a possibly-nil node, for
// constructs that themselves recorded an error and produced nothing)
// iff it advanced the cursor.
func (p *Parser) tryInlineItem() (*ast.Node, bool) {
	before := p.pos
	if n := p.tryComment(); n != nil {
		return n, true
	}
	if n := p.tryVerbatim(); n != nil {
		return n, true
	}
	if n := p.tryInterpolation(); n != nil {
		return n, true
	}
	if n := p.tryInlineElement(); n != nil {
		return n, true
	}
	if n := p.tryFormattingShorthand(); n != nil {
		return n, true
	}
	return nil, p.pos != before
}

// tryInterpolation recognizes a template passthrough token and
// captures everything up to its matching close token verbatim.
func (p *Parser) tryInterpolation() *ast.Node {
	for _, pair := range interpolationPairs {
		if !p.hasPrefix(pair.open) {
			continue
		}
		start := p.pos
		p.advanceBytes(len(pair.open))
		idx := strings.Index(p.text[p.pos:], pair.close)
		if idx < 0 {
			p.recordUnclosed(spanOf(start, p.pos), pair.open)
			p.pos = len(p.text)
			return ast.NewInterpolation(spanOf(start, p.pos), pair.open, pair.close)
		}
		p.pos += idx + len(pair.close)
		return ast.NewInterpolation(spanOf(start, p.pos), pair.open, pair.close)
	}
	return nil
}

// tryInlineElement recognizes `<(` Node `)>`.
func (p *Parser) tryInlineElement() *ast.Node {
	if !p.hasPrefix("<(") {
		return nil
	}
	start := p.pos
	p.advanceBytes(2)
	contentStart := p.pos
	p.skipBlankLines()
	inner := p.parseNode(containerKindInlineBody)
	p.skipBlankLines()
	contentEnd := p.pos
	var children []*ast.Node
	if inner != nil {
		children = []*ast.Node{inner}
	}
	if p.hasPrefix(")>") {
		p.advanceBytes(2)
	} else {
		p.recordUnclosed(spanOf(start, start+2), "<(")
	}
	return ast.NewElement(ast.FormInline, ast.Selector{}, spanOf(start, p.pos), spanOf(contentStart, contentEnd), children)
}

// tryFormattingShorthand recognizes one of the `<X ... X>` inline
// formatting delimiters. The backtick form captures its content
// verbatim; the rest recurse into inline-item scanning.
func (p *Parser) tryFormattingShorthand() *ast.Node {
	for _, f := range formattingShorthands {
		if !p.hasPrefix(f.open) {
			continue
		}
		start := p.pos
		p.advanceBytes(len(f.open))
		contentStart := p.pos

		if f.verbatim {
			idx := strings.Index(p.text[p.pos:], f.close)
			if idx < 0 {
				p.recordUnclosed(spanOf(start, p.pos), f.open)
				p.pos = len(p.text)
				text := ast.NewText(spanOf(contentStart, p.pos), p.text[contentStart:p.pos], ast.TextFlags{Verbatim: true})
				return ast.NewSpecialElement(ast.FormInline, f.special, spanOf(start, p.pos), text.Span, []*ast.Node{text})
			}
			closeAt := p.pos + idx
			p.pos = closeAt + len(f.close)
			text := ast.NewText(spanOf(contentStart, closeAt), p.text[contentStart:closeAt], ast.TextFlags{Verbatim: true})
			return ast.NewSpecialElement(ast.FormInline, f.special, spanOf(start, p.pos), text.Span, []*ast.Node{text})
		}

		var children []*ast.Node
		var textBuf strings.Builder
		runStart := p.pos
		flushRun := func(end int) {
			if textBuf.Len() > 0 {
				children = append(children, ast.NewText(spanOf(runStart, end), textBuf.String(), ast.TextFlags{}))
				textBuf.Reset()
			}
		}
		for {
			if p.atEOF() {
				p.recordUnclosed(spanOf(start, start+len(f.open)), f.open)
				break
			}
			if p.hasPrefix(f.close) {
				break
			}
			if p.peekByte() == '\\' {
				res := lexer.DecodeEscape(p.text, p.pos)
				if res.Err {
					p.errs.Add(errsInvalidEscape(p.pos, p.pos+res.Len, res.Text))
				}
				textBuf.WriteString(res.Text)
				p.pos += res.Len
				continue
			}
			runItemStart := p.pos
			if item, consumed := p.tryInlineItem(); consumed {
				flushRun(runItemStart)
				if item != nil {
					children = append(children, item)
				}
				runStart = p.pos
				continue
			}
			textBuf.WriteByte(p.text[p.pos])
			p.pos++
		}
		flushRun(p.pos)
		contentEnd := p.pos
		if p.hasPrefix(f.close) {
			p.advanceBytes(len(f.close))
		}
		return ast.NewSpecialElement(ast.FormInline, f.special, spanOf(start, p.pos), spanOf(contentStart, contentEnd), children)
	}
	return nil
}
