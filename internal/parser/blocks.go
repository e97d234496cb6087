package parser

import (
	"strings"

	"github.com/youngspe/mintyml/internal/ast"
	"github.com/youngspe/mintyml/internal/lexer"
	"github.com/youngspe/mintyml/internal/span"
)

// tryComment recognizes `<!` ... `!>`, tracking nested `<!`/`!>` pairs
// so the innermost balancing `!>` closes the outermost comment.
func (p *Parser) tryComment() *ast.Node {
	if !p.hasPrefix("<!") {
		return nil
	}
	start := p.pos
	p.advanceBytes(2)
	innerStart := p.pos
	depth := 1
	for !p.atEOF() {
		switch {
		case p.hasPrefix("<!"):
			depth++
			p.advanceBytes(2)
		case p.hasPrefix("!>"):
			depth--
			if depth == 0 {
				innerEnd := p.pos
				p.advanceBytes(2)
				return ast.NewComment(
					spanOf(start, p.pos),
					spanOf(innerStart, innerEnd),
				)
			}
			p.advanceBytes(2)
		default:
			p.advanceBytes(1)
		}
	}
	p.recordUnclosed(spanOf(start, start+2), "<!")
	return ast.NewComment(spanOf(start, p.pos), spanOf(innerStart, p.pos))
}

// tryVerbatim recognizes a balanced verbatim segment `<[` `#`* `[` ...
// `]` `#`* `]>`, matching hash multiplicities exactly.
func (p *Parser) tryVerbatim() *ast.Node {
	open, ok := lexer.ScanVerbatimOpen(p.text, p.pos)
	if !ok {
		return nil
	}
	start := p.pos
	contentStart := p.pos + open.Len
	closeStart, closeLen, found := lexer.FindVerbatimClose(p.text, contentStart, open.HashCount)
	if !found {
		p.recordUnclosed(spanOf(start, contentStart), p.text[start:contentStart])
		p.pos = len(p.text)
		text := p.text[contentStart:]
		textNode := ast.NewText(spanOf(contentStart, len(p.text)), text, ast.TextFlags{Verbatim: true})
		return wrapVerbatimNode(spanOf(start, p.pos), textNode)
	}
	p.pos = closeStart + closeLen
	text := p.text[contentStart:closeStart]
	textNode := ast.NewText(spanOf(contentStart, closeStart), text, ast.TextFlags{Verbatim: true})
	return wrapVerbatimNode(spanOf(start, p.pos), textNode)
}

// wrapVerbatimNode exposes a verbatim segment as a standalone node at
// the container level: a Special code element whose sole child is the
// literal text, matching the inline-item shape used when a verbatim
// segment appears inside a paragraph.
func wrapVerbatimNode(sp span.Span, text *ast.Node) *ast.Node {
	return ast.NewSpecialElement(ast.FormInline, ast.SpecialCode, sp, text.Span, []*ast.Node{text})
}

// fenceLine reports whether the rest of the current line (after
// skipping inline indentation) is exactly delim repeated, with
// trailing inline space permitted. indent is the number of leading
// inline-space bytes before delim.
func (p *Parser) fenceLine(delim byte, count int) (indent int, ok bool) {
	save := p.pos
	defer func() { p.pos = save }()

	lineStart := p.pos
	p.skipInlineSpace()
	indent = p.pos - lineStart
	n := 0
	for !p.atEOF() && p.text[p.pos] == delim {
		n++
		p.pos++
	}
	if n < count {
		return 0, false
	}
	p.skipInlineSpace()
	if !p.atLineEnd() {
		return 0, false
	}
	return indent, true
}

// tryPlaintextBlock recognizes a ''' or """ fenced block: a line that
// is only the delimiter (after indent) opens it; it closes at the next
// line that is only the same delimiter at or below that indentation.
// The text node is wrapped in a Paragraph so the inference engine
// wraps it the same way it would wrap any other bare paragraph
// content in context (<p> at the top level, <li> inside a list, and
// so on) -- a fenced block is still just paragraph content wearing a
// different opener.
func (p *Parser) tryPlaintextBlock() *ast.Node {
	n := p.tryFencedBlock('\'', '"', 3, false)
	if n == nil {
		return nil
	}
	return ast.NewParagraph(n.Span, []*ast.Node{n})
}

// tryCodeBlock recognizes a ``` fenced block, producing a pre>code
// wrapper around a verbatim text child.
func (p *Parser) tryCodeBlock() *ast.Node {
	return p.tryFencedBlock('`', 0, 3, true)
}

// tryFencedBlock is shared by plaintext and code blocks. altDelim is a
// second accepted opening byte (0 to disable, used for the plaintext
// '''/""" pair); asCode wraps the result as a code-block-container
// special element instead of returning a bare multiline text node.
func (p *Parser) tryFencedBlock(delim, altDelim byte, count int, asCode bool) *ast.Node {
	start := p.pos
	b := p.peekByte()
	if b != delim && !(altDelim != 0 && b == altDelim) {
		return nil
	}
	chosen := b
	openIndent, ok := p.fenceLine(chosen, count)
	if !ok {
		return nil
	}
	// Consume the opener line.
	p.skipInlineSpace()
	for !p.atEOF() && p.text[p.pos] == chosen {
		p.pos++
	}
	p.skipInlineSpace()
	p.skipLineBreak()

	contentStart := p.pos
	closeIndent := -1
	closeLineStart := -1
	closeLineEnd := -1
	for {
		lineStart := p.pos
		if p.atEOF() {
			break
		}
		if indent, ok := p.fenceLine(chosen, count); ok && indent <= openIndent {
			closeIndent = indent
			closeLineStart = lineStart
			// Advance to end of this closer line.
			for !p.atLineEnd() {
				p.pos++
			}
			closeLineEnd = p.pos
			break
		}
		for !p.atLineEnd() {
			p.pos++
		}
		p.skipLineBreak()
	}

	if closeLineStart < 0 {
		p.recordUnclosed(spanOf(start, contentStart), p.text[start:contentStart])
		closeLineStart = len(p.text)
		closeLineEnd = len(p.text)
		closeIndent = 0
	} else {
		p.pos = closeLineEnd
		p.skipLineBreak()
	}

	// The line break just before the closer line belongs to the fence,
	// not to the content.
	contentEnd := contentStart + len(strings.TrimSuffix(strings.TrimSuffix(p.text[contentStart:closeLineStart], "\n"), "\r"))
	raw := p.text[contentStart:contentEnd]
	decode := chosen == '"'
	dedented := dedent(raw, closeIndent)
	text := dedented
	flags := ast.TextFlags{Multiline: true}
	if decode {
		text = decodeEscapes(p, contentStart, dedented)
	} else {
		flags.Verbatim = true
	}

	textNode := ast.NewText(spanOf(contentStart, contentEnd), text, flags)
	if !asCode {
		return textNode
	}
	codeFlags := ast.TextFlags{Multiline: true, Verbatim: true}
	codeText := ast.NewText(spanOf(contentStart, contentEnd), dedented, codeFlags)
	codeSpan := spanOf(contentStart, contentEnd)
	codeEl := ast.NewSpecialElement(ast.FormInline, ast.SpecialCode, codeSpan, codeSpan, []*ast.Node{codeText})
	return ast.NewSpecialElement(ast.FormBlock, ast.SpecialCodeBlockContainer, spanOf(start, p.pos), codeSpan, []*ast.Node{codeEl})
}

// dedent strips up to n leading bytes from every line of s.
func dedent(s string, n int) string {
	if n <= 0 {
		return s
	}
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		trimmed := strings.TrimRight(line, "\r")
		cr := line[len(trimmed):]
		strip := n
		if strip > len(trimmed) {
			strip = len(trimmed)
		}
		j := 0
		for j < strip && lexer.IsInlineSpace(trimmed[j]) {
			j++
		}
		lines[i] = trimmed[j:] + cr
	}
	return strings.Join(lines, "\n")
}
