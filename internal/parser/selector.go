package parser

import (
	"github.com/youngspe/mintyml/internal/ast"
	"github.com/youngspe/mintyml/internal/lexer"
	"github.com/youngspe/mintyml/internal/span"
)

// tryParseSelector attempts to lex one selector token (tag name or
// '*', then any number of .class/#id/[attr] suffixes) at the cursor.
// Returns ok=false, leaving the cursor untouched, if nothing selector
// shaped starts here.
func (p *Parser) tryParseSelector() (ast.Selector, bool) {
	start := p.pos
	sel := ast.Selector{}

	if !p.atEOF() && (lexer.IsNameStart(p.text[p.pos]) || p.text[p.pos] == '*') {
		tagStart := p.pos
		if p.text[p.pos] == '*' {
			p.pos++
		} else {
			p.pos++
			for !p.atEOF() && lexer.IsNameChar(p.text[p.pos]) {
				p.pos++
			}
		}
		sel.Tag = p.text[tagStart:p.pos]
		sel.HasTag = true
	}

	sawSuffix := false
	for !p.atEOF() {
		switch p.text[p.pos] {
		case '.':
			p.pos++
			nameStart := p.pos
			for !p.atEOF() && lexer.IsNameChar(p.text[p.pos]) {
				p.pos++
			}
			if p.pos == nameStart {
				p.pos = start
				return ast.Selector{}, false
			}
			sel.Classes = append(sel.Classes, p.text[nameStart:p.pos])
			sawSuffix = true
		case '#':
			p.pos++
			nameStart := p.pos
			for !p.atEOF() && lexer.IsNameChar(p.text[p.pos]) {
				p.pos++
			}
			if p.pos == nameStart {
				p.pos = start
				return ast.Selector{}, false
			}
			sel.ID = p.text[nameStart:p.pos]
			sawSuffix = true
		case '[':
			attrs, ok := p.parseAttrBracket()
			if !ok {
				p.pos = start
				return ast.Selector{}, false
			}
			sel.Attrs = append(sel.Attrs, attrs...)
			sawSuffix = true
		default:
			goto done
		}
	}
done:
	if !sel.HasTag && !sawSuffix {
		p.pos = start
		return ast.Selector{}, false
	}
	sel.Span = spanOf(start, p.pos)
	return sel, true
}

// parseAttrBracket parses `[attr(=value)? (space attr...)*]`. The
// cursor must be at '['.
func (p *Parser) parseAttrBracket() ([]ast.Attr, bool) {
	start := p.pos
	p.pos++ // '['
	var attrs []ast.Attr
	for {
		p.skipInlineSpace()
		if p.atEOF() {
			return nil, false
		}
		if p.text[p.pos] == ']' {
			p.pos++
			return attrs, true
		}
		attr, ok := p.parseOneAttr()
		if !ok {
			p.pos = start
			return nil, false
		}
		attrs = append(attrs, attr)
	}
}

func (p *Parser) parseOneAttr() (ast.Attr, bool) {
	nameStart := p.pos
	if p.atEOF() || !lexer.IsNameStart(p.text[p.pos]) {
		return ast.Attr{}, false
	}
	p.pos++
	for !p.atEOF() && lexer.IsNameChar(p.text[p.pos]) {
		p.pos++
	}
	name := p.text[nameStart:p.pos]
	attrSpan := spanOf(nameStart, p.pos)

	if p.atEOF() || p.text[p.pos] != '=' {
		return ast.Attr{Name: name, Span: attrSpan}, true
	}
	p.pos++
	value, ok, end := p.parseAttrValue()
	if !ok {
		return ast.Attr{}, false
	}
	attrSpan = spanOf(nameStart, end)
	return ast.Attr{Name: name, Value: &value, Span: attrSpan}, true
}

// parseAttrValue parses a quoted or unquoted attribute value. Unquoted
// values run until whitespace or ']'.
func (p *Parser) parseAttrValue() (value string, ok bool, end int) {
	if p.atEOF() {
		return "", false, p.pos
	}
	if q := p.text[p.pos]; q == '\'' || q == '"' {
		p.pos++
		contentStart := p.pos
		var raw []byte
		for !p.atEOF() && p.text[p.pos] != q {
			if p.text[p.pos] == '\\' {
				res := lexer.DecodeEscape(p.text, p.pos)
				if res.Err {
					p.errs.Add(errsInvalidEscape(p.pos, p.pos+res.Len, res.Text))
				}
				raw = append(raw, res.Text...)
				p.pos += res.Len
				continue
			}
			raw = append(raw, p.text[p.pos])
			p.pos++
		}
		if p.atEOF() {
			p.recordUnclosed(spanOf(contentStart-1, contentStart), string(q))
			return string(raw), true, p.pos
		}
		end = p.pos + 1
		p.pos++
		return string(raw), true, end
	}

	valStart := p.pos
	for !p.atEOF() && !lexer.IsSpace(p.text[p.pos]) && p.text[p.pos] != ']' {
		p.pos++
	}
	if p.pos == valStart {
		return "", false, p.pos
	}
	return p.text[valStart:p.pos], true, p.pos
}

// trySelectorForm recognizes rules 6 and 7: a (possibly chained)
// selector followed by a block, line-block, or line body.
func (p *Parser) trySelectorForm(kind containerKind) *ast.Node {
	start := p.pos
	var chain []ast.Selector
	sel, ok := p.tryParseSelector()
	if !ok {
		// The selector token itself is optional: a bare '{' or '>' at a
		// node boundary still opens a Block/Line form, with every part
		// of the selector left for the inference engine to fill in.
		if !p.atEOF() && (p.text[p.pos] == '{' || p.text[p.pos] == '>') {
			sel = ast.Selector{Span: spanOf(p.pos, p.pos)}
			ok = true
		} else {
			return nil
		}
	}
	chain = append(chain, sel)

	for {
		if p.atEOF() || p.text[p.pos] != '>' {
			break
		}
		save := p.pos
		p.pos++ // '>'
		if next, ok := p.tryParseSelector(); ok {
			chain = append(chain, next)
			continue
		}
		p.pos = save
		break
	}

	node := p.parseSelectorSuffix(chain, kind)
	if node == nil {
		p.pos = start
		return nil
	}
	return node
}

// parseSelectorSuffix consumes whatever follows the last selector in
// chain (block, line-block, or line body) and folds the chain into a
// linear nesting, innermost link owning the body.
func (p *Parser) parseSelectorSuffix(chain []ast.Selector, kind containerKind) *ast.Node {
	var body bodyResult
	var form ast.Form

	// Inline space between the selector and its body ("article {" as
	// well as "article{") is insignificant; the caller rolls the
	// cursor back to start if this turns out not to be a body at all.
	p.skipInlineSpace()

	// A template passthrough opener ("{{", "{%") is text, not a body.
	if p.hasPrefix("{{") || p.hasPrefix("{%") {
		return nil
	}

	switch {
	case !p.atEOF() && p.text[p.pos] == '{':
		form = ast.FormBlock
		body = p.parseBraceBody()
	case p.hasPrefix(">{"):
		p.advanceBytes(1)
		form = ast.FormLineBlock
		body = p.parseBraceBody()
	case !p.atEOF() && p.text[p.pos] == '>':
		p.advanceBytes(1)
		form = ast.FormLine
		body = p.parseLineBody(kind)
	default:
		return nil
	}

	end := p.pos
	last := len(chain) - 1
	// Every link's span runs from its own selector token to the shared
	// end, so only the outermost link -- whose token start is where this
	// whole construct began -- ends up with the full span.
	node := ast.NewElement(form, chain[last], spanOf(int(chain[last].Span.Start), end), body.contentSpan, body.children)
	for i := last - 1; i >= 0; i-- {
		node = ast.NewElement(form, chain[i], spanOf(int(chain[i].Span.Start), end), node.Span, []*ast.Node{node})
	}
	return node
}

// bodyResult is the parsed content of a selector's body, independent
// of which of the three body forms produced it.
type bodyResult struct {
	children    []*ast.Node
	contentSpan span.Span
}

// parseBraceBody consumes `{` ... `}`, returning the contained nodes.
// The cursor must be at '{'.
func (p *Parser) parseBraceBody() bodyResult {
	p.advanceBytes(1) // '{'
	contentStart := p.pos
	children := p.parseContainer(containerKindBlock, nil)
	contentEnd := p.pos
	if !p.atEOF() && p.text[p.pos] == '}' {
		p.advanceBytes(1)
	} else {
		p.recordUnclosed(spanOf(contentStart-1, contentStart), "{")
	}
	return bodyResult{children: children, contentSpan: spanOf(contentStart, contentEnd)}
}

// parseLineBody consumes a single node (or nothing, at end of line) as
// the body of a Line-form element. The cursor is positioned just after
// the '>'. kind is the enclosing container kind, forwarded so a bare
// paragraph inside (for instance) an inline element's Line body still
// knows to stop at that body's own terminator rather than the
// brace-only '}'.
func (p *Parser) parseLineBody(kind containerKind) bodyResult {
	p.skipInlineSpace()
	contentStart := p.pos
	if p.atLineEnd() {
		return bodyResult{contentSpan: spanOf(contentStart, contentStart)}
	}
	node := p.parseNode(kind)
	contentEnd := p.pos
	var children []*ast.Node
	if node != nil {
		children = []*ast.Node{node}
	}
	return bodyResult{children: children, contentSpan: spanOf(contentStart, contentEnd)}
}
