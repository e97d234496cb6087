package writer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/youngspe/mintyml/internal/ast"
	"github.com/youngspe/mintyml/internal/span"
)

func el(tag string, form ast.Form, children ...*ast.Node) *ast.Node {
	return &ast.Node{
		Kind:     ast.KindElement,
		Form:     form,
		Selector: ast.Selector{Tag: tag, HasTag: true},
		Children: children,
	}
}

func blockTag(tag string, children ...*ast.Node) *ast.Node {
	return el(tag, ast.FormBlock, children...)
}

func inlineTag(tag string, children ...*ast.Node) *ast.Node {
	return el(tag, ast.FormInline, children...)
}

func txt(s string) *ast.Node {
	return ast.NewText(span.Span{}, s, ast.TextFlags{})
}

func TestWriteVoidElementHTML(t *testing.T) {
	n := blockTag("br")
	out := Write(span.NewSource(""), []*ast.Node{n}, Options{})
	assert.Equal(t, "<br>\n", out)
}

func TestWriteVoidElementXML(t *testing.T) {
	n := blockTag("br")
	out := Write(span.NewSource(""), []*ast.Node{n}, Options{XML: true})
	assert.Equal(t, "<br/>\n", out)
}

func TestWriteEmptyNonVoidElement(t *testing.T) {
	n := blockTag("div")
	out := Write(span.NewSource(""), []*ast.Node{n}, Options{})
	assert.Equal(t, "<div></div>\n", out)
}

func TestWritePhrasingOnlyElementRendersOneLine(t *testing.T) {
	n := blockTag("p", txt("hello"))
	indent := 2
	out := Write(span.NewSource(""), []*ast.Node{n}, Options{Indent: &indent})
	assert.Equal(t, "<p>hello</p>\n", out)
}

func TestWriteBlockElementPrettyPrintedWithIndent(t *testing.T) {
	n := blockTag("div", blockTag("div", txt("x")))
	indent := 2
	out := Write(span.NewSource(""), []*ast.Node{n}, Options{Indent: &indent})
	assert.Equal(t, "<div>\n  <div>\n    x\n  </div>\n</div>\n", out)
}

func TestWriteOverriddenInlineTagStaysPhrasing(t *testing.T) {
	// A FormInline child keeps its parent inline even when its resolved
	// tag (via a WithSpecialTag-style override) isn't in the default
	// phrasingOnly set.
	override := inlineTag("weird-tag", txt("x"))
	p := blockTag("p", txt("a "), override, txt(" b"))
	indent := 2
	out := Write(span.NewSource(""), []*ast.Node{p}, Options{Indent: &indent})
	assert.Equal(t, "<p>a <weird-tag>x</weird-tag> b</p>\n", out)
}

func TestWriteBlockChildForcesMultilineEvenForPhrasingTag(t *testing.T) {
	inner := blockTag("div", txt("x"))
	p := blockTag("p", inner)
	indent := 2
	out := Write(span.NewSource(""), []*ast.Node{p}, Options{Indent: &indent})
	assert.Equal(t, "<p>\n  <div>\n    x\n  </div>\n</p>\n", out)
}

func TestWriteAttrsIDClassAndPlain(t *testing.T) {
	n := &ast.Node{
		Kind: ast.KindElement, Form: ast.FormBlock,
		Selector: ast.Selector{
			Tag: "div", HasTag: true, ID: "main",
			Classes: []string{"a", "b"},
			Attrs:   []ast.Attr{{Name: "data-x", Value: strp("1")}},
		},
	}
	out := Write(span.NewSource(""), []*ast.Node{n}, Options{})
	assert.Equal(t, `<div id="main" class="a b" data-x="1"></div>`+"\n", out)
}

func strp(s string) *string { return &s }

func TestWriteValuelessAttrHTML(t *testing.T) {
	n := &ast.Node{
		Kind: ast.KindElement, Form: ast.FormBlock,
		Selector: ast.Selector{Tag: "details", HasTag: true, Attrs: []ast.Attr{{Name: "open"}}},
	}
	out := Write(span.NewSource(""), []*ast.Node{n}, Options{})
	assert.Equal(t, `<details open></details>`+"\n", out)
}

func TestWriteValuelessAttrXML(t *testing.T) {
	n := &ast.Node{
		Kind: ast.KindElement, Form: ast.FormBlock,
		Selector: ast.Selector{Tag: "details", HasTag: true, Attrs: []ast.Attr{{Name: "open"}}},
	}
	out := Write(span.NewSource(""), []*ast.Node{n}, Options{XML: true})
	assert.Equal(t, `<details open="open"></details>`+"\n", out)
}

func TestWriteTextEscaping(t *testing.T) {
	n := blockTag("p", txt("a < b & c"))
	out := Write(span.NewSource(""), []*ast.Node{n}, Options{})
	assert.Equal(t, "<p>a &lt; b &amp; c</p>\n", out)
}

func TestWriteRawInterpolationPassthroughInHTML(t *testing.T) {
	src := span.NewSource("{{ a < b }}")
	n := ast.NewInterpolation(span.Span{Start: 0, End: span.Position(len(src.Text))}, "{{", "}}")
	p := blockTag("p", n)
	out := Write(src, []*ast.Node{p}, Options{})
	assert.Equal(t, "<p>{{ a < b }}</p>\n", out)
}

func TestWriteRawInterpolationEscapedInXML(t *testing.T) {
	src := span.NewSource("{{ a < b }}")
	n := ast.NewInterpolation(span.Span{Start: 0, End: span.Position(len(src.Text))}, "{{", "}}")
	p := blockTag("p", n)
	out := Write(src, []*ast.Node{p}, Options{XML: true})
	assert.Equal(t, "<p>{{ a &lt; b }}</p>\n", out)
}

func TestWriteCommentPassthrough(t *testing.T) {
	src := span.NewSource("<! hi !>")
	n := ast.NewComment(span.Span{Start: 0, End: span.Position(len(src.Text))}, span.Span{Start: 2, End: 6})
	out := Write(src, []*ast.Node{n}, Options{})
	assert.Equal(t, "<!-- hi -->\n", out)
}

func TestWriteCommentDoubleDashEscaped(t *testing.T) {
	src := span.NewSource("<! a -- b !>")
	n := ast.NewComment(span.Span{Start: 0, End: span.Position(len(src.Text))}, span.Span{Start: 2, End: 10})
	out := Write(src, []*ast.Node{n}, Options{})
	assert.Equal(t, "<!-- a - - b -->\n", out)
}

func TestWriteMetadataAttrsOnRoot(t *testing.T) {
	n := &ast.Node{
		Kind: ast.KindElement, Form: ast.FormBlock,
		Span:     span.Span{Start: 0, End: 10},
		Selector: ast.Selector{Tag: "div", HasTag: true},
	}
	out := Write(span.NewSource("0123456789"), []*ast.Node{n}, Options{Metadata: true})
	assert.Contains(t, out, `xmlns:mty="tag:youngspe.github.io,2024:mintyml/metadata"`)
	assert.Contains(t, out, `mty:start="0"`)
	assert.Contains(t, out, `mty:end="10"`)
}

func TestWriteMetadataElementsWrapsText(t *testing.T) {
	n := blockTag("p", ast.NewText(span.Span{Start: 3, End: 8}, "hello", ast.TextFlags{Verbatim: true}))
	out := Write(span.NewSource("012hello89"), []*ast.Node{n}, Options{MetadataElements: true})
	assert.Contains(t, out, "<mty:text mty:verbatim")
	assert.Contains(t, out, "hello</mty:text>")
}

func TestWriteMetadataAttrsDistinguishChainedLinkSpans(t *testing.T) {
	// Mirrors a chained selector "div>span> Hi": the inner link's span
	// starts well after the outer link's, and each must get its own
	// mty:start/mty:end pair rather than sharing the outer one.
	inner := &ast.Node{
		Kind: ast.KindElement, Form: ast.FormLine,
		Span:     span.Span{Start: 4, End: 12},
		Selector: ast.Selector{Tag: "span", HasTag: true},
		Children: []*ast.Node{txt("Hi")},
	}
	outer := &ast.Node{
		Kind: ast.KindElement, Form: ast.FormBlock,
		Span:     span.Span{Start: 0, End: 12},
		Selector: ast.Selector{Tag: "div", HasTag: true},
		Children: []*ast.Node{inner},
	}
	out := Write(span.NewSource("div>span> Hi"), []*ast.Node{outer}, Options{Metadata: true})
	assert.Contains(t, out, `mty:start="0" mty:end="12"`)
	assert.Contains(t, out, `mty:start="4" mty:end="12"`)
	// the inner span must not be reported as the outer's full range
	assert.NotContains(t, out, `<span mty:start="0"`)
}

func TestWriteCompletePageLeavesExistingHTMLAlone(t *testing.T) {
	html := blockTag("html", blockTag("body", txt("x")))
	out := Write(span.NewSource(""), []*ast.Node{html}, Options{CompletePage: true})
	assert.Equal(t, "<html><body>x</body></html>\n", out)
}

func TestWriteCompletePageWrapsBareBody(t *testing.T) {
	body := blockTag("body", txt("x"))
	out := Write(span.NewSource(""), []*ast.Node{body}, Options{CompletePage: true})
	assert.Equal(t, "<html><body>x</body></html>\n", out)
}

func TestWriteCompletePageSynthesizesHeadAndBody(t *testing.T) {
	title := blockTag("title", txt("T"))
	p := blockTag("p", txt("hi"))
	out := Write(span.NewSource(""), []*ast.Node{title, p}, Options{CompletePage: true})
	assert.Equal(t, "<html><head><title>T</title></head><body><p>hi</p></body></html>\n", out)
}

func TestWriteCompletePageFoldsStraySiblingsIntoBody(t *testing.T) {
	body := blockTag("body", txt("x"))
	stray := blockTag("p", txt("y"))
	out := Write(span.NewSource(""), []*ast.Node{body, stray}, Options{CompletePage: true})
	assert.Equal(t, "<html><body>x<p>y</p></body></html>\n", out)
}

func TestWritePreChildPreservesWhitespace(t *testing.T) {
	code := el("code", ast.FormInline, ast.NewText(span.Span{}, "a\n  b", ast.TextFlags{Verbatim: true}))
	pre := blockTag("pre", code)
	out := Write(span.NewSource(""), []*ast.Node{pre}, Options{})
	assert.Equal(t, "<pre><code>a\n  b</code></pre>\n", out)
}

func TestPhrasingOnlySetCoversCommonInlineContainers(t *testing.T) {
	require.True(t, phrasingOnly["p"])
	require.True(t, phrasingOnly["span"])
	require.False(t, phrasingOnly["div"])
}
