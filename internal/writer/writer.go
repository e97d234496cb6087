// Package writer renders a resolved tree to HTML or XHTML text,
// handling void elements, attribute/text escaping, pretty-printing,
// complete-page wrapping, and metadata-attribute injection.
package writer

import (
	"fmt"
	"strings"

	"github.com/youngspe/mintyml/internal/ast"
	"github.com/youngspe/mintyml/internal/infer"
	"github.com/youngspe/mintyml/internal/langdetect"
	"github.com/youngspe/mintyml/internal/logging"
	"github.com/youngspe/mintyml/internal/span"
	"github.com/yuin/goldmark/util"
)

// metadataNamespace is the xmlns value the root element carries when
// metadata is enabled.
const metadataNamespace = "tag:youngspe.github.io,2024:mintyml/metadata"

// phrasingOnly is the set of tags whose children render on a single
// line even when pretty-printing is on, unless a child is itself a
// block-level element.
var phrasingOnly = map[string]bool{
	"strong": true, "em": true, "u": true, "s": true, "q": true, "code": true,
	"span": true, "a": true,
	"p": true, "h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
	"li": true, "dt": true, "dd": true, "th": true, "td": true,
	"summary": true, "legend": true, "caption": true, "figcaption": true,
}

var headContentTags = map[string]bool{
	"title": true, "base": true, "link": true, "meta": true, "style": true, "script": true,
}

// Options configures rendering. Zero value is HTML output, no
// indentation, no metadata.
type Options struct {
	XML              bool
	Indent           *int
	CompletePage     bool
	Metadata         bool
	MetadataElements bool
	// DetectLanguage enables go-enry language detection on fenced code
	// blocks that carry no explicit class, emitting data-language.
	DetectLanguage bool
	// Lang, when set, is applied to the top-level <html> element (found
	// or synthesized by CompletePage) as its lang attribute, unless one
	// is already present.
	Lang *string
}

// Write renders roots to HTML/XHTML text.
func Write(src *span.Source, roots []*ast.Node, opts Options) string {
	if opts.MetadataElements {
		opts.Metadata = true
	}
	logging.Default().Debug("writer mode selected",
		"xml", opts.XML, "completePage", opts.CompletePage, "pretty", opts.Indent != nil)
	if opts.CompletePage {
		roots = wrapCompletePage(roots)
	}
	w := &writer{src: src, opts: opts}
	for i, n := range roots {
		w.writeNode(n, 0, i == 0)
	}
	w.buf.WriteByte('\n')
	return w.buf.String()
}

type writer struct {
	src  *span.Source
	opts Options
	buf  strings.Builder
}

func (w *writer) indentStr(depth int) string {
	if w.opts.Indent == nil {
		return ""
	}
	return strings.Repeat(" ", depth*(*w.opts.Indent))
}

func (w *writer) newlineIndent(depth int) {
	if w.opts.Indent != nil {
		w.buf.WriteByte('\n')
		w.buf.WriteString(w.indentStr(depth))
	}
}

func (w *writer) writeNode(n *ast.Node, depth int, isRoot bool) {
	switch n.Kind {
	case ast.KindElement:
		w.writeElement(n, depth, isRoot)
	case ast.KindText:
		w.writeText(n, depth)
	case ast.KindComment:
		w.writeComment(n, depth)
	case ast.KindInterpolation:
		w.writeInterpolation(n, depth)
	case ast.KindParagraph:
		for _, c := range n.Children {
			w.writeNode(c, depth, false)
		}
	}
}

func (w *writer) writeElement(n *ast.Node, depth int, isRoot bool) {
	tag := n.Selector.Tag
	if tag == "" {
		tag = "div"
	}
	void := infer.IsVoidElement(tag)
	w.prepareElementAttrs(n, tag, isRoot)

	w.buf.WriteByte('<')
	w.buf.WriteString(tag)
	w.writeAttrs(n, isRoot)
	if void {
		if w.opts.XML {
			w.buf.WriteString("/>")
		} else {
			w.buf.WriteByte('>')
		}
		return
	}
	w.buf.WriteByte('>')

	if len(n.Children) == 0 {
		w.buf.WriteString("</")
		w.buf.WriteString(tag)
		w.buf.WriteByte('>')
		return
	}

	if tag == "pre" {
		w.writePreChildren(n)
		w.buf.WriteString("</")
		w.buf.WriteString(tag)
		w.buf.WriteByte('>')
		return
	}

	inline := (phrasingOnly[tag] || n.Form == ast.FormInline) && !hasBlockChild(n.Children)
	if inline {
		for _, c := range n.Children {
			w.writeNode(c, depth, false)
		}
	} else {
		for _, c := range n.Children {
			w.newlineIndent(depth + 1)
			w.writeNode(c, depth+1, false)
		}
		w.newlineIndent(depth)
	}
	w.buf.WriteString("</")
	w.buf.WriteString(tag)
	w.buf.WriteByte('>')
}

// writePreChildren emits a <pre> element's content with original
// whitespace preserved -- no indentation is injected around children.
func (w *writer) writePreChildren(n *ast.Node) {
	for _, c := range n.Children {
		if c.Kind == ast.KindText {
			w.buf.WriteString(escapeText(c.TextFlags, c.Text, w.opts.XML))
			continue
		}
		w.writeNode(c, 0, false)
	}
}

// hasBlockChild reports whether any child forces its parent out of
// inline rendering. A FormInline child (an inline element or a
// formatting shorthand, even one overridden to an arbitrary tag via
// WithSpecialTag) is always phrasing content regardless of its
// resolved tag name.
func hasBlockChild(children []*ast.Node) bool {
	for _, c := range children {
		if c.Kind != ast.KindElement || c.Form == ast.FormInline {
			continue
		}
		if !phrasingOnly[c.Selector.Tag] {
			return true
		}
	}
	return false
}

// prepareElementAttrs injects the small set of attributes the writer
// computes rather than copies from the parsed selector: a detected
// data-language on bare fenced code blocks, and a root lang attribute
// on a top-level <html>.
func (w *writer) prepareElementAttrs(n *ast.Node, tag string, isRoot bool) {
	if tag == "pre" && w.opts.DetectLanguage && !hasAttr(n.Selector, "class") && !hasAttr(n.Selector, "data-language") {
		if content := preTextContent(n); content != "" {
			if lang := langdetect.Detect([]byte(content)); lang != "" {
				n.Selector.Attrs = append(n.Selector.Attrs, ast.Attr{Name: "data-language", Value: &lang})
			}
		}
	}
	if isRoot && tag == "html" && w.opts.Lang != nil && !hasAttr(n.Selector, "lang") {
		lang := *w.opts.Lang
		n.Selector.Attrs = append(n.Selector.Attrs, ast.Attr{Name: "lang", Value: &lang})
	}
}

func hasAttr(sel ast.Selector, name string) bool {
	for _, a := range sel.Attrs {
		if a.Name == name {
			return true
		}
	}
	return false
}

// preTextContent concatenates the text content of a <pre> element's
// descendants, used only to feed the language detector.
func preTextContent(n *ast.Node) string {
	var b strings.Builder
	var walk func(*ast.Node)
	walk = func(c *ast.Node) {
		if c.Kind == ast.KindText {
			b.WriteString(c.Text)
			return
		}
		for _, gc := range c.Children {
			walk(gc)
		}
	}
	for _, c := range n.Children {
		walk(c)
	}
	return b.String()
}

func (w *writer) writeAttrs(n *ast.Node, isRoot bool) {
	sel := n.Selector
	if sel.ID != "" {
		w.writeOneAttr("id", &sel.ID)
	}
	if len(sel.Classes) > 0 {
		classes := strings.Join(sel.Classes, " ")
		w.writeOneAttr("class", &classes)
	}
	for _, a := range sel.Attrs {
		w.writeOneAttr(a.Name, a.Value)
	}
	if w.opts.Metadata {
		w.writeMetadataAttrs(n, isRoot)
	}
}

func (w *writer) writeOneAttr(name string, value *string) {
	w.buf.WriteByte(' ')
	w.buf.WriteString(name)
	if value == nil {
		if w.opts.XML {
			w.buf.WriteString(`="`)
			w.buf.WriteString(escapeAttr(name))
			w.buf.WriteByte('"')
		}
		return
	}
	w.buf.WriteString(`="`)
	w.buf.WriteString(escapeAttr(*value))
	w.buf.WriteByte('"')
}

func (w *writer) writeMetadataAttrs(n *ast.Node, isRoot bool) {
	if isRoot {
		w.writeOneAttr("xmlns:mty", strPtr(metadataNamespace))
	}
	w.writeOneAttr("mty:start", strPtr(fmt.Sprint(int(n.Span.Start))))
	w.writeOneAttr("mty:end", strPtr(fmt.Sprint(int(n.Span.End))))
	if n.ContentSpan != (span.Span{}) {
		w.writeOneAttr("mty:content-start", strPtr(fmt.Sprint(int(n.ContentSpan.Start))))
		w.writeOneAttr("mty:content-end", strPtr(fmt.Sprint(int(n.ContentSpan.End))))
	}
}

func strPtr(s string) *string { return &s }

func (w *writer) writeText(n *ast.Node, depth int) {
	if !w.opts.MetadataElements {
		w.buf.WriteString(escapeText(n.TextFlags, n.Text, w.opts.XML))
		return
	}
	w.buf.WriteString("<mty:text")
	w.writeBoolAttr("mty:verbatim", n.TextFlags.Verbatim)
	w.writeBoolAttr("mty:raw", n.TextFlags.Raw)
	w.writeBoolAttr("mty:multiline", n.TextFlags.Multiline)
	if w.opts.Metadata {
		w.writeOneAttr("mty:start", strPtr(fmt.Sprint(int(n.Span.Start))))
		w.writeOneAttr("mty:end", strPtr(fmt.Sprint(int(n.Span.End))))
	}
	w.buf.WriteByte('>')
	w.buf.WriteString(escapeText(n.TextFlags, n.Text, w.opts.XML))
	w.buf.WriteString("</mty:text>")
}

func (w *writer) writeBoolAttr(name string, set bool) {
	if !set {
		return
	}
	w.buf.WriteByte(' ')
	w.buf.WriteString(name)
	if w.opts.XML {
		w.buf.WriteString(`="`)
		w.buf.WriteString(name)
		w.buf.WriteByte('"')
	}
}

func (w *writer) writeComment(n *ast.Node, depth int) {
	inner := w.src.Slice(n.InnerSpan)
	if !w.opts.MetadataElements {
		w.buf.WriteString("<!--")
		w.buf.WriteString(strings.ReplaceAll(inner, "--", "- -"))
		w.buf.WriteString("-->")
		return
	}
	w.buf.WriteString("<mty:comment")
	if w.opts.Metadata {
		w.writeOneAttr("mty:start", strPtr(fmt.Sprint(int(n.Span.Start))))
		w.writeOneAttr("mty:end", strPtr(fmt.Sprint(int(n.Span.End))))
	}
	w.buf.WriteByte('>')
	w.buf.WriteString(escapeTextPlain(inner))
	w.buf.WriteString("</mty:comment>")
}

func (w *writer) writeInterpolation(n *ast.Node, depth int) {
	raw := w.src.Slice(n.Span)
	flags := ast.TextFlags{Raw: true}
	if !w.opts.MetadataElements {
		w.buf.WriteString(escapeText(flags, raw, w.opts.XML))
		return
	}
	w.buf.WriteString("<mty:text")
	w.writeBoolAttr("mty:raw", true)
	if w.opts.Metadata {
		w.writeOneAttr("mty:start", strPtr(fmt.Sprint(int(n.Span.Start))))
		w.writeOneAttr("mty:end", strPtr(fmt.Sprint(int(n.Span.End))))
	}
	w.buf.WriteByte('>')
	w.buf.WriteString(escapeText(flags, raw, w.opts.XML))
	w.buf.WriteString("</mty:text>")
}

// escapeText applies the writer's text-escaping rule: Raw text passes
// through untouched in HTML mode (XML has no unescaped-content
// exception, so it is escaped there like everything else); all other
// text is HTML-escaped.
func escapeText(flags ast.TextFlags, text string, xml bool) string {
	if flags.Raw && !xml {
		return text
	}
	return escapeTextPlain(text)
}

func escapeTextPlain(text string) string {
	return string(util.EscapeHTML([]byte(text)))
}

func escapeAttr(value string) string {
	return string(util.EscapeHTML([]byte(value)))
}

// wrapCompletePage applies the complete-page rules: leave an existing
// top-level <html> alone, wrap an existing top-level <body> in <html>,
// or else partition top-level children into head/body content and
// synthesize both.
func wrapCompletePage(roots []*ast.Node) []*ast.Node {
	for _, n := range roots {
		if n.Kind == ast.KindElement && n.Selector.Tag == "html" {
			return roots
		}
	}
	for i, n := range roots {
		if n.Kind == ast.KindElement && n.Selector.Tag == "body" {
			html := &ast.Node{
				Kind:     ast.KindElement,
				Span:     n.Span,
				Form:     ast.FormBlock,
				Selector: ast.Selector{Tag: "html", HasTag: true},
				Children: []*ast.Node{n},
			}
			out := append([]*ast.Node{}, roots[:i]...)
			out = append(out, html)
			out = append(out, roots[i+1:]...)
			return dropNonHTMLSiblings(out, html)
		}
	}

	var head, body []*ast.Node
	for _, n := range roots {
		if n.Kind == ast.KindElement && headContentTags[n.Selector.Tag] {
			head = append(head, n)
		} else {
			body = append(body, n)
		}
	}
	headEl := &ast.Node{Kind: ast.KindElement, Form: ast.FormBlock, Selector: ast.Selector{Tag: "head", HasTag: true}, Children: head}
	bodyEl := &ast.Node{Kind: ast.KindElement, Form: ast.FormBlock, Selector: ast.Selector{Tag: "body", HasTag: true}, Children: body}
	htmlEl := &ast.Node{Kind: ast.KindElement, Form: ast.FormBlock, Selector: ast.Selector{Tag: "html", HasTag: true}, Children: []*ast.Node{headEl, bodyEl}}
	return []*ast.Node{htmlEl}
}

// dropNonHTMLSiblings keeps just the synthesized html element: once a
// top-level body has been wrapped, any other top-level siblings have
// nowhere well-formed to go, so they are folded into the body instead
// of left dangling outside <html>.
func dropNonHTMLSiblings(all []*ast.Node, html *ast.Node) []*ast.Node {
	var bodyEl *ast.Node
	for _, c := range html.Children {
		if c.Selector.Tag == "body" {
			bodyEl = c
			break
		}
	}
	var out []*ast.Node
	for _, n := range all {
		if n == html {
			out = append(out, n)
			continue
		}
		if bodyEl != nil {
			bodyEl.Children = append(bodyEl.Children, n)
		}
	}
	return out
}
