// Package ast defines the concrete syntax tree the parser produces:
// a small tagged-union Node type, selector records, and the syntactic
// form/context vocabulary the inference engine and writer consume.
//
// Ownership is strict tree ownership -- a Node owns its Children slice
// and nothing else references it. Cross-references (for example, from
// a diagnostic back to the node that produced it) go through spans,
// never pointers, so the tree can be discarded as soon as the writer is
// done with it.
package ast

import "github.com/youngspe/mintyml/internal/span"

// Kind discriminates the Node tagged union.
type Kind uint8

const (
	KindParagraph Kind = iota
	KindElement
	KindText
	KindComment
	KindInterpolation
)

func (k Kind) String() string {
	switch k {
	case KindParagraph:
		return "paragraph"
	case KindElement:
		return "element"
	case KindText:
		return "text"
	case KindComment:
		return "comment"
	case KindInterpolation:
		return "interpolation"
	default:
		return "unknown"
	}
}

// Form is the syntactic shape of an Element, fixed by its delimiters.
type Form uint8

const (
	// FormLine is `selector> node` -- a single following node.
	FormLine Form = iota
	// FormBlock is `selector{ content }`.
	FormBlock
	// FormLineBlock is `selector>{ content }`.
	FormLineBlock
	// FormInline is `<( node )>`.
	FormInline
)

func (f Form) String() string {
	switch f {
	case FormLine:
		return "line"
	case FormBlock:
		return "block"
	case FormLineBlock:
		return "line-block"
	case FormInline:
		return "inline"
	default:
		return "unknown"
	}
}

// Special marks an Element produced by an inline-formatting shorthand
// or a code-fence construct; its final tag name is resolved later by
// the inference engine using the special-tag configuration rather than
// by the context tables.
type Special uint8

const (
	SpecialNone Special = iota
	SpecialStrong
	SpecialEmphasis
	SpecialUnderline
	SpecialStrike
	SpecialQuote
	SpecialCode
	SpecialCodeBlockContainer
)

func (s Special) String() string {
	switch s {
	case SpecialStrong:
		return "strong"
	case SpecialEmphasis:
		return "emphasis"
	case SpecialUnderline:
		return "underline"
	case SpecialStrike:
		return "strike"
	case SpecialQuote:
		return "quote"
	case SpecialCode:
		return "code"
	case SpecialCodeBlockContainer:
		return "codeBlockContainer"
	default:
		return "none"
	}
}

// Attr is one `name` or `name=value` pair from an attribute selector
// bracket. Value is nil for a valueless attribute (`[disabled]`).
type Attr struct {
	Name  string
	Value *string
	Span  span.Span
}

// Selector is the CSS-like prefix binding a tag name, id, classes, and
// attributes to an Element. Tag is empty (or "*") when the element's
// tag must be resolved by the inference engine.
type Selector struct {
	Tag      string
	ID       string
	Classes  []string
	Attrs    []Attr
	Span     span.Span
	HasTag   bool // distinguishes an explicit "*" wildcard from "no selector token at all"
}

// TextFlags records how a text atom's bytes were produced and how the
// writer must treat them. The flags are independent: a single-quoted
// plaintext block is Verbatim and Multiline at once; a double-quoted
// one is Multiline but not Verbatim (its escapes were already decoded).
type TextFlags struct {
	// Verbatim means the segment's escape sequences were never decoded;
	// Text holds the literal source bytes.
	Verbatim bool
	// Raw means the segment must be emitted without HTML/XML text
	// escaping in HTML mode (template interpolations only; XML mode
	// still escapes raw text, since XML syntax has no unescaped-content
	// exception).
	Raw bool
	// Multiline records that the segment came from a ''' / """ / ```
	// fenced block form, for round-trip metadata.
	Multiline bool
}

// Node is the tagged variant every parsed construct lowers to. Only the
// fields relevant to Kind are meaningful; see the Kind constants.
type Node struct {
	Kind Kind
	Span span.Span

	// Element fields.
	Form        Form
	Selector    Selector
	Special     Special
	ContentSpan span.Span
	Children    []*Node
	// FromParagraph marks an Element synthesized from a bare Paragraph
	// node by the inference engine (see infer.elementFromParagraph),
	// distinguishing it from an explicit `tag{ ... }` Block so the
	// details/summary fixup can tell them apart: Form alone can't, since
	// a paragraph-derived element also carries FormBlock.
	FromParagraph bool

	// Text fields.
	Text      string
	TextFlags TextFlags

	// Comment fields.
	InnerSpan span.Span

	// Interpolation fields.
	Open  string
	Close string
}

// NewParagraph creates a Paragraph node; its Children hold only inline
// items (text, inline elements, comments, interpolations) -- enforced
// by the parser, not the type system.
func NewParagraph(sp span.Span, children []*Node) *Node {
	return &Node{Kind: KindParagraph, Span: sp, Children: children}
}

// NewElement creates an Element node prior to inference; Selector.Tag
// may be empty pending context resolution.
func NewElement(form Form, sel Selector, sp, contentSpan span.Span, children []*Node) *Node {
	return &Node{
		Kind:        KindElement,
		Span:        sp,
		Form:        form,
		Selector:    sel,
		ContentSpan: contentSpan,
		Children:    children,
	}
}

// NewSpecialElement creates an Element node for an inline-formatting
// shorthand or code-fence construct.
func NewSpecialElement(form Form, special Special, sp, contentSpan span.Span, children []*Node) *Node {
	return &Node{
		Kind:        KindElement,
		Span:        sp,
		Form:        form,
		Special:     special,
		ContentSpan: contentSpan,
		Children:    children,
	}
}

// NewText creates a TextSegment node.
func NewText(sp span.Span, text string, flags TextFlags) *Node {
	return &Node{Kind: KindText, Span: sp, Text: text, TextFlags: flags}
}

// NewComment creates a Comment node; innerSpan covers the content
// between the outermost `<!` and `!>`, exclusive.
func NewComment(sp, innerSpan span.Span) *Node {
	return &Node{Kind: KindComment, Span: sp, InnerSpan: innerSpan}
}

// NewInterpolation creates an Interpolation passthrough node. Its
// rendered content is recovered from Span via the Source, since the
// node stores no copy of the source text.
func NewInterpolation(sp span.Span, open, close string) *Node {
	return &Node{Kind: KindInterpolation, Span: sp, Open: open, Close: close}
}

// IsElement reports whether n is an Element node.
func (n *Node) IsElement() bool { return n.Kind == KindElement }

// Tag returns the element's resolved (or still-explicit) tag name. It
// is only meaningful once inference has run, or for elements whose
// selector already carried an explicit tag.
func (n *Node) Tag() string { return n.Selector.Tag }
