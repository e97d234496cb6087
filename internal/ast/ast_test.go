package ast

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/youngspe/mintyml/internal/span"
)

func TestNewElementStartsTagless(t *testing.T) {
	n := NewElement(FormBlock, Selector{}, span.Span{}, span.Span{}, nil)
	assert.Equal(t, KindElement, n.Kind)
	assert.False(t, n.Selector.HasTag)
	assert.True(t, n.IsElement())
}

func TestNewSpecialElementCarriesSpecialKind(t *testing.T) {
	child := NewText(span.Span{}, "x", TextFlags{})
	n := NewSpecialElement(FormInline, SpecialStrong, span.Span{}, span.Span{}, []*Node{child})
	assert.Equal(t, SpecialStrong, n.Special)
	assert.False(t, n.Selector.HasTag)
	assert.Same(t, child, n.Children[0])
}

func TestTagReturnsSelectorTag(t *testing.T) {
	n := NewElement(FormLine, Selector{Tag: "li", HasTag: true}, span.Span{}, span.Span{}, nil)
	assert.Equal(t, "li", n.Tag())
}

func TestFormStringers(t *testing.T) {
	cases := map[Form]string{
		FormLine: "line", FormBlock: "block", FormLineBlock: "line-block", FormInline: "inline",
	}
	for form, want := range cases {
		assert.Equal(t, want, form.String())
	}
}

func TestKindStringers(t *testing.T) {
	cases := map[Kind]string{
		KindParagraph: "paragraph", KindElement: "element", KindText: "text",
		KindComment: "comment", KindInterpolation: "interpolation",
	}
	for kind, want := range cases {
		assert.Equal(t, want, kind.String())
	}
}

func TestSpecialStringers(t *testing.T) {
	cases := map[Special]string{
		SpecialNone: "none", SpecialStrong: "strong", SpecialEmphasis: "emphasis",
		SpecialUnderline: "underline", SpecialStrike: "strike", SpecialQuote: "quote",
		SpecialCode: "code", SpecialCodeBlockContainer: "codeBlockContainer",
	}
	for special, want := range cases {
		assert.Equal(t, want, special.String())
	}
}

func TestElementFromParagraphFieldDistinguishesSynthesizedBlocks(t *testing.T) {
	explicit := NewElement(FormBlock, Selector{Tag: "div", HasTag: true}, span.Span{}, span.Span{}, nil)
	assert.False(t, explicit.FromParagraph)
}
