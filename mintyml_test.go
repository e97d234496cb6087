package mintyml

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConvertBlockLineNesting(t *testing.T) {
	out, err := Convert("article { h1> Foo }", New(WithIndent(2)))
	require.NoError(t, err)
	assert.Equal(t, "<article>\n  <h1>Foo</h1>\n</article>\n", out)
}

func TestConvertBareLineItemsInList(t *testing.T) {
	out, err := Convert("ul { > </a/>\n > b\n > c }", New(WithIndent(2)))
	require.NoError(t, err)
	assert.Equal(t, "<ul>\n  <li><em>a</em></li>\n  <li>b</li>\n  <li>c</li>\n</ul>\n", out)
}

func TestConvertFormattingShorthandsWithOverriddenTags(t *testing.T) {
	i, b, ins, del := "i", "b", "ins", "del"
	out, err := Convert(`</foo/> <#bar#> <_baz_> <~qux~>`, New(
		WithIndent(2),
		WithSpecialTag("emphasis", &i),
		WithSpecialTag("strong", &b),
		WithSpecialTag("underline", &ins),
		WithSpecialTag("strike", &del),
	))
	require.NoError(t, err)
	assert.Equal(t, "<p><i>foo</i> <b>bar</b> <ins>baz</ins> <del>qux</del></p>\n", out)
}

func TestConvertPlaintextBlockKeepsEscapeLiteral(t *testing.T) {
	out, err := Convert("'''\nHello, \\u{1F30E}\n'''", New(WithIndent(2)))
	require.NoError(t, err)
	assert.Equal(t, `<p>Hello, \u{1F30E}</p>`+"\n", out)
}

func TestConvertPlaintextBlockDecodesEscape(t *testing.T) {
	out, err := Convert(`"""`+"\n"+`Hello, \u{1F30E}`+"\n"+`"""`, New(WithIndent(2)))
	require.NoError(t, err)
	assert.Equal(t, "<p>Hello, \U0001F30E</p>\n", out)
}

func TestConvertNestedCommentBalancesOnInnermostClose(t *testing.T) {
	out, err := Convert("<! outer <! inner !> still outer !>", New(WithIndent(2)))
	require.NoError(t, err)
	// A top-level comment renders invisibly as far as the document body
	// goes: its content surfaces only inside an HTML comment, never as
	// visible markup.
	assert.Equal(t, "<!-- outer <! inner !> still outer -->\n", out)
}

func TestConvertDetailsFixupPromotesFirstParagraphToSummary(t *testing.T) {
	out, err := Convert("details[open] { More info\n\nBody. }", New(WithIndent(2)))
	require.NoError(t, err)
	assert.Equal(t, "<details open>\n  <summary>More info</summary>\n  <p>Body.</p>\n</details>\n", out)
}

func TestConvertVoidElementHTMLHasNoClosingTag(t *testing.T) {
	out, err := Convert("br{}", New())
	require.NoError(t, err)
	assert.Equal(t, "<br>\n", out)
}

func TestConvertVoidElementXMLSelfCloses(t *testing.T) {
	out, err := Convert("br{}", New(WithXML(true)))
	require.NoError(t, err)
	assert.Equal(t, "<br/>\n", out)
}

func TestConvertFailFastStopsAtFirstSyntaxError(t *testing.T) {
	_, err := Convert("<! unterminated", New(WithFailFast(true)))
	require.Error(t, err)
}

func TestConvertForgivingReturnsOutputDespiteSyntaxErrors(t *testing.T) {
	out, err := ConvertForgiving("<! unterminated", New())
	require.Error(t, err)
	assert.NotEmpty(t, out)
}

func TestConvertEscapeFidelityAmpersandCodepoint(t *testing.T) {
	// \x26 is '&'; its HTML-escaped form must appear as a named
	// reference rather than the raw byte.
	out, err := Convert(`p{ a \x26 b }`, New())
	require.NoError(t, err)
	assert.Equal(t, "<p>a &amp; b</p>\n", out)
}

func TestConvertByteRangeInvariantOverSpans(t *testing.T) {
	// Indirect structural check: a well-formed document with several
	// nested construct kinds converts without error at every indent
	// setting, which would panic or corrupt output were any span to
	// fall outside the source's byte range.
	source := `article.main#top[data-x=1] {
  h1> Title
  ul { > a
   > </b/>
  }
}`
	for _, indent := range []*int{nil, intp(0), intp(2), intp(4)} {
		opts := New()
		if indent != nil {
			opts = New(WithIndent(*indent))
		}
		_, err := Convert(source, opts)
		require.NoError(t, err)
	}
}

func intp(n int) *int { return &n }
