package lexer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDecodeEscapeSimple(t *testing.T) {
	cases := map[string]string{
		`\n`: "\n",
		`\r`: "\r",
		`\t`: "\t",
		`\\`: "\\",
		`\ `: " ",
		`\<`: "<",
		`\>`: ">",
		`\{`: "{",
		`\}`: "}",
		`\[`: "[",
		`\]`: "]",
		`\'`: "'",
		`\"`: `"`,
	}
	for input, want := range cases {
		res := DecodeEscape(input, 0)
		assert.False(t, res.Err, "input %q", input)
		assert.Equal(t, want, res.Text, "input %q", input)
		assert.Equal(t, len(input), res.Len, "input %q", input)
	}
}

func TestDecodeEscapeHex(t *testing.T) {
	res := DecodeEscape(`\x41`, 0)
	assert.False(t, res.Err)
	assert.Equal(t, "A", res.Text)
	assert.Equal(t, 4, res.Len)

	// Values above 0x7f are rejected; the sequence is kept literal.
	res = DecodeEscape(`\xFF`, 0)
	assert.True(t, res.Err)
	assert.Equal(t, `\xFF`, res.Text)
}

func TestDecodeEscapeUnicode(t *testing.T) {
	res := DecodeEscape(`\u{1F30E}`, 0)
	assert.False(t, res.Err)
	assert.Equal(t, "\U0001F30E", res.Text)
	assert.Equal(t, len(`\u{1F30E}`), res.Len)

	res = DecodeEscape(`\u{41}`, 0)
	assert.False(t, res.Err)
	assert.Equal(t, "A", res.Text)
}

func TestDecodeEscapeUnicodeMalformed(t *testing.T) {
	res := DecodeEscape(`\u41`, 0) // missing braces
	assert.True(t, res.Err)

	res = DecodeEscape(`\u{}`, 0) // empty digits
	assert.True(t, res.Err)

	res = DecodeEscape(`\u{GG}`, 0) // non-hex digits
	assert.True(t, res.Err)
}

func TestDecodeEscapeUnknownKeptLiteral(t *testing.T) {
	res := DecodeEscape(`\q`, 0)
	assert.True(t, res.Err)
	assert.Equal(t, `\q`, res.Text)
	assert.Equal(t, 2, res.Len)
}

func TestDecodeEscapeAtOffset(t *testing.T) {
	s := "abc\\nxyz"
	res := DecodeEscape(s, 3)
	assert.False(t, res.Err)
	assert.Equal(t, "\n", res.Text)
	assert.Equal(t, 2, res.Len)
}

func TestDecodeEscapeTruncated(t *testing.T) {
	res := DecodeEscape(`\`, 0)
	assert.True(t, res.Err)
	assert.Equal(t, `\`, res.Text)
}
