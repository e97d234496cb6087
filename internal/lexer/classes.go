// Package lexer provides the character-class predicates, escape-sequence
// decoder, and balanced-delimiter scanner the parser builds on. It holds
// no tree-shaped state of its own; every function here is a pure,
// position-in-position-out scan over a byte slice.
package lexer

// IsNameStart reports whether b can start a selector tag/id/class/attr
// name: [A-Za-z]. The wildcard tag '*' is not accepted here; the
// selector parser checks for it separately.
func IsNameStart(b byte) bool {
	return (b >= 'A' && b <= 'Z') || (b >= 'a' && b <= 'z')
}

// IsNameChar reports whether b can continue a selector name:
// [A-Za-z0-9-].
func IsNameChar(b byte) bool {
	return IsNameStart(b) || (b >= '0' && b <= '9') || b == '-'
}

// IsDigit reports whether b is an ASCII decimal digit.
func IsDigit(b byte) bool {
	return b >= '0' && b <= '9'
}

// IsHexDigit reports whether b is an ASCII hex digit.
func IsHexDigit(b byte) bool {
	return IsDigit(b) || (b >= 'a' && b <= 'f') || (b >= 'A' && b <= 'F')
}

// IsInlineSpace reports whether b is a space or tab -- whitespace that
// does not end a line.
func IsInlineSpace(b byte) bool {
	return b == ' ' || b == '\t'
}

// IsSpace reports whether b is any ASCII whitespace, including line
// breaks.
func IsSpace(b byte) bool {
	switch b {
	case ' ', '\t', '\n', '\r', '\f', '\v':
		return true
	default:
		return false
	}
}

// IsLineBreak reports whether b starts a line break.
func IsLineBreak(b byte) bool {
	return b == '\n' || b == '\r'
}
