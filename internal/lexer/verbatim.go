package lexer

import "strings"

// VerbatimOpen describes a matched `<[` `#`* `[` opener.
type VerbatimOpen struct {
	// HashCount is the number of '#' characters between the two '['s.
	HashCount int
	// Len is the number of bytes the opener occupies.
	Len int
}

// ScanVerbatimOpen attempts to match a verbatim-segment opener at s[i]:
// "<[" followed by zero or more '#' followed by "[". Returns ok=false
// if s[i:] does not start with "<[".
func ScanVerbatimOpen(s string, i int) (VerbatimOpen, bool) {
	if !strings.HasPrefix(s[i:], "<[") {
		return VerbatimOpen{}, false
	}
	j := i + 2
	hashes := 0
	for j < len(s) && s[j] == '#' {
		hashes++
		j++
	}
	if j >= len(s) || s[j] != '[' {
		return VerbatimOpen{}, false
	}
	j++
	return VerbatimOpen{HashCount: hashes, Len: j - i}, true
}

// FindVerbatimClose scans s starting at i for the closing delimiter
// matching hashCount: "]" `#`{hashCount} "]>" where the hash
// multiplicity exactly matches the opener. Any "]" `#`* "]>" with a
// different count is not a match and is treated as literal content by
// the caller. Returns the byte offset of the start of the matching
// close and the length of the close delimiter, or ok=false if no
// balancing close exists before the end of s.
func FindVerbatimClose(s string, i, hashCount int) (start, length int, ok bool) {
	for pos := i; pos < len(s); {
		idx := strings.IndexByte(s[pos:], ']')
		if idx < 0 {
			return 0, 0, false
		}
		candidate := pos + idx
		n, closeLen, matched := tryMatchClose(s, candidate, hashCount)
		if matched {
			return candidate, closeLen, true
		}
		_ = n
		pos = candidate + 1
	}
	return 0, 0, false
}

// tryMatchClose checks whether s[at:] is "]" `#`* "]>" and, if so,
// whether its hash count equals want.
func tryMatchClose(s string, at, want int) (hashes, length int, ok bool) {
	if at >= len(s) || s[at] != ']' {
		return 0, 0, false
	}
	j := at + 1
	for j < len(s) && s[j] == '#' {
		hashes++
		j++
	}
	if j+1 >= len(s) || s[j] != ']' || s[j+1] != '>' {
		return 0, 0, false
	}
	if hashes != want {
		return hashes, 0, false
	}
	return hashes, j + 2 - at, true
}
