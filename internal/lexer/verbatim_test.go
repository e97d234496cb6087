package lexer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScanVerbatimOpen(t *testing.T) {
	open, ok := ScanVerbatimOpen("<[[ x ]]>", 0)
	assert.True(t, ok)
	assert.Equal(t, 0, open.HashCount)
	assert.Equal(t, len("<[["), open.Len)

	open, ok = ScanVerbatimOpen("<[##[ x ]##]>", 0)
	assert.True(t, ok)
	assert.Equal(t, 2, open.HashCount)
	assert.Equal(t, len("<[##["), open.Len)

	_, ok = ScanVerbatimOpen("not verbatim", 0)
	assert.False(t, ok)
}

func TestFindVerbatimCloseBalanced(t *testing.T) {
	s := "]#]> content ]##]> tail"
	// The balanced close for hashCount=2 must skip the first, shorter
	// "]#]>" and match the longer "]##]>" one.
	start, length, ok := FindVerbatimClose(s, 0, 2)
	assert.True(t, ok)
	assert.Equal(t, "]##]>", s[start:start+length])
}

func TestFindVerbatimCloseNoMatch(t *testing.T) {
	_, _, ok := FindVerbatimClose("no closer here", 0, 0)
	assert.False(t, ok)
}

func TestFindVerbatimCloseZeroHash(t *testing.T) {
	s := "x]]> rest"
	start, length, ok := FindVerbatimClose(s, 0, 0)
	assert.True(t, ok)
	assert.Equal(t, 1, start)
	assert.Equal(t, "]]>", s[start:start+length])
}
