package errs

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/youngspe/mintyml/internal/span"
)

func TestErrorsAggregateMode(t *testing.T) {
	e := &Errors{}
	stopped := e.Run(func() {
		e.Add(NewParseFailed(span.At(0), "x", "y"))
		e.Add(NewInvalidEscape(span.At(1), `\q`))
	})
	assert.False(t, stopped)
	assert.Equal(t, 2, e.Count())
	assert.False(t, e.IsEmpty())
}

func TestErrorsFailFastStopsAtFirst(t *testing.T) {
	e := &Errors{FailFast: true}
	stopped := e.Run(func() {
		e.Add(NewParseFailed(span.At(0), "x"))
		e.Add(NewParseFailed(span.At(1), "y")) // never reached
	})
	assert.True(t, stopped)
	require.Equal(t, 1, e.Count())
}

func TestErrorsTruncateTo(t *testing.T) {
	e := &Errors{}
	e.Run(func() {
		e.Add(NewParseFailed(span.At(0), "a"))
		e.Add(NewParseFailed(span.At(1), "b"))
		e.Add(NewParseFailed(span.At(2), "c"))
	})
	mark := 1
	e.TruncateTo(mark)
	assert.Equal(t, 1, e.Count())
	assert.Equal(t, "a", e.Items()[0].Actual)
}

func TestSyntaxErrorMessageIncludesExpectedAndDelimiter(t *testing.T) {
	pf := NewParseFailed(span.At(0), "q", "selector", "comment")
	assert.Contains(t, pf.Error(), "expected selector")

	uc := NewUnclosed(span.At(0), "<!")
	assert.Contains(t, uc.Error(), `opened with "<!"`)
}

func TestErrorsFirstAndToConvertError(t *testing.T) {
	e := &Errors{}
	assert.Nil(t, e.First())
	assert.Nil(t, e.ToConvertError())

	e.Add(NewInvalidEscape(span.At(3), `\q`))
	require.NotNil(t, e.First())
	assert.Equal(t, KindInvalidEscape, e.First().Kind)

	convErr := e.ToConvertError()
	require.NotNil(t, convErr)
	ce, ok := convErr.(*ConvertError)
	require.True(t, ok)
	assert.Len(t, ce.Syntax, 1)
}

func TestConvertErrorMessageFormatsMultiple(t *testing.T) {
	ce := &ConvertError{Syntax: []*SyntaxError{
		NewParseFailed(span.At(0), "a"),
		NewParseFailed(span.At(1), "b"),
	}}
	msg := ce.Error()
	assert.Contains(t, msg, "2 syntax errors")
}

func TestErrorsJoinAggregatesMessages(t *testing.T) {
	e := &Errors{}
	e.Add(NewParseFailed(span.At(0), "a", "tag"))
	e.Add(NewUnclosed(span.At(1), "{"))
	joined := e.Join()
	require.Error(t, joined)
	assert.Contains(t, joined.Error(), "expected tag")
	assert.Contains(t, joined.Error(), `opened with "{"`)
}
