package mintyml

import (
	"fmt"
	"strings"

	"github.com/youngspe/mintyml/internal/errs"
)

// SyntaxError is one recoverable diagnostic from a conversion: either
// a parse failure at a position (with the expected-set that would have
// matched) or an unrecognized escape sequence.
type SyntaxError struct {
	Message  string
	Actual   string
	Start    int
	End      int
	Expected []string
}

func (e SyntaxError) Error() string {
	if len(e.Expected) == 0 {
		return e.Message
	}
	return fmt.Sprintf("%s (expected %s)", e.Message, strings.Join(e.Expected, ", "))
}

// Error is returned by Convert when one or more recoverable errors
// were encountered; ConvertForgiving returns the same shape alongside
// any partial output.
type Error struct {
	Message      string
	SyntaxErrors []SyntaxError
}

func (e *Error) Error() string { return e.Message }

func newError(e *errs.Errors) *Error {
	if e == nil || e.IsEmpty() {
		return nil
	}
	items := e.Items()
	syntaxErrors := make([]SyntaxError, len(items))
	messages := make([]string, len(items))
	for i, se := range items {
		syntaxErrors[i] = fromSyntaxError(se)
		messages[i] = se.Error()
	}
	return &Error{
		Message:      strings.Join(messages, "; "),
		SyntaxErrors: syntaxErrors,
	}
}

func fromSyntaxError(se *errs.SyntaxError) SyntaxError {
	return SyntaxError{
		Message:  se.Message,
		Actual:   se.Actual,
		Start:    int(se.Span.Start),
		End:      int(se.Span.End),
		Expected: se.Expected,
	}
}
