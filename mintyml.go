// Package mintyml compiles MinTyML source to HTML or XHTML. The two
// entry points, Convert and ConvertForgiving, are pure functions of
// (source, Options): no I/O, no shared state, safe to call from
// multiple goroutines on disjoint sources at once.
package mintyml

import (
	"github.com/youngspe/mintyml/internal/infer"
	"github.com/youngspe/mintyml/internal/parser"
	"github.com/youngspe/mintyml/internal/span"
	"github.com/youngspe/mintyml/internal/writer"
)

// Convert renders source to HTML (or XHTML, with WithXML). It returns
// the first/aggregated error and no output if parsing produced any
// recoverable error, in fail-fast mode or not.
func Convert(source string, opts Options) (string, error) {
	output, convErr := run(source, opts)
	if convErr != nil {
		return "", convErr
	}
	return output, nil
}

// ConvertForgiving always attempts to produce output, even when
// recoverable errors were encountered; Error is non-nil iff at least
// one was.
func ConvertForgiving(source string, opts Options) (output string, err error) {
	return run(source, opts)
}

func run(source string, opts Options) (string, error) {
	src := span.NewSource(source)
	roots, errAcc := parser.Parse(src, opts.FailFast)

	convErr := newError(errAcc)
	if opts.FailFast && convErr != nil {
		return "", convErr
	}

	resolved := infer.Infer(roots, resolveSpecialTags(opts.SpecialTags))

	indent := opts.Indent
	out := writer.Write(src, resolved, writer.Options{
		XML:              opts.XML,
		Indent:           indent,
		CompletePage:     opts.CompletePage,
		Metadata:         opts.Metadata,
		MetadataElements: opts.MetadataElements,
		DetectLanguage:   opts.DetectLanguage,
		Lang:             opts.Lang,
	})

	if convErr != nil {
		return out, convErr
	}
	return out, nil
}

func resolveSpecialTags(overrides map[string]*string) infer.SpecialTags {
	tags := infer.DefaultSpecialTags()
	for name, override := range overrides {
		if kind, ok := specialKindNames[name]; ok {
			tags[kind] = override
		}
	}
	return tags
}
