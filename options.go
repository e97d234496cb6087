package mintyml

import "github.com/youngspe/mintyml/internal/ast"

// Option configures a conversion, following the functional-options
// shape used throughout the compiler ecosystem this module keeps
// company with (goldmark.New(opts...) is the direct model).
type Option func(*Options)

// Options holds every knob a conversion accepts. Use New with Option
// values rather than constructing this directly, so future fields
// don't break callers.
type Options struct {
	XML              bool
	Indent           *int
	CompletePage     bool
	SpecialTags      map[string]*string
	Metadata         bool
	MetadataElements bool
	FailFast         bool
	DetectLanguage   bool
	Lang             *string
}

// New builds an Options value from a list of Option values, starting
// from the documented defaults (HTML output, no indentation, no
// metadata, aggregate rather than fail-fast errors).
func New(opts ...Option) Options {
	o := Options{}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// WithXML switches output to XHTML5: void elements self-close and raw
// text is escaped rather than passed through.
func WithXML(xml bool) Option {
	return func(o *Options) { o.XML = xml }
}

// WithIndent turns on pretty-printing with the given number of spaces
// per nesting level.
func WithIndent(spaces int) Option {
	return func(o *Options) { o.Indent = &spaces }
}

// WithCompletePage wraps the output in a full <html><head>…<body>…
// document. An existing top-level html element is left as is; an
// existing top-level body element is wrapped in html without a head.
func WithCompletePage(complete bool) Option {
	return func(o *Options) { o.CompletePage = complete }
}

// WithSpecialTag overrides the tag used for one inline-formatting or
// code-fence special kind (one of "strong", "emphasis", "underline",
// "strike", "quote", "code", "codeBlockContainer"). A nil tag means
// unwrap: drop the wrapper and emit its content in place.
func WithSpecialTag(kind string, tag *string) Option {
	return func(o *Options) {
		if o.SpecialTags == nil {
			o.SpecialTags = map[string]*string{}
		}
		o.SpecialTags[kind] = tag
	}
}

// WithMetadata emits mty:* source-span attributes on every element.
func WithMetadata(metadata bool) Option {
	return func(o *Options) { o.Metadata = metadata }
}

// WithMetadataElements emits mty:text/mty:comment wrapper elements for
// non-element nodes; implies WithMetadata.
func WithMetadataElements(elements bool) Option {
	return func(o *Options) {
		o.MetadataElements = elements
		if elements {
			o.Metadata = true
		}
	}
}

// WithFailFast stops at the first parse error instead of aggregating
// every recoverable one.
func WithFailFast(failFast bool) Option {
	return func(o *Options) { o.FailFast = failFast }
}

// WithDetectLanguage turns on go-enry language detection for fenced
// code blocks that carry no explicit class, emitting data-language.
func WithDetectLanguage(detect bool) Option {
	return func(o *Options) { o.DetectLanguage = detect }
}

// WithLang sets the document language, applied to a top-level <html>
// element when CompletePage produces or finds one.
func WithLang(lang string) Option {
	return func(o *Options) { o.Lang = &lang }
}

// specialKindNames maps the public string keys accepted by
// WithSpecialTag to the internal ast.Special enum.
var specialKindNames = map[string]ast.Special{
	"strong":             ast.SpecialStrong,
	"emphasis":           ast.SpecialEmphasis,
	"underline":          ast.SpecialUnderline,
	"strike":             ast.SpecialStrike,
	"quote":              ast.SpecialQuote,
	"code":               ast.SpecialCode,
	"codeBlockContainer": ast.SpecialCodeBlockContainer,
}
