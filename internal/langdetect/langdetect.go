// Package langdetect wraps go-enry to guess a code block's language
// from its content, for the writer's optional data-language attribute
// on fenced code blocks that did not name a language explicitly.
package langdetect

import (
	enry "github.com/go-enry/go-enry/v2"
)

// Detect returns go-enry's best-guess language name for content, or
// "" if no language could be determined with reasonable confidence.
func Detect(content []byte) string {
	if len(content) == 0 {
		return ""
	}
	lang := enry.GetLanguage("", content)
	if lang == "" || lang == enry.OtherLanguage {
		return ""
	}
	return lang
}
