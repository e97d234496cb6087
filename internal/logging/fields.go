// Package logging provides a structured logging wrapper around charmbracelet/log.
package logging

// Field name constants for structured logging.
// Using constants prevents typos and enables IDE autocomplete.
const (
	// Common fields.
	FieldError      = "error"
	FieldPath       = "path"
	FieldPaths      = "paths"
	FieldFiles      = "files"
	FieldInput      = "input"
	FieldOutput     = "output"
	FieldWorkingDir = "working_dir"

	// Configuration fields.
	FieldXML              = "xml"
	FieldIndent           = "indent"
	FieldCompletePage     = "complete_page"
	FieldFailFast         = "fail_fast"
	FieldMetadata         = "metadata"
	FieldMetadataElements = "metadata_elements"
	FieldDetectLanguage   = "detect_language"
	FieldJobs             = "jobs"

	// Statistics fields.
	FieldFilesDiscovered = "files_discovered"
	FieldFilesProcessed  = "files_processed"
	FieldFilesFailed     = "files_failed"
	FieldSyntaxErrors    = "syntax_errors"

	// Version fields.
	FieldVersion = "version"
	FieldCommit  = "commit"
	FieldBuilt   = "built"
)
