package logging

// Structured field keys.
const (
	// Common fields.
	FieldError      = "error"
	FieldPath       = "path"
	FieldPaths      = "paths"
	FieldFiles      = "files"
	FieldWorkingDir = "working_dir"
	FieldDuration   = "duration"

	// Configuration fields.
	FieldLineLength = "line_length"
	FieldMacroNames = "macro_names"
	FieldCheck      = "check"
	FieldJobs       = "jobs"
	FieldConfig     = "config"

	// Template fields.
	FieldMacro    = "macro"
	FieldLine     = "line"
	FieldPosition = "position" // "line:column"
	FieldReason   = "reason"

	// Statistics fields.
	FieldFilesDiscovered = "files_discovered"
	FieldFilesChanged    = "files_changed"
	FieldFilesErrored    = "files_errored"
	FieldInvocations     = "invocations"
	FieldFailures        = "failures"

	// Version fields.
	FieldVersion = "version"
	FieldCommit  = "commit"
	FieldBuilt   = "built"
)
