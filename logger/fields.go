package logger

import (
	"go.uber.org/zap"
)

// Standard field names for consistent structured logging across decl2ts.
// Use these constants instead of raw strings to ensure consistency.
const (
	// Identity
	FieldRunID = "run_id"

	// Declarations
	FieldDeclaration = "declaration"
	FieldKind        = "kind"

	// Output
	FieldPath  = "path"
	FieldMode  = "mode"
	FieldBytes = "bytes"

	// Counts
	FieldWritten = "written"
	FieldSkipped = "skipped"
	FieldIssues  = "issues"

	// Timing
	FieldDuration = "duration"

	// Errors
	FieldError = "error"
)

// ChildLogger creates a child logger with additional context.
// Use for sub-operations that need extra context fields.
//
// Example:
//
//	runLog := logger.ChildLogger(p.log, logger.FieldRunID, runID)
func ChildLogger(parent *zap.SugaredLogger, keysAndValues ...interface{}) *zap.SugaredLogger {
	if parent == nil {
		parent = Logger
	}
	return parent.With(keysAndValues...)
}
