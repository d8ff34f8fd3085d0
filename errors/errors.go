// Package errors provides error handling for decl2ts.
//
// This package re-exports github.com/cockroachdb/errors, providing stack
// traces, wrapping with context and user-facing hints.
//
// Usage:
//
//	if err := artifact.Append(text); err != nil {
//	    return errors.Wrap(err, "failed to append module fragment")
//	}
//
//	return errors.WithHint(err, "set output.dir or OUT_DIR to a writable directory")
//
// For full documentation see: https://pkg.go.dev/github.com/cockroachdb/errors
package errors

import (
	crdb "github.com/cockroachdb/errors"
)

// Core error creation and wrapping
var (
	New          = crdb.New
	Newf         = crdb.Newf
	Wrap         = crdb.Wrap
	Wrapf        = crdb.Wrapf
	WithStack    = crdb.WithStack
	WithMessage  = crdb.WithMessage
	WithMessagef = crdb.WithMessagef
	Mark         = crdb.Mark
)

// User-facing messages and details
var (
	WithHint    = crdb.WithHint
	WithHintf   = crdb.WithHintf
	WithDetail  = crdb.WithDetail
	WithDetailf = crdb.WithDetailf
)

// Error inspection
var (
	Is            = crdb.Is
	IsAny         = crdb.IsAny
	As            = crdb.As
	Unwrap        = crdb.Unwrap
	UnwrapAll     = crdb.UnwrapAll
	GetAllHints   = crdb.GetAllHints
	FlattenHints  = crdb.FlattenHints
	CombineErrors = crdb.CombineErrors
)

// Sentinel errors. Wrap or Mark these to add context while keeping errors.Is working.
var (
	// ErrUnsupported marks a type expression or declaration the target cannot express
	ErrUnsupported = New("unsupported")

	// ErrInvalidManifest indicates a declaration manifest could not be decoded
	ErrInvalidManifest = New("invalid manifest")

	// ErrSink indicates the output artifact could not be created, opened or written
	ErrSink = New("output sink failure")

	// ErrOutOfDate indicates the artifact on disk differs from a fresh rendering
	ErrOutOfDate = New("artifact out of date")
)

// IsSinkError checks if an error is or wraps ErrSink
func IsSinkError(err error) bool {
	return err != nil && Is(err, ErrSink)
}

// IsUnsupportedError checks if an error is or wraps ErrUnsupported
func IsUnsupportedError(err error) bool {
	return err != nil && Is(err, ErrUnsupported)
}

// WrapSink marks err as a sink failure and adds context
func WrapSink(err error, context string) error {
	if err == nil {
		return nil
	}
	return Wrap(Mark(err, ErrSink), context)
}

// NewInvalidManifestError creates an invalid-manifest error with a formatted message
func NewInvalidManifestError(format string, args ...interface{}) error {
	return Mark(Newf(format, args...), ErrInvalidManifest)
}
