package versionchain

import (
	"errors"
	"fmt"
	"strings"

	"github.com/reoring/versionchain/i18n"
)

// Issue codes (exported consts for IDE completion and type safety by convention)
const (
	CodeInvalidType  = "invalid_type"
	CodeRequired     = "required"
	CodeUnknownKey   = "unknown_key"
	CodeDuplicateKey = "duplicate_key"
	CodeParseError   = "parse_error"
	CodeValidation   = "validation"
	CodeTruncated    = "truncated"
	// Chain level categories
	CodeNoVersionMatched = "no_version_matched"
	CodeConversionFailed = "conversion_failed"
)

// Issue represents a single decode problem reported by a format decoder.
type Issue struct {
	Path    string // JSON Pointer (for example: /person/name).
	Code    string // One of the codes listed above.
	Message string
	Cause   error // Optional: underlying error.
}

// Issues is a collection of decode problems that implements error.
type Issues []Issue

// Error summarizes the first few issues.
func (iss Issues) Error() string {
	if len(iss) == 0 {
		return ""
	}
	const maxShown = 3
	b := &strings.Builder{}
	n := len(iss)
	lim := n
	if lim > maxShown {
		lim = maxShown
	}
	for i := 0; i < lim; i++ {
		if i > 0 {
			b.WriteString("; ")
		}
		it := iss[i]
		// e.g. unknown_key at /title
		fmt.Fprintf(b, "%s at %s", it.Code, it.Path)
		if it.Message != "" {
			fmt.Fprintf(b, " (%s)", it.Message)
		}
	}
	if n > lim {
		fmt.Fprintf(b, "; ... (total %d)", n)
	}
	return b.String()
}

// AppendIssues appends issues to the destination, initializing the slice when
// needed.
func AppendIssues(dst Issues, more ...Issue) Issues {
	if dst == nil {
		dst = Issues{}
	}
	dst = append(dst, more...)
	return dst
}

// AsIssues extracts Issues from an error using errors.As internally.
func AsIssues(err error) (Issues, bool) {
	if err == nil {
		return nil, false
	}
	var iss Issues
	if errors.As(err, &iss) {
		return iss, true
	}
	return nil, false
}

// ErrorKind is the category of a MigrationError.
type ErrorKind int

const (
	// KindNoVersionMatched means no chain member could decode the payload.
	KindNoVersionMatched ErrorKind = iota + 1
	// KindConversionFailed means a fallible step rejected the value.
	KindConversionFailed
)

// Code returns the issue code of the category.
func (k ErrorKind) Code() string {
	switch k {
	case KindNoVersionMatched:
		return CodeNoVersionMatched
	case KindConversionFailed:
		return CodeConversionFailed
	default:
		return "unknown"
	}
}

func (k ErrorKind) String() string { return k.Code() }

// Sentinels for errors.Is checks against a MigrationError category.
var (
	ErrNoVersionMatched = errors.New("versionchain: no version matched")
	ErrConversionFailed = errors.New("versionchain: conversion failed")
)

// AttemptError records one failed decode attempt during resolution.
type AttemptError struct {
	Index   int
	Version string
	Err     error
}

// MigrationError is the single error surface of Migrate and TryMigrate.
//
// For KindNoVersionMatched, Cause is the decode failure of the oldest version
// and Attempts lists every failed attempt, newest first. For
// KindConversionFailed, Step is the index of the step's source version, From
// and To name the pair and Cause is the step error after its ErrorMapper.
type MigrationError struct {
	Kind     ErrorKind
	Step     int
	From     string
	To       string
	Cause    error
	Attempts []AttemptError
}

func (e *MigrationError) Error() string {
	b := &strings.Builder{}
	b.WriteString(i18n.T(e.Kind.Code(), nil))
	switch e.Kind {
	case KindNoVersionMatched:
		fmt.Fprintf(b, " (tried %d versions)", len(e.Attempts))
		if e.From != "" {
			fmt.Fprintf(b, ", oldest %q", e.From)
		}
	case KindConversionFailed:
		fmt.Fprintf(b, " at step %d (%s -> %s)", e.Step, e.From, e.To)
	}
	if e.Cause != nil {
		b.WriteString(": ")
		b.WriteString(e.Cause.Error())
	}
	return b.String()
}

// Unwrap exposes the embedded decode or step error.
func (e *MigrationError) Unwrap() error { return e.Cause }

// Is matches the category sentinels and structurally equal MigrationErrors.
func (e *MigrationError) Is(target error) bool {
	switch target {
	case ErrNoVersionMatched:
		return e.Kind == KindNoVersionMatched
	case ErrConversionFailed:
		return e.Kind == KindConversionFailed
	}
	if t, ok := target.(*MigrationError); ok {
		return e.Equal(t)
	}
	return false
}

// Equal reports structural equality: same category, same step and version
// names, and causes rendering the same message. Attempts are not compared.
func (e *MigrationError) Equal(o *MigrationError) bool {
	if e == nil || o == nil {
		return e == o
	}
	if e.Kind != o.Kind || e.Step != o.Step || e.From != o.From || e.To != o.To {
		return false
	}
	if (e.Cause == nil) != (o.Cause == nil) {
		return false
	}
	return e.Cause == nil || e.Cause.Error() == o.Cause.Error()
}

// AsMigrationError extracts a MigrationError using errors.As internally.
func AsMigrationError(err error) (*MigrationError, bool) {
	if err == nil {
		return nil, false
	}
	var me *MigrationError
	if errors.As(err, &me) {
		return me, true
	}
	return nil, false
}

// ConstructionError reports an invalid chain definition. It is only ever
// returned by Build, never while migrating.
type ConstructionError struct {
	Index   int
	Version string
	Reason  string
}

func (e *ConstructionError) Error() string {
	if e.Version == "" {
		return fmt.Sprintf("versionchain: invalid chain at index %d: %s", e.Index, e.Reason)
	}
	return fmt.Sprintf("versionchain: invalid chain at version %q (index %d): %s", e.Version, e.Index, e.Reason)
}
