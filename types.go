package versionchain

import "go.uber.org/zap"

// UnknownPolicy controls how unknown keys are handled by format decoders.
type UnknownPolicy int

const (
	UnknownStrict UnknownPolicy = iota // Reject unknown keys with an error.
	UnknownStrip                       // Drop unknown keys.
)

// RequiredPolicy controls whether format decoders insist on the presence of
// non-optional struct fields.
type RequiredPolicy int

const (
	RequiredStrict RequiredPolicy = iota // Missing non-optional fields fail the decode attempt.
	RequiredLoose                        // Missing fields decode as zero values.
)

// Strictness configures enforcement for duplicate keys.
type Strictness struct {
	OnDuplicateKey Severity // Ignore, Warn or Error (duplicate object keys).
}

// Severity expresses the severity level for issues.
type Severity int

const (
	Error Severity = iota
	Warn
	Ignore
)

// ChainOpt bundles chain construction options.
type ChainOpt struct {
	// Format decodes every version that was registered without an explicit
	// Decoder.
	Format Format
	// Logger receives debug traces of resolution and migration. Nil means no
	// logging.
	Logger *zap.Logger
}

// VersionInfo describes one member of a chain.
type VersionInfo struct {
	Index int
	Name  string
	// Fallible reports whether the step producing this version may fail. It is
	// always false for the oldest version.
	Fallible bool
}
