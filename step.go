package versionchain

import "context"

// Step is an infallible conversion from version A to the next version B.
type Step[A, B any] func(ctx context.Context, a A) B

// TryStep is a fallible conversion from version A to the next version B. The
// returned error is specific to the step and is embedded into the
// MigrationError through the ErrorMapper registered with it.
type TryStep[A, B any] func(ctx context.Context, a A) (B, error)

// ErrorMapper embeds a fallible step's error into the error carried by
// MigrationError.Cause. Every fallible step must register one.
type ErrorMapper func(error) error

// KeepError is the identity ErrorMapper: the step error is carried unchanged
// and stays reachable through errors.Is and errors.As.
func KeepError(err error) error { return err }

// Version names one member of a chain together with the Decoder that
// recognizes it. A nil Decoder means the chain's default Format is used.
type Version[T any] struct {
	Name    string
	Decoder Decoder[T]
}

// V returns a Version named name that decodes with the chain's Format.
func V[T any](name string) Version[T] { return Version[T]{Name: name} }

// DecodeWith returns a copy of v that decodes with dec instead of the chain's
// Format.
func (v Version[T]) DecodeWith(dec Decoder[T]) Version[T] {
	v.Decoder = dec
	return v
}
