package versionchain

import "context"

// Decoder attempts to decode a raw payload into exactly one version's
// representation. A non-nil error means the payload does not have this
// version's shape. Implementations must be deterministic and free of side
// effects: the same payload always yields the same outcome.
type Decoder[T any] interface {
	Decode(ctx context.Context, payload []byte) (T, error)
}

// DecoderFunc adapts a plain function to Decoder.
type DecoderFunc[T any] func(ctx context.Context, payload []byte) (T, error)

func (f DecoderFunc[T]) Decode(ctx context.Context, payload []byte) (T, error) {
	return f(ctx, payload)
}

// Format is the serialization SPI used to build decoders for any version type.
// Unmarshal receives a pointer to a fresh value and should apply its own strict
// policy (unknown keys, duplicate keys, required fields). Implementations live
// in the codec package.
type Format interface {
	Name() string
	Unmarshal(payload []byte, v any) error
}

// FormatDecoder returns a Decoder[T] that unmarshals with f and then runs the
// optional Validator hook of T.
func FormatDecoder[T any](f Format) Decoder[T] {
	return DecoderFunc[T](func(ctx context.Context, payload []byte) (T, error) {
		var v T
		if err := f.Unmarshal(payload, &v); err != nil {
			var zero T
			return zero, err
		}
		if err := ApplyValidate(v); err != nil {
			var zero T
			return zero, err
		}
		return v, nil
	})
}
