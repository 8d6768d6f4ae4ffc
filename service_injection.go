package versionchain

import (
	"context"
	"errors"
	"fmt"
	"reflect"
)

// serviceKey is a unique key per type parameter T for context storage.
type serviceKey[T any] struct{}

// WithService stores a typed service instance in the context. Steps receive
// the context passed to Migrate and can look their collaborators up with
// Service.
func WithService[T any](ctx context.Context, svc T) context.Context {
	return context.WithValue(ctx, serviceKey[T]{}, any(svc))
}

// Service retrieves a typed service instance from context.
func Service[T any](ctx context.Context) (T, bool) {
	var zero T
	if ctx == nil {
		return zero, false
	}
	v := ctx.Value(serviceKey[T]{})
	if v == nil {
		return zero, false
	}
	if tv, ok := v.(T); ok {
		return tv, true
	}
	return zero, false
}

// ErrServiceUnavailable is wrapped by RequireService when no service of the
// requested type was provided.
var ErrServiceUnavailable = errors.New("versionchain: service not provided")

// RequireService returns the service or an error a fallible step can return
// as is.
func RequireService[T any](ctx context.Context) (T, error) {
	if v, ok := Service[T](ctx); ok {
		return v, nil
	}
	var zero T
	return zero, fmt.Errorf("%w: %s", ErrServiceUnavailable, reflect.TypeOf((*T)(nil)).Elem())
}
