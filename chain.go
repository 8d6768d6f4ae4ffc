package versionchain

import (
	"context"
	"fmt"
)

// Chain is a version chain made only of infallible steps. Migrate can only
// fail when no version decodes the payload.
type Chain[T any] struct{ core *chainCore }

// Migrate decodes payload with the newest matching version and converts it
// forward to T.
func (c *Chain[T]) Migrate(ctx context.Context, payload []byte) (T, error) {
	return migrateTyped[T](ctx, c.core, payload)
}

// TryMigrate is identical to Migrate; it lets a Chain stand in where a
// Migrator is expected.
func (c *Chain[T]) TryMigrate(ctx context.Context, payload []byte) (T, error) {
	return migrateTyped[T](ctx, c.core, payload)
}

// Resolve reports which version payload encodes without converting it.
func (c *Chain[T]) Resolve(ctx context.Context, payload []byte) (Resolution, error) {
	return c.core.resolve(ctx, payload)
}

// MigrateValue converts an already decoded value of the named version to T.
func (c *Chain[T]) MigrateValue(ctx context.Context, from string, v any) (T, error) {
	return migrateValueTyped[T](ctx, c.core, from, v)
}

// Versions lists the chain members, oldest first.
func (c *Chain[T]) Versions() []VersionInfo { return c.core.versions() }

// TryChain is a version chain containing at least one fallible step.
type TryChain[T any] struct{ core *chainCore }

// TryMigrate decodes payload with the newest matching version and converts it
// forward to T, stopping at the first failing step.
func (c *TryChain[T]) TryMigrate(ctx context.Context, payload []byte) (T, error) {
	return migrateTyped[T](ctx, c.core, payload)
}

// Resolve reports which version payload encodes without converting it.
func (c *TryChain[T]) Resolve(ctx context.Context, payload []byte) (Resolution, error) {
	return c.core.resolve(ctx, payload)
}

// MigrateValue converts an already decoded value of the named version to T.
func (c *TryChain[T]) MigrateValue(ctx context.Context, from string, v any) (T, error) {
	return migrateValueTyped[T](ctx, c.core, from, v)
}

// Versions lists the chain members, oldest first.
func (c *TryChain[T]) Versions() []VersionInfo { return c.core.versions() }

func migrateTyped[T any](ctx context.Context, core *chainCore, payload []byte) (T, error) {
	var zero T
	res, err := core.resolve(ctx, payload)
	if err != nil {
		return zero, err
	}
	out, err := core.forward(ctx, res.Index, res.Value)
	if err != nil {
		return zero, err
	}
	v, _ := out.(T)
	return v, nil
}

func migrateValueTyped[T any](ctx context.Context, core *chainCore, from string, v any) (T, error) {
	var zero T
	idx := core.index(from)
	if idx < 0 {
		return zero, fmt.Errorf("versionchain: unknown version %q", from)
	}
	if !core.links[idx].accepts(v) {
		return zero, fmt.Errorf("versionchain: value of type %T is not version %q", v, from)
	}
	out, err := core.forward(ctx, idx, v)
	if err != nil {
		return zero, err
	}
	t, _ := out.(T)
	return t, nil
}
