package versionchain

import "context"

// Migrator is the common surface of Chain and TryChain.
type Migrator[T any] interface {
	TryMigrate(ctx context.Context, payload []byte) (T, error)
}

// Resolver reports which version a payload encodes.
type Resolver interface {
	Resolve(ctx context.Context, payload []byte) (Resolution, error)
}

// ---- Convenience wrappers ----

// SafeMigrate migrates payload, returning (zero, false) on any error.
func SafeMigrate[T any](ctx context.Context, m Migrator[T], payload []byte) (T, bool) {
	v, err := m.TryMigrate(ctx, payload)
	if err != nil {
		var zero T
		return zero, false
	}
	return v, true
}

// Matches returns true if some version of r decodes payload.
func Matches(ctx context.Context, r Resolver, payload []byte) bool {
	_, err := r.Resolve(ctx, payload)
	return err == nil
}

// Current returns the newest version of a chain.
func Current(versions []VersionInfo) VersionInfo {
	if len(versions) == 0 {
		return VersionInfo{Index: -1}
	}
	return versions[len(versions)-1]
}
