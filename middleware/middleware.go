// Package middleware migrates HTTP request bodies to the newest version of a
// chain before they reach a handler. The gin and echo subpackages adapt it to
// those frameworks; Handler serves plain net/http.
package middleware

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	j "github.com/goccy/go-json"

	vc "github.com/reoring/versionchain"
)

// Chain is satisfied by both versionchain.Chain and versionchain.TryChain.
type Chain[T any] interface {
	Resolve(ctx context.Context, payload []byte) (vc.Resolution, error)
	MigrateValue(ctx context.Context, from string, v any) (T, error)
}

// Migrated is a request body converted to the newest version, together with
// the version the client actually sent.
type Migrated[T any] struct {
	Value T
	From  string
}

// Migrate decodes payload once and converts the result forward.
func Migrate[T any](ctx context.Context, c Chain[T], payload []byte) (Migrated[T], error) {
	res, err := c.Resolve(ctx, payload)
	if err != nil {
		return Migrated[T]{}, err
	}
	v, err := c.MigrateValue(ctx, res.Version, res.Value)
	if err != nil {
		return Migrated[T]{}, err
	}
	return Migrated[T]{Value: v, From: res.Version}, nil
}

// ctxKeyMigrated is a typed context key for storing Migrated[T].
// Using a generic struct type ensures uniqueness per T.
type ctxKeyMigrated[T any] struct{}

// ContextWithMigrated attaches a Migrated[T] to the context.
func ContextWithMigrated[T any](ctx context.Context, m Migrated[T]) context.Context {
	return context.WithValue(ctx, ctxKeyMigrated[T]{}, m)
}

// MigratedFromContext retrieves a Migrated[T] from context.
func MigratedFromContext[T any](ctx context.Context) (Migrated[T], bool) {
	v, ok := ctx.Value(ctxKeyMigrated[T]{}).(Migrated[T])
	return v, ok
}

// DefaultMaxBytes caps request bodies read by ReadBody.
const DefaultMaxBytes = 1 << 20

// ErrBodyTooLarge is returned by ReadBody when the body exceeds the cap.
var ErrBodyTooLarge = errors.New("middleware: request body too large")

// ReadBody reads at most maxBytes (DefaultMaxBytes when <= 0) from r.
func ReadBody(r io.Reader, maxBytes int64) ([]byte, error) {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBytes
	}
	b, err := io.ReadAll(io.LimitReader(r, maxBytes+1))
	if err != nil {
		return nil, err
	}
	if int64(len(b)) > maxBytes {
		return nil, fmt.Errorf("%w: limit is %d bytes", ErrBodyTooLarge, maxBytes)
	}
	return b, nil
}

// StatusCode maps a migration failure to an HTTP status: 422 when a step
// rejected the value, 400 otherwise.
func StatusCode(err error) int {
	if errors.Is(err, vc.ErrConversionFailed) {
		return http.StatusUnprocessableEntity
	}
	return http.StatusBadRequest
}

// ErrorPayload shapes a migration failure for JSON responses.
func ErrorPayload(err error) map[string]any {
	out := map[string]any{"error": err.Error()}
	me, ok := vc.AsMigrationError(err)
	if !ok {
		return out
	}
	out["code"] = me.Kind.Code()
	switch me.Kind {
	case vc.KindConversionFailed:
		out["from"] = me.From
		out["to"] = me.To
	case vc.KindNoVersionMatched:
		tried := make([]string, 0, len(me.Attempts))
		for _, a := range me.Attempts {
			tried = append(tried, a.Version)
		}
		out["tried"] = tried
	}
	if iss, ok := vc.AsIssues(me.Cause); ok {
		list := make([]map[string]string, 0, len(iss))
		for _, it := range iss {
			list = append(list, map[string]string{"path": it.Path, "code": it.Code, "message": it.Message})
		}
		out["issues"] = list
	}
	return out
}

// WriteError writes ErrorPayload(err) with StatusCode(err).
func WriteError(w http.ResponseWriter, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(StatusCode(err))
	_ = j.NewEncoder(w).Encode(ErrorPayload(err))
}

// Handler migrates the request body with c, stores the result in the request
// context and calls next. Failures are answered with WriteError.
func Handler[T any](c Chain[T], maxBytes int64, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, err := ReadBody(r.Body, maxBytes)
		if err != nil {
			status := http.StatusBadRequest
			if errors.Is(err, ErrBodyTooLarge) {
				status = http.StatusRequestEntityTooLarge
			}
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(status)
			_ = j.NewEncoder(w).Encode(map[string]any{"error": err.Error()})
			return
		}
		m, err := Migrate(r.Context(), c, body)
		if err != nil {
			WriteError(w, err)
			return
		}
		next.ServeHTTP(w, r.WithContext(ContextWithMigrated(r.Context(), m)))
	})
}
