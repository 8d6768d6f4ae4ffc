package echomw

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/reoring/versionchain/middleware"
)

// MigrateJSON migrates the request body with c, stores Migrated[T] in the
// request context on success, or answers with middleware.ErrorPayload.
func MigrateJSON[T any](c middleware.Chain[T], maxBytes int64) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ec echo.Context) error {
			body, err := middleware.ReadBody(ec.Request().Body, maxBytes)
			if err != nil {
				status := http.StatusBadRequest
				if errors.Is(err, middleware.ErrBodyTooLarge) {
					status = http.StatusRequestEntityTooLarge
				}
				return ec.JSON(status, map[string]any{"error": err.Error()})
			}
			m, err := middleware.Migrate(ec.Request().Context(), c, body)
			if err != nil {
				return ec.JSON(middleware.StatusCode(err), middleware.ErrorPayload(err))
			}
			ctx := middleware.ContextWithMigrated(ec.Request().Context(), m)
			ec.SetRequest(ec.Request().WithContext(ctx))
			return next(ec)
		}
	}
}

// GetMigrated fetches Migrated[T] from echo.Context.
func GetMigrated[T any](ec echo.Context) (middleware.Migrated[T], bool) {
	return middleware.MigratedFromContext[T](ec.Request().Context())
}
