package ginmw

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/reoring/versionchain/middleware"
)

// MigrateJSON migrates the request body with c (bodies are capped at
// maxBytes, middleware.DefaultMaxBytes when <= 0), stores Migrated[T] in the
// request context and aborts with middleware.ErrorPayload on failure.
func MigrateJSON[T any](c middleware.Chain[T], maxBytes int64) gin.HandlerFunc {
	return func(gc *gin.Context) {
		body, err := middleware.ReadBody(gc.Request.Body, maxBytes)
		if err != nil {
			status := http.StatusBadRequest
			if errors.Is(err, middleware.ErrBodyTooLarge) {
				status = http.StatusRequestEntityTooLarge
			}
			gc.AbortWithStatusJSON(status, gin.H{"error": err.Error()})
			return
		}
		m, err := middleware.Migrate(gc.Request.Context(), c, body)
		if err != nil {
			gc.AbortWithStatusJSON(middleware.StatusCode(err), middleware.ErrorPayload(err))
			return
		}
		gc.Request = gc.Request.WithContext(middleware.ContextWithMigrated(gc.Request.Context(), m))
		gc.Next()
	}
}

// GetMigrated fetches Migrated[T] from gin.Context.
func GetMigrated[T any](gc *gin.Context) (middleware.Migrated[T], bool) {
	return middleware.MigratedFromContext[T](gc.Request.Context())
}
