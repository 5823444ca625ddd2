// Package middleware provides the gin middleware stack.
package middleware

import (
	"github.com/gin-gonic/gin"

	ctxPkg "github.com/yeisme/geovault/pkg/context"
	"github.com/yeisme/geovault/pkg/internal/storage"
)

// StorageMiddleware injects the storage manager into every request
// context so services can resolve their dependencies.
func StorageMiddleware(manager *storage.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := ctxPkg.WithStorageManager(c.Request.Context(), manager)
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}
