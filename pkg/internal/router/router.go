// Package router binds URL paths to the handlers in pkg/internal/handle.
package router

import (
	"github.com/gin-gonic/gin"
)

// RegisterRoutes binds every API route onto the /api/v1 group.
func RegisterRoutes(g *gin.RouterGroup) {
	RegisterDatasetRoutes(g)
	RegisterCategoryRoutes(g)
	RegisterModificationRoutes(g)
	RegisterConvertRoutes(g)
	RegisterHealthCheckRoute(g)
}
