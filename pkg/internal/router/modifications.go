package router

import (
	"github.com/gin-gonic/gin"

	"github.com/yeisme/geovault/pkg/internal/handle"
)

// RegisterModificationRoutes registers the audit-log routes. Listing per
// dataset lives under /datasets/:id/modifications; only the comment
// correction path is addressed by modification id.
func RegisterModificationRoutes(g *gin.RouterGroup) {
	modificationRoutes := g.Group("/modifications")
	{
		modificationRoutes.PUT("/:id/comment", handle.EditModificationComment)
	}
}
