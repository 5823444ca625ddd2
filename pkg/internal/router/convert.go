package router

import (
	"github.com/gin-gonic/gin"

	"github.com/yeisme/geovault/pkg/internal/handle"
)

// RegisterConvertRoutes registers the conversion pipeline route.
func RegisterConvertRoutes(g *gin.RouterGroup) {
	g.POST("/convert", handle.ConvertDataset)
}
