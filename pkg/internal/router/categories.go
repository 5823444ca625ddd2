package router

import (
	"github.com/gin-gonic/gin"

	"github.com/yeisme/geovault/pkg/internal/handle"
)

// RegisterCategoryRoutes registers the category routes.
func RegisterCategoryRoutes(g *gin.RouterGroup) {
	categoryRoutes := g.Group("/categories")
	{
		categoryRoutes.GET("", handle.ListCategories)
		categoryRoutes.POST("", handle.CreateCategory)
		categoryRoutes.DELETE("/:id", handle.DeleteCategory)
	}
}
