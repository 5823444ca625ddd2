package router

import (
	"github.com/gin-gonic/gin"

	"github.com/yeisme/geovault/pkg/internal/handle"
)

// RegisterHealthCheckRoute registers the per-component health checks.
func RegisterHealthCheckRoute(g *gin.RouterGroup) {
	healthRoutes := g.Group("/health")
	{
		healthRoutes.GET("/db", handle.HealthDB)
		healthRoutes.GET("/content", handle.HealthContentStore)
		healthRoutes.GET("/bus", handle.HealthBus)
	}
}
