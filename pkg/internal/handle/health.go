package handle

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	ctxPkg "github.com/yeisme/geovault/pkg/context"
)

const healthTimeout = 2 * time.Second

// HealthDB checks catalog database connectivity.
func HealthDB(c *gin.Context) {
	dbc := ctxPkg.GetDBClient(c.Request.Context())
	if dbc == nil || dbc.DB == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"component": "db", "status": "unhealthy", "error": "db client not initialized"})

		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), healthTimeout)
	defer cancel()

	sqlDB, err := dbc.DB.DB()
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"component": "db", "status": "unhealthy", "error": err.Error()})

		return
	}

	if err := sqlDB.PingContext(ctx); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"component": "db", "status": "unhealthy", "error": err.Error()})

		return
	}

	c.JSON(http.StatusOK, gin.H{"component": "db", "status": "ok"})
}

// HealthContentStore checks the content store.
func HealthContentStore(c *gin.Context) {
	store := ctxPkg.GetContentStore(c.Request.Context())
	if store == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"component": "content", "status": "unhealthy", "error": "content store not initialized"})

		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), healthTimeout)
	defer cancel()

	if _, err := store.List(ctx, "."); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"component": "content", "status": "unhealthy", "error": err.Error()})

		return
	}

	c.JSON(http.StatusOK, gin.H{"component": "content", "status": "ok"})
}

// HealthBus checks the event bus.
func HealthBus(c *gin.Context) {
	if ctxPkg.GetBus(c.Request.Context()) == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"component": "bus", "status": "unhealthy", "error": "bus not initialized"})

		return
	}

	c.JSON(http.StatusOK, gin.H{"component": "bus", "status": "ok"})
}
