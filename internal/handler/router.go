package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"catimporter/backend/internal/logging"
	"catimporter/backend/internal/service"
)

// NewRouter builds the gin engine with health checks and the /api/v1 routes.
func NewRouter(svc *service.CatService, logger zerolog.Logger) *gin.Engine {
	router := gin.New()
	router.Use(logging.GinLogger(logger), gin.Recovery())

	// Health check endpoints
	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "pong",
		})
	})
	router.GET("/health", func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		if err := svc.Ping(ctx); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "not_ready", "db_error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	apiV1 := router.Group("/api/v1")
	NewCatHandler(svc).RegisterRoutes(apiV1)

	return router
}
