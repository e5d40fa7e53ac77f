package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/aquarosarium/HandOfMidas-bot/internal/api/middleware"
	"github.com/aquarosarium/HandOfMidas-bot/internal/storages"
)

// SetupRouter настраивает служебный HTTP-сервер бота: проверки живости
// и готовности для оркестратора
func SetupRouter(storage storages.Storage, logger *logrus.Logger, ginMode string) *gin.Engine {
	// Установка режима Gin
	gin.SetMode(ginMode)

	router := gin.New()

	// Middleware
	router.Use(gin.Recovery())
	router.Use(middleware.Logger(logger))

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Readiness: бот готов, когда доступно хранилище
	router.GET("/status", func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()

		if err := storage.Ping(ctx); err != nil {
			logger.Errorf("Status check failed: %v", err)
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":  "degraded",
				"storage": "unavailable",
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"storage": "ok",
		})
	})

	return router
}
