package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"triplewhale-order-proxy/internal/middleware"
)

// RouterConfig holds configuration for setting up routes
type RouterConfig struct {
	OrderHandler   *OrderHandler
	DebugHandler   *DebugHandler
	MetricsHandler http.Handler
	Logger         logrus.FieldLogger
}

// SetupRoutes configures the local server routes. Function paths mirror the
// hosted deployment so a frontend can point at either.
func SetupRoutes(router *gin.Engine, config *RouterConfig) {
	router.Use(middleware.Recovery(config.Logger))
	router.Use(middleware.RequestID())
	router.Use(middleware.StructuredLogger(config.Logger))

	ops := router.Group("", middleware.CORS(middleware.DebugCORSHeaders()))
	ops.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"service": "triplewhale-order-proxy",
			"version": "1.0.0",
		})
	})

	if config.MetricsHandler != nil {
		ops.GET("/metrics", gin.WrapH(config.MetricsHandler))
	}

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	functions := map[string]gin.HandlerFunc{
		"/.netlify/functions/orders": config.OrderHandler.Orders,
		"/api/orders":                config.OrderHandler.Orders,
		"/.netlify/functions/debug":  config.DebugHandler.Debug,
		"/api/debug":                 config.DebugHandler.Debug,
	}
	for path, handler := range functions {
		router.Any(path, handler)
	}

	// Any only covers the standard methods; anything else on a function path
	// still goes to its handler so it can answer 405 itself.
	router.NoRoute(func(c *gin.Context) {
		if handler, ok := functions[c.Request.URL.Path]; ok {
			handler(c)
		}
	})
}
