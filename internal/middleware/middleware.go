package middleware

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// OrderCORSHeaders returns the CORS headers sent on every order proxy response
func OrderCORSHeaders() map[string]string {
	return map[string]string{
		"Access-Control-Allow-Origin":  "*",
		"Access-Control-Allow-Headers": "Content-Type, Authorization, X-Requested-With, X-API-Key",
		"Access-Control-Allow-Methods": "POST, OPTIONS",
	}
}

// DebugCORSHeaders returns the CORS headers sent by the diagnostics endpoint
func DebugCORSHeaders() map[string]string {
	return map[string]string{
		"Access-Control-Allow-Origin":  "*",
		"Access-Control-Allow-Headers": "Content-Type",
	}
}

// CORS sets the given headers and answers pre-flight requests with 204
func CORS(headers map[string]string) gin.HandlerFunc {
	return func(c *gin.Context) {
		for k, v := range headers {
			c.Header(k, v)
		}

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

// Recovery turns a panic into a 500 JSON response without a stack trace
func Recovery(logger logrus.FieldLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				logger.WithFields(logrus.Fields{
					"request_id": c.GetString(RequestIDKey),
					"method":     c.Request.Method,
					"path":       c.Request.URL.Path,
					"panic":      fmt.Sprint(r),
				}).Error("Unhandled error")

				c.Header("Access-Control-Allow-Origin", "*")
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
					"error":   "Internal server error",
					"message": fmt.Sprint(r),
				})
			}
		}()

		c.Next()
	}
}
