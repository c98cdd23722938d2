package transport

import (
	"net/http"
	"runtime/debug"
	"time"

	"go-skin-analyzer/internal/logger"
	"go-skin-analyzer/pkg/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const (
	requestIDHeader = "X-Request-ID"
	requestIDKey    = "request_id"
)

// corsMiddleware answers preflight requests on any path and marks every other response
// as readable from any origin.
func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")

		if c.Request.Method == http.MethodOptions {
			c.Header("Access-Control-Allow-Methods", "POST, OPTIONS")
			c.Header("Access-Control-Allow-Headers", "Content-Type")
			c.Header("Access-Control-Max-Age", "86400")
			c.AbortWithStatus(http.StatusOK)
			return
		}

		c.Next()
	}
}

func requestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		rid := c.GetHeader(requestIDHeader)
		if rid == "" {
			rid = uuid.New().String()
		}
		c.Set(requestIDKey, rid)
		c.Writer.Header().Set(requestIDHeader, rid)
		c.Request = c.Request.WithContext(logger.ContextWithRequestID(c.Request.Context(), rid))
		c.Next()
	}
}

// requestLogger logs start and finish of each request. Bodies are never logged: they
// carry the photo.
func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		logger.WithFields(logrus.Fields{
			"request_id": c.GetString(requestIDKey),
			"method":     c.Request.Method,
			"path":       c.Request.URL.Path,
			"user_agent": c.Request.UserAgent(),
			"ip":         c.ClientIP(),
		}).Debug("Request started")

		c.Next()

		status := c.Writer.Status()
		entry := logger.WithFields(logrus.Fields{
			"request_id":  c.GetString(requestIDKey),
			"method":      c.Request.Method,
			"path":        c.Request.URL.Path,
			"status":      status,
			"duration_ms": time.Since(start).Milliseconds(),
			"ip":          c.ClientIP(),
		})
		switch {
		case status >= http.StatusInternalServerError:
			entry.Error("Request completed with server error")
		case status >= http.StatusBadRequest:
			entry.Warn("Request completed with client error")
		default:
			entry.Info("Request completed")
		}
	}
}

func recoveryHandler(c *gin.Context, recovered any) {
	logger.WithFields(logrus.Fields{
		"request_id": c.GetString(requestIDKey),
		"panic":      recovered,
		"stack":      string(debug.Stack()),
		"method":     c.Request.Method,
		"path":       c.Request.URL.Path,
	}).Error("Panic recovered")

	c.AbortWithStatusJSON(http.StatusInternalServerError, models.ErrorResponse{
		Error:   http.StatusText(http.StatusInternalServerError),
		Message: "internal server error",
	})
}

func requestSizeLimiter(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}
