package transport

import (
	"context"
	"errors"
	"net/http"
	"time"

	"go-skin-analyzer/internal/config"
	apperrors "go-skin-analyzer/internal/errors"
	"go-skin-analyzer/internal/logger"
	"go-skin-analyzer/internal/service"
	"go-skin-analyzer/pkg/models"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
)

func NewHandler(svc service.AnalysisService, cfg *config.Config) http.Handler {
	r := gin.New()

	// cors runs first so preflight never reaches routing, even for unknown paths
	r.Use(
		corsMiddleware(),
		requestIDMiddleware(),
		requestLogger(),
		gin.CustomRecovery(recoveryHandler),
		requestSizeLimiter(cfg.MaxRequestBodySize),
		errorHandler(),
	)

	r.GET("/health", healthCheck(svc))
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.POST("/", analyzeSkin(svc, cfg))
	r.POST("/analyze", analyzeSkin(svc, cfg))

	return r
}

func analyzeSkin(svc service.AnalysisService, cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), cfg.RequestTimeout)
		defer cancel()

		var req models.AnalyzeRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				_ = c.Error(apperrors.NewPayloadTooLargeError("request body too large", err))
				return
			}
			// an unreadable body is treated the same as a missing photo
			_ = c.Error(apperrors.NewValidationError(models.MissingImageMessage, err))
			return
		}

		result, err := svc.Analyze(ctx, req)
		if err != nil {
			_ = c.Error(err)
			return
		}

		c.JSON(http.StatusOK, result)
	}
}

func healthCheck(svc service.AnalysisService) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":   "available",
			"provider": svc.ProviderName(),
			"time":     time.Now().UTC().Format(time.RFC3339),
		})
	}
}

func errorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) > 0 && !c.Writer.Written() {
			respondError(c, c.Errors.Last().Err)
		}
	}
}

func determineStatusCode(err error) int {
	if appErr, ok := apperrors.As(err); ok {
		return appErr.StatusCode
	}

	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case errors.Is(err, context.Canceled):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// respondError renders client errors as {"error": message} and every other failure as
// {"error": status text, "message": ...}. No analysis data is ever included.
func respondError(c *gin.Context, err error) {
	code := determineStatusCode(err)

	entry := logger.WithError(err).WithFields(logrus.Fields{
		"request_id":  c.GetString(requestIDKey),
		"status_code": code,
		"error_type":  apperrors.TypeOf(err),
		"path":        c.Request.URL.Path,
		"method":      c.Request.Method,
	})
	if code >= http.StatusInternalServerError {
		entry.Error("Request failed")
	} else {
		entry.Warn("Request rejected")
	}

	if appErr, ok := apperrors.As(err); ok && appErr.Type == apperrors.ErrorTypeValidation {
		c.AbortWithStatusJSON(code, models.ErrorResponse{Error: appErr.Message})
		return
	}

	message := "request processing failed"
	if appErr, ok := apperrors.As(err); ok {
		message = appErr.Message
	}
	c.AbortWithStatusJSON(code, models.ErrorResponse{
		Error:   http.StatusText(code),
		Message: message,
	})
}
