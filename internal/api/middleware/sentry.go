package middleware

import (
	"net/http"
	"regexp"
	"time"

	"github.com/getsentry/sentry-go"
	sentrygin "github.com/getsentry/sentry-go/gin"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/Conceptual-Machines/music-prompt-api/internal/logger"
	"github.com/Conceptual-Machines/music-prompt-api/internal/metrics"
)

const (
	httpStatusInternalServerError = http.StatusInternalServerError
	sentryFlushTimeout            = 2 * time.Second

	// RequestIDHeader carries the correlation id in both directions
	RequestIDHeader = "X-Request-ID"
)

var validRequestID = regexp.MustCompile(`^[A-Za-z0-9._-]{8,128}$`)

// RequestTracking tags every request with a correlation id, logs it and records API metrics.
func RequestTracking(recorder metrics.Recorder) gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := resolveRequestID(c.GetHeader(RequestIDHeader))
		c.Set("request_id", requestID)
		c.Header(RequestIDHeader, requestID)

		if hub := sentrygin.GetHubFromContext(c); hub != nil {
			hub.Scope().SetTag("request_id", requestID)
		}

		start := time.Now()
		c.Next()
		duration := time.Since(start)

		logger.LogAPIRequest(c, duration, c.Writer.Status(), nil)

		if recorder != nil {
			endpoint := c.FullPath()
			if endpoint == "" {
				endpoint = "unmatched"
			}
			recorder.RecordAPIRequest(c.Request.Context(), endpoint, c.Writer.Status(), duration)
		}
	}
}

// resolveRequestID reuses an upstream id when it looks sane, else mints a uuid
func resolveRequestID(upstream string) string {
	if validRequestID.MatchString(upstream) {
		return upstream
	}
	return uuid.New().String()
}

// SentryMiddleware returns the Sentry middleware with custom configuration
func SentryMiddleware() gin.HandlerFunc {
	return sentrygin.New(sentrygin.Options{
		Repanic:         true,
		WaitForDelivery: false,
		Timeout:         sentryFlushTimeout,
	})
}

// RecoverWithSentry recovers from panics and sends them to Sentry
func RecoverWithSentry() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				if hub := sentrygin.GetHubFromContext(c); hub != nil {
					hub.WithScope(func(scope *sentry.Scope) {
						scope.SetRequest(c.Request)
						scope.SetContext("request", map[string]interface{}{
							"request_id": c.GetString("request_id"),
							"method":     c.Request.Method,
							"path":       c.Request.URL.Path,
							"client_ip":  c.ClientIP(),
						})
						if userID, ok := CallerID(c); ok {
							scope.SetUser(sentry.User{ID: userID})
						}
						hub.RecoverWithContext(c.Request.Context(), err)
					})
				}

				logger.Error("Panic recovered", nil, logger.Fields{
					"request_id": c.GetString("request_id"),
					"error":      err,
					"path":       c.Request.URL.Path,
				})

				c.AbortWithStatusJSON(httpStatusInternalServerError, gin.H{
					"error":      "internal_error",
					"message":    "Internal server error",
					"request_id": c.GetString("request_id"),
					"timestamp":  time.Now().UTC().Format(time.RFC3339),
				})
			}
		}()
		c.Next()
	}
}
