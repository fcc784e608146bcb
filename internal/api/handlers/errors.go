package handlers

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Conceptual-Machines/music-prompt-api/internal/logger"
	"github.com/Conceptual-Machines/music-prompt-api/internal/models"
	"github.com/Conceptual-Machines/music-prompt-api/internal/services"
)

// upstreamStatusError is implemented by provider errors that carry the upstream HTTP status
type upstreamStatusError interface {
	UpstreamStatus() int
}

func timestamp() string {
	return time.Now().UTC().Format(time.RFC3339)
}

func respondError(c *gin.Context, status int, code, message string) {
	c.JSON(status, models.ErrorResponse{
		Error:     code,
		Message:   message,
		RequestID: c.GetString("request_id"),
		Timestamp: timestamp(),
	})
}

// respondBindingError reports a malformed request body
func respondBindingError(c *gin.Context, err error) {
	respondError(c, http.StatusUnprocessableEntity, errCodeValidation, err.Error())
}

// classifyProviderError maps an upstream failure to a status and error code.
// Timeouts become 504, rate limits pass through as 429, everything else is 502.
func classifyProviderError(err error) (int, string) {
	if errors.Is(err, services.ErrProviderNotConfigured) {
		return http.StatusServiceUnavailable, errCodeProviderNotConfigured
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return http.StatusGatewayTimeout, errCodeProviderTimeout
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return http.StatusGatewayTimeout, errCodeProviderTimeout
	}
	var upstream upstreamStatusError
	if errors.As(err, &upstream) && upstream.UpstreamStatus() == http.StatusTooManyRequests {
		return http.StatusTooManyRequests, errCodeRateLimited
	}
	return http.StatusBadGateway, errCodeProviderError
}

// respondProviderError reports an upstream failure verbatim with the request id
func respondProviderError(c *gin.Context, operation string, err error) {
	status, code := classifyProviderError(err)
	fields := logger.WithContext(c)
	fields["operation"] = operation
	fields["status_code"] = status
	logger.Error("Provider call failed", err, fields)
	respondError(c, status, code, err.Error())
}
