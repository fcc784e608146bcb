package handlers

const (
	// Error codes returned in ErrorResponse.Error
	errCodeValidation            = "validation_error"
	errCodeNotFound              = "not_found"
	errCodeProviderTimeout       = "provider_timeout"
	errCodeRateLimited           = "rate_limited"
	errCodeProviderError         = "provider_error"
	errCodeProviderNotConfigured = "provider_not_configured"
	errCodeStorage               = "storage_error"

	downloadRoute = "/render/download/"
	streamRoute   = "/render/stream/"
)
