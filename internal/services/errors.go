package services

import "errors"

// ErrProviderNotConfigured is returned when an operation's upstream has no credentials
var ErrProviderNotConfigured = errors.New("provider not configured")
