package llm

import (
	"context"
	"fmt"
)

// Provider defines the interface for LLM providers
type Provider interface {
	// Generate runs one request. Output is plain text unless OutputSchema is set,
	// in which case RawOutput holds JSON matching the schema.
	Generate(ctx context.Context, request *GenerationRequest) (*GenerationResponse, error)

	// Name returns the provider name (e.g., "openai", "gemini")
	Name() string
}

// GenerationRequest contains all parameters needed for generation
type GenerationRequest struct {
	Model         string
	InputArray    []map[string]any
	ReasoningMode string
	SystemPrompt  string
	// Structured output schema; nil means plain text
	OutputSchema *OutputSchema
}

// OutputSchema defines the expected JSON output structure
type OutputSchema struct {
	Name        string
	Description string
	Schema      map[string]any // JSON Schema object
}

// GenerationResponse contains the result from the LLM
type GenerationResponse struct {
	RawOutput string `json:"-"`
	Usage     any    `json:"usage"`
	Model     string `json:"model"`
}

// ProviderError wraps a failed upstream call with the HTTP status the provider returned.
// StatusCode is zero when the call failed before a response arrived.
type ProviderError struct {
	Provider   string
	StatusCode int
	Err        error
}

func (e *ProviderError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s request failed (status %d): %v", e.Provider, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("%s request failed: %v", e.Provider, e.Err)
}

func (e *ProviderError) Unwrap() error { return e.Err }

// UpstreamStatus returns the provider's HTTP status code
func (e *ProviderError) UpstreamStatus() int { return e.StatusCode }

// UserMessage builds a single user input item
func UserMessage(content string) []map[string]any {
	return []map[string]any{{"role": userRole, "content": content}}
}
