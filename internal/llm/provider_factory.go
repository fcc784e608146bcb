package llm

import (
	"context"
	"fmt"
	"strings"
)

// ProviderFactory builds providers from an explicit name or a model id
type ProviderFactory struct {
	keys map[string]string
}

// NewProviderFactory creates a factory holding the provider API keys
func NewProviderFactory(openaiAPIKey, geminiAPIKey string) *ProviderFactory {
	return &ProviderFactory{
		keys: map[string]string{
			providerNameOpenAI: openaiAPIKey,
			providerNameGemini: geminiAPIKey,
		},
	}
}

// GetProvider returns the provider named by providerName, or the one implied by model.
// gemini-* models go to Gemini; gpt-* and unknown models go to OpenAI, falling
// back to Gemini for unknown models when only a Gemini key is set.
func (f *ProviderFactory) GetProvider(ctx context.Context, model, providerName string) (Provider, error) {
	name := strings.ToLower(strings.TrimSpace(providerName))
	if name == "" {
		name = f.inferProvider(strings.ToLower(model))
	}
	return f.build(ctx, name)
}

func (f *ProviderFactory) inferProvider(model string) string {
	switch {
	case strings.HasPrefix(model, "gemini-"):
		return providerNameGemini
	case strings.HasPrefix(model, "gpt-"):
		return providerNameOpenAI
	case f.keys[providerNameOpenAI] == "" && f.keys[providerNameGemini] != "":
		return providerNameGemini
	default:
		return providerNameOpenAI
	}
}

func (f *ProviderFactory) build(ctx context.Context, name string) (Provider, error) {
	key, known := f.keys[name]
	if !known {
		return nil, fmt.Errorf("unknown provider: %s (allowed: %s, %s)", name, providerNameOpenAI, providerNameGemini)
	}
	if key == "" {
		return nil, fmt.Errorf("%s API key not configured", name)
	}
	if name == providerNameGemini {
		return NewGeminiProvider(ctx, key)
	}
	return NewOpenAIProvider(key), nil
}

// Configured reports whether any provider key is set
func (f *ProviderFactory) Configured() bool {
	for _, key := range f.keys {
		if key != "" {
			return true
		}
	}
	return false
}
