package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Provider names accepted by PROMPT_PROVIDER and PLAN_PROVIDER
const (
	ProviderOpenAI     = "openai"
	ProviderGemini     = "gemini"
	ProviderElevenLabs = "elevenlabs"
)

// Audio store backends accepted by AUDIO_STORAGE
const (
	StorageLocal = "local"
	StorageS3    = "s3"
)

// Config holds the application configuration.
// The service is stateless: no database, auth is handled by the gateway.
type Config struct {
	// Environment
	Environment string
	Port        string

	// LLM API Keys
	OpenAIAPIKey string // OpenAI API key for GPT models
	GeminiAPIKey string // Google Gemini API key

	// Prompt refinement
	PromptProvider string
	PromptModel    string

	// Composition plans: elevenlabs, openai or gemini
	PlanProvider string
	PlanModel    string

	// Music provider
	ElevenLabsAPIKey  string
	ElevenLabsBaseURL string
	ElevenLabsModelID string

	// Provider call deadlines
	ProviderTimeout time.Duration
	RenderTimeout   time.Duration

	// Rendered audio
	AudioStorage    string
	RenderOutputDir string
	S3Bucket        string
	S3Prefix        string
	AWSRegion       string

	// Observability
	SentryDSN         string // Sentry DSN for error tracking
	LangfusePublicKey string // Langfuse public key
	LangfuseSecretKey string // Langfuse secret key
	LangfuseHost      string // Langfuse host URL (cloud or self-hosted)
	LangfuseEnabled   bool   // Feature flag for Langfuse

	// CORS allow-list, "*" allows any origin
	CORSOrigins []string

	// Auth mode
	// - "none": No auth (self-hosted, local dev)
	// - "gateway": Trust X-User-* headers from the gateway
	AuthMode string
}

func Load() *Config {
	return &Config{
		Environment:       getEnv("ENVIRONMENT", "development"),
		Port:              getEnv("PORT", "8080"),
		OpenAIAPIKey:      getEnv("OPENAI_API_KEY", ""),
		GeminiAPIKey:      getEnv("GEMINI_API_KEY", ""),
		PromptProvider:    strings.ToLower(getEnv("PROMPT_PROVIDER", ProviderOpenAI)),
		PromptModel:       getEnv("PROMPT_MODEL", "gpt-5-mini"),
		PlanProvider:      strings.ToLower(getEnv("PLAN_PROVIDER", ProviderElevenLabs)),
		PlanModel:         getEnv("PLAN_MODEL", "gpt-5-mini"),
		ElevenLabsAPIKey:  getEnv("ELEVENLABS_API_KEY", ""),
		ElevenLabsBaseURL: getEnv("ELEVENLABS_BASE_URL", "https://api.elevenlabs.io"),
		ElevenLabsModelID: getEnv("ELEVENLABS_MODEL_ID", "music_v1"),
		ProviderTimeout:   getSeconds("PROVIDER_TIMEOUT_SECONDS", 120),
		RenderTimeout:     getSeconds("RENDER_TIMEOUT_SECONDS", 300),
		AudioStorage:      strings.ToLower(getEnv("AUDIO_STORAGE", StorageLocal)),
		RenderOutputDir:   getEnv("RENDER_OUTPUT_DIR", "output/music"),
		S3Bucket:          getEnv("S3_BUCKET", ""),
		S3Prefix:          getEnv("S3_PREFIX", "renders/"),
		AWSRegion:         getEnv("AWS_REGION", "us-east-1"),
		SentryDSN:         getEnv("SENTRY_DSN", ""),
		LangfusePublicKey: getEnv("LANGFUSE_PUBLIC_KEY", ""),
		LangfuseSecretKey: getEnv("LANGFUSE_SECRET_KEY", ""),
		LangfuseHost:      getEnv("LANGFUSE_HOST", "https://cloud.langfuse.com"),
		LangfuseEnabled:   getEnv("LANGFUSE_ENABLED", "false") == "true",
		CORSOrigins:       splitList(getEnv("CORS_ORIGINS", "*")),
		AuthMode:          getEnv("AUTH_MODE", "none"), // Default to no auth for self-hosted
	}
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value != "" {
		return value
	}
	return defaultValue
}

func getSeconds(key string, defaultSeconds int) time.Duration {
	n, err := strconv.Atoi(getEnv(key, ""))
	if err != nil || n <= 0 {
		n = defaultSeconds
	}
	return time.Duration(n) * time.Second
}

func splitList(s string) []string {
	var out []string
	for _, item := range strings.Split(s, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

// IsGatewayMode returns true if running behind the gateway
func (c *Config) IsGatewayMode() bool {
	return c.AuthMode == "gateway"
}

// IsProduction reports whether ENVIRONMENT is production
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// PromptRefinementConfigured reports whether the prompt provider has a key
func (c *Config) PromptRefinementConfigured() bool {
	return c.apiKeyFor(c.PromptProvider) != ""
}

// PlanConfigured reports whether the plan provider has a key
func (c *Config) PlanConfigured() bool {
	if c.PlanProvider == ProviderElevenLabs {
		return c.ElevenLabsAPIKey != ""
	}
	return c.apiKeyFor(c.PlanProvider) != ""
}

func (c *Config) apiKeyFor(provider string) string {
	switch provider {
	case ProviderGemini:
		return c.GeminiAPIKey
	case ProviderOpenAI:
		return c.OpenAIAPIKey
	default:
		return ""
	}
}
