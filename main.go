package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/Conceptual-Machines/music-prompt-api/internal/api"
	"github.com/Conceptual-Machines/music-prompt-api/internal/api/handlers"
	"github.com/Conceptual-Machines/music-prompt-api/internal/config"
	"github.com/Conceptual-Machines/music-prompt-api/internal/elevenlabs"
	"github.com/Conceptual-Machines/music-prompt-api/internal/llm"
	"github.com/Conceptual-Machines/music-prompt-api/internal/metrics"
	"github.com/Conceptual-Machines/music-prompt-api/internal/observability"
	"github.com/Conceptual-Machines/music-prompt-api/internal/services"
	"github.com/Conceptual-Machines/music-prompt-api/internal/storage"
)

const (
	sentryFlushTimeout = 2 * time.Second
	shutdownTimeout    = 30 * time.Second
	readHeaderTimeout  = 10 * time.Second
	// renders can take minutes, the write deadline leaves headroom over RENDER_TIMEOUT_SECONDS
	writeTimeoutSlack = 30 * time.Second
)

// releaseVersion is set via ldflags during build
var releaseVersion = "dev"

// GetVersion returns the current release version
func GetVersion() string {
	return releaseVersion
}

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	// Load configuration
	cfg := config.Load()

	// Initialize Sentry
	if cfg.SentryDSN != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:              cfg.SentryDSN,
			Environment:      cfg.Environment,
			Release:          "music-prompt-api@" + releaseVersion,
			EnableTracing:    true,
			TracesSampleRate: 1.0,
			EnableLogs:       true,
			Debug:            !cfg.IsProduction(),
			BeforeSend: func(event *sentry.Event, _ *sentry.EventHint) *sentry.Event {
				// Filter out sensitive data
				if event.Request != nil {
					event.Request.Headers = filterSensitiveHeaders(event.Request.Headers)
				}
				return event
			},
		}); err != nil {
			log.Printf("Failed to initialize Sentry: %v", err)
		} else {
			log.Printf("✅ Sentry initialized (environment: %s, release: %s)", cfg.Environment, releaseVersion)
			defer sentry.Flush(sentryFlushTimeout)
		}
	} else {
		log.Println("⚠️  Sentry not configured (SENTRY_DSN not set)")
	}

	ctx := context.Background()

	// Set Gin mode
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	svc, err := buildServices(ctx, cfg)
	if err != nil {
		sentry.CaptureException(err)
		log.Fatal("Failed to initialize services: ", err)
	}

	router := api.SetupRouter(cfg, svc, GetVersion())

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: readHeaderTimeout,
		WriteTimeout:      cfg.RenderTimeout + writeTimeoutSlack,
	}

	go func() {
		log.Printf("🚀 Starting server on port %s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			sentry.CaptureException(err)
			log.Fatal("Failed to start server: ", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	log.Println("🛑 Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server shutdown error: %v", err)
	}
}

// buildServices wires providers, storage and observability into the route services
func buildServices(ctx context.Context, cfg *config.Config) (api.Services, error) {
	cloudwatch, err := metrics.NewClient(ctx, cfg.Environment)
	if err != nil {
		return api.Services{}, err
	}
	recorder := metrics.Combine(cloudwatch, metrics.NewSentryMetrics(cfg.SentryDSN != ""))

	langfuse := observability.InitializeLangfuse(ctx, cfg)
	factory := llm.NewProviderFactory(cfg.OpenAIAPIKey, cfg.GeminiAPIKey)
	if !factory.Configured() {
		log.Println("⚠️  No LLM keys set (OPENAI_API_KEY, GEMINI_API_KEY): prompts are returned unrefined")
	}

	var promptProvider llm.Provider
	if cfg.PromptRefinementConfigured() {
		promptProvider, err = factory.GetProvider(ctx, cfg.PromptModel, cfg.PromptProvider)
		if err != nil {
			log.Printf("⚠️  Prompt refinement disabled: %v", err)
			promptProvider = nil
		}
	} else {
		log.Printf("⚠️  Prompt refinement disabled (no key for %s)", cfg.PromptProvider)
	}

	// Only assign the client when a key is set so the interfaces stay nil otherwise
	var planner services.Planner
	var composer services.Composer
	if cfg.ElevenLabsAPIKey != "" {
		client := elevenlabs.NewClient(cfg.ElevenLabsAPIKey, cfg.RenderTimeout,
			elevenlabs.WithBaseURL(cfg.ElevenLabsBaseURL),
			elevenlabs.WithModelID(cfg.ElevenLabsModelID),
		)
		planner = client
		composer = client
		log.Printf("🎹 ElevenLabs music: ✅ ENABLED (model: %s)", cfg.ElevenLabsModelID)
	} else {
		log.Println("⚠️  ElevenLabs music not configured (ELEVENLABS_API_KEY not set)")
	}

	var planProvider llm.Provider
	if cfg.PlanProvider != config.ProviderElevenLabs && cfg.PlanConfigured() {
		planProvider, err = factory.GetProvider(ctx, cfg.PlanModel, cfg.PlanProvider)
		if err != nil {
			log.Printf("⚠️  LLM composition plans disabled: %v", err)
			planProvider = nil
		}
	}

	store, err := newStore(cfg)
	if err != nil {
		return api.Services{}, err
	}

	promptService := services.NewPromptService(promptProvider, cfg.PromptModel, cfg.ProviderTimeout, langfuse, recorder)
	planService := services.NewPlanService(cfg.PlanProvider, planner, planProvider, cfg.PlanModel, cfg.ProviderTimeout, langfuse, recorder)
	renderService := services.NewRenderService(composer, store, cfg.RenderTimeout, recorder)

	return api.Services{
		Prompt: promptService,
		Plan:   planService,
		Render: renderService,
		Providers: handlers.ProviderStatus{
			PromptProvider:   cfg.PromptProvider,
			PromptConfigured: promptService.CanRefine(),
			PlanProvider:     planService.Provider(),
			PlanConfigured:   planService.Configured(),
			RenderConfigured: renderService.Configured(),
			Storage:          store.Name(),
		},
		Metrics: recorder,
	}, nil
}

func newStore(cfg *config.Config) (storage.Store, error) {
	if cfg.AudioStorage == config.StorageS3 {
		return storage.NewS3Store(cfg.AWSRegion, cfg.S3Bucket, cfg.S3Prefix)
	}
	return storage.NewLocalStore(cfg.RenderOutputDir)
}

func filterSensitiveHeaders(headers map[string]string) map[string]string {
	filtered := make(map[string]string)
	sensitiveKeys := map[string]bool{
		"authorization": true,
		"cookie":        true,
		"x-api-key":     true,
		"xi-api-key":    true,
	}

	for k, v := range headers {
		if sensitiveKeys[strings.ToLower(k)] {
			filtered[k] = "[REDACTED]"
		} else {
			filtered[k] = v
		}
	}
	return filtered
}
