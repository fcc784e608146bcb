package api

import (
	"github.com/gin-gonic/gin"

	"github.com/Conceptual-Machines/music-prompt-api/internal/api/handlers"
	apimiddleware "github.com/Conceptual-Machines/music-prompt-api/internal/api/middleware"
	"github.com/Conceptual-Machines/music-prompt-api/internal/config"
	"github.com/Conceptual-Machines/music-prompt-api/internal/metrics"
)

// Services are the collaborators the routes call into
type Services struct {
	Prompt    handlers.PromptGenerator
	Plan      handlers.PlanGenerator
	Render    handlers.Renderer
	Providers handlers.ProviderStatus
	Metrics   metrics.Recorder
}

func SetupRouter(cfg *config.Config, svc Services, version string) *gin.Engine {
	router := gin.New()

	// Sentry must wrap recovery so the hub is on the context when a panic is captured
	router.Use(apimiddleware.SentryMiddleware())
	router.Use(apimiddleware.RecoverWithSentry())

	// Request tracking and structured logging
	router.Use(apimiddleware.RequestTracking(svc.Metrics))

	router.Use(apimiddleware.CORS(cfg.CORSOrigins))

	router.GET("/", handlers.Info(version))

	// Health checks
	healthHandler := handlers.NewHealthHandler(svc.Providers, version)
	router.GET("/health", healthHandler.HealthCheck)
	router.GET("/ready", healthHandler.Ready)
	router.GET("/alive", healthHandler.Alive)

	// Metrics endpoint
	metricsHandler := handlers.NewMetricsHandler(version, svc.Providers)
	router.GET("/api/metrics", metricsHandler.GetMetrics)

	router.GET("/api/presets", handlers.ListPresets)

	// Generation routes sit behind the gateway in hosted mode
	auth := apimiddleware.NoAuth()
	if cfg.IsGatewayMode() {
		auth = apimiddleware.GatewayAuth()
	}

	promptHandler := handlers.NewPromptHandler(svc.Prompt)
	router.POST("/prompt", auth, promptHandler.Generate)

	planHandler := handlers.NewPlanHandler(svc.Plan)
	router.POST("/plan", auth, planHandler.Generate)

	renderHandler := handlers.NewRenderHandler(svc.Render)
	render := router.Group("/render", auth)
	{
		render.POST("", renderHandler.Render)
		render.GET("/download/:filename", renderHandler.Download)
		render.GET("/stream/:filename", renderHandler.Stream)
	}

	return router
}
