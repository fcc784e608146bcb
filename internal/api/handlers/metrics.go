package handlers

import (
	"net/http"
	"runtime"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Conceptual-Machines/music-prompt-api/internal/presets"
)

const bytesPerMB = 1 << 20

// MetricsHandler reports process and configuration state for dashboards
type MetricsHandler struct {
	started   time.Time
	version   string
	providers ProviderStatus
	catalog   PresetCounts
}

func NewMetricsHandler(version string, providers ProviderStatus) *MetricsHandler {
	return &MetricsHandler{
		started:   time.Now(),
		version:   version,
		providers: providers,
		catalog: PresetCounts{
			ProjectBlueprints:  len(presets.BlueprintIDs()),
			SoundProfiles:      len(presets.ProfileIDs()),
			DeliveryAndControl: len(presets.DeliveryIDs()),
		},
	}
}

type MetricsResponse struct {
	Version       string         `json:"version"`
	StartedAt     string         `json:"started_at"`
	Uptime        string         `json:"uptime"`
	UptimeSeconds int64          `json:"uptime_seconds"`
	Runtime       RuntimeStats   `json:"runtime"`
	Providers     ProviderStatus `json:"providers"`
	Presets       PresetCounts   `json:"presets"`
	Timestamp     string         `json:"timestamp"`
}

type RuntimeStats struct {
	GoVersion   string `json:"go_version"`
	Goroutines  int    `json:"goroutines"`
	HeapAllocMB uint64 `json:"heap_alloc_mb"`
	SysMB       uint64 `json:"sys_mb"`
	GCCycles    uint32 `json:"gc_cycles"`
}

// PresetCounts is the size of each catalog axis
type PresetCounts struct {
	ProjectBlueprints  int `json:"project_blueprints"`
	SoundProfiles      int `json:"sound_profiles"`
	DeliveryAndControl int `json:"delivery_and_control"`
}

// GetMetrics handles GET /api/metrics
func (h *MetricsHandler) GetMetrics(c *gin.Context) {
	c.JSON(http.StatusOK, h.snapshot(time.Now()))
}

func (h *MetricsHandler) snapshot(now time.Time) MetricsResponse {
	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)

	uptime := now.Sub(h.started)
	return MetricsResponse{
		Version:       h.version,
		StartedAt:     h.started.UTC().Format(time.RFC3339),
		Uptime:        uptime.Round(time.Second).String(),
		UptimeSeconds: int64(uptime / time.Second),
		Runtime: RuntimeStats{
			GoVersion:   runtime.Version(),
			Goroutines:  runtime.NumGoroutine(),
			HeapAllocMB: mem.HeapAlloc / bytesPerMB,
			SysMB:       mem.Sys / bytesPerMB,
			GCCycles:    mem.NumGC,
		},
		Providers: h.providers,
		Presets:   h.catalog,
		Timestamp: now.UTC().Format(time.RFC3339),
	}
}
