package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// ProviderStatus is what the health endpoint reports about the upstreams
type ProviderStatus struct {
	PromptProvider   string `json:"prompt_provider"`
	PromptConfigured bool   `json:"prompt_refinement_configured"`
	PlanProvider     string `json:"plan_provider"`
	PlanConfigured   bool   `json:"plan_configured"`
	RenderConfigured bool   `json:"render_configured"`
	Storage          string `json:"storage"`
}

type HealthHandler struct {
	status  ProviderStatus
	version string
}

func NewHealthHandler(status ProviderStatus, version string) *HealthHandler {
	return &HealthHandler{status: status, version: version}
}

// HealthCheck reports degraded (503) when neither prompt refinement nor the music provider is available.
// Deterministic prompt rendering needs no provider and always works.
func (h *HealthHandler) HealthCheck(c *gin.Context) {
	status, code := "healthy", http.StatusOK
	if !h.status.PromptConfigured && !h.status.RenderConfigured {
		status, code = "degraded", http.StatusServiceUnavailable
	}

	c.JSON(code, gin.H{
		"status":     status,
		"version":    h.version,
		"providers":  h.status,
		"request_id": c.GetString("request_id"),
		"timestamp":  timestamp(),
	})
}

// Ready handles GET /ready
func (h *HealthHandler) Ready(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ready"})
}

// Alive handles GET /alive
func (h *HealthHandler) Alive(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "alive"})
}
