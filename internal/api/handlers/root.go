package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

const serviceName = "music-prompt-api"

// Endpoint describes one public route
type Endpoint struct {
	Method      string `json:"method"`
	Path        string `json:"path"`
	Description string `json:"description"`
}

// Endpoints lists the public API surface
var Endpoints = []Endpoint{
	{http.MethodGet, "/health", "Provider configuration status"},
	{http.MethodGet, "/ready", "Readiness check"},
	{http.MethodGet, "/alive", "Liveness check"},
	{http.MethodGet, "/api/metrics", "Uptime and runtime metrics"},
	{http.MethodGet, "/api/presets", "Preset catalog"},
	{http.MethodPost, "/prompt", "Render a text-to-music prompt from presets"},
	{http.MethodPost, "/plan", "Create a composition plan from a prompt"},
	{http.MethodPost, "/render", "Render a composition plan to audio"},
	{http.MethodGet, downloadRoute + ":filename", "Download a rendered file"},
	{http.MethodGet, streamRoute + ":filename", "Stream a rendered file"},
}

// Info handles GET /
func Info(version string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"service":    serviceName,
			"version":    version,
			"endpoints":  Endpoints,
			"request_id": c.GetString("request_id"),
			"timestamp":  timestamp(),
		})
	}
}
