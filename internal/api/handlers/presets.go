package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Conceptual-Machines/music-prompt-api/internal/presets"
)

// ListPresets handles GET /api/presets
func ListPresets(c *gin.Context) {
	c.JSON(http.StatusOK, presets.Catalog())
}
