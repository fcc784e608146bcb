package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Conceptual-Machines/music-prompt-api/internal/logger"
	"github.com/Conceptual-Machines/music-prompt-api/internal/models"
	"github.com/Conceptual-Machines/music-prompt-api/internal/presets"
	"github.com/Conceptual-Machines/music-prompt-api/internal/services"
)

// PromptGenerator renders (and optionally refines) prompts
type PromptGenerator interface {
	Generate(ctx context.Context, req presets.Request, refine bool) (*services.PromptResult, error)
}

type PromptHandler struct {
	svc PromptGenerator
}

func NewPromptHandler(svc PromptGenerator) *PromptHandler {
	return &PromptHandler{svc: svc}
}

// Generate handles POST /prompt. Unknown preset ids fall back to defaults and never fail.
func (h *PromptHandler) Generate(c *gin.Context) {
	var req models.PromptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindingError(c, err)
		return
	}

	result, err := h.svc.Generate(c.Request.Context(), req.Request, req.Refine)
	if err != nil {
		respondProviderError(c, "refine", err)
		return
	}

	fields := logger.WithContext(c)
	fields["project_blueprint"] = string(result.Resolved.Request.ProjectBlueprint)
	fields["sound_profile"] = string(result.Resolved.Request.SoundProfile)
	fields["delivery_and_control"] = string(result.Resolved.Request.DeliveryAndControl)
	fields["refined"] = result.Refined
	logger.Info("🎼 Prompt generated", fields)

	c.JSON(http.StatusOK, models.PromptResponse{
		Prompt:          result.Text,
		Title:           result.Title,
		RequestID:       c.GetString("request_id"),
		Timestamp:       timestamp(),
		InputParameters: result.Resolved.Request,
		RulesApplied:    result.Attributes.Applied,
		Refined:         result.Refined,
		Model:           result.Model,
	})
}
