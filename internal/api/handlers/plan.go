package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Conceptual-Machines/music-prompt-api/internal/models"
)

// PlanGenerator produces composition plans
type PlanGenerator interface {
	Generate(ctx context.Context, prompt string, lengthMs int) (*models.CompositionPlan, error)
	Provider() string
}

type PlanHandler struct {
	svc PlanGenerator
}

func NewPlanHandler(svc PlanGenerator) *PlanHandler {
	return &PlanHandler{svc: svc}
}

// Generate handles POST /plan
func (h *PlanHandler) Generate(c *gin.Context) {
	var req models.PlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindingError(c, err)
		return
	}

	lengthMs := req.LengthMs()
	plan, err := h.svc.Generate(c.Request.Context(), req.Prompt, lengthMs)
	if err != nil {
		respondProviderError(c, "plan", err)
		return
	}

	c.JSON(http.StatusOK, models.PlanResponse{
		Plan:          *plan,
		RequestID:     c.GetString("request_id"),
		Timestamp:     timestamp(),
		InputPrompt:   req.Prompt,
		MusicLengthMs: lengthMs,
		Provider:      h.svc.Provider(),
	})
}
