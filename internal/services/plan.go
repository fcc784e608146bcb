package services

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/Conceptual-Machines/music-prompt-api/internal/config"
	"github.com/Conceptual-Machines/music-prompt-api/internal/llm"
	"github.com/Conceptual-Machines/music-prompt-api/internal/logger"
	"github.com/Conceptual-Machines/music-prompt-api/internal/metrics"
	"github.com/Conceptual-Machines/music-prompt-api/internal/models"
	"github.com/Conceptual-Machines/music-prompt-api/internal/observability"
	"github.com/Conceptual-Machines/music-prompt-api/internal/prompt"
)

const planReasoningMode = "low"

// Planner creates composition plans through the music provider
type Planner interface {
	CreatePlan(ctx context.Context, prompt string, lengthMs int) (*models.CompositionPlan, error)
}

// PlanService turns a free-text prompt into a composition plan
type PlanService struct {
	providerName string
	planner      Planner
	llm          llm.Provider
	model        string
	loader       *prompt.Loader
	timeout      time.Duration
	langfuse     *observability.LangfuseClient
	metrics      metrics.Recorder
}

// NewPlanService creates a plan service. providerName selects the backend:
// elevenlabs uses planner, openai and gemini use provider with a JSON schema.
func NewPlanService(
	providerName string,
	planner Planner,
	provider llm.Provider,
	model string,
	timeout time.Duration,
	langfuse *observability.LangfuseClient,
	recorder metrics.Recorder,
) *PlanService {
	if recorder == nil {
		recorder = metrics.Combine()
	}
	return &PlanService{
		providerName: providerName,
		planner:      planner,
		llm:          provider,
		model:        model,
		loader:       prompt.NewPromptLoader(),
		timeout:      timeout,
		langfuse:     langfuse,
		metrics:      recorder,
	}
}

// Provider returns the configured backend name
func (s *PlanService) Provider() string {
	return s.providerName
}

// Configured reports whether the selected backend is usable
func (s *PlanService) Configured() bool {
	if s.providerName == config.ProviderElevenLabs {
		return s.planner != nil
	}
	return s.llm != nil
}

// Generate produces a composition plan for promptText of lengthMs milliseconds
func (s *PlanService) Generate(ctx context.Context, promptText string, lengthMs int) (*models.CompositionPlan, error) {
	if !s.Configured() {
		return nil, fmt.Errorf("%w: plan provider %s", ErrProviderNotConfigured, s.providerName)
	}

	callCtx, cancel := detach(ctx, s.timeout)
	defer cancel()

	start := time.Now()
	var (
		plan *models.CompositionPlan
		err  error
	)
	if s.providerName == config.ProviderElevenLabs {
		plan, err = s.planner.CreatePlan(callCtx, promptText, lengthMs)
	} else {
		plan, err = s.generateWithLLM(callCtx, promptText, lengthMs)
	}
	duration := time.Since(start)

	s.metrics.RecordProviderCall(ctx, s.providerName, "plan", duration, err == nil)
	logger.LogProviderCall(ctx, s.providerName, "plan", duration, err, logger.Fields{"music_length_ms": lengthMs})
	if err != nil {
		return nil, err
	}
	return plan, nil
}

func (s *PlanService) generateWithLLM(ctx context.Context, promptText string, lengthMs int) (*models.CompositionPlan, error) {
	instructions, err := s.loader.GetPlanInstructions()
	if err != nil {
		return nil, err
	}

	input := llm.UserMessage(fmt.Sprintf("Target length: %d ms\n\n%s", lengthMs, promptText))

	trace := s.langfuse.StartTrace(ctx, "plan.generate", map[string]interface{}{"music_length_ms": lengthMs})
	defer trace.Finish()
	gen := trace.Generation("composition_plan", map[string]interface{}{"provider": s.llm.Name()})
	defer gen.Finish()

	resp, err := s.llm.Generate(ctx, &llm.GenerationRequest{
		Model:         s.model,
		InputArray:    input,
		ReasoningMode: planReasoningMode,
		SystemPrompt:  instructions,
		OutputSchema:  llm.CompositionPlanSchema(),
	})
	if err != nil {
		gen.LogError(err)
		return nil, err
	}

	usage := observability.ExtractUsage(resp.Usage)
	gen.LogResult(resp.Model, input, resp.RawOutput, usage)
	s.metrics.RecordTokenUsage(ctx, s.llm.Name(), resp.Model, usage.Input, usage.Output+usage.Reasoning)

	plan, err := llm.ParseCompositionPlan(resp.RawOutput)
	if err != nil {
		return nil, &llm.ProviderError{Provider: s.llm.Name(), Err: err}
	}
	FitDurations(&plan, lengthMs)
	return &plan, nil
}

// FitDurations rescales section durations so they sum to lengthMs. Every
// section keeps at least models.MinSectionMs, or an even share of lengthMs when
// there are too many sections for that. Rounding error goes to the last section.
func FitDurations(plan *models.CompositionPlan, lengthMs int) {
	n := len(plan.Sections)
	if n == 0 || lengthMs <= 0 {
		return
	}

	floor := models.MinSectionMs
	if n*floor > lengthMs {
		floor = lengthMs / n
	}

	var weight int64
	shortest := math.MaxInt
	for _, s := range plan.Sections {
		weight += sectionWeight(s.DurationMs)
		shortest = min(shortest, s.DurationMs)
	}
	if shortest >= floor && plan.TotalDurationMs() == lengthMs {
		return
	}

	spare := int64(lengthMs - n*floor)
	assigned := 0
	last := n - 1
	for i := range plan.Sections {
		if i == last {
			plan.Sections[i].DurationMs = lengthMs - assigned
			break
		}
		share := spare / int64(n)
		if weight > 0 {
			share = spare * sectionWeight(plan.Sections[i].DurationMs) / weight
		}
		d := floor + int(share)
		plan.Sections[i].DurationMs = d
		assigned += d
	}
}

// sectionWeight clamps a proposed duration into the accepted section range
func sectionWeight(ms int) int64 {
	return int64(max(0, min(ms, models.MaxMusicLengthMs)))
}
