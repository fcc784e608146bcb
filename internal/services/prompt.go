package services

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/getsentry/sentry-go"

	"github.com/Conceptual-Machines/music-prompt-api/internal/llm"
	"github.com/Conceptual-Machines/music-prompt-api/internal/logger"
	"github.com/Conceptual-Machines/music-prompt-api/internal/metrics"
	"github.com/Conceptual-Machines/music-prompt-api/internal/observability"
	"github.com/Conceptual-Machines/music-prompt-api/internal/presets"
	"github.com/Conceptual-Machines/music-prompt-api/internal/prompt"
)

const refineReasoningMode = "low"

var fencedBlock = regexp.MustCompile("(?s)```[a-zA-Z]*\\s*\\n(.*?)\\n?```")

// PromptResult is a rendered prompt, possibly refined by an LLM
type PromptResult struct {
	prompt.Result
	Text    string
	Title   string
	Refined bool
	Model   string
}

// PromptService renders prompts and optionally refines them
type PromptService struct {
	builder  *prompt.Builder
	loader   *prompt.Loader
	provider llm.Provider
	model    string
	timeout  time.Duration
	langfuse *observability.LangfuseClient
	metrics  metrics.Recorder
}

// NewPromptService creates a prompt service. provider may be nil, which disables refinement.
func NewPromptService(
	provider llm.Provider,
	model string,
	timeout time.Duration,
	langfuse *observability.LangfuseClient,
	recorder metrics.Recorder,
) *PromptService {
	if recorder == nil {
		recorder = metrics.Combine()
	}
	return &PromptService{
		builder:  prompt.NewPromptBuilder(),
		loader:   prompt.NewPromptLoader(),
		provider: provider,
		model:    model,
		timeout:  timeout,
		langfuse: langfuse,
		metrics:  recorder,
	}
}

// CanRefine reports whether a refinement provider is available
func (s *PromptService) CanRefine() bool {
	return s.provider != nil
}

// Generate renders the prompt for req and, when refine is set, polishes it with the LLM
func (s *PromptService) Generate(ctx context.Context, req presets.Request, refine bool) (*PromptResult, error) {
	result := s.builder.Build(req)
	if len(result.Resolved.Defaulted) > 0 {
		logger.Debug("Preset axes defaulted", logger.Fields{"axes": result.Resolved.Defaulted})
	}

	out := &PromptResult{
		Result: result,
		Text:   result.Rendered.String(),
		Title:  result.Rendered.Title,
	}
	if !refine {
		return out, nil
	}
	if s.provider == nil {
		logger.Warn("Refinement requested but no provider is configured", nil)
		return out, nil
	}

	title, body, model, err := s.refine(ctx, result)
	if err != nil {
		return nil, err
	}

	refined := prompt.Rendered{Title: title, Body: body}
	if err := checkRefined(refined, result); err != nil {
		logger.LogToSentry(sentry.LevelWarning, "Refined prompt rejected, keeping rendered prompt", logger.Fields{
			"model": model,
			"error": err.Error(),
		})
		return out, nil
	}

	out.Text = refined.String()
	out.Title = title
	out.Refined = true
	out.Model = model
	return out, nil
}

func (s *PromptService) refine(ctx context.Context, result prompt.Result) (string, string, string, error) {
	instructions, err := s.loader.GetRefineInstructions()
	if err != nil {
		return "", "", "", err
	}

	callCtx, cancel := detach(ctx, s.timeout)
	defer cancel()

	draft := result.Rendered.String()
	input := llm.UserMessage(draft)

	trace := s.langfuse.StartTrace(callCtx, "prompt.refine", map[string]interface{}{
		"project_blueprint":    string(result.Resolved.Request.ProjectBlueprint),
		"sound_profile":        string(result.Resolved.Request.SoundProfile),
		"delivery_and_control": string(result.Resolved.Request.DeliveryAndControl),
	})
	defer trace.Finish()
	gen := trace.Generation("refine", map[string]interface{}{"provider": s.provider.Name()})
	defer gen.Finish()

	start := time.Now()
	resp, err := s.provider.Generate(callCtx, &llm.GenerationRequest{
		Model:         s.model,
		InputArray:    input,
		ReasoningMode: refineReasoningMode,
		SystemPrompt:  instructions,
	})
	duration := time.Since(start)
	s.metrics.RecordProviderCall(ctx, s.provider.Name(), "refine", duration, err == nil)
	logger.LogProviderCall(ctx, s.provider.Name(), "refine", duration, err, logger.Fields{"model": s.model})
	if err != nil {
		gen.LogError(err)
		return "", "", "", err
	}

	usage := observability.ExtractUsage(resp.Usage)
	s.metrics.RecordTokenUsage(ctx, s.provider.Name(), resp.Model, usage.Input, usage.Output+usage.Reasoning)
	gen.LogResult(resp.Model, input, resp.RawOutput, usage)

	title, body := splitRefined(resp.RawOutput, result.Rendered.Title)
	return title, body, resp.Model, nil
}

// checkRefined holds a refinement to the same prose contract as the rendered
// prompt. Pinned tempos must survive unchanged.
func checkRefined(refined prompt.Rendered, result prompt.Result) error {
	if err := prompt.ValidateProse(refined, result.Attributes.VocalsActive()); err != nil {
		return err
	}
	if result.Attributes.Style == presets.StyleExploratory {
		return nil
	}
	if got, want := prompt.BPMMention(refined.Body), prompt.BPMMention(result.Rendered.Body); got != want {
		return fmt.Errorf("%w: %q instead of %q", prompt.ErrTempoCount, got, want)
	}
	return nil
}

// splitRefined separates a "title line + fenced block" answer. Without a fence
// the whole answer is the body and fallbackTitle is kept.
func splitRefined(raw, fallbackTitle string) (string, string) {
	raw = strings.TrimSpace(raw)
	loc := fencedBlock.FindStringSubmatchIndex(raw)
	if loc == nil {
		return fallbackTitle, raw
	}

	body := strings.TrimSpace(raw[loc[2]:loc[3]])
	title := strings.TrimSpace(raw[:loc[0]])
	title = strings.Trim(strings.SplitN(title, "\n", 2)[0], "# *")
	if title == "" {
		title = fallbackTitle
	}
	return title, body
}
