package observability

import (
	"testing"

	"github.com/openai/openai-go/responses"
	"github.com/stretchr/testify/assert"
	"google.golang.org/genai"
)

func TestExtractUsageOpenAI(t *testing.T) {
	usage := responses.ResponseUsage{InputTokens: 100, OutputTokens: 50, TotalTokens: 150}
	usage.OutputTokensDetails.ReasoningTokens = 20

	got := ExtractUsage(usage)
	assert.Equal(t, TokenUsage{Input: 100, Output: 30, Reasoning: 20}, got)
	assert.Equal(t, 150, got.Total())
}

func TestExtractUsageGemini(t *testing.T) {
	got := ExtractUsage(&genai.GenerateContentResponseUsageMetadata{
		PromptTokenCount:     40,
		CandidatesTokenCount: 60,
		ThoughtsTokenCount:   5,
	})
	assert.Equal(t, TokenUsage{Input: 40, Output: 60, Reasoning: 5}, got)

	var nilMeta *genai.GenerateContentResponseUsageMetadata
	assert.Equal(t, TokenUsage{}, ExtractUsage(nilMeta))
	assert.Equal(t, TokenUsage{}, ExtractUsage("unknown"))
}

func TestCalculateCostUsesLongestPrefix(t *testing.T) {
	usage := TokenUsage{Input: 1000, Output: 1000}

	assert.InDelta(t, 0.00225, CalculateCost("gpt-5-mini", usage), 1e-9)
	assert.InDelta(t, 0.00225, CalculateCost("gpt-5-mini-2025-08-07", usage), 1e-9)
	assert.InDelta(t, 0.01125, CalculateCost("gpt-5", usage), 1e-9)
	assert.InDelta(t, 0.00225, CalculateCost("unknown-model", usage), 1e-9)
}

func TestCalculateCostBillsReasoningAsOutput(t *testing.T) {
	withReasoning := CalculateCost("gpt-5-mini", TokenUsage{Output: 500, Reasoning: 500})
	plain := CalculateCost("gpt-5-mini", TokenUsage{Output: 1000})
	assert.InDelta(t, plain, withReasoning, 1e-12)
}

func TestFormatCost(t *testing.T) {
	assert.Equal(t, "$0.002250", FormatCost(0.00225))
}

func TestDisabledTraceIsNoop(t *testing.T) {
	client := Disabled()
	assert.False(t, client.IsEnabled())

	trace := client.StartTrace(t.Context(), "prompt.refine", nil)
	gen := trace.Generation("refine", nil)
	assert.False(t, gen.Enabled())

	gen.LogResult("gpt-5-mini", "in", "out", TokenUsage{Input: 1})
	gen.LogError(assert.AnError)
	gen.Finish()
	trace.Finish()

	var nilClient *LangfuseClient
	assert.False(t, nilClient.IsEnabled())
}
