package observability

import (
	"strconv"
	"strings"

	"github.com/openai/openai-go/responses"
	"google.golang.org/genai"
)

// Pricing constants
const (
	tokensPerKilo       = 1000.0
	costFormatPrecision = 6

	defaultPricingModel = "gpt-5-mini"
)

// ModelPricing contains pricing information per 1K tokens
type ModelPricing struct {
	InputPricePer1K  float64 // Price per 1K input tokens in USD
	OutputPricePer1K float64 // Price per 1K output tokens in USD
}

// PricingTable contains pricing for the models used for refinement and planning
var PricingTable = map[string]ModelPricing{
	"gpt-5":            {InputPricePer1K: 0.00125, OutputPricePer1K: 0.01},
	"gpt-5-mini":       {InputPricePer1K: 0.00025, OutputPricePer1K: 0.002},
	"gpt-5-nano":       {InputPricePer1K: 0.00005, OutputPricePer1K: 0.0004},
	"gpt-4.1-mini":     {InputPricePer1K: 0.0004, OutputPricePer1K: 0.0016},
	"gpt-4o-mini":      {InputPricePer1K: 0.00015, OutputPricePer1K: 0.0006},
	"gemini-2.5-flash": {InputPricePer1K: 0.0003, OutputPricePer1K: 0.0025},
	"gemini-2.5-pro":   {InputPricePer1K: 0.00125, OutputPricePer1K: 0.01},
}

// TokenUsage is provider-neutral token accounting
type TokenUsage struct {
	Input     int
	Output    int
	Reasoning int
}

// Total returns all billed tokens
func (u TokenUsage) Total() int {
	return u.Input + u.Output + u.Reasoning
}

// ExtractUsage reads token counts from an OpenAI or Gemini usage value
func ExtractUsage(usage any) TokenUsage {
	switch u := usage.(type) {
	case responses.ResponseUsage:
		return TokenUsage{
			Input:     int(u.InputTokens),
			Output:    int(u.OutputTokens) - int(u.OutputTokensDetails.ReasoningTokens),
			Reasoning: int(u.OutputTokensDetails.ReasoningTokens),
		}
	case *responses.ResponseUsage:
		if u == nil {
			return TokenUsage{}
		}
		return ExtractUsage(*u)
	case *genai.GenerateContentResponseUsageMetadata:
		if u == nil {
			return TokenUsage{}
		}
		return TokenUsage{
			Input:     int(u.PromptTokenCount),
			Output:    int(u.CandidatesTokenCount),
			Reasoning: int(u.ThoughtsTokenCount),
		}
	default:
		return TokenUsage{}
	}
}

// lookupPricing matches the longest known model prefix, so dated variants
// such as gpt-5-mini-2025-08-07 use their base model's price
func lookupPricing(modelName string) ModelPricing {
	best := ""
	for name := range PricingTable {
		if strings.HasPrefix(modelName, name) && len(name) > len(best) {
			best = name
		}
	}
	if best == "" {
		best = defaultPricingModel
	}
	return PricingTable[best]
}

// CalculateCost calculates the cost in USD for an LLM call.
// Reasoning tokens are billed as output.
func CalculateCost(modelName string, usage TokenUsage) float64 {
	pricing := lookupPricing(modelName)
	inputCost := (float64(usage.Input) / tokensPerKilo) * pricing.InputPricePer1K
	outputCost := (float64(usage.Output+usage.Reasoning) / tokensPerKilo) * pricing.OutputPricePer1K
	return inputCost + outputCost
}

// FormatCost formats a cost value as a USD string
func FormatCost(cost float64) string {
	return "$" + strconv.FormatFloat(cost, 'f', costFormatPrecision, 64)
}
