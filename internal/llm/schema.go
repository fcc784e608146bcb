package llm

import (
	"encoding/json"
	"fmt"

	"github.com/Conceptual-Machines/music-prompt-api/internal/models"
)

const (
	// Section duration bounds accepted by the music provider
	sectionDurationMinMs = 3000
	sectionDurationMaxMs = 120000

	compositionPlanSchemaName = "composition_plan"
)

// GetCompositionPlanSchema returns the JSON schema for a composition plan.
// OpenAI strict mode requires additionalProperties: false and every property in required.
func GetCompositionPlanSchema() map[string]any {
	stringList := map[string]any{
		"type":  "array",
		"items": map[string]any{"type": "string"},
	}

	section := map[string]any{
		"type": "object",
		"properties": map[string]any{
			"section_name":          map[string]any{"type": "string", "description": "Short section label such as Intro or Chorus"},
			"positive_local_styles": stringList,
			"negative_local_styles": stringList,
			"duration_ms": map[string]any{
				"type":    "integer",
				"minimum": sectionDurationMinMs,
				"maximum": sectionDurationMaxMs,
			},
			"lines": stringList,
		},
		"required":             []string{"section_name", "positive_local_styles", "negative_local_styles", "duration_ms", "lines"},
		"additionalProperties": false,
	}

	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"positive_global_styles": stringList,
			"negative_global_styles": stringList,
			"sections": map[string]any{
				"type":  "array",
				"items": section,
			},
		},
		"required":             []string{"positive_global_styles", "negative_global_styles", "sections"},
		"additionalProperties": false,
	}
}

// CompositionPlanSchema wraps GetCompositionPlanSchema for a GenerationRequest
func CompositionPlanSchema() *OutputSchema {
	return &OutputSchema{
		Name:        compositionPlanSchemaName,
		Description: "Composition plan for a text-to-music renderer",
		Schema:      GetCompositionPlanSchema(),
	}
}

// ParseCompositionPlan decodes schema-constrained output into a plan
func ParseCompositionPlan(raw string) (models.CompositionPlan, error) {
	var plan models.CompositionPlan
	if err := json.Unmarshal([]byte(extractAndCleanTextOutput(raw)), &plan); err != nil {
		return models.CompositionPlan{}, fmt.Errorf("failed to parse composition plan: %w", err)
	}
	if len(plan.Sections) == 0 {
		return models.CompositionPlan{}, fmt.Errorf("composition plan has no sections")
	}
	plan.Normalize()
	return plan, nil
}
