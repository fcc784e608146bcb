package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetCompositionPlanSchema(t *testing.T) {
	schema := GetCompositionPlanSchema()
	assert.Equal(t, "object", schema["type"])
	assert.Equal(t, false, schema["additionalProperties"])

	props, ok := schema["properties"].(map[string]any)
	require.True(t, ok)
	for _, key := range schema["required"].([]string) {
		assert.Contains(t, props, key)
	}
}

func TestParseCompositionPlan(t *testing.T) {
	raw := "```json\n" + `{
		"positive_global_styles": ["lofi hip hop", "80 bpm"],
		"negative_global_styles": ["vocals"],
		"sections": [
			{"section_name": "Intro", "positive_local_styles": ["soft keys"], "negative_local_styles": [], "duration_ms": 10000, "lines": []},
			{"section_name": "Bed", "positive_local_styles": [], "negative_local_styles": [], "duration_ms": 20000}
		]
	}` + "\n```"

	plan, err := ParseCompositionPlan(raw)
	require.NoError(t, err)
	assert.Len(t, plan.Sections, 2)
	assert.Equal(t, 30000, plan.TotalDurationMs())
	assert.NotNil(t, plan.Sections[1].Lines)
}

func TestParseCompositionPlanErrors(t *testing.T) {
	_, err := ParseCompositionPlan("not json")
	assert.Error(t, err)

	_, err = ParseCompositionPlan(`{"sections": []}`)
	assert.Error(t, err)
}
