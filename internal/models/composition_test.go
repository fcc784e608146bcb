package models

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompositionPlanTotalDuration(t *testing.T) {
	plan := CompositionPlan{
		Sections: []PlanSection{
			{SectionName: "Intro", DurationMs: 4000},
			{SectionName: "Hook", DurationMs: 16000},
			{SectionName: "Outro", DurationMs: 10000},
		},
	}
	assert.Equal(t, 30000, plan.TotalDurationMs())
}

func TestCompositionPlanTotalDurationSaturates(t *testing.T) {
	plan := CompositionPlan{Sections: []PlanSection{
		{SectionName: "a", DurationMs: math.MaxInt},
		{SectionName: "b", DurationMs: 2},
	}}
	assert.Equal(t, math.MaxInt, plan.TotalDurationMs())
}

func TestCompositionPlanNormalize(t *testing.T) {
	plan := CompositionPlan{Sections: []PlanSection{{SectionName: "Intro", DurationMs: 3000}}}
	plan.Normalize()

	data, err := json.Marshal(plan)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "null")
	assert.Contains(t, string(data), `"lines":[]`)
}

func TestPlanRequestLength(t *testing.T) {
	assert.Equal(t, DefaultMusicLengthMs, PlanRequest{Prompt: "x"}.LengthMs())

	length := 10000
	assert.Equal(t, 10000, PlanRequest{Prompt: "x", MusicLengthMs: &length}.LengthMs())
}

func TestPromptRequestDecodesEmbeddedFields(t *testing.T) {
	var req PromptRequest
	body := `{"project_blueprint":"meditation_sleep","instrumental_only":true,"refine":true}`
	require.NoError(t, json.Unmarshal([]byte(body), &req))

	require.NotNil(t, req.ProjectBlueprint)
	assert.Equal(t, "meditation_sleep", *req.ProjectBlueprint)
	require.NotNil(t, req.InstrumentalOnly)
	assert.True(t, *req.InstrumentalOnly)
	assert.Nil(t, req.SoundProfile)
	assert.True(t, req.Refine)
}
