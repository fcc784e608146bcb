package observability

import (
	"errors"
	"testing"

	"github.com/henomis/langfuse-go/model"
	"github.com/stretchr/testify/assert"
)

func TestGenerationLogErrorMarksLevel(t *testing.T) {
	gen := &Generation{generation: &model.Generation{}, enabled: true}

	gen.LogError(errors.New("upstream timeout"))
	assert.Equal(t, model.ObservationLevelError, gen.generation.Level)
	assert.Equal(t, "upstream timeout", gen.generation.StatusMessage)

	gen.LogError(nil)
	assert.Equal(t, "upstream timeout", gen.generation.StatusMessage)
}

func TestDisabledGenerationIsNoop(t *testing.T) {
	gen := Disabled().StartTrace(t.Context(), "prompt.refine", nil).Generation("refine", nil)
	assert.False(t, gen.Enabled())

	assert.NotPanics(t, func() {
		gen.LogError(errors.New("x"))
		gen.SetLevel(model.ObservationLevelError)
		gen.Finish()
	})
}
