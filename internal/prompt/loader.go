package prompt

import (
	"strings"

	"github.com/Conceptual-Machines/music-prompt-api/pkg/embedded"
)

type Loader struct{}

func NewPromptLoader() *Loader {
	return &Loader{}
}

// GetRefineInstructions loads the system prompt used to polish a rendered prompt
func (l *Loader) GetRefineInstructions() (string, error) {
	return strings.TrimSpace(string(embedded.RefineSystemPromptTxt)), nil
}

// GetPlanInstructions loads the system prompt used for LLM composition plans
func (l *Loader) GetPlanInstructions() (string, error) {
	return strings.TrimSpace(string(embedded.PlanSystemPromptTxt)), nil
}
