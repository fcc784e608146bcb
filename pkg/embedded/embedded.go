package embedded

import (
	_ "embed"
)

// Instructions sent to language-model providers
//
//go:embed data/refine_system_prompt.txt
var RefineSystemPromptTxt []byte

//go:embed data/plan_system_prompt.txt
var PlanSystemPromptTxt []byte
