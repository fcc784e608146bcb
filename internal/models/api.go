package models

import "github.com/Conceptual-Machines/music-prompt-api/internal/presets"

// PromptRequest is the body of POST /prompt
type PromptRequest struct {
	presets.Request
	Refine bool `json:"refine"`
}

// PromptResponse is returned by POST /prompt
type PromptResponse struct {
	Prompt          string                  `json:"prompt"`
	Title           string                  `json:"title"`
	RequestID       string                  `json:"request_id"`
	Timestamp       string                  `json:"timestamp"`
	InputParameters presets.ResolvedRequest `json:"input_parameters"`
	RulesApplied    []string                `json:"rules_applied"`
	Refined         bool                    `json:"refined"`
	Model           string                  `json:"model,omitempty"`
}

// PlanRequest is the body of POST /plan
type PlanRequest struct {
	Prompt        string `json:"prompt" binding:"required"`
	MusicLengthMs *int   `json:"music_length_ms" binding:"omitempty,min=1000,max=300000"`
}

// LengthMs returns the requested length or the default
func (r PlanRequest) LengthMs() int {
	if r.MusicLengthMs == nil {
		return DefaultMusicLengthMs
	}
	return *r.MusicLengthMs
}

// PlanResponse is returned by POST /plan
type PlanResponse struct {
	Plan          CompositionPlan `json:"plan"`
	RequestID     string          `json:"request_id"`
	Timestamp     string          `json:"timestamp"`
	InputPrompt   string          `json:"input_prompt"`
	MusicLengthMs int             `json:"music_length_ms"`
	Provider      string          `json:"provider"`
}

// RenderResponse is returned by POST /render
type RenderResponse struct {
	Filename        string         `json:"filename"`
	FilePath        string         `json:"file_path"`
	DownloadURL     string         `json:"download_url"`
	StreamURL       string         `json:"stream_url"`
	ContentType     string         `json:"content_type"`
	FileSizeBytes   int64          `json:"file_size_bytes"`
	CompositionPlan map[string]any `json:"composition_plan,omitempty"`
	SongMetadata    map[string]any `json:"song_metadata,omitempty"`
	RequestID       string         `json:"request_id"`
	Timestamp       string         `json:"timestamp"`
}

// ErrorResponse is the body of every non-2xx JSON response
type ErrorResponse struct {
	Error     string `json:"error"`
	Message   string `json:"message"`
	RequestID string `json:"request_id"`
	Timestamp string `json:"timestamp"`
}
