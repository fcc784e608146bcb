package prompt

import "github.com/Conceptual-Machines/music-prompt-api/internal/presets"

// Result is everything the pipeline produced for one request.
type Result struct {
	Resolved   presets.Resolved
	Attributes Attributes
	Rendered   Rendered
}

// Builder runs input resolution, conflict resolution and rendering.
type Builder struct{}

// NewPromptBuilder creates a new prompt builder
func NewPromptBuilder() *Builder {
	return &Builder{}
}

// Build is pure and safe for concurrent use.
func (b *Builder) Build(req presets.Request) Result {
	resolved := presets.Resolve(req)
	attrs := Resolve(resolved)
	return Result{
		Resolved:   resolved,
		Attributes: attrs,
		Rendered:   Render(attrs),
	}
}
