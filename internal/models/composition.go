package models

import "math"

// Composition plan length bounds accepted by the music provider
const (
	MinMusicLengthMs     = 1000
	MaxMusicLengthMs     = 300000
	DefaultMusicLengthMs = 30000

	// MinSectionMs is the shortest section a rescaled plan keeps when the length allows it
	MinSectionMs = 1000
)

// PlanSection is one section of a composition plan
type PlanSection struct {
	SectionName         string   `json:"section_name" binding:"required"`
	PositiveLocalStyles []string `json:"positive_local_styles"`
	NegativeLocalStyles []string `json:"negative_local_styles"`
	DurationMs          int      `json:"duration_ms" binding:"required,min=1,max=300000"`
	Lines               []string `json:"lines"`
	SourceFrom          *string  `json:"source_from,omitempty"`
}

// CompositionPlan is the structured description consumed by the renderer
type CompositionPlan struct {
	PositiveGlobalStyles []string      `json:"positive_global_styles"`
	NegativeGlobalStyles []string      `json:"negative_global_styles"`
	Sections             []PlanSection `json:"sections" binding:"required,min=1,dive"`
}

// TotalDurationMs sums the section durations, saturating at math.MaxInt
func (p CompositionPlan) TotalDurationMs() int {
	total := 0
	for _, s := range p.Sections {
		if s.DurationMs > 0 && total > math.MaxInt-s.DurationMs {
			return math.MaxInt
		}
		total += s.DurationMs
	}
	return total
}

// Normalize replaces nil slices with empty ones so the plan encodes as [] rather than null
func (p *CompositionPlan) Normalize() {
	if p.PositiveGlobalStyles == nil {
		p.PositiveGlobalStyles = []string{}
	}
	if p.NegativeGlobalStyles == nil {
		p.NegativeGlobalStyles = []string{}
	}
	if p.Sections == nil {
		p.Sections = []PlanSection{}
	}
	for i := range p.Sections {
		s := &p.Sections[i]
		if s.PositiveLocalStyles == nil {
			s.PositiveLocalStyles = []string{}
		}
		if s.NegativeLocalStyles == nil {
			s.NegativeLocalStyles = []string{}
		}
		if s.Lines == nil {
			s.Lines = []string{}
		}
	}
}
