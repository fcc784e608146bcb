package prompt

import "github.com/Conceptual-Machines/music-prompt-api/internal/presets"

// Slot is a vocal-dependent attribute that rules may switch off.
type Slot struct {
	Value  string `json:"value,omitempty"`
	Active bool   `json:"active"`
}

func activeSlot(value string) Slot {
	return Slot{Value: value, Active: value != ""}
}

func (s *Slot) deactivate() { s.Active = false }

// Attributes is the unified attribute set merged from the three preset records.
type Attributes struct {
	Blueprint presets.BlueprintID `json:"project_blueprint"`
	Profile   presets.ProfileID   `json:"sound_profile"`
	Delivery  presets.DeliveryID  `json:"delivery_and_control"`

	BlueprintName   string            `json:"blueprint_name"`
	ProfileName     string            `json:"profile_name"`
	UseCase         string            `json:"use_case"`
	DurationSeconds int               `json:"duration_seconds"`
	Sections        []presets.Section `json:"sections"`

	Genre       string                   `json:"genre"`
	Mood        string                   `json:"mood"`
	Tempo       presets.TempoRange       `json:"tempo"`
	BPM         int                      `json:"bpm,omitempty"`
	Key         Slot                     `json:"key"`
	Family      presets.InstrumentFamily `json:"instrumentation_palette"`
	Instruments []string                 `json:"instruments"`
	LeadFocus   presets.LeadFocus        `json:"lead_focus"`
	Avoid       []string                 `json:"avoid"`

	VocalMode      presets.VocalMode `json:"vocal_mode"`
	VocalCharacter Slot              `json:"vocal_character"`
	LyricsPlan     Slot              `json:"lyrics_plan"`
	LyricLanguage  Slot              `json:"lyric_language"`
	VocalTimingCue Slot              `json:"vocal_timing_cue"`
	MidrangeClear  bool              `json:"midrange_clear"`
	Narrative      string            `json:"user_narrative,omitempty"`

	Style        presets.RenderStyle `json:"style"`
	Aesthetic    string              `json:"production_aesthetic"`
	EvolutionArc Slot                `json:"evolution_arc"`
	SectionCues  bool                `json:"section_cues"`

	// Applied names the rules that fired, in evaluation order.
	Applied []string `json:"rules_applied"`
}

// VocalsActive reports whether any sung attribute survived the rules.
func (a Attributes) VocalsActive() bool {
	return a.VocalCharacter.Active || a.LyricsPlan.Active || a.LyricLanguage.Active || a.VocalTimingCue.Active
}

// seed copies the three records field by field before any rule runs.
func seed(r presets.Resolved) Attributes {
	return Attributes{
		Blueprint: r.Blueprint.ID,
		Profile:   r.Profile.ID,
		Delivery:  r.Delivery.ID,

		BlueprintName:   r.Blueprint.Name,
		ProfileName:     r.Profile.Name,
		UseCase:         r.Blueprint.UseCase,
		DurationSeconds: r.Blueprint.DurationSeconds,
		Sections:        append([]presets.Section(nil), r.Blueprint.Sections...),

		Genre:       r.Profile.Genre,
		Mood:        r.Profile.Mood,
		Tempo:       r.Profile.Tempo,
		Key:         activeSlot(r.Profile.Key),
		Family:      r.Profile.Family,
		Instruments: append([]string(nil), r.Profile.Instruments...),
		LeadFocus:   r.Profile.LeadFocus,
		Avoid:       append([]string(nil), r.Profile.Avoid...),

		VocalMode:      r.Blueprint.VocalMode,
		VocalCharacter: activeSlot(r.Profile.VocalCharacter),
		LyricsPlan:     activeSlot(r.Blueprint.LyricsPlan),
		LyricLanguage:  activeSlot(r.Blueprint.LyricLanguage),
		VocalTimingCue: activeSlot(r.Blueprint.VocalTimingCue),
		Narrative:      r.Request.UserNarrative,

		Style:        r.Delivery.Style,
		Aesthetic:    r.Delivery.Aesthetic,
		EvolutionArc: activeSlot(r.Delivery.EvolutionArc),
	}
}
