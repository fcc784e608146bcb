package prompt

import "github.com/Conceptual-Machines/music-prompt-api/internal/presets"

// Rule names, in evaluation order.
const (
	RuleInstrumentalOverride  = "instrumental_override"
	RuleVocalModeAuthority    = "vocal_mode_authority"
	RuleLeadFocusSubstitution = "lead_focus_substitution"
	RuleDeliveryVerbosity     = "delivery_verbosity"
)

type rule struct {
	name  string
	apply func(a *Attributes, in presets.Resolved) bool
}

// rules run in slice order; later rules may overwrite earlier fields.
var rules = []rule{
	{name: RuleInstrumentalOverride, apply: applyInstrumentalOverride},
	{name: RuleVocalModeAuthority, apply: applyVocalModeAuthority},
	{name: RuleLeadFocusSubstitution, apply: applyLeadFocusSubstitution},
	{name: RuleDeliveryVerbosity, apply: applyDeliveryVerbosity},
}

// substituteLeads maps an instrumentation family to its non-vocal lead.
// Hybrid palettes take the orchestral motif.
var substituteLeads = map[presets.InstrumentFamily]string{
	presets.FamilyElectronic: "synth lead",
	presets.FamilyBand:       "guitar lead",
	presets.FamilyMinimal:    "piano lead",
	presets.FamilyCinematic:  "orchestral-motif lead",
	presets.FamilyHybrid:     "orchestral-motif lead",
}

// SubstituteLead returns the non-vocal lead used for family.
func SubstituteLead(family presets.InstrumentFamily) string {
	if lead, ok := substituteLeads[family]; ok {
		return lead
	}
	return substituteLeads[presets.FamilyHybrid]
}

// Resolve merges the selected records into one attribute set by folding the
// rule table over a seeded accumulator. It never fails.
func Resolve(in presets.Resolved) Attributes {
	acc := seed(in)
	for _, r := range rules {
		if r.apply(&acc, in) {
			acc.Applied = append(acc.Applied, r.name)
		}
	}
	return acc
}

func applyInstrumentalOverride(a *Attributes, in presets.Resolved) bool {
	if !in.InstrumentalOverride() {
		return false
	}
	a.VocalMode = presets.VocalInstrumental
	silenceVoices(a, in)
	// A spoken voiceover is not a sung part, so its space survives the override.
	a.MidrangeClear = in.Blueprint.VocalMode == presets.VocalVoiceoverFriendly
	return true
}

func applyVocalModeAuthority(a *Attributes, in presets.Resolved) bool {
	if in.InstrumentalOverride() {
		return false
	}
	a.VocalMode = in.Blueprint.VocalMode
	switch a.VocalMode {
	case presets.VocalSungLyrics:
		a.VocalCharacter = activeSlot(in.Profile.VocalCharacter)
		a.LyricsPlan = activeSlot(in.Blueprint.LyricsPlan)
		a.LyricLanguage = activeSlot(in.Blueprint.LyricLanguage)
		a.VocalTimingCue = activeSlot(in.Blueprint.VocalTimingCue)
		a.MidrangeClear = false
	case presets.VocalVoiceoverFriendly:
		silenceVoices(a, in)
		a.MidrangeClear = true
	default:
		a.VocalMode = presets.VocalInstrumental
		silenceVoices(a, in)
		a.MidrangeClear = false
	}
	return true
}

// silenceVoices switches off every sung slot and swaps voice-like
// instruments for their non-vocal substitutes.
func silenceVoices(a *Attributes, in presets.Resolved) {
	a.VocalCharacter.deactivate()
	a.LyricsPlan.deactivate()
	a.LyricLanguage.deactivate()
	a.VocalTimingCue.deactivate()

	for _, swap := range in.Profile.VocalTimbres {
		for i, inst := range a.Instruments {
			if inst == swap.Instrument {
				a.Instruments[i] = swap.Substitute
			}
		}
	}
}

func applyLeadFocusSubstitution(a *Attributes, _ presets.Resolved) bool {
	if a.VocalsActive() || !a.LeadFocus.Vocal {
		return false
	}
	a.LeadFocus = presets.LeadFocus{Text: SubstituteLead(a.Family)}
	return true
}

func applyDeliveryVerbosity(a *Attributes, _ presets.Resolved) bool {
	switch a.Style {
	case presets.StyleExploratory:
		a.BPM = 0
		a.Key.deactivate()
		a.SectionCues = false
	case presets.StylePrecision:
		a.BPM = PickBPM(a.Tempo)
		a.SectionCues = true
	default:
		a.Style = presets.StyleBalanced
		a.BPM = PickBPM(a.Tempo)
		a.SectionCues = false
	}
	return true
}

// PickBPM returns the upper-rounded midpoint of r.
func PickBPM(r presets.TempoRange) int {
	return (r.Min + r.Max + 1) / 2
}
