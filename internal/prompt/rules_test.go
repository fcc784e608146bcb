package prompt

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Conceptual-Machines/music-prompt-api/internal/presets"
)

func strPtr(s string) *string { return &s }
func boolPtr(b bool) *bool    { return &b }

func resolveIDs(b presets.BlueprintID, p presets.ProfileID, d presets.DeliveryID, instrumental *bool) Attributes {
	return Resolve(presets.Resolve(presets.Request{
		ProjectBlueprint:   strPtr(string(b)),
		SoundProfile:       strPtr(string(p)),
		DeliveryAndControl: strPtr(string(d)),
		InstrumentalOnly:   instrumental,
	}))
}

// forEachCombination visits the full Cartesian product of the three axes.
func forEachCombination(t *testing.T, fn func(t *testing.T, b presets.BlueprintID, p presets.ProfileID, d presets.DeliveryID)) {
	t.Helper()
	for _, b := range presets.BlueprintIDs() {
		for _, p := range presets.ProfileIDs() {
			for _, d := range presets.DeliveryIDs() {
				t.Run(string(b)+"/"+string(p)+"/"+string(d), func(t *testing.T) {
					fn(t, b, p, d)
				})
			}
		}
	}
}

func TestInstrumentalOverrideSilencesEveryCombination(t *testing.T) {
	count := 0
	forEachCombination(t, func(t *testing.T, b presets.BlueprintID, p presets.ProfileID, d presets.DeliveryID) {
		count++
		a := resolveIDs(b, p, d, boolPtr(true))

		assert.Equal(t, presets.VocalInstrumental, a.VocalMode)
		assert.False(t, a.LyricsPlan.Active)
		assert.False(t, a.LyricLanguage.Active)
		assert.False(t, a.VocalTimingCue.Active)
		assert.False(t, a.VocalCharacter.Active)
		assert.False(t, a.VocalsActive())
		assert.False(t, a.LeadFocus.Vocal)
		assert.Contains(t, a.Applied, RuleInstrumentalOverride)
		assert.NotContains(t, a.Applied, RuleVocalModeAuthority)
	})
	assert.Equal(t, 125, count)
}

func TestInstrumentalFalseDefersToBlueprint(t *testing.T) {
	a := resolveIDs(presets.BlueprintStandaloneSongMini, presets.ProfileIndieLiveBand, presets.DeliveryBalancedStudio, boolPtr(false))

	assert.Equal(t, presets.VocalSungLyrics, a.VocalMode)
	assert.True(t, a.VocalsActive())
	assert.NotContains(t, a.Applied, RuleInstrumentalOverride)
	assert.Contains(t, a.Applied, RuleVocalModeAuthority)
}

func TestOverrideKeepsVoiceoverSpace(t *testing.T) {
	a := resolveIDs(presets.BlueprintPodcastVoiceover, presets.ProfileLofiCozy, presets.DeliveryExploratoryIterate, boolPtr(true))
	assert.True(t, a.MidrangeClear)

	a = resolveIDs(presets.BlueprintStandaloneSongMini, presets.ProfileLofiCozy, presets.DeliveryExploratoryIterate, boolPtr(true))
	assert.False(t, a.MidrangeClear)
}

func TestVocalModeAuthority(t *testing.T) {
	tests := []struct {
		blueprint     presets.BlueprintID
		wantMode      presets.VocalMode
		wantVocals    bool
		wantMidrange  bool
		wantCharacter string
	}{
		{presets.BlueprintAdBrandFastHook, presets.VocalVoiceoverFriendly, false, true, ""},
		{presets.BlueprintPodcastVoiceover, presets.VocalVoiceoverFriendly, false, true, ""},
		{presets.BlueprintVideoGameActionLoop, presets.VocalInstrumental, false, false, ""},
		{presets.BlueprintMeditationSleep, presets.VocalInstrumental, false, false, ""},
		{presets.BlueprintStandaloneSongMini, presets.VocalSungLyrics, true, false, "clear, bright and upfront pop voice"},
	}

	for _, tt := range tests {
		t.Run(string(tt.blueprint), func(t *testing.T) {
			a := resolveIDs(tt.blueprint, presets.ProfileBrightPopElectro, presets.DeliveryBalancedStudio, nil)
			assert.Equal(t, tt.wantMode, a.VocalMode)
			assert.Equal(t, tt.wantVocals, a.VocalsActive())
			assert.Equal(t, tt.wantMidrange, a.MidrangeClear)
			if tt.wantVocals {
				assert.Equal(t, tt.wantCharacter, a.VocalCharacter.Value)
				assert.Equal(t, "English", a.LyricLanguage.Value)
				assert.True(t, a.LyricsPlan.Active)
				assert.True(t, a.VocalTimingCue.Active)
			} else {
				assert.False(t, a.VocalCharacter.Active)
				assert.False(t, a.LyricsPlan.Active)
			}
		})
	}
}

func TestSubstituteLeadTable(t *testing.T) {
	tests := []struct {
		family presets.InstrumentFamily
		want   string
	}{
		{presets.FamilyElectronic, "synth lead"},
		{presets.FamilyBand, "guitar lead"},
		{presets.FamilyMinimal, "piano lead"},
		{presets.FamilyCinematic, "orchestral-motif lead"},
		{presets.FamilyHybrid, "orchestral-motif lead"},
	}
	for _, tt := range tests {
		t.Run(string(tt.family), func(t *testing.T) {
			assert.Equal(t, tt.want, SubstituteLead(tt.family))
		})
	}
}

func TestLeadFocusSubstitutionUsesFamily(t *testing.T) {
	for _, id := range presets.ProfileIDs() {
		profile, ok := presets.LookupProfile(id)
		require.True(t, ok)

		t.Run(string(id), func(t *testing.T) {
			a := resolveIDs(presets.BlueprintMeditationSleep, id, presets.DeliveryBalancedStudio, nil)
			if profile.LeadFocus.Vocal {
				assert.Equal(t, SubstituteLead(profile.Family), a.LeadFocus.Text)
				assert.False(t, a.LeadFocus.Vocal)
				assert.Contains(t, a.Applied, RuleLeadFocusSubstitution)
			} else {
				assert.Equal(t, profile.LeadFocus, a.LeadFocus)
				assert.NotContains(t, a.Applied, RuleLeadFocusSubstitution)
			}
		})
	}
}

func TestLeadFocusKeptWhenSung(t *testing.T) {
	a := resolveIDs(presets.BlueprintStandaloneSongMini, presets.ProfileBrightPopElectro, presets.DeliveryBalancedStudio, nil)
	assert.True(t, a.LeadFocus.Vocal)
	assert.Equal(t, "a catchy vocal hook", a.LeadFocus.Text)
	assert.NotContains(t, a.Applied, RuleLeadFocusSubstitution)
}

func TestDeliveryVerbosityBPM(t *testing.T) {
	forEachCombination(t, func(t *testing.T, b presets.BlueprintID, p presets.ProfileID, d presets.DeliveryID) {
		a := resolveIDs(b, p, d, nil)
		profile, _ := presets.LookupProfile(p)

		assert.Equal(t, profile.Tempo, a.Tempo, "tempo range is never narrowed")
		switch a.Style {
		case presets.StyleExploratory:
			assert.Zero(t, a.BPM)
			assert.False(t, a.Key.Active)
			assert.False(t, a.SectionCues)
		case presets.StyleBalanced:
			assert.True(t, profile.Tempo.Contains(a.BPM), "bpm %d outside %v", a.BPM, profile.Tempo)
			assert.True(t, a.Key.Active)
			assert.True(t, a.EvolutionArc.Active)
			assert.False(t, a.SectionCues)
		case presets.StylePrecision:
			assert.True(t, profile.Tempo.Contains(a.BPM), "bpm %d outside %v", a.BPM, profile.Tempo)
			assert.True(t, a.Key.Active)
			assert.True(t, a.SectionCues)
		default:
			t.Fatalf("unexpected style %q", a.Style)
		}
		assert.Equal(t, RuleDeliveryVerbosity, a.Applied[len(a.Applied)-1])
	})
}

func TestPickBPM(t *testing.T) {
	assert.Equal(t, 118, PickBPM(presets.TempoRange{Min: 110, Max: 125}))
	assert.Equal(t, 80, PickBPM(presets.TempoRange{Min: 70, Max: 90}))
	assert.Equal(t, 100, PickBPM(presets.TempoRange{Min: 100, Max: 100}))
}

func TestRulesApplyInOrder(t *testing.T) {
	a := resolveIDs(presets.BlueprintPodcastVoiceover, presets.ProfileDarkTrapNight, presets.DeliveryIsolationStems, boolPtr(true))
	assert.Equal(t, []string{RuleInstrumentalOverride, RuleLeadFocusSubstitution, RuleDeliveryVerbosity}, a.Applied)

	a = resolveIDs(presets.BlueprintStandaloneSongMini, presets.ProfileLofiCozy, presets.DeliveryExploratoryIterate, nil)
	assert.Equal(t, []string{RuleVocalModeAuthority, RuleDeliveryVerbosity}, a.Applied)
}

func TestResolveIsDeterministic(t *testing.T) {
	in := presets.Resolve(presets.Request{SoundProfile: strPtr("epic_cinematic")})
	assert.Equal(t, Resolve(in), Resolve(in))
}
