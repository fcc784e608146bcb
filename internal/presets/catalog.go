package presets

// Axis identifies one of the three independent preset selection dimensions.
type Axis string

const (
	AxisProjectBlueprint   Axis = "project_blueprint"
	AxisSoundProfile       Axis = "sound_profile"
	AxisDeliveryAndControl Axis = "delivery_and_control"
)

// Axes lists every axis in request order
var Axes = []Axis{AxisProjectBlueprint, AxisSoundProfile, AxisDeliveryAndControl}

// BlueprintID names a Project Blueprint preset
type BlueprintID string

const (
	BlueprintAdBrandFastHook     BlueprintID = "ad_brand_fast_hook"
	BlueprintPodcastVoiceover    BlueprintID = "podcast_voiceover_loop"
	BlueprintVideoGameActionLoop BlueprintID = "video_game_action_loop"
	BlueprintMeditationSleep     BlueprintID = "meditation_sleep"
	BlueprintStandaloneSongMini  BlueprintID = "standalone_song_mini"

	DefaultBlueprint = BlueprintPodcastVoiceover
)

// ProfileID names a Sound Profile preset
type ProfileID string

const (
	ProfileBrightPopElectro ProfileID = "bright_pop_electro"
	ProfileDarkTrapNight    ProfileID = "dark_trap_night"
	ProfileLofiCozy         ProfileID = "lofi_cozy"
	ProfileEpicCinematic    ProfileID = "epic_cinematic"
	ProfileIndieLiveBand    ProfileID = "indie_live_band"

	DefaultProfile = ProfileLofiCozy
)

// DeliveryID names a Delivery & Control preset
type DeliveryID string

const (
	DeliveryExploratoryIterate DeliveryID = "exploratory_iterate"
	DeliveryBalancedStudio     DeliveryID = "balanced_studio"
	DeliveryBlueprintPlanFirst DeliveryID = "blueprint_plan_first"
	DeliveryLiveOneTake        DeliveryID = "live_one_take"
	DeliveryIsolationStems     DeliveryID = "isolation_stems"

	DefaultDelivery = DeliveryBalancedStudio
)

// VocalMode is the blueprint's declared vocal treatment.
type VocalMode string

const (
	VocalInstrumental      VocalMode = "instrumental"
	VocalVoiceoverFriendly VocalMode = "voiceover-friendly"
	VocalSungLyrics        VocalMode = "sung-lyrics"
)

// InstrumentFamily groups a profile's instrumentation palette.
// Each profile declares exactly one family; hybrid palettes say so explicitly.
type InstrumentFamily string

const (
	FamilyElectronic InstrumentFamily = "electronic"
	FamilyBand       InstrumentFamily = "band"
	FamilyMinimal    InstrumentFamily = "minimal"
	FamilyCinematic  InstrumentFamily = "cinematic"
	FamilyHybrid     InstrumentFamily = "hybrid"
)

// RenderStyle is the verbosity/strictness chosen by the delivery axis.
type RenderStyle string

const (
	StyleExploratory RenderStyle = "exploratory"
	StyleBalanced    RenderStyle = "balanced"
	StylePrecision   RenderStyle = "precision"
)

// TempoRange is an inclusive BPM range.
type TempoRange struct {
	Min int `json:"min" yaml:"min"`
	Max int `json:"max" yaml:"max"`
}

// Contains reports whether bpm falls inside the range.
func (r TempoRange) Contains(bpm int) bool {
	return bpm >= r.Min && bpm <= r.Max
}

// Section is one slot of a blueprint's structural template.
// Share is the fraction of the target duration, in percent.
type Section struct {
	Name   string `json:"name" yaml:"name"`
	Share  int    `json:"share_percent" yaml:"share_percent"`
	Intent string `json:"intent" yaml:"intent"`
}

// LeadFocus describes what carries the melody. Vocal marks a sung lead.
type LeadFocus struct {
	Text  string `json:"text" yaml:"text"`
	Vocal bool   `json:"vocal" yaml:"vocal"`
}

// Blueprint defines use case, duration, structure and default vocal mode.
type Blueprint struct {
	ID              BlueprintID `json:"id" yaml:"id"`
	Name            string      `json:"name" yaml:"name"`
	UseCase         string      `json:"use_case" yaml:"use_case"`
	DurationSeconds int         `json:"duration_seconds" yaml:"duration_seconds"`
	Sections        []Section   `json:"sections" yaml:"sections"`
	VocalMode       VocalMode   `json:"vocal_mode" yaml:"vocal_mode"`
	LyricsPlan      string      `json:"lyrics_plan,omitempty" yaml:"lyrics_plan,omitempty"`
	LyricLanguage   string      `json:"lyric_language,omitempty" yaml:"lyric_language,omitempty"`
	VocalTimingCue  string      `json:"vocal_timing_cue,omitempty" yaml:"vocal_timing_cue,omitempty"`
}

// Profile defines genre, mood, tempo, key and instrumentation.
type Profile struct {
	ID             ProfileID        `json:"id" yaml:"id"`
	Name           string           `json:"name" yaml:"name"`
	Genre          string           `json:"genre" yaml:"genre"`
	Mood           string           `json:"mood" yaml:"mood"`
	Tempo          TempoRange       `json:"tempo" yaml:"tempo"`
	Key            string           `json:"key" yaml:"key"`
	Family         InstrumentFamily `json:"instrumentation_palette" yaml:"instrumentation_palette"`
	Instruments    []string         `json:"instruments" yaml:"instruments"`
	LeadFocus      LeadFocus        `json:"lead_focus" yaml:"lead_focus"`
	VocalCharacter string           `json:"vocal_character" yaml:"vocal_character"`
	Avoid          []string         `json:"avoid" yaml:"avoid"`
	// VocalTimbres lists instruments that read as human voice, with the
	// non-vocal replacement used when vocals are inactive.
	VocalTimbres []TimbreSwap `json:"vocal_timbres,omitempty" yaml:"vocal_timbres,omitempty"`
}

// TimbreSwap replaces a voice-like instrument with a non-vocal one.
type TimbreSwap struct {
	Instrument string `json:"instrument" yaml:"instrument"`
	Substitute string `json:"substitute" yaml:"substitute"`
}

// Delivery defines prose verbosity and production framing.
type Delivery struct {
	ID           DeliveryID  `json:"id" yaml:"id"`
	Name         string      `json:"name" yaml:"name"`
	Style        RenderStyle `json:"style" yaml:"style"`
	Aesthetic    string      `json:"production_aesthetic" yaml:"production_aesthetic"`
	EvolutionArc string      `json:"evolution_arc" yaml:"evolution_arc"`
}

var blueprints = map[BlueprintID]Blueprint{
	BlueprintAdBrandFastHook: {
		ID:              BlueprintAdBrandFastHook,
		Name:            "Brand Hook",
		UseCase:         "a short brand advertisement spot that has to grab attention in the first seconds",
		DurationSeconds: 30,
		Sections: []Section{
			{Name: "instant hook", Share: 10, Intent: "start on the signature motif with no slow fade in"},
			{Name: "quick build", Share: 30, Intent: "stack rhythm and harmony to lift the energy"},
			{Name: "main hook", Share: 45, Intent: "full arrangement carrying the memorable motif"},
			{Name: "button ending", Share: 15, Intent: "a clean, decisive ending that lands on the tonic"},
		},
		VocalMode: VocalVoiceoverFriendly,
	},
	BlueprintPodcastVoiceover: {
		ID:              BlueprintPodcastVoiceover,
		Name:            "Podcast Bed",
		UseCase:         "a podcast intro and background bed that sits under a spoken voiceover and loops cleanly",
		DurationSeconds: 60,
		Sections: []Section{
			{Name: "intro sting", Share: 15, Intent: "a recognizable opening phrase"},
			{Name: "steady bed", Share: 70, Intent: "an even, unobtrusive groove with little melodic movement"},
			{Name: "loop point", Share: 15, Intent: "resolve back toward the opening so the piece loops without a seam"},
		},
		VocalMode: VocalVoiceoverFriendly,
	},
	BlueprintVideoGameActionLoop: {
		ID:              BlueprintVideoGameActionLoop,
		Name:            "Action Loop",
		UseCase:         "a seamless background loop for fast video game action",
		DurationSeconds: 90,
		Sections: []Section{
			{Name: "pulse intro", Share: 15, Intent: "establish the driving rhythm immediately"},
			{Name: "combat layer", Share: 45, Intent: "full intensity with urgent rhythmic motifs"},
			{Name: "tension break", Share: 20, Intent: "drop to percussion and bass to reset the ear"},
			{Name: "loop return", Share: 20, Intent: "rebuild into the opening groove for a seamless loop"},
		},
		VocalMode: VocalInstrumental,
	},
	BlueprintMeditationSleep: {
		ID:              BlueprintMeditationSleep,
		Name:            "Sleep Drift",
		UseCase:         "a calm meditation and sleep piece with no sudden changes",
		DurationSeconds: 180,
		Sections: []Section{
			{Name: "settling", Share: 25, Intent: "soft entry of sustained tones"},
			{Name: "deep drift", Share: 55, Intent: "slowly evolving textures with minimal rhythm"},
			{Name: "fade", Share: 20, Intent: "gradual thinning toward near silence"},
		},
		VocalMode: VocalInstrumental,
	},
	BlueprintStandaloneSongMini: {
		ID:              BlueprintStandaloneSongMini,
		Name:            "Mini Song",
		UseCase:         "a compact standalone song with a clear verse and chorus",
		DurationSeconds: 120,
		Sections: []Section{
			{Name: "intro", Share: 10, Intent: "set the groove and harmonic color"},
			{Name: "verse", Share: 25, Intent: "tell the story with restrained backing"},
			{Name: "chorus", Share: 25, Intent: "lift into the main hook"},
			{Name: "second verse", Share: 15, Intent: "develop the story with a fuller groove"},
			{Name: "final chorus", Share: 20, Intent: "biggest moment with the hook repeated"},
			{Name: "outro", Share: 5, Intent: "short tag that closes the song"},
		},
		VocalMode:      VocalSungLyrics,
		LyricsPlan:     "two short verses and a repeated chorus built around one memorable title phrase",
		LyricLanguage:  "English",
		VocalTimingCue: "the lead voice enters after the short intro and the chorus lands on the strongest downbeat",
	},
}

var profiles = map[ProfileID]Profile{
	ProfileBrightPopElectro: {
		ID:             ProfileBrightPopElectro,
		Name:           "Bright Pop Electro",
		Genre:          "bright electronic pop",
		Mood:           "uplifting and confident",
		Tempo:          TempoRange{Min: 110, Max: 125},
		Key:            "E major",
		Family:         FamilyElectronic,
		Instruments:    []string{"punchy four on the floor drums", "bright synth chords", "plucked synth arpeggios", "tight sub bass"},
		LeadFocus:      LeadFocus{Text: "a catchy vocal hook", Vocal: true},
		VocalCharacter: "clear, bright and upfront pop voice",
		Avoid:          []string{"muddy low end", "slow tempo", "dark minor-key mood"},
	},
	ProfileDarkTrapNight: {
		ID:             ProfileDarkTrapNight,
		Name:           "Dark Trap Night",
		Genre:          "dark trap",
		Mood:           "brooding and nocturnal",
		Tempo:          TempoRange{Min: 130, Max: 150},
		Key:            "C minor",
		Family:         FamilyElectronic,
		Instruments:    []string{"booming 808 bass", "crisp rolling hi-hats", "sparse dark pads", "distant bell melody"},
		LeadFocus:      LeadFocus{Text: "a rhythmic vocal lead with ad-lib accents", Vocal: true},
		VocalCharacter: "low, laid-back rhythmic voice with airy ad-libs",
		Avoid:          []string{"bright major-key pop chords", "acoustic strumming"},
	},
	ProfileLofiCozy: {
		ID:             ProfileLofiCozy,
		Name:           "Lofi Cozy",
		Genre:          "lofi hip hop",
		Mood:           "warm, relaxed and nostalgic",
		Tempo:          TempoRange{Min: 70, Max: 90},
		Key:            "F major seventh color",
		Family:         FamilyMinimal,
		Instruments:    []string{"dusty boom bap drums", "mellow electric piano", "warm round bass", "soft vinyl crackle"},
		LeadFocus:      LeadFocus{Text: "a mellow electric piano melody", Vocal: false},
		VocalCharacter: "soft, intimate and breathy voice",
		Avoid:          []string{"harsh transients", "aggressive distortion", "busy drum fills"},
	},
	ProfileEpicCinematic: {
		ID:             ProfileEpicCinematic,
		Name:           "Epic Cinematic",
		Genre:          "epic orchestral cinematic score",
		Mood:           "heroic and dramatic",
		Tempo:          TempoRange{Min: 90, Max: 120},
		Key:            "D minor",
		Family:         FamilyCinematic,
		Instruments:    []string{"sweeping string section", "powerful brass", "thunderous taiko and timpani", "choir pads"},
		LeadFocus:      LeadFocus{Text: "a soaring brass and string motif", Vocal: false},
		VocalCharacter: "powerful, soaring choral voice",
		Avoid:          []string{"thin mix", "lo-fi texture", "cheesy synth brass"},
		VocalTimbres:   []TimbreSwap{{Instrument: "choir pads", Substitute: "soaring string pads"}},
	},
	ProfileIndieLiveBand: {
		ID:             ProfileIndieLiveBand,
		Name:           "Indie Live Band",
		Genre:          "indie rock",
		Mood:           "earnest and optimistic",
		Tempo:          TempoRange{Min: 95, Max: 120},
		Key:            "G major",
		Family:         FamilyBand,
		Instruments:    []string{"jangly electric guitars", "live drum kit", "melodic electric bass", "warm organ"},
		LeadFocus:      LeadFocus{Text: "an earnest lead voice over jangly guitars", Vocal: true},
		VocalCharacter: "earnest, slightly raw indie voice",
		Avoid:          []string{"programmed drums", "heavy autotune", "overcompressed loudness"},
	},
}

var deliveries = map[DeliveryID]Delivery{
	DeliveryExploratoryIterate: {
		ID:           DeliveryExploratoryIterate,
		Name:         "Exploratory Iterate",
		Style:        StyleExploratory,
		Aesthetic:    "loose, sketch-like production that leaves room for happy accidents",
		EvolutionArc: "let the texture wander and evolve naturally",
	},
	DeliveryBalancedStudio: {
		ID:           DeliveryBalancedStudio,
		Name:         "Balanced Studio",
		Style:        StyleBalanced,
		Aesthetic:    "polished, radio-ready studio production with a balanced mix",
		EvolutionArc: "start focused, build to a fuller peak, then resolve cleanly",
	},
	DeliveryBlueprintPlanFirst: {
		ID:           DeliveryBlueprintPlanFirst,
		Name:         "Blueprint Plan First",
		Style:        StylePrecision,
		Aesthetic:    "tight, deliberate production where every section change is intentional",
		EvolutionArc: "follow the section plan exactly",
	},
	DeliveryLiveOneTake: {
		ID:           DeliveryLiveOneTake,
		Name:         "Live One Take",
		Style:        StyleBalanced,
		Aesthetic:    "live-in-the-room feel with natural dynamics and minimal editing",
		EvolutionArc: "grow in intensity like a band playing it through once",
	},
	DeliveryIsolationStems: {
		ID:           DeliveryIsolationStems,
		Name:         "Isolation Stems",
		Style:        StylePrecision,
		Aesthetic:    "clean, well separated parts with clear frequency space for each instrument so stems can be isolated",
		EvolutionArc: "introduce each part on its own before combining them",
	},
}

var (
	blueprintOrder = []BlueprintID{
		BlueprintAdBrandFastHook, BlueprintPodcastVoiceover, BlueprintVideoGameActionLoop,
		BlueprintMeditationSleep, BlueprintStandaloneSongMini,
	}
	profileOrder = []ProfileID{
		ProfileBrightPopElectro, ProfileDarkTrapNight, ProfileLofiCozy,
		ProfileEpicCinematic, ProfileIndieLiveBand,
	}
	deliveryOrder = []DeliveryID{
		DeliveryExploratoryIterate, DeliveryBalancedStudio, DeliveryBlueprintPlanFirst,
		DeliveryLiveOneTake, DeliveryIsolationStems,
	}
)

// BlueprintIDs returns every blueprint id in catalog order
func BlueprintIDs() []BlueprintID { return append([]BlueprintID(nil), blueprintOrder...) }

// ProfileIDs returns every profile id in catalog order
func ProfileIDs() []ProfileID { return append([]ProfileID(nil), profileOrder...) }

// DeliveryIDs returns every delivery id in catalog order
func DeliveryIDs() []DeliveryID { return append([]DeliveryID(nil), deliveryOrder...) }

// LookupBlueprint returns the record for id. Unknown ids report false.
func LookupBlueprint(id BlueprintID) (Blueprint, bool) {
	b, ok := blueprints[id]
	if !ok {
		return Blueprint{}, false
	}
	b.Sections = append([]Section(nil), b.Sections...)
	return b, true
}

// LookupProfile returns the record for id. Unknown ids report false.
func LookupProfile(id ProfileID) (Profile, bool) {
	p, ok := profiles[id]
	if !ok {
		return Profile{}, false
	}
	p.Instruments = append([]string(nil), p.Instruments...)
	p.Avoid = append([]string(nil), p.Avoid...)
	p.VocalTimbres = append([]TimbreSwap(nil), p.VocalTimbres...)
	return p, true
}

// LookupDelivery returns the record for id. Unknown ids report false.
func LookupDelivery(id DeliveryID) (Delivery, bool) {
	d, ok := deliveries[id]
	return d, ok
}

// CatalogListing is the full read-only preset catalog.
type CatalogListing struct {
	Blueprints []Blueprint `json:"project_blueprints" yaml:"project_blueprints"`
	Profiles   []Profile   `json:"sound_profiles" yaml:"sound_profiles"`
	Deliveries []Delivery  `json:"delivery_and_control" yaml:"delivery_and_control"`
	Defaults   Defaults    `json:"defaults" yaml:"defaults"`
}

// Defaults names the fallback variant of each axis.
type Defaults struct {
	Blueprint BlueprintID `json:"project_blueprint" yaml:"project_blueprint"`
	Profile   ProfileID   `json:"sound_profile" yaml:"sound_profile"`
	Delivery  DeliveryID  `json:"delivery_and_control" yaml:"delivery_and_control"`
}

// Catalog returns a copy of every preset record in catalog order.
func Catalog() CatalogListing {
	listing := CatalogListing{
		Defaults: Defaults{Blueprint: DefaultBlueprint, Profile: DefaultProfile, Delivery: DefaultDelivery},
	}
	for _, id := range blueprintOrder {
		b, _ := LookupBlueprint(id)
		listing.Blueprints = append(listing.Blueprints, b)
	}
	for _, id := range profileOrder {
		p, _ := LookupProfile(id)
		listing.Profiles = append(listing.Profiles, p)
	}
	for _, id := range deliveryOrder {
		d, _ := LookupDelivery(id)
		listing.Deliveries = append(listing.Deliveries, d)
	}
	return listing
}
