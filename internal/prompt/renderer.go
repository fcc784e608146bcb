package prompt

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/Conceptual-Machines/music-prompt-api/internal/presets"
)

// Rendered is a finished text-to-music prompt.
type Rendered struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

// String returns the title line followed by a single fenced text block.
func (r Rendered) String() string {
	return r.Title + "\n\n```text\n" + r.Body + "\n```"
}

var (
	danglingPunct   = regexp.MustCompile(`\s*[,;:]\s*([,;:.!?])`)
	structuredChars = strings.NewReplacer(
		"{", "", "}", "", "[", "", "]", "", "|", "", "`", "",
		"<", "", ">", "", "\"", "", "#", "", "*", "",
	)
)

// NeutralizeNarrative strips artist comparisons, tempo figures, claims of
// having made the audio and structured-data characters from free text.
func NeutralizeNarrative(s string) string {
	for _, re := range []*regexp.Regexp{artistPhrase, styledName, namedLike, tempoToken, firstPerson} {
		s = re.ReplaceAllString(s, "")
	}
	s = structuredChars.Replace(s)
	s = strings.Join(strings.Fields(s), " ")
	s = danglingPunct.ReplaceAllString(s, "$1")
	s = strings.ReplaceAll(s, " ,", ",")
	return strings.Trim(s, " ,.;:-")
}

// Render turns the unified attributes into prose.
func Render(a Attributes) Rendered {
	paragraphs := []string{
		framing(a),
		instrumentation(a),
		voice(a),
		production(a),
	}
	if a.SectionCues {
		paragraphs = append(paragraphs, sectionCues(a))
	}
	if len(a.Avoid) > 0 {
		paragraphs = append(paragraphs, fmt.Sprintf("Avoid %s.", joinList(a.Avoid)))
	}

	var body []string
	for _, p := range paragraphs {
		if p != "" {
			body = append(body, p)
		}
	}

	return Rendered{
		Title: strings.TrimSpace(a.ProfileName + " " + a.BlueprintName),
		Body:  strings.Join(body, "\n\n"),
	}
}

func framing(a Attributes) string {
	var b strings.Builder
	if a.Style == presets.StyleExploratory {
		fmt.Fprintf(&b, "A loose %d second %s sketch for %s. ", a.DurationSeconds, a.Genre, a.UseCase)
		fmt.Fprintf(&b, "Feeling %s. ", a.Mood)
		fmt.Fprintf(&b, "Tempo anywhere from %d to %d BPM.", a.Tempo.Min, a.Tempo.Max)
		return b.String()
	}

	fmt.Fprintf(&b, "A %d second %s piece for %s. ", a.DurationSeconds, a.Genre, a.UseCase)
	fmt.Fprintf(&b, "The mood is %s. ", a.Mood)
	fmt.Fprintf(&b, "Tempo %d BPM", a.BPM)
	if a.Key.Active {
		fmt.Fprintf(&b, ", centered on %s", a.Key.Value)
	}
	b.WriteString(".")
	if a.Style == presets.StyleBalanced && len(a.Sections) > 0 {
		names := make([]string, 0, len(a.Sections))
		for _, s := range a.Sections {
			names = append(names, s.Name)
		}
		fmt.Fprintf(&b, " The structure moves through %s.", joinList(names))
	}
	return b.String()
}

func instrumentation(a Attributes) string {
	if len(a.Instruments) == 0 {
		return fmt.Sprintf("%s carries the melody.", capitalize(withArticle(a.LeadFocus.Text)))
	}
	return fmt.Sprintf("Instrumentation: %s, with %s carrying the melody.",
		joinList(a.Instruments), withArticle(a.LeadFocus.Text))
}

func voice(a Attributes) string {
	switch a.VocalMode {
	case presets.VocalSungLyrics:
		var parts []string
		if a.VocalCharacter.Active {
			parts = append(parts, fmt.Sprintf("Lead vocal: %s.", a.VocalCharacter.Value))
		}
		if a.LyricsPlan.Active {
			lyrics := "Lyrics"
			if a.LyricLanguage.Active {
				lyrics += " in " + a.LyricLanguage.Value
			}
			parts = append(parts, fmt.Sprintf("%s: %s.", lyrics, a.LyricsPlan.Value))
		}
		if theme := NeutralizeNarrative(a.Narrative); theme != "" {
			parts = append(parts, fmt.Sprintf("Lyric theme: %s.", theme))
		}
		if a.VocalTimingCue.Active {
			parts = append(parts, fmt.Sprintf("Vocal timing: %s.", a.VocalTimingCue.Value))
		}
		return strings.Join(parts, " ")
	case presets.VocalVoiceoverFriendly:
		return "Instrumental bed with no lead voice, leaving the midrange clear for a spoken voiceover."
	default:
		if a.MidrangeClear {
			return "Fully instrumental with no human voice. Leave the midrange clear so a spoken voiceover can sit on top."
		}
		return "Fully instrumental with no human voice."
	}
}

func production(a Attributes) string {
	s := fmt.Sprintf("Production: %s.", a.Aesthetic)
	if !a.EvolutionArc.Active {
		return s
	}
	if a.Style == presets.StyleExploratory {
		return s + " " + capitalize(a.EvolutionArc.Value) + "."
	}
	return s + fmt.Sprintf(" Arc: %s.", a.EvolutionArc.Value)
}

func sectionCues(a Attributes) string {
	cues := make([]string, 0, len(a.Sections))
	start, share := 0, 0
	for _, s := range a.Sections {
		share += s.Share
		end := a.DurationSeconds * share / 100
		cues = append(cues, fmt.Sprintf("From %d to %d seconds, %s, %s.", start, end, s.Name, s.Intent))
		start = end
	}
	return "Section timing. " + strings.Join(cues, " ")
}

func joinList(items []string) string {
	switch len(items) {
	case 0:
		return ""
	case 1:
		return items[0]
	default:
		return strings.Join(items[:len(items)-1], ", ") + " and " + items[len(items)-1]
	}
}

func withArticle(s string) string {
	lower := strings.ToLower(s)
	if strings.HasPrefix(lower, "a ") || strings.HasPrefix(lower, "an ") || strings.HasPrefix(lower, "the ") {
		return s
	}
	if s != "" && strings.ContainsRune("aeiou", rune(lower[0])) {
		return "an " + s
	}
	return "a " + s
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
