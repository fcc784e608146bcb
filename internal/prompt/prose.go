package prompt

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

var (
	// artistPhrase catches comparison wording and the clause that follows it
	artistPhrase = regexp.MustCompile(`(?i)(?:\b(?:a|an|the|my|our)\s+)?\b(?:in the (?:style|vein|manner|spirit) of|(?:sounds?|sounding|feels?|feeling|looks?) like|reminiscent of|(?:tribute|homage|nod) to|(?:inspired|influenced) by|fans? of|[aà] la|channel(?:l)?ing)\s+[^,.;:!?\n]*`)
	// namedLike only strips "like" when a capitalized name follows
	namedLike = regexp.MustCompile(`\b[Ll]ike\s+\p{Lu}[\p{L}'&.]*(?:\s+\p{Lu}[\p{L}'&.]*)*`)
	// styledName catches "Daft Punk-style" and similar suffixes
	styledName = regexp.MustCompile(`\b\p{Lu}[\p{L}'&.]*(?:\s+\p{Lu}[\p{L}'&.]*)*-(?:style|esque|inspired|like)\b`)
	tempoToken = regexp.MustCompile(`(?i)(?:\b(?:at|around|about)\s+)?\b\d+(?:\s*(?:-|to)\s*\d+)?\s*(?:bpm|beats per minute)\b|\b(?:bpm|beats per minute)\b`)

	bpmMention      = regexp.MustCompile(`\b\d+ BPM\b`)
	bulletLine      = regexp.MustCompile(`(?m)^\s*(?:[-*+]|\d+[.)])\s`)
	structuredRunes = "{}[]|`<>#*"
	voicePart       = regexp.MustCompile(`(?i)\b(?:lyrics?|vocals?|sing|singing|sung|singer|choir|choral)\b`)
	firstPerson     = regexp.MustCompile(`(?i)\b(?:I|we)(?:\s+have|'ve)?\s+(?:made|produced|rendered|recorded|heard|listened to|composed|generated)\s+(?:this|the|your|a|an)\s+(?:track|song|piece|music|audio|demo|mix|loop|cue|prompt)\b`)
)

// Prose contract violations
var (
	ErrStructuredText = errors.New("prompt contains structured or markup syntax")
	ErrTempoCount     = errors.New("prompt must mention exactly one BPM")
	ErrArtistMention  = errors.New("prompt references an artist")
	ErrVoicePart      = errors.New("instrumental prompt mentions a voice part")
	ErrFirstPerson    = errors.New("prompt claims to have produced or heard audio")
)

// ValidateProse checks a rendered prompt against the prose contract: plain
// sentences, one tempo mention, no artist comparisons, no claims of having
// heard audio and, when vocals is false, no voice parts.
func ValidateProse(r Rendered, vocals bool) error {
	for _, part := range []string{r.Title, r.Body} {
		if strings.ContainsAny(part, structuredRunes) {
			return fmt.Errorf("%w: %q", ErrStructuredText, firstLine(part))
		}
	}
	if bulletLine.MatchString(r.Body) {
		return fmt.Errorf("%w: list item", ErrStructuredText)
	}
	if n := len(bpmMention.FindAllString(r.Body, -1)); n != 1 {
		return fmt.Errorf("%w: found %d", ErrTempoCount, n)
	}
	text := r.Title + "\n" + r.Body
	if m := artistReference(text); m != "" {
		return fmt.Errorf("%w: %q", ErrArtistMention, m)
	}
	if firstPerson.MatchString(text) {
		return ErrFirstPerson
	}
	if !vocals && voicePart.MatchString(text) {
		return fmt.Errorf("%w: %q", ErrVoicePart, voicePart.FindString(text))
	}
	return nil
}

// BPMMention returns the single "<n> BPM" token of body, if any.
func BPMMention(body string) string {
	return bpmMention.FindString(body)
}

func artistReference(s string) string {
	for _, re := range []*regexp.Regexp{artistPhrase, namedLike, styledName} {
		if m := re.FindString(s); m != "" {
			return m
		}
	}
	return ""
}

func firstLine(s string) string {
	line, _, _ := strings.Cut(strings.TrimSpace(s), "\n")
	return line
}
