package services

import (
	"regexp"
	"strings"
)

const (
	// OperationPrefix is the fixed marker every quest name carries.
	OperationPrefix = "OPERATION "
	// NeutralCodename is the label used when no theme can be derived.
	NeutralCodename = "CITIZEN HERO"

	maxCodenameLength = 40
)

// stopwords are filler words ignored when building short codenames.
var stopwords = map[string]struct{}{
	"a": {}, "an": {}, "the": {}, "and": {}, "or": {}, "for": {}, "of": {},
	"on": {}, "in": {}, "at": {}, "to": {}, "with": {}, "about": {},
	"around": {}, "near": {}, "my": {}, "our": {}, "their": {}, "your": {},
	"this": {}, "that": {}, "these": {}, "those": {}, "is": {}, "are": {},
	"be": {}, "being": {}, "been": {}, "there": {}, "lots": {}, "bunch": {},
	"many": {}, "very": {}, "really": {}, "just": {}, "some": {},
}

type codenameCategory struct {
	label    string
	keywords []string
}

// codenameCategories is scanned in order; the first category with a keyword
// substring match wins. Specific rules come first (cats/dogs before the
// generic shelter rule, litter before the broader environment rule).
var codenameCategories = []codenameCategory{
	{"COMFY PAWS", []string{"cat", "cats", "kitten", "kittens"}},
	{"BRAVE PAWS", []string{"dog", "dogs", "puppy", "puppies"}},
	{"COZY PAWS", []string{"animal shelter", "shelter animals"}},
	{"CLEAN SWEEP", []string{"trash", "litter", "garbage", "rubbish", "pollution"}},
	{"GREEN GUARDIAN", []string{"climate", "environment", "recycl", "planet", "nature"}},
	{"KINDNESS SHIELD", []string{"bully", "bullying", "kindness", "inclusion"}},
	{"FULL PLATE", []string{"hunger", "hungry", "food bank", "food drive", "meals"}},
	{"WARM WELCOME", []string{"homeless", "housing", "shelter"}},
	{"SCHOOL SPIRIT", []string{"school", "classroom", "students"}},
	{"STORY SPARK", []string{"read", "book", "literacy", "library"}},
	{"SAFE STEPS", []string{"safety", "safe", "crossing", "helmet"}},
	{"FRIENDLY VISIT", []string{"lonely", "loneliness", "elderly", "seniors"}},
}

var wordPattern = regexp.MustCompile(`[A-Za-z']+`)

// quote characters stripped from the outside of a phrase
const (
	openingQuotes = "\"'“”‘"
	closingQuotes = "\"'“”’"
)

// cleanPhrase trims whitespace and outer quotes from a phrase.
func cleanPhrase(text string) string {
	t := strings.TrimSpace(text)
	runes := []rune(t)
	if len(runes) >= 2 &&
		strings.ContainsRune(openingQuotes, runes[0]) &&
		strings.ContainsRune(closingQuotes, runes[len(runes)-1]) {
		t = strings.TrimSpace(string(runes[1 : len(runes)-1]))
	}
	return t
}

// SelectCodename derives a short thematic label from the user's mission
// idea. It is deterministic and pure: themed categories are tried first in
// declaration order, then a generic uppercase-content-words fallback, then
// the neutral label.
func SelectCodename(freeText string) string {
	if strings.TrimSpace(freeText) == "" {
		return NeutralCodename
	}

	t := cleanPhrase(freeText)
	// Keep only the first sentence.
	for _, sep := range []string{".", "!", "?"} {
		if idx := strings.Index(t, sep); idx >= 0 {
			t = t[:idx]
			break
		}
	}
	t = strings.TrimSpace(t)
	if len([]rune(t)) < 2 {
		return NeutralCodename
	}

	lower := strings.ToLower(t)
	for _, cat := range codenameCategories {
		for _, kw := range cat.keywords {
			if strings.Contains(lower, kw) {
				return cat.label
			}
		}
	}

	// Generic path: up to two meaningful words, uppercased.
	tokens := wordPattern.FindAllString(t, -1)
	words := make([]string, 0, len(tokens))
	for _, w := range tokens {
		if _, skip := stopwords[strings.ToLower(w)]; !skip {
			words = append(words, w)
		}
	}
	if len(words) == 0 {
		words = tokens
	}
	if len(words) == 0 {
		words = []string{"Hero", "Mission"}
	}
	if len(words) > 2 {
		words = words[:2]
	}

	return strings.ToUpper(strings.Join(words, " "))
}

// isReasonableCodename reports whether a name already looks like a short
// codename: no sentence punctuation and under the length cap.
func isReasonableCodename(name string) bool {
	stripped := strings.TrimSpace(name)
	if stripped == "" {
		return false
	}
	if len([]rune(stripped)) > maxCodenameLength {
		return false
	}
	return !strings.ContainsAny(stripped, ".?!,;:")
}

// BuildOperationName normalizes quest names into an "OPERATION ..." codename.
// An existing name that already looks short and punchy is kept (uppercased);
// otherwise a compact codename is derived from the mission idea. Prefixing
// is idempotent: a name already carrying the marker is never double-prefixed.
func BuildOperationName(missionIdea, existing string) string {
	var base string
	if isReasonableCodename(existing) {
		base = strings.ToUpper(existing)
	} else {
		base = SelectCodename(missionIdea)
	}

	if !strings.HasPrefix(base, OperationPrefix) {
		return OperationPrefix + base
	}
	return base
}
