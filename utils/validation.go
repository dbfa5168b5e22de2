package utils

import (
	"strings"
)

// MaxMissionIdeaLength caps how much free text is carried into templates and
// stored quest bodies.
const MaxMissionIdeaLength = 500

// SanitizeMissionIdea trims, collapses internal whitespace and caps the
// length of a user-supplied mission idea. It never rejects input; an
// unusable idea simply becomes the empty string and downstream templates
// substitute a neutral phrase.
func SanitizeMissionIdea(text string) string {
	cleaned := strings.Join(strings.Fields(text), " ")
	runes := []rune(cleaned)
	if len(runes) > MaxMissionIdeaLength {
		cleaned = strings.TrimSpace(string(runes[:MaxMissionIdeaLength]))
	}
	return cleaned
}
