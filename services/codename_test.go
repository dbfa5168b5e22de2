package services

import (
	"strings"
	"testing"
)

func TestSelectCodename(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{
			name: "cat keyword",
			text: "I want to help the cats at the rescue",
			want: "COMFY PAWS",
		},
		{
			name: "cat keyword uppercase",
			text: "FEED THE KITTENS DOWNTOWN",
			want: "COMFY PAWS",
		},
		{
			name: "dog keyword with surrounding text",
			text: "help the dogs at the shelter",
			want: "BRAVE PAWS",
		},
		{
			name: "dog wins over shelter rule",
			text: "dogs at the animal shelter",
			want: "BRAVE PAWS",
		},
		{
			name: "animal shelter without species",
			text: "volunteer at the animal shelter on weekends",
			want: "COZY PAWS",
		},
		{
			name: "litter keyword",
			text: "clean up litter in the park",
			want: "CLEAN SWEEP",
		},
		{
			name: "pollution keyword",
			text: "stop the pollution in our river",
			want: "CLEAN SWEEP",
		},
		{
			name: "climate keyword",
			text: "do something about climate change",
			want: "GREEN GUARDIAN",
		},
		{
			name: "bullying keyword",
			text: "stop bullying at recess",
			want: "KINDNESS SHIELD",
		},
		{
			name: "hunger keyword",
			text: "kids who are hungry after school",
			want: "FULL PLATE",
		},
		{
			name: "homeless keyword",
			text: "collect coats for homeless people this winter",
			want: "WARM WELCOME",
		},
		{
			name: "school keyword",
			text: "fix up our school garden",
			want: "SCHOOL SPIRIT",
		},
		{
			name: "literacy keyword",
			text: "start a book swap in my neighborhood",
			want: "STORY SPARK",
		},
		{
			name: "safety keyword",
			text: "a safe crossing near the playground",
			want: "SAFE STEPS",
		},
		{
			name: "loneliness keyword",
			text: "visit lonely seniors at the care home",
			want: "FRIENDLY VISIT",
		},
		{
			name: "generic fallback takes two content words",
			text: "plant a community garden",
			want: "PLANT COMMUNITY",
		},
		{
			name: "generic fallback skips stopwords",
			text: "lots of the very empty playground",
			want: "EMPTY PLAYGROUND",
		},
		{
			name: "only first sentence considered",
			text: "community garden. also help the cats",
			want: "COMMUNITY GARDEN",
		},
		{
			name: "outer quotes stripped",
			text: "\"community garden\"",
			want: "COMMUNITY GARDEN",
		},
		{
			name: "empty input",
			text: "",
			want: "CITIZEN HERO",
		},
		{
			name: "whitespace only",
			text: "   \t  ",
			want: "CITIZEN HERO",
		},
		{
			name: "single character",
			text: "x",
			want: "CITIZEN HERO",
		},
		{
			name: "no alphabetic content",
			text: "1234 5678",
			want: "HERO MISSION",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SelectCodename(tt.text); got != tt.want {
				t.Errorf("SelectCodename(%q) = %q, want %q", tt.text, got, tt.want)
			}
		})
	}
}

func TestSelectCodenameDeterministic(t *testing.T) {
	text := "help the dogs at the shelter"
	first := SelectCodename(text)
	for i := 0; i < 10; i++ {
		if got := SelectCodename(text); got != first {
			t.Fatalf("SelectCodename not deterministic: %q vs %q", got, first)
		}
	}
}

func TestBuildOperationName(t *testing.T) {
	tests := []struct {
		name        string
		missionIdea string
		existing    string
		want        string
	}{
		{
			name:        "derives from mission idea",
			missionIdea: "help the dogs at the shelter",
			existing:    "",
			want:        "OPERATION BRAVE PAWS",
		},
		{
			name:        "empty mission idea",
			missionIdea: "",
			existing:    "",
			want:        "OPERATION CITIZEN HERO",
		},
		{
			name:        "short existing name kept and uppercased",
			missionIdea: "help the dogs",
			existing:    "Paw Patrol",
			want:        "OPERATION PAW PATROL",
		},
		{
			name:        "already prefixed name not double-prefixed",
			missionIdea: "help the dogs",
			existing:    "OPERATION CLEAN SWEEP",
			want:        "OPERATION CLEAN SWEEP",
		},
		{
			name:        "lowercase prefixed name normalized once",
			missionIdea: "help the dogs",
			existing:    "operation clean sweep",
			want:        "OPERATION CLEAN SWEEP",
		},
		{
			name:        "long existing name rejected",
			missionIdea: "clean up litter in the park",
			existing:    strings.Repeat("x", 50),
			want:        "OPERATION CLEAN SWEEP",
		},
		{
			name:        "sentence-like existing name rejected",
			missionIdea: "clean up litter in the park",
			existing:    "Help all the animals, everywhere!",
			want:        "OPERATION CLEAN SWEEP",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := BuildOperationName(tt.missionIdea, tt.existing); got != tt.want {
				t.Errorf("BuildOperationName(%q, %q) = %q, want %q",
					tt.missionIdea, tt.existing, got, tt.want)
			}
		})
	}
}

func TestBuildOperationNameIdempotent(t *testing.T) {
	name := BuildOperationName("help the cats", "")
	again := BuildOperationName("help the cats", name)
	if again != name {
		t.Errorf("re-prefixing changed the name: %q -> %q", name, again)
	}
	if strings.Count(again, OperationPrefix) != 1 {
		t.Errorf("name carries the prefix more than once: %q", again)
	}
}
