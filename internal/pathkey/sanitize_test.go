package pathkey_test

import (
	"testing"

	"restow/internal/pathkey"
)

func TestSanitize(t *testing.T) {
	cases := []struct {
		name  string
		input string
		want  string
	}{
		{"simple", "Robotics", "robotics"},
		{"spaces collapse", "Lesson  One", "lesson-one"},
		{"punctuation stripped", "Intro To Robotics!", "intro-to-robotics"},
		{"mixed", "Module 1", "module-1"},
		{"underscores kept", "unit_3", "unit_3"},
		{"dots kept", "v1.2", "v1.2"},
		{"diacritics folded", "Café Société", "cafe-societe"},
		{"leading trailing junk", "  --Week 4--  ", "week-4"},
		{"empty", "", "unknown"},
		{"whitespace only", "   \t ", "unknown"},
		{"all disallowed", "!@#$%^&*()", "unknown"},
		{"hyphen runs", "a - - b", "a-b"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := pathkey.Sanitize(tc.input); got != tc.want {
				t.Fatalf("Sanitize(%q) = %q, want %q", tc.input, got, tc.want)
			}
		})
	}
}

func TestSanitizeNeverEmpty(t *testing.T) {
	inputs := []string{"", " ", "!!!", "---", "...", "é́"}
	for _, input := range inputs {
		if got := pathkey.Sanitize(input); got == "" {
			t.Fatalf("Sanitize(%q) produced an empty segment", input)
		}
	}
}

func TestSanitizeDeterministic(t *testing.T) {
	const input = "Intro To Robotics!"
	first := pathkey.Sanitize(input)
	for i := 0; i < 5; i++ {
		if got := pathkey.Sanitize(input); got != first {
			t.Fatalf("Sanitize(%q) unstable: %q then %q", input, first, got)
		}
	}
}
