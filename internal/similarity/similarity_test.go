package similarity_test

import (
	"testing"

	"github.com/jmfields/ratebadge/internal/similarity"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"lowercases", "The MATRIX", "the matrix"},
		{"strips punctuation", "The Matrix!", "the matrix"},
		{"collapses whitespace", "the   matrix  reloaded", "the matrix reloaded"},
		{"trims", "  the matrix ", "the matrix"},
		{"mixed noise", "Spider-Man: No Way Home", "spiderman no way home"},
		{"empty", "", ""},
		{"only punctuation", "?!*", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := similarity.Normalize(tt.input)
			if got != tt.want {
				t.Errorf("Normalize(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	inputs := []string{"The Matrix!", "  Stranger   Things ", "Spider-Man: No Way Home", "", "42"}
	for _, in := range inputs {
		once := similarity.Normalize(in)
		twice := similarity.Normalize(once)
		if once != twice {
			t.Errorf("Normalize not idempotent for %q: %q != %q", in, once, twice)
		}
	}
}

func TestNormalizeCaseAndPunctuationInsensitive(t *testing.T) {
	if similarity.Normalize("The Matrix!") != similarity.Normalize("the matrix") {
		t.Error("expected punctuation/case variants to normalize equally")
	}
}

func TestScoreIdenticalTitles(t *testing.T) {
	titles := []string{"a", "The Matrix", "Stranger Things", "Brooklyn Nine-Nine"}
	for _, title := range titles {
		if got := similarity.Score(title, title); got != 1.0 {
			t.Errorf("Score(%q, %q) = %v, want exactly 1.0", title, title, got)
		}
	}
}

func TestScoreNormalizedEquivalents(t *testing.T) {
	// Case and punctuation variants hit the exact-equality fast path.
	if got := similarity.Score("The Matrix!", "the matrix"); got != 1.0 {
		t.Errorf("Score = %v, want exactly 1.0", got)
	}
}

func TestScoreSymmetric(t *testing.T) {
	pairs := [][2]string{
		{"Stranger Things", "Stranger Fruit"},
		{"The Office", "The Office (US)"},
		{"Dark", "Dark Matter"},
		{"Breaking Bad", "Better Call Saul"},
	}
	for _, p := range pairs {
		ab := similarity.Score(p[0], p[1])
		ba := similarity.Score(p[1], p[0])
		if ab != ba {
			t.Errorf("Score(%q, %q)=%v but Score(%q, %q)=%v", p[0], p[1], ab, p[1], p[0], ba)
		}
	}
}

func TestScoreRange(t *testing.T) {
	pairs := [][2]string{
		{"Stranger Things", "Stranger Fruit"},
		{"The Witcher", "completely unrelated documentary"},
		{"x", "y"},
		{"", "The Crown"},
	}
	for _, p := range pairs {
		got := similarity.Score(p[0], p[1])
		if got < 0.0 || got > 1.0 {
			t.Errorf("Score(%q, %q) = %v, out of [0,1]", p[0], p[1], got)
		}
	}
}

func TestScoreEmptyAgainstNonEmpty(t *testing.T) {
	if got := similarity.Score("", "The Crown"); got != 0.0 {
		t.Errorf("Score(\"\", title) = %v, want 0", got)
	}
	if got := similarity.Score("", ""); got != 1.0 {
		t.Errorf("Score(\"\", \"\") = %v, want 1 (identical)", got)
	}
}

func TestScoreOrdersCandidatesSensibly(t *testing.T) {
	// A near-identical title must outrank a loosely related one.
	query := "Stranger Things"
	near := similarity.Score(query, "Stranger Things 4")
	far := similarity.Score(query, "Stranger Fruit")
	if near <= far {
		t.Errorf("expected %q (%v) to outrank %q (%v) for query %q",
			"Stranger Things 4", near, "Stranger Fruit", far, query)
	}

	unrelated := similarity.Score(query, "Cooking With Grandma")
	if far <= unrelated {
		t.Errorf("expected %q (%v) to outrank %q (%v)",
			"Stranger Fruit", far, "Cooking With Grandma", unrelated)
	}
}

func TestScoreContainedTitle(t *testing.T) {
	// Full containment should push related titles comfortably above
	// unrelated ones even when lengths differ.
	got := similarity.Score("The Office", "The Office (US)")
	if got < 0.7 {
		t.Errorf("Score for contained title = %v, want >= 0.7", got)
	}
}
