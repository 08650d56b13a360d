package domain_test

import (
	"testing"

	"github.com/jmfields/ratebadge/internal/domain"
)

func TestCacheKey(t *testing.T) {
	tests := []struct {
		name  string
		title string
		typ   domain.MediaType
		want  string
	}{
		{"movie", "Inception", domain.MediaTypeMovie, "inception_movie"},
		{"series", "Dark", domain.MediaTypeSeries, "dark_series"},
		{"no type", "Dark", "", "dark_unknown"},
		{"case-insensitive", "The MATRIX", domain.MediaTypeMovie, "the matrix_movie"},
		{"raw title kept", "Spider-Man: No Way Home", "", "spider-man: no way home_unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := domain.CacheKey(tt.title, tt.typ); got != tt.want {
				t.Errorf("CacheKey(%q, %q) = %q, want %q", tt.title, tt.typ, got, tt.want)
			}
		})
	}
}

func TestCacheKeyCaseVariantsCollide(t *testing.T) {
	a := domain.CacheKey("Inception", domain.MediaTypeMovie)
	b := domain.CacheKey("INCEPTION", domain.MediaTypeMovie)
	if a != b {
		t.Errorf("case variants map to distinct keys: %q vs %q", a, b)
	}
}

func TestParseMediaType(t *testing.T) {
	tests := []struct {
		in   string
		want domain.MediaType
	}{
		{"movie", domain.MediaTypeMovie},
		{"Film", domain.MediaTypeMovie},
		{"series", domain.MediaTypeSeries},
		{"SHOW", domain.MediaTypeSeries},
		{"tv", domain.MediaTypeSeries},
		{"", ""},
		{"podcast", ""},
	}
	for _, tt := range tests {
		if got := domain.ParseMediaType(tt.in); got != tt.want {
			t.Errorf("ParseMediaType(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestCandidateHasRating(t *testing.T) {
	if (domain.Candidate{Rating: 0}).HasRating() {
		t.Error("zero rating must not count as usable")
	}
	if (domain.Candidate{Rating: -1}).HasRating() {
		t.Error("negative rating must not count as usable")
	}
	if !(domain.Candidate{Rating: 6.0}).HasRating() {
		t.Error("positive rating must count as usable")
	}
}
