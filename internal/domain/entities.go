package domain

import "strings"

// MediaType identifies the kind of title being looked up
type MediaType string

const (
	MediaTypeMovie  MediaType = "movie"
	MediaTypeSeries MediaType = "series"
)

// ParseMediaType maps a free-form type hint to a MediaType.
// Unknown or empty hints return "" (no type preference).
func ParseMediaType(s string) MediaType {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "movie", "film":
		return MediaTypeMovie
	case "series", "show", "tv":
		return MediaTypeSeries
	default:
		return ""
	}
}

// TitleQuery is one lookup request as extracted from a streaming page.
// Title is the raw scraped string; ExpectedType is a soft hint.
type TitleQuery struct {
	Title        string
	ExpectedType MediaType
}

// CacheKey derives the deterministic cache/coalescing key for a query.
// Identical (title, type) pairs always map to the same key; the key is
// used literally, never as a shortened fingerprint.
func CacheKey(title string, t MediaType) string {
	typeTag := "unknown"
	if t != "" {
		typeTag = string(t)
	}
	return strings.ToLower(title) + "_" + typeTag
}

// Candidate is one row from a remote title search response.
// Rating and Votes are zero when the remote record carries no usable
// aggregate rating.
type Candidate struct {
	ID     string
	Title  string
	Type   MediaType
	Rating float64
	Votes  int64
}

// HasRating reports whether the candidate carries a usable rating value.
func (c Candidate) HasRating() bool {
	return c.Rating > 0
}

// Match pairs the selected candidate with its similarity score.
type Match struct {
	Candidate Candidate
	Score     float64
}

// ResolvedRating is the display-ready unit returned to callers and
// stored in the cache.
type ResolvedRating struct {
	Score        string  `json:"score"`
	Votes        string  `json:"votes"`
	Confidence   float64 `json:"confidence"`
	MatchedTitle string  `json:"matchedTitle"`
	Type         string  `json:"type,omitempty"`
}
