package resolver

import (
	"strconv"
	"strings"

	"github.com/jmfields/ratebadge/internal/domain"
)

// buildRating turns an accepted match into the display-ready unit that
// gets cached and returned.
func buildRating(m domain.Match) domain.ResolvedRating {
	return domain.ResolvedRating{
		Score:        formatScore(m.Candidate.Rating),
		Votes:        formatVotes(m.Candidate.Votes),
		Confidence:   m.Score,
		MatchedTitle: m.Candidate.Title,
		Type:         string(m.Candidate.Type),
	}
}

// formatScore renders an aggregate rating with one decimal ("8.7").
func formatScore(v float64) string {
	return strconv.FormatFloat(v, 'f', 1, 64)
}

// formatVotes renders a vote count compactly: millions as "1.2M",
// thousands as "12K", smaller counts verbatim. A trailing ".0" is
// dropped ("12K", not "12.0K").
func formatVotes(v int64) string {
	switch {
	case v >= 1_000_000:
		return trimTrailingZero(float64(v)/1_000_000) + "M"
	case v >= 1_000:
		return trimTrailingZero(float64(v)/1_000) + "K"
	default:
		return strconv.FormatInt(v, 10)
	}
}

func trimTrailingZero(v float64) string {
	return strings.TrimSuffix(strconv.FormatFloat(v, 'f', 1, 64), ".0")
}
