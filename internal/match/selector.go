// Package match picks the best catalog candidate for a scraped title
// and gates it behind a minimum confidence threshold.
package match

import (
	"strings"

	"github.com/jmfields/ratebadge/internal/domain"
	"github.com/jmfields/ratebadge/internal/similarity"
)

// DefaultMinScore is the confidence floor below which a best candidate
// is rejected rather than shown with a wrong rating.
const DefaultMinScore = 0.7

// Selector scores candidates against a query title and accepts or
// rejects the winner. Stateless; safe for concurrent use.
type Selector struct {
	minScore float64
}

// NewSelector creates a selector with the given confidence threshold.
// A non-positive threshold falls back to DefaultMinScore.
func NewSelector(minScore float64) *Selector {
	if minScore <= 0 {
		minScore = DefaultMinScore
	}
	return &Selector{minScore: minScore}
}

// Best returns the highest-scoring candidate for the query title, or
// false when no candidate clears the threshold.
//
// The expected type is a soft preference: candidates of the wrong type
// are filtered out first, but if that filter empties the list the full
// list is scored instead. Ties keep the first-seen candidate. A winner
// without a usable rating value is rejected outright; a title match
// with nothing to display is worthless to the caller.
func (s *Selector) Best(queryTitle string, expectedType domain.MediaType, candidates []domain.Candidate) (domain.Match, bool) {
	if len(candidates) == 0 {
		return domain.Match{}, false
	}

	pool := filterByType(candidates, expectedType)
	if len(pool) == 0 {
		pool = candidates
	}

	best := domain.Match{Score: -1}
	for _, c := range pool {
		score := similarity.Score(queryTitle, c.Title)
		if score > best.Score {
			best = domain.Match{Candidate: c, Score: score}
		}
	}

	if best.Score < s.minScore {
		return domain.Match{}, false
	}
	if !best.Candidate.HasRating() {
		return domain.Match{}, false
	}

	return best, true
}

func filterByType(candidates []domain.Candidate, expected domain.MediaType) []domain.Candidate {
	if expected == "" {
		return candidates
	}

	var filtered []domain.Candidate
	for _, c := range candidates {
		if strings.EqualFold(string(c.Type), string(expected)) {
			filtered = append(filtered, c)
		}
	}
	return filtered
}
