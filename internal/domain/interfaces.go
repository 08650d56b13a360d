package domain

import "context"

// Searcher queries a remote catalog for title candidates.
// Implementations own their retry policy; a nil error with an empty
// slice means "the catalog has nothing for this query".
type Searcher interface {
	SearchTitles(ctx context.Context, query string) ([]Candidate, error)
}

// RatingStore persists resolved ratings keyed by normalized title+type.
type RatingStore interface {
	Get(key string) (ResolvedRating, bool)
	Put(key string, rating ResolvedRating) error
	Clear() error
	Close() error
}
