// Package resolver ties cache, scheduler, remote search, and match
// selection into the single public operation: resolve a scraped title
// to a display-ready rating, or to nothing.
package resolver

import (
	"context"
	"log/slog"
	"strings"
	"sync"

	"github.com/jmfields/ratebadge/internal/domain"
	"github.com/jmfields/ratebadge/internal/match"
	"github.com/jmfields/ratebadge/internal/scheduler"
)

// Service resolves title queries. One instance owns the in-flight
// registry; construct it once per process and share the handle.
type Service struct {
	searcher domain.Searcher
	store    domain.RatingStore
	sched    *scheduler.Scheduler
	selector *match.Selector
	logger   *slog.Logger

	mu       sync.Mutex
	inflight map[string]*lookup
}

// lookup is one in-flight remote resolution. Concurrent callers for
// the same key all wait on done and share the same outcome, so at most
// one remote request per key is ever in flight.
type lookup struct {
	done   chan struct{}
	rating *domain.ResolvedRating
}

// NewService wires a resolver from its collaborators.
func NewService(searcher domain.Searcher, store domain.RatingStore, sched *scheduler.Scheduler, selector *match.Selector, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		searcher: searcher,
		store:    store,
		sched:    sched,
		selector: selector,
		logger:   logger,
		inflight: make(map[string]*lookup),
	}
}

// Resolve returns the rating to overlay for a query, or nil when no
// badge should be shown. It never returns an error: empty input,
// below-threshold matches, and exhausted lookups all degrade to nil.
//
// Negative results are not cached, so a later catalog update can
// surface a match without waiting out the cache TTL.
func (s *Service) Resolve(ctx context.Context, q domain.TitleQuery) *domain.ResolvedRating {
	if strings.TrimSpace(q.Title) == "" {
		return nil
	}

	key := domain.CacheKey(q.Title, q.ExpectedType)
	if rating, ok := s.store.Get(key); ok {
		return &rating
	}

	s.mu.Lock()
	if l, ok := s.inflight[key]; ok {
		s.mu.Unlock()
		select {
		case <-l.done:
			return l.rating
		case <-ctx.Done():
			return nil
		}
	}
	l := &lookup{done: make(chan struct{})}
	s.inflight[key] = l
	s.mu.Unlock()

	l.rating = s.lookup(ctx, key, q)

	s.mu.Lock()
	delete(s.inflight, key)
	s.mu.Unlock()
	close(l.done)

	return l.rating
}

// lookup runs one remote resolution through the scheduler.
func (s *Service) lookup(ctx context.Context, key string, q domain.TitleQuery) *domain.ResolvedRating {
	var candidates []domain.Candidate
	var searchErr error

	// The remote call carries the raw title; normalization is only for
	// keys and scoring.
	err := s.sched.Run(ctx, func(ctx context.Context) {
		candidates, searchErr = s.searcher.SearchTitles(ctx, q.Title)
	})
	if err != nil {
		s.logger.Warn("lookup not scheduled", "key", key, "error", err)
		return nil
	}
	if searchErr != nil {
		s.logger.Warn("lookup degraded to no rating", "key", key, "error", searchErr)
		return nil
	}

	m, ok := s.selector.Best(q.Title, q.ExpectedType, candidates)
	if !ok {
		s.logger.Debug("no acceptable match", "key", key, "candidates", len(candidates))
		return nil
	}

	rating := buildRating(m)
	if err := s.store.Put(key, rating); err != nil {
		// Degraded persistence must not cost the caller its result.
		s.logger.Warn("cache write failed", "key", key, "error", err)
	}

	s.logger.Debug("resolved rating",
		"key", key, "matched", m.Candidate.Title, "confidence", m.Score)
	return &rating
}

// ClearCache wipes the rating cache. Exposed for the user-triggered
// reset.
func (s *Service) ClearCache() error {
	return s.store.Clear()
}
