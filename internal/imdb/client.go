// Package imdb implements domain.Searcher against a remote title
// search API. The client owns the per-call retry policy; queueing and
// rate limiting happen one layer up in the scheduler.
package imdb

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/jmfields/ratebadge/internal/domain"
)

const (
	defaultBaseURL = "https://api.imdbapi.dev"
	searchPath     = "/search/titles"
	userAgent      = "ratebadge/1.0"

	// One attempt may not hang the queue: 5s then it counts as a
	// transport failure.
	attemptTimeout = 5 * time.Second

	// HTTP 429 gets up to two more attempts with doubling backoff;
	// a plain transport failure gets exactly one quick retry.
	maxRateLimitRetries = 2
)

// Client queries the title search API.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger

	// Retry pacing, shrunk in tests.
	rateLimitBackoff    time.Duration
	transportRetryDelay time.Duration
}

// NewClient creates a search client. An empty baseURL selects the
// public endpoint.
func NewClient(baseURL string, logger *slog.Logger) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: attemptTimeout,
		},
		logger:              logger,
		rateLimitBackoff:    time.Second,
		transportRetryDelay: 500 * time.Millisecond,
	}
}

// SearchTitles queries the catalog with the raw (non-normalized) title
// and returns candidate records. Retries are bounded: rate limiting is
// retried with backoff, a transport failure once after a short delay,
// and caller cancellation is always final.
func (c *Client) SearchTitles(ctx context.Context, query string) ([]domain.Candidate, error) {
	rateRetries := 0
	transportRetried := false
	backoff := c.rateLimitBackoff

	for {
		candidates, err := c.searchOnce(ctx, query)
		if err == nil {
			return candidates, nil
		}
		if ctx.Err() != nil {
			return nil, err
		}

		switch {
		case errors.Is(err, domain.ErrRateLimited) && rateRetries < maxRateLimitRetries:
			rateRetries++
			c.logger.Warn("search rate limited, backing off",
				"query", query, "attempt", rateRetries, "delay", backoff)
			if !sleep(ctx, backoff) {
				return nil, err
			}
			backoff *= 2

		case errors.Is(err, domain.ErrSearchUnavailable) && !transportRetried:
			transportRetried = true
			c.logger.Warn("search transport failure, retrying once",
				"query", query, "error", err)
			if !sleep(ctx, c.transportRetryDelay) {
				return nil, err
			}

		default:
			return nil, err
		}
	}
}

// searchOnce performs a single search attempt with its own timeout.
func (c *Client) searchOnce(ctx context.Context, query string) ([]domain.Candidate, error) {
	attemptCtx, cancel := context.WithTimeout(ctx, attemptTimeout)
	defer cancel()

	params := url.Values{}
	params.Set("query", query)
	reqURL := fmt.Sprintf("%s%s?%s", c.baseURL, searchPath, params.Encode())

	req, err := http.NewRequestWithContext(attemptCtx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)

	c.logger.Debug("search request", "url", reqURL)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			// Caller cancellation, not a transport problem.
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("%w: %v", domain.ErrSearchUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: reading response: %v", domain.ErrSearchUnavailable, err)
	}

	switch {
	case resp.StatusCode == http.StatusOK:
	case resp.StatusCode == http.StatusTooManyRequests:
		return nil, domain.ErrRateLimited
	case resp.StatusCode >= 500:
		c.logger.Error("search server error", "status", resp.StatusCode)
		return nil, fmt.Errorf("%w: status %d", domain.ErrSearchUnavailable, resp.StatusCode)
	default:
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	var parsed searchResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		c.logger.Error("search response parse error", "error", err, "bodyLen", len(body))
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	return mapCandidates(parsed.Titles), nil
}

// sleep waits for d, returning false if ctx ended first.
func sleep(ctx context.Context, d time.Duration) bool {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return true
	case <-ctx.Done():
		return false
	}
}
