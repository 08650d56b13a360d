package domain

import "errors"

// Sentinel errors for remote lookups
var (
	// ErrRateLimited indicates the remote search API returned HTTP 429
	ErrRateLimited = errors.New("search API rate limited")

	// ErrSearchUnavailable indicates the remote search API is unreachable
	// or timed out
	ErrSearchUnavailable = errors.New("search API is unreachable")
)
