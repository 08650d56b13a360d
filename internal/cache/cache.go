// Package cache persists resolved ratings keyed by normalized
// title+type so repeated lookups of the same card cost nothing.
//
// The in-memory map is authoritative for the session; every mutation
// is written through to BoltDB immediately. When the database cannot
// be opened or written the store degrades to memory-only rather than
// failing resolution.
package cache

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/jmfields/ratebadge/internal/domain"
	bolt "go.etcd.io/bbolt"
)

var bucketRatings = []byte("ratings")

// DefaultMaxAge is how long a resolved rating stays valid. Catalog
// ratings drift slowly; a month keeps badges fresh without hammering
// the search API.
const DefaultMaxAge = 30 * 24 * time.Hour

// Entry wraps a rating with its write time (epoch millis).
type Entry struct {
	Rating    domain.ResolvedRating `json:"rating"`
	Timestamp int64                 `json:"timestamp"`
}

// Store is a write-through rating cache with age-based expiry.
type Store struct {
	db     *bolt.DB
	maxAge time.Duration
	logger *slog.Logger

	mu      sync.RWMutex
	entries map[string]Entry

	now func() time.Time
}

// NewStore opens the cache at dir/ratings.db and sweeps expired
// entries. An empty dir selects memory-only mode; an unopenable
// database degrades to memory-only instead of failing.
func NewStore(dir string, maxAge time.Duration, logger *slog.Logger) *Store {
	if maxAge <= 0 {
		maxAge = DefaultMaxAge
	}
	if logger == nil {
		logger = slog.Default()
	}
	s := &Store{
		maxAge:  maxAge,
		logger:  logger,
		entries: make(map[string]Entry),
		now:     time.Now,
	}

	if dir == "" {
		return s
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		logger.Warn("cache dir unavailable, running memory-only", "dir", dir, "error", err)
		return s
	}

	dbPath := filepath.Join(dir, "ratings.db")
	db, err := bolt.Open(dbPath, 0600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		logger.Warn("cache db unavailable, running memory-only", "path", dbPath, "error", err)
		return s
	}

	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketRatings)
		return err
	})
	if err != nil {
		logger.Warn("cache bucket unavailable, running memory-only", "error", err)
		db.Close()
		return s
	}

	s.db = db
	s.load()
	s.sweep()
	return s
}

// load pulls every persisted entry into the in-memory map.
func (s *Store) load() {
	s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketRatings)
		return b.ForEach(func(k, v []byte) error {
			var e Entry
			if err := json.Unmarshal(v, &e); err != nil {
				s.logger.Warn("dropping unreadable cache entry", "key", string(k), "error", err)
				return nil
			}
			s.entries[string(k)] = e
			return nil
		})
	})
}

// sweep deletes every expired entry, persisting only when something
// was actually removed.
func (s *Store) sweep() {
	s.mu.Lock()
	var removed []string
	for k, e := range s.entries {
		if !s.valid(e) {
			delete(s.entries, k)
			removed = append(removed, k)
		}
	}
	s.mu.Unlock()

	if len(removed) == 0 || s.db == nil {
		return
	}

	err := s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketRatings)
		for _, k := range removed {
			if err := b.Delete([]byte(k)); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		s.logger.Warn("cache sweep persist failed", "error", err)
	}
	s.logger.Debug("swept expired cache entries", "count", len(removed))
}

// valid reports whether an entry is within the max age.
func (s *Store) valid(e Entry) bool {
	age := s.now().UnixMilli() - e.Timestamp
	return age >= 0 && time.Duration(age)*time.Millisecond <= s.maxAge
}

// Get returns the cached rating for key. Expired entries are deleted
// lazily on access.
func (s *Store) Get(key string) (domain.ResolvedRating, bool) {
	s.mu.RLock()
	e, ok := s.entries[key]
	s.mu.RUnlock()

	if !ok {
		return domain.ResolvedRating{}, false
	}
	if !s.valid(e) {
		s.remove(key)
		return domain.ResolvedRating{}, false
	}
	return e.Rating, true
}

// Put stores a rating under key with the current timestamp. A
// persistence failure keeps the in-memory entry and is reported, not
// fatal.
func (s *Store) Put(key string, rating domain.ResolvedRating) error {
	e := Entry{Rating: rating, Timestamp: s.now().UnixMilli()}

	s.mu.Lock()
	s.entries[key] = e
	s.mu.Unlock()

	if s.db == nil {
		return nil
	}

	data, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("failed to encode cache entry: %w", err)
	}
	err = s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketRatings).Put([]byte(key), data)
	})
	if err != nil {
		return fmt.Errorf("failed to persist cache entry: %w", err)
	}
	return nil
}

func (s *Store) remove(key string) {
	s.mu.Lock()
	delete(s.entries, key)
	s.mu.Unlock()

	if s.db == nil {
		return
	}
	s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketRatings).Delete([]byte(key))
	})
}

// Clear wipes all entries and persists the empty state. Exposed for
// the user-triggered cache reset.
func (s *Store) Clear() error {
	s.mu.Lock()
	s.entries = make(map[string]Entry)
	s.mu.Unlock()

	if s.db == nil {
		return nil
	}

	err := s.db.Update(func(tx *bolt.Tx) error {
		if err := tx.DeleteBucket(bucketRatings); err != nil {
			return err
		}
		_, err := tx.CreateBucket(bucketRatings)
		return err
	})
	if err != nil {
		return fmt.Errorf("failed to clear cache: %w", err)
	}
	return nil
}

// Close releases the underlying database.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}
