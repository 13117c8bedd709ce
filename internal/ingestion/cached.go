package ingestion

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"github.com/jonathan/resume-tailor/internal/types"
)

// DefaultCacheTTL is how long a scraped record is served from cache.
const DefaultCacheTTL = 24 * time.Hour

// Store persists scraped records keyed by job URL.
type Store interface {
	// GetJobDetails returns the record and when it was fetched, or ErrCacheMiss.
	GetJobDetails(ctx context.Context, jobURL string) (*types.JobDetails, time.Time, error)
	PutJobDetails(ctx context.Context, jobURL string, details *types.JobDetails, fetchedAt time.Time) error
}

// CachedExtractor serves fresh records from a Store and scrapes through another Extractor on a miss.
// Failed scrapes are never cached.
type CachedExtractor struct {
	inner   Extractor
	store   Store
	ttl     time.Duration
	now     func() time.Time
	verbose bool
}

// NewCachedExtractor wraps inner with a cache. A non-positive ttl uses DefaultCacheTTL.
func NewCachedExtractor(inner Extractor, store Store, ttl time.Duration, verbose bool) *CachedExtractor {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &CachedExtractor{
		inner:   inner,
		store:   store,
		ttl:     ttl,
		now:     time.Now,
		verbose: verbose,
	}
}

// Extract implements Extractor.
func (c *CachedExtractor) Extract(ctx context.Context, jobURL string) (*types.JobDetails, error) {
	if err := ValidateJobURL(jobURL); err != nil {
		return nil, err
	}
	key := NormalizeJobURL(jobURL)

	details, fetchedAt, err := c.store.GetJobDetails(ctx, key)
	switch {
	case err == nil && c.now().Sub(fetchedAt) < c.ttl:
		if c.verbose {
			log.Printf("[SCRAPE] cache hit for %s (fetched %s)", key, fetchedAt.Format(time.RFC3339))
		}
		return details, nil
	case err != nil && !errors.Is(err, ErrCacheMiss):
		log.Printf("[SCRAPE] cache lookup failed for %s: %v", key, err)
	}

	details, err = c.inner.Extract(ctx, jobURL)
	if err != nil {
		return nil, err
	}
	if err := c.store.PutJobDetails(ctx, key, details, c.now()); err != nil {
		log.Printf("[SCRAPE] failed to cache %s: %v", key, err)
	}
	return details, nil
}

type memoryEntry struct {
	details   *types.JobDetails
	fetchedAt time.Time
}

// MemoryStore is an in-process Store.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: make(map[string]memoryEntry)}
}

// GetJobDetails implements Store.
func (s *MemoryStore) GetJobDetails(_ context.Context, jobURL string) (*types.JobDetails, time.Time, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entry, ok := s.entries[jobURL]
	if !ok {
		return nil, time.Time{}, ErrCacheMiss
	}
	return entry.details.Clone(), entry.fetchedAt, nil
}

// PutJobDetails implements Store.
func (s *MemoryStore) PutJobDetails(_ context.Context, jobURL string, details *types.JobDetails, fetchedAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries[jobURL] = memoryEntry{details: details.Clone(), fetchedAt: fetchedAt}
	return nil
}

// Len returns the number of cached entries.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}
