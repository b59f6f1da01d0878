package cache

import (
	"context"
	"strconv"
	"sync"
	"time"
)

// minSweepSize is the bucket size at which Set first drops expired entries.
const minSweepSize = 128

type memoryEntry struct {
	value     []byte
	expiresAt time.Time
}

// MemoryStore is an in-process Store for development and tests.
type MemoryStore struct {
	mu       sync.Mutex
	versions map[string]uint64
	entries  map[string]map[string]memoryEntry // tag -> key -> entry, current version only
	sweepAt  map[string]int
	now      func() time.Time
}

// NewMemoryStore returns an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		versions: make(map[string]uint64),
		entries:  make(map[string]map[string]memoryEntry),
		sweepAt:  make(map[string]int),
		now:      time.Now,
	}
}

// WithClock replaces the time source. Intended for tests.
func (s *MemoryStore) WithClock(now func() time.Time) *MemoryStore {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = now
	return s
}

func (s *MemoryStore) Version(_ context.Context, tag string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return strconv.FormatUint(s.versions[tag], 10), nil
}

func (s *MemoryStore) Get(_ context.Context, tag, version, key string) ([]byte, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if version != strconv.FormatUint(s.versions[tag], 10) {
		return nil, false, nil
	}
	e, ok := s.entries[tag][key]
	if !ok {
		return nil, false, nil
	}
	if !s.now().Before(e.expiresAt) {
		delete(s.entries[tag], key)
		return nil, false, nil
	}
	return append([]byte(nil), e.value...), true, nil
}

// Set drops writes addressed to a retired version. Once a bucket grows past
// its sweep size the expired entries are removed and the next sweep size is
// set to twice the surviving count.
func (s *MemoryStore) Set(_ context.Context, tag, version, key string, value []byte, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if version != strconv.FormatUint(s.versions[tag], 10) {
		return nil
	}
	bucket, ok := s.entries[tag]
	if !ok {
		bucket = make(map[string]memoryEntry)
		s.entries[tag] = bucket
	}
	now := s.now()
	bucket[key] = memoryEntry{
		value:     append([]byte(nil), value...),
		expiresAt: now.Add(ttl),
	}

	if len(bucket) >= max(s.sweepAt[tag], minSweepSize) {
		sweep(bucket, now)
		s.sweepAt[tag] = 2 * len(bucket)
	}
	return nil
}

// Cleanup removes expired entries from every bucket and returns how many it removed.
func (s *MemoryStore) Cleanup() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	removed := 0
	for _, bucket := range s.entries {
		removed += sweep(bucket, now)
	}
	return removed
}

// StartCleanup runs Cleanup every interval until ctx is done.
func (s *MemoryStore) StartCleanup(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Cleanup()
		}
	}
}

func sweep(bucket map[string]memoryEntry, now time.Time) int {
	removed := 0
	for k, e := range bucket {
		if !now.Before(e.expiresAt) {
			delete(bucket, k)
			removed++
		}
	}
	return removed
}

func (s *MemoryStore) Flush(_ context.Context, tag string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.versions[tag]++
	delete(s.entries, tag)
	delete(s.sweepAt, tag)
	return nil
}

// Len reports the number of stored entries for tag, including expired ones
// not yet swept.
func (s *MemoryStore) Len(tag string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries[tag])
}
