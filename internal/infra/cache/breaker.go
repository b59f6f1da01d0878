package cache

import (
	"context"
	"time"

	"articles-api/internal/resilience/circuitbreaker"
)

// BreakerStore guards a remote Store with a circuit breaker. While the breaker
// is open every call fails fast, which Cache turns into uncached loads for reads
// and into an error for flushes.
type BreakerStore struct {
	next Store
	cb   *circuitbreaker.CircuitBreaker
}

// NewBreakerStore wraps next with a breaker built from cfg.
func NewBreakerStore(next Store, cfg circuitbreaker.Config) *BreakerStore {
	return &BreakerStore{next: next, cb: circuitbreaker.New(cfg)}
}

func (s *BreakerStore) Version(ctx context.Context, tag string) (string, error) {
	var v string
	err := s.cb.Do(func() error {
		var err error
		v, err = s.next.Version(ctx, tag)
		return err
	})
	return v, err
}

func (s *BreakerStore) Get(ctx context.Context, tag, version, key string) ([]byte, bool, error) {
	var (
		b     []byte
		found bool
	)
	err := s.cb.Do(func() error {
		var err error
		b, found, err = s.next.Get(ctx, tag, version, key)
		return err
	})
	return b, found, err
}

func (s *BreakerStore) Set(ctx context.Context, tag, version, key string, value []byte, ttl time.Duration) error {
	return s.cb.Do(func() error {
		return s.next.Set(ctx, tag, version, key, value, ttl)
	})
}

func (s *BreakerStore) Flush(ctx context.Context, tag string) error {
	return s.cb.Do(func() error {
		return s.next.Flush(ctx, tag)
	})
}

// Open reports whether the breaker currently rejects calls.
func (s *BreakerStore) Open() bool {
	return s.cb.IsOpen()
}
