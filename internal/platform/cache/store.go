package cache

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/riskibarqy/fantasy-survivor/internal/platform/resilience"
)

type record struct {
	value     any
	expiresAt time.Time
}

// Store is a process-local TTL cache. Loads for the same key are collapsed
// through a singleflight so a cold key hits the backing source once.
type Store struct {
	mu         sync.RWMutex
	records    map[string]record
	ttl        time.Duration
	maxEntries int
	flight     resilience.SingleFlight
}

func NewStore(ttl time.Duration) *Store {
	return NewBoundedStore(ttl, 0)
}

// NewBoundedStore caps the number of live records; 0 means unbounded. When the
// cap is hit, expired records are swept first, then one arbitrary record is
// evicted.
func NewBoundedStore(ttl time.Duration, maxEntries int) *Store {
	return &Store{
		records:    make(map[string]record),
		ttl:        ttl,
		maxEntries: maxEntries,
	}
}

func (s *Store) Get(_ context.Context, key string) (any, bool) {
	if key == "" {
		return nil, false
	}

	now := time.Now()
	s.mu.RLock()
	r, ok := s.records[key]
	s.mu.RUnlock()
	if !ok {
		return nil, false
	}
	if s.ttl > 0 && !r.expiresAt.After(now) {
		s.mu.Lock()
		delete(s.records, key)
		s.mu.Unlock()
		return nil, false
	}

	return r.value, true
}

func (s *Store) Set(_ context.Context, key string, value any) {
	if key == "" {
		return
	}

	now := time.Now()
	expiresAt := time.Time{}
	if s.ttl > 0 {
		expiresAt = now.Add(s.ttl)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.maxEntries > 0 && len(s.records) >= s.maxEntries {
		if _, exists := s.records[key]; !exists {
			s.evictLocked(now)
		}
	}

	s.records[key] = record{
		value:     value,
		expiresAt: expiresAt,
	}
}

func (s *Store) Delete(_ context.Context, key string) {
	if key == "" {
		return
	}

	s.mu.Lock()
	delete(s.records, key)
	s.mu.Unlock()
}

func (s *Store) DeletePrefix(_ context.Context, prefix string) {
	if prefix == "" {
		return
	}

	s.mu.Lock()
	for key := range s.records {
		if len(key) >= len(prefix) && key[:len(prefix)] == prefix {
			delete(s.records, key)
		}
	}
	s.mu.Unlock()
}

func (s *Store) GetOrLoad(ctx context.Context, key string, loader func(context.Context) (any, error)) (any, error) {
	if loader == nil {
		return nil, fmt.Errorf("loader is required")
	}
	if key == "" {
		return loader(ctx)
	}

	if value, ok := s.Get(ctx, key); ok {
		return value, nil
	}

	value, err, _ := s.flight.Do(key, func() (any, error) {
		if cached, ok := s.Get(ctx, key); ok {
			return cached, nil
		}

		loaded, loadErr := loader(ctx)
		if loadErr != nil {
			return nil, loadErr
		}
		s.Set(ctx, key, loaded)
		return loaded, nil
	})
	if err != nil {
		return nil, err
	}

	return value, nil
}

func (s *Store) evictLocked(now time.Time) {
	if s.ttl > 0 {
		for key, r := range s.records {
			if !r.expiresAt.After(now) {
				delete(s.records, key)
			}
		}
		if len(s.records) < s.maxEntries {
			return
		}
	}
	for key := range s.records {
		delete(s.records, key)
		return
	}
}
