package restcache

import (
	"context"
	"time"

	"github.com/patrickmn/go-cache"
)

// MemoryStore is a process-local cache backend.
type MemoryStore struct {
	cache *cache.Cache
}

func NewMemoryStore(defaultTTL time.Duration) *MemoryStore {
	// Purge expired entries every 10 minutes
	return &MemoryStore{
		cache: cache.New(defaultTTL, 10*time.Minute),
	}
}

func (s *MemoryStore) Get(_ context.Context, key string) (*CachedResponse, bool) {
	if x, found := s.cache.Get(key); found {
		return x.(*CachedResponse), true
	}
	return nil, false
}

func (s *MemoryStore) Set(_ context.Context, key string, resp *CachedResponse, ttl time.Duration) {
	if ttl <= 0 {
		ttl = cache.DefaultExpiration
	}
	s.cache.Set(key, resp, ttl)
}
