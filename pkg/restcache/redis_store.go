package restcache

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStore backs the response cache with Redis so multiple instances share
// hits. Read and write failures are logged and treated as cache misses.
type RedisStore struct {
	client *redis.Client
	prefix string
}

func NewRedisStore(redisURL string) (*RedisStore, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, err
	}
	return &RedisStore{
		client: redis.NewClient(opts),
		prefix: "restcache:",
	}, nil
}

func (s *RedisStore) Get(ctx context.Context, key string) (*CachedResponse, bool) {
	raw, err := s.client.Get(ctx, s.prefix+key).Bytes()
	if err != nil {
		if err != redis.Nil {
			log.Printf("[WARN] Redis cache read failed: %v", err)
		}
		return nil, false
	}

	var resp CachedResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		log.Printf("[WARN] Redis cache entry corrupt, dropping: %v", err)
		s.client.Del(ctx, s.prefix+key)
		return nil, false
	}
	return &resp, true
}

func (s *RedisStore) Set(ctx context.Context, key string, resp *CachedResponse, ttl time.Duration) {
	raw, err := json.Marshal(resp)
	if err != nil {
		log.Printf("[WARN] Redis cache marshal failed: %v", err)
		return
	}
	if err := s.client.Set(ctx, s.prefix+key, raw, ttl).Err(); err != nil {
		log.Printf("[WARN] Redis cache write failed: %v", err)
	}
}
