// Package cache puts a Redis hot cache in front of the durable recipe store
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/go-pkgz/lgr"
	"github.com/redis/go-redis/v9"

	"github.com/umputun/recipescope/pkg/domain"
)

// Store is the durable recipe store behind the hot cache
type Store interface {
	Get(ctx context.Context, key string) (*domain.CacheEntry, error)
	Put(ctx context.Context, key string, recipe *domain.CombinedRecipe, sourceType domain.InputType) error
	SetEmbedding(ctx context.Context, key string, embedding []float32) error
	SimilaritySearch(ctx context.Context, vec []float32, threshold float64, limit int) ([]domain.SimilarEntry, error)
}

// RedisConfig holds Redis connection settings
type RedisConfig struct {
	Address  string
	Password string
	DB       int
}

const connectionTimeout = 5 * time.Second

// NewRedisClient connects to Redis and verifies the connection
func NewRedisClient(cfg RedisConfig) (*redis.Client, error) {
	if cfg.Address == "" {
		return nil, errors.New("redis address is required")
	}
	client := redis.NewClient(&redis.Options{Addr: cfg.Address, Password: cfg.Password, DB: cfg.DB})

	ctx, cancel := context.WithTimeout(context.Background(), connectionTimeout)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}
	return client, nil
}

// Layered reads through Redis to the store and invalidates Redis on writes.
// Redis failures are logged and never fail a request, the store stays the source of truth.
type Layered struct {
	Store
	client *redis.Client
	ttl    time.Duration
	prefix string

	hits, misses atomic.Int64
}

// Stats reports hot cache hits and misses since start
type Stats struct {
	Hits   int64 `json:"hits"`
	Misses int64 `json:"misses"`
}

// NewLayered makes a Layered cache, ttl <= 0 keeps hot entries for a day
func NewLayered(client *redis.Client, store Store, ttl time.Duration) *Layered {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &Layered{Store: store, client: client, ttl: ttl, prefix: "recipescope:recipe:"}
}

// Get returns the entry for key from Redis, or from the store on a Redis miss
func (l *Layered) Get(ctx context.Context, key string) (*domain.CacheEntry, error) {
	data, err := l.client.Get(ctx, l.prefix+key).Bytes()
	switch {
	case err == nil:
		var entry domain.CacheEntry
		jerr := json.Unmarshal(data, &entry)
		if jerr == nil {
			l.hits.Add(1)
			return &entry, nil
		}
		lgr.Printf("[WARN] broken hot cache entry %s, %v", key, jerr)
	case !errors.Is(err, redis.Nil):
		lgr.Printf("[WARN] redis get %s failed, %v", key, err)
	}
	l.misses.Add(1)

	entry, err := l.Store.Get(ctx, key)
	if err != nil || entry == nil {
		return entry, err
	}
	if data, err = json.Marshal(entry); err == nil {
		if serr := l.client.Set(ctx, l.prefix+key, data, l.ttl).Err(); serr != nil {
			lgr.Printf("[WARN] redis set %s failed, %v", key, serr)
		}
	}
	return entry, nil
}

// Put writes to the store and drops the hot copy, the next Get reloads it
func (l *Layered) Put(ctx context.Context, key string, recipe *domain.CombinedRecipe, sourceType domain.InputType) error {
	if err := l.Store.Put(ctx, key, recipe, sourceType); err != nil {
		return err
	}
	if err := l.client.Del(ctx, l.prefix+key).Err(); err != nil {
		lgr.Printf("[WARN] redis del %s failed, %v", key, err)
	}
	return nil
}

// Stats returns hit and miss counters
func (l *Layered) Stats() Stats {
	return Stats{Hits: l.hits.Load(), Misses: l.misses.Load()}
}
