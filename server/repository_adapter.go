package server

import (
	"context"
	"errors"
	"fmt"

	"github.com/umputun/recipescope/pkg/cache"
	"github.com/umputun/recipescope/pkg/domain"
	"github.com/umputun/recipescope/pkg/repository"
)

// RepositoryAdapter adapts repositories to server.Recipes interface.
// Reads go through the hot cache when one is set.
type RepositoryAdapter struct {
	repos *repository.Repositories
	cache *cache.Layered
}

// NewRepositoryAdapter creates a new repository adapter, hot may be nil
func NewRepositoryAdapter(repos *repository.Repositories, hot *cache.Layered) *RepositoryAdapter {
	return &RepositoryAdapter{repos: repos, cache: hot}
}

// Get returns a stored recipe or nil for an unknown key
func (r *RepositoryAdapter) Get(ctx context.Context, key string) (*domain.CacheEntry, error) {
	if r.cache != nil {
		return r.cache.Get(ctx, key)
	}
	return r.repos.Recipe.Get(ctx, key)
}

// Fork stores an edited copy of the recipe under parentKey
func (r *RepositoryAdapter) Fork(ctx context.Context, parentKey string, recipe *domain.CombinedRecipe) (*domain.CacheEntry, error) {
	entry, err := r.repos.Recipe.Fork(ctx, parentKey, recipe)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, parentKey)
	}
	return entry, err
}

// Forks lists forks of the recipe
func (r *RepositoryAdapter) Forks(ctx context.Context, parentKey string) ([]*domain.CacheEntry, error) {
	return r.repos.Recipe.Forks(ctx, parentKey)
}

// Status returns store counters and hot cache hit stats
func (r *RepositoryAdapter) Status(ctx context.Context) (domain.StoreStats, error) {
	if err := r.repos.Ping(ctx); err != nil {
		return domain.StoreStats{}, fmt.Errorf("ping database: %w", err)
	}
	stats, err := r.repos.Recipe.Stats(ctx)
	if err != nil {
		return domain.StoreStats{}, err
	}
	res := domain.StoreStats{Recipes: stats.Total, Forks: stats.Forks, Embedded: stats.Embedded}
	if r.cache != nil {
		cs := r.cache.Stats()
		res.HotCache, res.CacheHits, res.CacheMisses = true, cs.Hits, cs.Misses
	}
	return res, nil
}
