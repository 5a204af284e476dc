package server

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/umputun/recipescope/pkg/cache"
	"github.com/umputun/recipescope/pkg/domain"
	"github.com/umputun/recipescope/pkg/repository"
)

func setupRepos(t *testing.T) *repository.Repositories {
	t.Helper()
	repos, err := repository.NewRepositories(context.Background(), repository.Config{DSN: ":memory:", MaxOpenConns: 1, MaxIdleConns: 1})
	require.NoError(t, err)
	t.Cleanup(func() { assert.NoError(t, repos.Close()) })
	return repos
}

func TestRepositoryAdapter_NoHotCache(t *testing.T) {
	ctx := context.Background()
	repos := setupRepos(t)
	adapter := NewRepositoryAdapter(repos, nil)

	require.NoError(t, repos.Recipe.Put(ctx, "https://example.com/pancakes", pancakes(), domain.InputURL))

	entry, err := adapter.Get(ctx, "https://example.com/pancakes")
	require.NoError(t, err)
	require.NotNil(t, entry)
	assert.Equal(t, "Pancakes", entry.Recipe.Title)

	entry, err = adapter.Get(ctx, "missing")
	require.NoError(t, err)
	assert.Nil(t, entry)

	edited := pancakes()
	edited.Title = "Fluffy pancakes"
	fork, err := adapter.Fork(ctx, "https://example.com/pancakes", edited)
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/pancakes", fork.ParentKey)
	assert.True(t, fork.IsUserModified)

	_, err = adapter.Fork(ctx, "missing", edited)
	require.ErrorIs(t, err, ErrNotFound)

	forks, err := adapter.Forks(ctx, "https://example.com/pancakes")
	require.NoError(t, err)
	require.Len(t, forks, 1)
	assert.Equal(t, "Fluffy pancakes", forks[0].Recipe.Title)

	status, err := adapter.Status(ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.StoreStats{Recipes: 2, Forks: 1}, status)
}

func TestRepositoryAdapter_HotCache(t *testing.T) {
	ctx := context.Background()
	repos := setupRepos(t)
	mr := miniredis.RunT(t)
	client, err := cache.NewRedisClient(cache.RedisConfig{Address: mr.Addr()})
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	hot := cache.NewLayered(client, repos.Recipe, time.Hour)
	adapter := NewRepositoryAdapter(repos, hot)
	require.NoError(t, hot.Put(ctx, "https://example.com/pancakes", pancakes(), domain.InputURL))

	for range 2 {
		entry, err := adapter.Get(ctx, "https://example.com/pancakes")
		require.NoError(t, err)
		require.NotNil(t, entry)
		assert.Equal(t, "Pancakes", entry.Recipe.Title)
	}

	status, err := adapter.Status(ctx)
	require.NoError(t, err)
	assert.True(t, status.HotCache)
	assert.Equal(t, int64(1), status.CacheHits)
	assert.Equal(t, int64(1), status.CacheMisses)
	assert.Equal(t, 1, status.Recipes)
}
