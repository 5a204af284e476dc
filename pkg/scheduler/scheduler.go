package scheduler

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/go-pkgz/lgr"

	"github.com/umputun/recipescope/pkg/domain"
	"github.com/umputun/recipescope/pkg/pipeline"
)

//go:generate moq -out mocks/store.go -pkg mocks -skip-ensure -fmt goimports . Store
//go:generate moq -out mocks/embedder.go -pkg mocks -skip-ensure -fmt goimports . Embedder

// Scheduler periodically embeds parsed recipes stored without an embedding,
// e.g. parsed while the embedding endpoint was down or before embeddings were enabled
type Scheduler struct {
	store      Store
	embedder   Embedder
	interval   time.Duration
	batchSize  int
	maxWorkers int
	wg         sync.WaitGroup
	cancel     context.CancelFunc
	dbMutex    sync.Mutex // serialize database writes
}

// Store is the recipe storage used by the backfill
type Store interface {
	MissingEmbeddings(ctx context.Context, limit int) ([]*domain.CacheEntry, error)
	SetEmbedding(ctx context.Context, key string, embedding []float32) error
}

// Embedder turns text into a vector
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// Config holds scheduler configuration
type Config struct {
	Interval   time.Duration
	BatchSize  int
	MaxWorkers int
}

// NewScheduler creates a new scheduler instance
func NewScheduler(store Store, embedder Embedder, cfg Config) *Scheduler {
	if cfg.Interval == 0 {
		cfg.Interval = 10 * time.Minute
	}
	if cfg.BatchSize == 0 {
		cfg.BatchSize = 50
	}
	if cfg.MaxWorkers == 0 {
		cfg.MaxWorkers = 2
	}

	return &Scheduler{
		store:      store,
		embedder:   embedder,
		interval:   cfg.Interval,
		batchSize:  cfg.BatchSize,
		maxWorkers: cfg.MaxWorkers,
	}
}

// Start begins the scheduler
func (s *Scheduler) Start(ctx context.Context) {
	ctx, s.cancel = context.WithCancel(ctx)

	s.wg.Add(1)
	go s.backfillWorker(ctx)

	lgr.Printf("[INFO] scheduler started with backfill interval %v, batch %d", s.interval, s.batchSize)
}

// Stop gracefully stops the scheduler
func (s *Scheduler) Stop() {
	lgr.Printf("[INFO] stopping scheduler...")
	if s.cancel != nil {
		s.cancel()
	}
	s.wg.Wait()
	lgr.Printf("[INFO] scheduler stopped")
}

// backfillWorker periodically embeds recipes missing an embedding
func (s *Scheduler) backfillWorker(ctx context.Context) {
	defer s.wg.Done()

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	// run immediately on start
	s.BackfillNow(ctx)

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.BackfillNow(ctx)
		}
	}
}

// BackfillNow embeds one batch of recipes without embedding and returns how many were stored.
// Failures are logged and the entry is retried on the next run.
func (s *Scheduler) BackfillNow(ctx context.Context) int {
	entries, err := s.store.MissingEmbeddings(ctx, s.batchSize)
	if err != nil {
		lgr.Printf("[ERROR] failed to get recipes without embedding: %v", err)
		return 0
	}
	if len(entries) == 0 {
		return 0
	}

	lgr.Printf("[DEBUG] embedding %d recipes", len(entries))

	// use worker pool to embed concurrently
	sem := make(chan struct{}, s.maxWorkers)
	var wg sync.WaitGroup
	var done atomic.Int32

	for _, e := range entries {
		wg.Add(1)
		go func(entry *domain.CacheEntry) {
			defer wg.Done()

			select {
			case sem <- struct{}{}:
				defer func() { <-sem }()
			case <-ctx.Done():
				return
			}

			if s.embedEntry(ctx, entry) {
				done.Add(1)
			}
		}(e)
	}

	wg.Wait()
	lgr.Printf("[INFO] embedded %d of %d recipes", done.Load(), len(entries))
	return int(done.Load())
}

func (s *Scheduler) embedEntry(ctx context.Context, entry *domain.CacheEntry) bool {
	vec, err := s.embedder.Embed(ctx, pipeline.EmbeddingText(&entry.Recipe))
	if err != nil {
		lgr.Printf("[WARN] failed to embed %s: %v", entry.Key, err)
		return false
	}

	s.dbMutex.Lock()
	defer s.dbMutex.Unlock()
	if err := s.store.SetEmbedding(ctx, entry.Key, vec); err != nil {
		lgr.Printf("[WARN] failed to store embedding for %s: %v", entry.Key, err)
		return false
	}
	return true
}
