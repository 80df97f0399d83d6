package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"cofre/internal/domain/cache"
)

// ExpiryChecker ends an expired session and reports whether it did.
// *session.Gate implements it.
type ExpiryChecker interface {
	CheckExpiry(ctx context.Context) bool
}

// Refresher is the part of *cache.Store the revalidator drives.
type Refresher interface {
	ExpiredObserved() []cache.Key
	Refresh(ctx context.Context, keys ...cache.Key) error
}

// RefreshJob refetches one observed key.
type RefreshJob struct {
	store Refresher
	key   cache.Key
	done  func()
}

func (j *RefreshJob) Execute(ctx context.Context) error {
	if j.done != nil {
		defer j.done()
	}
	if err := j.store.Refresh(ctx, j.key); err != nil {
		return fmt.Errorf("refresh failed: %w", err)
	}
	return nil
}

func (j *RefreshJob) Key() string {
	return j.key.String()
}

func (j *RefreshJob) Description() string {
	return fmt.Sprintf("Revalidate %s", j.key)
}

// Revalidator periodically refetches observed keys past their stale time
// and ends the session once its token expires.
type Revalidator struct {
	store    Refresher
	pool     *WorkerPool
	sessions ExpiryChecker
	interval time.Duration
	log      zerolog.Logger

	mu      sync.Mutex
	pending map[cache.Key]struct{}
}

func NewRevalidator(store Refresher, pool *WorkerPool, sessions ExpiryChecker, interval time.Duration, log zerolog.Logger) *Revalidator {
	return &Revalidator{
		store:    store,
		pool:     pool,
		sessions: sessions,
		interval: interval,
		log:      log.With().Str("component", "revalidator").Logger(),
		pending:  make(map[cache.Key]struct{}),
	}
}

// Run ticks until ctx is done.
func (r *Revalidator) Run(ctx context.Context) {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.Tick(ctx)
		}
	}
}

// Tick runs one pass and returns how many keys were queued. Keys still
// queued from an earlier pass are skipped.
func (r *Revalidator) Tick(ctx context.Context) int {
	if r.sessions != nil && r.sessions.CheckExpiry(ctx) {
		r.log.Info().Msg("session expired, skipping revalidation")
		return 0
	}

	queued := 0
	for _, key := range r.store.ExpiredObserved() {
		if !r.claim(key) {
			continue
		}
		job := &RefreshJob{store: r.store, key: key, done: func() { r.release(key) }}
		if err := r.pool.Submit(job); err != nil {
			r.release(key)
			r.log.Debug().Err(err).Str("key", key.String()).Msg("revalidation not queued")
			continue
		}
		queued++
	}
	return queued
}

func (r *Revalidator) claim(key cache.Key) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.pending[key]; ok {
		return false
	}
	r.pending[key] = struct{}{}
	return true
}

func (r *Revalidator) release(key cache.Key) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.pending, key)
}
