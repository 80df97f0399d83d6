package cache

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
)

// DefaultStaleTime matches the query client the web front end runs with.
const DefaultStaleTime = 5 * time.Minute

// maxReadAttempts bounds how often Read chases a key that keeps getting
// invalidated while its fetch is in flight.
const maxReadAttempts = 3

// ErrCleared is returned to callers waiting on a fetch that was discarded
// by Clear.
var ErrCleared = errors.New("cache cleared")

type Status string

const (
	StatusIdle     Status = "idle" // never requested
	StatusDisabled Status = "disabled"
	StatusPending  Status = "pending"
	StatusError    Status = "error"
	StatusReady    Status = "ready"
)

// Fetcher loads the value for one key. It receives the store's context,
// which is cancelled by Clear, never the caller's.
type Fetcher func(ctx context.Context) (any, error)

// Snapshot is a read-only view of one entry.
type Snapshot struct {
	Data      any
	Status    Status
	Err       error
	Stale     bool
	Fetching  bool
	UpdatedAt time.Time
}

type entry struct {
	data      any
	hasData   bool
	status    Status
	err       error
	stale     bool
	version   uint64 // bumped on every invalidation
	updatedAt time.Time

	inflight  bool
	flightKey string
	call      func() (any, error)
	seq       uint64
}

type observer struct {
	count   int
	fetch   Fetcher
	enabled func() bool
}

// Store is the process-wide entity cache. It is safe for concurrent use.
// Entries are dropped by Clear; observer registrations survive it so a new
// session picks up where the old one stopped.
type Store struct {
	mu         sync.Mutex
	entries    map[Key]*entry
	observers  map[Key]*observer
	flights    singleflight.Group
	generation uint64
	ctx        context.Context
	cancel     context.CancelFunc
	staleTime  time.Duration
	now        func() time.Time
	log        zerolog.Logger
}

// New creates a store. staleTime <= 0 disables time based expiry; entries
// then only go stale through invalidation.
func New(staleTime time.Duration, log zerolog.Logger) *Store {
	ctx, cancel := context.WithCancel(context.Background())
	return &Store{
		entries:   make(map[Key]*entry),
		observers: make(map[Key]*observer),
		ctx:       ctx,
		cancel:    cancel,
		staleTime: staleTime,
		now:       time.Now,
		log:       log.With().Str("component", "cache").Logger(),
	}
}

// Get returns the current snapshot without triggering any fetch.
func (s *Store) Get(key Key) Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[key]
	if !ok {
		return Snapshot{Status: StatusIdle}
	}
	return s.snapshot(e)
}

// Fetch forces a fetch of key. A fetch already in flight for the key is
// joined instead of issuing a second one. With enabled reporting false
// nothing is fetched and the snapshot reports StatusDisabled.
//
// Cancelling ctx only stops this caller from waiting; the fetch itself
// completes for the benefit of other readers.
func (s *Store) Fetch(ctx context.Context, key Key, fetch Fetcher, enabled func() bool) (Snapshot, error) {
	s.mu.Lock()
	if !isEnabled(enabled) {
		snap := s.disable(key)
		s.mu.Unlock()
		return snap, nil
	}
	gen := s.generation
	e := s.entry(key)
	ch := s.join(key, e, fetch)
	s.mu.Unlock()

	if err := wait(ctx, ch); err != nil && ctx.Err() != nil {
		return s.Get(key), err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.generation != gen {
		return Snapshot{Status: StatusIdle}, ErrCleared
	}
	snap := s.snapshot(s.entry(key))
	return snap, snap.Err
}

// Read returns fresh data when the entry has it and fetches otherwise,
// joining any fetch already in flight.
func (s *Store) Read(ctx context.Context, key Key, fetch Fetcher, enabled func() bool) (Snapshot, error) {
	for attempt := 0; ; attempt++ {
		s.mu.Lock()
		if !isEnabled(enabled) {
			snap := s.disable(key)
			s.mu.Unlock()
			return snap, nil
		}
		e := s.entry(key)
		if s.fresh(e) || attempt == maxReadAttempts {
			snap := s.snapshot(e)
			s.mu.Unlock()
			return snap, snap.Err
		}
		if attempt > 0 && e.status == StatusError && !e.inflight {
			// the fetch we waited on failed; surface it instead of retrying
			snap := s.snapshot(e)
			s.mu.Unlock()
			return snap, snap.Err
		}
		ch := s.join(key, e, fetch)
		s.mu.Unlock()

		if err := wait(ctx, ch); err != nil && ctx.Err() != nil {
			return s.Get(key), err
		}
	}
}

// Observe registers interest in key. While at least one observer is
// registered, invalidating the key refetches it immediately. A fetch is
// started right away when the entry is missing, stale or expired.
// The returned stop function is idempotent.
func (s *Store) Observe(key Key, fetch Fetcher, enabled func() bool) (stop func()) {
	s.mu.Lock()
	obs, ok := s.observers[key]
	if !ok {
		obs = &observer{}
		s.observers[key] = obs
	}
	obs.count++
	obs.fetch = fetch
	obs.enabled = enabled

	if isEnabled(enabled) {
		e := s.entry(key)
		if !s.fresh(e) && !e.inflight {
			s.launch(key, e, fetch)
		}
	} else {
		s.disable(key)
	}
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			if obs.count--; obs.count <= 0 && s.observers[key] == obs {
				delete(s.observers, key)
			}
		})
	}
}

// Observed reports whether key has at least one observer.
func (s *Store) Observed(key Key) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.observers[key]
	return ok
}

// Invalidate marks keys stale. Observed keys are refetched immediately
// (joining a fetch already in flight, which then refetches once more on
// completion); unobserved keys refetch on their next read.
func (s *Store) Invalidate(keys ...Key) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, key := range keys {
		s.invalidate(key)
	}
}

// InvalidatePrefix invalidates every key of entity, whatever its parameters.
func (s *Store) InvalidatePrefix(entity string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	seen := make(map[Key]struct{})
	for key := range s.entries {
		if key.Entity == entity {
			seen[key] = struct{}{}
		}
	}
	for key := range s.observers {
		if key.Entity == entity {
			seen[key] = struct{}{}
		}
	}
	for key := range seen {
		s.invalidate(key)
	}
}

func (s *Store) invalidate(key Key) {
	e, ok := s.entries[key]
	if ok {
		e.stale = true
		e.version++
	}
	invalidationTotal.Add(context.Background(), 1, metric.WithAttributes(attribute.String("cache.entity", key.Entity)))

	obs, observed := s.observers[key]
	if !observed || !isEnabled(obs.enabled) {
		s.log.Debug().Str("key", key.String()).Msg("invalidated, refetch deferred")
		return
	}
	if !ok {
		e = s.entry(key)
	}
	if !e.inflight {
		s.launch(key, e, obs.fetch)
	}
	s.log.Debug().Str("key", key.String()).Msg("invalidated, refetching observed key")
}

// Clear drops every entry and cancels fetches in flight. Results of those
// fetches are discarded even when they complete successfully, so nothing
// issued before Clear can repopulate the store.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cancel()
	s.generation++
	s.ctx, s.cancel = context.WithCancel(context.Background())
	dropped := len(s.entries)
	s.entries = make(map[Key]*entry)

	s.log.Debug().Int("entries", dropped).Uint64("generation", s.generation).Msg("cache cleared")
}

// Close cancels fetches in flight. The store stays usable.
func (s *Store) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cancel()
	s.ctx, s.cancel = context.WithCancel(context.Background())
}

// ExpiredObserved lists observed, enabled keys that are missing, stale or
// past the stale time and not already being fetched.
func (s *Store) ExpiredObserved() []Key {
	s.mu.Lock()
	defer s.mu.Unlock()

	var keys []Key
	for key, obs := range s.observers {
		if !isEnabled(obs.enabled) {
			continue
		}
		e, ok := s.entries[key]
		if ok && (s.fresh(e) || e.inflight) {
			continue
		}
		keys = append(keys, key)
	}
	return keys
}

// Refresh refetches the observed keys among keys and waits until all of
// them complete, in any order. Unobserved keys are skipped since the
// store has no fetcher for them.
func (s *Store) Refresh(ctx context.Context, keys ...Key) error {
	g, ctx := errgroup.WithContext(ctx)

	s.mu.Lock()
	gen := s.generation
	for _, key := range keys {
		obs, ok := s.observers[key]
		if !ok || !isEnabled(obs.enabled) {
			continue
		}
		e := s.entry(key)
		ch := s.join(key, e, obs.fetch)
		g.Go(func() error {
			if err := wait(ctx, ch); err != nil {
				return fmt.Errorf("refresh %s: %w", key, err)
			}
			return nil
		})
	}
	s.mu.Unlock()

	if err := g.Wait(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.generation != gen {
		return ErrCleared
	}
	return nil
}

// entry returns the entry for key, creating an idle one. Caller holds s.mu.
func (s *Store) entry(key Key) *entry {
	e, ok := s.entries[key]
	if !ok {
		e = &entry{status: StatusIdle}
		s.entries[key] = e
	}
	return e
}

// disable reports key as disabled without fetching. A pending entry with no
// fetch in flight drops back to disabled. Caller holds s.mu.
func (s *Store) disable(key Key) Snapshot {
	if e, ok := s.entries[key]; ok && e.status == StatusPending && !e.inflight {
		e.status = StatusDisabled
	}
	return Snapshot{Status: StatusDisabled}
}

// join attaches to the fetch in flight for key, starting one when there is
// none. Caller holds s.mu.
func (s *Store) join(key Key, e *entry, fetch Fetcher) <-chan singleflight.Result {
	if e.inflight {
		fetchAttached.Add(context.Background(), 1, metric.WithAttributes(attribute.String("cache.entity", key.Entity)))
		// The flight cannot have left the group yet: complete needs s.mu
		// before the call returns.
		return s.flights.DoChan(e.flightKey, e.call)
	}
	return s.launch(key, e, fetch)
}

// launch starts a fetch for key. Caller holds s.mu and has checked that no
// fetch is in flight.
func (s *Store) launch(key Key, e *entry, fetch Fetcher) <-chan singleflight.Result {
	gen := s.generation
	version := e.version
	ctx := s.ctx

	e.seq++
	e.inflight = true
	e.flightKey = fmt.Sprintf("%d/%d/%s", gen, e.seq, key)
	if !e.hasData {
		e.status = StatusPending
	}

	e.call = func() (any, error) {
		ctx, span := cacheTracer.Start(ctx, "cache.fetch", trace.WithAttributes(
			attribute.String("cache.key", key.String()),
			attribute.String("cache.entity", key.Entity),
		))
		defer span.End()

		start := time.Now()
		data, err := fetch(ctx)
		status := "success"
		if err != nil {
			status = "error"
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		attrs := metric.WithAttributes(
			attribute.String("cache.entity", key.Entity),
			attribute.String("status", status),
		)
		fetchTotal.Add(ctx, 1, attrs)
		fetchDuration.Record(ctx, time.Since(start).Seconds(), attrs)

		s.complete(key, gen, version, data, err)
		return data, err
	}

	s.log.Debug().Str("key", key.String()).Uint64("version", version).Msg("fetch started")
	return s.flights.DoChan(e.flightKey, e.call)
}

func (s *Store) complete(key Key, gen, version uint64, data any, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if gen != s.generation {
		fetchDropped.Add(context.Background(), 1, metric.WithAttributes(attribute.String("cache.entity", key.Entity)))
		s.log.Debug().Str("key", key.String()).Msg("discarding fetch result issued before clear")
		return
	}
	e, ok := s.entries[key]
	if !ok {
		return
	}
	e.inflight = false
	e.call = nil

	if err != nil {
		// stale-while-error: keep the last good data
		e.status = StatusError
		e.err = err
		s.log.Warn().Err(err).Str("key", key.String()).Bool("has_data", e.hasData).Msg("fetch failed")
	} else {
		e.data = data
		e.hasData = true
		e.status = StatusReady
		e.err = nil
		e.updatedAt = s.now()
		e.stale = e.version != version
	}

	if e.version == version {
		return
	}
	// invalidated while in flight: the result predates the write
	if obs, observed := s.observers[key]; observed && isEnabled(obs.enabled) {
		s.launch(key, e, obs.fetch)
	}
}

// fresh reports whether e holds data that needs no refetch. Caller holds s.mu.
func (s *Store) fresh(e *entry) bool {
	if !e.hasData || e.stale {
		return false
	}
	if s.staleTime <= 0 {
		return true
	}
	return s.now().Sub(e.updatedAt) < s.staleTime
}

func (s *Store) snapshot(e *entry) Snapshot {
	return Snapshot{
		Data:      e.data,
		Status:    e.status,
		Err:       e.err,
		Stale:     e.hasData && !s.fresh(e),
		Fetching:  e.inflight,
		UpdatedAt: e.updatedAt,
	}
}

func wait(ctx context.Context, ch <-chan singleflight.Result) error {
	select {
	case res := <-ch:
		return res.Err
	case <-ctx.Done():
		return ctx.Err()
	}
}

func isEnabled(enabled func() bool) bool {
	return enabled == nil || enabled()
}
