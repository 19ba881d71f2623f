package resource

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"parkspotter-admin/internal/metrics"
)

type Fetcher[T any] func(ctx context.Context, token string) (T, error)

// Snapshot is the value a page renders with. When Degraded is set, Value is the caller's last
// successful fetch (or the zero value) and Err is why the fresh fetch failed.
type Snapshot[T any] struct {
	Value     T
	FetchedAt time.Time
	Degraded  bool
	Err       error
}

type entry[T any] struct {
	value T
	at    time.Time
	seen  time.Time
}

// Resource keeps the last successful fetch of one backend resource for each caller key,
// normally a session id. A caller never falls back to another key's data.
type Resource[T any] struct {
	name  string
	fetch Fetcher[T]
	log   *slog.Logger
	now   func() time.Time

	mu   sync.RWMutex
	last map[string]*entry[T]
}

func New[T any](name string, fetch Fetcher[T], log *slog.Logger) *Resource[T] {
	if log == nil {
		log = slog.Default()
	}
	return &Resource[T]{
		name:  name,
		fetch: fetch,
		log:   log.With(slog.String("resource", name)),
		now:   time.Now,
		last:  make(map[string]*entry[T]),
	}
}

func (r *Resource[T]) Name() string { return r.name }

// Load fetches a fresh value with token. Failures are logged and fall back to the previous
// value stored under key. Results of fetches whose ctx was cancelled are returned but never
// stored. An empty key is never stored.
func (r *Resource[T]) Load(ctx context.Context, key, token string) Snapshot[T] {
	v, err := r.fetch(ctx, token)
	if err == nil && ctx.Err() != nil {
		err = ctx.Err()
	}
	if err != nil {
		r.log.Error("fetch failed, keeping previous data", slog.Any("error", err))
		metrics.DegradedLoads.WithLabelValues(r.name).Inc()
		s := r.Current(key)
		s.Degraded = true
		s.Err = err
		return s
	}

	now := r.now()
	if key != "" {
		r.mu.Lock()
		r.last[key] = &entry[T]{value: v, at: now, seen: now}
		r.mu.Unlock()
	}
	return Snapshot[T]{Value: v, FetchedAt: now}
}

// Current returns the value last stored under key without fetching.
func (r *Resource[T]) Current(key string) Snapshot[T] {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.last[key]
	if !ok {
		return Snapshot[T]{}
	}
	e.seen = r.now()
	return Snapshot[T]{Value: e.value, FetchedAt: e.at}
}

// Update replaces the value stored under key with fn applied to it. fn must not mutate its
// argument. Keys with nothing stored are left alone.
func (r *Resource[T]) Update(key string, fn func(T) T) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if e, ok := r.last[key]; ok {
		e.value = fn(e.value)
		e.seen = r.now()
	}
}

// Forget drops what is stored under key.
func (r *Resource[T]) Forget(key string) {
	r.mu.Lock()
	delete(r.last, key)
	r.mu.Unlock()
}

// PruneIdle drops every key not used since before and reports how many went.
func (r *Resource[T]) PruneIdle(before time.Time) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for k, e := range r.last {
		if e.seen.Before(before) {
			delete(r.last, k)
			n++
		}
	}
	return n
}
