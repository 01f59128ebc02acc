// Package synthcache memoizes synthesized lessons by composite key.
//
// Entries live in memory for the life of the process. An optional Backend
// (Redis or the SQLite store) acts as a second level shared across
// processes. For any key at most one computation is in flight; concurrent
// callers wait for it and share the result.
package synthcache

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/ilearnhow/lessonsynth/internal/lesson"
)

// Backend is a second-level lesson store. Errors are logged by the cache and
// never fail a request.
type Backend interface {
	Load(ctx context.Context, key string) (*lesson.Lesson, bool, error)
	Save(ctx context.Context, key string, l *lesson.Lesson) error
}

// Entry is a cached lesson.
type Entry struct {
	Lesson    *lesson.Lesson
	Seq       uint64 // creation order, starting at 1
	CreatedAt time.Time
}

// Result is the outcome of GetOrCompute.
type Result struct {
	Lesson    *lesson.Lesson
	FromCache bool
	// Shared is set when the caller joined a computation started by another
	// caller for the same key.
	Shared bool
	Seq    uint64
}

// Stats is a point-in-time view of cache activity.
type Stats struct {
	Entries     int    `json:"entries"`
	Synthesized uint64 `json:"synthesisCount"`
	Hits        uint64 `json:"hits"`
	Misses      uint64 `json:"misses"`
	BackendHits uint64 `json:"backendHits"`
}

// ComputeFunc produces the lesson for a missing key.
type ComputeFunc func(ctx context.Context) (*lesson.Lesson, error)

// Cache is safe for concurrent use.
type Cache struct {
	mu      sync.RWMutex
	entries map[string]*Entry
	group   singleflight.Group

	seq         atomic.Uint64
	synthesized atomic.Uint64
	hits        atomic.Uint64
	misses      atomic.Uint64
	backendHits atomic.Uint64

	backend Backend
	log     *zap.Logger
	now     func() time.Time
}

// Option configures a Cache.
type Option func(*Cache)

// WithBackend sets the second-level store.
func WithBackend(b Backend) Option {
	return func(c *Cache) { c.backend = b }
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(c *Cache) {
		if l != nil {
			c.log = l
		}
	}
}

// New creates an empty cache.
func New(opts ...Option) *Cache {
	c := &Cache{
		entries: make(map[string]*Entry),
		log:     zap.NewNop(),
		now:     time.Now,
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Get returns the cached lesson for key without computing. The backend is
// consulted on a memory miss and a hit is kept in memory.
func (c *Cache) Get(ctx context.Context, key Key) (*lesson.Lesson, bool) {
	k := key.String()
	if e, ok := c.lookup(k); ok {
		return e.Lesson, true
	}
	if l, ok := c.loadBackend(ctx, k); ok {
		c.store(k, l)
		return l, true
	}
	return nil, false
}

// Peek returns the in-memory entry for key.
func (c *Cache) Peek(key Key) (*Entry, bool) {
	return c.lookup(key.String())
}

// GetOrCompute returns the cached lesson for key, or runs compute once and
// caches its result. Compute errors are returned and nothing is cached.
func (c *Cache) GetOrCompute(ctx context.Context, key Key, compute ComputeFunc) (Result, error) {
	k := key.String()
	if e, ok := c.lookup(k); ok {
		c.hits.Add(1)
		return Result{Lesson: e.Lesson, FromCache: true, Seq: e.Seq}, nil
	}

	type flight struct {
		entry     *Entry
		fromCache bool
	}

	v, err, shared := c.group.Do(k, func() (any, error) {
		// A flight for k may have finished between lookup and Do.
		if e, ok := c.lookup(k); ok {
			return flight{entry: e, fromCache: true}, nil
		}
		if l, ok := c.loadBackend(ctx, k); ok {
			c.backendHits.Add(1)
			return flight{entry: c.store(k, l), fromCache: true}, nil
		}

		// Detach from the first caller's cancellation; other callers may
		// be waiting on this result.
		l, err := compute(context.WithoutCancel(ctx))
		if err != nil {
			return nil, err
		}
		e := c.store(k, l)
		c.synthesized.Add(1)
		// Degraded lessons stay process-local so a collaborator outage is
		// not persisted past a restart.
		if !l.Metadata.UsedFallback {
			c.saveBackend(ctx, k, l)
		}
		return flight{entry: e}, nil
	})
	if err != nil {
		return Result{}, err
	}

	f := v.(flight)
	if f.fromCache {
		c.hits.Add(1)
	} else {
		c.misses.Add(1)
	}
	return Result{Lesson: f.entry.Lesson, FromCache: f.fromCache, Shared: shared, Seq: f.entry.Seq}, nil
}

// SynthesisCount is the number of lessons computed by this cache.
func (c *Cache) SynthesisCount() uint64 { return c.synthesized.Load() }

// Len is the number of in-memory entries.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Stats returns activity counters.
func (c *Cache) Stats() Stats {
	return Stats{
		Entries:     c.Len(),
		Synthesized: c.synthesized.Load(),
		Hits:        c.hits.Load(),
		Misses:      c.misses.Load(),
		BackendHits: c.backendHits.Load(),
	}
}

func (c *Cache) lookup(k string) (*Entry, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.entries[k]
	return e, ok
}

func (c *Cache) store(k string, l *lesson.Lesson) *Entry {
	c.mu.Lock()
	defer c.mu.Unlock()
	if e, ok := c.entries[k]; ok {
		return e
	}
	e := &Entry{Lesson: l, Seq: c.seq.Add(1), CreatedAt: c.now()}
	c.entries[k] = e
	return e
}

func (c *Cache) loadBackend(ctx context.Context, k string) (*lesson.Lesson, bool) {
	if c.backend == nil {
		return nil, false
	}
	l, ok, err := c.backend.Load(ctx, k)
	if err != nil {
		c.log.Warn("cache backend load failed", zap.String("key", k), zap.Error(err))
		return nil, false
	}
	return l, ok && l != nil
}

func (c *Cache) saveBackend(ctx context.Context, k string, l *lesson.Lesson) {
	if c.backend == nil {
		return
	}
	if err := c.backend.Save(context.WithoutCancel(ctx), k, l); err != nil {
		c.log.Warn("cache backend save failed", zap.String("key", k), zap.Error(err))
	}
}
