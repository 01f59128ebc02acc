package server

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/ilearnhow/lessonsynth/internal/redis"
)

// Limiter decides whether a client may make another request in the current
// window. RetryAfter is meaningful only when Allowed is false.
type Limiter interface {
	Allow(ctx context.Context, client string) (Decision, error)
}

// Decision is the outcome of a rate limit check.
type Decision struct {
	Allowed    bool
	Remaining  int
	RetryAfter time.Duration
}

// RedisLimiter is a fixed-window counter shared by every process using the
// same Redis.
type RedisLimiter struct {
	client *redis.Client
	limit  int
	window time.Duration
	now    func() time.Time
}

// NewRedisLimiter creates a limiter allowing limit requests per window.
func NewRedisLimiter(client *redis.Client, limit int, window time.Duration) *RedisLimiter {
	return &RedisLimiter{client: client, limit: limit, window: window, now: time.Now}
}

func (l *RedisLimiter) Allow(ctx context.Context, client string) (Decision, error) {
	now := l.now()
	start := now.Truncate(l.window)
	key := fmt.Sprintf("lessonsynth:rate_limit:%s:%d", client, start.Unix())

	count, err := l.client.IncrWindow(ctx, key, l.window+time.Second)
	if err != nil {
		return Decision{Allowed: true}, err
	}
	return decide(int(count), l.limit, start.Add(l.window).Sub(now)), nil
}

// MemoryLimiter is the in-process fallback when no Redis is configured.
type MemoryLimiter struct {
	limit  int
	window time.Duration
	now    func() time.Time

	mu        sync.Mutex
	clients   map[string]*windowCount
	lastSweep time.Time
}

type windowCount struct {
	start time.Time
	count int
}

// NewMemoryLimiter creates a limiter allowing limit requests per window.
func NewMemoryLimiter(limit int, window time.Duration) *MemoryLimiter {
	return &MemoryLimiter{
		limit:   limit,
		window:  window,
		now:     time.Now,
		clients: make(map[string]*windowCount),
	}
}

func (l *MemoryLimiter) Allow(_ context.Context, client string) (Decision, error) {
	now := l.now()

	l.mu.Lock()
	defer l.mu.Unlock()

	w, ok := l.clients[client]
	if !ok || now.Sub(w.start) >= l.window {
		w = &windowCount{start: now}
		l.clients[client] = w
		if now.Sub(l.lastSweep) >= l.window {
			l.sweep(now)
		}
	}
	w.count++
	return decide(w.count, l.limit, w.start.Add(l.window).Sub(now)), nil
}

// sweep drops expired windows, at most once per window. Caller holds mu.
func (l *MemoryLimiter) sweep(now time.Time) {
	l.lastSweep = now
	for k, w := range l.clients {
		if now.Sub(w.start) >= l.window {
			delete(l.clients, k)
		}
	}
}

func decide(count, limit int, reset time.Duration) Decision {
	if count > limit {
		return Decision{RetryAfter: max(reset, time.Second)}
	}
	return Decision{Allowed: true, Remaining: limit - count}
}
