package synthcache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/ilearnhow/lessonsynth/internal/lesson"
	"github.com/ilearnhow/lessonsynth/internal/redis"
)

// DefaultRedisTTL matches the lesson cache lifetime of the HTTP API.
const DefaultRedisTTL = time.Hour

// RedisBackend stores lessons as JSON under a key prefix with a TTL.
type RedisBackend struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// NewRedisBackend creates a backend. A zero ttl keeps entries forever.
func NewRedisBackend(client *redis.Client, ttl time.Duration) *RedisBackend {
	return &RedisBackend{client: client, prefix: "lessonsynth:lesson:", ttl: ttl}
}

func (b *RedisBackend) Load(ctx context.Context, key string) (*lesson.Lesson, bool, error) {
	raw, ok, err := b.client.GetBytes(ctx, b.prefix+key)
	if err != nil || !ok {
		return nil, false, err
	}
	var l lesson.Lesson
	if err := json.Unmarshal(raw, &l); err != nil {
		return nil, false, fmt.Errorf("decode cached lesson %q: %w", key, err)
	}
	return &l, true, nil
}

func (b *RedisBackend) Save(ctx context.Context, key string, l *lesson.Lesson) error {
	raw, err := json.Marshal(l)
	if err != nil {
		return fmt.Errorf("encode lesson %q: %w", key, err)
	}
	return b.client.Set(ctx, b.prefix+key, raw, b.ttl)
}
