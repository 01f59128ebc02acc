package synthcache

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ilearnhow/lessonsynth/internal/lesson"
	"github.com/ilearnhow/lessonsynth/internal/redis"
)

func TestRedisBackend(t *testing.T) {
	url := os.Getenv("LESSONSYNTH_TEST_REDIS_URL")
	if url == "" {
		t.Skip("LESSONSYNTH_TEST_REDIS_URL not set")
	}
	client, err := redis.Connect(t.Context(), url)
	require.NoError(t, err)
	t.Cleanup(func() { client.Close() })

	b := NewRedisBackend(client, time.Minute)
	k := Key{LessonID: 1, AgeKey: "test-" + uuid.NewString(), Tone: "neutral", Language: "english"}
	key := k.String()
	t.Cleanup(func() { _ = client.Del(context.Background(), b.prefix+key) })

	_, ok, err := b.Load(t.Context(), key)
	require.NoError(t, err)
	assert.False(t, ok)

	want := &lesson.Lesson{Title: "The Sun", Fortune: "Shine", Metadata: lesson.Metadata{LessonID: 1}}
	require.NoError(t, b.Save(t.Context(), key, want))

	got, ok, err := b.Load(t.Context(), key)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, want.Title, got.Title)
	assert.Equal(t, 1, got.Metadata.LessonID)

	// A second cache instance is served from Redis without computing.
	c := New(WithBackend(b))
	res, err := c.GetOrCompute(t.Context(), k, func(context.Context) (*lesson.Lesson, error) {
		t.Fatal("compute should not run")
		return nil, nil
	})
	require.NoError(t, err)
	assert.True(t, res.FromCache)
}
