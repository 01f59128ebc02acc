package synthcache

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ilearnhow/lessonsynth/internal/lesson"
	"github.com/ilearnhow/lessonsynth/internal/params"
)

func testKey(day int) Key {
	return Key{LessonID: day, AgeKey: "early_childhood", Tone: params.Grandmother, Language: params.English}
}

func counting(title string, calls *atomic.Int32) ComputeFunc {
	return func(context.Context) (*lesson.Lesson, error) {
		calls.Add(1)
		return &lesson.Lesson{Title: title}, nil
	}
}

type memBackend struct {
	mu    sync.Mutex
	data  map[string]*lesson.Lesson
	saves int
	err   error
}

func newMemBackend() *memBackend { return &memBackend{data: map[string]*lesson.Lesson{}} }

func (b *memBackend) Load(_ context.Context, key string) (*lesson.Lesson, bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.err != nil {
		return nil, false, b.err
	}
	l, ok := b.data[key]
	return l, ok, nil
}

func (b *memBackend) Save(_ context.Context, key string, l *lesson.Lesson) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.saves++
	if b.err != nil {
		return b.err
	}
	b.data[key] = l
	return nil
}

func TestKeyString(t *testing.T) {
	k := testKey(1)
	assert.Equal(t, "1|early_childhood|grandmother|english", k.String())

	k.Avatar = params.Kelly
	assert.Equal(t, "1|early_childhood|grandmother|english|kelly", k.String())

	back, err := ParseKey(k.String())
	require.NoError(t, err)
	assert.Equal(t, k, back)

	_, err = ParseKey("nope")
	assert.Error(t, err)
}

func TestNewKeyGranularity(t *testing.T) {
	p := params.Normalize(30, "fun", "es", "")
	coarse := NewKey(7, p, params.Coarse, false)
	fine := NewKey(7, p, params.Fine, true)

	assert.Equal(t, "midlife", coarse.AgeKey)
	assert.Equal(t, "25/midlife", fine.AgeKey)
	assert.Empty(t, coarse.Avatar)
	assert.Equal(t, p.Avatar, fine.Avatar)
	assert.NotEqual(t, coarse.String(), fine.String())
}

func TestGetOrCompute_HitSkipsCompute(t *testing.T) {
	c := New()
	var calls atomic.Int32

	first, err := c.GetOrCompute(t.Context(), testKey(1), counting("The Sun", &calls))
	require.NoError(t, err)
	assert.False(t, first.FromCache)
	assert.Equal(t, uint64(1), first.Seq)

	second, err := c.GetOrCompute(t.Context(), testKey(1), counting("other", &calls))
	require.NoError(t, err)
	assert.True(t, second.FromCache)
	assert.Same(t, first.Lesson, second.Lesson)

	assert.Equal(t, int32(1), calls.Load())
	assert.Equal(t, uint64(1), c.SynthesisCount())
	assert.Equal(t, 1, c.Len())

	st := c.Stats()
	assert.Equal(t, uint64(1), st.Hits)
	assert.Equal(t, uint64(1), st.Misses)
}

func TestGetOrCompute_ConcurrentSameKeyComputesOnce(t *testing.T) {
	c := New()
	var calls atomic.Int32
	release := make(chan struct{})

	compute := func(context.Context) (*lesson.Lesson, error) {
		calls.Add(1)
		<-release
		return &lesson.Lesson{Title: "The Sun"}, nil
	}

	const n = 20
	results := make([]Result, n)
	var wg sync.WaitGroup
	for i := range n {
		wg.Add(1)
		go func() {
			defer wg.Done()
			r, err := c.GetOrCompute(context.Background(), testKey(1), compute)
			assert.NoError(t, err)
			results[i] = r
		}()
	}

	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	assert.Equal(t, int32(1), calls.Load())
	assert.Equal(t, uint64(1), c.SynthesisCount())
	for _, r := range results {
		assert.Same(t, results[0].Lesson, r.Lesson)
	}
}

func TestGetOrCompute_DifferentKeysRunInParallel(t *testing.T) {
	c := New()
	started := make(chan struct{}, 2)
	release := make(chan struct{})

	compute := func(context.Context) (*lesson.Lesson, error) {
		started <- struct{}{}
		<-release
		return &lesson.Lesson{}, nil
	}

	var wg sync.WaitGroup
	for day := 1; day <= 2; day++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := c.GetOrCompute(context.Background(), testKey(day), compute)
			assert.NoError(t, err)
		}()
	}

	for range 2 {
		select {
		case <-started:
		case <-time.After(2 * time.Second):
			t.Fatal("computations for different keys did not overlap")
		}
	}
	close(release)
	wg.Wait()
	assert.Equal(t, uint64(2), c.SynthesisCount())
}

func TestGetOrCompute_ErrorNotCached(t *testing.T) {
	c := New()
	boom := errors.New("boom")

	_, err := c.GetOrCompute(t.Context(), testKey(1), func(context.Context) (*lesson.Lesson, error) {
		return nil, boom
	})
	require.ErrorIs(t, err, boom)
	assert.Equal(t, 0, c.Len())
	assert.Equal(t, uint64(0), c.SynthesisCount())

	var calls atomic.Int32
	r, err := c.GetOrCompute(t.Context(), testKey(1), counting("ok", &calls))
	require.NoError(t, err)
	assert.False(t, r.FromCache)
	assert.Equal(t, int32(1), calls.Load())
}

func TestGetOrCompute_CancelledCallerDoesNotAbortCompute(t *testing.T) {
	c := New()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	r, err := c.GetOrCompute(ctx, testKey(1), func(ctx context.Context) (*lesson.Lesson, error) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		return &lesson.Lesson{Title: "ok"}, nil
	})
	require.NoError(t, err)
	assert.Equal(t, "ok", r.Lesson.Title)
}

func TestBackend_PromotesAndSaves(t *testing.T) {
	b := newMemBackend()
	b.data[testKey(2).String()] = &lesson.Lesson{Title: "from backend"}
	c := New(WithBackend(b))

	var calls atomic.Int32
	r, err := c.GetOrCompute(t.Context(), testKey(2), counting("fresh", &calls))
	require.NoError(t, err)
	assert.True(t, r.FromCache)
	assert.Equal(t, "from backend", r.Lesson.Title)
	assert.Equal(t, int32(0), calls.Load())
	assert.Equal(t, uint64(1), c.Stats().BackendHits)
	assert.Equal(t, 1, c.Len())

	_, err = c.GetOrCompute(t.Context(), testKey(3), counting("fresh", &calls))
	require.NoError(t, err)
	assert.Equal(t, 1, b.saves)
	assert.Equal(t, "fresh", b.data[testKey(3).String()].Title)
}

func TestBackend_SkipsDegradedLessons(t *testing.T) {
	b := newMemBackend()
	c := New(WithBackend(b))

	r, err := c.GetOrCompute(t.Context(), testKey(4), func(context.Context) (*lesson.Lesson, error) {
		return &lesson.Lesson{Title: "templated", Metadata: lesson.Metadata{UsedFallback: true}}, nil
	})
	require.NoError(t, err)
	assert.False(t, r.FromCache)
	assert.Equal(t, 0, b.saves)
	assert.Empty(t, b.data)

	again, err := c.GetOrCompute(t.Context(), testKey(4), counting("unused", new(atomic.Int32)))
	require.NoError(t, err)
	assert.True(t, again.FromCache, "degraded lessons are still memoized in memory")
}

func TestBackend_ErrorsAreIgnored(t *testing.T) {
	b := newMemBackend()
	b.err = errors.New("redis down")
	c := New(WithBackend(b))

	var calls atomic.Int32
	r, err := c.GetOrCompute(t.Context(), testKey(1), counting("fresh", &calls))
	require.NoError(t, err)
	assert.False(t, r.FromCache)
	assert.Equal(t, int32(1), calls.Load())
}

func TestGet(t *testing.T) {
	b := newMemBackend()
	c := New(WithBackend(b))

	_, ok := c.Get(t.Context(), testKey(1))
	assert.False(t, ok)

	b.data[testKey(1).String()] = &lesson.Lesson{Title: "stored"}
	l, ok := c.Get(t.Context(), testKey(1))
	require.True(t, ok)
	assert.Equal(t, "stored", l.Title)

	_, ok = c.Peek(testKey(1))
	assert.True(t, ok)
}
