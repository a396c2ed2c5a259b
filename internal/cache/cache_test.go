package cache

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ppiankov/veritas/internal/model"
)

func verdict(claim string) *model.Verdict {
	return &model.Verdict{
		Claim:       claim,
		Fingerprint: model.Fingerprint(claim),
		Status:      model.StatusTrue,
		Confidence:  0.8,
	}
}

func TestKey(t *testing.T) {
	assert.Equal(t, "veritas:v1:abc", Key("", "abc"))
	assert.Equal(t, "test:abc", Key("test:", "abc"))
}

func TestMemoryStore_AddIfAbsent(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	first := &Entry{Verdict: verdict("a")}
	second := &Entry{Verdict: verdict("a")}

	got, err := s.Add(ctx, "k", first)
	require.NoError(t, err)
	assert.Same(t, first, got)

	got, err = s.Add(ctx, "k", second)
	require.NoError(t, err)
	assert.Same(t, first, got, "second writer must receive the first entry")

	stored, found, err := s.Get(ctx, "k")
	require.NoError(t, err)
	require.True(t, found)
	assert.Same(t, first, stored)

	n, _ := s.Len(ctx)
	assert.Equal(t, 1, n)
}

func TestMemoryStore_Miss(t *testing.T) {
	_, found, err := NewMemoryStore().Get(context.Background(), "missing")
	require.NoError(t, err)
	assert.False(t, found)
}

// failingStore always errors
type failingStore struct{}

func (failingStore) Get(context.Context, string) (*Entry, bool, error) {
	return nil, false, ErrBackend
}

func (failingStore) Add(context.Context, string, *Entry) (*Entry, error) {
	return nil, ErrBackend
}

func (failingStore) Len(context.Context) (int, error) { return 0, ErrBackend }

func TestLayeredStore_PromotesSharedHits(t *testing.T) {
	ctx := context.Background()
	shared := NewMemoryStore()
	entry := &Entry{Verdict: verdict("a")}
	_, _ = shared.Add(ctx, "k", entry)

	l := NewLayeredStore(shared)
	got, found, err := l.Get(ctx, "k")
	require.NoError(t, err)
	require.True(t, found)
	assert.Same(t, entry, got)

	inMemory, found, _ := l.memory.Get(ctx, "k")
	require.True(t, found)
	assert.Same(t, entry, inMemory)
}

func TestLayeredStore_SharedFailureKeepsMemory(t *testing.T) {
	ctx := context.Background()
	l := NewLayeredStore(failingStore{})

	entry := &Entry{Verdict: verdict("a")}
	got, err := l.Add(ctx, "k", entry)
	assert.ErrorIs(t, err, ErrBackend)
	assert.Same(t, entry, got)

	again, found, err := l.Get(ctx, "k")
	require.NoError(t, err)
	require.True(t, found)
	assert.Same(t, entry, again)
}

func TestVerdictCache_Idempotent(t *testing.T) {
	ctx := context.Background()
	c := NewVerdictCache(nil, "", nil)

	var calls int32
	compute := func(context.Context) (*model.Verdict, error) {
		atomic.AddInt32(&calls, 1)
		return verdict("Paris is the capital of France"), nil
	}

	first, hit, err := c.GetOrCompute(ctx, "Paris is the capital of France", compute)
	require.NoError(t, err)
	assert.False(t, hit)

	second, hit, err := c.GetOrCompute(ctx, "Paris is the capital of France", compute)
	require.NoError(t, err)
	assert.True(t, hit)

	assert.Same(t, first, second)
	assert.Equal(t, int32(1), calls)
	assert.Equal(t, 1, c.Len(ctx))
}

func TestVerdictCache_NormalizedFingerprint(t *testing.T) {
	ctx := context.Background()
	c := NewVerdictCache(nil, "", nil)

	var calls int32
	compute := func(context.Context) (*model.Verdict, error) {
		atomic.AddInt32(&calls, 1)
		return verdict("x"), nil
	}

	_, _, _ = c.GetOrCompute(ctx, "Paris  is the capital", compute)
	_, hit, _ := c.GetOrCompute(ctx, "paris is the CAPITAL", compute)

	assert.True(t, hit)
	assert.Equal(t, int32(1), calls)
}

func TestVerdictCache_ConcurrentMissesComputeOnce(t *testing.T) {
	ctx := context.Background()
	c := NewVerdictCache(nil, "", nil)

	var calls int32
	release := make(chan struct{})
	compute := func(context.Context) (*model.Verdict, error) {
		atomic.AddInt32(&calls, 1)
		<-release
		return verdict("shared"), nil
	}

	const n = 16
	results := make([]*model.Verdict, n)
	var wg sync.WaitGroup
	var started sync.WaitGroup
	started.Add(n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			started.Done()
			results[i], _, _ = c.GetOrCompute(ctx, "shared claim", compute)
		}(i)
	}
	started.Wait()
	close(release)
	wg.Wait()

	assert.Equal(t, int32(1), calls)
	for _, r := range results {
		assert.Same(t, results[0], r)
	}
}

func TestVerdictCache_StoreFailureStillReturnsVerdict(t *testing.T) {
	ctx := context.Background()
	c := NewVerdictCache(failingStore{}, "", nil)

	var calls int32
	compute := func(context.Context) (*model.Verdict, error) {
		atomic.AddInt32(&calls, 1)
		return verdict("a"), nil
	}

	v, hit, err := c.GetOrCompute(ctx, "a", compute)
	require.NoError(t, err)
	require.NotNil(t, v)
	assert.False(t, hit)

	_, hit, _ = c.GetOrCompute(ctx, "a", compute)
	assert.False(t, hit)
	assert.Equal(t, int32(2), calls)
	assert.Equal(t, 0, c.Len(ctx))
}

func TestVerdictCache_ComputeErrorNotCached(t *testing.T) {
	ctx := context.Background()
	c := NewVerdictCache(nil, "", nil)

	boom := errors.New("boom")
	_, _, err := c.GetOrCompute(ctx, "a claim", func(context.Context) (*model.Verdict, error) {
		return nil, boom
	})
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 0, c.Len(ctx))

	v, hit, err := c.GetOrCompute(ctx, "a claim", func(context.Context) (*model.Verdict, error) {
		return verdict("a claim"), nil
	})
	require.NoError(t, err)
	assert.False(t, hit)
	assert.NotNil(t, v)
}

func TestNewRedisStore_BadURL(t *testing.T) {
	_, err := NewRedisStore("not a url", "")
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrBackend))
}
