package cache

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/DjordjeVuckovic/news-desk/internal/domain"
	"github.com/DjordjeVuckovic/news-desk/internal/storage"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubReader struct {
	articles []domain.Article
	calls    atomic.Int32
	gate     chan struct{}
	err      error
}

func (s *stubReader) GetAll(context.Context) ([]domain.Article, error) {
	s.calls.Add(1)
	if s.gate != nil {
		<-s.gate
	}
	if s.err != nil {
		return nil, s.err
	}
	return s.articles, nil
}

func (s *stubReader) GetByID(_ context.Context, id uuid.UUID) (*domain.Article, error) {
	s.calls.Add(1)
	for _, a := range s.articles {
		if a.ID == id {
			return &a, nil
		}
	}
	return nil, storage.ErrNotFound
}

func fixtures() []domain.Article {
	return []domain.Article{
		{ID: uuid.New(), Title: "B", Featured: true},
		{ID: uuid.New(), Title: "A"},
	}
}

func TestCachedReader_SecondReadIsHit(t *testing.T) {
	stub := &stubReader{articles: fixtures()}
	r := NewCachedReader(stub, NewMemoryCache(10, time.Minute))
	ctx := context.Background()

	first, err := r.GetAll(ctx)
	require.NoError(t, err)
	second, err := r.GetAll(ctx)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.EqualValues(t, 1, stub.calls.Load())
}

func TestCachedReader_Featured(t *testing.T) {
	stub := &stubReader{articles: fixtures()}
	r := NewCachedReader(stub, NewMemoryCache(10, time.Minute))

	got, err := r.Featured(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "B", got[0].Title)
}

func TestCachedReader_InvalidationForcesReload(t *testing.T) {
	stub := &stubReader{articles: fixtures()}
	pages := NewMemoryCache(10, time.Minute)
	r := NewCachedReader(stub, pages)
	ctx := context.Background()

	id := stub.articles[0].ID
	_, err := r.GetByID(ctx, id)
	require.NoError(t, err)

	NewPageInvalidator(pages).Invalidate(PathsFor(id)...)

	_, err = r.GetByID(ctx, id)
	require.NoError(t, err)
	assert.EqualValues(t, 2, stub.calls.Load())
}

func TestCachedReader_NotFoundIsNotCached(t *testing.T) {
	stub := &stubReader{}
	r := NewCachedReader(stub, NewMemoryCache(10, time.Minute))
	ctx := context.Background()

	_, err := r.GetByID(ctx, uuid.New())
	assert.ErrorIs(t, err, storage.ErrNotFound)

	id := uuid.New()
	_, _ = r.GetByID(ctx, id)
	_, _ = r.GetByID(ctx, id)
	assert.EqualValues(t, 3, stub.calls.Load())
}

func TestCachedReader_CollapsesConcurrentMisses(t *testing.T) {
	stub := &stubReader{articles: fixtures(), gate: make(chan struct{})}
	r := NewCachedReader(stub, NewMemoryCache(10, time.Minute))

	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := r.GetAll(context.Background())
			assert.NoError(t, err)
		}()
	}
	time.Sleep(50 * time.Millisecond)
	close(stub.gate)
	wg.Wait()

	assert.EqualValues(t, 1, stub.calls.Load())
}

type brokenCache struct{}

func (brokenCache) Get(context.Context, string) ([]byte, bool, error) {
	return nil, false, errors.New("down")
}
func (brokenCache) Set(context.Context, string, []byte) error { return errors.New("down") }
func (brokenCache) Delete(context.Context, ...string) error { return errors.New("down") }

func TestCachedReader_CacheFailureFallsThrough(t *testing.T) {
	stub := &stubReader{articles: fixtures()}
	r := NewCachedReader(stub, brokenCache{})

	got, err := r.GetAll(context.Background())
	require.NoError(t, err)
	assert.Len(t, got, 2)
}

func TestCachedReader_StoreErrorPropagates(t *testing.T) {
	stub := &stubReader{err: errors.New("db down")}
	r := NewCachedReader(stub, NewMemoryCache(10, time.Minute))

	_, err := r.GetAll(context.Background())
	assert.EqualError(t, err, "db down")
}

func TestCachedReader_InvalidationDuringLoadSkipsFill(t *testing.T) {
	stub := &stubReader{articles: fixtures(), gate: make(chan struct{})}
	pages := NewMemoryCache(10, time.Minute)
	gens := NewGenerations()
	r := NewCachedReader(stub, pages, WithGenerations(gens))
	inv := NewPageInvalidator(pages, WithGenerations(gens))

	done := make(chan struct{})
	go func() {
		defer close(done)
		_, err := r.GetAll(context.Background())
		assert.NoError(t, err)
	}()

	require.Eventually(t, func() bool { return stub.calls.Load() == 1 }, time.Second, 5*time.Millisecond)
	inv.Invalidate(NewsListPath)
	close(stub.gate)
	<-done

	_, ok, err := pages.Get(context.Background(), PageKey(NewsListPath))
	require.NoError(t, err)
	assert.False(t, ok, "a load that raced an invalidation must not fill the cache")

	_, err = r.GetAll(context.Background())
	require.NoError(t, err)
	assert.EqualValues(t, 2, stub.calls.Load())

	_, ok, err = pages.Get(context.Background(), PageKey(NewsListPath))
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestGenerations(t *testing.T) {
	g := NewGenerations()
	seen := g.Current("k")

	stored := false
	assert.True(t, g.StoreIf("k", seen, func() { stored = true }))
	assert.True(t, stored)

	g.Bump("k", "other")
	assert.EqualValues(t, 1, g.Current("k"))
	assert.False(t, g.StoreIf("k", seen, func() { t.Fatal("must not store") }))

	var nilGens *Generations
	nilGens.Bump("k")
	assert.Zero(t, nilGens.Current("k"))
	assert.True(t, nilGens.StoreIf("k", 5, func() {}))
}
