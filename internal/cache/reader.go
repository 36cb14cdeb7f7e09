package cache

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/DjordjeVuckovic/news-desk/internal/domain"
	"github.com/DjordjeVuckovic/news-desk/internal/metrics"
	"github.com/DjordjeVuckovic/news-desk/internal/storage"
	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"
)

// CachedReader serves public reads from the page cache, falling back to the
// store. Concurrent misses for the same page share one store call. Cache
// failures degrade to uncached reads.
type CachedReader struct {
	next  storage.Reader
	cache PageCache
	gens  *Generations
	group singleflight.Group
}

func NewCachedReader(next storage.Reader, cache PageCache, opts ...PageOption) *CachedReader {
	o := applyPageOptions(opts)
	return &CachedReader{next: next, cache: cache, gens: o.gens}
}

func (r *CachedReader) GetAll(ctx context.Context) ([]domain.Article, error) {
	return loadThrough(ctx, r, PageKey(NewsListPath), func(ctx context.Context) ([]domain.Article, error) {
		return r.next.GetAll(ctx)
	})
}

// Featured lists featured articles, newest first, as shown on the home page.
func (r *CachedReader) Featured(ctx context.Context) ([]domain.Article, error) {
	return loadThrough(ctx, r, PageKey(HomePath), func(ctx context.Context) ([]domain.Article, error) {
		all, err := r.next.GetAll(ctx)
		if err != nil {
			return nil, err
		}
		return FilterFeatured(all), nil
	})
}

func (r *CachedReader) GetByID(ctx context.Context, id uuid.UUID) (*domain.Article, error) {
	return loadThrough(ctx, r, PageKey(ArticlePath(id)), func(ctx context.Context) (*domain.Article, error) {
		return r.next.GetByID(ctx, id)
	})
}

func FilterFeatured(all []domain.Article) []domain.Article {
	out := make([]domain.Article, 0)
	for _, a := range all {
		if a.Featured {
			out = append(out, a)
		}
	}
	return out
}

func loadThrough[T any](ctx context.Context, r *CachedReader, key string, load func(context.Context) (T, error)) (T, error) {
	var zero T

	if raw, ok, err := r.cache.Get(ctx, key); err != nil {
		slog.Warn("Page cache read failed", "key", key, "error", err)
	} else if ok {
		var v T
		if err := json.Unmarshal(raw, &v); err == nil {
			metrics.CacheLookups.WithLabelValues("hit").Inc()
			return v, nil
		}
		slog.Warn("Discarding undecodable cache entry", "key", key)
	}
	metrics.CacheLookups.WithLabelValues("miss").Inc()

	v, err, _ := r.group.Do(key, func() (any, error) {
		seen := r.gens.Current(key)
		v, err := load(ctx)
		if err != nil {
			return nil, err
		}
		raw, err := json.Marshal(v)
		if err != nil {
			return v, nil
		}
		stored := r.gens.StoreIf(key, seen, func() {
			if err := r.cache.Set(ctx, key, raw); err != nil {
				slog.Warn("Page cache write failed", "key", key, "error", err)
			}
		})
		if !stored {
			slog.Debug("Skipping cache fill invalidated during load", "key", key)
		}
		return v, nil
	})
	if err != nil {
		return zero, err
	}
	return v.(T), nil
}

var _ storage.Reader = (*CachedReader)(nil)
