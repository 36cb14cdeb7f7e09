package main

import (
	"context"
	"fmt"

	"github.com/DjordjeVuckovic/news-desk/internal/cache"
	"github.com/DjordjeVuckovic/news-desk/internal/domain"
	"github.com/DjordjeVuckovic/news-desk/internal/generator"
	"github.com/DjordjeVuckovic/news-desk/internal/ingest"
	"github.com/DjordjeVuckovic/news-desk/internal/normalizer"
	"github.com/DjordjeVuckovic/news-desk/internal/storage/factory"
)

type app struct {
	svc     *ingest.Service
	stores  *factory.Stores
	flushes []func()
}

// newApp wires the ingestion service. needGenerator is false for commands
// that never call the model.
func newApp(ctx context.Context, needGenerator bool) (*app, error) {
	cfg, err := NewAppConfig().Load()
	if err != nil {
		return nil, err
	}

	stores, err := factory.New(ctx, &cfg.StorageConfig)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}

	var gen generator.Generator = unavailableGenerator{}
	if needGenerator {
		gen, err = generator.New(&cfg.GeneratorConfig)
		if err != nil {
			stores.Close()
			return nil, err
		}
	}

	a := &app{stores: stores}
	opts := []ingest.Option{}
	if cfg.BaseURL != "" {
		inv, err := cache.NewHTTPInvalidator(cfg.BaseURL, cache.WithToken(cfg.RevalidateToken))
		if err != nil {
			stores.Close()
			return nil, err
		}
		opts = append(opts, ingest.WithInvalidator(inv))
		a.flushes = append(a.flushes, inv.Wait)
	}

	a.svc = ingest.NewService(normalizer.New(), gen, stores.Store, opts...)
	return a, nil
}

// Close waits for pending revalidation calls, then releases the store.
func (a *app) Close() {
	for _, f := range a.flushes {
		f()
	}
	a.stores.Close()
}

type unavailableGenerator struct{}

func (unavailableGenerator) Generate(context.Context, string) (*domain.GeneratedArticle, error) {
	return nil, &generator.GenerationError{Err: generator.ErrConfiguration}
}
