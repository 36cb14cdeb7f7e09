package factory

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/DjordjeVuckovic/news-desk/internal/storage"
	"github.com/DjordjeVuckovic/news-desk/internal/storage/es"
	"github.com/DjordjeVuckovic/news-desk/internal/storage/in_mem"
	"github.com/DjordjeVuckovic/news-desk/internal/storage/pg"
)

// HealthChecker matches pkg/server.HealthChecker.
type HealthChecker interface {
	Healthy(ctx context.Context) bool
}

// Stores is what a binary needs from the storage layer.
type Stores struct {
	// Store uses elevated credentials; ingestion and admin paths write here.
	Store storage.Store
	// Reader serves public reads, on restricted credentials where configured.
	Reader  storage.Reader
	Health  HealthChecker
	closers []func()
}

func (s *Stores) Close() {
	for _, c := range s.closers {
		c()
	}
}

// New opens the backend selected by cfg.Type.
func New(ctx context.Context, cfg *StorageConfig) (*Stores, error) {
	switch cfg.Type {
	case storage.PG:
		pool, err := pg.NewConnectionPool(ctx, *cfg.Pg)
		if err != nil {
			return nil, fmt.Errorf("failed to create PostgreSQL connection pool: %w", err)
		}
		stores := &Stores{
			Store:   pg.NewStore(pool),
			Health:  pg.NewHealthChecker(pool),
			closers: []func(){pool.Close},
		}
		stores.Reader = stores.Store

		if cfg.PgRead != nil {
			readPool, err := pg.NewConnectionPool(ctx, *cfg.PgRead)
			if err != nil {
				pool.Close()
				return nil, fmt.Errorf("failed to create PostgreSQL read pool: %w", err)
			}
			stores.Reader = pg.NewStore(readPool)
			stores.closers = append(stores.closers, readPool.Close)
			slog.Info("Public reads use the restricted connection pool")
		}
		return stores, nil

	case storage.ES:
		s, err := es.NewStore(ctx, *cfg.Es)
		if err != nil {
			return nil, err
		}
		return &Stores{Store: s, Reader: s, Health: s}, nil

	case storage.InMem:
		s := in_mem.NewInMemStore()
		return &Stores{Store: s, Reader: s, Health: s}, nil

	default:
		return nil, fmt.Errorf(string(storage.ErrUnsupportedStorer), cfg.Type)
	}
}
