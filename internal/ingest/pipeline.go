package ingest

import (
	"context"
	"log/slog"
	"time"

	"github.com/DjordjeVuckovic/news-desk/internal/cache"
	"github.com/DjordjeVuckovic/news-desk/internal/collector"
	"github.com/DjordjeVuckovic/news-desk/internal/domain"
	"github.com/DjordjeVuckovic/news-desk/internal/storage"
)

const defaultBatchSize = 100

// BulkOptions enables batched writes on stores that implement
// storage.BulkWriter. Other stores fall back to one Create per article.
type BulkOptions struct {
	Enabled bool
	Size    int
}

type PipelineConfig struct {
	Name string
	Bulk *BulkOptions
}

type ImportStats struct {
	Stored  int
	Invalid int
	Failed  int
}

// ImportPipeline stores direct-field payloads streamed by a collector. Each
// payload goes through the same normalization as POST /api/news.
type ImportPipeline struct {
	collector collector.Collector[map[string]any]
	svc       *Service
	config    *PipelineConfig
}

type PipelineOption func(p *ImportPipeline)

func WithBulk(size int) PipelineOption {
	return func(p *ImportPipeline) {
		if size <= 0 {
			size = defaultBatchSize
		}
		p.config.Bulk = &BulkOptions{Enabled: true, Size: size}
	}
}

func WithPipelineName(name string) PipelineOption {
	return func(p *ImportPipeline) {
		p.config.Name = name
	}
}

func NewImportPipeline(c collector.Collector[map[string]any], svc *Service, opts ...PipelineOption) *ImportPipeline {
	p := &ImportPipeline{
		collector: c,
		svc:       svc,
		config: &PipelineConfig{
			Name: "import-pipeline",
			Bulk: &BulkOptions{Enabled: false, Size: defaultBatchSize},
		},
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *ImportPipeline) Run(ctx context.Context) (ImportStats, error) {
	start := time.Now()
	slog.Info("Starting import pipeline run",
		"pipeline", p.config.Name,
		"bulk_enabled", p.config.Bulk.Enabled,
		"batch_size", p.config.Bulk.Size,
	)

	results, err := p.collector.Collect(ctx)
	if err != nil {
		slog.Error("Error collecting articles", "error", err, "pipeline", p.config.Name)
		return ImportStats{}, err
	}

	var stats ImportStats
	var batch []domain.ArticleInput

	flush := func() {
		if len(batch) == 0 {
			return
		}
		stored, err := p.svc.storeBatch(ctx, batch, p.config.Bulk.Enabled)
		stats.Stored += stored
		stats.Failed += len(batch) - stored
		if err != nil {
			slog.Error("Error storing batch", "error", err, "count", len(batch), "pipeline", p.config.Name)
		}
		batch = batch[:0]
	}

	defer func() {
		slog.Info("Import pipeline run completed",
			"pipeline", p.config.Name,
			"stored", stats.Stored,
			"invalid", stats.Invalid,
			"failed", stats.Failed,
			"duration", time.Since(start),
		)
	}()

	for {
		select {
		case <-ctx.Done():
			return stats, ctx.Err()
		case res, ok := <-results:
			if !ok {
				flush()
				return stats, nil
			}
			if res.Err != nil {
				slog.Error("Error collecting article", "error", res.Err, "pipeline", p.config.Name)
				stats.Invalid++
				continue
			}

			input, err := p.svc.normalizer.NormalizeMap(res.Result)
			if err != nil {
				slog.Warn("Skipping invalid article", "error", err, "pipeline", p.config.Name)
				stats.Invalid++
				continue
			}

			batch = append(batch, p.svc.sanitize(input))
			if !p.config.Bulk.Enabled || len(batch) >= p.config.Bulk.Size {
				flush()
			}
		}
	}
}

// storeBatch returns how many articles were stored.
func (s *Service) storeBatch(ctx context.Context, inputs []domain.ArticleInput, bulk bool) (int, error) {
	if bw, ok := s.store.(storage.BulkWriter); ok && bulk {
		articles, err := bw.CreateBulk(ctx, inputs)
		if err != nil {
			return 0, err
		}
		s.invalidateList(articles)
		return len(articles), nil
	}

	stored := 0
	var lastErr error
	for _, in := range inputs {
		if _, err := s.create(ctx, in); err != nil {
			lastErr = err
			continue
		}
		stored++
	}
	return stored, lastErr
}

func (s *Service) invalidateList(articles []domain.Article) {
	if len(articles) == 0 {
		return
	}
	paths := []string{cache.HomePath, cache.NewsListPath}
	for _, a := range articles {
		paths = append(paths, cache.ArticlePath(a.ID))
	}
	s.invalidator.Invalidate(paths...)
}
