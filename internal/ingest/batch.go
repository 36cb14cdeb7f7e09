package ingest

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/DjordjeVuckovic/news-desk/internal/domain"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"
)

const (
	BatchKind          = "ArticleBatch"
	defaultConcurrency = 2
)

// BatchFile lists source URLs to generate in one run.
type BatchFile struct {
	Kind        string      `yaml:"kind"`
	Version     string      `yaml:"version"`
	Concurrency int         `yaml:"concurrency"`
	Items       []BatchItem `yaml:"items"`
}

type BatchItem struct {
	URL      string `yaml:"url"`
	Featured bool   `yaml:"featured"`
}

type BatchOutcome struct {
	URL    string
	Result *URLResult
	Err    error
}

func LoadBatchFile(path string) (*BatchFile, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read batch file: %w", err)
	}

	var bf BatchFile
	if err := yaml.Unmarshal(raw, &bf); err != nil {
		return nil, fmt.Errorf("parse batch file: %w", err)
	}
	if bf.Kind != "" && bf.Kind != BatchKind {
		return nil, fmt.Errorf("unexpected kind %q, want %s", bf.Kind, BatchKind)
	}
	if len(bf.Items) == 0 {
		return nil, fmt.Errorf("batch file %s has no items", path)
	}
	for i, it := range bf.Items {
		if err := ValidateSourceURL(it.URL); err != nil {
			return nil, fmt.Errorf("item %d: %w", i, err)
		}
	}
	if bf.Concurrency <= 0 {
		bf.Concurrency = defaultConcurrency
	}
	return &bf, nil
}

// RunBatch ingests every item, at most bf.Concurrency at a time. A failed
// item does not stop the others; outcomes keep the file order.
func (s *Service) RunBatch(ctx context.Context, bf *BatchFile) []BatchOutcome {
	outcomes := make([]BatchOutcome, len(bf.Items))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(max(bf.Concurrency, 1))

	for i, it := range bf.Items {
		g.Go(func() error {
			res, err := s.IngestURL(ctx, it.URL)
			if err == nil && res.Stored && it.Featured {
				featured := true
				if a, uerr := s.Update(ctx, res.Article.ID, domain.ArticlePatch{Featured: &featured}); uerr == nil {
					res.Article = a
				} else {
					slog.Warn("Failed to mark article featured", "id", res.Article.ID, "error", uerr)
				}
			}

			outcomes[i] = BatchOutcome{URL: it.URL, Result: res, Err: err}
			return nil
		})
	}
	_ = g.Wait()
	return outcomes
}
