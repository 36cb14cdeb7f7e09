package generator

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/DjordjeVuckovic/news-desk/internal/domain"
	"github.com/DjordjeVuckovic/news-desk/internal/metrics"
	"github.com/DjordjeVuckovic/news-desk/internal/source"
)

// Generator turns a source URL into article fields. Every error it returns
// is a *GenerationError; nothing is retried.
type Generator interface {
	Generate(ctx context.Context, sourceURL string) (*domain.GeneratedArticle, error)
}

const (
	DefaultPollInterval = 2 * time.Second
	DefaultTimeout      = 120 * time.Second
	DefaultModel        = "gpt-4o-mini"
)

type options struct {
	clock        Clock
	pollInterval time.Duration
	timeout      time.Duration
	model        string
	source       source.Fetcher
}

type Option func(o *options)

func defaultOptions() options {
	return options{
		clock:        realClock{},
		pollInterval: DefaultPollInterval,
		timeout:      DefaultTimeout,
		model:        DefaultModel,
	}
}

func WithClock(c Clock) Option {
	return func(o *options) {
		o.clock = c
	}
}

func WithPollInterval(d time.Duration) Option {
	return func(o *options) {
		if d > 0 {
			o.pollInterval = d
		}
	}
}

func WithTimeout(d time.Duration) Option {
	return func(o *options) {
		if d > 0 {
			o.timeout = d
		}
	}
}

func WithModel(model string) Option {
	return func(o *options) {
		if model != "" {
			o.model = model
		}
	}
}

// WithSource grounds the prompt in the fetched page text.
func WithSource(f source.Fetcher) Option {
	return func(o *options) {
		o.source = f
	}
}

func (o options) sourceText(ctx context.Context, sourceURL string) string {
	if o.source == nil {
		return ""
	}
	text, err := o.source.Fetch(ctx, sourceURL)
	if err != nil {
		slog.Warn("Failed to fetch source page, generating from URL only", "url", sourceURL, "error", err)
		return ""
	}
	return text
}

// finish parses raw model output, records metrics and wraps err.
func finish(mode string, start time.Time, raw string, err error) (*domain.GeneratedArticle, error) {
	metrics.GenerationDuration.WithLabelValues(mode).Observe(time.Since(start).Seconds())

	if err != nil {
		var gerr *GenerationError
		if !errors.As(err, &gerr) {
			gerr = &GenerationError{Err: err}
		}
		metrics.GenerationErrors.WithLabelValues(mode, gerr.Reason()).Inc()
		slog.Error("Failed to generate article", "mode", mode, "reason", gerr.Reason(), "error", err)
		return nil, gerr
	}

	article, ok := ParseArticle(raw)
	if !ok {
		metrics.GenerationFallbacks.Inc()
		slog.Warn("Model output is not a valid article, using fallback", "mode", mode, "length", len(raw))
	}
	return article, nil
}
