package ingest

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/url"
	"strings"

	"github.com/DjordjeVuckovic/news-desk/internal/apperr"
	"github.com/DjordjeVuckovic/news-desk/internal/cache"
	"github.com/DjordjeVuckovic/news-desk/internal/domain"
	"github.com/DjordjeVuckovic/news-desk/internal/generator"
	"github.com/DjordjeVuckovic/news-desk/internal/media"
	"github.com/DjordjeVuckovic/news-desk/internal/metrics"
	"github.com/DjordjeVuckovic/news-desk/internal/normalizer"
	"github.com/DjordjeVuckovic/news-desk/internal/storage"
	"github.com/google/uuid"
)

const (
	modeFields  = "fields"
	modeURL     = "url"
	modePreview = "preview"
)

// URLResult is the outcome of URL-mode ingestion. When Stored is false the
// generated content is still returned in Generated and StoreErr says why.
type URLResult struct {
	Article   *domain.Article
	Generated domain.ArticleInput
	Stored    bool
	StoreErr  error
}

// Service runs the ingestion flows: normalize or generate, sanitize, store,
// then invalidate cached pages. Resubmitting the same payload creates a new
// article every time.
type Service struct {
	normalizer  *normalizer.Normalizer
	generator   generator.Generator
	store       storage.Writer
	uploader    media.Uploader
	invalidator cache.Invalidator
	sanitizer   *Sanitizer
}

type Option func(s *Service)

func WithInvalidator(inv cache.Invalidator) Option {
	return func(s *Service) {
		s.invalidator = inv
	}
}

func WithUploader(u media.Uploader) Option {
	return func(s *Service) {
		s.uploader = u
	}
}

func NewService(n *normalizer.Normalizer, g generator.Generator, store storage.Writer, opts ...Option) *Service {
	s := &Service{
		normalizer:  n,
		generator:   g,
		store:       store,
		uploader:    media.NoopUploader{},
		invalidator: cache.NoopInvalidator{},
		sanitizer:   NewSanitizer(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// IngestFields stores a caller-supplied article. It returns an
// *apperr.MissingFieldsError for incomplete payloads and a
// *storage.PersistenceError when the store fails.
func (s *Service) IngestFields(ctx context.Context, in normalizer.Input) (*domain.Article, error) {
	input, err := s.normalizer.Normalize(in)
	if err != nil {
		metrics.IngestTotal.WithLabelValues(modeFields, "invalid").Inc()
		return nil, err
	}
	return s.createFields(ctx, input)
}

func (s *Service) IngestMap(ctx context.Context, data map[string]any) (*domain.Article, error) {
	input, err := s.normalizer.NormalizeMap(data)
	if err != nil {
		metrics.IngestTotal.WithLabelValues(modeFields, "invalid").Inc()
		return nil, err
	}
	return s.createFields(ctx, input)
}

func (s *Service) createFields(ctx context.Context, input domain.ArticleInput) (*domain.Article, error) {
	article, err := s.create(ctx, s.sanitize(input))
	if err != nil {
		metrics.IngestTotal.WithLabelValues(modeFields, "store_failed").Inc()
		return nil, err
	}
	metrics.IngestTotal.WithLabelValues(modeFields, "created").Inc()
	return article, nil
}

// IngestURL generates an article from sourceURL and stores it. A generation
// failure is returned as is and the store is never called. A store failure
// is reported through the result, not the error.
func (s *Service) IngestURL(ctx context.Context, sourceURL string) (*URLResult, error) {
	gen, err := s.generate(ctx, modeURL, sourceURL)
	if err != nil {
		return nil, err
	}

	input := s.sanitize(domain.FromGenerated(*gen, sourceURL))
	res := &URLResult{Generated: input}

	article, err := s.create(ctx, input)
	if err != nil {
		slog.Error("Generated article could not be stored", "url", sourceURL, "error", err)
		metrics.IngestTotal.WithLabelValues(modeURL, "store_failed").Inc()
		res.StoreErr = err
		return res, nil
	}

	metrics.IngestTotal.WithLabelValues(modeURL, "created").Inc()
	res.Article = article
	res.Stored = true
	return res, nil
}

// Preview generates without storing.
func (s *Service) Preview(ctx context.Context, sourceURL string) (*domain.GeneratedArticle, error) {
	gen, err := s.generate(ctx, modePreview, sourceURL)
	if err != nil {
		return nil, err
	}
	metrics.IngestTotal.WithLabelValues(modePreview, "generated").Inc()
	return gen, nil
}

func (s *Service) generate(ctx context.Context, mode, sourceURL string) (*domain.GeneratedArticle, error) {
	if err := ValidateSourceURL(sourceURL); err != nil {
		metrics.IngestTotal.WithLabelValues(mode, "invalid").Inc()
		return nil, err
	}
	gen, err := s.generator.Generate(ctx, sourceURL)
	if err != nil {
		metrics.IngestTotal.WithLabelValues(mode, "generation_failed").Inc()
		return nil, err
	}
	return gen, nil
}

func (s *Service) Update(ctx context.Context, id uuid.UUID, patch domain.ArticlePatch) (*domain.Article, error) {
	if patch.IsEmpty() {
		return nil, apperr.NewValidation("no fields to update")
	}
	patch = s.sanitizePatch(patch)

	article, err := s.store.Update(ctx, id, patch)
	if err != nil {
		return nil, s.storeErr("update", id, err)
	}
	s.invalidator.Invalidate(cache.PathsFor(id)...)
	return article, nil
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.store.Delete(ctx, id); err != nil {
		return s.storeErr("delete", id, err)
	}
	s.invalidator.Invalidate(cache.PathsFor(id)...)
	return nil
}

// AttachImage uploads an image and points the article at it. An upload
// failure is logged and the default image is used instead.
func (s *Service) AttachImage(ctx context.Context, id uuid.UUID, name, contentType string, body io.Reader) (*domain.Article, error) {
	imageURL, err := s.uploader.Upload(ctx, name, contentType, body)
	if err != nil {
		slog.Warn("Image upload failed, using default image", "id", id, "error", err)
		imageURL = domain.DefaultImageURL
	}
	return s.Update(ctx, id, domain.ArticlePatch{ImageURL: &imageURL})
}

func (s *Service) create(ctx context.Context, input domain.ArticleInput) (*domain.Article, error) {
	article, err := s.store.Create(ctx, input)
	if err != nil {
		metrics.StoreErrors.WithLabelValues("create").Inc()
		var pe *storage.PersistenceError
		if !errors.As(err, &pe) {
			err = storage.NewPersistenceError("create", err)
		}
		return nil, err
	}
	s.invalidator.Invalidate(cache.PathsFor(article.ID)...)
	return article, nil
}

func (s *Service) storeErr(op string, id uuid.UUID, err error) error {
	if errors.Is(err, storage.ErrNotFound) {
		return apperr.NewNotFound("article", id.String())
	}
	metrics.StoreErrors.WithLabelValues(op).Inc()
	var pe *storage.PersistenceError
	if !errors.As(err, &pe) {
		err = storage.NewPersistenceError(op, err)
	}
	return err
}

func (s *Service) sanitize(in domain.ArticleInput) domain.ArticleInput {
	in.Title = s.sanitizer.Text(in.Title)
	in.Excerpt = s.sanitizer.Text(in.Excerpt)
	in.Category = s.sanitizer.Text(in.Category)
	in.Content = s.sanitizer.Content(in.Content)
	return in
}

// sanitizePatch applies the create-time policies to the fields being set.
func (s *Service) sanitizePatch(p domain.ArticlePatch) domain.ArticlePatch {
	text := func(v *string) *string {
		if v == nil {
			return nil
		}
		out := s.sanitizer.Text(*v)
		return &out
	}
	p.Title = text(p.Title)
	p.Excerpt = text(p.Excerpt)
	p.Category = text(p.Category)
	if p.Content != nil {
		c := s.sanitizer.Content(*p.Content)
		p.Content = &c
	}
	return p
}

// ValidateSourceURL accepts absolute http and https URLs only.
func ValidateSourceURL(raw string) error {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return apperr.NewValidation("url is required")
	}
	u, err := url.Parse(raw)
	if err != nil {
		return apperr.NewValidationWrap("invalid url", err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return apperr.NewValidation("url must be an absolute http(s) URL")
	}
	return nil
}
