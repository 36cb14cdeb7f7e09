package ingest

import (
	"context"
	"io"
	"sync"

	"github.com/DjordjeVuckovic/news-desk/internal/domain"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type mockGenerator struct {
	mock.Mock
}

func (m *mockGenerator) Generate(ctx context.Context, sourceURL string) (*domain.GeneratedArticle, error) {
	args := m.Called(ctx, sourceURL)
	gen, _ := args.Get(0).(*domain.GeneratedArticle)
	return gen, args.Error(1)
}

type mockWriter struct {
	mock.Mock
}

func (m *mockWriter) Create(ctx context.Context, in domain.ArticleInput) (*domain.Article, error) {
	args := m.Called(ctx, in)
	a, _ := args.Get(0).(*domain.Article)
	return a, args.Error(1)
}

func (m *mockWriter) Update(ctx context.Context, id uuid.UUID, patch domain.ArticlePatch) (*domain.Article, error) {
	args := m.Called(ctx, id, patch)
	a, _ := args.Get(0).(*domain.Article)
	return a, args.Error(1)
}

func (m *mockWriter) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

type recordingInvalidator struct {
	mu    sync.Mutex
	paths []string
}

func (r *recordingInvalidator) Invalidate(paths ...string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.paths = append(r.paths, paths...)
}

func (r *recordingInvalidator) Paths() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.paths...)
}

type stubUploader struct {
	url string
	err error
}

func (s stubUploader) Upload(context.Context, string, string, io.Reader) (string, error) {
	return s.url, s.err
}
