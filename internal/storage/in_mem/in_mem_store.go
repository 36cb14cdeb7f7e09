package in_mem

import (
	"context"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/DjordjeVuckovic/news-desk/internal/domain"
	"github.com/DjordjeVuckovic/news-desk/internal/storage"
	"github.com/google/uuid"
)

type InMemStore struct {
	storageLock sync.RWMutex
	storage     map[uuid.UUID]domain.Article
	now         func() time.Time
}

func NewInMemStore() *InMemStore {
	return &InMemStore{
		storage: make(map[uuid.UUID]domain.Article),
		now:     func() time.Time { return time.Now().UTC() },
	}
}

func (s *InMemStore) Create(ctx context.Context, in domain.ArticleInput) (*domain.Article, error) {
	article := domain.NewArticle(in, uuid.New(), s.now())

	s.storageLock.Lock()
	defer s.storageLock.Unlock()
	s.storage[article.ID] = article

	slog.Debug("Saving article to in-memory storage", "title", article.Title, "id", article.ID)
	return &article, nil
}

func (s *InMemStore) CreateBulk(ctx context.Context, inputs []domain.ArticleInput) ([]domain.Article, error) {
	now := s.now()
	out := make([]domain.Article, 0, len(inputs))

	s.storageLock.Lock()
	defer s.storageLock.Unlock()
	for _, in := range inputs {
		a := domain.NewArticle(in, uuid.New(), now)
		s.storage[a.ID] = a
		out = append(out, a)
	}
	return out, nil
}

func (s *InMemStore) GetAll(ctx context.Context) ([]domain.Article, error) {
	s.storageLock.RLock()
	defer s.storageLock.RUnlock()

	articles := make([]domain.Article, 0, len(s.storage))
	for _, a := range s.storage {
		articles = append(articles, a)
	}
	sort.SliceStable(articles, func(i, j int) bool {
		return articles[i].CreatedAt.After(articles[j].CreatedAt)
	})
	return articles, nil
}

func (s *InMemStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Article, error) {
	s.storageLock.RLock()
	defer s.storageLock.RUnlock()

	a, ok := s.storage[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return &a, nil
}

func (s *InMemStore) Update(ctx context.Context, id uuid.UUID, patch domain.ArticlePatch) (*domain.Article, error) {
	s.storageLock.Lock()
	defer s.storageLock.Unlock()

	a, ok := s.storage[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	a = patch.Apply(a)
	s.storage[id] = a
	return &a, nil
}

func (s *InMemStore) Delete(ctx context.Context, id uuid.UUID) error {
	s.storageLock.Lock()
	defer s.storageLock.Unlock()

	delete(s.storage, id)
	return nil
}

// Healthy is always true; there is nothing to ping.
func (s *InMemStore) Healthy(ctx context.Context) bool {
	return true
}

var (
	_ storage.Store      = (*InMemStore)(nil)
	_ storage.BulkWriter = (*InMemStore)(nil)
)
