package es

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/DjordjeVuckovic/news-desk/internal/domain"
	"github.com/DjordjeVuckovic/news-desk/internal/storage"
	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esutil"
	"github.com/elastic/go-elasticsearch/v8/typedapi/types"
	"github.com/elastic/go-elasticsearch/v8/typedapi/types/enums/refresh"
	"github.com/elastic/go-elasticsearch/v8/typedapi/types/enums/sortorder"
	"github.com/google/uuid"
)

// defaultPageSize is the search_after page used by GetAll.
const defaultPageSize = 1000

type Store struct {
	client    *elasticsearch.TypedClient
	indexName string
	pageSize  int
	now       func() time.Time
}

func NewStore(ctx context.Context, config ClientConfig) (*Store, error) {
	client, err := newClient(config)
	if err != nil {
		return nil, fmt.Errorf("failed to create Elasticsearch client: %w", err)
	}

	s := &Store{
		client:    client,
		indexName: config.IndexName,
		pageSize:  defaultPageSize,
		now:       func() time.Time { return time.Now().UTC() },
	}

	if err := s.EnsureIndex(ctx); err != nil {
		return nil, fmt.Errorf("failed to ensure index exists: %w", err)
	}

	return s, nil
}

func (s *Store) Create(ctx context.Context, in domain.ArticleInput) (*domain.Article, error) {
	article := domain.NewArticle(in, uuid.New(), s.now())
	doc := toDocument(article)

	res, err := s.client.Index(s.indexName).
		Id(doc.ID).
		Document(doc).
		Refresh(refresh.Waitfor).
		Do(ctx)
	if err != nil {
		return nil, storage.NewPersistenceError("create", fmt.Errorf("failed to index document: %w", err))
	}

	slog.Debug("Document indexed", "id", doc.ID, "index", s.indexName, "result", res.Result)
	return &article, nil
}

// GetAll pages through the whole index with search_after, newest first. The
// id keyword breaks ties between articles created in the same instant.
func (s *Store) GetAll(ctx context.Context) ([]domain.Article, error) {
	desc := sortorder.Desc
	articles := make([]domain.Article, 0)
	var after []types.FieldValue

	for {
		req := s.client.Search().
			Index(s.indexName).
			Query(&types.Query{MatchAll: &types.MatchAllQuery{}}).
			Sort(
				&types.SortOptions{SortOptions: map[string]types.FieldSort{"createdAt": {Order: &desc}}},
				&types.SortOptions{SortOptions: map[string]types.FieldSort{"id": {Order: &desc}}},
			).
			Size(s.pageSize)
		if after != nil {
			req = req.SearchAfter(after...)
		}

		res, err := req.Do(ctx)
		if err != nil {
			return nil, storage.NewPersistenceError("get all", fmt.Errorf("failed to execute search: %w", err))
		}

		for _, hit := range res.Hits.Hits {
			var doc Document
			if err := json.Unmarshal(hit.Source_, &doc); err != nil {
				return nil, storage.NewPersistenceError("get all", fmt.Errorf("failed to decode document: %w", err))
			}
			a, err := doc.toArticle()
			if err != nil {
				return nil, storage.NewPersistenceError("get all", err)
			}
			articles = append(articles, a)
		}

		hits := res.Hits.Hits
		if len(hits) < s.pageSize || len(hits[len(hits)-1].Sort) == 0 {
			return articles, nil
		}
		after = hits[len(hits)-1].Sort
	}
}

func (s *Store) GetByID(ctx context.Context, id uuid.UUID) (*domain.Article, error) {
	res, err := s.client.Get(s.indexName, id.String()).Do(ctx)
	if isNotFound(err) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, storage.NewPersistenceError("get by id", fmt.Errorf("failed to get document: %w", err))
	}
	if !res.Found {
		return nil, storage.ErrNotFound
	}

	var doc Document
	if err := json.Unmarshal(res.Source_, &doc); err != nil {
		return nil, storage.NewPersistenceError("get by id", fmt.Errorf("failed to decode document: %w", err))
	}
	a, err := doc.toArticle()
	if err != nil {
		return nil, storage.NewPersistenceError("get by id", err)
	}
	return &a, nil
}

func (s *Store) Update(ctx context.Context, id uuid.UUID, patch domain.ArticlePatch) (*domain.Article, error) {
	if patch.IsEmpty() {
		return s.GetByID(ctx, id)
	}

	_, err := s.client.Update(s.indexName, id.String()).
		Doc(patchDocument(patch)).
		Refresh(refresh.Waitfor).
		Do(ctx)
	if isNotFound(err) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, storage.NewPersistenceError("update", fmt.Errorf("failed to update document: %w", err))
	}

	return s.GetByID(ctx, id)
}

func (s *Store) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := s.client.Delete(s.indexName, id.String()).
		Refresh(refresh.Waitfor).
		Do(ctx)
	if err != nil && !isNotFound(err) {
		return storage.NewPersistenceError("delete", fmt.Errorf("failed to delete document: %w", err))
	}
	return nil
}

// CreateBulk indexes many articles in one pass. It reports the articles
// that were indexed; any failure makes the whole call return an error.
func (s *Store) CreateBulk(ctx context.Context, inputs []domain.ArticleInput) ([]domain.Article, error) {
	if len(inputs) == 0 {
		return nil, nil
	}

	bi, err := esutil.NewBulkIndexer(esutil.BulkIndexerConfig{
		Index:         s.indexName,
		Client:        s.client,
		NumWorkers:    2,
		FlushBytes:    5e+6,
		FlushInterval: 5 * time.Second,
		Refresh:       "wait_for",
	})
	if err != nil {
		return nil, storage.NewPersistenceError("create bulk", fmt.Errorf("failed to create bulk indexer: %w", err))
	}

	articles := make([]domain.Article, 0, len(inputs))
	var failed int
	now := s.now()

	for _, in := range inputs {
		article := domain.NewArticle(in, uuid.New(), now)
		docBytes, err := json.Marshal(toDocument(article))
		if err != nil {
			failed++
			continue
		}

		err = bi.Add(ctx, esutil.BulkIndexerItem{
			Action:     "index",
			DocumentID: article.ID.String(),
			Body:       bytes.NewReader(docBytes),
			OnFailure: func(ctx context.Context, item esutil.BulkIndexerItem, res esutil.BulkIndexerResponseItem, err error) {
				if err != nil {
					slog.Error("Bulk index error", "error", err, "id", item.DocumentID)
				} else {
					slog.Error("Bulk index error", "status", res.Status, "reason", res.Error.Reason, "id", item.DocumentID)
				}
			},
		})
		if err != nil {
			failed++
			slog.Error("Failed to add document to bulk indexer", "error", err, "id", article.ID)
			continue
		}
		articles = append(articles, article)
	}

	if err := bi.Close(ctx); err != nil {
		return nil, storage.NewPersistenceError("create bulk", fmt.Errorf("failed to close bulk indexer: %w", err))
	}

	stats := bi.Stats()
	failed += int(stats.NumFailed)
	slog.Info("Bulk indexing completed", "indexed", stats.NumIndexed, "failed", failed, "index", s.indexName)

	if failed > 0 {
		return nil, storage.NewPersistenceError("create bulk", fmt.Errorf("failed to index %d out of %d articles", failed, len(inputs)))
	}
	return articles, nil
}

func (s *Store) Healthy(ctx context.Context) bool {
	ok, err := s.client.Ping().Do(ctx)
	return err == nil && ok
}

func (s *Store) EnsureIndex(ctx context.Context) error {
	exists, err := s.client.Indices.Exists(s.indexName).Do(ctx)
	if err != nil {
		return fmt.Errorf("failed to check if index exists: %w", err)
	}

	if exists {
		slog.Info("Index already exists", "index", s.indexName)
		return nil
	}

	settings := types.IndexSettings{
		Analysis: &types.IndexSettingsAnalysis{
			Analyzer: map[string]types.Analyzer{
				"news_analyzer": types.StandardAnalyzer{
					Stopwords: []string{"_spanish_"},
				},
			},
		},
	}

	notIndexed := types.NewKeywordProperty()
	index := false
	notIndexed.Index = &index

	mappings := types.TypeMapping{
		Properties: map[string]types.Property{
			"id":        types.NewKeywordProperty(),
			"title":     textWithKeyword("news_analyzer"),
			"excerpt":   text("news_analyzer"),
			"content":   text("news_analyzer"),
			"category":  types.NewKeywordProperty(),
			"imageUrl":  notIndexed,
			"sourceUrl": types.NewKeywordProperty(),
			"featured":  types.NewBooleanProperty(),
			"createdAt": types.NewDateProperty(),
		},
	}

	createRes, err := s.client.Indices.Create(s.indexName).
		Settings(&settings).
		Mappings(&mappings).
		Do(ctx)
	if err != nil {
		return fmt.Errorf("failed to create index: %w", err)
	}

	if !createRes.Acknowledged {
		return fmt.Errorf("index creation was not acknowledged")
	}

	slog.Info("Index created successfully", "index", s.indexName)
	return nil
}

func text(analyzer string) types.Property {
	p := types.NewTextProperty()
	p.Analyzer = &analyzer
	return p
}

func textWithKeyword(analyzer string) types.Property {
	p := types.NewTextProperty()
	p.Analyzer = &analyzer
	p.Fields = map[string]types.Property{
		"keyword": types.NewKeywordProperty(),
	}
	return p
}

func isNotFound(err error) bool {
	var esErr *types.ElasticsearchError
	return errors.As(err, &esErr) && esErr.Status == http.StatusNotFound
}

var (
	_ storage.Store      = (*Store)(nil)
	_ storage.BulkWriter = (*Store)(nil)
)
