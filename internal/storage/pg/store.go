package pg

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/DjordjeVuckovic/news-desk/internal/domain"
	"github.com/DjordjeVuckovic/news-desk/internal/storage"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// DB is the part of pgxpool.Pool the store uses.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	CopyFrom(ctx context.Context, tableName pgx.Identifier, columnNames []string, rowSrc pgx.CopyFromSource) (int64, error)
}

const columns = `id, title, excerpt, content, category, image_url, source_url, featured, created_at`

type Store struct {
	db  DB
	now func() time.Time
}

func NewStore(pool *ConnectionPool) *Store {
	return NewStoreWithDB(pool.GetConn())
}

func NewStoreWithDB(db DB) *Store {
	return &Store{
		db:  db,
		now: func() time.Time { return time.Now().UTC() },
	}
}

func (s *Store) Create(ctx context.Context, in domain.ArticleInput) (*domain.Article, error) {
	article := domain.NewArticle(in, uuid.New(), s.now())

	cmd := `
		INSERT INTO news (` + columns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING ` + columns

	stored, err := scanArticle(s.db.QueryRow(
		ctx,
		cmd,
		article.ID.String(),
		article.Title,
		article.Excerpt,
		article.Content,
		article.Category,
		article.ImageURL,
		article.SourceURL,
		article.Featured,
		article.CreatedAt,
	))
	if err != nil {
		return nil, storage.NewPersistenceError("create", fmt.Errorf("failed to insert article: %w", err))
	}

	slog.Debug("Article inserted", "id", stored.ID)
	return stored, nil
}

func (s *Store) GetAll(ctx context.Context) ([]domain.Article, error) {
	rows, err := s.db.Query(ctx, `SELECT `+columns+` FROM news ORDER BY created_at DESC`)
	if err != nil {
		return nil, storage.NewPersistenceError("get all", fmt.Errorf("failed to query articles: %w", err))
	}
	defer rows.Close()

	articles := make([]domain.Article, 0)
	for rows.Next() {
		a, err := scanArticle(rows)
		if err != nil {
			return nil, storage.NewPersistenceError("get all", fmt.Errorf("failed to scan article: %w", err))
		}
		articles = append(articles, *a)
	}

	if err := rows.Err(); err != nil {
		return nil, storage.NewPersistenceError("get all", fmt.Errorf("error iterating rows: %w", err))
	}

	return articles, nil
}

func (s *Store) GetByID(ctx context.Context, id uuid.UUID) (*domain.Article, error) {
	a, err := scanArticle(s.db.QueryRow(ctx, `SELECT `+columns+` FROM news WHERE id = $1`, id.String()))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, storage.NewPersistenceError("get by id", fmt.Errorf("failed to query article: %w", err))
	}
	return a, nil
}

func (s *Store) Update(ctx context.Context, id uuid.UUID, patch domain.ArticlePatch) (*domain.Article, error) {
	if patch.IsEmpty() {
		return s.GetByID(ctx, id)
	}

	set, args := updateClause(patch)
	args = append([]any{id.String()}, args...)
	cmd := `UPDATE news SET ` + set + ` WHERE id = $1 RETURNING ` + columns

	a, err := scanArticle(s.db.QueryRow(ctx, cmd, args...))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, storage.NewPersistenceError("update", fmt.Errorf("failed to update article: %w", err))
	}
	return a, nil
}

func (s *Store) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := s.db.Exec(ctx, `DELETE FROM news WHERE id = $1`, id.String())
	if err != nil {
		return storage.NewPersistenceError("delete", fmt.Errorf("failed to delete article: %w", err))
	}
	slog.Debug("Article deleted", "id", id, "rows", tag.RowsAffected())
	return nil
}

func (s *Store) CreateBulk(ctx context.Context, inputs []domain.ArticleInput) ([]domain.Article, error) {
	if len(inputs) == 0 {
		return nil, nil
	}

	now := s.now()
	articles := make([]domain.Article, len(inputs))
	rows := make([][]any, len(inputs))
	for i, in := range inputs {
		a := domain.NewArticle(in, uuid.New(), now)
		articles[i] = a
		rows[i] = []any{a.ID.String(), a.Title, a.Excerpt, a.Content, a.Category, a.ImageURL, a.SourceURL, a.Featured, a.CreatedAt}
	}

	n, err := s.db.CopyFrom(
		ctx,
		pgx.Identifier{"news"},
		strings.Split(strings.ReplaceAll(columns, " ", ""), ","),
		pgx.CopyFromRows(rows),
	)
	if err != nil {
		return nil, storage.NewPersistenceError("create bulk", fmt.Errorf("failed to bulk insert articles: %w", err))
	}

	slog.Info("Bulk insert completed", "rows", n)
	return articles, nil
}

// updateClause renders "col = $n" pairs starting at $2; $1 is the id.
func updateClause(p domain.ArticlePatch) (string, []any) {
	var (
		sets []string
		args []any
	)
	add := func(col string, v any) {
		args = append(args, v)
		sets = append(sets, col+" = $"+strconv.Itoa(len(args)+1))
	}

	if p.Title != nil {
		add("title", *p.Title)
	}
	if p.Excerpt != nil {
		add("excerpt", *p.Excerpt)
	}
	if p.Content != nil {
		add("content", *p.Content)
	}
	if p.Category != nil {
		add("category", *p.Category)
	}
	if p.ImageURL != nil {
		add("image_url", *p.ImageURL)
	}
	if p.SourceURL != nil {
		add("source_url", *p.SourceURL)
	}
	if p.Featured != nil {
		add("featured", *p.Featured)
	}
	return strings.Join(sets, ", "), args
}

// scanArticle reads one row in column order. The id is scanned as text.
func scanArticle(row pgx.Row) (*domain.Article, error) {
	var (
		a  domain.Article
		id string
	)
	if err := row.Scan(
		&id,
		&a.Title,
		&a.Excerpt,
		&a.Content,
		&a.Category,
		&a.ImageURL,
		&a.SourceURL,
		&a.Featured,
		&a.CreatedAt,
	); err != nil {
		return nil, err
	}

	parsed, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("invalid article id %q: %w", id, err)
	}
	a.ID = parsed
	return &a, nil
}

var (
	_ storage.Store      = (*Store)(nil)
	_ storage.BulkWriter = (*Store)(nil)
)
