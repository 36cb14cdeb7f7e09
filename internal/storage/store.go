package storage

import (
	"context"
	"errors"

	"github.com/DjordjeVuckovic/news-desk/internal/domain"
	"github.com/google/uuid"
)

// Reader is the read side of the article store. It is the only interface
// handed to public routes, which may run on restricted credentials.
type Reader interface {
	// GetAll returns every article, newest first. No articles is an empty
	// slice, not an error.
	GetAll(ctx context.Context) ([]domain.Article, error)
	// GetByID returns ErrNotFound when no article has id.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Article, error)
}

type Writer interface {
	// Create assigns the id and creation time and returns the stored record.
	Create(ctx context.Context, in domain.ArticleInput) (*domain.Article, error)
	// Update overwrites the non-nil patch fields. ErrNotFound when id is unknown.
	Update(ctx context.Context, id uuid.UUID, patch domain.ArticlePatch) (*domain.Article, error)
	// Delete removes the article; deleting an unknown id is not an error.
	Delete(ctx context.Context, id uuid.UUID) error
}

type Store interface {
	Reader
	Writer
}

// BulkWriter is implemented by stores that can insert many articles in one
// round trip.
type BulkWriter interface {
	CreateBulk(ctx context.Context, inputs []domain.ArticleInput) ([]domain.Article, error)
}

type Type string

const (
	ES    Type = "es"
	PG    Type = "pg"
	InMem Type = "in_mem"
)

var ErrNotFound = errors.New("article not found")

// PersistenceError wraps a failed store operation.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return "store " + e.Op + ": " + e.Err.Error()
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

func NewPersistenceError(op string, err error) *PersistenceError {
	return &PersistenceError{Op: op, Err: err}
}

type StorerError string

const (
	ErrUnsupportedStorer StorerError = "unsupported storer type: %s"
)

func (e StorerError) Error() string {
	return string(e)
}
