package domain

import (
	"time"

	"github.com/google/uuid"
)

type Article struct {
	ID        uuid.UUID `json:"id"`
	Title     string    `json:"title"`
	Excerpt   string    `json:"excerpt"`
	Content   string    `json:"content"`
	Category  string    `json:"category"`
	ImageURL  string    `json:"imageUrl"`
	SourceURL *string   `json:"sourceUrl"`
	Featured  bool      `json:"featured"`
	CreatedAt time.Time `json:"createdAt"`
}

// ArticleInput is the canonical create payload. Required fields are checked
// by the normalizer, not by the store.
type ArticleInput struct {
	Title     string  `json:"title" validate:"required"`
	Excerpt   string  `json:"excerpt" validate:"required"`
	Category  string  `json:"category" validate:"required"`
	ImageURL  string  `json:"imageUrl" validate:"required"`
	Content   string  `json:"content" validate:"required"`
	SourceURL *string `json:"sourceUrl,omitempty"`
	Featured  bool    `json:"featured"`
}

// RequiredFields lists the create payload fields in the order they are reported.
var RequiredFields = []string{"title", "excerpt", "category", "imageUrl", "content"}

// ArticlePatch overwrites only the non-nil fields.
type ArticlePatch struct {
	Title     *string `json:"title,omitempty"`
	Excerpt   *string `json:"excerpt,omitempty"`
	Content   *string `json:"content,omitempty"`
	Category  *string `json:"category,omitempty"`
	ImageURL  *string `json:"imageUrl,omitempty"`
	SourceURL *string `json:"sourceUrl,omitempty"`
	Featured  *bool   `json:"featured,omitempty"`
}

func (p ArticlePatch) IsEmpty() bool {
	return p.Title == nil && p.Excerpt == nil && p.Content == nil && p.Category == nil &&
		p.ImageURL == nil && p.SourceURL == nil && p.Featured == nil
}

// Apply returns a copy of a with the patch fields written over it.
func (p ArticlePatch) Apply(a Article) Article {
	if p.Title != nil {
		a.Title = *p.Title
	}
	if p.Excerpt != nil {
		a.Excerpt = *p.Excerpt
	}
	if p.Content != nil {
		a.Content = *p.Content
	}
	if p.Category != nil {
		a.Category = *p.Category
	}
	if p.ImageURL != nil {
		a.ImageURL = *p.ImageURL
	}
	if p.SourceURL != nil {
		a.SourceURL = p.SourceURL
	}
	if p.Featured != nil {
		a.Featured = *p.Featured
	}
	return a
}

// NewArticle builds the record the store persists for in.
func NewArticle(in ArticleInput, id uuid.UUID, createdAt time.Time) Article {
	return Article{
		ID:        id,
		Title:     in.Title,
		Excerpt:   in.Excerpt,
		Content:   in.Content,
		Category:  in.Category,
		ImageURL:  in.ImageURL,
		SourceURL: in.SourceURL,
		Featured:  in.Featured,
		CreatedAt: createdAt,
	}
}

// GeneratedArticle is what the language model is asked to return.
// ImageURL and Featured are not guaranteed and get defaulted downstream.
type GeneratedArticle struct {
	Title    string `json:"title" description:"Attractive, concise headline" schema:"required"`
	Excerpt  string `json:"excerpt" description:"Short summary, at most 150 characters" schema:"required,maxLength=150"`
	Content  string `json:"content" description:"Full article body, 3-4 paragraphs of HTML with <p></p> tags" schema:"required"`
	Category string `json:"category" description:"Article category" schema:"required,enum=tecnología|inteligencia artificial|machine learning|robótica|ética"`
	ImageURL string `json:"imageUrl,omitempty" description:"Header image URL"`
	Featured *bool  `json:"featured,omitempty" description:"Whether the article is featured"`
}
