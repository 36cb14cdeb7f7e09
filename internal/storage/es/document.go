package es

import (
	"fmt"
	"time"

	"github.com/DjordjeVuckovic/news-desk/internal/domain"
	"github.com/google/uuid"
)

// Document is the indexed form of an article.
type Document struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Excerpt   string    `json:"excerpt"`
	Content   string    `json:"content"`
	Category  string    `json:"category"`
	ImageURL  string    `json:"imageUrl"`
	SourceURL *string   `json:"sourceUrl"`
	Featured  bool      `json:"featured"`
	CreatedAt time.Time `json:"createdAt"`
}

func toDocument(a domain.Article) Document {
	return Document{
		ID:        a.ID.String(),
		Title:     a.Title,
		Excerpt:   a.Excerpt,
		Content:   a.Content,
		Category:  a.Category,
		ImageURL:  a.ImageURL,
		SourceURL: a.SourceURL,
		Featured:  a.Featured,
		CreatedAt: a.CreatedAt,
	}
}

func (d Document) toArticle() (domain.Article, error) {
	id, err := uuid.Parse(d.ID)
	if err != nil {
		return domain.Article{}, fmt.Errorf("invalid document id %q: %w", d.ID, err)
	}
	return domain.Article{
		ID:        id,
		Title:     d.Title,
		Excerpt:   d.Excerpt,
		Content:   d.Content,
		Category:  d.Category,
		ImageURL:  d.ImageURL,
		SourceURL: d.SourceURL,
		Featured:  d.Featured,
		CreatedAt: d.CreatedAt,
	}, nil
}

// patchDocument holds only the fields an update touches.
func patchDocument(p domain.ArticlePatch) map[string]any {
	doc := make(map[string]any)
	if p.Title != nil {
		doc["title"] = *p.Title
	}
	if p.Excerpt != nil {
		doc["excerpt"] = *p.Excerpt
	}
	if p.Content != nil {
		doc["content"] = *p.Content
	}
	if p.Category != nil {
		doc["category"] = *p.Category
	}
	if p.ImageURL != nil {
		doc["imageUrl"] = *p.ImageURL
	}
	if p.SourceURL != nil {
		doc["sourceUrl"] = *p.SourceURL
	}
	if p.Featured != nil {
		doc["featured"] = *p.Featured
	}
	return doc
}
