package es

import (
	"testing"
	"time"

	"github.com/DjordjeVuckovic/news-desk/internal/domain"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDocumentRoundTrip(t *testing.T) {
	src := "https://example.com/a"
	a := domain.Article{
		ID:        uuid.New(),
		Title:     "T",
		Excerpt:   "E",
		Content:   "C",
		Category:  "tech",
		ImageURL:  "http://x/i.png",
		SourceURL: &src,
		Featured:  true,
		CreatedAt: time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC),
	}

	got, err := toDocument(a).toArticle()
	require.NoError(t, err)
	assert.Equal(t, a, got)
}

func TestDocument_InvalidID(t *testing.T) {
	_, err := Document{ID: "not-a-uuid"}.toArticle()
	assert.Error(t, err)
}

func TestPatchDocument(t *testing.T) {
	image := "https://cdn/x.png"
	featured := false

	doc := patchDocument(domain.ArticlePatch{ImageURL: &image, Featured: &featured})

	assert.Equal(t, map[string]any{"imageUrl": image, "featured": false}, doc)
	assert.Empty(t, patchDocument(domain.ArticlePatch{}))
}
