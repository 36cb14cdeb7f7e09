package domain

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestImageURLOrDefault(t *testing.T) {
	assert.Equal(t, DefaultImageURL, ImageURLOrDefault(""))
	assert.Equal(t, DefaultImageURL, ImageURLOrDefault("   "))
	assert.Equal(t, "http://x/i.png", ImageURLOrDefault("http://x/i.png"))
}

func TestDefaultExcerpt(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{name: "short plain text", content: "Hola mundo", want: "Hola mundo"},
		{name: "strips tags", content: "<p>Uno</p><p>Dos</p>", want: "Uno Dos"},
		{name: "empty", content: "", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DefaultExcerpt(tt.content))
		})
	}
}

func TestDefaultExcerpt_Truncates(t *testing.T) {
	excerpt := DefaultExcerpt(strings.Repeat("á", 400))

	assert.Equal(t, ExcerptMaxLength, len([]rune(excerpt)))
	assert.True(t, strings.HasSuffix(excerpt, "..."))
}

func TestFallbackArticle(t *testing.T) {
	gen := FallbackArticle("not json at all")

	assert.Equal(t, FallbackTitle, gen.Title)
	assert.Equal(t, DefaultCategory, gen.Category)
	assert.Equal(t, "not json at all", gen.Content)
	assert.NotEmpty(t, gen.Excerpt)
}

func TestFallbackArticle_EmptyRaw(t *testing.T) {
	gen := FallbackArticle("  ")

	assert.NotEmpty(t, gen.Title)
	assert.NotEmpty(t, gen.Category)
	assert.NotEmpty(t, gen.Content)
}

func TestFromGenerated(t *testing.T) {
	in := FromGenerated(GeneratedArticle{
		Title:    " T ",
		Excerpt:  "E",
		Content:  "C",
		Category: "tecnología",
	}, "https://example.com/a")

	assert.Equal(t, "T", in.Title)
	assert.Equal(t, "E", in.Excerpt)
	assert.Equal(t, DefaultImageURL, in.ImageURL)
	assert.False(t, in.Featured)
	require.NotNil(t, in.SourceURL)
	assert.Equal(t, "https://example.com/a", *in.SourceURL)
}

func TestFromGenerated_FillsMissingFields(t *testing.T) {
	featured := true
	in := FromGenerated(GeneratedArticle{Content: "<p>Cuerpo</p>", Featured: &featured}, "")

	assert.Equal(t, FallbackTitle, in.Title)
	assert.Equal(t, "Cuerpo", in.Excerpt)
	assert.Equal(t, DefaultCategory, in.Category)
	assert.True(t, in.Featured)
	assert.Nil(t, in.SourceURL)
}

func TestArticlePatch_Apply(t *testing.T) {
	title := "new"
	featured := true
	a := Article{Title: "old", Excerpt: "e", Featured: false}

	got := ArticlePatch{Title: &title, Featured: &featured}.Apply(a)

	assert.Equal(t, "new", got.Title)
	assert.Equal(t, "e", got.Excerpt)
	assert.True(t, got.Featured)
	assert.True(t, ArticlePatch{}.IsEmpty())
	assert.False(t, ArticlePatch{Title: &title}.IsEmpty())
}
