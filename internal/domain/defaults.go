package domain

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

const (
	// DefaultImageURL is served when an article has no image or the upload failed.
	DefaultImageURL = "https://picsum.photos/800/600"
	DefaultCategory = "IA"

	ExcerptMaxLength = 150

	FallbackTitle   = "Error al formatear respuesta"
	FallbackExcerpt = "Contenido generado por IA, pero en formato incorrecto"
)

var tagPattern = regexp.MustCompile(`<[^>]*>`)

func ImageURLOrDefault(imageURL string) string {
	if strings.TrimSpace(imageURL) == "" {
		return DefaultImageURL
	}
	return imageURL
}

func CategoryOrDefault(category string) string {
	if strings.TrimSpace(category) == "" {
		return DefaultCategory
	}
	return category
}

// DefaultExcerpt derives a plain-text summary from content, cut at
// ExcerptMaxLength runes.
func DefaultExcerpt(content string) string {
	text := strings.Join(strings.Fields(tagPattern.ReplaceAllString(content, " ")), " ")
	if utf8.RuneCountInString(text) <= ExcerptMaxLength {
		return text
	}
	runes := []rune(text)
	return strings.TrimSpace(string(runes[:ExcerptMaxLength-3])) + "..."
}

// FallbackArticle wraps model output that could not be parsed, so the raw
// text is kept instead of failing the request.
func FallbackArticle(raw string) *GeneratedArticle {
	content := strings.TrimSpace(raw)
	if content == "" {
		content = FallbackExcerpt
	}
	return &GeneratedArticle{
		Title:    FallbackTitle,
		Excerpt:  FallbackExcerpt,
		Content:  content,
		Category: DefaultCategory,
	}
}

// FromGenerated merges generator output with the defaults for the fields the
// model does not guarantee.
func FromGenerated(gen GeneratedArticle, sourceURL string) ArticleInput {
	in := ArticleInput{
		Title:    strings.TrimSpace(gen.Title),
		Excerpt:  strings.TrimSpace(gen.Excerpt),
		Content:  strings.TrimSpace(gen.Content),
		Category: CategoryOrDefault(gen.Category),
		ImageURL: ImageURLOrDefault(gen.ImageURL),
		Featured: gen.Featured != nil && *gen.Featured,
	}
	if in.Title == "" {
		in.Title = FallbackTitle
	}
	if in.Excerpt == "" {
		in.Excerpt = DefaultExcerpt(in.Content)
	}
	if in.Content == "" {
		in.Content = in.Excerpt
	}
	if sourceURL != "" {
		src := sourceURL
		in.SourceURL = &src
	}
	return in
}
