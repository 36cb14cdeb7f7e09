package generator

import (
	"testing"

	"github.com/DjordjeVuckovic/news-desk/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractJSON(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
		ok   bool
	}{
		{name: "bare object", raw: `{"a":1}`, want: `{"a":1}`, ok: true},
		{name: "prose around", raw: `Here is the JSON: {"a":1} Thanks`, want: `{"a":1}`, ok: true},
		{name: "code fence", raw: "```json\n{\"a\":{\"b\":2}}\n```", want: `{"a":{"b":2}}`, ok: true},
		{name: "no braces", raw: "nothing here"},
		{name: "reversed braces", raw: "} oops {"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ExtractJSON(tt.raw)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseArticle(t *testing.T) {
	got, ok := ParseArticle(`Here is the JSON: {"title":"T","excerpt":"E","content":"C","category":"ética","featured":true} Thanks`)

	require.True(t, ok)
	assert.Equal(t, "T", got.Title)
	assert.Equal(t, "ética", got.Category)
	require.NotNil(t, got.Featured)
	assert.True(t, *got.Featured)
}

func TestParseArticle_FallsBack(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{name: "plain prose", raw: "I cannot browse the web."},
		{name: "broken json", raw: `{"title": "T", "content": }`},
		{name: "object without article fields", raw: `{"foo":"bar"}`},
		{name: "empty", raw: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseArticle(tt.raw)

			assert.False(t, ok)
			require.NotNil(t, got)
			assert.Equal(t, domain.FallbackTitle, got.Title)
			assert.NotEmpty(t, got.Category)
			assert.NotEmpty(t, got.Content)
		})
	}
}
