package ingest

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/DjordjeVuckovic/news-desk/internal/domain"
	"github.com/DjordjeVuckovic/news-desk/internal/normalizer"
	"github.com/DjordjeVuckovic/news-desk/internal/storage/in_mem"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func writeBatch(t *testing.T, content string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "batch.yaml")
	require.NoError(t, os.WriteFile(p, []byte(content), 0o600))
	return p
}

func TestLoadBatchFile(t *testing.T) {
	p := writeBatch(t, `
kind: ArticleBatch
version: v1
items:
  - url: https://example.com/a
  - url: https://example.com/b
    featured: true
`)
	bf, err := LoadBatchFile(p)
	require.NoError(t, err)
	assert.Equal(t, defaultConcurrency, bf.Concurrency)
	require.Len(t, bf.Items, 2)
	assert.True(t, bf.Items[1].Featured)
}

func TestLoadBatchFile_Invalid(t *testing.T) {
	cases := map[string]string{
		"wrong kind": "kind: Other\nitems:\n  - url: https://example.com\n",
		"no items":   "kind: ArticleBatch\n",
		"bad url":    "items:\n  - url: example.com\n",
		"bad yaml":   "items: [",
	}
	for name, content := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := LoadBatchFile(writeBatch(t, content))
			assert.Error(t, err)
		})
	}
}

func TestRunBatch(t *testing.T) {
	gen := &mockGenerator{}
	gen.On("Generate", mock.Anything, "https://example.com/a").
		Return(&domain.GeneratedArticle{Title: "A", Excerpt: "E", Content: "C"}, nil)
	gen.On("Generate", mock.Anything, "https://example.com/b").
		Return(&domain.GeneratedArticle{Title: "B", Excerpt: "E", Content: "C"}, nil)
	gen.On("Generate", mock.Anything, "https://example.com/c").
		Return(nil, errors.New("upstream down"))

	store := in_mem.NewInMemStore()
	svc := NewService(normalizer.New(), gen, store)

	outcomes := svc.RunBatch(context.Background(), &BatchFile{
		Concurrency: 2,
		Items: []BatchItem{
			{URL: "https://example.com/a"},
			{URL: "https://example.com/b", Featured: true},
			{URL: "https://example.com/c"},
		},
	})

	require.Len(t, outcomes, 3)
	assert.NoError(t, outcomes[0].Err)
	assert.True(t, outcomes[0].Result.Stored)
	assert.False(t, outcomes[0].Result.Article.Featured)
	assert.True(t, outcomes[1].Result.Article.Featured)
	assert.EqualError(t, outcomes[2].Err, "upstream down")

	all, err := store.GetAll(context.Background())
	require.NoError(t, err)
	assert.Len(t, all, 2)
}
