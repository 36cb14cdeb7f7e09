package collector

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(p, []byte(content), 0o600))
	return p
}

func drain(t *testing.T, c Collector[map[string]any]) (items []map[string]any, errs int) {
	t.Helper()
	ch, err := c.Collect(context.Background())
	require.NoError(t, err)
	for r := range ch {
		if r.Err != nil {
			errs++
			continue
		}
		items = append(items, r.Result)
	}
	return items, errs
}

func TestJSONFileCollector(t *testing.T) {
	arr := writeFile(t, "a.json", `[{"title":"a"},{"title":"b"},3]`)
	obj := writeFile(t, "b.json", `{"title":"c"}`)
	nd := writeFile(t, "c.ndjson", "{\"title\":\"d\"}\n\nnot json\n{\"title\":\"e\"}\n")

	items, errs := drain(t, NewJSONFileCollector(arr, obj, nd))

	titles := make([]string, 0, len(items))
	for _, it := range items {
		titles = append(titles, it["title"].(string))
	}
	assert.Equal(t, []string{"a", "b", "c", "d", "e"}, titles)
	assert.Equal(t, 2, errs)
}

func TestJSONFileCollector_BrokenDocument(t *testing.T) {
	p := writeFile(t, "x.json", `{"title":`)
	items, errs := drain(t, NewJSONFileCollector(p))
	assert.Empty(t, items)
	assert.Equal(t, 1, errs)
}

func TestJSONFileCollector_MissingFile(t *testing.T) {
	_, err := NewJSONFileCollector(filepath.Join(t.TempDir(), "nope.json")).Collect(context.Background())
	assert.Error(t, err)
}
