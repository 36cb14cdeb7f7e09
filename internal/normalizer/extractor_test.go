package normalizer

import (
	"bytes"
	"mime/multipart"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func multipartBody(t *testing.T, fields map[string]string, file bool) ([]byte, string) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	if file {
		fw, err := w.CreateFormFile("image", "photo.png")
		require.NoError(t, err)
		_, err = fw.Write([]byte("\x89PNG"))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	return buf.Bytes(), w.FormDataContentType()
}

func TestExtractors(t *testing.T) {
	tests := []struct {
		name    string
		extract func(Input) (map[string]any, bool)
		in      Input
		want    map[string]any
		ok      bool
	}{
		{
			name:    "json object",
			extract: extractJSONObject,
			in:      Input{Body: []byte(` {"a":"b"} `)},
			want:    map[string]any{"a": "b"},
			ok:      true,
		},
		{
			name:    "json object rejects empty",
			extract: extractJSONObject,
			in:      Input{Body: []byte(`{}`)},
		},
		{
			name:    "json object rejects arrays",
			extract: extractJSONObject,
			in:      Input{Body: []byte(`[1,2]`)},
		},
		{
			name:    "json string",
			extract: extractJSONString,
			in:      Input{Body: []byte(`"{\"a\":\"b\"}"`)},
			want:    map[string]any{"a": "b"},
			ok:      true,
		},
		{
			name:    "json string with plain text",
			extract: extractJSONString,
			in:      Input{Body: []byte(`"hello"`)},
		},
		{
			name:    "form skips valid json",
			extract: extractForm,
			in:      Input{Body: []byte(`{}`)},
		},
		{
			name:    "form declared",
			extract: extractForm,
			in:      Input{Body: []byte(`a=b&a=c`), ContentType: "application/x-www-form-urlencoded"},
			want:    map[string]any{"a": "b"},
			ok:      true,
		},
		{
			name:    "query",
			extract: extractQuery,
			in:      Input{Query: url.Values{"a": {"b"}}},
			want:    map[string]any{"a": "b"},
			ok:      true,
		},
		{
			name:    "query empty",
			extract: extractQuery,
			in:      Input{Query: url.Values{}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := tt.extract(tt.in)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestExtractMultipart(t *testing.T) {
	body, ct := multipartBody(t, map[string]string{"title": "T", "content": "C"}, true)

	got, ok := extractMultipart(Input{Body: body, ContentType: ct})
	require.True(t, ok)
	assert.Equal(t, map[string]any{"title": "T", "content": "C"}, got)

	_, ok = extractMultipart(Input{Body: body, ContentType: "multipart/form-data"})
	assert.False(t, ok, "missing boundary")

	_, ok = extractMultipart(Input{Body: body})
	assert.False(t, ok, "undeclared content type")

	_, ok = extractForm(Input{Body: body, ContentType: ct})
	assert.False(t, ok, "form extractor must not parse multipart bytes")
}

func TestNormalize_Multipart(t *testing.T) {
	body, ct := multipartBody(t, map[string]string{
		"title": "T", "excerpt": "E", "category": "C", "image_url": "I", "content": "X",
	}, false)

	in, err := New().Normalize(Input{Body: body, ContentType: ct})
	require.NoError(t, err)
	assert.Equal(t, "T", in.Title)
	assert.Equal(t, "I", in.ImageURL)
	assert.Equal(t, "X", in.Content)
}

func TestUnwrapNested(t *testing.T) {
	data := map[string]any{
		"b": `{"x":"2"}`,
		"a": `{"x":"1"}`,
		"c": "plain",
	}

	got, key := unwrapNested(data)

	assert.Equal(t, "a", key)
	assert.Equal(t, map[string]any{"x": "1"}, got)
}

func TestUnwrapNested_InvalidJSONKeepsPayload(t *testing.T) {
	data := map[string]any{"a": "{not json}"}

	got, key := unwrapNested(data)

	assert.Empty(t, key)
	assert.Equal(t, data, got)
}
