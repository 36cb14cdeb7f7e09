package generator

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/DjordjeVuckovic/news-desk/internal/generator/openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func chatServer(t *testing.T, content string, status int) (*httptest.Server, *openai.ChatRequest) {
	t.Helper()
	var captured openai.ChatRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&captured))
		if status != http.StatusOK {
			w.WriteHeader(status)
			_, _ = w.Write([]byte(`{"error":{"message":"Rate limit reached"}}`))
			return
		}
		writeJSON(w, map[string]any{
			"id": "chatcmpl-1",
			"choices": []any{
				map[string]any{"index": 0, "message": map[string]any{"role": "assistant", "content": content}},
			},
		})
	}))
	t.Cleanup(srv.Close)
	return srv, &captured
}

func TestChat_Generate(t *testing.T) {
	srv, req := chatServer(t, articleJSON, http.StatusOK)
	client, err := openai.NewClient(srv.URL, "sk-test")
	require.NoError(t, err)

	got, err := NewChat(client, WithModel("gpt-test")).Generate(context.Background(), "https://example.com/a")
	require.NoError(t, err)

	assert.Equal(t, "Robots que aprenden", got.Title)
	assert.Equal(t, "gpt-test", req.Model)
	require.NotNil(t, req.ResponseFormat)
	assert.Equal(t, "json_schema", req.ResponseFormat.Type)
	require.NotNil(t, req.ResponseFormat.JSONSchema)

	var schemaDoc map[string]any
	require.NoError(t, json.Unmarshal(req.ResponseFormat.JSONSchema.Schema, &schemaDoc))
	assert.Equal(t, "object", schemaDoc["type"])
	assert.NotContains(t, schemaDoc, "$schema")
	assert.ElementsMatch(t, []any{"title", "excerpt", "content", "category"}, schemaDoc["required"])
}

func TestChat_EmptyResponse(t *testing.T) {
	srv, _ := chatServer(t, "  ", http.StatusOK)
	client, err := openai.NewClient(srv.URL, "sk-test")
	require.NoError(t, err)

	_, err = NewChat(client).Generate(context.Background(), "https://example.com/a")
	assert.ErrorIs(t, err, ErrEmptyResponse)
}

func TestChat_Upstream(t *testing.T) {
	srv, _ := chatServer(t, "", http.StatusTooManyRequests)
	client, err := openai.NewClient(srv.URL, "sk-test")
	require.NoError(t, err)

	_, err = NewChat(client).Generate(context.Background(), "https://example.com/a")

	assert.Equal(t, "upstream", requireGenerationError(t, err).Reason())
	assert.Contains(t, err.Error(), "Rate limit reached")
}

func TestChat_MissingKey(t *testing.T) {
	client, err := openai.NewClient("http://127.0.0.1:1", "")
	require.NoError(t, err)

	_, err = NewChat(client).Generate(context.Background(), "https://example.com/a")
	assert.ErrorIs(t, err, ErrConfiguration)
}
