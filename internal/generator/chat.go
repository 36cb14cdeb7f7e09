package generator

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/DjordjeVuckovic/news-desk/internal/domain"
	"github.com/DjordjeVuckovic/news-desk/internal/generator/openai"
)

// ChatAPI is the subset of the OpenAI client used in chat mode.
type ChatAPI interface {
	Configured() bool
	ChatCompletion(ctx context.Context, req openai.ChatRequest) (*openai.ChatResponse, error)
}

// ChatGenerator makes one chat completion call constrained to the article
// JSON schema.
type ChatGenerator struct {
	client ChatAPI
	opts   options
}

func NewChat(client ChatAPI, opts ...Option) *ChatGenerator {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return &ChatGenerator{client: client, opts: o}
}

func (g *ChatGenerator) Generate(ctx context.Context, sourceURL string) (*domain.GeneratedArticle, error) {
	start := time.Now()
	raw, err := g.run(ctx, sourceURL)
	return finish("chat", start, raw, err)
}

func (g *ChatGenerator) run(ctx context.Context, sourceURL string) (string, error) {
	if g.client == nil || !g.client.Configured() {
		return "", ErrConfiguration
	}

	schemaJSON, err := articleSchema()
	if err != nil {
		return "", fmt.Errorf("build output schema: %w", err)
	}

	resp, err := g.client.ChatCompletion(ctx, openai.ChatRequest{
		Model: g.opts.model,
		Messages: []openai.ChatMessage{
			{Role: openai.RoleSystem, Content: systemInstructions},
			{Role: openai.RoleUser, Content: buildPrompt(sourceURL, schemaJSON, g.opts.sourceText(ctx, sourceURL))},
		},
		ResponseFormat: &openai.ResponseFormat{
			Type: "json_schema",
			JSONSchema: &openai.JSONSchema{
				Name:   "generated_article",
				Schema: json.RawMessage(schemaJSON),
			},
		},
	})
	if err != nil {
		return "", upstream("chat completion", err)
	}

	if len(resp.Choices) == 0 || strings.TrimSpace(resp.Choices[0].Message.Content) == "" {
		return "", ErrEmptyResponse
	}
	return resp.Choices[0].Message.Content, nil
}
