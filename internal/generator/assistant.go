package generator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/DjordjeVuckovic/news-desk/internal/domain"
	"github.com/DjordjeVuckovic/news-desk/internal/generator/openai"
)

// AssistantAPI is the subset of the OpenAI client used in assistant mode.
type AssistantAPI interface {
	Configured() bool
	CreateThread(ctx context.Context) (*openai.Thread, error)
	CreateMessage(ctx context.Context, threadID string, req openai.MessageRequest) (*openai.Message, error)
	CreateRun(ctx context.Context, threadID string, req openai.RunRequest) (*openai.Run, error)
	GetRun(ctx context.Context, threadID, runID string) (*openai.Run, error)
	ListMessages(ctx context.Context, threadID string) (*openai.MessageList, error)
}

// AssistantGenerator drives a pre-configured assistant: thread, message, run,
// then polls the run until it finishes or the timeout elapses.
type AssistantGenerator struct {
	client      AssistantAPI
	assistantID string
	opts        options
}

func NewAssistant(client AssistantAPI, assistantID string, opts ...Option) *AssistantGenerator {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return &AssistantGenerator{
		client:      client,
		assistantID: assistantID,
		opts:        o,
	}
}

func (g *AssistantGenerator) Generate(ctx context.Context, sourceURL string) (*domain.GeneratedArticle, error) {
	start := time.Now()
	raw, err := g.run(ctx, sourceURL)
	return finish("assistant", start, raw, err)
}

func (g *AssistantGenerator) run(ctx context.Context, sourceURL string) (string, error) {
	if g.client == nil || !g.client.Configured() || g.assistantID == "" {
		return "", ErrConfiguration
	}

	prompt, err := g.prompt(ctx, sourceURL)
	if err != nil {
		return "", err
	}

	thread, err := g.client.CreateThread(ctx)
	if err != nil {
		return "", upstream("create thread", err)
	}

	if _, err := g.client.CreateMessage(ctx, thread.ID, openai.MessageRequest{
		Role:    openai.RoleUser,
		Content: prompt,
	}); err != nil {
		return "", upstream("create message", err)
	}

	run, err := g.client.CreateRun(ctx, thread.ID, openai.RunRequest{
		AssistantID:  g.assistantID,
		Instructions: systemInstructions,
	})
	if err != nil {
		return "", upstream("create run", err)
	}
	slog.Debug("Assistant run started", "thread", thread.ID, "run", run.ID, "status", run.Status)

	if err := g.await(ctx, thread.ID, run); err != nil {
		return "", err
	}

	msgs, err := g.client.ListMessages(ctx, thread.ID)
	if err != nil {
		return "", upstream("list messages", err)
	}
	for _, m := range msgs.Data {
		if m.Role != openai.RoleAssistant {
			continue
		}
		if text := m.Text(); text != "" {
			return text, nil
		}
		break
	}
	return "", ErrEmptyResponse
}

// await polls the run until it reaches a terminal state. No call is made once
// the timeout has elapsed.
func (g *AssistantGenerator) await(ctx context.Context, threadID string, run *openai.Run) error {
	clock := g.opts.clock
	started := clock.Now()
	state := Transition(StatePending, run.Status, 0, g.opts.timeout)
	status := run.Status

	for !state.Terminal() {
		if err := clock.Sleep(ctx, g.opts.pollInterval); err != nil {
			return err
		}
		if state = Transition(state, "", clock.Now().Sub(started), g.opts.timeout); state.Terminal() {
			break
		}

		polled, err := g.client.GetRun(ctx, threadID, run.ID)
		if err != nil {
			return upstream("get run", err)
		}
		status = polled.Status
		state = Transition(state, status, clock.Now().Sub(started), g.opts.timeout)
		slog.Debug("Assistant run polled", "run", run.ID, "status", status, "state", state)
	}

	switch state {
	case StateCompleted:
		return nil
	case StateTimedOut:
		return fmt.Errorf("%w after %s", ErrTimeout, g.opts.timeout)
	default:
		return fmt.Errorf("%w: final status %s", ErrGenerationFailed, status)
	}
}

func (g *AssistantGenerator) prompt(ctx context.Context, sourceURL string) (string, error) {
	schemaJSON, err := articleSchema()
	if err != nil {
		return "", fmt.Errorf("build output schema: %w", err)
	}
	return buildPrompt(sourceURL, schemaJSON, g.opts.sourceText(ctx, sourceURL)), nil
}

func upstream(op string, err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return &UpstreamError{Op: op, StatusCode: apiErr.StatusCode, Message: apiErr.Message, Err: err}
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	return &UpstreamError{Op: op, Message: err.Error(), Err: err}
}
