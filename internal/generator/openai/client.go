package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

const (
	DefaultBaseURL = "https://api.openai.com/v1"
	defaultTimeout = 60 * time.Second
)

type ClientOption func(client *Client)

// Client is a minimal OpenAI REST client covering the Assistants v2 thread/run
// endpoints and chat completions.
type Client struct {
	base   url.URL
	apiKey string
	http   *http.Client
}

func NewClient(baseURL, apiKey string, opts ...ClientOption) (*Client, error) {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, err
	}

	client := &Client{
		base:   *base,
		apiKey: apiKey,
		http: &http.Client{
			Timeout: defaultTimeout,
		},
	}

	for _, opt := range opts {
		opt(client)
	}

	return client, nil
}

func WithHTTPClient(httpClient *http.Client) ClientOption {
	return func(client *Client) {
		client.http = httpClient
	}
}

// APIError is returned for any non-2xx response.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("openai: status %d: %s", e.StatusCode, e.Message)
}

type errorBody struct {
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}

func (c *Client) CreateThread(ctx context.Context) (*Thread, error) {
	var resp Thread
	if err := c.do(ctx, http.MethodPost, "threads", nil, nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) CreateMessage(ctx context.Context, threadID string, req MessageRequest) (*Message, error) {
	var resp Message
	if err := c.do(ctx, http.MethodPost, "threads/"+threadID+"/messages", nil, req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) CreateRun(ctx context.Context, threadID string, req RunRequest) (*Run, error) {
	var resp Run
	if err := c.do(ctx, http.MethodPost, "threads/"+threadID+"/runs", nil, req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) GetRun(ctx context.Context, threadID, runID string) (*Run, error) {
	var resp Run
	if err := c.do(ctx, http.MethodGet, "threads/"+threadID+"/runs/"+runID, nil, nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// ListMessages returns the thread's messages, newest first.
func (c *Client) ListMessages(ctx context.Context, threadID string) (*MessageList, error) {
	q := url.Values{"order": {"desc"}}
	var resp MessageList
	if err := c.do(ctx, http.MethodGet, "threads/"+threadID+"/messages", q, nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) ChatCompletion(ctx context.Context, req ChatRequest) (*ChatResponse, error) {
	var resp ChatResponse
	if err := c.do(ctx, http.MethodPost, "chat/completions", nil, req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, reqData, respData any) error {
	var body io.Reader
	if reqData != nil {
		reqDataBytes, err := json.Marshal(reqData)
		if err != nil {
			return err
		}
		body = bytes.NewReader(reqDataBytes)
	}

	reqURL := c.base.JoinPath(path)
	if len(query) > 0 {
		reqURL.RawQuery = query.Encode()
	}
	request, err := http.NewRequestWithContext(ctx, method, reqURL.String(), body)
	if err != nil {
		return err
	}

	request.Header.Set("Content-Type", "application/json")
	request.Header.Set("Accept", "application/json")
	request.Header.Set("Authorization", "Bearer "+c.apiKey)
	request.Header.Set("OpenAI-Beta", "assistants=v2")

	resp, err := c.http.Do(request)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return newAPIError(resp.StatusCode, respBody)
	}

	if err := json.Unmarshal(respBody, respData); err != nil {
		return fmt.Errorf("unmarshal response: %w", err)
	}

	return nil
}

func newAPIError(status int, body []byte) *APIError {
	var eb errorBody
	if err := json.Unmarshal(body, &eb); err == nil && eb.Error.Message != "" {
		return &APIError{StatusCode: status, Message: eb.Error.Message}
	}
	return &APIError{StatusCode: status, Message: http.StatusText(status)}
}

// Configured reports whether an API key is set.
func (c *Client) Configured() bool {
	return c.apiKey != ""
}
