package source

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"
	"unicode/utf8"

	md "github.com/JohannesKaufmann/html-to-markdown"
	"github.com/go-shiori/go-readability"
)

const (
	defaultTimeout  = 20 * time.Second
	defaultMaxChars = 12000
)

// Fetcher returns the readable text of a page, used to ground generation.
type Fetcher interface {
	Fetch(ctx context.Context, pageURL string) (string, error)
}

type HTTPError struct {
	StatusCode int
	URL        string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("fetching %s: status %d", e.URL, e.StatusCode)
}

type Option func(f *ReadabilityFetcher)

// ReadabilityFetcher extracts the main article of a page and converts it to
// Markdown.
type ReadabilityFetcher struct {
	client    *http.Client
	converter *md.Converter
	maxChars  int
}

func NewReadabilityFetcher(opts ...Option) *ReadabilityFetcher {
	f := &ReadabilityFetcher{
		client:    &http.Client{Timeout: defaultTimeout},
		converter: md.NewConverter("", true, nil),
		maxChars:  defaultMaxChars,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

func WithHTTPClient(client *http.Client) Option {
	return func(f *ReadabilityFetcher) {
		f.client = client
	}
}

// WithMaxChars caps the returned text length in runes.
func WithMaxChars(n int) Option {
	return func(f *ReadabilityFetcher) {
		f.maxChars = n
	}
}

func (f *ReadabilityFetcher) Fetch(ctx context.Context, pageURL string) (string, error) {
	u, err := url.Parse(pageURL)
	if err != nil {
		return "", fmt.Errorf("parse url: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("User-Agent", "news-desk/1.0 (+source grounding)")

	resp, err := f.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetching %s: %w", pageURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", &HTTPError{StatusCode: resp.StatusCode, URL: pageURL}
	}

	article, err := readability.FromReader(resp.Body, u)
	if err != nil {
		return "", fmt.Errorf("extract article: %w", err)
	}

	text, err := f.converter.ConvertString(article.Content)
	if err != nil || strings.TrimSpace(text) == "" {
		// plain text is still useful grounding
		text = article.TextContent
	}

	text = strings.TrimSpace(text)
	if article.Title != "" {
		text = "# " + article.Title + "\n\n" + text
	}

	slog.Debug("Source page fetched", "url", pageURL, "length", len(text))
	return truncate(text, f.maxChars), nil
}

func truncate(s string, maxChars int) string {
	if maxChars <= 0 || utf8.RuneCountInString(s) <= maxChars {
		return s
	}
	return string([]rune(s)[:maxChars])
}
