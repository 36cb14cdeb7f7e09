package cache

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/DjordjeVuckovic/news-desk/internal/metrics"
	"github.com/google/uuid"
)

// Rendered page paths affected by article writes.
const (
	HomePath     = "/"
	NewsListPath = "/noticias"
)

func ArticlePath(id uuid.UUID) string {
	return NewsListPath + "/" + id.String()
}

// PathsFor lists the pages to drop after article id changed.
func PathsFor(id uuid.UUID) []string {
	return []string{HomePath, NewsListPath, ArticlePath(id)}
}

// Invalidator asks the rendering layer to drop cached pages. Invalidate
// never blocks on I/O and never reports failure to the caller.
type Invalidator interface {
	Invalidate(paths ...string)
}

type NoopInvalidator struct{}

func (NoopInvalidator) Invalidate(...string) {}

const (
	defaultInvalidateTimeout = 5 * time.Second
	TokenHeader              = "X-Revalidate-Token"
)

type HTTPOption func(inv *HTTPInvalidator)

// HTTPInvalidator calls GET {base}/revalidate?path=<p> once per path, each
// on its own goroutine.
type HTTPInvalidator struct {
	base    url.URL
	client  *http.Client
	token   string
	timeout time.Duration
	wg      sync.WaitGroup
}

func NewHTTPInvalidator(baseURL string, opts ...HTTPOption) (*HTTPInvalidator, error) {
	base, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("invalid base url: %w", err)
	}
	if base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("invalid base url: %q", baseURL)
	}

	inv := &HTTPInvalidator{
		base:    *base,
		client:  &http.Client{},
		timeout: defaultInvalidateTimeout,
	}
	for _, opt := range opts {
		opt(inv)
	}
	return inv, nil
}

func WithToken(token string) HTTPOption {
	return func(inv *HTTPInvalidator) {
		inv.token = token
	}
}

func WithTimeout(d time.Duration) HTTPOption {
	return func(inv *HTTPInvalidator) {
		inv.timeout = d
	}
}

func WithHTTPClient(c *http.Client) HTTPOption {
	return func(inv *HTTPInvalidator) {
		inv.client = c
	}
}

func (inv *HTTPInvalidator) Invalidate(paths ...string) {
	for _, p := range paths {
		inv.wg.Add(1)
		go func(path string) {
			defer inv.wg.Done()
			inv.revalidate(path)
		}(p)
	}
}

// Wait blocks until in-flight calls finish.
func (inv *HTTPInvalidator) Wait() {
	inv.wg.Wait()
}

func (inv *HTTPInvalidator) revalidate(path string) {
	ctx, cancel := context.WithTimeout(context.Background(), inv.timeout)
	defer cancel()

	u := inv.base.JoinPath("revalidate")
	u.RawQuery = url.Values{"path": {path}}.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		inv.fail(path, err)
		return
	}
	if inv.token != "" {
		req.Header.Set(TokenHeader, inv.token)
	}

	resp, err := inv.client.Do(req)
	if err != nil {
		inv.fail(path, err)
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		inv.fail(path, fmt.Errorf("unexpected status code: %d", resp.StatusCode))
		return
	}

	metrics.InvalidationsTotal.WithLabelValues("ok").Inc()
	slog.Debug("Page revalidated", "path", path)
}

func (inv *HTTPInvalidator) fail(path string, err error) {
	metrics.InvalidationsTotal.WithLabelValues("error").Inc()
	slog.Warn("Failed to revalidate page", "path", path, "error", err)
}

// Multi fans out to several invalidators.
type Multi []Invalidator

func (m Multi) Invalidate(paths ...string) {
	for _, inv := range m {
		inv.Invalidate(paths...)
	}
}
