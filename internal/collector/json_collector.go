package collector

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// JSONFileCollector reads raw article payloads from files. A file holds a
// JSON array, a single JSON object, or one object per line (.ndjson, .jsonl).
type JSONFileCollector struct {
	paths []string
}

func NewJSONFileCollector(paths ...string) *JSONFileCollector {
	return &JSONFileCollector{paths: paths}
}

func (c *JSONFileCollector) Collect(ctx context.Context) (<-chan Result[map[string]any], error) {
	for _, p := range c.paths {
		if _, err := os.Stat(p); err != nil {
			return nil, fmt.Errorf("cannot read %s: %w", p, err)
		}
	}

	out := make(chan Result[map[string]any])
	go func() {
		defer close(out)
		for _, p := range c.paths {
			if err := c.collectFile(ctx, p, out); err != nil {
				if ctx.Err() != nil {
					return
				}
				slog.Error("Failed to read import file", "path", p, "error", err)
				if !send(ctx, out, Result[map[string]any]{Err: err}) {
					return
				}
			}
		}
	}()
	return out, nil
}

func (c *JSONFileCollector) collectFile(ctx context.Context, path string, out chan<- Result[map[string]any]) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".ndjson", ".jsonl":
		return collectLines(ctx, f, out)
	default:
		return collectDocument(ctx, f, out)
	}
}

func collectLines(ctx context.Context, r io.Reader, out chan<- Result[map[string]any]) error {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 8*1024*1024)
	line := 0
	for sc.Scan() {
		line++
		raw := bytes.TrimSpace(sc.Bytes())
		if len(raw) == 0 {
			continue
		}
		var obj map[string]any
		res := Result[map[string]any]{}
		if err := json.Unmarshal(raw, &obj); err != nil {
			res.Err = fmt.Errorf("line %d: %w", line, err)
		} else {
			res.Result = obj
		}
		if !send(ctx, out, res) {
			return ctx.Err()
		}
	}
	return sc.Err()
}

func collectDocument(ctx context.Context, r io.Reader, out chan<- Result[map[string]any]) error {
	raw, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	raw = bytes.TrimSpace(raw)

	if len(raw) > 0 && raw[0] == '[' {
		var items []json.RawMessage
		if err := json.Unmarshal(raw, &items); err != nil {
			return err
		}
		for i, item := range items {
			var obj map[string]any
			res := Result[map[string]any]{}
			if err := json.Unmarshal(item, &obj); err != nil {
				res.Err = fmt.Errorf("item %d: %w", i, err)
			} else {
				res.Result = obj
			}
			if !send(ctx, out, res) {
				return ctx.Err()
			}
		}
		return nil
	}

	var obj map[string]any
	if err := json.Unmarshal(raw, &obj); err != nil {
		return err
	}
	if !send(ctx, out, Result[map[string]any]{Result: obj}) {
		return ctx.Err()
	}
	return nil
}

func send[T any](ctx context.Context, out chan<- Result[T], r Result[T]) bool {
	select {
	case <-ctx.Done():
		return false
	case out <- r:
		return true
	}
}
