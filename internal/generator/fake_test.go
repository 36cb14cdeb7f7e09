package generator

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/DjordjeVuckovic/news-desk/internal/generator/openai"
	"github.com/stretchr/testify/assert"
)

type fakeClock struct {
	mu     sync.Mutex
	now    time.Time
	sleeps int
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2025, 4, 30, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Sleep(ctx context.Context, d time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
	c.sleeps++
	return nil
}

func (c *fakeClock) elapsedSince(t time.Time) time.Duration {
	return c.Now().Sub(t)
}

// fakeOpenAI serves the assistant endpoints. GetRun walks through statuses
// and repeats the last one.
type fakeOpenAI struct {
	t          *testing.T
	runStatus  string
	statuses   []string
	reply      string
	noReply    bool
	failThread int

	calls     atomic.Int32
	getRuns   atomic.Int32
	listCalls atomic.Int32
	prompt    atomic.Value
}

func (f *fakeOpenAI) server() *httptest.Server {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /threads", func(w http.ResponseWriter, r *http.Request) {
		if f.failThread != 0 {
			w.WriteHeader(f.failThread)
			_, _ = w.Write([]byte(`{"error":{"message":"Incorrect API key provided"}}`))
			return
		}
		writeJSON(w, openai.Thread{ID: "thread_1"})
	})
	mux.HandleFunc("POST /threads/{tid}/messages", func(w http.ResponseWriter, r *http.Request) {
		var req openai.MessageRequest
		assert.NoError(f.t, json.NewDecoder(r.Body).Decode(&req))
		f.prompt.Store(req.Content)
		writeJSON(w, openai.Message{ID: "msg_user", Role: openai.RoleUser})
	})
	mux.HandleFunc("POST /threads/{tid}/runs", func(w http.ResponseWriter, r *http.Request) {
		var req openai.RunRequest
		assert.NoError(f.t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(f.t, "asst_1", req.AssistantID)
		writeJSON(w, openai.Run{ID: "run_1", Status: f.runStatus})
	})
	mux.HandleFunc("GET /threads/{tid}/runs/{rid}", func(w http.ResponseWriter, r *http.Request) {
		n := int(f.getRuns.Add(1))
		status := f.statuses[len(f.statuses)-1]
		if n <= len(f.statuses) {
			status = f.statuses[n-1]
		}
		writeJSON(w, openai.Run{ID: r.PathValue("rid"), Status: status})
	})
	mux.HandleFunc("GET /threads/{tid}/messages", func(w http.ResponseWriter, r *http.Request) {
		f.listCalls.Add(1)
		list := map[string]any{"data": []any{}}
		if !f.noReply {
			list["data"] = []any{
				map[string]any{
					"id":   "msg_2",
					"role": "assistant",
					"content": []any{
						map[string]any{"type": "text", "text": map[string]any{"value": f.reply}},
					},
				},
				map[string]any{"id": "msg_user", "role": "user", "content": []any{}},
			}
		}
		writeJSON(w, list)
	})

	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f.calls.Add(1)
		mux.ServeHTTP(w, r)
	}))
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

type staticSource struct {
	text string
	err  error
}

func (s staticSource) Fetch(context.Context, string) (string, error) {
	return s.text, s.err
}
