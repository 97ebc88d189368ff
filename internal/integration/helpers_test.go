package integration

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
)

// fakeGemini serves the generateContent endpoint with numbered recipes.
type fakeGemini struct {
	mu      sync.Mutex
	n       int
	prompts []string
}

func (g *fakeGemini) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if !strings.HasSuffix(r.URL.Path, ":generateContent") || r.Header.Get("x-goog-api-key") != "gemini-test-key" {
		http.Error(w, `{"error":{"message":"bad request"}}`, http.StatusBadRequest)
		return
	}
	var body struct {
		Contents []struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"contents"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || len(body.Contents) == 0 {
		http.Error(w, "bad body", http.StatusBadRequest)
		return
	}

	g.mu.Lock()
	g.n++
	n := g.n
	g.prompts = append(g.prompts, body.Contents[0].Parts[0].Text)
	g.mu.Unlock()

	recipe := fmt.Sprintf("```json\n{\"id\":\"recipe_%d\",\"title\":\"Recipe %d\",\"short_description\":\"Number %d.\",\"preparation_time_minutes\":\"%d\",\"ingredients\":[\"salt\"],\"instructions\":[\"cook\"]}\n```", n, n, n, 10+n)
	resp := map[string]any{
		"candidates": []any{map[string]any{
			"content":      map[string]any{"role": "model", "parts": []any{map[string]any{"text": recipe}}},
			"finishReason": "STOP",
		}},
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(resp)
}

func (g *fakeGemini) Prompts() []string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]string(nil), g.prompts...)
}

func startFakeGemini(t *testing.T) (*fakeGemini, string) {
	t.Helper()
	g := &fakeGemini{}
	ts := httptest.NewServer(g)
	t.Cleanup(ts.Close)
	return g, ts.URL
}

func runLoop(t *testing.T, run func(ctx context.Context) error) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = run(ctx)
	}()
	t.Cleanup(func() {
		cancel()
		<-done
	})
}
