package openai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestGenerateContent(t *testing.T) {
	var gotModel string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/chat/completions") {
			http.NotFound(w, r)
			return
		}
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Errorf("unexpected auth header %q", got)
		}
		var body struct {
			Model string `json:"model"`
		}
		_ = json.NewDecoder(r.Body).Decode(&body)
		gotModel = body.Model

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"id": "chatcmpl-1",
			"object": "chat.completion",
			"created": 1700000000,
			"model": "gpt-4o-mini",
			"choices": [{"index": 0, "finish_reason": "stop",
				"message": {"role": "assistant", "content": " {\"match\": 72} "}}],
			"usage": {"prompt_tokens": 10, "completion_tokens": 5, "total_tokens": 15}
		}`))
	}))
	defer srv.Close()

	g, err := NewGenerator("test-key", "", WithBaseURL(srv.URL))
	if err != nil {
		t.Fatalf("NewGenerator: %v", err)
	}

	out, err := g.GenerateContent(context.Background(), "score this")
	if err != nil {
		t.Fatalf("GenerateContent: %v", err)
	}
	if out != `{"match": 72}` {
		t.Fatalf("unexpected output %q", out)
	}
	if gotModel != defaultModel {
		t.Fatalf("expected model %q, got %q", defaultModel, gotModel)
	}
}

func TestGenerateContentServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":{"message":"boom"}}`, http.StatusInternalServerError)
	}))
	defer srv.Close()

	g, err := NewGenerator("test-key", "gpt-4o-mini", WithBaseURL(srv.URL))
	if err != nil {
		t.Fatalf("NewGenerator: %v", err)
	}
	if _, err := g.GenerateContent(context.Background(), "score this"); err == nil {
		t.Fatalf("expected error from failing server")
	}
}

func TestNewGeneratorRequiresKey(t *testing.T) {
	if _, err := NewGenerator("", "gpt-4o-mini"); err == nil {
		t.Fatalf("expected error for empty api key")
	}
}
