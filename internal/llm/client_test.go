package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Gon161/RAG-multi-documento/internal/domain"
)

func newTestClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(Config{
		BaseURL:        srv.URL,
		APIKey:         "sk-test",
		ChatModel:      "gpt-4o-mini",
		EmbeddingModel: "text-embedding-3-small",
	})
}

func TestCompleteParsesChoice(t *testing.T) {
	var gotBody map[string]any
	var gotAuth string
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("path = %s", r.URL.Path)
		}
		gotAuth = r.Header.Get("Authorization")
		json.NewDecoder(r.Body).Decode(&gotBody)
		fmt.Fprint(w, `{"choices":[{"message":{"content":"hola"}}]}`)
	}))

	answer, err := client.Complete(context.Background(), []ChatMessage{
		{Role: "user", Content: "saluda"},
	}, 0.3)
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if answer != "hola" {
		t.Errorf("answer = %q", answer)
	}
	if gotAuth != "Bearer sk-test" {
		t.Errorf("authorization = %q", gotAuth)
	}
	if gotBody["model"] != "gpt-4o-mini" || gotBody["temperature"] != 0.3 {
		t.Errorf("request body = %v", gotBody)
	}
}

func TestCompleteWrapsProviderError(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"quota exceeded"}`, http.StatusTooManyRequests)
	}))

	_, err := client.Complete(context.Background(), []ChatMessage{{Role: "user", Content: "x"}}, 0)
	var upstream *domain.UpstreamServiceError
	if !errors.As(err, &upstream) {
		t.Fatalf("expected UpstreamServiceError, got %v", err)
	}
	if upstream.Service != "chat completion" {
		t.Errorf("service = %q", upstream.Service)
	}
}

func TestEmbedBatchCountsResults(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/embeddings" {
			t.Errorf("path = %s", r.URL.Path)
		}
		fmt.Fprint(w, `{"data":[{"embedding":[0.1,0.2]},{"embedding":[0.3,0.4]}]}`)
	}))

	vectors, err := client.EmbedBatch(context.Background(), []string{"uno", "dos"})
	if err != nil {
		t.Fatalf("EmbedBatch: %v", err)
	}
	if len(vectors) != 2 || len(vectors[0]) != 2 {
		t.Fatalf("vectors = %v", vectors)
	}

	_, err = client.EmbedBatch(context.Background(), []string{"uno", "dos", "tres"})
	var upstream *domain.UpstreamServiceError
	if !errors.As(err, &upstream) {
		t.Errorf("expected UpstreamServiceError on count mismatch, got %v", err)
	}
}

func TestEmbedReturnsSingleVector(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"data":[{"embedding":[1,2,3]}]}`)
	}))

	vector, err := client.Embed(context.Background(), "hola")
	if err != nil {
		t.Fatalf("Embed: %v", err)
	}
	if len(vector) != 3 || vector[2] != 3 {
		t.Errorf("vector = %v", vector)
	}
}

func TestEmbedBatchEmptyInput(t *testing.T) {
	client := NewClient(Config{})
	vectors, err := client.EmbedBatch(context.Background(), nil)
	if err != nil || vectors != nil {
		t.Errorf("got %v, %v; want nil, nil", vectors, err)
	}
}
