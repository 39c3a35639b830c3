package keywords

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sashabaranov/go-openai"

	"github.com/participax/civiclens/internal/model"
)

func modelEmbedderConfig() model.EmbedderConfig {
	return model.DefaultConfig().Embedder
}

func TestOpenAIEmbedder_Embed_Batching(t *testing.T) {
	requests := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		if r.URL.Path != "/embeddings" {
			t.Errorf("Expected path /embeddings, got %s", r.URL.Path)
		}
		if r.Header.Get("Authorization") != "Bearer test-key" {
			t.Errorf("Expected Authorization header Bearer test-key, got %s", r.Header.Get("Authorization"))
		}

		var req struct {
			Input []string `json:"input"`
			Model string   `json:"model"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("Failed to decode request: %v", err)
		}
		if req.Model != "text-embedding-3-small" {
			t.Errorf("Expected default model, got %s", req.Model)
		}

		resp := openai.EmbeddingResponse{Object: "list"}
		for i := range req.Input {
			resp.Data = append(resp.Data, openai.Embedding{
				Object:    "embedding",
				Index:     i,
				Embedding: []float32{float32(requests*100 + i + 1)},
			})
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	embedder, err := NewOpenAIEmbedder(Config{
		APIKey:    "test-key",
		BaseURL:   server.URL,
		BatchSize: 2,
	})
	if err != nil {
		t.Fatalf("Failed to create embedder: %v", err)
	}

	vecs, err := embedder.Embed(context.Background(), []string{"eins", "zwei", "drei"})
	if err != nil {
		t.Fatalf("Embed failed: %v", err)
	}
	if requests != 2 {
		t.Errorf("Expected 2 batched requests, got %d", requests)
	}
	if len(vecs) != 3 {
		t.Fatalf("Expected 3 vectors, got %d", len(vecs))
	}

	want := []float32{101, 102, 201}
	for i, w := range want {
		if len(vecs[i]) != 1 || vecs[i][0] != w {
			t.Errorf("Vector %d: expected [%v], got %v", i, w, vecs[i])
		}
	}
}

func TestOpenAIEmbedder_Embed_HonorsResponseIndex(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		resp := openai.EmbeddingResponse{
			Object: "list",
			Data: []openai.Embedding{
				{Object: "embedding", Index: 1, Embedding: []float32{2}},
				{Object: "embedding", Index: 0, Embedding: []float32{1}},
			},
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	embedder, err := NewOpenAIEmbedder(Config{APIKey: "test-key", BaseURL: server.URL})
	if err != nil {
		t.Fatalf("Failed to create embedder: %v", err)
	}

	vecs, err := embedder.Embed(context.Background(), []string{"a", "b"})
	if err != nil {
		t.Fatalf("Embed failed: %v", err)
	}
	if vecs[0][0] != 1 || vecs[1][0] != 2 {
		t.Errorf("Vectors not placed by response index: %v", vecs)
	}
}

func TestOpenAIEmbedder_Embed_CountMismatch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		resp := openai.EmbeddingResponse{
			Object: "list",
			Data: []openai.Embedding{
				{Object: "embedding", Index: 0, Embedding: []float32{1}},
			},
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	embedder, err := NewOpenAIEmbedder(Config{APIKey: "test-key", BaseURL: server.URL})
	if err != nil {
		t.Fatalf("Failed to create embedder: %v", err)
	}

	if _, err := embedder.Embed(context.Background(), []string{"a", "b"}); err == nil {
		t.Error("Expected error for embedding count mismatch")
	}
}

func TestOpenAIEmbedder_RequiresAPIKey(t *testing.T) {
	if _, err := NewOpenAIEmbedder(Config{}); err == nil {
		t.Error("Expected error for missing API key")
	}
}

func TestNewEmbedderSelection(t *testing.T) {
	e, err := NewEmbedder(Config{Provider: "lexical"})
	if err != nil {
		t.Fatalf("Failed to create lexical embedder: %v", err)
	}
	if e.Name() != "lexical" {
		t.Errorf("Expected lexical embedder, got %s", e.Name())
	}

	e, err = NewEmbedder(Config{})
	if err != nil {
		t.Fatalf("Auto without key should fall back to lexical: %v", err)
	}
	if e.Name() != "lexical" {
		t.Errorf("Expected lexical fallback, got %s", e.Name())
	}

	e, err = NewEmbedder(Config{APIKey: "test-key"})
	if err != nil {
		t.Fatalf("Auto with key should pick openai: %v", err)
	}
	if e.Name() != "openai" {
		t.Errorf("Expected openai embedder, got %s", e.Name())
	}

	if _, err := NewEmbedder(Config{Provider: "openai"}); err == nil {
		t.Error("Expected error for openai provider without key")
	}
	if _, err := NewEmbedder(Config{Provider: "word2vec"}); err == nil {
		t.Error("Expected error for unsupported provider")
	}
}

func TestConfigFromModelReadsEnvKey(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "env-key")

	cfg := ConfigFromModel(modelEmbedderConfig())
	if cfg.APIKey != "env-key" {
		t.Errorf("Expected API key from environment, got %q", cfg.APIKey)
	}
	if cfg.Model != "text-embedding-3-small" {
		t.Errorf("Unexpected model: %s", cfg.Model)
	}
	if cfg.BatchSize != 64 {
		t.Errorf("Unexpected batch size: %d", cfg.BatchSize)
	}
}
