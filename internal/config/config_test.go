package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err == nil {
		t.Fatal("expected error for an explicitly named missing file")
	}

	cfg, err = Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Port != 5000 {
		t.Errorf("port = %d, want 5000", cfg.Server.Port)
	}
	if cfg.RAG.ChunkSize != 1000 || cfg.RAG.ChunkOverlap != 200 || cfg.RAG.TopK != 6 {
		t.Errorf("rag defaults = %+v", cfg.RAG)
	}
	if cfg.Qdrant.Collection != "all_documents" {
		t.Errorf("collection = %q", cfg.Qdrant.Collection)
	}
	if cfg.LLM.ChatModel != "gpt-4o-mini" {
		t.Errorf("chat model = %q", cfg.LLM.ChatModel)
	}
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	yaml := "server:\n  port: 8080\nrag:\n  top_k: 3\n"
	if err := os.WriteFile(path, []byte(yaml), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("port = %d, want 8080", cfg.Server.Port)
	}
	if cfg.RAG.TopK != 3 {
		t.Errorf("top_k = %d, want 3", cfg.RAG.TopK)
	}
	if cfg.Address() != "0.0.0.0:8080" {
		t.Errorf("address = %q", cfg.Address())
	}
}

func TestPrefixedEnvironmentOverrides(t *testing.T) {
	t.Setenv("DOCQA_SERVER_PORT", "7001")
	t.Setenv("DOCQA_LLM_API_KEY", "sk-prefixed")
	t.Setenv("DOCQA_RAG_TOP_K", "3")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Port != 7001 {
		t.Errorf("port = %d, want 7001", cfg.Server.Port)
	}
	if cfg.LLM.APIKey != "sk-prefixed" {
		t.Errorf("api key = %q, want sk-prefixed", cfg.LLM.APIKey)
	}
	if cfg.RAG.TopK != 3 {
		t.Errorf("top_k = %d, want 3", cfg.RAG.TopK)
	}
}

func TestEnvironmentOverrides(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("PORT", "9000")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.LLM.APIKey != "sk-test" {
		t.Errorf("api key = %q, want sk-test", cfg.LLM.APIKey)
	}
	if cfg.Server.Port != 9000 {
		t.Errorf("port = %d, want 9000", cfg.Server.Port)
	}
}
