package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Index.ChunkSize != 1000 {
		t.Errorf("expected ChunkSize=1000, got %d", cfg.Index.ChunkSize)
	}
	if cfg.Index.ChunkOverlap != 200 {
		t.Errorf("expected ChunkOverlap=200, got %d", cfg.Index.ChunkOverlap)
	}
	if cfg.Index.Collection != "swiss_voting_brochures" {
		t.Errorf("expected collection swiss_voting_brochures, got %s", cfg.Index.Collection)
	}
	if cfg.Retrieve.TopK != 5 {
		t.Errorf("expected TopK=5, got %d", cfg.Retrieve.TopK)
	}
	if len(cfg.Retrieve.Languages) != 3 || cfg.Retrieve.Languages[0] != "de" {
		t.Errorf("expected languages [de fr it], got %v", cfg.Retrieve.Languages)
	}
	if cfg.LLM.Model != "Apertus-70B-Instruct-2509" {
		t.Errorf("expected Apertus model, got %s", cfg.LLM.Model)
	}
	if cfg.Embedding.Dimension != 768 {
		t.Errorf("expected Dimension=768, got %d", cfg.Embedding.Dimension)
	}
}

func TestLoad_NonExistent(t *testing.T) {
	cfg, err := Load("/nonexistent/path/config.yaml")
	if err != nil {
		t.Errorf("expected no error for non-existent file, got %v", err)
	}
	if cfg == nil {
		t.Error("expected default config, got nil")
	}
}

func TestLoad_ValidYAML(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "swissvote.yaml")

	content := `
index:
  chunk_size: 500
  chunk_overlap: 50
retrieve:
  top_k: 3
  score_threshold: 0.7
`
	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Index.ChunkSize != 500 {
		t.Errorf("expected ChunkSize=500, got %d", cfg.Index.ChunkSize)
	}
	if cfg.Retrieve.TopK != 3 {
		t.Errorf("expected TopK=3, got %d", cfg.Retrieve.TopK)
	}
	if cfg.Retrieve.ScoreThreshold != 0.7 {
		t.Errorf("expected ScoreThreshold=0.7, got %f", cfg.Retrieve.ScoreThreshold)
	}
	// Untouched sections keep their defaults.
	if cfg.LLM.BaseURL != "https://api.swisscom.com/apertus/v1" {
		t.Errorf("expected default LLM base URL, got %s", cfg.LLM.BaseURL)
	}
}

func TestLoadFromDir(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "swissvote.yaml")

	content := `
llm:
  max_tokens: 4000
`
	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFromDir(tmpDir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.LLM.MaxTokens != 4000 {
		t.Errorf("expected MaxTokens=4000, got %d", cfg.LLM.MaxTokens)
	}
}

func TestLoadFromDir_Hidden(t *testing.T) {
	tmpDir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(tmpDir, ".swissvote"), 0755); err != nil {
		t.Fatal(err)
	}
	configPath := filepath.Join(tmpDir, ".swissvote", "config.yaml")

	content := `
retrieve:
  top_k: 8
`
	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFromDir(tmpDir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Retrieve.TopK != 8 {
		t.Errorf("expected TopK=8, got %d", cfg.Retrieve.TopK)
	}
}

func TestSaveRoundTrip(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "swissvote.yaml")

	cfg := DefaultConfig()
	cfg.Retrieve.TopK = 7
	if err := cfg.Save(configPath); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	loaded, err := Load(configPath)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if loaded.Retrieve.TopK != 7 {
		t.Errorf("expected TopK=7 after round trip, got %d", loaded.Retrieve.TopK)
	}
}

func TestDBPaths(t *testing.T) {
	meta := MetadataDBPath("/home/user/project")
	if meta != filepath.Join("/home/user/project", ".swissvote", "initiatives.db") {
		t.Errorf("unexpected metadata path %s", meta)
	}
	vec := VectorDBPath("/home/user/project")
	if vec != filepath.Join("/home/user/project", ".swissvote", "vectors.db") {
		t.Errorf("unexpected vector path %s", vec)
	}
}
