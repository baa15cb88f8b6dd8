package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "hitgrid.toml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}
	return path
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
[hash]
chunk_size = 32.5

[simulation]
bodies = 50
tick = "20ms"

[logging]
level = "debug"
format = "json"
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	if cfg.Hash.ChunkSize != 32.5 {
		t.Fatalf("Expected chunk size 32.5, got %v", cfg.Hash.ChunkSize)
	}
	if cfg.Simulation.Bodies != 50 {
		t.Fatalf("Expected 50 bodies, got %d", cfg.Simulation.Bodies)
	}
	if cfg.Simulation.Tick != 20*time.Millisecond {
		t.Fatalf("Expected 20ms tick, got %s", cfg.Simulation.Tick)
	}
	if cfg.Logging.Level != "debug" || cfg.Logging.Format != "json" {
		t.Fatalf("Unexpected logging config %+v", cfg.Logging)
	}

	// Untouched keys keep their defaults
	if cfg.Simulation.Frames != Default().Simulation.Frames {
		t.Fatalf("Expected default frames, got %d", cfg.Simulation.Frames)
	}
}

func TestLoadRejectsInvalidChunkSize(t *testing.T) {
	path := writeConfig(t, "[hash]\nchunk_size = 0\n")

	_, err := Load(path)
	if err == nil || !strings.Contains(err.Error(), "chunk_size") {
		t.Fatalf("Expected a chunk_size error, got %v", err)
	}
}

func TestLoadRejectsMalformedFile(t *testing.T) {
	path := writeConfig(t, "[hash\nchunk_size = ")

	if _, err := Load(path); err == nil || !strings.Contains(err.Error(), "parse config") {
		t.Fatalf("Expected a parse error, got %v", err)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.toml")); err == nil {
		t.Fatalf("Expected an error for a missing file")
	}
}

func TestDefaultIsValid(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Fatalf("Expected default config to be valid, got %v", err)
	}
}

func TestValidateLoggingFormat(t *testing.T) {
	cfg := Default()
	cfg.Logging.Format = "xml"
	if err := cfg.Validate(); err == nil {
		t.Fatalf("Expected an error for an unknown logging format")
	}
}
