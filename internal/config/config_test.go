package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func TestLoadSaveRoundTrip(t *testing.T) {
	// Point the config dir at a temp dir to avoid touching the real config.
	t.Setenv("SHELLSAGE_CONFIG_DIR", t.TempDir())

	cfg := Default()
	cfg.Provider = "openai"
	cfg.Model = "gpt-4o-mini"
	cfg.OpenAI.Host = "http://127.0.0.1:9999/v1"
	cfg.Strict = true
	cfg.HistorySize = 10

	if err := Save(cfg); err != nil {
		t.Fatalf("save: %v", err)
	}
	if !Exists() {
		t.Fatal("Exists() = false after Save")
	}

	loaded, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if loaded.Provider != "openai" {
		t.Errorf("Provider = %q, want openai", loaded.Provider)
	}
	if loaded.Model != "gpt-4o-mini" {
		t.Errorf("Model = %q, want gpt-4o-mini", loaded.Model)
	}
	if loaded.OpenAI.Host != "http://127.0.0.1:9999/v1" {
		t.Errorf("OpenAI.Host = %q", loaded.OpenAI.Host)
	}
	if !loaded.Strict {
		t.Error("Strict lost in round trip")
	}
	if loaded.HistorySize != 10 {
		t.Errorf("HistorySize = %d, want 10", loaded.HistorySize)
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := loadFrom("/nonexistent/path/config.yaml")
	if err != ErrNotFound {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestDirOverride(t *testing.T) {
	t.Setenv("SHELLSAGE_CONFIG_DIR", "/custom/dir")
	if got := Dir(); got != "/custom/dir" {
		t.Errorf("Dir() = %q, want override", got)
	}
	if got := Path(); got != filepath.Join("/custom/dir", "config.yaml") {
		t.Errorf("Path() = %q", got)
	}
	if got := LogPath(); got != filepath.Join("/custom/dir", "sage.log") {
		t.Errorf("LogPath() = %q", got)
	}
}

func TestDirDefaultEndsWithShellsage(t *testing.T) {
	t.Setenv("SHELLSAGE_CONFIG_DIR", "")
	if got := Dir(); filepath.Base(got) != "shellsage" {
		t.Errorf("Dir() = %q, want a shellsage directory", got)
	}
}

func TestLoadNormalizesSparseFile(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("SHELLSAGE_CONFIG_DIR", dir)

	// A hand-written file that only names the provider.
	writeFile(t, filepath.Join(dir, "config.yaml"), "provider: anthropic\n")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Model != DefaultAnthropicModel {
		t.Errorf("Model = %q, want provider default %q", cfg.Model, DefaultAnthropicModel)
	}
	if cfg.Ollama.Host != DefaultOllamaHost {
		t.Errorf("Ollama.Host = %q, want default", cfg.Ollama.Host)
	}
	if cfg.OpenAI.Host != DefaultOpenAIHost {
		t.Errorf("OpenAI.Host = %q, want default", cfg.OpenAI.Host)
	}
	if cfg.HistorySize != DefaultHistorySize {
		t.Errorf("HistorySize = %d, want default", cfg.HistorySize)
	}
	if cfg.LogLevel != DefaultLogLevel {
		t.Errorf("LogLevel = %q, want default", cfg.LogLevel)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"default is valid", func(c *Config) {}, ""},
		{"openai valid", func(c *Config) { c.Provider = "openai"; c.Model = "gpt-4o-mini" }, ""},
		{"anthropic valid", func(c *Config) { c.Provider = "anthropic"; c.Model = DefaultAnthropicModel }, ""},
		{"unknown provider", func(c *Config) { c.Provider = "copilot" }, "invalid provider"},
		{"empty model", func(c *Config) { c.Model = "  " }, "model cannot be empty"},
		{"broken ollama host", func(c *Config) { c.Ollama.Host = "://broken" }, "invalid ollama host"},
		{"broken openai host", func(c *Config) { c.OpenAI.Host = "://broken" }, "invalid openai host"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("expected error containing %q, got nil", tt.wantErr)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error = %q, want substring %q", err.Error(), tt.wantErr)
			}
		})
	}
}

func TestDefaultModelFor(t *testing.T) {
	tests := []struct {
		provider string
		want     string
	}{
		{"ollama", DefaultModel},
		{"openai", DefaultOpenAIModel},
		{"anthropic", DefaultAnthropicModel},
		{"other", DefaultModel},
	}
	for _, tt := range tests {
		if got := DefaultModelFor(tt.provider); got != tt.want {
			t.Errorf("DefaultModelFor(%q) = %q, want %q", tt.provider, got, tt.want)
		}
	}
}
