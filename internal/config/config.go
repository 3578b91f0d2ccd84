// Package config manages the shellsage configuration file, stored as YAML
// under the platform config directory (~/.config/shellsage on Linux,
// ~/Library/Application Support/shellsage on macOS, %AppData%\shellsage on
// Windows). SHELLSAGE_CONFIG_DIR overrides the location for tests and
// portable installs.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

var ErrNotFound = errors.New("config file not found")

// Defaults applied by Default() and filled in by Normalize() when a field
// is left empty in the file.
const (
	DefaultProvider       = "ollama"
	DefaultModel          = "llama3.2:latest"
	DefaultOpenAIModel    = "gpt-4o-mini"
	DefaultAnthropicModel = "claude-sonnet-4-5-20250929"
	DefaultOllamaHost     = "http://localhost:11434"
	DefaultOpenAIHost     = "https://api.openai.com/v1"
	DefaultHistorySize    = 50
	DefaultLogLevel       = "warn"
)

// Providers lists the supported provider names in display order.
var Providers = []string{"ollama", "openai", "anthropic"}

type Config struct {
	Provider string `yaml:"provider"`
	Model    string `yaml:"model"`
	Ollama   Ollama `yaml:"ollama"`
	OpenAI   OpenAI `yaml:"openai"`

	// Strict makes environment validation failures abort instead of warn.
	Strict bool `yaml:"strict"`
	// ConfirmDangerous forces a confirmation prompt for risky commands even
	// when --yes was given.
	ConfirmDangerous bool `yaml:"confirm_dangerous"`
	// AutoExecute runs validated commands without the per-command prompt.
	AutoExecute bool `yaml:"auto_execute"`

	HistorySize int    `yaml:"history_size"`
	LogLevel    string `yaml:"log_level"`
}

type Ollama struct {
	Host string `yaml:"host"`
}

type OpenAI struct {
	Host string `yaml:"host"`
}

// Dir returns the config directory path. SHELLSAGE_CONFIG_DIR wins when set.
func Dir() string {
	if dir := os.Getenv("SHELLSAGE_CONFIG_DIR"); dir != "" {
		return dir
	}
	base, err := os.UserConfigDir()
	if err != nil {
		home, _ := os.UserHomeDir()
		base = filepath.Join(home, ".config")
	}
	return filepath.Join(base, "shellsage")
}

// Path returns the config file path.
func Path() string {
	return filepath.Join(Dir(), "config.yaml")
}

// LogPath returns the log file path, kept next to the config file.
func LogPath() string {
	return filepath.Join(Dir(), "sage.log")
}

// Exists checks if the config file exists.
func Exists() bool {
	_, err := os.Stat(Path())
	return err == nil
}

// Load reads and parses the config file. Returns ErrNotFound if it doesn't
// exist. Loaded configs are normalized, so callers can rely on non-empty
// hosts and a sane history size.
func Load() (*Config, error) {
	return loadFrom(Path())
}

func loadFrom(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	cfg.Normalize()
	return &cfg, nil
}

// Save writes the config to disk, creating the directory if needed.
func Save(cfg *Config) error {
	if err := os.MkdirAll(Dir(), 0o755); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}

	if err := os.WriteFile(Path(), data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// Default returns a config with sensible defaults: local ollama, strict
// validation off, confirmation for dangerous commands on.
func Default() *Config {
	return &Config{
		Provider:         DefaultProvider,
		Model:            DefaultModel,
		Ollama:           Ollama{Host: DefaultOllamaHost},
		OpenAI:           OpenAI{Host: DefaultOpenAIHost},
		ConfirmDangerous: true,
		HistorySize:      DefaultHistorySize,
		LogLevel:         DefaultLogLevel,
	}
}

// DefaultModelFor returns the default model for a provider name.
func DefaultModelFor(provider string) string {
	switch provider {
	case "openai":
		return DefaultOpenAIModel
	case "anthropic":
		return DefaultAnthropicModel
	}
	return DefaultModel
}

// Normalize fills empty fields with defaults. Hand-edited config files
// commonly omit whole sections.
func (c *Config) Normalize() {
	if strings.TrimSpace(c.Provider) == "" {
		c.Provider = DefaultProvider
	}
	if strings.TrimSpace(c.Model) == "" {
		c.Model = DefaultModelFor(c.Provider)
	}
	if strings.TrimSpace(c.Ollama.Host) == "" {
		c.Ollama.Host = DefaultOllamaHost
	}
	if strings.TrimSpace(c.OpenAI.Host) == "" {
		c.OpenAI.Host = DefaultOpenAIHost
	}
	if c.HistorySize <= 0 {
		c.HistorySize = DefaultHistorySize
	}
	if strings.TrimSpace(c.LogLevel) == "" {
		c.LogLevel = DefaultLogLevel
	}
}

// Validate rejects configs that would fail at first use.
func (c *Config) Validate() error {
	valid := false
	for _, p := range Providers {
		if c.Provider == p {
			valid = true
			break
		}
	}
	if !valid {
		return fmt.Errorf("invalid provider %q (want one of %s)", c.Provider, strings.Join(Providers, "/"))
	}
	if strings.TrimSpace(c.Model) == "" {
		return fmt.Errorf("model cannot be empty")
	}
	if _, err := url.ParseRequestURI(c.Ollama.Host); err != nil {
		return fmt.Errorf("invalid ollama host %q: %w", c.Ollama.Host, err)
	}
	if _, err := url.ParseRequestURI(c.OpenAI.Host); err != nil {
		return fmt.Errorf("invalid openai host %q: %w", c.OpenAI.Host, err)
	}
	return nil
}
