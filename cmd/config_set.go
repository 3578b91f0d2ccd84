package cmd

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/hpkotak/shellsage/internal/config"
	"github.com/spf13/cobra"
)

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Update a configuration value",
	Long: `Update a configuration value. Supported keys:
  provider          LLM provider (ollama/openai/anthropic)
  model             Model name (e.g., llama3.2:latest)
  ollama.host       Ollama server URL
  openai.host       OpenAI-compatible API base URL
  strict            Abort on environment validation failures (true/false)
  confirm_dangerous Always confirm risky commands, even with --yes (true/false)
  auto_execute      Run validated commands without prompting (true/false)
  history_size      Chat history cap in messages
  log_level         Log verbosity (debug/info/warn/error)`,
	Args: cobra.ExactArgs(2),
	RunE: runConfigSet,
}

func init() {
	configCmd.AddCommand(configSetCmd)
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	key, value := args[0], args[1]

	cfg, err := config.Load()
	if err != nil {
		if !errors.Is(err, config.ErrNotFound) {
			return fmt.Errorf("loading config: %w", err)
		}
		cfg = config.Default()
	}

	switch key {
	case "provider":
		prev := cfg.Provider
		cfg.Provider = value
		applyProviderDefaults(cfg)
		// A model inherited from the previous provider's defaults won't fit
		// the new one; swap it for the new default.
		if cfg.Model == config.DefaultModelFor(prev) {
			cfg.Model = config.DefaultModelFor(value)
		}
	case "model":
		value = strings.TrimSpace(value)
		if value == "" {
			return fmt.Errorf("model cannot be empty")
		}
		cfg.Model = value
	case "ollama.host":
		if _, err := url.ParseRequestURI(value); err != nil {
			return fmt.Errorf("invalid URL %q: %w", value, err)
		}
		cfg.Ollama.Host = value
	case "openai.host":
		if _, err := url.ParseRequestURI(value); err != nil {
			return fmt.Errorf("invalid URL %q: %w", value, err)
		}
		cfg.OpenAI.Host = value
	case "strict":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("strict must be true or false, got %q", value)
		}
		cfg.Strict = b
	case "confirm_dangerous":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("confirm_dangerous must be true or false, got %q", value)
		}
		cfg.ConfirmDangerous = b
	case "auto_execute":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("auto_execute must be true or false, got %q", value)
		}
		cfg.AutoExecute = b
	case "history_size":
		n, err := strconv.Atoi(value)
		if err != nil || n <= 0 {
			return fmt.Errorf("history_size must be a positive number, got %q", value)
		}
		cfg.HistorySize = n
	case "log_level":
		switch strings.ToLower(strings.TrimSpace(value)) {
		case "debug", "info", "warn", "warning", "error":
			cfg.LogLevel = strings.ToLower(strings.TrimSpace(value))
		default:
			return fmt.Errorf("log_level must be one of debug/info/warn/error, got %q", value)
		}
	default:
		return fmt.Errorf("unknown config key: %s", key)
	}

	if err := cfg.Validate(); err != nil {
		return err
	}

	if err := config.Save(cfg); err != nil {
		return err
	}

	_, _ = fmt.Fprintf(ioOut, "Set %s = %s\n", key, value)
	return nil
}

// applyProviderDefaults fills hosts the newly selected provider needs but
// the current config never set.
func applyProviderDefaults(cfg *config.Config) {
	defaults := config.Default()
	switch cfg.Provider {
	case "ollama":
		if strings.TrimSpace(cfg.Ollama.Host) == "" {
			cfg.Ollama.Host = defaults.Ollama.Host
		}
	case "openai":
		if strings.TrimSpace(cfg.OpenAI.Host) == "" {
			cfg.OpenAI.Host = defaults.OpenAI.Host
		}
	}
	if strings.TrimSpace(cfg.Model) == "" {
		cfg.Model = config.DefaultModelFor(cfg.Provider)
	}
}
