package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/hpkotak/shellsage/internal/cmdline"
	"github.com/hpkotak/shellsage/internal/config"
	"github.com/hpkotak/shellsage/internal/executor"
	"github.com/hpkotak/shellsage/internal/logging"
	"github.com/hpkotak/shellsage/internal/prompt"
	"github.com/hpkotak/shellsage/internal/provider"
	"github.com/hpkotak/shellsage/internal/safety"
	"github.com/hpkotak/shellsage/internal/secrets"
	"github.com/hpkotak/shellsage/internal/shellenv"
	"github.com/hpkotak/shellsage/internal/validate"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

const translateTimeout = 60 * time.Second

var (
	modelFlag  string
	debugFlag  bool
	yesFlag    bool
	noExecFlag bool
)

// Package-level function variables for testability.
// Tests override these to avoid real provider/executor calls.
var (
	newProvider = providerFromConfig
	runCommand  = executor.Run
	gatherEnv   = shellenv.Gather
	ioIn        io.Reader = os.Stdin
	ioOut       io.Writer = os.Stdout
)

var rootCmd = &cobra.Command{
	Use:   "sage [natural language query]",
	Short: "Translate natural language to shell commands",
	Long: `ShellSage (sage) translates natural language descriptions into shell
commands, checks them against the detected shell and platform, and flags
anything risky before it runs.

Examples:
  sage compress this folder as tar.gz
  sage find all files larger than 100MB
  sage show disk usage sorted by size`,
	Args:              cobra.ArbitraryArgs,
	RunE:              runTranslate,
	DisableAutoGenTag: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&modelFlag, "model", "", "override model for this invocation")
	rootCmd.PersistentFlags().BoolVar(&debugFlag, "debug", false, "enable debug logging to the log file and stderr")
	rootCmd.Flags().BoolVarP(&yesFlag, "yes", "y", false, "execute without asking (risky commands still confirm)")
	rootCmd.Flags().BoolVar(&noExecFlag, "no-exec", false, "translate and check only, never execute")
}

func Execute() error {
	return rootCmd.Execute()
}

// providerFromConfig builds the configured backend, pulling API keys from
// the keychain (or environment) as needed.
func providerFromConfig(cfg *config.Config, model string) (provider.Provider, error) {
	return provider.NewFromConfig(provider.BuildConfig{
		Name:            cfg.Provider,
		Model:           model,
		OllamaHost:      cfg.Ollama.Host,
		OpenAIHost:      cfg.OpenAI.Host,
		OpenAIAPIKey:    secrets.GetAPIKey("openai"),
		AnthropicAPIKey: secrets.GetAPIKey("anthropic"),
	})
}

// setupLogging configures the shared logger from config. --debug raises the
// level and mirrors log lines to stderr; user-facing output is unaffected.
func setupLogging(cfg *config.Config) zerolog.Logger {
	level := cfg.LogLevel
	if debugFlag {
		level = "debug"
	}
	return logging.Setup(level, config.LogPath(), debugFlag)
}

func runTranslate(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		return cmd.Help()
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("no config found. Run 'sage setup' to get started")
	}

	log := setupLogging(cfg)
	traceID := uuid.NewString()

	model := cfg.Model
	if modelFlag != "" {
		model = modelFlag
	}

	p, err := newProvider(cfg, model)
	if err != nil {
		return fmt.Errorf("creating provider: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), translateTimeout)
	defer cancel()

	query := strings.Join(args, " ")
	log.Debug().
		Str("trace_id", traceID).
		Str("provider", p.Name()).
		Str("model", model).
		Str("query", query).
		Msg("translating query")

	snap := gatherEnv(ctx)

	resp, err := p.Chat(ctx, provider.ChatRequest{
		Messages: []provider.Message{
			{Role: "system", Content: prompt.TranslateSystemPrompt(snap)},
			{Role: "user", Content: query},
		},
		Schema: prompt.Schema(),
	})
	if err != nil {
		return fmt.Errorf("translation failed: %w", err)
	}
	if resp.Warning != "" {
		_, _ = fmt.Fprintf(ioOut, "  Note: %s\n", resp.Warning)
	}
	log.Debug().
		Str("trace_id", traceID).
		Int("input_tokens", resp.Usage.InputTokens).
		Int("output_tokens", resp.Usage.OutputTokens).
		Str("finish_reason", resp.FinishReason).
		Msg("translation response")

	t, err := prompt.ParseTranslation(resp.Text)
	if err != nil {
		return fmt.Errorf("translation failed: %w", err)
	}

	_, _ = fmt.Fprintf(ioOut, "\n  %s\n\n", t.Command)
	if t.Explanation != "" {
		_, _ = fmt.Fprintf(ioOut, "  %s\n", t.Explanation)
	}
	if len(t.Alternatives) > 0 {
		_, _ = fmt.Fprintln(ioOut, "  Alternatives:")
		for _, alt := range t.Alternatives {
			_, _ = fmt.Fprintf(ioOut, "    - %s\n", alt)
		}
	}

	verdict := validate.ForEnvironment(t.Command, validate.Options{Shell: snap.Shell, OS: snap.OS})
	for _, reason := range verdict.Reasons() {
		_, _ = fmt.Fprintf(ioOut, "  Issue: %s\n", reason)
	}
	if !verdict.IsValid && cfg.Strict {
		log.Warn().Str("trace_id", traceID).Str("command", safety.Sanitize(t.Command)).Msg("strict validation rejected command")
		return fmt.Errorf("command does not fit the detected environment")
	}

	assessment := safety.Analyze(t.Command)
	if !assessment.IsSafe {
		_, _ = fmt.Fprintf(ioOut, "  Risk: %s\n", assessment.Risk)
		for _, concern := range assessment.Concerns {
			_, _ = fmt.Fprintf(ioOut, "    - %s\n", concern)
		}
		for _, alt := range assessment.SaferAlternatives {
			_, _ = fmt.Fprintf(ioOut, "  Safer: %s\n", alt)
		}
	} else if worthConfirming, reasons := cmdline.NeedsConfirmation(t.Command); worthConfirming {
		// Not dangerous, but worth a heads-up (moves data, touches remote
		// hosts, changes installed software).
		for _, reason := range reasons {
			_, _ = fmt.Fprintf(ioOut, "  Note: %s\n", reason)
		}
	}
	if t.IsDangerous && len(t.Safety.Concerns) > 0 {
		_, _ = fmt.Fprintln(ioOut, "  Model concerns:")
		for _, concern := range t.Safety.Concerns {
			_, _ = fmt.Fprintf(ioOut, "    - %s\n", concern)
		}
	}

	if noExecFlag {
		return nil
	}

	dangerous := t.IsDangerous || assessment.Risk >= safety.Medium || !verdict.IsValid

	autoExec := yesFlag || cfg.AutoExecute
	if autoExec && dangerous && cfg.ConfirmDangerous {
		autoExec = false
	}

	var confirmed bool
	switch {
	case autoExec:
		confirmed = true
	case dangerous:
		confirmed = executor.Confirm("  Are you sure?", false, ioIn, ioOut)
	default:
		confirmed = executor.Confirm("  Run this?", true, ioIn, ioOut)
	}

	if !confirmed {
		_, _ = fmt.Fprintln(ioOut, "  Cancelled.")
		return nil
	}

	_, _ = fmt.Fprintln(ioOut)
	log.Info().Str("trace_id", traceID).Str("command", safety.Sanitize(t.Command)).Msg("executing command")
	return runCommand(t.Command)
}
