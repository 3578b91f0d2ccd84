package cmd

import (
	"errors"
	"fmt"

	"github.com/hpkotak/shellsage/internal/config"
	"github.com/hpkotak/shellsage/internal/repl"
	"github.com/spf13/cobra"
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Start an interactive shell assistant session",
	Long: `Start an interactive chat session with ShellSage.
Ask questions, get commands, run them, and continue the conversation.

Type 'exit' or 'quit' to end the session. Ctrl+D also works.`,
	RunE: runChat,
}

func init() {
	rootCmd.AddCommand(chatCmd)
}

func runChat(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		if errors.Is(err, config.ErrNotFound) {
			return fmt.Errorf("no config found. Run 'sage setup' to get started")
		}
		return fmt.Errorf("loading config: %w", err)
	}

	setupLogging(cfg)

	model := cfg.Model
	if modelFlag != "" {
		model = modelFlag
	}

	p, err := newProvider(cfg, model)
	if err != nil {
		return fmt.Errorf("creating provider: %w", err)
	}

	return repl.Run(p, repl.Options{HistorySize: cfg.HistorySize}, ioIn, ioOut)
}
