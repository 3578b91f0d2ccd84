package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/hpkotak/shellsage/internal/cmdline"
	"github.com/hpkotak/shellsage/internal/config"
	"github.com/hpkotak/shellsage/internal/prompt"
	"github.com/hpkotak/shellsage/internal/provider"
	"github.com/hpkotak/shellsage/internal/safety"
	"github.com/spf13/cobra"
)

var explainCmd = &cobra.Command{
	Use:   "explain <command>",
	Short: "Explain what a shell command does",
	Long: `Explain a shell command: what it accomplishes, what each part means,
and how risky it is to run.

Examples:
  sage explain "tar -czvf backup.tar.gz ./src"
  sage explain rm -rf /tmp/cache`,
	Args: cobra.MinimumNArgs(1),
	RunE: runExplain,
}

func init() {
	rootCmd.AddCommand(explainCmd)
}

func runExplain(cmd *cobra.Command, args []string) error {
	command := strings.Join(args, " ")

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("no config found. Run 'sage setup' to get started")
	}

	log := setupLogging(cfg)

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

	log.Debug().Str("command", safety.Sanitize(command)).Msg("explaining command")

	resp, err := p.Chat(ctx, provider.ChatRequest{
		Messages: []provider.Message{
			{Role: "system", Content: prompt.ExplainSystemPrompt()},
			{Role: "user", Content: prompt.ExplainUserMessage(command)},
		},
		Schema: prompt.ExplanationSchema(),
	})
	if err != nil {
		return fmt.Errorf("explanation failed: %w", err)
	}

	_, _ = fmt.Fprintf(ioOut, "\n  %s\n\n", command)

	// A response that breaks the JSON contract degrades to the local
	// breakdown instead of failing the whole command.
	e, err := prompt.ParseExplanation(resp.Text)
	if err != nil {
		_, _ = fmt.Fprintln(ioOut, "  Note: model response was not structured; showing local breakdown only.")
	} else {
		_, _ = fmt.Fprintf(ioOut, "  %s\n", e.Explanation)
	}

	components := e.Components
	if len(components) == 0 {
		components = cmdline.Components(command)
	}
	if len(components) > 0 {
		_, _ = fmt.Fprintln(ioOut, "\n  Components:")
		for _, c := range components {
			_, _ = fmt.Fprintf(ioOut, "    %-14s %s\n", c.Part, c.Description)
		}
	}

	if len(e.Examples) > 0 {
		_, _ = fmt.Fprintln(ioOut, "\n  Examples:")
		for _, example := range e.Examples {
			_, _ = fmt.Fprintf(ioOut, "    - %s\n", example)
		}
	}
	if len(e.RelatedCommands) > 0 {
		_, _ = fmt.Fprintf(ioOut, "\n  Related: %s\n", strings.Join(e.RelatedCommands, ", "))
	}

	assessment := safety.Analyze(command)
	if !assessment.IsSafe {
		_, _ = fmt.Fprintf(ioOut, "\n  Risk: %s\n", assessment.Risk)
		for _, concern := range assessment.Concerns {
			_, _ = fmt.Fprintf(ioOut, "    - %s\n", concern)
		}
		for _, rec := range assessment.Recommendations {
			_, _ = fmt.Fprintf(ioOut, "  Tip: %s\n", rec)
		}
		for _, alt := range assessment.SaferAlternatives {
			_, _ = fmt.Fprintf(ioOut, "  Safer: %s\n", alt)
		}
	}

	return nil
}
