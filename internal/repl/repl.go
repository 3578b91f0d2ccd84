// Package repl implements the interactive chat loop for ShellSage.
// It manages conversation history, environment context refresh, and
// the run/explain/skip command interaction flow.
//
// Environment context is refreshed every turn (not cached) because the user's
// shell state changes between prompts (cd, git operations, file creation).
// History is capped rather than summarized — token limits are the LLM's problem
// via context window, not ours.
package repl

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/hpkotak/shellsage/internal/executor"
	"github.com/hpkotak/shellsage/internal/prompt"
	"github.com/hpkotak/shellsage/internal/provider"
	"github.com/hpkotak/shellsage/internal/safety"
	"github.com/hpkotak/shellsage/internal/shellenv"
	"github.com/hpkotak/shellsage/internal/validate"
)

const (
	chatTimeout        = 120 * time.Second
	envTimeout         = 2 * time.Second
	defaultHistorySize = 50
)

// Options tunes the loop. Zero values fall back to defaults.
type Options struct {
	// HistorySize caps the number of retained conversation messages.
	HistorySize int
}

// Package-level function variables for testability.
var (
	runCapture = executor.RunCapture
	gatherEnv  = shellenv.Gather
)

// Run starts the interactive REPL loop.
func Run(p provider.Provider, opts Options, in io.Reader, out io.Writer) error {
	maxHistory := opts.HistorySize
	if maxHistory <= 0 {
		maxHistory = defaultHistorySize
	}

	_, _ = fmt.Fprintln(out, "ShellSage Chat (type 'exit' to quit)")
	_, _ = fmt.Fprintln(out)

	scanner := bufio.NewScanner(in)
	var history []provider.Message

	for {
		_, _ = fmt.Fprint(out, "sage> ")

		if !scanner.Scan() {
			if err := scanner.Err(); err != nil {
				_, _ = fmt.Fprintf(out, "\nInput error: %v\n", err)
				return err
			}
			_, _ = fmt.Fprintln(out)
			break // EOF (Ctrl+D)
		}

		input := strings.TrimSpace(scanner.Text())
		if input == "" {
			continue
		}
		if input == "exit" || input == "quit" {
			_, _ = fmt.Fprintln(out, "Bye!")
			return nil
		}

		// Refresh environment context each turn.
		envSnap := snapshotEnv()
		sysMsg := provider.Message{
			Role:    "system",
			Content: prompt.ChatSystemPrompt(envSnap.Format()),
		}

		// Add user message to history.
		history = append(history, provider.Message{Role: "user", Content: input})

		// Trim history if too long (keep most recent messages).
		if len(history) > maxHistory {
			history = history[len(history)-maxHistory:]
		}

		// Build full message list: system + history.
		messages := make([]provider.Message, 0, 1+len(history))
		messages = append(messages, sysMsg)
		messages = append(messages, history...)

		result, err := sendMessage(p, messages)
		if err != nil {
			_, _ = fmt.Fprintf(out, "Error: %v\n\n", err)
			continue
		}

		if result.Warning != "" {
			_, _ = fmt.Fprintf(out, "\n  Note: %s\n", result.Warning)
		}

		// Add assistant response to history.
		history = append(history, provider.Message{Role: "assistant", Content: result.Text})

		parsed := prompt.ParseChatResponse(result.Text)

		// Display the full response.
		_, _ = fmt.Fprintf(out, "\n%s\n", parsed.Text)
		if !parsed.Structured {
			_, _ = fmt.Fprintln(out, "  Note: model response was not valid structured output; no commands were run.")
		}

		// Handle any extracted commands.
		for _, command := range parsed.Commands {
			handleCommand(command, envSnap, &history, sysMsg, p, scanner, out)
		}

		_, _ = fmt.Fprintln(out)
	}

	return nil
}

func snapshotEnv() shellenv.Snapshot {
	ctx, cancel := context.WithTimeout(context.Background(), envTimeout)
	defer cancel()
	return gatherEnv(ctx)
}

func sendMessage(p provider.Provider, messages []provider.Message) (provider.ChatResponse, error) {
	ctx, cancel := context.WithTimeout(context.Background(), chatTimeout)
	defer cancel()

	return p.Chat(ctx, provider.ChatRequest{
		Messages:   messages,
		ExpectJSON: true,
	})
}

// handleCommand shows the verdicts for one proposed command and dispatches
// the user's run/explain/skip choice. Commands rated medium risk or above,
// or that do not fit the current environment, require a second, default-no
// confirmation.
func handleCommand(command string, envSnap shellenv.Snapshot, history *[]provider.Message, sysMsg provider.Message, p provider.Provider, scanner *bufio.Scanner, out io.Writer) {
	_, _ = fmt.Fprintf(out, "\n  > %s\n", command)

	verdict := validate.ForEnvironment(command, validate.Options{Shell: envSnap.Shell, OS: envSnap.OS})
	for _, reason := range verdict.Reasons() {
		_, _ = fmt.Fprintf(out, "  Issue: %s\n", reason)
	}

	assessment := safety.Analyze(command)
	if !assessment.IsSafe {
		_, _ = fmt.Fprintf(out, "  Risk: %s\n", assessment.Risk)
		for _, concern := range assessment.Concerns {
			_, _ = fmt.Fprintf(out, "    - %s\n", concern)
		}
		for _, alt := range assessment.SaferAlternatives {
			_, _ = fmt.Fprintf(out, "  Safer: %s\n", alt)
		}
	}

	_, _ = fmt.Fprint(out, "  [r]un / [e]xplain / [s]kip: ")

	if !scanner.Scan() {
		if err := scanner.Err(); err != nil {
			_, _ = fmt.Fprintf(out, "  Input error: %v\n", err)
		}
		return
	}
	choice := strings.TrimSpace(strings.ToLower(scanner.Text()))

	switch choice {
	case "r", "run":
		if assessment.Risk >= safety.Medium || !verdict.IsValid {
			_, _ = fmt.Fprint(out, "  Are you sure? [y/N]: ")
			if !scanner.Scan() {
				if err := scanner.Err(); err != nil {
					_, _ = fmt.Fprintf(out, "  Input error: %v\n", err)
				}
				return
			}
			confirm := strings.TrimSpace(strings.ToLower(scanner.Text()))
			if confirm != "y" && confirm != "yes" {
				_, _ = fmt.Fprintln(out, "  Skipped.")
				return
			}
		}

		_, _ = fmt.Fprintln(out)
		ctx, cancel := context.WithCancel(context.Background())
		res, err := runCapture(ctx, command)
		cancel()
		if err != nil {
			_, _ = fmt.Fprintf(out, "  Execution error: %v\n", err)
			return
		}

		// Add command output to conversation context.
		contextMsg := fmt.Sprintf("I ran `%s` — exit code %d.", command, res.ExitCode)
		if output := res.Combined(); output != "" {
			contextMsg += fmt.Sprintf("\nOutput:\n```\n%s\n```", output)
		}
		*history = append(*history, provider.Message{
			Role:    "user",
			Content: contextMsg,
		})

	case "e", "explain":
		explainMsg := provider.Message{
			Role:    "user",
			Content: fmt.Sprintf("Explain what this command does step by step: `%s`", command),
		}
		*history = append(*history, explainMsg)

		// Build messages for immediate LLM call.
		messages := make([]provider.Message, 0, 1+len(*history))
		messages = append(messages, sysMsg)
		messages = append(messages, *history...)

		result, err := sendMessage(p, messages)
		if err != nil {
			_, _ = fmt.Fprintf(out, "  Explain error: %v\n", err)
			return
		}

		*history = append(*history, provider.Message{Role: "assistant", Content: result.Text})
		explanation := prompt.ParseChatResponse(result.Text).Text
		_, _ = fmt.Fprintf(out, "\n%s\n", explanation)

	case "s", "skip", "":
		_, _ = fmt.Fprintln(out, "  Skipped.")
	default:
		_, _ = fmt.Fprintln(out, "  Skipped.")
	}
}
