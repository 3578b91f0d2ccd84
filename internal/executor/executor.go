// Package executor handles user confirmation and shell command execution.
// Commands run through the detected shell so aliases, builtins, and pipe
// syntax behave the way the user expects. Confirm uses injectable
// io.Reader/io.Writer for testability.
package executor

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"regexp"
	"strings"
	"time"

	"github.com/hpkotak/shellsage/internal/logging"
	"github.com/hpkotak/shellsage/internal/platform"
	"github.com/hpkotak/shellsage/internal/safety"
)

// MaxOutputBytes is the maximum captured output size before truncation.
const MaxOutputBytes = 8192

// Result describes one finished command.
type Result struct {
	Command  string
	ExitCode int
	Stdout   string
	Stderr   string
	Duration time.Duration
	Success  bool
}

// Injection points. Tests replace these to pin the detected shell and to
// control pwsh discovery.
var (
	detectShellFn = platform.DetectShell
	lookPathFn    = exec.LookPath
)

// cmdletRe matches commands that only PowerShell can run: Verb-Noun cmdlets
// and $variable expressions. cmd.exe chokes on these, so they are routed to
// PowerShell even when the surrounding shell is cmd.
var cmdletRe = regexp.MustCompile(`^(?:(?:Get|Set|New|Remove|Add|Import|Export|Invoke|Test|Update|ConvertTo|ConvertFrom|Write)-\w+|\$\w+)`)

// shellArgv builds the argv that hands command to the right interpreter.
func shellArgv(command string) []string {
	name, _, _, ok := detectShellFn()
	if !ok {
		if platform.IsWindows() {
			name = "cmd"
		} else {
			name = "sh"
		}
	}

	if platform.IsWindows() && cmdletRe.MatchString(strings.TrimSpace(command)) {
		exe := "powershell"
		if _, err := lookPathFn("pwsh"); err == nil {
			exe = "pwsh"
		}
		return []string{exe, "-Command", command}
	}

	switch name {
	case "cmd":
		return []string{"cmd", "/C", command}
	case "powershell", "pwsh":
		return []string{name, "-Command", command}
	default:
		// bash, zsh, fish, sh, git-bash all take -c.
		return []string{name, "-c", command}
	}
}

// Confirm prompts the user for yes/no confirmation.
// defaultYes controls what happens when the user presses Enter without input.
// in and out are injectable for testing.
func Confirm(prompt string, defaultYes bool, in io.Reader, out io.Writer) bool {
	hint := "[Y/n]"
	if !defaultYes {
		hint = "[y/N]"
	}
	_, _ = fmt.Fprintf(out, "%s %s: ", prompt, hint)

	line, ok := ReadLine(in)
	if !ok {
		return false
	}

	switch strings.ToLower(line) {
	case "":
		return defaultYes
	case "y", "yes":
		return true
	case "n", "no":
		return false
	default:
		return false
	}
}

// ReadLine reads a single line from in, one byte at a time so nothing past
// the newline is consumed. Sequential prompts can therefore share one reader
// (stdin). The line is whitespace-trimmed; ok is false when the reader is
// exhausted before any byte arrives.
func ReadLine(in io.Reader) (line string, ok bool) {
	var b strings.Builder
	buf := make([]byte, 1)
	for {
		n, err := in.Read(buf)
		if n > 0 {
			ok = true
			if buf[0] == '\n' {
				break
			}
			b.WriteByte(buf[0])
		}
		if err != nil {
			break
		}
	}
	return strings.TrimSpace(b.String()), ok
}

// Run executes a shell command, inheriting stdin/stdout/stderr. Interactive
// commands (editors, pagers, REPLs) need this path.
func Run(command string) error {
	argv := shellArgv(command)
	log := logging.L()
	log.Debug().Str("command", safety.Sanitize(command)).Str("shell", argv[0]).Msg("run")

	cmd := exec.Command(argv[0], argv[1:]...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd.Run()
}

// RunCapture executes a command, showing output in real time while also
// capturing it for conversation context. Output is truncated at
// MaxOutputBytes. Non-zero exit codes are returned as data in Result, not as
// Go errors; cancelling ctx kills the child process.
func RunCapture(ctx context.Context, command string) (Result, error) {
	argv := shellArgv(command)
	log := logging.L()
	log.Debug().Str("command", safety.Sanitize(command)).Str("shell", argv[0]).Msg("run capture")

	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	cmd.Stdin = os.Stdin

	var stdout, stderr bytes.Buffer
	cmd.Stdout = io.MultiWriter(os.Stdout, &stdout)
	cmd.Stderr = io.MultiWriter(os.Stderr, &stderr)

	start := time.Now()
	runErr := cmd.Run()
	res := Result{
		Command:  command,
		Stdout:   truncate(stdout.String()),
		Stderr:   truncate(stderr.String()),
		Duration: time.Since(start),
	}

	if runErr != nil {
		if ctx.Err() != nil {
			return res, fmt.Errorf("command cancelled: %w", ctx.Err())
		}
		var exitErr *exec.ExitError
		if !errors.As(runErr, &exitErr) {
			return res, fmt.Errorf("executing command: %w", runErr)
		}
		res.ExitCode = exitErr.ExitCode()
	}

	res.Success = res.ExitCode == 0
	log.Debug().
		Str("command", safety.Sanitize(command)).
		Int("exit_code", res.ExitCode).
		Dur("duration", res.Duration).
		Msg("command finished")
	return res, nil
}

func truncate(s string) string {
	if len(s) > MaxOutputBytes {
		return s[:MaxOutputBytes] + "\n[output truncated]"
	}
	return s
}

// Combined joins captured stdout and stderr for display or model context.
func (r Result) Combined() string {
	if r.Stdout == "" {
		return r.Stderr
	}
	if r.Stderr == "" {
		return r.Stdout
	}
	return r.Stdout + "\n" + r.Stderr
}
