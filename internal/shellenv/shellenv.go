// Package shellenv gathers the user's current shell environment for LLM context.
// All gathering is best-effort: individual failures produce empty fields, never errors.
package shellenv

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"sort"
	"strings"
	"time"

	"github.com/hpkotak/shellsage/internal/platform"
)

const (
	cmdTimeout     = 2 * time.Second
	maxDirLines    = 50
	maxGitLogLines = 5
)

// Snapshot holds the user's current environment state.
type Snapshot struct {
	CWD          string
	DirList      string                // first maxDirLines lines of ls -la
	OS           string                // runtime.GOOS
	OSVersion    string                // numeric OS version, empty when unknown
	Shell        string                // detected shell name (bash, zsh, powershell, ...)
	ShellVersion string                // detected shell version, empty when unknown
	Arch         string                // runtime.GOARCH
	Capabilities platform.Capabilities // capability profile of the detected shell
	GitBranch    string                // empty if not a git repo
	GitDirty     bool                  // has uncommitted changes
	GitRecent    string                // last N commit onelines
	Env          map[string]string     // filtered env vars
}

// execCommandFn is injectable for testing. Default calls exec.Command().Output().
var execCommandFn = defaultExecCommand

func defaultExecCommand(ctx context.Context, name string, args ...string) (string, error) {
	out, err := exec.CommandContext(ctx, name, args...).Output()
	return string(out), err
}

// Platform lookups are injectable for testing.
var (
	getInfoFn         = platform.GetInfo
	capabilitiesForFn = platform.CapabilitiesFor
)

// envVarAllowlist is the set of environment variables worth including in context.
var envVarAllowlist = []string{"EDITOR", "VISUAL", "LANG", "TERM", "HOME", "USER"}

// Gather collects the current environment snapshot within a 2 second budget.
// Individual failures are swallowed — the snapshot is best-effort.
func Gather(ctx context.Context) Snapshot {
	ctx, cancel := context.WithTimeout(ctx, cmdTimeout)
	defer cancel()

	info := getInfoFn()

	s := Snapshot{
		OS:           info.OSName,
		OSVersion:    info.OSVersion,
		Shell:        info.ShellName,
		ShellVersion: info.ShellVersion,
		Arch:         info.Architecture,
		Env:          gatherEnv(),
	}
	if s.Shell != "" {
		s.Capabilities = capabilitiesForFn(s.Shell)
	}

	s.CWD, _ = os.Getwd()
	s.DirList = gatherDirList(ctx)
	s.GitBranch = gatherGitBranch(ctx)
	s.GitDirty = gatherGitDirty(ctx)
	s.GitRecent = gatherGitRecent(ctx)

	return s
}

// Format renders the snapshot as a string for embedding in the system prompt.
func (s Snapshot) Format() string {
	var b strings.Builder

	if s.OSVersion != "" {
		fmt.Fprintf(&b, "OS: %s %s (%s)\n", s.OS, s.OSVersion, s.Arch)
	} else {
		fmt.Fprintf(&b, "OS: %s (%s)\n", s.OS, s.Arch)
	}

	if s.ShellVersion != "" {
		fmt.Fprintf(&b, "Shell: %s %s\n", s.Shell, s.ShellVersion)
	} else {
		fmt.Fprintf(&b, "Shell: %s\n", s.Shell)
	}

	if caps := enabledCapabilities(s.Capabilities); len(caps) > 0 {
		fmt.Fprintf(&b, "Shell capabilities: %s\n", strings.Join(caps, ", "))
	}

	if s.CWD != "" {
		fmt.Fprintf(&b, "Working directory: %s\n", s.CWD)
	}

	if s.GitBranch != "" {
		status := "clean"
		if s.GitDirty {
			status = "dirty"
		}
		fmt.Fprintf(&b, "Git branch: %s (%s)\n", s.GitBranch, status)
	}

	if s.GitRecent != "" {
		fmt.Fprintf(&b, "Recent commits:\n%s\n", s.GitRecent)
	}

	if s.DirList != "" {
		fmt.Fprintf(&b, "Directory contents:\n%s\n", s.DirList)
	}

	if len(s.Env) > 0 {
		fmt.Fprintf(&b, "Environment:\n")
		for _, key := range envVarAllowlist {
			if val, ok := s.Env[key]; ok {
				fmt.Fprintf(&b, "  %s=%s\n", key, val)
			}
		}
	}

	return b.String()
}

// enabledCapabilities lists the capability names that are set, sorted for
// stable output.
func enabledCapabilities(caps platform.Capabilities) []string {
	names := make([]string, 0, len(caps))
	for name, enabled := range caps {
		if enabled {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

func gatherEnv() map[string]string {
	env := make(map[string]string)
	for _, key := range envVarAllowlist {
		if val := os.Getenv(key); val != "" {
			env[key] = val
		}
	}
	return env
}

func gatherDirList(ctx context.Context) string {
	out, err := execCommandFn(ctx, "ls", "-la")
	if err != nil {
		return ""
	}
	return truncateLines(out, maxDirLines)
}

func gatherGitBranch(ctx context.Context) string {
	out, err := execCommandFn(ctx, "git", "rev-parse", "--abbrev-ref", "HEAD")
	if err != nil {
		return ""
	}
	return strings.TrimSpace(out)
}

func gatherGitDirty(ctx context.Context) bool {
	out, err := execCommandFn(ctx, "git", "status", "--porcelain")
	if err != nil {
		return false
	}
	return strings.TrimSpace(out) != ""
}

func gatherGitRecent(ctx context.Context) string {
	out, err := execCommandFn(ctx, "git", "log", "--oneline", fmt.Sprintf("-%d", maxGitLogLines))
	if err != nil {
		return ""
	}
	return strings.TrimSpace(out)
}

func truncateLines(s string, max int) string {
	lines := strings.Split(strings.TrimSpace(s), "\n")
	if len(lines) <= max {
		return strings.TrimSpace(s)
	}
	truncated := strings.Join(lines[:max], "\n")
	return truncated + fmt.Sprintf("\n[... %d more entries]", len(lines)-max)
}
