// Package validate rejects commands that do not fit the shell and OS they
// would run in. Checks are heuristic substring and regex tests against
// static per-shell tables. Every applicable issue is collected rather than
// stopping at the first, so callers see the full picture before deciding
// to reject, warn, or proceed.
package validate

import (
	"regexp"
	"strings"
	"sync"

	"github.com/hpkotak/shellsage/internal/platform"
)

// IssueCode identifies one class of environment mismatch.
type IssueCode string

const (
	CodeForbiddenToken      IssueCode = "forbidden_token"
	CodePathSeparator       IssueCode = "path_separator"
	CodeOSShellMismatch     IssueCode = "os_shell_mismatch"
	CodeShellSyntaxMismatch IssueCode = "shell_syntax_mismatch"
)

// Issue is a single validation finding with machine-readable detail.
type Issue struct {
	Code    IssueCode
	Message string
	Detail  map[string]any
}

// Result collects the findings for one command. IsValid is false exactly
// when Issues is non-empty.
type Result struct {
	IsValid bool
	Issues  []Issue
}

func (r *Result) add(code IssueCode, message string, detail map[string]any) {
	r.IsValid = false
	r.Issues = append(r.Issues, Issue{Code: code, Message: message, Detail: detail})
}

// Reasons returns the issue messages in the order they were found.
func (r Result) Reasons() []string {
	if len(r.Issues) == 0 {
		return nil
	}
	reasons := make([]string, len(r.Issues))
	for i, issue := range r.Issues {
		reasons[i] = issue.Message
	}
	return reasons
}

// Options force validation against a specific environment. Empty fields
// fall back to live detection.
type Options struct {
	Shell string
	OS    string
}

// shellRules describes what a command must avoid to run under one shell.
type shellRules struct {
	forbiddenTokens []string
	wrongSep        string
	rightSep        string
}

// Forbidden-token lists. Tokens keep their space padding: the command is
// space-padded and lowercased before the substring test, so " ls " only
// hits the whole word while " chmod" also hits "chmod" at a word start.
var (
	foreignToCmd = []string{
		" ls ",
		"grep ",
		" cat ",
		" chmod",
		" chown",
		" find ",
		" which",
		" man ",
		" sudo",
		" tar ",
	}
	foreignToPowerShell = []string{
		" grep ",
		" cat ",
		" sed ",
		" awk ",
		" chmod",
		" chown",
		" sudo",
	}
	foreignToPosix = []string{
		" findstr",
		" dir ",
		" type ",
		" cls",
		" powershell",
		" pwsh",
	}
)

var rulesByShell = map[string]shellRules{
	"cmd":        {forbiddenTokens: foreignToCmd, wrongSep: "/", rightSep: `\`},
	"powershell": {forbiddenTokens: foreignToPowerShell, wrongSep: "/", rightSep: `\`},
	"pwsh":       {forbiddenTokens: foreignToPowerShell, wrongSep: "/", rightSep: `\`},
	"bash":       {forbiddenTokens: foreignToPosix, wrongSep: `\`, rightSep: "/"},
	"zsh":        {forbiddenTokens: foreignToPosix, wrongSep: `\`, rightSep: "/"},
	"fish":       {forbiddenTokens: foreignToPosix, wrongSep: `\`, rightSep: "/"},
}

// Patterns that strongly suggest PowerShell syntax.
var powershellHints = []string{
	`^\s*(Get|Set|New|Remove|Add|Import|Export|Invoke|Test|Update|ConvertTo|ConvertFrom|Write)-\w+`,
	`\s-\w+`,
	`\$\w+`,
}

// Patterns that strongly suggest CMD/batch syntax.
var cmdHints = []string{
	`^\s*for\s+/F`,
	`^\s*set\s+`,
	`^\s*echo\s+`,
	`\s&&\s`, // also legal in POSIX shells, heuristic only
	`\s\|\|\s`,
}

// Common POSIX command names. A command naming one of these is not flagged
// as PowerShell even when its flag syntax matches a PowerShell hint,
// otherwise plain "ls -la" would be rejected.
var posixCommon = []string{
	`\bls\b`,
	`\bgrep\b`,
	`\bcat\b`,
	`\bchmod\b`,
	`\bchown\b`,
	`\btar\b`,
	`\bfind\b`,
}

// Syntax that only makes sense outside CMD.
var unixOnlyHints = []string{
	`\bsudo\b`,
	`\bchmod\b`,
	`\bchown\b`,
	`~/`,
	`\$\w+`,
}

var (
	rePowerShellHints []*regexp.Regexp
	reCmdHints        []*regexp.Regexp
	rePosixCommon     []*regexp.Regexp
	reUnixOnlyHints   []*regexp.Regexp
	hintsOnce         sync.Once
)

func compileHints() {
	hintsOnce.Do(func() {
		rePowerShellHints = compileAll(powershellHints)
		reCmdHints = compileAll(cmdHints)
		rePosixCommon = compileAll(posixCommon)
		reUnixOnlyHints = compileAll(unixOnlyHints)
	})
}

func compileAll(patterns []string) []*regexp.Regexp {
	compiled := make([]*regexp.Regexp, len(patterns))
	for i, p := range patterns {
		compiled[i] = regexp.MustCompile(`(?i)` + p)
	}
	return compiled
}

// detectEnvironmentFn is swappable for tests.
var detectEnvironmentFn = detectEnvironment

func detectEnvironment() (osName, shellName string) {
	info := platform.GetInfo()
	return strings.ToLower(info.OSName), strings.ToLower(info.ShellName)
}

// ForEnvironment validates a command against an environment. Overrides in
// opts take precedence over live detection. When a value is unknown even
// after detection, the checks needing it are skipped: an unknown
// environment never rejects a command by itself.
func ForEnvironment(command string, opts Options) Result {
	result := Result{IsValid: true}
	compileHints()

	osName := strings.ToLower(opts.OS)
	shellName := strings.ToLower(opts.Shell)
	if osName == "" || shellName == "" {
		detectedOS, detectedShell := detectEnvironmentFn()
		if osName == "" {
			osName = detectedOS
		}
		if shellName == "" {
			shellName = detectedShell
		}
	}

	// Padded for the ' token ' substring checks.
	commandLC := " " + strings.ToLower(strings.TrimSpace(command)) + " "

	if rules, ok := rulesByShell[shellName]; ok {
		var found []string
		for _, token := range rules.forbiddenTokens {
			if strings.Contains(commandLC, token) {
				found = append(found, strings.TrimSpace(token))
			}
		}
		if len(found) > 0 {
			result.add(CodeForbiddenToken,
				"Command contains tokens forbidden for the detected shell.",
				map[string]any{"shell": shellName, "tokens": found})
		}

		// Only the wrong separator present and the right one absent counts
		// as a path problem; a command with no separator at all passes.
		if strings.Contains(command, rules.wrongSep) && !strings.Contains(command, rules.rightSep) {
			result.add(CodePathSeparator,
				"Command uses the wrong path separator for this shell.",
				map[string]any{"shell": shellName, "required": rules.rightSep, "found_wrong": rules.wrongSep})
		}
	}

	// Windows-flavored shell on a non-Windows OS.
	windowsShell := shellName == "powershell" || shellName == "pwsh" || shellName == "cmd"
	if !isWindowsName(osName) && windowsShell {
		if matchesAny(command, rePowerShellHints) || matchesAny(command, reCmdHints) {
			result.add(CodeOSShellMismatch,
				"Windows-specific shell syntax detected on a non-Windows OS.",
				map[string]any{"os": osName, "shell": shellName})
		}
	}

	// PowerShell-looking syntax under a shell known not to be PowerShell.
	// The posixCommon guard keeps ordinary flag syntax like "ls -la" from
	// being misread as a PowerShell parameter.
	if shellName != "" && shellName != "powershell" && shellName != "pwsh" {
		if matchesAny(command, rePowerShellHints) && !matchesAny(command, rePosixCommon) {
			result.add(CodeShellSyntaxMismatch,
				"PowerShell-specific syntax detected but current shell is not PowerShell.",
				map[string]any{"shell": shellName})
		}
	}

	if shellName == "cmd" && matchesAny(command, reUnixOnlyHints) {
		result.add(CodeShellSyntaxMismatch,
			"Unix-specific syntax detected but current shell is CMD.",
			map[string]any{"shell": shellName})
	}

	return result
}

func isWindowsName(osName string) bool {
	return strings.HasPrefix(osName, "win")
}

func matchesAny(command string, patterns []*regexp.Regexp) bool {
	for _, p := range patterns {
		if p.MatchString(command) {
			return true
		}
	}
	return false
}
