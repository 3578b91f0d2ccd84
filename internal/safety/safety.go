// Package safety analyzes shell commands for destructive behavior using
// regex pattern matching and per-command inspection. This is intentionally
// not LLM-based — safety checks must be deterministic, fast, and independent
// of the model that generated the command.
package safety

import (
	"fmt"
	"regexp"
	"strings"
	"sync"

	"github.com/hpkotak/shellsage/internal/cmdline"
)

// Level grades how destructive a command could be.
type Level int

const (
	None Level = iota
	Low
	Medium
	High
)

func (l Level) String() string {
	switch l {
	case Low:
		return "low"
	case Medium:
		return "medium"
	case High:
		return "high"
	}
	return "none"
}

// Assessment is the full safety verdict for one command. IsSafe is derived:
// false whenever Risk is anything but None.
type Assessment struct {
	Command           string
	IsSafe            bool
	Risk              Level
	Concerns          []string
	Recommendations   []string
	SaferAlternatives []string
}

// rawRule pairs an uncompiled dangerous pattern with the concern text shown
// to the user when it matches.
type rawRule struct {
	pattern     string
	description string
}

// dangerousRules defines patterns for dangerous commands. Matching is
// case-insensitive; every match contributes its description as a concern.
var dangerousRules = []rawRule{
	// File deletion
	{`\brm\s+(-[rf]+\s+|.*-[^-]*[rf].*\s+)`, "File deletion with rm -r or -f"},
	{`\brmdir\s+/s`, "Directory deletion with rmdir /s"},
	{`\bdel\s+/[fsq]`, "File deletion with del /f, /s, or /q"},

	// System modification
	{`\bchmod\s+777`, "Overly permissive file permissions (chmod 777)"},
	{`\bsudo\b`, "Privileged command execution (sudo)"},
	{`\bsu\b`, "Switch user command (su)"},
	{`\bformat\b`, "Disk formatting command"},
	{`\bmkfs\b`, "Filesystem creation command"},

	// Network operations
	{`\bcurl\s+.*\s+\|\s+sh`, "Piping curl output to shell"},
	{`\bwget\s+.*\s+\|\s+sh`, "Piping wget output to shell"},
	{`\bnc\b`, "Netcat command"},
	{`\bnetcat\b`, "Netcat command"},

	// Destructive redirections
	{`\s+>\s+/dev/(null|zero|random)`, "Redirection to device files"},
	{`\s+>\s+/proc/`, "Redirection to proc filesystem"},
	{`\s+>\s+/sys/`, "Redirection to sys filesystem"},

	// Windows-specific
	{`\bformat\s+[a-zA-Z]:`, "Disk formatting command"},
	{`\bdel\s+/[fsq].*\*\.[a-zA-Z0-9]+`, "Mass file deletion with wildcards"},
}

// sensitiveCommands maps base commands to the category concern they carry
// regardless of arguments. Commands here also get a deeper per-command look.
var sensitiveCommands = map[string]string{
	"rm":       "File deletion",
	"rmdir":    "Directory deletion",
	"del":      "File deletion (Windows)",
	"format":   "Disk formatting",
	"chmod":    "Change file permissions",
	"chown":    "Change file ownership",
	"dd":       "Disk operations",
	"mkfs":     "Create filesystem",
	"fdisk":    "Partition disk",
	"shutdown": "System shutdown",
	"reboot":   "System reboot",
	"halt":     "System halt",
	"poweroff": "System power off",
	"sudo":     "Privileged command execution",
	"su":       "Switch user",
}

var (
	dangerousPatterns []*regexp.Regexp
	rulesOnce         sync.Once
)

func compileRules() {
	rulesOnce.Do(func() {
		dangerousPatterns = make([]*regexp.Regexp, len(dangerousRules))
		for i, r := range dangerousRules {
			dangerousPatterns[i] = regexp.MustCompile(`(?i)` + r.pattern)
		}
	})
}

// Analyze assesses how destructive a command could be, independent of
// whether it fits the current shell. Empty input is safe by definition.
// Analyze never fails: malformed input at worst contributes a concern.
func Analyze(command string) Assessment {
	a := Assessment{Command: command, IsSafe: true, Risk: None}
	if strings.TrimSpace(command) == "" {
		return a
	}

	compileRules()
	for i, pattern := range dangerousPatterns {
		if pattern.MatchString(command) {
			a.Concerns = append(a.Concerns, dangerousRules[i].description)
		}
	}

	// The base command gets a category concern and a command-specific look.
	// Some of those looks force a minimum risk regardless of concern count.
	forced := None
	parts, err := cmdline.Tokens(command)
	switch {
	case err != nil:
		a.Concerns = append(a.Concerns, "Command parsing failed, potentially malformed command")
	case len(parts) > 0:
		base := strings.ToLower(parts[0])
		if category, ok := sensitiveCommands[base]; ok {
			a.addConcern(category)
			forced = a.inspect(base, command, parts)
		}
	}

	a.Risk = riskFromConcerns(a.Concerns)
	if forced > a.Risk {
		a.Risk = forced
	}
	a.IsSafe = a.Risk == None
	return a
}

// inspect dispatches to the per-command analysis and returns the minimum
// risk that analysis demands, or None when concerns alone should decide.
func (a *Assessment) inspect(base, command string, parts []string) Level {
	switch base {
	case "rm":
		a.inspectRemove(command, parts)
	case "chmod":
		a.inspectChmod(command, parts)
	case "dd":
		return a.inspectDiskCopy(parts)
	case "shutdown", "reboot", "halt", "poweroff":
		a.inspectPower(command, parts)
	case "sudo", "su":
		return a.inspectPrivilege(parts)
	}
	return None
}

func (a *Assessment) inspectRemove(command string, parts []string) {
	recursive, force := false, false
	for _, part := range parts[1:] {
		if !strings.HasPrefix(part, "-") {
			continue
		}
		if strings.ContainsAny(part, "rR") {
			recursive = true
		}
		if strings.Contains(part, "f") {
			force = true
		}
	}

	if recursive {
		a.Concerns = append(a.Concerns, "Recursive deletion (-r or -R flag)")
	}
	if force {
		a.Concerns = append(a.Concerns, "Forced deletion without confirmation (-f flag)")
	}
	if strings.Contains(command, "*") {
		a.Concerns = append(a.Concerns, "Wildcard deletion (may delete more files than intended)")
	}

	if force {
		safer := strings.NewReplacer(" -f", " -i", "-rf", "-ri", "-fr", "-ir").Replace(command)
		a.SaferAlternatives = append(a.SaferAlternatives, safer)
		a.Recommendations = append(a.Recommendations, "Use -i flag for interactive confirmation instead of -f")
	}
	if !recursive && !force {
		a.Recommendations = append(a.Recommendations, "Consider using -i flag for interactive confirmation")
	}
}

func (a *Assessment) inspectChmod(command string, parts []string) {
	for _, part := range parts[1:] {
		if part != "777" && part != "a+rwx" {
			continue
		}
		a.Concerns = append(a.Concerns, "Overly permissive file permissions (777 or a+rwx)")
		a.Recommendations = append(a.Recommendations, "Consider more restrictive permissions like 755 for directories or 644 for files")
		if part == "777" {
			a.SaferAlternatives = append(a.SaferAlternatives, strings.ReplaceAll(command, "777", "755"))
		} else {
			a.SaferAlternatives = append(a.SaferAlternatives, strings.ReplaceAll(command, "a+rwx", "u+rwx,go+rx"))
		}
	}
}

func (a *Assessment) inspectDiskCopy(parts []string) Level {
	forced := None
	for _, part := range parts {
		if !strings.HasPrefix(part, "if=") && !strings.HasPrefix(part, "of=") {
			continue
		}
		_, device, _ := strings.Cut(part, "=")
		if strings.HasPrefix(device, "/dev/") {
			a.Concerns = append(a.Concerns, fmt.Sprintf("Direct disk operation on device %s", device))
			a.Recommendations = append(a.Recommendations, "Be extremely careful with dd operations on device files")
			forced = High
		}
	}
	return forced
}

func (a *Assessment) inspectPower(command string, parts []string) {
	a.Concerns = append(a.Concerns, "System power state change (may interrupt work)")
	a.Recommendations = append(a.Recommendations, "Ensure all work is saved before executing this command")

	immediate := strings.Contains(command, "-t 0")
	for _, part := range parts {
		if part == "now" {
			immediate = true
		}
	}
	if !immediate {
		return
	}

	a.Concerns = append(a.Concerns, "Immediate shutdown without delay")
	if strings.Contains(command, "-t 0") {
		a.SaferAlternatives = append(a.SaferAlternatives, strings.ReplaceAll(command, "-t 0", "-t 60"))
		a.Recommendations = append(a.Recommendations, "Consider adding a time delay with -t to allow for preparation")
	}
}

// inspectPrivilege handles sudo and su. For sudo, the wrapped command is
// analyzed on its own and its concerns merged back with an "Elevated: "
// prefix. Prefixing is bounded to one level: concerns already marked
// elevated by a nested sudo are merged as-is.
func (a *Assessment) inspectPrivilege(parts []string) Level {
	a.Concerns = append(a.Concerns, "Privilege escalation (may allow unrestricted system access)")

	if parts[0] == "sudo" && len(parts) > 1 {
		if _, ok := sensitiveCommands[parts[1]]; ok {
			a.Concerns = append(a.Concerns, fmt.Sprintf("Running sensitive command '%s' with elevated privileges", parts[1]))
		}

		elevated := Analyze(strings.Join(parts[1:], " "))
		for _, concern := range elevated.Concerns {
			if a.hasConcern(concern) {
				continue
			}
			if !strings.HasPrefix(concern, "Elevated: ") {
				concern = "Elevated: " + concern
			}
			a.addConcern(concern)
		}
	}

	a.Recommendations = append(a.Recommendations,
		"Use privilege escalation only when absolutely necessary",
		"Consider using more specific permissions or a non-root user if possible",
	)
	return High
}

func (a *Assessment) hasConcern(concern string) bool {
	for _, existing := range a.Concerns {
		if existing == concern {
			return true
		}
	}
	return false
}

func (a *Assessment) addConcern(concern string) {
	if !a.hasConcern(concern) {
		a.Concerns = append(a.Concerns, concern)
	}
}

// riskFromConcerns grades accumulated concerns: none without concerns, low
// for a single minor one, high as soon as privilege escalation is involved,
// medium otherwise.
func riskFromConcerns(concerns []string) Level {
	joined := strings.ToLower(strings.Join(concerns, " "))
	switch {
	case len(concerns) == 0:
		return None
	case len(concerns) == 1 && !containsAny(joined, "deletion", "format", "privileged"):
		return Low
	case containsAny(joined, "privileged", "sudo", "su"):
		return High
	default:
		return Medium
	}
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

var (
	reShellMeta = regexp.MustCompile("[;&|><`$]")
	reControl   = regexp.MustCompile(`[\r\n\t\f\v]`)
	reSpaces    = regexp.MustCompile(`\s+`)
)

// Sanitize strips shell metacharacters, quotes, and control characters from
// a command and collapses whitespace. The result is safe to embed in logs
// and messages, not to execute.
func Sanitize(command string) string {
	s := reShellMeta.ReplaceAllString(command, "")
	s = strings.NewReplacer(`"`, "", "'", "").Replace(s)
	s = reControl.ReplaceAllString(s, " ")
	return strings.TrimSpace(reSpaces.ReplaceAllString(s, " "))
}
