package prompt

import (
	"fmt"
	"strings"

	"github.com/hpkotak/shellsage/internal/shellenv"
)

const windowsGuidance = `The user is on a Windows system. Use Windows-compatible commands.
- Prefer PowerShell commands when appropriate
- Use CMD commands when simpler or more universal
- Use correct path separators (backslashes)
- Consider Windows-specific tools and utilities`

const macGuidance = `The user is on a macOS system. Use macOS-compatible commands.
- Use Unix-style commands
- Consider macOS-specific tools like Homebrew
- Use correct path separators (forward slashes)
- Be aware of macOS file system peculiarities`

const linuxGuidance = `The user is on a Linux system. Use Linux-compatible commands.
- Use standard Unix commands
- Consider the common Linux tools and utilities
- Use correct path separators (forward slashes)
- Be aware of different package managers for different distributions`

const gitBashPlatformGuidance = `The user is on Windows but using Git Bash (a Unix-like environment).
- Use Unix-style commands, NOT Windows commands
- Use forward slashes for paths, not backslashes
- Use standard Unix commands like ls, grep, find, etc.
- Do NOT use PowerShell cmdlets or CMD commands`

func platformGuidance(snap shellenv.Snapshot) string {
	if isGitBashOnWindows(snap) {
		return gitBashPlatformGuidance
	}
	switch snap.OS {
	case "windows":
		return windowsGuidance
	case "darwin":
		return macGuidance
	case "linux":
		return linuxGuidance
	}
	return "Use commands compatible with standard Unix-like systems."
}

var shellIntros = map[string]string{
	"bash":       "The user is using Bash shell. Use Bash syntax for commands.",
	"zsh":        "The user is using Zsh shell. Use Zsh syntax for commands.",
	"fish":       "The user is using Fish shell. Use Fish syntax for commands.",
	"powershell": "The user is using PowerShell. Use PowerShell cmdlets and syntax.",
	"pwsh":       "The user is using PowerShell. Use PowerShell cmdlets and syntax.",
	"cmd":        "The user is using Windows Command Prompt. Use CMD syntax for commands.",
}

const gitBashIntro = `The user is using Git Bash on Windows. Use Unix/Bash commands, NOT PowerShell or CMD commands.
- Use standard Unix commands like ls, grep, cat, etc.
- Use forward slashes for paths, not backslashes
- Remember that Git Bash is a Unix-like environment on Windows
- Do NOT use PowerShell cmdlets or CMD commands`

// capabilityExplanations maps capability keys to the human phrasing used in
// the prompt, in a fixed render order.
var capabilityExplanations = []struct{ key, text string }{
	{"supports_redirection", "Supports input/output redirection"},
	{"supports_pipes", "Supports command piping"},
	{"filename_completion", "Supports filename tab completion"},
	{"command_aliases", "Supports command aliases/shortcuts"},
	{"array_support", "Supports array data structures"},
	{"process_substitution", "Supports process substitution"},
	{"supports_unicode", "Supports Unicode characters"},
	{"multiline_commands", "Supports multi-line commands"},
	{"command_history", "Maintains command history"},
	{"command_editing", "Supports command-line editing"},
}

var powershellCapabilityExplanations = []struct{ key, text string }{
	{"object_pipeline", "Supports object-based pipeline"},
	{"type_system", "Has strong type system"},
}

// shellGuidance renders the shell intro, detected version, capability
// profile, and the shell's command guidelines as one block.
func shellGuidance(snap shellenv.Snapshot) string {
	if snap.Shell == "" {
		return "Use standard shell syntax for commands."
	}

	var b strings.Builder

	intro := shellIntros[snap.Shell]
	if isGitBashOnWindows(snap) {
		intro = gitBashIntro
	}
	if intro == "" {
		intro = "Use standard shell syntax for commands."
	}
	b.WriteString(intro)

	if snap.ShellVersion != "" {
		fmt.Fprintf(&b, "\nDetected shell version: %s", snap.ShellVersion)
	}

	if len(snap.Capabilities) > 0 {
		b.WriteString("\n\nShell capabilities:\n")
		explanations := capabilityExplanations
		if snap.Shell == "powershell" || snap.Shell == "pwsh" {
			explanations = append(explanations, powershellCapabilityExplanations...)
		}
		for _, entry := range explanations {
			enabled, known := snap.Capabilities[entry.key]
			if !known {
				continue
			}
			answer := "No"
			if enabled {
				answer = "Yes"
			}
			fmt.Fprintf(&b, "- %s: %s\n", entry.text, answer)
		}
	}

	if guidelines := shellCommandGuidelines(snap); guidelines != "" {
		b.WriteString("\nCommand guidelines for this shell:\n")
		b.WriteString(guidelines)
	}

	return b.String()
}

const powershellGuidelines = `- Use PowerShell cmdlets (verb-noun format like Get-ChildItem instead of ls)
- Use object-oriented pipeline with Select-Object, Where-Object, etc.
- Use PowerShell parameter syntax with dash prefix (-Path, -Filter, etc.)
- Use $variables for variable references
- For file paths, use backslashes or ensure forward slashes are handled properly
- Use PowerShell comparison operators (-eq, -lt, -gt) instead of ==, <, >`

const cmdGuidelines = `- Use basic CMD commands and batch syntax
- Use %variables% for environment variables
- Avoid advanced constructs not supported in CMD
- Always use backslashes for file paths
- Use built-in commands like dir, type, findstr instead of Unix equivalents
- Remember that CMD has limited scripting capabilities`

const gitBashGuidelines = `- Use standard Unix commands in Git Bash on Windows
- Remember that Git Bash is running on Windows, but uses Unix commands
- Use $variables and ${complex_variables} for variable references
- Always use forward slashes for file paths, not backslashes
- Use bash arrays when needed with syntax like array=("item1" "item2")
- Do NOT use PowerShell cmdlets or CMD commands
- For Windows paths, use /c/Users instead of C:\Users`

const bashGuidelines = `- Use standard Unix commands
- Leverage bash-specific features like process substitution when needed
- Use $variables and ${complex_variables} for variable references
- Always use forward slashes for file paths
- Use bash arrays when needed with syntax like array=("item1" "item2")
- Remember that bash supports advanced scripting features`

const zshGuidelines = `- Use standard Unix commands with zsh enhancements
- Take advantage of zsh's advanced globbing features
- Use $variables and ${complex_variables} for variable references
- Always use forward slashes for file paths
- Remember that zsh has enhanced array handling and scripting features`

const fishGuidelines = `- Use standard Unix commands with fish syntax
- Use $variables for variable references (no $ for variable assignment)
- Always use forward slashes for file paths
- Remember that fish uses different scripting syntax than bash/zsh
- Use fish's built-in functions for common operations`

func shellCommandGuidelines(snap shellenv.Snapshot) string {
	switch snap.Shell {
	case "powershell", "pwsh":
		return powershellGuidelines
	case "cmd":
		return cmdGuidelines
	case "bash":
		if snap.OS == "windows" {
			return gitBashGuidelines
		}
		return bashGuidelines
	case "zsh":
		return zshGuidelines
	case "fish":
		return fishGuidelines
	}
	return ""
}

// environmentRules pins the shell-correct syntax the model must emit. The
// rendered constraints block repeats what the validate package later
// enforces, so a model that follows it produces commands that pass
// validation.
type environmentRules struct {
	forbidden  []string
	listFiles  string
	searchText string
	viewFile   string
	pathSep    string
	wrongSep   string
}

var strictRules = map[string]environmentRules{
	"cmd": {
		forbidden:  []string{"ls", "grep", "cat", "chmod", "chown", "find", "which", "man", "sudo", "tar"},
		listFiles:  "dir",
		searchText: "findstr",
		viewFile:   "type",
		pathSep:    `\`,
		wrongSep:   "/",
	},
	// PowerShell aliases ls/cat/grep, but explicit cmdlets are required.
	"powershell": {
		forbidden:  []string{"grep", "cat", "sed", "awk", "chmod", "chown", "rm", "mv", "cp", "sudo"},
		listFiles:  "Get-ChildItem",
		searchText: "Select-String",
		viewFile:   "Get-Content",
		pathSep:    `\`,
		wrongSep:   "/",
	},
	"pwsh": {
		forbidden:  []string{"grep", "cat", "sed", "awk", "chmod", "chown", "rm", "mv", "cp", "sudo"},
		listFiles:  "Get-ChildItem",
		searchText: "Select-String",
		viewFile:   "Get-Content",
		pathSep:    `\`,
		wrongSep:   "/",
	},
	"bash": {
		forbidden:  []string{"dir", "type", "findstr", "cls", "powershell", "pwsh"},
		listFiles:  "ls",
		searchText: "grep",
		viewFile:   "cat",
		pathSep:    "/",
		wrongSep:   `\`,
	},
	"zsh": {
		forbidden:  []string{"dir", "type", "findstr", "cls", "powershell", "pwsh"},
		listFiles:  "ls",
		searchText: "grep",
		viewFile:   "cat",
		pathSep:    "/",
		wrongSep:   `\`,
	},
	"fish": {
		forbidden:  []string{"dir", "type", "findstr", "cls", "powershell", "pwsh"},
		listFiles:  "ls",
		searchText: "grep",
		viewFile:   "cat",
		pathSep:    "/",
		wrongSep:   `\`,
	},
}

// environmentConstraints renders the hard rules for the detected shell.
// Returns "" when the shell is unknown; guessing rules would be worse than
// omitting them.
func environmentConstraints(snap shellenv.Snapshot) string {
	rules, ok := strictRules[snap.Shell]
	if !ok {
		return ""
	}

	osName := snap.OS
	if osName == "" {
		osName = "unknown"
	}

	var b strings.Builder
	b.WriteString("CRITICAL ENVIRONMENT CONSTRAINTS:\n")
	fmt.Fprintf(&b, "- Detected Shell: %s\n", snap.Shell)
	fmt.Fprintf(&b, "- Detected OS: %s\n", osName)
	fmt.Fprintf(&b, "- FORBIDDEN commands: %s\n", strings.Join(rules.forbidden, ", "))
	fmt.Fprintf(&b, "- REQUIRED syntax: list files with '%s', search text with '%s', view files with '%s'\n",
		rules.listFiles, rules.searchText, rules.viewFile)
	fmt.Fprintf(&b, "- REQUIRED path separator: '%s' (never use '%s')\n", rules.pathSep, rules.wrongSep)
	b.WriteString("- NEVER mix syntax from other shells. Do not use Unix commands in Windows shells or Windows commands in Unix shells.\n")
	b.WriteString("- If a command is not available in this environment, choose a functionally equivalent command that IS available.")
	return b.String()
}
