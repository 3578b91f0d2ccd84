package cmdline

import (
	"fmt"
	"regexp"
	"strings"
	"sync"
)

// confirmRule pairs a pattern that marks a command as confirmation-worthy
// with the human-readable reason shown to the user.
type confirmRule struct {
	pattern string
	reason  string
}

// confirmationRules lists operations that are not destructive by themselves
// but deserve an explicit go-ahead: they move data, touch remote hosts, or
// change installed software.
var confirmationRules = []confirmRule{
	{`\bmv\b`, "Moves files or directories"},
	{`\bcp\b`, "Copies files or directories"},
	{`\bmove\b`, "Moves files (Windows)"},
	{`\bcopy\b`, "Copies files (Windows)"},
	{`\brename\b`, "Renames files"},

	{`\bshutdown\b`, "Shuts the system down"},
	{`\breboot\b`, "Reboots the system"},
	{`\brestart\b`, "Restarts a system or service"},

	{`\bssh\b`, "Opens a connection to a remote host"},
	{`\bscp\b`, "Copies files to or from a remote host"},
	{`\brsync\b`, "Synchronizes files with a remote host"},

	{`\bapt(-get)?\s+(install|remove|purge)\b`, "Installs or removes packages (apt)"},
	{`\byum\s+(install|remove|erase)\b`, "Installs or removes packages (yum)"},
	{`\bdnf\s+(install|remove|erase)\b`, "Installs or removes packages (dnf)"},
	{`\bpacman\s+(-S|-R)\b`, "Installs or removes packages (pacman)"},
	{`\bpip\s+(install|uninstall)\b`, "Installs or removes packages (pip)"},
	{`\bnpm\s+(install|uninstall)\b`, "Installs or removes packages (npm)"},
}

// confirmCommands maps base commands to the category that makes them
// confirmation-worthy regardless of their arguments.
var confirmCommands = map[string]string{
	"shutdown": "affects system power state",
	"reboot":   "affects system power state",
	"restart":  "affects system power state",
	"halt":     "affects system power state",
	"poweroff": "affects system power state",

	"ssh":   "involves network operations",
	"scp":   "involves network operations",
	"sftp":  "involves network operations",
	"rsync": "involves network operations",

	"apt":     "involves package management",
	"apt-get": "involves package management",
	"yum":     "involves package management",
	"dnf":     "involves package management",
	"pacman":  "involves package management",
	"brew":    "involves package management",
	"pip":     "involves package management",
	"npm":     "involves package management",
}

var (
	confirmPatterns []*regexp.Regexp
	confirmOnce     sync.Once
)

func compileConfirmRules() {
	confirmOnce.Do(func() {
		confirmPatterns = make([]*regexp.Regexp, len(confirmationRules))
		for i, r := range confirmationRules {
			confirmPatterns[i] = regexp.MustCompile(`(?i)` + r.pattern)
		}
	})
}

// NeedsConfirmation reports whether a command should be confirmed before it
// runs, with one reason per matched rule. It is independent of the deeper
// safety analysis: a command can be worth confirming without being dangerous.
func NeedsConfirmation(command string) (bool, []string) {
	compileConfirmRules()

	var reasons []string
	for i, pattern := range confirmPatterns {
		if pattern.MatchString(command) {
			reasons = append(reasons, confirmationRules[i].reason)
		}
	}

	name, _ := Parse(command)
	if category, ok := confirmCommands[strings.ToLower(name)]; ok {
		reasons = append(reasons, fmt.Sprintf("Command '%s' %s", name, category))
	}

	return len(reasons) > 0, reasons
}
