// Package platform provides OS and shell detection helpers.
//
// Shell detection has no single reliable source of truth: the parent process
// name, environment variables, and probe commands all disagree depending on
// how the binary was launched. Detection therefore runs a cascade of
// independent strategies, each of which may fail silently; only the final
// fallback is guaranteed to produce an answer.
package platform

import (
	"os"
	"runtime"
	"strings"

	"golang.org/x/term"
)

// Info is a snapshot of the current platform, including the detected shell
// when detection succeeds. Shell fields are empty only if every detection
// strategy fails.
type Info struct {
	OSName         string
	OSVersion      string
	Architecture   string
	RuntimeVersion string
	ShellName      string
	ShellVersion   string
}

// GetInfo returns platform information. It always succeeds; shell detection
// failure leaves the shell fields empty rather than returning an error.
func GetInfo() Info {
	info := Info{
		OSName:         runtime.GOOS,
		OSVersion:      osVersionFn(),
		Architecture:   runtime.GOARCH,
		RuntimeVersion: runtime.Version(),
	}
	if name, version, _, ok := DetectShell(); ok {
		info.ShellName = name
		info.ShellVersion = version
	}
	return info
}

// IsWindows reports whether the current OS is Windows.
func IsWindows() bool { return runtime.GOOS == "windows" }

// IsMacOS reports whether the current OS is macOS.
func IsMacOS() bool { return runtime.GOOS == "darwin" }

// IsLinux reports whether the current OS is Linux.
func IsLinux() bool { return runtime.GOOS == "linux" }

// SupportsANSIColors reports whether the attached terminal understands ANSI
// escape sequences. On Windows this is true for Windows Terminal, Windows 10
// and later, ANSICON hosts, or any TERM other than "dumb". On Unix it checks
// TERM first and falls back to a TTY check on stdout.
func SupportsANSIColors() bool {
	if IsWindows() {
		if os.Getenv("WT_SESSION") != "" {
			return true
		}
		if major, _, _ := windowsVersionNumbers(); major >= 10 {
			return true
		}
		if os.Getenv("ANSICON") != "" {
			return true
		}
		if termEnv := os.Getenv("TERM"); termEnv != "" && termEnv != "dumb" {
			return true
		}
		return false
	}
	if termEnv := os.Getenv("TERM"); termEnv != "" && termEnv != "dumb" {
		return true
	}
	return term.IsTerminal(int(os.Stdout.Fd()))
}

// baseName returns the final path element, accepting both Unix and Windows
// separators regardless of the host OS. Detection snapshots may describe a
// Windows environment while running elsewhere (tests, WSL edge cases).
func baseName(path string) string {
	if i := strings.LastIndexAny(path, `/\`); i >= 0 {
		path = path[i+1:]
	}
	return path
}
