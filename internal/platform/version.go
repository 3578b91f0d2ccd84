package platform

import (
	"context"
	"os/exec"
	"regexp"
	"strings"
	"time"
)

const (
	// probeTimeout bounds each shell identification attempt.
	probeTimeout = time.Second
	// versionTimeout bounds explicit version lookups, which may be the
	// first invocation of a shell on a cold path and therefore slower.
	versionTimeout = 2 * time.Second
)

// runProbeFn executes a short-lived probe command and returns its stdout.
// Tests replace it to simulate shell availability without spawning anything.
var runProbeFn = runProbe

func runProbe(argv []string, timeout time.Duration) (string, error) {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	out, err := exec.CommandContext(ctx, argv[0], argv[1:]...).Output()
	if err != nil {
		return "", err
	}
	return string(out), nil
}

// shellVersion asks a shell for its version. Used when a strategy produced a
// name without one. Failure yields an empty string, never an error; for cmd
// the OS version is a reasonable stand-in since cmd reports it anyway.
func shellVersion(name string, snap snapshot) string {
	argv, known := versionArgv(name)
	if !known {
		return ""
	}
	out, err := runProbeFn(argv, versionTimeout)
	if err != nil || out == "" {
		if name == "cmd" {
			return snap.osVersion
		}
		return ""
	}
	return parseVersion(name, out)
}

func versionArgv(name string) ([]string, bool) {
	switch name {
	case "bash":
		return []string{"bash", "--version"}, true
	case "zsh":
		return []string{"zsh", "--version"}, true
	case "fish":
		return []string{"fish", "--version"}, true
	case "powershell":
		return []string{"powershell", "-Command", "$PSVersionTable.PSVersion.ToString()"}, true
	case "pwsh":
		return []string{"pwsh", "-Command", "$PSVersionTable.PSVersion.ToString()"}, true
	case "cmd":
		return []string{"cmd", "/c", "ver"}, true
	}
	return nil, false
}

// parseVersion extracts a version from shell-specific version output. Every
// shell prints a different format, so extraction is hardcoded per shell:
//
//	bash:       "GNU bash, version 5.1.16(1)-release ..."    -> "5.1.16(1)-release"
//	zsh:        "zsh 5.8 (x86_64-apple-darwin21.0)"          -> "5.8"
//	fish:       "fish, version 3.1.2"                        -> "3.1.2"
//	powershell: "7.4.1"                                      -> "7.4.1"
//	cmd:        "Microsoft Windows [Version 10.0.19045.3693]" -> "10.0.19045.3693"
func parseVersion(name, output string) string {
	switch name {
	case "bash":
		line := output
		if i := strings.IndexByte(line, '\n'); i >= 0 {
			line = line[:i]
		}
		if _, after, found := strings.Cut(line, "version "); found {
			return firstToken(after)
		}
		return ""
	case "fish":
		if _, after, found := strings.Cut(output, "version "); found {
			return firstToken(after)
		}
		return ""
	case "zsh":
		fields := strings.Fields(output)
		if len(fields) < 2 {
			return ""
		}
		return fields[1]
	case "powershell", "pwsh":
		return strings.TrimSpace(output)
	case "cmd":
		line := strings.TrimSpace(output)
		if _, after, found := strings.Cut(line, "[Version"); found {
			version, _, _ := strings.Cut(after, "]")
			return strings.TrimSpace(version)
		}
		return line
	}
	return ""
}

// Behavioral probe tables. Each expression only succeeds in its own shell
// (or at least fails in most others), so pass counts separate candidates.
type behaviorTest struct {
	expr    string
	pattern *regexp.Regexp
}

type behaviorSpec struct {
	shell string
	tests []behaviorTest
}

var (
	reDottedVersion = regexp.MustCompile(`\d+\.\d+`)
	reDigits        = regexp.MustCompile(`\d+`)
	reCmdExe        = regexp.MustCompile(`cmd\.exe`)
	reWindowsName   = regexp.MustCompile(`Windows`)
	reMinGW         = regexp.MustCompile(`MINGW|MSYS`)
	reNonEmpty      = regexp.MustCompile(`.+`)
	rePSHost        = regexp.MustCompile(`ConsoleHost|ISE Host`)
)

var psBehaviorTests = []behaviorTest{
	{"$PSVersionTable.PSVersion.ToString()", reDottedVersion},
	{"$Host.Name", rePSHost},
}

var windowsBehaviors = []behaviorSpec{
	{"cmd", []behaviorTest{
		{"echo %COMSPEC%", reCmdExe},
		{"echo %OS%", reWindowsName},
		{"echo %CMDEXTVERSION%", reDigits},
	}},
	{"bash", []behaviorTest{
		{"echo $MSYSTEM", reMinGW},
		{"echo $BASH_VERSION", reDottedVersion},
	}},
	{"powershell", psBehaviorTests},
	{"pwsh", psBehaviorTests},
}

var unixBehaviors = []behaviorSpec{
	{"bash", []behaviorTest{
		{"echo $BASH_VERSION", reDottedVersion},
		{"echo $BASHPID", reDigits},
	}},
	{"zsh", []behaviorTest{
		{"echo $ZSH_VERSION", reDottedVersion},
		{"echo $zsh_eval_context", reNonEmpty},
	}},
	{"fish", []behaviorTest{
		{"echo $FISH_VERSION", reDottedVersion},
		{"echo $fish_pid", reDigits},
	}},
}
