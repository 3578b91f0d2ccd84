package platform

import (
	"os"
	"runtime"
	"strconv"
	"strings"
)

// guess is a single detection strategy's verdict. An empty version means the
// strategy identified the shell but could not tell its version.
type guess struct {
	name    string
	version string
}

// snapshot captures everything a detection strategy may consult. Strategies
// are pure functions over a snapshot, which keeps each one testable without
// touching the host environment.
type snapshot struct {
	goos      string
	osVersion string
	env       map[string]string // keys uppercased; Windows treats names case-insensitively
	parent    string            // parent process executable name, best-effort, Windows only
}

func (s snapshot) windows() bool { return s.goos == "windows" }
func (s snapshot) macos() bool   { return s.goos == "darwin" }

func (s snapshot) get(key string) string { return s.env[strings.ToUpper(key)] }

func (s snapshot) has(key string) bool {
	_, ok := s.env[strings.ToUpper(key)]
	return ok
}

// hasPSPrefixed reports whether any environment variable name starts with
// "PS" (PSModulePath, PSExecutionPolicyPreference, ...), a strong PowerShell
// session marker on Windows.
func (s snapshot) hasPSPrefixed() bool {
	for k := range s.env {
		if strings.HasPrefix(k, "PS") {
			return true
		}
	}
	return false
}

// Injection points. Tests replace these to simulate other platforms.
var (
	osVersionFn     = osVersion
	parentProcessFn = parentProcessName
)

func capture() snapshot {
	env := make(map[string]string)
	for _, kv := range os.Environ() {
		if i := strings.IndexByte(kv, '='); i > 0 {
			env[strings.ToUpper(kv[:i])] = kv[i+1:]
		}
	}
	snap := snapshot{goos: runtime.GOOS, osVersion: osVersionFn(), env: env}
	if snap.windows() {
		snap.parent = parentProcessFn()
	}
	return snap
}

// strategyFunc inspects a snapshot and reports a shell guess. Returning
// ok=false means "this strategy found nothing" and the cascade moves on.
type strategyFunc func(snapshot) (guess, bool)

// strategies run in order until one succeeds. Order matters: each step is
// slower and less reliable than the one before it, and only detectFallback
// is guaranteed to answer.
var strategies = []strategyFunc{
	detectFromEnvironment,
	detectFromProbes,
	detectFromBehavior,
	detectFallback,
}

// DetectShell identifies the active shell, its version, and its capability
// profile. ok is false only if every strategy, including the fallback,
// produced nothing, which is practically unreachable but handled anyway.
//
// Results are recomputed per call. The environment is assumed stable during
// a process run, but detection is cheap enough to redo defensively.
func DetectShell() (name, version string, caps Capabilities, ok bool) {
	snap := capture()
	for _, detect := range strategies {
		g, found := detect(snap)
		if !found || g.name == "" {
			continue
		}
		if g.version == "" {
			g.version = shellVersion(g.name, snap)
		}
		return g.name, g.version, CapabilitiesFor(g.name), true
	}
	return "", "", nil, false
}

// detectFromEnvironment is the first and cheapest strategy: parent process
// name, then shell-specific environment markers, then the SHELL/COMSPEC
// basename. It spawns no subprocesses.
func detectFromEnvironment(snap snapshot) (guess, bool) {
	if snap.windows() {
		if g, ok := windowsEnvGuess(snap); ok {
			return g, true
		}
	} else {
		for _, marker := range []struct{ envVar, shell string }{
			{"BASH_VERSION", "bash"},
			{"ZSH_VERSION", "zsh"},
			{"FISH_VERSION", "fish"},
		} {
			if v := snap.get(marker.envVar); v != "" {
				return guess{name: marker.shell, version: firstToken(v)}, true
			}
		}
	}

	// Fall back to the login shell path. On Windows COMSPEC is effectively
	// always set, so this strategy cannot fail there.
	shellPath := snap.get("SHELL")
	if shellPath == "" {
		shellPath = snap.get("COMSPEC")
	}
	if shellPath == "" && snap.windows() {
		shellPath = "cmd.exe"
	}
	if shellPath == "" {
		return guess{}, false
	}
	name := strings.ToLower(baseName(shellPath))
	if i := strings.IndexByte(name, '.'); i >= 0 {
		name = name[:i]
	}
	if name == "" {
		return guess{}, false
	}
	return guess{name: name}, true
}

func windowsEnvGuess(snap snapshot) (guess, bool) {
	// The parent process name is the most reliable signal when available.
	switch parent := strings.ToLower(snap.parent); {
	case strings.Contains(parent, "cmd.exe"):
		return guess{name: "cmd", version: snap.osVersion}, true
	case strings.Contains(parent, "powershell.exe"):
		return guess{name: "powershell"}, true
	case strings.Contains(parent, "pwsh.exe"):
		return guess{name: "pwsh"}, true
	case strings.Contains(parent, "git-bash.exe"), strings.Contains(parent, "bash.exe"):
		return guess{name: "bash"}, true
	}

	// CMD leaves few positive markers, so score several weak ones and
	// require at least two to agree.
	indicators := 0
	if snap.has("PROMPT") {
		indicators++
	}
	if strings.Contains(strings.ToLower(snap.get("ComSpec")), "cmd.exe") {
		indicators++
	}
	if snap.has("CMDEXTVERSION") {
		indicators++
	}
	if !snap.hasPSPrefixed() {
		indicators++
	}
	if indicators >= 2 {
		return guess{name: "cmd", version: snap.osVersion}, true
	}

	// Git Bash exports MSYSTEM=MINGW64 (or MINGW32).
	if strings.Contains(snap.get("MSYSTEM"), "MINGW") {
		return guess{name: "bash"}, true
	}

	if snap.hasPSPrefixed() {
		if strings.Contains(snap.get("PSModulePath"), "PSCore") || snap.get("POWERSHELL_DISTRIBUTION_CHANNEL") != "" {
			return guess{name: "pwsh"}, true
		}
		return guess{name: "powershell"}, true
	}

	if snap.has("WSL_DISTRO_NAME") {
		return guess{name: "bash", version: firstToken(snap.get("BASH_VERSION"))}, true
	}

	return guess{}, false
}

// detectFromProbes asks each candidate shell to identify itself. The first
// probe that exits zero with output wins; its version is parsed from that
// same output. Candidates inappropriate for the OS are never probed.
func detectFromProbes(snap snapshot) (guess, bool) {
	for _, p := range probeCandidates(snap) {
		out, err := runProbeFn(p.argv, probeTimeout)
		if err != nil || out == "" {
			continue
		}
		return guess{name: p.shell, version: parseVersion(p.shell, out)}, true
	}
	return guess{}, false
}

type probeSpec struct {
	shell string
	argv  []string
}

func probeCandidates(snap snapshot) []probeSpec {
	if snap.windows() {
		// CMD first, then Git Bash, then the PowerShells.
		return []probeSpec{
			{"cmd", []string{"cmd", "/c", "echo %COMSPEC%"}},
			{"bash", []string{"bash", "--version"}},
			{"powershell", []string{"powershell", "-Command", "$PSVersionTable.PSVersion.ToString()"}},
			{"pwsh", []string{"pwsh", "-Command", "$PSVersionTable.PSVersion.ToString()"}},
		}
	}
	return []probeSpec{
		{"bash", []string{"bash", "--version"}},
		{"zsh", []string{"zsh", "--version"}},
		{"fish", []string{"fish", "--version"}},
	}
}

// detectFromBehavior runs small shell-specific expressions and tallies how
// many produce the expected output per candidate. The candidate with the
// most passing tests wins; ties go to the earlier candidate, which keeps
// the result deterministic.
func detectFromBehavior(snap snapshot) (guess, bool) {
	specs := unixBehaviors
	if snap.windows() {
		specs = windowsBehaviors
	}

	best := ""
	bestCount := 0
	for _, spec := range specs {
		count := 0
		for _, test := range spec.tests {
			out, err := runProbeFn(behaviorArgv(snap, spec.shell, test.expr), probeTimeout)
			if err != nil {
				continue
			}
			if test.pattern.MatchString(out) {
				count++
			}
		}
		if count > bestCount {
			best = spec.shell
			bestCount = count
		}
	}
	if best == "" {
		return guess{}, false
	}
	return guess{name: best}, true
}

func behaviorArgv(snap snapshot, shell, expr string) []string {
	if snap.windows() {
		switch shell {
		case "powershell", "pwsh":
			return []string{shell, "-Command", expr}
		case "cmd":
			return []string{"cmd", "/c", expr}
		}
	}
	return []string{shell, "-c", expr}
}

// detectFallback guesses from the OS alone and always succeeds: modern
// Windows defaults to PowerShell, macOS Catalina and later to zsh,
// everything else to bash.
func detectFallback(snap snapshot) (guess, bool) {
	switch {
	case snap.windows():
		if majorVersion(snap.osVersion) >= 10 {
			return guess{name: "powershell"}, true
		}
		return guess{name: "cmd", version: snap.osVersion}, true
	case snap.macos():
		major, minor := versionPair(snap.osVersion)
		if major > 10 || (major == 10 && minor >= 15) {
			return guess{name: "zsh"}, true
		}
		return guess{name: "bash"}, true
	default:
		return guess{name: "bash"}, true
	}
}

func firstToken(s string) string {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}

func majorVersion(version string) int {
	major, _, _ := strings.Cut(version, ".")
	n, _ := strconv.Atoi(strings.TrimSpace(major))
	return n
}

func versionPair(version string) (major, minor int) {
	first, rest, _ := strings.Cut(version, ".")
	second, _, _ := strings.Cut(rest, ".")
	major, _ = strconv.Atoi(strings.TrimSpace(first))
	minor, _ = strconv.Atoi(strings.TrimSpace(second))
	return major, minor
}
