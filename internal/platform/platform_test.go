package platform

import (
	"runtime"
	"testing"
)

func TestGetInfo(t *testing.T) {
	origProbe := runProbeFn
	defer func() { runProbeFn = origProbe }()
	runProbeFn = failingProbe

	t.Setenv("BASH_VERSION", "5.2.15(1)-release")

	info := GetInfo()
	if info.OSName != runtime.GOOS {
		t.Errorf("OSName = %q, want %q", info.OSName, runtime.GOOS)
	}
	if info.Architecture != runtime.GOARCH {
		t.Errorf("Architecture = %q, want %q", info.Architecture, runtime.GOARCH)
	}
	if info.RuntimeVersion == "" {
		t.Error("RuntimeVersion is empty")
	}
	if info.ShellName == "" {
		t.Error("ShellName is empty despite BASH_VERSION being set")
	}
}

func TestOSClassifiers(t *testing.T) {
	classified := 0
	for _, is := range []bool{IsWindows(), IsMacOS(), IsLinux()} {
		if is {
			classified++
		}
	}
	if classified > 1 {
		t.Errorf("%d OS classifiers are true at once", classified)
	}
	switch runtime.GOOS {
	case "windows":
		if !IsWindows() {
			t.Error("IsWindows() = false on windows")
		}
	case "darwin":
		if !IsMacOS() {
			t.Error("IsMacOS() = false on darwin")
		}
	case "linux":
		if !IsLinux() {
			t.Error("IsLinux() = false on linux")
		}
	}
}

func TestSupportsANSIColors(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("TERM has no effect on the windows branch")
	}

	tests := []struct {
		name string
		term string
		want bool
	}{
		{"xterm", "xterm-256color", true},
		{"screen", "screen", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("TERM", tt.term)
			if got := SupportsANSIColors(); got != tt.want {
				t.Errorf("SupportsANSIColors() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestBaseName(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"/usr/bin/zsh", "zsh"},
		{`C:\Windows\system32\cmd.exe`, "cmd.exe"},
		{"bash", "bash"},
		{"", ""},
	}

	for _, tt := range tests {
		if got := baseName(tt.path); got != tt.want {
			t.Errorf("baseName(%q) = %q, want %q", tt.path, got, tt.want)
		}
	}
}
