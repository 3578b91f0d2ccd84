package executor

import (
	"bytes"
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/hpkotak/shellsage/internal/platform"
)

// pinShell forces shellArgv to see one shell regardless of the host, and
// optionally makes pwsh discoverable.
func pinShell(t *testing.T, name string, havePwsh bool) {
	t.Helper()
	origDetect, origLook := detectShellFn, lookPathFn
	detectShellFn = func() (string, string, platform.Capabilities, bool) {
		if name == "" {
			return "", "", nil, false
		}
		return name, "1.0", platform.CapabilitiesFor(name), true
	}
	lookPathFn = func(file string) (string, error) {
		if file == "pwsh" && havePwsh {
			return `C:\Program Files\PowerShell\7\pwsh.exe`, nil
		}
		return "", errors.New("not found")
	}
	t.Cleanup(func() {
		detectShellFn, lookPathFn = origDetect, origLook
	})
}

func TestConfirm(t *testing.T) {
	tests := []struct {
		name       string
		input      string
		defaultYes bool
		want       bool
	}{
		{"enter with default yes", "\n", true, true},
		{"enter with default no", "\n", false, false},
		{"explicit y", "y\n", false, true},
		{"explicit Y", "Y\n", false, true},
		{"explicit yes", "yes\n", false, true},
		{"explicit n", "n\n", true, false},
		{"explicit no", "no\n", true, false},
		{"explicit N", "N\n", true, false},
		{"garbage input", "asdf\n", true, false},
		{"empty input with spaces", "  \n", true, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := strings.NewReader(tt.input)
			out := &bytes.Buffer{}
			got := Confirm("Test?", tt.defaultYes, in, out)
			if got != tt.want {
				t.Errorf("Confirm(%q, defaultYes=%v) = %v, want %v",
					tt.input, tt.defaultYes, got, tt.want)
			}
		})
	}
}

func TestShellArgv(t *testing.T) {
	tests := []struct {
		name    string
		shell   string
		command string
		want    []string
	}{
		{"bash", "bash", "ls -la", []string{"bash", "-c", "ls -la"}},
		{"zsh", "zsh", "echo hi", []string{"zsh", "-c", "echo hi"}},
		{"fish", "fish", "ls | head", []string{"fish", "-c", "ls | head"}},
		{"cmd", "cmd", "dir /b", []string{"cmd", "/C", "dir /b"}},
		{"powershell", "powershell", "Get-ChildItem", []string{"powershell", "-Command", "Get-ChildItem"}},
		{"pwsh", "pwsh", "Get-Process", []string{"pwsh", "-Command", "Get-Process"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pinShell(t, tt.shell, false)
			got := shellArgv(tt.command)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("shellArgv(%q) = %v, want %v", tt.command, got, tt.want)
			}
		})
	}
}

func TestShellArgvFallbackShell(t *testing.T) {
	pinShell(t, "", false)
	got := shellArgv("ls")

	want := []string{"sh", "-c", "ls"}
	if platform.IsWindows() {
		want = []string{"cmd", "/C", "ls"}
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("shellArgv with no detected shell = %v, want %v", got, want)
	}
}

func TestShellArgvCmdletRouting(t *testing.T) {
	if !platform.IsWindows() {
		t.Skip("cmdlet routing only applies on windows")
	}

	// A cmdlet typed into a cmd session must still reach PowerShell.
	pinShell(t, "cmd", false)
	got := shellArgv("Get-ChildItem -Path C:\\")
	want := []string{"powershell", "-Command", "Get-ChildItem -Path C:\\"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("cmdlet under cmd = %v, want %v", got, want)
	}

	// pwsh wins over powershell when installed.
	pinShell(t, "cmd", true)
	got = shellArgv("$PSVersionTable")
	want = []string{"pwsh", "-Command", "$PSVersionTable"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("variable expression under cmd = %v, want %v", got, want)
	}
}

func TestCmdletRe(t *testing.T) {
	matching := []string{
		"Get-ChildItem",
		"Set-Location C:\\Users",
		"Remove-Item old.txt",
		"ConvertTo-Json $data",
		"Write-Output hello",
		"$env:PATH",
		"  Get-Process  ",
	}
	for _, cmd := range matching {
		if !cmdletRe.MatchString(strings.TrimSpace(cmd)) {
			t.Errorf("cmdletRe should match %q", cmd)
		}
	}

	nonMatching := []string{
		"ls -la",
		"dir /b",
		"get-lowercase-is-not-a-cmdlet",
		"echo $HOME", // $ not at the start
		"grep -r TODO .",
	}
	for _, cmd := range nonMatching {
		if cmdletRe.MatchString(strings.TrimSpace(cmd)) {
			t.Errorf("cmdletRe should not match %q", cmd)
		}
	}
}

func TestRunCaptureEcho(t *testing.T) {
	if platform.IsWindows() {
		t.Skip("test shells out through sh")
	}
	pinShell(t, "sh", false)

	res, err := RunCapture(context.Background(), "echo capture-test-output")
	if err != nil {
		t.Fatalf("RunCapture: %v", err)
	}
	if !res.Success || res.ExitCode != 0 {
		t.Errorf("Success = %v, ExitCode = %d", res.Success, res.ExitCode)
	}
	if !strings.Contains(res.Stdout, "capture-test-output") {
		t.Errorf("Stdout = %q, want echoed text", res.Stdout)
	}
	if res.Duration <= 0 {
		t.Error("Duration not recorded")
	}
}

func TestRunCaptureExitCode(t *testing.T) {
	if platform.IsWindows() {
		t.Skip("test shells out through sh")
	}
	pinShell(t, "sh", false)

	res, err := RunCapture(context.Background(), "exit 3")
	if err != nil {
		t.Fatalf("RunCapture: %v", err)
	}
	if res.Success {
		t.Error("Success = true for non-zero exit")
	}
	if res.ExitCode != 3 {
		t.Errorf("ExitCode = %d, want 3", res.ExitCode)
	}
}

func TestRunCaptureCancelled(t *testing.T) {
	if platform.IsWindows() {
		t.Skip("test shells out through sh")
	}
	pinShell(t, "sh", false)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := RunCapture(ctx, "sleep 10")
	if err == nil {
		t.Fatal("expected error from cancelled context")
	}
	if !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}

func TestResultCombined(t *testing.T) {
	tests := []struct {
		name string
		res  Result
		want string
	}{
		{"both", Result{Stdout: "out", Stderr: "err"}, "out\nerr"},
		{"stdout only", Result{Stdout: "out"}, "out"},
		{"stderr only", Result{Stderr: "err"}, "err"},
		{"neither", Result{}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.res.Combined(); got != tt.want {
				t.Errorf("Combined() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestTruncate(t *testing.T) {
	long := strings.Repeat("x", MaxOutputBytes+100)
	got := truncate(long)
	if len(got) >= len(long) {
		t.Error("long output not truncated")
	}
	if !strings.HasSuffix(got, "[output truncated]") {
		t.Errorf("truncated output missing marker, ends with %q", got[len(got)-30:])
	}
	if short := truncate("short"); short != "short" {
		t.Errorf("short output modified: %q", short)
	}
}
