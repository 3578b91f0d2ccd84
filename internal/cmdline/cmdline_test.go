package cmdline

import (
	"reflect"
	"strings"
	"testing"
)

func TestTokens(t *testing.T) {
	tests := []struct {
		name    string
		command string
		want    []string
		wantErr bool
	}{
		{
			name:    "plain words",
			command: "ls -la /tmp",
			want:    []string{"ls", "-la", "/tmp"},
		},
		{
			name:    "single quotes removed",
			command: "echo 'hello world'",
			want:    []string{"echo", "hello world"},
		},
		{
			name:    "double quotes removed",
			command: `grep "two words" file.txt`,
			want:    []string{"grep", "two words", "file.txt"},
		},
		{
			name:    "adjacent quoted and bare text join",
			command: `echo pre"mid"post`,
			want:    []string{"echo", "premidpost"},
		},
		{
			name:    "variable reference stays literal",
			command: "echo $HOME",
			want:    []string{"echo", "$HOME"},
		},
		{
			name:    "braced variable stays literal",
			command: "echo ${PATH}",
			want:    []string{"echo", "${PATH}"},
		},
		{
			name:    "glob stays literal",
			command: "rm *.txt",
			want:    []string{"rm", "*.txt"},
		},
		{
			name:    "pipe becomes a token",
			command: "cat app.log | grep error",
			want:    []string{"cat", "app.log", "|", "grep", "error"},
		},
		{
			name:    "logical and becomes a token",
			command: "apt update && sudo apt upgrade -y",
			want:    []string{"apt", "update", "&&", "sudo", "apt", "upgrade", "-y"},
		},
		{
			name:    "redirection becomes a token",
			command: "echo hi > out.txt",
			want:    []string{"echo", "hi", ">", "out.txt"},
		},
		{
			name:    "statements separated by semicolons",
			command: "cd /tmp; ls",
			want:    []string{"cd", "/tmp", ";", "ls"},
		},
		{
			name:    "empty input",
			command: "",
			want:    nil,
		},
		{
			name:    "whitespace only",
			command: "   \t  ",
			want:    nil,
		},
		{
			name:    "unbalanced quote",
			command: `echo "unclosed`,
			wantErr: true,
		},
		{
			name:    "dangling operator",
			command: "ls &&",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Tokens(tt.command)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("Tokens(%q) = %v, want error", tt.command, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("Tokens(%q) error: %v", tt.command, err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Tokens(%q) = %v, want %v", tt.command, got, tt.want)
			}
		})
	}
}

func TestParseForOS(t *testing.T) {
	tests := []struct {
		name     string
		goos     string
		command  string
		wantName string
		wantArgs []string
	}{
		{
			name:     "simple unix command",
			goos:     "linux",
			command:  "ls -la /tmp",
			wantName: "ls",
			wantArgs: []string{"-la", "/tmp"},
		},
		{
			name:     "quoted argument",
			goos:     "linux",
			command:  "grep -r 'text' .",
			wantName: "grep",
			wantArgs: []string{"-r", "text", "."},
		},
		{
			name:     "powershell prefix on windows",
			goos:     "windows",
			command:  "powershell Get-Process | Sort-Object CPU",
			wantName: "powershell",
			wantArgs: []string{"-Command", "Get-Process | Sort-Object CPU"},
		},
		{
			name:     "powershell.exe prefix on windows",
			goos:     "windows",
			command:  "powershell.exe Get-ChildItem",
			wantName: "powershell.exe",
			wantArgs: []string{"-Command", "Get-ChildItem"},
		},
		{
			name:     "bare powershell has no remainder",
			goos:     "windows",
			command:  "powershell",
			wantName: "powershell",
			wantArgs: nil,
		},
		{
			name:     "powershell prefix means nothing off windows",
			goos:     "linux",
			command:  "powershell Get-Process",
			wantName: "powershell",
			wantArgs: []string{"Get-Process"},
		},
		{
			name:     "windows path survives tokenization",
			goos:     "windows",
			command:  `dir C:\Users`,
			wantName: "dir",
			wantArgs: []string{`C:\Users`},
		},
		{
			name:     "unbalanced quote falls back to whitespace",
			goos:     "linux",
			command:  `echo "unclosed`,
			wantName: "echo",
			wantArgs: []string{`"unclosed`},
		},
		{
			name:     "pipeline keeps operator tokens",
			goos:     "linux",
			command:  "cat a.log | grep error",
			wantName: "cat",
			wantArgs: []string{"a.log", "|", "grep", "error"},
		},
		{
			name:     "empty",
			goos:     "linux",
			command:  "",
			wantName: "",
			wantArgs: nil,
		},
		{
			name:     "whitespace only",
			goos:     "windows",
			command:  "   ",
			wantName: "",
			wantArgs: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			name, args := ParseForOS(tt.goos, tt.command)
			if name != tt.wantName {
				t.Errorf("name = %q, want %q", name, tt.wantName)
			}
			if !reflect.DeepEqual(args, tt.wantArgs) {
				t.Errorf("args = %v, want %v", args, tt.wantArgs)
			}
		})
	}
}

func TestParseRoundTrip(t *testing.T) {
	// Simple space-separated commands must reassemble into themselves.
	commands := []string{
		"ls -la /tmp",
		"git status",
		"tar -czf backup.tar.gz /home/user",
		"du -sh .",
	}

	for _, command := range commands {
		name, args := ParseForOS("linux", command)
		rejoined := strings.TrimSpace(name + " " + strings.Join(args, " "))
		if rejoined != command {
			t.Errorf("round trip of %q = %q", command, rejoined)
		}
	}
}
