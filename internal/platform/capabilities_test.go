package platform

import (
	"testing"
	"time"
)

func TestCapabilitiesFor(t *testing.T) {
	origProbe := runProbeFn
	defer func() { runProbeFn = origProbe }()
	runProbeFn = failingProbe

	tests := []struct {
		name  string
		shell string
		want  map[string]bool
	}{
		{
			name:  "bash",
			shell: "bash",
			want: map[string]bool{
				"supports_pipes":       true,
				"process_substitution": true,
				"array_support":        true,
				"command_aliases":      true,
				"multiline_commands":   true,
				"object_pipeline":      false,
			},
		},
		{
			name:  "fish has no process substitution",
			shell: "fish",
			want: map[string]bool{
				"supports_pipes":       true,
				"process_substitution": false,
				"array_support":        true,
			},
		},
		{
			name:  "powershell",
			shell: "powershell",
			want: map[string]bool{
				"supports_pipes":       true,
				"object_pipeline":      true,
				"type_system":          true,
				"process_substitution": false,
			},
		},
		{
			name:  "pwsh matches powershell",
			shell: "pwsh",
			want: map[string]bool{
				"object_pipeline": true,
				"type_system":     true,
			},
		},
		{
			name:  "cmd is minimal",
			shell: "cmd",
			want: map[string]bool{
				"supports_pipes":       true,
				"supports_redirection": true,
				"filename_completion":  true,
				"command_history":      true,
				"command_aliases":      false,
				"array_support":        false,
				"multiline_commands":   false,
			},
		},
		{
			name:  "unknown shell gets the base profile",
			shell: "ksh",
			want: map[string]bool{
				"supports_pipes":       true,
				"supports_redirection": true,
				"filename_completion":  false,
				"command_history":      false,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			caps := CapabilitiesFor(tt.shell)
			for key, want := range tt.want {
				if got := caps[key]; got != want {
					t.Errorf("%s: %s = %v, want %v", tt.shell, key, got, want)
				}
			}
		})
	}
}

func TestCapabilitiesForBashProbe(t *testing.T) {
	origProbe := runProbeFn
	defer func() { runProbeFn = origProbe }()

	var probed []string
	runProbeFn = func(argv []string, _ time.Duration) (string, error) {
		probed = argv
		return "test\n", nil
	}

	caps := CapabilitiesFor("bash")
	if !caps["process_substitution"] {
		t.Error("process_substitution = false after a successful probe")
	}
	if len(probed) == 0 || probed[0] != "bash" {
		t.Errorf("probe argv = %v, want a bash invocation", probed)
	}

	// Other shells never run the probe.
	probed = nil
	CapabilitiesFor("zsh")
	if probed != nil {
		t.Errorf("probe ran for zsh: %v", probed)
	}
}
