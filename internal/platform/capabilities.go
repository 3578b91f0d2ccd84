package platform

import "strings"

// Capabilities describes what a shell supports. Values are static per shell
// family except process_substitution, which is verified empirically for
// bash, and supports_unicode, which follows ANSI color support.
type Capabilities map[string]bool

// CapabilitiesFor returns the capability profile for a shell name. Unknown
// shells get the conservative base profile: pipes and redirection only.
func CapabilitiesFor(name string) Capabilities {
	caps := Capabilities{
		"supports_redirection": true,
		"supports_pipes":       true,
		"filename_completion":  false,
		"command_aliases":      false,
		"array_support":        false,
		"process_substitution": false,
		"supports_unicode":     SupportsANSIColors(),
		"multiline_commands":   false,
		"command_history":      false,
		"command_editing":      false,
	}

	switch name {
	case "bash", "zsh", "fish":
		caps["filename_completion"] = true
		caps["command_aliases"] = true
		caps["array_support"] = true
		caps["process_substitution"] = name != "fish"
		caps["multiline_commands"] = true
		caps["command_history"] = true
		caps["command_editing"] = true
	case "powershell", "pwsh":
		caps["filename_completion"] = true
		caps["command_aliases"] = true
		caps["array_support"] = true
		caps["multiline_commands"] = true
		caps["command_history"] = true
		caps["command_editing"] = true
		caps["object_pipeline"] = true
		caps["type_system"] = true
	case "cmd":
		caps["filename_completion"] = true
		caps["command_history"] = true
	}

	// For bash, process substitution is additionally verified by running
	// one. The probe only confirms; a failed probe keeps the static value.
	if name == "bash" {
		if out, err := runProbeFn([]string{"bash", "-c", "cat <(echo 'test')"}, probeTimeout); err == nil && strings.Contains(out, "test") {
			caps["process_substitution"] = true
		}
	}

	return caps
}
