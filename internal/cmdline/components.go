package cmdline

import (
	"fmt"
	"strings"
)

// ComponentKind labels the role a token plays in a command line.
type ComponentKind string

const (
	KindCommand     ComponentKind = "command"
	KindSubcommand  ComponentKind = "subcommand"
	KindFlag        ComponentKind = "flag"
	KindArgument    ComponentKind = "argument"
	KindOperator    ComponentKind = "operator"
	KindPipe        ComponentKind = "pipe"
	KindRedirection ComponentKind = "redirection"
	KindOther       ComponentKind = "other"
)

// Component is one annotated token of a command line. The JSON shape matches
// the translation response schema, so model-supplied breakdowns and locally
// derived ones are interchangeable.
type Component struct {
	Part        string        `json:"part"`
	Description string        `json:"description"`
	Type        ComponentKind `json:"type"`
}

var flagDescriptions = map[string]string{
	"-r": "Recursive operation flag",
	"-R": "Recursive operation flag",
	"-f": "Force operation without confirmation",
	"-v": "Verbose output flag",
	"-h": "Help flag to display usage information",

	"--recursive": "Recursive operation flag",
	"--force":     "Force operation without confirmation",
	"--verbose":   "Verbose output flag",
	"--help":      "Help flag to display usage information",
}

var operatorDescriptions = map[string]string{
	">":  "Output redirection (overwrites file)",
	">>": "Output redirection (appends to file)",
	"<":  "Input redirection (reads from file)",
	"|":  "Pipe output to another command",
	"&&": "Run the next command only if this one succeeds",
	"||": "Run the next command only if this one fails",
	";":  "Run the next command unconditionally",
}

// subcommandTools lists commands whose first bare argument is a subcommand
// rather than an operand.
var subcommandTools = map[string]bool{
	"git":       true,
	"docker":    true,
	"kubectl":   true,
	"systemctl": true,
	"apt":       true,
	"apt-get":   true,
	"brew":      true,
	"npm":       true,
	"pip":       true,
	"cargo":     true,
	"go":        true,
}

// Components splits a command and annotates each token with its role. The
// breakdown is heuristic: flags are dash-prefixed tokens, redirection and
// pipe targets are consumed together with their operator, and path-looking
// operands are labeled as paths. Used as a local fallback when a translation
// arrives without its own component breakdown.
func Components(command string) []Component {
	name, args := Parse(command)
	if name == "" {
		return nil
	}

	components := []Component{{
		Part:        name,
		Description: "The main command to execute",
		Type:        KindCommand,
	}}

	for i := 0; i < len(args); i++ {
		arg := args[i]
		switch {
		case strings.HasPrefix(arg, "-"):
			description := flagDescriptions[arg]
			if description == "" {
				description = "Command flag"
			}
			components = append(components, Component{Part: arg, Description: description, Type: KindFlag})

		case operatorDescriptions[arg] != "":
			components = append(components, Component{Part: arg, Description: operatorDescriptions[arg], Type: operatorKind(arg)})
			// The token after a redirection or pipe is its target.
			if target, kind, ok := operatorTarget(arg); ok && i+1 < len(args) {
				components = append(components, Component{
					Part:        args[i+1],
					Description: fmt.Sprintf("Target %s for %s operation", target, arg),
					Type:        kind,
				})
				i++
			}

		case i == 0 && subcommandTools[name] && !strings.ContainsAny(arg, `/\.`):
			components = append(components, Component{
				Part:        arg,
				Description: fmt.Sprintf("Subcommand of %s", name),
				Type:        KindSubcommand,
			})

		case strings.ContainsAny(arg, `/\.`):
			components = append(components, Component{Part: arg, Description: "File or directory path", Type: KindArgument})

		default:
			components = append(components, Component{Part: arg, Description: "Command argument", Type: KindArgument})
		}
	}

	return components
}

func operatorKind(op string) ComponentKind {
	switch op {
	case "|":
		return KindPipe
	case ">", ">>", "<":
		return KindRedirection
	}
	return KindOperator
}

// operatorTarget reports what follows an operator: a file for redirections,
// a command for pipes, nothing for chaining operators.
func operatorTarget(op string) (string, ComponentKind, bool) {
	switch op {
	case ">", ">>", "<":
		return "file", KindArgument, true
	case "|":
		return "command", KindCommand, true
	}
	return "", KindOther, false
}
