package prompt

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/hpkotak/shellsage/internal/cmdline"
)

// Explanation is the JSON contract for a command explanation response.
type Explanation struct {
	Explanation     string              `json:"explanation" jsonschema_description:"Overall explanation of the command"`
	Components      []cmdline.Component `json:"components,omitempty" jsonschema_description:"Breakdown of each part of the command"`
	Examples        []string            `json:"examples,omitempty" jsonschema_description:"Example usages of the command"`
	RelatedCommands []string            `json:"related_commands,omitempty" jsonschema_description:"Related commands worth knowing"`
}

const explainContract = `You are ShellSage, an expert in explaining terminal commands.
Your task is to explain the given command in a clear, educational way.
Break down each component and explain what it does.

EXPLANATION GUIDELINES:
1. Start with a high-level overview of what the command accomplishes
2. Break down each component (command, flags, arguments, etc.)
3. Explain how the components work together
4. Mention any potential pitfalls or common mistakes
5. Suggest related commands or variations

COMPONENT BREAKDOWN GUIDELINES:
- For each flag, explain its specific purpose
- For arguments, explain the expected format and impact
- For pipes or redirections, explain how data flows
- For complex syntax, explain the pattern and why it works

RESPONSE FORMAT REQUIREMENTS:
You MUST respond in valid JSON format with this EXACT structure:
{
  "explanation": "overall explanation of the command",
  "components": [
    {"part": "specific command part", "description": "what this part does",
     "type": "command|subcommand|flag|argument|operator|pipe|redirection|other"}
  ],
  "examples": ["example usage 1", "example usage 2"],
  "related_commands": ["related1", "related2"]
}

EXAMPLE EXPLANATION:

[Command: "find . -name "*.txt" -type f -size +1M"]
{
  "explanation": "This command searches for text files larger than 1 megabyte in the current directory and all subdirectories.",
  "components": [
    {"part": "find", "description": "The command that searches for files in a directory hierarchy", "type": "command"},
    {"part": ".", "description": "The starting directory for the search (current directory)", "type": "argument"},
    {"part": "-name "*.txt"", "description": "Matches files with names ending in .txt", "type": "flag"},
    {"part": "-type f", "description": "Restricts the search to regular files (not directories or other special files)", "type": "flag"},
    {"part": "-size +1M", "description": "Matches files larger than 1 megabyte", "type": "flag"}
  ],
  "examples": [
    "find /home/user -name "*.log" -type f -size +10M",
    "find Documents -name "report*.txt" -type f -mtime -7"
  ],
  "related_commands": ["grep", "locate", "ls", "du"]
}`

// ExplainSystemPrompt returns the system prompt for the explain flow.
func ExplainSystemPrompt() string {
	return explainContract
}

// ExplainUserMessage wraps a command as the user turn of the explain flow.
func ExplainUserMessage(command string) string {
	return fmt.Sprintf("Explain this command: %s", command)
}

// ParseExplanation decodes an explanation response. The explanation text is
// required; components, examples, and related commands may be empty.
func ParseExplanation(raw string) (Explanation, error) {
	text := strings.TrimSpace(raw)
	if text == "" {
		return Explanation{}, fmt.Errorf("empty explanation response")
	}

	obj, ok := extractJSONObject(text)
	if !ok {
		return Explanation{}, fmt.Errorf("no JSON object in explanation response")
	}

	var e Explanation
	if err := json.Unmarshal([]byte(obj), &e); err != nil {
		return Explanation{}, fmt.Errorf("decoding explanation: %w", err)
	}

	e.Explanation = strings.TrimSpace(e.Explanation)
	if e.Explanation == "" {
		return Explanation{}, fmt.Errorf("explanation response has no explanation text")
	}

	return e, nil
}
