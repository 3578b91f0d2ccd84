// Package cmdline splits raw command strings into tokens the way an
// interactive shell would, without expanding anything. Splitting is lexical
// only — $VAR references, globs, and substitutions stay literal — so the
// tokens are safe to inspect before a command ever runs.
package cmdline

import (
	"runtime"
	"strings"

	"mvdan.cc/sh/v3/syntax"
)

// Tokens splits a command into shell words and operator tokens in source
// order. Quotes group and are removed; pipes, logical connectors, and
// redirections become their own tokens. Only genuinely malformed input
// (unbalanced quotes, truncated syntax) returns an error; use Parse for a
// version that degrades to whitespace splitting instead.
func Tokens(command string) ([]string, error) {
	parser := syntax.NewParser()
	file, err := parser.Parse(strings.NewReader(command), "")
	if err != nil {
		return nil, err
	}

	var tokens []string
	for i, stmt := range file.Stmts {
		if i > 0 {
			tokens = append(tokens, ";")
		}
		tokens = appendStmtTokens(tokens, stmt, command)
	}
	return tokens, nil
}

// Parse splits a command into its name and arguments using the rules of the
// current OS.
func Parse(command string) (string, []string) {
	return ParseForOS(runtime.GOOS, command)
}

// ParseForOS splits a command as the given OS would. On Windows a leading
// "powershell" or "powershell.exe" keeps the rest of the line intact as a
// single -Command argument, since PowerShell receives whole script blocks
// that must not be word-split. Everything else is tokenized with shell
// quoting rules, falling back to whitespace splitting on a syntax error.
// Empty or whitespace-only input yields ("", nil).
func ParseForOS(goos, command string) (string, []string) {
	if goos == "windows" {
		for _, prefix := range []string{"powershell ", "powershell.exe "} {
			if strings.HasPrefix(command, prefix) {
				name, rest, _ := strings.Cut(command, " ")
				return name, []string{"-Command", rest}
			}
		}
	}

	tokens, err := Tokens(command)
	if err != nil {
		tokens = strings.Fields(command)
	}
	if len(tokens) == 0 {
		return "", nil
	}
	args := tokens[1:]
	if len(args) == 0 {
		args = nil
	}
	return tokens[0], args
}

func appendStmtTokens(tokens []string, stmt *syntax.Stmt, src string) []string {
	switch cmd := stmt.Cmd.(type) {
	case *syntax.CallExpr:
		for _, assign := range cmd.Assigns {
			tokens = append(tokens, sourceSlice(src, assign))
		}
		for _, word := range cmd.Args {
			tokens = append(tokens, wordText(word, src))
		}
	case *syntax.BinaryCmd:
		tokens = appendStmtTokens(tokens, cmd.X, src)
		tokens = append(tokens, cmd.Op.String())
		tokens = appendStmtTokens(tokens, cmd.Y, src)
	default:
		// Subshells, loops, conditionals: kept whole. Callers inspecting
		// individual tokens treat compound commands as opaque.
		if stmt.Cmd != nil {
			tokens = append(tokens, sourceSlice(src, stmt.Cmd))
		}
	}

	for _, redir := range stmt.Redirs {
		op := redir.Op.String()
		if redir.N != nil {
			op = redir.N.Value + op
		}
		tokens = append(tokens, op)
		if redir.Word != nil {
			tokens = append(tokens, wordText(redir.Word, src))
		}
	}
	return tokens
}

// wordText reconstructs a word's field text from its syntax parts. Quoted
// parts contribute their contents; anything unusual keeps its literal source
// text so that no information is invented or lost.
func wordText(w *syntax.Word, src string) string {
	var b strings.Builder
	for _, part := range w.Parts {
		b.WriteString(partText(part, src))
	}
	return b.String()
}

func partText(part syntax.WordPart, src string) string {
	switch p := part.(type) {
	case *syntax.Lit:
		return p.Value
	case *syntax.SglQuoted:
		return p.Value
	case *syntax.DblQuoted:
		var b strings.Builder
		for _, inner := range p.Parts {
			b.WriteString(partText(inner, src))
		}
		return b.String()
	default:
		// ParamExp, CmdSubst, ProcSubst and friends: keep the source text.
		return sourceSlice(src, part)
	}
}

func sourceSlice(src string, node syntax.Node) string {
	start, end := int(node.Pos().Offset()), int(node.End().Offset())
	if start < 0 || end > len(src) || start > end {
		return ""
	}
	return src[start:end]
}
