package security

import (
	"path/filepath"
	"slices"
	"strings"

	"github.com/cockroachdb/errors"
	"mvdan.cc/sh/v3/syntax"
)

// ErrParseFailed is returned when a command is not valid shell.
var ErrParseFailed = errors.New("failed to parse command")

// CommandAnalyzer finds write-type commands in shell input.
type CommandAnalyzer struct {
	parser *syntax.Parser
}

// NewCommandAnalyzer creates an analyzer using the bash dialect.
func NewCommandAnalyzer() *CommandAnalyzer {
	return &CommandAnalyzer{parser: syntax.NewParser(syntax.Variant(syntax.LangBash))}
}

// CommandNames returns the program names of every simple command in
// command, including those nested in pipelines, lists, subshells and
// substitutions. A leading sudo is skipped.
func (a *CommandAnalyzer) CommandNames(command string) ([]string, error) {
	file, err := a.parser.Parse(strings.NewReader(command), "")
	if err != nil {
		return nil, errors.Wrap(ErrParseFailed, err.Error())
	}

	var names []string

	syntax.Walk(file, func(node syntax.Node) bool {
		call, ok := node.(*syntax.CallExpr)
		if !ok || len(call.Args) == 0 {
			return true
		}

		if name := commandName(call.Args); name != "" {
			names = append(names, name)
		}

		return true
	})

	return names, nil
}

// HasWriteCommand reports whether any command in the input is a write-type
// program. Input that does not parse falls back to a separator regex.
func (a *CommandAnalyzer) HasWriteCommand(command string) bool {
	names, err := a.CommandNames(command)
	if err != nil {
		return writePrefixPattern.MatchString(command)
	}

	return slices.ContainsFunc(names, isWriteCommand)
}

func isWriteCommand(name string) bool {
	return slices.Contains(WriteCommands, name)
}

func commandName(args []*syntax.Word) string {
	i := 0

	if literal(args[0]) == "sudo" {
		i = 1
		for i < len(args) && strings.HasPrefix(literal(args[i]), "-") {
			i++
		}
	}

	if i >= len(args) {
		return ""
	}

	name := literal(args[i])
	if name == "" {
		return ""
	}

	return filepath.Base(name)
}

// literal flattens quoted and unquoted literal parts of a word. Expansions
// contribute nothing.
func literal(word *syntax.Word) string {
	if word == nil {
		return ""
	}

	var sb strings.Builder

	for _, part := range word.Parts {
		switch p := part.(type) {
		case *syntax.Lit:
			sb.WriteString(p.Value)
		case *syntax.SglQuoted:
			sb.WriteString(p.Value)
		case *syntax.DblQuoted:
			for _, dq := range p.Parts {
				if lit, ok := dq.(*syntax.Lit); ok {
					sb.WriteString(lit.Value)
				}
			}
		}
	}

	return sb.String()
}
