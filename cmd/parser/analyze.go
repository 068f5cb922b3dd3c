package main

import (
	"errors"
	"fmt"
	"io"
	"sort"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/PatchedDragon/Parser/syntax"
)

type lintWarning struct {
	Pos     syntax.Position
	Name    string
	Message string
}

func newAnalyzeCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "analyze <token-file>",
		Short: "Lint a token stream that parses cleanly",
		Long: `Reports variables that are declared but never read, self-assignments,
and division or modulo by a literal zero.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return errors.New("parser analyze: token file required")
			}
			return c.analyze(cmd.OutOrStdout(), args[0])
		},
	}
}

func (c *cli) analyze(w io.Writer, path string) error {
	res, err := c.parseFile(path)
	if err != nil {
		return err
	}
	if len(res.errs) > 0 {
		for _, line := range c.theme().diagnosticLines(res.errs, res.source) {
			fmt.Fprintln(w, line)
		}
		return fmt.Errorf("analysis parse failed: %d diagnostic(s)", len(res.errs))
	}

	warnings := analyzeProgram(res.program, res.symbols)
	if len(warnings) == 0 {
		fmt.Fprintln(w, "No issues found")
		return nil
	}

	for _, warning := range warnings {
		line := warning.Pos.Line
		column := warning.Pos.Column
		if line <= 0 {
			line = 1
		}
		if column <= 0 {
			column = 1
		}
		fmt.Fprintf(w, "%s:%d:%d: %s\n", path, line, column, warning.Message)
	}

	return fmt.Errorf("analysis found %d issue(s)", len(warnings))
}

func analyzeProgram(program *syntax.Program, symbols *syntax.SymbolTable) []lintWarning {
	warnings := make([]lintWarning, 0)
	reads := make(map[string]bool)

	syntax.Walk(program, func(n syntax.Node) bool {
		switch node := n.(type) {
		case *syntax.Identifier:
			reads[node.Name] = true
		case *syntax.Assignment:
			if id, ok := node.Value.(*syntax.Identifier); ok && id.Name == node.Name {
				warnings = append(warnings, lintWarning{
					Pos:     node.Pos(),
					Name:    node.Name,
					Message: fmt.Sprintf("self-assignment of '%s'", node.Name),
				})
			}
		case *syntax.BinaryOp:
			if (node.Operator == "/" || node.Operator == "%") && isZeroLiteral(node.Right) {
				warnings = append(warnings, lintWarning{
					Pos:     node.Pos(),
					Message: fmt.Sprintf("'%s' by literal zero", node.Operator),
				})
			}
		}
		return true
	})

	for _, sym := range symbols.Symbols() {
		if !reads[sym.Name] {
			warnings = append(warnings, lintWarning{
				Pos:     sym.Pos,
				Name:    sym.Name,
				Message: fmt.Sprintf("variable '%s' declared but never read", sym.Name),
			})
		}
	}

	sort.SliceStable(warnings, func(i, j int) bool {
		if warnings[i].Pos.Line != warnings[j].Pos.Line {
			return warnings[i].Pos.Line < warnings[j].Pos.Line
		}
		if warnings[i].Pos.Column != warnings[j].Pos.Column {
			return warnings[i].Pos.Column < warnings[j].Pos.Column
		}
		return warnings[i].Message < warnings[j].Message
	})

	return warnings
}

func isZeroLiteral(expr syntax.Expression) bool {
	num, ok := expr.(*syntax.Number)
	if !ok {
		return false
	}
	value, err := strconv.ParseFloat(num.Value, 64)
	return err == nil && value == 0
}
