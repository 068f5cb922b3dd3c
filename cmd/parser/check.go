package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/PatchedDragon/Parser/syntax"
)

func newCheckCmd(c *cli) *cobra.Command {
	var (
		format  string
		symbols bool
	)
	cmd := &cobra.Command{
		Use:   "check [flags] <token-file>...",
		Short: "Parse token streams and print the tree and diagnostics",
		Long: `Parses each token file and prints its statements, optionally the symbol
table, and every diagnostic. Exits non-zero when any diagnostic was recorded.

Examples:
  parser check program.tok
  parser check --format json tokens.json
  echo "int x = 1 ;" | parser check -`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return errors.New("parser check: token file required")
			}
			if !cmd.Flags().Changed("format") {
				format = c.cfg.Format
			}
			if !cmd.Flags().Changed("symbols") {
				symbols = c.cfg.ShowSymbols
			}
			return c.check(cmd.OutOrStdout(), args, format, symbols)
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "text", "output format (text|json)")
	cmd.Flags().BoolVarP(&symbols, "symbols", "s", false, "print the symbol table")
	return cmd
}

func (c *cli) check(w io.Writer, paths []string, format string, showSymbols bool) error {
	if format != "text" && format != "json" {
		return fmt.Errorf("parser check: unknown format %q", format)
	}

	results := make([]parseResult, 0, len(paths))
	total := 0
	for _, path := range paths {
		res, err := c.parseFile(path)
		if err != nil {
			return err
		}
		total += len(res.errs)
		results = append(results, res)
	}

	var err error
	if format == "json" {
		err = writeJSONReports(w, results, showSymbols)
	} else {
		writeTextReports(w, c.theme(), results, showSymbols)
	}
	if err != nil {
		return err
	}

	if total > 0 {
		return fmt.Errorf("parse found %d diagnostic(s)", total)
	}
	return nil
}

func writeTextReports(w io.Writer, th theme, results []parseResult, showSymbols bool) {
	for i, res := range results {
		if i > 0 {
			fmt.Fprintln(w)
		}
		fmt.Fprintln(w, th.header.Render(res.path))
		if res.statementCount() == 0 {
			fmt.Fprintln(w, th.muted.Render("  (no statements)"))
		} else {
			for _, stmt := range res.program.Statements {
				fmt.Fprintln(w, "  "+th.result.Render(stmt.String()))
			}
		}

		if showSymbols {
			fmt.Fprintln(w, th.muted.Render("symbols:"))
			for _, line := range th.symbolLines(res.symbols.Symbols()) {
				fmt.Fprintln(w, "  "+line)
			}
		}

		if len(res.errs) > 0 {
			fmt.Fprintln(w, th.err.Render(fmt.Sprintf("%d diagnostic(s):", len(res.errs))))
			for _, line := range th.diagnosticLines(res.errs, res.source) {
				fmt.Fprintln(w, line)
			}
		}
	}
}

type checkReport struct {
	RunID       string             `json:"run_id"`
	File        string             `json:"file"`
	Statements  int                `json:"statements"`
	AST         *syntax.Program    `json:"ast"`
	Symbols     []symbolReport     `json:"symbols,omitempty"`
	Diagnostics []diagnosticReport `json:"diagnostics"`
}

type symbolReport struct {
	Name  string            `json:"name"`
	Type  string            `json:"type"`
	Value syntax.Expression `json:"value,omitempty"`
	Line  int               `json:"line"`
	Col   int               `json:"col"`
}

type diagnosticReport struct {
	Kind    string `json:"kind"`
	Line    int    `json:"line,omitempty"`
	Col     int    `json:"col,omitempty"`
	AtEOF   bool   `json:"at_eof,omitempty"`
	Message string `json:"message"`
	Text    string `json:"text"`
}

func writeJSONReports(w io.Writer, results []parseResult, showSymbols bool) error {
	reports := make([]checkReport, 0, len(results))
	for _, res := range results {
		report := checkReport{
			RunID:       res.runID,
			File:        res.path,
			Statements:  res.statementCount(),
			AST:         res.program,
			Diagnostics: make([]diagnosticReport, 0, len(res.errs)),
		}
		if showSymbols {
			for _, sym := range res.symbols.Symbols() {
				report.Symbols = append(report.Symbols, symbolReport{
					Name:  sym.Name,
					Type:  sym.Type,
					Value: sym.Value,
					Line:  sym.Pos.Line,
					Col:   sym.Pos.Column,
				})
			}
		}
		for _, err := range res.errs {
			report.Diagnostics = append(report.Diagnostics, newDiagnosticReport(err))
		}
		reports = append(reports, report)
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(reports); err != nil {
		return fmt.Errorf("encode report: %w", err)
	}
	return nil
}

func newDiagnosticReport(err error) diagnosticReport {
	var diag *syntax.Diagnostic
	if !errors.As(err, &diag) {
		return diagnosticReport{Kind: "error", Message: err.Error(), Text: err.Error()}
	}
	return diagnosticReport{
		Kind:    diag.Kind.String(),
		Line:    diag.Pos.Line,
		Col:     diag.Pos.Column,
		AtEOF:   diag.AtEOF,
		Message: diag.Message,
		Text:    diag.Error(),
	}
}
