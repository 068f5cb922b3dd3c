package main

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/PatchedDragon/Parser/syntax"
)

func main() {
	if err := runCLI(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func runCLI(args []string) error {
	root := newRootCmd()
	if len(args) > 1 {
		root.SetArgs(args[1:])
	} else {
		root.SetArgs([]string{})
	}
	return root.Execute()
}

// cli carries state shared by all subcommands of one invocation.
type cli struct {
	configPath string
	verbose    bool
	noColor    bool

	cfg    Config
	logger *slog.Logger
}

func newRootCmd() *cobra.Command {
	c := &cli{cfg: defaultConfig(), logger: slog.New(slog.DiscardHandler)}
	root := &cobra.Command{
		Use:   "parser",
		Short: "Syntax analyzer for pre-tokenized declaration and expression streams",
		Long: `parser reads token streams produced by an external lexer, builds the
syntax tree, and reports diagnostics with panic-mode recovery.

Token files:
  *.json        [{"type": "KEYWORD", "lexeme": "int", "line": 1, "col": 1}, ...]
  *.yaml, *.yml the same records as a YAML sequence
  anything else whitespace-separated notation, e.g. "int x = 5 ;"`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.setup(cmd)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			_ = cmd.Help()
			return errors.New("missing command")
		},
	}
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default: ./parser.toml or ./parser.yaml)")
	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "debug logging on stderr")
	root.PersistentFlags().BoolVar(&c.noColor, "no-color", false, "disable styled output")

	root.AddCommand(
		newCheckCmd(c),
		newAnalyzeCmd(c),
		newConvertCmd(c),
		newREPLCmd(c),
		newLSPCmd(c),
	)
	return root
}

func (c *cli) setup(cmd *cobra.Command) error {
	cfg, err := loadConfig(c.configPath)
	if err != nil {
		return err
	}
	if c.noColor {
		cfg.Color = false
	}
	level, err := cfg.level()
	if err != nil {
		return err
	}
	if c.verbose {
		level = slog.LevelDebug
	}
	c.cfg = cfg
	c.logger = newLogger(cmd.ErrOrStderr(), level)
	return nil
}

func (c *cli) theme() theme {
	return newTheme(c.cfg.Color)
}

type parseResult struct {
	runID   string
	path    string
	source  string // notation text, empty for structured formats
	program *syntax.Program
	errs    []error
	symbols *syntax.SymbolTable
}

func (r parseResult) statementCount() int {
	if r.program == nil {
		return 0
	}
	return len(r.program.Statements)
}

func (c *cli) parseFile(path string) (parseResult, error) {
	tokens, source, err := readTokenFile(path)
	if err != nil {
		return parseResult{}, err
	}

	runID := uuid.NewString()
	logger := c.logger.With("run_id", runID, "file", path)
	p := syntax.NewParser(tokens, syntax.Options{Logger: logger})
	program, errs := p.Parse()
	res := parseResult{
		runID:   runID,
		path:    path,
		source:  source,
		program: program,
		errs:    errs,
		symbols: p.Symbols(),
	}
	logger.Info("parsed token stream",
		"tokens", len(tokens),
		"statements", res.statementCount(),
		"diagnostics", len(errs),
	)
	return res, nil
}

// readTokenFile decodes path by extension; "-" reads notation from stdin.
func readTokenFile(path string) ([]syntax.Token, string, error) {
	var (
		data   []byte
		err    error
		format = syntax.FormatFromPath(path)
	)
	if path == "-" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, "", fmt.Errorf("read tokens: %w", err)
	}

	tokens, err := syntax.DecodeTokens(bytes.NewReader(data), format)
	if err != nil {
		return nil, "", fmt.Errorf("%s: %w", path, err)
	}
	source := ""
	if format == syntax.FormatNotation {
		source = string(data)
	}
	return tokens, source, nil
}
