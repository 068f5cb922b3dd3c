package main

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/PatchedDragon/Parser/syntax"
)

var tokenFileExts = map[string]struct{}{
	".tok":    {},
	".tokens": {},
	".json":   {},
	".yaml":   {},
	".yml":    {},
}

func newConvertCmd(c *cli) *cobra.Command {
	var (
		to    string
		write bool
	)
	cmd := &cobra.Command{
		Use:   "convert --to json|yaml|notation [-w] <path>...",
		Short: "Re-encode token streams",
		Long: `Converts token files between JSON, YAML and notation. Directories are
walked for *.tok, *.tokens, *.json, *.yaml and *.yml files. With -w each
result is written next to its source with the target extension instead of
being printed.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return errors.New("parser convert: path required")
			}
			format, err := syntax.ParseFormat(to)
			if err != nil {
				return fmt.Errorf("parser convert: %w", err)
			}
			return c.convert(cmd.OutOrStdout(), args, format, write)
		},
	}
	cmd.Flags().StringVar(&to, "to", "", "target format (json|yaml|notation)")
	cmd.Flags().BoolVarP(&write, "write", "w", false, "write results to files instead of stdout")
	_ = cmd.MarkFlagRequired("to")
	return cmd
}

func (c *cli) convert(w io.Writer, targets []string, format syntax.Format, write bool) error {
	files, err := collectTokenFiles(targets)
	if err != nil {
		return err
	}

	for _, path := range files {
		tokens, _, err := readTokenFile(path)
		if err != nil {
			return err
		}
		if !write {
			if err := syntax.EncodeTokens(w, tokens, format); err != nil {
				return fmt.Errorf("encode %s: %w", path, err)
			}
			continue
		}

		var buf bytes.Buffer
		if err := syntax.EncodeTokens(&buf, tokens, format); err != nil {
			return fmt.Errorf("encode %s: %w", path, err)
		}
		info, err := os.Stat(path)
		if err != nil {
			return fmt.Errorf("stat %s: %w", path, err)
		}
		out := convertedPath(path, format)
		if err := os.WriteFile(out, buf.Bytes(), info.Mode().Perm()); err != nil {
			return fmt.Errorf("write %s: %w", out, err)
		}
		c.logger.Debug("converted token file", "from", path, "to", out, "tokens", len(tokens))
	}
	return nil
}

func convertedPath(path string, format syntax.Format) string {
	base := strings.TrimSuffix(path, filepath.Ext(path))
	switch format {
	case syntax.FormatJSON:
		return base + ".json"
	case syntax.FormatYAML:
		return base + ".yaml"
	default:
		return base + ".tok"
	}
}

// collectTokenFiles expands directories and de-duplicates. Files named
// explicitly are kept whatever their extension.
func collectTokenFiles(targets []string) ([]string, error) {
	seen := make(map[string]struct{})
	files := make([]string, 0)
	addFile := func(path string) {
		abs, err := filepath.Abs(path)
		if err != nil {
			return
		}
		if _, ok := seen[abs]; ok {
			return
		}
		seen[abs] = struct{}{}
		files = append(files, abs)
	}

	for _, target := range targets {
		info, err := os.Stat(target)
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", target, err)
		}
		if !info.IsDir() {
			addFile(target)
			continue
		}
		err = filepath.WalkDir(target, func(path string, entry fs.DirEntry, walkErr error) error {
			if walkErr != nil {
				return walkErr
			}
			if entry.IsDir() {
				return nil
			}
			if _, ok := tokenFileExts[strings.ToLower(filepath.Ext(path))]; ok {
				addFile(path)
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("walk %s: %w", target, err)
		}
	}

	sort.Strings(files)
	return files, nil
}
