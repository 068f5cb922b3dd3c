package syntax

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Format names a serialized token-stream encoding.
type Format string

const (
	FormatJSON     Format = "json"
	FormatYAML     Format = "yaml"
	FormatNotation Format = "notation"
)

// ParseFormat validates a user-supplied format name.
func ParseFormat(name string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(name))); f {
	case FormatJSON, FormatYAML, FormatNotation:
		return f, nil
	default:
		return "", fmt.Errorf("unknown token format %q", name)
	}
}

// FormatFromPath picks a format from the file extension, defaulting to
// notation.
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatNotation
	}
}

type tokenRecord struct {
	Type   string `json:"type" yaml:"type"`
	Lexeme string `json:"lexeme" yaml:"lexeme"`
	Line   int    `json:"line" yaml:"line"`
	Col    int    `json:"col" yaml:"col"`
}

// DecodeTokens reads a token stream and guarantees it ends with EOF.
func DecodeTokens(r io.Reader, format Format) ([]Token, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read tokens: %w", err)
	}

	var tokens []Token
	switch format {
	case FormatJSON:
		tokens, err = decodeJSONTokens(data)
	case FormatYAML:
		tokens, err = decodeYAMLTokens(data)
	case FormatNotation:
		tokens = readNotation(string(data))
	default:
		return nil, fmt.Errorf("unknown token format %q", format)
	}
	if err != nil {
		return nil, err
	}
	return ensureEOF(tokens), nil
}

func decodeJSONTokens(data []byte) ([]Token, error) {
	var records []tokenRecord
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&records); err != nil {
		return nil, fmt.Errorf("decode json tokens: %w", err)
	}
	return fromRecords(records)
}

func decodeYAMLTokens(data []byte) ([]Token, error) {
	var records []tokenRecord
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&records); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("decode yaml tokens: %w", err)
	}
	return fromRecords(records)
}

func fromRecords(records []tokenRecord) ([]Token, error) {
	tokens := make([]Token, 0, len(records))
	for i, rec := range records {
		if rec.Type == "" {
			return nil, fmt.Errorf("token %d: missing type", i)
		}
		tokens = append(tokens, NewToken(TokenType(strings.ToUpper(rec.Type)), rec.Lexeme, rec.Line, rec.Col))
	}
	return tokens, nil
}

func toRecords(tokens []Token) []tokenRecord {
	records := make([]tokenRecord, len(tokens))
	for i, tok := range tokens {
		records[i] = tokenRecord{Type: string(tok.Type), Lexeme: tok.Lexeme, Line: tok.Pos.Line, Col: tok.Pos.Column}
	}
	return records
}

// ensureEOF appends an EOF token just after the last token when missing.
func ensureEOF(tokens []Token) []Token {
	if n := len(tokens); n > 0 && tokens[n-1].Type == TokenEOF {
		return tokens
	}
	pos := Position{Line: 1, Column: 1}
	if n := len(tokens); n > 0 {
		last := tokens[n-1]
		pos = Position{Line: last.Pos.Line, Column: last.Pos.Column + len(last.Lexeme)}
	}
	return append(tokens, Token{Type: TokenEOF, Pos: pos})
}

// EncodeTokens writes tokens in the given format. Notation output omits the
// trailing EOF token and pads fields to their recorded columns where the
// layout allows it.
func EncodeTokens(w io.Writer, tokens []Token, format Format) error {
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(toRecords(tokens))
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(toRecords(tokens)); err != nil {
			return err
		}
		return enc.Close()
	case FormatNotation:
		return writeNotation(w, tokens)
	default:
		return fmt.Errorf("unknown token format %q", format)
	}
}

func writeNotation(w io.Writer, tokens []Token) error {
	bw := bufio.NewWriter(w)
	line, col := 1, 1
	for _, tok := range tokens {
		if tok.Type == TokenEOF {
			continue
		}
		if strings.ContainsAny(tok.Lexeme, " \t\r\n") {
			return fmt.Errorf("token %s at %s cannot be written as notation", tok, tok.Pos)
		}
		if tok.Pos.Line > line {
			bw.WriteString(strings.Repeat("\n", tok.Pos.Line-line))
			line, col = tok.Pos.Line, 1
		} else if col > 1 {
			bw.WriteByte(' ')
			col++
		}
		if pad := tok.Pos.Column - col; pad > 0 {
			bw.WriteString(strings.Repeat(" ", pad))
			col += pad
		}
		field := notationField(tok)
		bw.WriteString(field)
		col += len(field)
	}
	if col > 1 {
		bw.WriteByte('\n')
	}
	return bw.Flush()
}

// notationField writes the bare lexeme when reading it back yields the same
// type, and the explicit TYPE:lexeme form otherwise.
func notationField(tok Token) string {
	if tok.Lexeme != "" && !strings.Contains(tok.Lexeme, "#") && classifyWord(tok.Lexeme) == tok.Type {
		if _, _, explicit := splitExplicit(tok.Lexeme); !explicit {
			return tok.Lexeme
		}
	}
	return string(tok.Type) + ":" + tok.Lexeme
}
