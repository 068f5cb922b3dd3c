package main

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf16"

	"github.com/spf13/cobra"

	"github.com/PatchedDragon/Parser/syntax"
)

func newLSPCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "lsp",
		Short: "Serve parser diagnostics for notation documents over stdio",
		Long: `Runs a minimal Language Server Protocol server on stdin/stdout. Open
documents are read as token notation; every change republishes the
parser's diagnostics. Hover describes keywords and declared variables,
and completion offers type keywords plus the document's declared names.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLSP(cmd.InOrStdin(), cmd.OutOrStdout(), c.logger)
		},
	}
}

type lspInboundMessage struct {
	JSONRPC string           `json:"jsonrpc"`
	ID      *json.RawMessage `json:"id,omitempty"`
	Method  string           `json:"method,omitempty"`
	Params  json.RawMessage  `json:"params,omitempty"`
}

type lspResponseError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type lspOutboundMessage struct {
	JSONRPC string            `json:"jsonrpc"`
	ID      *json.RawMessage  `json:"id,omitempty"`
	Method  string            `json:"method,omitempty"`
	Params  any               `json:"params,omitempty"`
	Result  any               `json:"result,omitempty"`
	Error   *lspResponseError `json:"error,omitempty"`
}

type lspTextDocument struct {
	URI  string `json:"uri"`
	Text string `json:"text,omitempty"`
}

type lspDidOpenParams struct {
	TextDocument lspTextDocument `json:"textDocument"`
}

type lspDidChangeParams struct {
	TextDocument   lspTextDocument `json:"textDocument"`
	ContentChanges []struct {
		Text string `json:"text"`
	} `json:"contentChanges"`
}

type lspTextDocumentPositionParams struct {
	TextDocument lspTextDocument `json:"textDocument"`
	Position     struct {
		Line      int `json:"line"`
		Character int `json:"character"`
	} `json:"position"`
}

type lspServer struct {
	reader *bufio.Reader
	writer *bufio.Writer
	logger *slog.Logger
	docs   map[string]string
}

func newLSPServer(in io.Reader, out io.Writer, logger *slog.Logger) *lspServer {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &lspServer{
		reader: bufio.NewReader(in),
		writer: bufio.NewWriter(out),
		logger: logger.With("component", "lsp"),
		docs:   make(map[string]string),
	}
}

func runLSP(in io.Reader, out io.Writer, logger *slog.Logger) error {
	return newLSPServer(in, out, logger).serve()
}

func (s *lspServer) serve() error {
	for {
		payload, err := s.readPayload()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}

		var incoming lspInboundMessage
		if err := json.Unmarshal(payload, &incoming); err != nil {
			s.logger.Warn("dropping malformed message", "error", err)
			continue
		}

		for _, msg := range s.handleMessage(incoming) {
			if err := s.writePayload(msg); err != nil {
				return err
			}
		}

		if incoming.Method == "exit" {
			return nil
		}
	}
}

func (s *lspServer) handleMessage(incoming lspInboundMessage) []lspOutboundMessage {
	switch incoming.Method {
	case "initialize":
		return []lspOutboundMessage{
			{
				JSONRPC: "2.0",
				ID:      incoming.ID,
				Result: map[string]any{
					"capabilities": map[string]any{
						"textDocumentSync": 1,
						"hoverProvider":    true,
						"completionProvider": map[string]any{
							"resolveProvider": false,
						},
					},
				},
			},
		}
	case "initialized", "exit":
		return nil
	case "shutdown":
		if incoming.ID == nil {
			return nil
		}
		return []lspOutboundMessage{{JSONRPC: "2.0", ID: incoming.ID, Result: nil}}
	case "textDocument/didOpen":
		var params lspDidOpenParams
		if err := json.Unmarshal(incoming.Params, &params); err != nil {
			return nil
		}
		s.docs[params.TextDocument.URI] = params.TextDocument.Text
		return []lspOutboundMessage{
			s.publishDiagnostics(params.TextDocument.URI, params.TextDocument.Text),
		}
	case "textDocument/didChange":
		var params lspDidChangeParams
		if err := json.Unmarshal(incoming.Params, &params); err != nil {
			return nil
		}
		if len(params.ContentChanges) == 0 {
			return nil
		}
		latest := params.ContentChanges[len(params.ContentChanges)-1].Text
		s.docs[params.TextDocument.URI] = latest
		return []lspOutboundMessage{
			s.publishDiagnostics(params.TextDocument.URI, latest),
		}
	case "textDocument/didClose":
		var params lspDidOpenParams
		if err := json.Unmarshal(incoming.Params, &params); err != nil {
			return nil
		}
		delete(s.docs, params.TextDocument.URI)
		return nil
	case "textDocument/completion":
		if incoming.ID == nil {
			return nil
		}
		var params lspTextDocumentPositionParams
		_ = json.Unmarshal(incoming.Params, &params)
		_, symbols := parseDocument(s.docs[params.TextDocument.URI])
		return []lspOutboundMessage{
			{
				JSONRPC: "2.0",
				ID:      incoming.ID,
				Result: map[string]any{
					"isIncomplete": false,
					"items":        completionItems(symbols.Symbols()),
				},
			},
		}
	case "textDocument/hover":
		if incoming.ID == nil {
			return nil
		}
		var params lspTextDocumentPositionParams
		if err := json.Unmarshal(incoming.Params, &params); err != nil {
			return []lspOutboundMessage{
				{
					JSONRPC: "2.0",
					ID:      incoming.ID,
					Error:   &lspResponseError{Code: -32602, Message: "invalid hover params"},
				},
			}
		}
		source := s.docs[params.TextDocument.URI]
		word := wordAtPosition(source, params.Position.Line, params.Position.Character)
		if word == "" {
			return []lspOutboundMessage{{JSONRPC: "2.0", ID: incoming.ID, Result: nil}}
		}
		_, symbols := parseDocument(source)
		return []lspOutboundMessage{
			{
				JSONRPC: "2.0",
				ID:      incoming.ID,
				Result: map[string]any{
					"contents": map[string]any{
						"kind":  "markdown",
						"value": hoverText(word, symbols),
					},
				},
			},
		}
	default:
		if incoming.ID == nil {
			return nil
		}
		return []lspOutboundMessage{
			{
				JSONRPC: "2.0",
				ID:      incoming.ID,
				Error: &lspResponseError{
					Code:    -32601,
					Message: "method not found",
				},
			},
		}
	}
}

func (s *lspServer) publishDiagnostics(uri, source string) lspOutboundMessage {
	diags := diagnosticsForSource(source)
	s.logger.Debug("published diagnostics", "uri", uri, "count", len(diags))
	return lspOutboundMessage{
		JSONRPC: "2.0",
		Method:  "textDocument/publishDiagnostics",
		Params: map[string]any{
			"uri":         uri,
			"diagnostics": diags,
		},
	}
}

// parseDocument reads source as notation. The symbol table is never nil.
func parseDocument(source string) ([]error, *syntax.SymbolTable) {
	tokens, err := syntax.DecodeTokens(strings.NewReader(source), syntax.FormatNotation)
	if err != nil {
		return []error{err}, syntax.NewSymbolTable()
	}
	p := syntax.NewParser(tokens, syntax.Options{})
	_, errs := p.Parse()
	return errs, p.Symbols()
}

func diagnosticsForSource(source string) []map[string]any {
	errs, _ := parseDocument(source)
	out := make([]map[string]any, 0, len(errs))
	lines := strings.Split(source, "\n")
	for _, err := range errs {
		var diag *syntax.Diagnostic
		if !errors.As(err, &diag) {
			out = append(out, newDiagnostic(0, 0, "", err.Error()))
			continue
		}
		line, character := diagnosticRange(lines, diag)
		out = append(out, newDiagnostic(line, character, diag.Kind.String(), diag.Message))
	}
	return out
}

// diagnosticRange maps a 1-based byte position to a 0-based UTF-16 one.
// EOF diagnostics land at the end of the last non-empty line.
func diagnosticRange(lines []string, diag *syntax.Diagnostic) (int, int) {
	if diag.AtEOF || diag.Pos.Line <= 0 || diag.Pos.Line > len(lines) {
		last := len(lines) - 1
		for last > 0 && strings.TrimSpace(lines[last]) == "" {
			last--
		}
		text := strings.TrimSuffix(lines[last], "\r")
		return last, utf16Offset(text, len(text))
	}
	text := strings.TrimSuffix(lines[diag.Pos.Line-1], "\r")
	return diag.Pos.Line - 1, utf16Offset(text, max(diag.Pos.Column-1, 0))
}

func utf16Offset(text string, byteOffset int) int {
	if byteOffset > len(text) {
		byteOffset = len(text)
	}
	n := 0
	for _, r := range text[:byteOffset] {
		n += utf16.RuneLen(r)
	}
	return n
}

func newDiagnostic(line, character int, code, message string) map[string]any {
	diag := map[string]any{
		"range": map[string]any{
			"start": map[string]any{
				"line":      line,
				"character": character,
			},
			"end": map[string]any{
				"line":      line,
				"character": character + 1,
			},
		},
		"severity": 1,
		"source":   "parser",
		"message":  message,
	}
	if code != "" {
		diag["code"] = code
	}
	return diag
}

func completionItems(symbols []syntax.Symbol) []map[string]any {
	items := make([]map[string]any, 0, len(completionWords)+len(symbols))
	for _, word := range completionWords {
		items = append(items, map[string]any{
			"label":  word,
			"kind":   14, // Keyword
			"detail": "type keyword",
		})
	}
	for _, sym := range symbols {
		items = append(items, map[string]any{
			"label":  sym.Name,
			"kind":   6, // Variable
			"detail": sym.Type,
		})
	}
	sort.SliceStable(items, func(i, j int) bool {
		return items[i]["label"].(string) < items[j]["label"].(string)
	})
	return items
}

func hoverText(word string, symbols *syntax.SymbolTable) string {
	if syntax.IsTypeKeyword(word) {
		return fmt.Sprintf("`%s`\n\ntype keyword", word)
	}
	if syntax.IsKeyword(word) {
		return fmt.Sprintf("`%s`\n\nkeyword (no statement form)", word)
	}
	if sym, ok := symbols.Lookup(word); ok {
		text := fmt.Sprintf("`%s %s`\n\ndeclared at %s", sym.Type, sym.Name, sym.Pos)
		if sym.Value != nil {
			text += "\n\ninitializer: `" + sym.Value.String() + "`"
		}
		return text
	}
	if _, err := strconv.ParseFloat(word, 64); err == nil {
		return fmt.Sprintf("`%s`\n\nnumber literal", word)
	}
	return fmt.Sprintf("`%s`\n\nundeclared identifier", word)
}

// wordAtPosition takes an LSP position, whose character offset counts UTF-16
// code units.
func wordAtPosition(source string, line, character int) string {
	lines := strings.Split(source, "\n")
	if line < 0 || line >= len(lines) {
		return ""
	}

	runes := []rune(strings.TrimSuffix(lines[line], "\r"))
	if len(runes) == 0 {
		return ""
	}

	cursor := 0
	for units := 0; cursor < len(runes) && units < character; cursor++ {
		units += utf16.RuneLen(runes[cursor])
	}
	if cursor == len(runes) {
		cursor--
	}
	if !isWordRune(runes[cursor]) {
		if cursor > 0 && isWordRune(runes[cursor-1]) {
			cursor--
		} else {
			return ""
		}
	}

	start := cursor
	for start > 0 && isWordRune(runes[start-1]) {
		start--
	}
	end := cursor
	for end < len(runes) && isWordRune(runes[end]) {
		end++
	}
	return string(runes[start:end])
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' || r == '.'
}

func (s *lspServer) readPayload() ([]byte, error) {
	contentLength := -1
	for {
		line, err := s.reader.ReadString('\n')
		if err != nil {
			return nil, err
		}
		line = strings.TrimRight(line, "\r\n")
		if line == "" {
			break
		}
		name, value, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		if strings.EqualFold(strings.TrimSpace(name), "Content-Length") {
			n, err := strconv.Atoi(strings.TrimSpace(value))
			if err != nil {
				return nil, fmt.Errorf("invalid Content-Length: %w", err)
			}
			contentLength = n
		}
	}

	if contentLength < 0 {
		return nil, errors.New("missing Content-Length header")
	}
	payload := make([]byte, contentLength)
	if _, err := io.ReadFull(s.reader, payload); err != nil {
		return nil, err
	}
	return payload, nil
}

func (s *lspServer) writePayload(msg lspOutboundMessage) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintf(s.writer, "Content-Length: %d\r\n\r\n", len(data)); err != nil {
		return err
	}
	if _, err := s.writer.Write(data); err != nil {
		return err
	}
	return s.writer.Flush()
}
