package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"slices"
	"strings"
	"testing"
)

func TestRunCLIStartsLSPAndExitsOnEOF(t *testing.T) {
	origStdin := os.Stdin
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("pipe: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close write pipe: %v", err)
	}
	os.Stdin = r
	defer func() {
		os.Stdin = origStdin
		_ = r.Close()
	}()

	if err := runCLI([]string{"parser", "lsp"}); err != nil {
		t.Fatalf("runCLI lsp failed: %v", err)
	}
}

func TestServeAnswersInitializeAndStopsOnExit(t *testing.T) {
	var in bytes.Buffer
	writeFrame(t, &in, `{"jsonrpc":"2.0","id":1,"method":"initialize","params":{}}`)
	writeFrame(t, &in, `{"jsonrpc":"2.0","method":"exit"}`)
	writeFrame(t, &in, `{"jsonrpc":"2.0","id":2,"method":"shutdown"}`)

	var out bytes.Buffer
	if err := runLSP(&in, &out, nil); err != nil {
		t.Fatalf("serve failed: %v", err)
	}

	frames := strings.Count(out.String(), "Content-Length:")
	if frames != 1 {
		t.Fatalf("expected exactly one response before exit, got %d:\n%s", frames, out.String())
	}
	if !strings.Contains(out.String(), `"hoverProvider":true`) {
		t.Fatalf("missing capabilities in %q", out.String())
	}
}

func TestServeRejectsMissingContentLength(t *testing.T) {
	in := strings.NewReader("X-Other: 1\r\n\r\n{}")
	err := runLSP(in, &bytes.Buffer{}, nil)
	if err == nil || !strings.Contains(err.Error(), "missing Content-Length") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestDiagnosticsForSourceWithoutErrors(t *testing.T) {
	diags := diagnosticsForSource("int x = 1 ;\nx = x + 2 ;\n")
	if len(diags) != 0 {
		t.Fatalf("expected no diagnostics, got %v", diags)
	}
}

func TestDiagnosticsForSourceMapsPositions(t *testing.T) {
	diags := diagnosticsForSource("int x = 5 ;\n  y = 1 ;\n")
	if len(diags) != 1 {
		t.Fatalf("expected 1 diagnostic, got %v", diags)
	}
	first := diags[0]
	if first["severity"] != 1 {
		t.Fatalf("expected severity 1, got %#v", first["severity"])
	}
	if first["code"] != "use-before-declaration" {
		t.Fatalf("unexpected code %#v", first["code"])
	}
	if first["message"] != "variable 'y' used before declaration" {
		t.Fatalf("unexpected message %#v", first["message"])
	}
	start := first["range"].(map[string]any)["start"].(map[string]any)
	if start["line"] != 1 || start["character"] != 2 {
		t.Fatalf("unexpected start %#v", start)
	}
}

func TestDiagnosticsForSourceAtEndOfInput(t *testing.T) {
	diags := diagnosticsForSource("int x = 5")
	if len(diags) != 1 {
		t.Fatalf("expected 1 diagnostic, got %v", diags)
	}
	start := diags[0]["range"].(map[string]any)["start"].(map[string]any)
	if start["line"] != 0 || start["character"] != 9 {
		t.Fatalf("unexpected start %#v", start)
	}
}

func TestCompletionItemsAreSortedAndCategorized(t *testing.T) {
	_, symbols := parseDocument("int total = 1 ;\nfloat avg ;\n")
	items := completionItems(symbols.Symbols())

	labels := make([]string, 0, len(items))
	for _, item := range items {
		label, ok := item["label"].(string)
		if !ok {
			t.Fatalf("unexpected completion label: %#v", item["label"])
		}
		labels = append(labels, label)
	}
	if !slices.IsSorted(labels) {
		t.Fatalf("expected sorted completion labels, got %v", labels)
	}

	keyword := findCompletionItem(t, items, "int")
	if keyword["detail"] != "type keyword" || keyword["kind"] != 14 {
		t.Fatalf("unexpected keyword item: %#v", keyword)
	}

	variable := findCompletionItem(t, items, "avg")
	if variable["detail"] != "float" || variable["kind"] != 6 {
		t.Fatalf("unexpected variable item: %#v", variable)
	}
}

func TestHandleMessageDidOpenPublishesDiagnostics(t *testing.T) {
	server := newLSPServer(strings.NewReader(""), &bytes.Buffer{}, nil)
	payload := mustMarshal(t, map[string]any{
		"textDocument": map[string]any{
			"uri":  "file:///tmp/test.tok",
			"text": "int x = ;\n",
		},
	})

	messages := server.handleMessage(lspInboundMessage{
		JSONRPC: "2.0",
		Method:  "textDocument/didOpen",
		Params:  payload,
	})
	if len(messages) != 1 {
		t.Fatalf("expected one publishDiagnostics notification, got %d", len(messages))
	}
	if messages[0].Method != "textDocument/publishDiagnostics" {
		t.Fatalf("unexpected method: %q", messages[0].Method)
	}
	paramsMap, ok := messages[0].Params.(map[string]any)
	if !ok {
		t.Fatalf("unexpected params payload: %#v", messages[0].Params)
	}
	diags, ok := paramsMap["diagnostics"].([]map[string]any)
	if !ok {
		t.Fatalf("unexpected diagnostics payload: %#v", paramsMap["diagnostics"])
	}
	if len(diags) == 0 {
		t.Fatalf("expected diagnostics for invalid source")
	}
	if server.docs["file:///tmp/test.tok"] != "int x = ;\n" {
		t.Fatalf("document not stored")
	}
}

func TestHandleMessageHoverDescribesDeclaredVariable(t *testing.T) {
	server := newLSPServer(strings.NewReader(""), &bytes.Buffer{}, nil)
	server.docs["file:///tmp/test.tok"] = "int count = 3 ;\ncount = count * 2 ;\n"

	value := hoverValue(t, server, "file:///tmp/test.tok", 1, 10)
	for _, want := range []string{"`int count`", "declared at 1:1", "Number(3)"} {
		if !strings.Contains(value, want) {
			t.Fatalf("expected %q in hover value, got %q", want, value)
		}
	}

	if value := hoverValue(t, server, "file:///tmp/test.tok", 0, 1); !strings.Contains(value, "type keyword") {
		t.Fatalf("expected keyword hover, got %q", value)
	}
}

func TestHandleMessageUnknownMethod(t *testing.T) {
	server := newLSPServer(strings.NewReader(""), &bytes.Buffer{}, nil)
	messages := server.handleMessage(lspInboundMessage{
		JSONRPC: "2.0",
		ID:      rawID("7"),
		Method:  "workspace/symbol",
	})
	if len(messages) != 1 || messages[0].Error == nil || messages[0].Error.Code != -32601 {
		t.Fatalf("expected method-not-found error, got %#v", messages)
	}
}

func TestWordAtPosition(t *testing.T) {
	source := "int total = 1 ;\n  total = total + 1 ;\n"
	if word := wordAtPosition(source, 1, 4); word != "total" {
		t.Fatalf("expected total, got %q", word)
	}
	if word := wordAtPosition(source, 1, 8); word != "" {
		t.Fatalf("expected no word on '=', got %q", word)
	}
}

func TestWordAtPositionUsesUTF16CharacterOffsets(t *testing.T) {
	source := "😀😀x y\n"
	word := wordAtPosition(source, 0, 4)
	if word != "x" {
		t.Fatalf("expected x, got %q", word)
	}
}

func hoverValue(t *testing.T, server *lspServer, uri string, line, character int) string {
	t.Helper()
	payload := mustMarshal(t, map[string]any{
		"textDocument": map[string]any{"uri": uri},
		"position":     map[string]any{"line": line, "character": character},
	})
	messages := server.handleMessage(lspInboundMessage{
		JSONRPC: "2.0",
		ID:      rawID("1"),
		Method:  "textDocument/hover",
		Params:  payload,
	})
	if len(messages) != 1 {
		t.Fatalf("expected one response, got %d", len(messages))
	}
	result, ok := messages[0].Result.(map[string]any)
	if !ok {
		t.Fatalf("unexpected hover result: %#v", messages[0].Result)
	}
	contents := result["contents"].(map[string]any)
	value, ok := contents["value"].(string)
	if !ok {
		t.Fatalf("unexpected hover value: %#v", contents["value"])
	}
	return value
}

func writeFrame(t *testing.T, buf *bytes.Buffer, body string) {
	t.Helper()
	fmt.Fprintf(buf, "Content-Length: %d\r\n\r\n%s", len(body), body)
}

func mustMarshal(t *testing.T, v any) json.RawMessage {
	t.Helper()
	payload, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("marshal params: %v", err)
	}
	return payload
}

func rawID(value string) *json.RawMessage {
	raw := json.RawMessage(value)
	return &raw
}

func findCompletionItem(t *testing.T, items []map[string]any, label string) map[string]any {
	t.Helper()
	for _, item := range items {
		itemLabel, ok := item["label"].(string)
		if ok && itemLabel == label {
			return item
		}
	}
	t.Fatalf("missing completion item %q", label)
	return nil
}
