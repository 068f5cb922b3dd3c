package main

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadConfigDefaultsWithoutFile(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := loadConfig("")
	if err != nil {
		t.Fatalf("loadConfig failed: %v", err)
	}
	if cfg != defaultConfig() {
		t.Fatalf("expected defaults, got %#v", cfg)
	}
}

func TestLoadConfigTOML(t *testing.T) {
	path := writeConfig(t, "parser.toml", `format = "json"
color = false
show_symbols = true
log_level = "debug"
`)

	cfg, err := loadConfig(path)
	if err != nil {
		t.Fatalf("loadConfig failed: %v", err)
	}
	want := Config{Format: "json", Color: false, ShowSymbols: true, LogLevel: "debug"}
	if cfg != want {
		t.Fatalf("unexpected config: %#v", cfg)
	}
	level, err := cfg.level()
	if err != nil || level != slog.LevelDebug {
		t.Fatalf("unexpected level %v (%v)", level, err)
	}
}

func TestLoadConfigYAMLKeepsUnsetDefaults(t *testing.T) {
	path := writeConfig(t, "parser.yml", "show_symbols: true\n")

	cfg, err := loadConfig(path)
	if err != nil {
		t.Fatalf("loadConfig failed: %v", err)
	}
	if !cfg.ShowSymbols || cfg.Format != "text" || !cfg.Color || cfg.LogLevel != "warn" {
		t.Fatalf("unexpected config: %#v", cfg)
	}
}

func TestLoadConfigDiscoversWorkingDirectoryFile(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "parser.yaml"), []byte("format: json\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Chdir(dir)

	cfg, err := loadConfig("")
	if err != nil {
		t.Fatalf("loadConfig failed: %v", err)
	}
	if cfg.Format != "json" {
		t.Fatalf("expected discovered config, got %#v", cfg)
	}
}

func TestLoadConfigRejectsUnknownKeys(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{name: "parser.toml", content: "colour = false\n"},
		{name: "parser.yaml", content: "colour: false\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := loadConfig(writeConfig(t, tt.name, tt.content)); err == nil {
				t.Fatalf("expected unknown key error")
			}
		})
	}
}

func TestLoadConfigValidatesValues(t *testing.T) {
	_, err := loadConfig(writeConfig(t, "parser.toml", `format = "xml"`))
	if err == nil || !strings.Contains(err.Error(), "format must be text or json") {
		t.Fatalf("unexpected format error: %v", err)
	}

	_, err = loadConfig(writeConfig(t, "parser.toml", `log_level = "loud"`))
	if err == nil || !strings.Contains(err.Error(), "invalid log_level") {
		t.Fatalf("unexpected level error: %v", err)
	}
}

func TestLoadConfigRejectsUnsupportedExtension(t *testing.T) {
	_, err := loadConfig(writeConfig(t, "parser.ini", "format=json"))
	if err == nil || !strings.Contains(err.Error(), "unsupported config format") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestRunCLIAppliesConfigFile(t *testing.T) {
	cfgPath := writeConfig(t, "parser.toml", "format = \"json\"\n")
	path := writeTokens(t, "program.tok", "int x = 1 ;\n")

	out, err := captureStdout(t, func() error {
		return runCLI([]string{"parser", "--config", cfgPath, "check", path})
	})
	if err != nil {
		t.Fatalf("check failed: %v", err)
	}
	if !strings.HasPrefix(strings.TrimSpace(out), "[") {
		t.Fatalf("expected JSON output from config, got %q", out)
	}

	out, err = captureStdout(t, func() error {
		return runCLI([]string{"parser", "--config", cfgPath, "--no-color", "check", "--format", "text", path})
	})
	if err != nil {
		t.Fatalf("check failed: %v", err)
	}
	if !strings.Contains(out, "VarDeclaration(int, x, Number(1))") || strings.HasPrefix(out, "[") {
		t.Fatalf("flag should override config, got %q", out)
	}
}

func writeConfig(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}
