package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"folio/internal/config"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, _, exists, err := config.Load(filepath.Join(t.TempDir(), "absent.toml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if exists {
		t.Fatal("expected exists=false for missing file")
	}
	if cfg.Provider.BaseURL != "https://openlibrary.org" {
		t.Fatalf("unexpected provider base URL: %q", cfg.Provider.BaseURL)
	}
	if cfg.Logging.Level != "info" {
		t.Fatalf("unexpected default log level: %q", cfg.Logging.Level)
	}
}

func TestLoadParsesOverrides(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	content := `
[paths]
library_dir = "` + filepath.Join(dir, "books") + `"

[provider]
base_url = "https://openlibrary.example/"
max_results = 3

[scan]
extensions = ["M4B", ".mp3", ".mp3"]

[logging]
level = "debug"
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, resolved, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !exists || resolved != path {
		t.Fatalf("unexpected resolution: exists=%v path=%q", exists, resolved)
	}
	if cfg.Provider.BaseURL != "https://openlibrary.example" {
		t.Fatalf("base URL not trimmed: %q", cfg.Provider.BaseURL)
	}
	if cfg.Provider.MaxResults != 3 {
		t.Fatalf("max results: %d", cfg.Provider.MaxResults)
	}
	want := []string{".m4b", ".mp3"}
	if len(cfg.Scan.Extensions) != len(want) {
		t.Fatalf("extensions not normalized: %v", cfg.Scan.Extensions)
	}
	for i, ext := range want {
		if cfg.Scan.Extensions[i] != ext {
			t.Fatalf("extensions not normalized: %v", cfg.Scan.Extensions)
		}
	}
}

func TestLoadRejectsBadLogging(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("[logging]\nformat = \"xml\"\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, _, _, err := config.Load(path); err == nil {
		t.Fatal("expected validation error for bad log format")
	}
}

func TestWriteSampleRefusesOverwrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := config.WriteSample(path); err != nil {
		t.Fatalf("WriteSample: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read sample: %v", err)
	}
	if !strings.Contains(string(data), "[provider]") {
		t.Fatal("sample config missing provider section")
	}
	if err := config.WriteSample(path); err == nil {
		t.Fatal("expected error when sample already exists")
	}
}

func TestEnsureDirectories(t *testing.T) {
	dir := t.TempDir()
	cfg := config.Default()
	cfg.Paths.LibraryDir = filepath.Join(dir, "books")
	cfg.Paths.DataDir = filepath.Join(dir, "data")
	cfg.Paths.LogDir = filepath.Join(dir, "logs")
	cfg.Paths.CoverDir = filepath.Join(dir, "covers")

	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories: %v", err)
	}
	for _, sub := range []string{"data", "logs", "covers"} {
		if _, err := os.Stat(filepath.Join(dir, sub)); err != nil {
			t.Fatalf("directory %s missing: %v", sub, err)
		}
	}
}
