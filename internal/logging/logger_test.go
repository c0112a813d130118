package logging

import (
	"bytes"
	"context"
	"log/slog"
	"path/filepath"
	"strings"
	"testing"
)

func TestNewRejectsUnknownFormat(t *testing.T) {
	if _, err := New(Options{Format: "xml"}); err == nil {
		t.Fatal("expected error for unsupported format")
	}
}

func TestNewCreatesLogFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "folio.log")
	logger, err := New(Options{Level: "debug", Format: "json", OutputPaths: []string{path}})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	logger.Info("hello")
}

func TestConsoleHandlerOutput(t *testing.T) {
	var buf bytes.Buffer
	lvl := new(slog.LevelVar)
	logger := slog.New(newConsoleHandler(&buf, lvl))
	logger = NewComponentLogger(logger, "library")

	logger.Info("metadata updated", String(FieldItemID, "/books/dune.m4b"))

	out := buf.String()
	if !strings.Contains(out, "[library]") {
		t.Fatalf("missing component tag: %q", out)
	}
	if !strings.Contains(out, "metadata updated") {
		t.Fatalf("missing message: %q", out)
	}
	if !strings.Contains(out, "item_id=/books/dune.m4b") {
		t.Fatalf("missing attr: %q", out)
	}
}

func TestNoopHandlerDisabled(t *testing.T) {
	if (NoopHandler{}).Enabled(context.Background(), slog.LevelError) {
		t.Fatal("noop handler must never be enabled")
	}
	NewNop().Error("dropped", Error(nil))
}

func TestParseLevelDefaults(t *testing.T) {
	if parseLevel("nonsense") != slog.LevelInfo {
		t.Fatal("unknown level should default to info")
	}
	if parseLevel("WARN") != slog.LevelWarn {
		t.Fatal("level parsing should be case-insensitive")
	}
}
