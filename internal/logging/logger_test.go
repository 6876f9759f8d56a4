package logging

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestNewWritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "out.log")
	logger, err := New(Options{Level: "debug", Format: "text", OutputPaths: []string{path}})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	logger.Info("engine started", String("component", "engine"))

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	if !strings.Contains(string(data), "engine started") {
		t.Fatalf("log file missing message: %q", string(data))
	}
}

func TestNewRejectsUnknownFormat(t *testing.T) {
	if _, err := New(Options{Format: "yaml"}); err == nil {
		t.Fatal("expected error for unsupported format")
	}
}

func TestParseLevelFallsBackToInfo(t *testing.T) {
	if got := parseLevel("verbose"); got != parseLevel("info") {
		t.Fatalf("unexpected level for unknown input: %v", got)
	}
}

func TestWithContextAddsFields(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.log")
	logger, err := New(Options{OutputPaths: []string{path}})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	ctx := WithItemID(context.Background(), 42)
	ctx = WithRequestID(ctx, "req-1")
	WithContext(ctx, logger).Info("lookup finished")

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	text := string(data)
	if !strings.Contains(text, "item_id=42") || !strings.Contains(text, "request_id=req-1") {
		t.Fatalf("context fields missing: %q", text)
	}
}

func TestNewNopDiscards(t *testing.T) {
	logger := NewNop()
	logger.Error("should not panic")
}
