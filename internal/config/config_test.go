package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"pressmark/internal/config"
)

func TestLoadDefaultConfigUsesEnvTokenAndExpandsPaths(t *testing.T) {
	t.Setenv("DISCOGS_TOKEN", "test-token")
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if resolved == "" {
		t.Fatal("expected resolved path")
	}
	if exists {
		t.Fatal("expected config file to be absent in temp HOME")
	}

	wantData := filepath.Join(tempHome, ".local", "share", "pressmark")
	if cfg.Paths.DataDir != wantData {
		t.Fatalf("unexpected data dir: got %q want %q", cfg.Paths.DataDir, wantData)
	}
	if cfg.Provider.Token != "test-token" {
		t.Fatalf("expected provider token from env, got %q", cfg.Provider.Token)
	}
	if cfg.Provider.BaseURL != config.Default().Provider.BaseURL {
		t.Fatalf("unexpected provider base url: %q", cfg.Provider.BaseURL)
	}
	if cfg.Resolver.BatchSize != 25 {
		t.Fatalf("unexpected batch size: %d", cfg.Resolver.BatchSize)
	}
	if cfg.Resolver.CommitThreshold != 95 || cfg.Resolver.RunnerUpGap != 15 {
		t.Fatalf("unexpected auto-commit thresholds: %d/%d", cfg.Resolver.CommitThreshold, cfg.Resolver.RunnerUpGap)
	}
	if cfg.Logging.Format != "text" || cfg.Logging.Level != "info" {
		t.Fatalf("unexpected logging defaults: %q/%q", cfg.Logging.Format, cfg.Logging.Level)
	}
	if cfg.DatabasePath() != filepath.Join(wantData, "pressmark.db") {
		t.Fatalf("unexpected database path: %q", cfg.DatabasePath())
	}
}

func TestLoadExplicitFileOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	content := strings.Join([]string{
		"[paths]",
		`data_dir = "` + filepath.Join(dir, "data") + `"`,
		"",
		"[provider]",
		`token = "abc"`,
		"requests_per_minute = 30",
		"",
		"[resolver]",
		"batch_size = 5",
		"commit_threshold = 90",
		"",
		"[logging]",
		`format = "JSON"`,
	}, "\n")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, resolved, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists || resolved == "" {
		t.Fatalf("expected config file to be found, exists=%v resolved=%q", exists, resolved)
	}
	if cfg.Provider.Token != "abc" {
		t.Fatalf("unexpected token: %q", cfg.Provider.Token)
	}
	if cfg.Provider.RequestsPerMinute != 30 {
		t.Fatalf("unexpected throttle: %d", cfg.Provider.RequestsPerMinute)
	}
	if cfg.Resolver.BatchSize != 5 || cfg.Resolver.CommitThreshold != 90 {
		t.Fatalf("unexpected resolver overrides: %+v", cfg.Resolver)
	}
	// Untouched values keep their defaults.
	if cfg.Resolver.LookupTimeoutSeconds != 20 {
		t.Fatalf("unexpected lookup timeout: %d", cfg.Resolver.LookupTimeoutSeconds)
	}
	if cfg.Logging.Format != "json" {
		t.Fatalf("format not normalized: %q", cfg.Logging.Format)
	}
}

func TestLoadRejectsMissingToken(t *testing.T) {
	t.Setenv("DISCOGS_TOKEN", "")
	t.Setenv("HOME", t.TempDir())

	if _, _, _, err := config.Load(""); err == nil {
		t.Fatal("expected error when provider token missing")
	}
}

func TestLoadRejectsInvalidThreshold(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	content := "[provider]\ntoken = \"abc\"\n\n[resolver]\ncommit_threshold = 150\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, _, _, err := config.Load(path); err == nil {
		t.Fatal("expected error for out-of-range commit threshold")
	}
}

func TestCreateSampleWritesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	if err := config.CreateSample(path); err != nil {
		t.Fatalf("CreateSample returned error: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read sample: %v", err)
	}
	if !strings.Contains(string(data), "[provider]") {
		t.Fatal("sample config missing provider section")
	}
}
