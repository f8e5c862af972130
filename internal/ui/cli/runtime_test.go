package cli

import (
	"path/filepath"
	"strings"
	"testing"
	"time"

	"a11ylint/internal/core/config"
)

func TestApplyModeOptions_OverridesWatchPathWithPositionalArg(t *testing.T) {
	opts := &cliOptions{args: []string{"./override"}}
	cfg := config.Default()
	cfg.WatchPaths = []string{"./original"}

	if err := applyModeOptions(opts, cfg); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(cfg.WatchPaths) != 1 || cfg.WatchPaths[0] != "./override" {
		t.Fatalf("unexpected watch paths: %v", cfg.WatchPaths)
	}
}

func TestApplyModeOptions_RejectsFileAndUI(t *testing.T) {
	opts := &cliOptions{file: "page.html", ui: true}
	cfg := config.Default()

	err := applyModeOptions(opts, cfg)
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "cannot be used together") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestApplyModeOptions_SinceRequiresHistory(t *testing.T) {
	opts := &cliOptions{since: "2026-01-01"}
	cfg := config.Default()

	if err := applyModeOptions(opts, cfg); err == nil {
		t.Fatal("expected error")
	}

	opts.history = true
	if err := applyModeOptions(opts, cfg); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestApplyModeOptions_MergesDisabledAnalyzers(t *testing.T) {
	opts := &cliOptions{disable: "positive-tabindex, mouse-only-click"}
	cfg := config.Default()
	cfg.Analyzers.Disabled = []string{"missing-accessible-name"}

	if err := applyModeOptions(opts, cfg); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(cfg.Analyzers.Disabled) != 3 {
		t.Fatalf("unexpected disabled set: %v", cfg.Analyzers.Disabled)
	}
}

func TestApplyModeOptions_SingleFileScopeRequiresFile(t *testing.T) {
	opts := &cliOptions{}
	cfg := config.Default()
	cfg.Scope = config.ScopeSingleFile

	if err := applyModeOptions(opts, cfg); err == nil {
		t.Fatal("expected error")
	}
}

func TestParseSince(t *testing.T) {
	got, err := parseSince("2026-03-01")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Fatalf("got %v, want %v", got, want)
	}

	if _, err := parseSince("yesterday"); err == nil {
		t.Fatal("expected error for invalid timestamp")
	}
}

func TestLoadConfig_FallsBackToDefaults(t *testing.T) {
	dir := t.TempDir()
	missing := filepath.Join(dir, "nope.toml")

	if _, err := loadConfig(missing); err == nil {
		t.Fatal("explicit missing config path should fail")
	}
}

func TestParseOptions_Defaults(t *testing.T) {
	opts, err := parseOptions([]string{"-once", "./web"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !opts.once {
		t.Error("once not set")
	}
	if opts.configPath != defaultConfigPath {
		t.Errorf("configPath = %q", opts.configPath)
	}
	if len(opts.args) != 1 || opts.args[0] != "./web" {
		t.Errorf("args = %v", opts.args)
	}
}
