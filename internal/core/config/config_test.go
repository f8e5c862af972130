package config

import (
	"strings"
	"testing"
	"time"
)

func TestDefaults(t *testing.T) {
	cfg, err := Parse("")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if cfg.Version != 1 {
		t.Errorf("version = %d", cfg.Version)
	}
	if cfg.Scope != ScopeFullWorkspace {
		t.Errorf("scope = %s", cfg.Scope)
	}
	if cfg.Watch.Debounce != 500*time.Millisecond {
		t.Errorf("debounce = %s", cfg.Watch.Debounce)
	}
	if len(cfg.WatchPaths) != 1 || cfg.WatchPaths[0] != "." {
		t.Errorf("watch_paths = %v", cfg.WatchPaths)
	}
	if cfg.History.BusyTimeout != 5*time.Second {
		t.Errorf("busy_timeout = %s", cfg.History.BusyTimeout)
	}
}

func TestFullConfig(t *testing.T) {
	cfg, err := Parse(`
version = 1
scope = "fragment-set"
watch_paths = ["templates", "static"]

[exclude]
dirs = ["vendor"]
files = ["*.min.js"]

[watch]
debounce = "250ms"

[output]
sarif = "findings.sarif"
markdown = "findings.md"

[history]
enabled = true
path = "state/history.db"

[observability]
enabled = true
address = "127.0.0.1:9300"

[analyzers]
disabled = ["positive-tabindex"]

[alerts]
beep = true
`)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if cfg.Scope != ScopeFragmentSet {
		t.Errorf("scope = %s", cfg.Scope)
	}
	if cfg.Watch.Debounce != 250*time.Millisecond {
		t.Errorf("debounce = %s", cfg.Watch.Debounce)
	}
	if cfg.Output.SARIF != "findings.sarif" {
		t.Errorf("sarif = %s", cfg.Output.SARIF)
	}
	if !cfg.History.Enabled || cfg.History.Path != "state/history.db" {
		t.Errorf("history = %+v", cfg.History)
	}
	if len(cfg.Analyzers.Disabled) != 1 || cfg.Analyzers.Disabled[0] != "positive-tabindex" {
		t.Errorf("disabled = %v", cfg.Analyzers.Disabled)
	}
	if !cfg.Alerts.Beep {
		t.Error("alerts.beep lost")
	}
}

func TestInvalidScope(t *testing.T) {
	_, err := Parse(`scope = "whole-project"`)
	if err == nil || !strings.Contains(err.Error(), "scope") {
		t.Fatalf("err = %v", err)
	}
}

func TestUnsupportedVersion(t *testing.T) {
	_, err := Parse(`version = 9`)
	if err == nil || !strings.Contains(err.Error(), "version") {
		t.Fatalf("err = %v", err)
	}
}

func TestEmptyExcludeEntryRejected(t *testing.T) {
	_, err := Parse("[exclude]\ndirs = [\"ok\", \" \"]\n")
	if err == nil || !strings.Contains(err.Error(), "exclude.dirs") {
		t.Fatalf("err = %v", err)
	}
}
