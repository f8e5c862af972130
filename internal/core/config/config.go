package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

type Config struct {
	Version       int           `toml:"version"`
	Scope         string        `toml:"scope"`
	WatchPaths    []string      `toml:"watch_paths"`
	Exclude       Exclude       `toml:"exclude"`
	Watch         Watch         `toml:"watch"`
	Output        Output        `toml:"output"`
	History       History       `toml:"history"`
	Observability Observability `toml:"observability"`
	Analyzers     Analyzers     `toml:"analyzers"`
	Alerts        Alerts        `toml:"alerts"`
}

// Scope values. Single-file analyzes each file in isolation with a
// degraded confidence, fragment-set merges the configured paths, and
// full-workspace walks everything under the watch paths.
const (
	ScopeSingleFile    = "single-file"
	ScopeFragmentSet   = "fragment-set"
	ScopeFullWorkspace = "full-workspace"
)

type Exclude struct {
	Dirs  []string `toml:"dirs"`
	Files []string `toml:"files"`
}

type Watch struct {
	Debounce time.Duration `toml:"debounce"`
}

type Output struct {
	SARIF    string `toml:"sarif"`
	Markdown string `toml:"markdown"`
}

type History struct {
	Enabled     bool          `toml:"enabled"`
	Path        string        `toml:"path"`
	BusyTimeout time.Duration `toml:"busy_timeout"`
}

type Observability struct {
	Enabled      bool   `toml:"enabled"`
	Address      string `toml:"address"`
	OTLPEndpoint string `toml:"otlp_endpoint"`
}

type Analyzers struct {
	Disabled []string `toml:"disabled"`
}

type Alerts struct {
	Beep     bool `toml:"beep"`
	Terminal bool `toml:"terminal"`
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(string(data))
}

func Parse(data string) (*Config, error) {
	var cfg Config
	if _, err := toml.Decode(data, &cfg); err != nil {
		return nil, err
	}

	applyDefaults(&cfg)

	if err := validateVersion(&cfg); err != nil {
		return nil, err
	}
	if err := validateScope(&cfg); err != nil {
		return nil, err
	}
	if err := validateHistory(&cfg); err != nil {
		return nil, err
	}
	if err := validateObservability(&cfg); err != nil {
		return nil, err
	}
	if err := validateExclude(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Default returns the configuration used when no config file exists.
// Terminal alerts are on here; a config file that wants a silent run
// sets alerts.terminal = false explicitly.
func Default() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	cfg.Alerts.Terminal = true
	return cfg
}

func applyDefaults(cfg *Config) {
	if cfg.Version == 0 {
		cfg.Version = 1
	}
	if strings.TrimSpace(cfg.Scope) == "" {
		cfg.Scope = ScopeFullWorkspace
	}
	if len(cfg.WatchPaths) == 0 {
		cfg.WatchPaths = []string{"."}
	}
	if len(cfg.Exclude.Dirs) == 0 {
		cfg.Exclude.Dirs = []string{"node_modules", ".git", "dist", "build"}
	}
	if cfg.Watch.Debounce == 0 {
		cfg.Watch.Debounce = 500 * time.Millisecond
	}
	if strings.TrimSpace(cfg.History.Path) == "" {
		cfg.History.Path = "a11ylint.db"
	}
	if cfg.History.BusyTimeout <= 0 {
		cfg.History.BusyTimeout = 5 * time.Second
	}
	if strings.TrimSpace(cfg.Observability.Address) == "" {
		cfg.Observability.Address = "127.0.0.1:9215"
	}
}

func validateVersion(cfg *Config) error {
	if cfg.Version < 1 {
		return fmt.Errorf("version must be >= 1, got %d", cfg.Version)
	}
	if cfg.Version > 1 {
		return fmt.Errorf("unsupported config version %d; supported version is 1", cfg.Version)
	}
	return nil
}

func validateScope(cfg *Config) error {
	switch strings.ToLower(strings.TrimSpace(cfg.Scope)) {
	case ScopeSingleFile, ScopeFragmentSet, ScopeFullWorkspace:
		return nil
	}
	return fmt.Errorf("scope must be one of: %s, %s, %s", ScopeSingleFile, ScopeFragmentSet, ScopeFullWorkspace)
}

func validateHistory(cfg *Config) error {
	if cfg.History.Enabled && strings.TrimSpace(cfg.History.Path) == "" {
		return fmt.Errorf("history.path must not be empty when history.enabled=true")
	}
	return nil
}

func validateObservability(cfg *Config) error {
	if cfg.Observability.Enabled && strings.TrimSpace(cfg.Observability.Address) == "" {
		return fmt.Errorf("observability.address must not be empty when observability.enabled=true")
	}
	return nil
}

func validateExclude(cfg *Config) error {
	for _, d := range cfg.Exclude.Dirs {
		if strings.TrimSpace(d) == "" {
			return fmt.Errorf("exclude.dirs must not include empty values")
		}
	}
	for _, f := range cfg.Exclude.Files {
		if strings.TrimSpace(f) == "" {
			return fmt.Errorf("exclude.files must not include empty values")
		}
	}
	return nil
}
