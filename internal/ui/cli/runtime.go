package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	coreapp "a11ylint/internal/core/app"
	"a11ylint/internal/core/config"
	"a11ylint/internal/core/ports"
	"a11ylint/internal/data/history"
	"a11ylint/internal/model"
	"a11ylint/internal/shared/observability"
	"a11ylint/internal/shared/util"
	"a11ylint/internal/shared/version"
	"a11ylint/internal/ui/report"
)

func Run(args []string) int {
	opts, err := parseOptions(args)
	if err != nil {
		return 2
	}

	if opts.version {
		fmt.Printf("a11ylint v%s\n", version.Version)
		return 0
	}

	cleanupLogs := configureLogging(opts.ui, opts.verbose)
	defer cleanupLogs()

	cfg, err := loadConfig(opts.configPath)
	if err != nil {
		slog.Error("failed to load config", "error", err)
		return 1
	}

	if err := applyModeOptions(&opts, cfg); err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		return 1
	}

	projectRoot, err := resolveProjectRoot(cfg)
	if err != nil {
		slog.Error("failed to resolve project root", "error", err)
		return 1
	}

	ctx := context.Background()

	if cfg.Observability.Enabled && strings.TrimSpace(cfg.Observability.OTLPEndpoint) != "" {
		shutdown, err := observability.SetupTracing(ctx, cfg.Observability.OTLPEndpoint)
		if err != nil {
			slog.Warn("tracing setup failed", "endpoint", cfg.Observability.OTLPEndpoint, "error", err)
		} else {
			defer func() {
				if err := shutdown(context.Background()); err != nil {
					slog.Warn("tracing shutdown failed", "error", err)
				}
			}()
		}
	}

	app := coreapp.New(cfg)
	analysis := app.AnalysisService()
	defer analysis.Close(context.Background())

	historyStore, err := openHistoryStoreIfEnabled(opts.history, cfg)
	if err != nil {
		slog.Error("history setup failed", "error", err)
		return 1
	}
	if historyStore != nil {
		defer historyStore.Close()
		app.SetHistoryStore(historyStore)
		app.SetProjectKey(filepath.Base(projectRoot))
	}

	if cfg.Observability.Enabled {
		server := NewObservabilityServer(cfg.Observability.Address, coreapp.NewHealthService(app))
		if err := server.Start(ctx); err != nil {
			slog.Error("failed to start observability server", "error", err)
			return 1
		}
		defer server.Stop(context.Background())
	}

	if opts.file != "" {
		return runSingleFile(ctx, analysis, opts.file)
	}

	start := time.Now()
	scan, err := analysis.RunScan(ctx, ports.ScanRequest{})
	if err != nil {
		slog.Error("initial scan failed", "error", err)
		return 1
	}
	for _, warning := range scan.Warnings {
		slog.Warn("scan warning", "detail", warning)
	}

	result, err := analysis.Analyze(ctx)
	if err != nil {
		slog.Error("analysis failed", "error", err)
		return 1
	}

	if err := writeOutputs(cfg, projectRoot, result); err != nil {
		slog.Error("failed to generate outputs", "error", err)
	}

	if stop, code := runHistoryMode(opts, historyStore, filepath.Base(projectRoot)); stop {
		return code
	}

	if !opts.ui {
		printSummary(cfg, scan.FilesScanned, time.Since(start), result)
	}

	if opts.once {
		if hasErrors(result.Findings) {
			return 1
		}
		return 0
	}

	watch := analysis.WatchService()
	if watch == nil {
		slog.Error("watch service unavailable")
		return 1
	}
	if err := watch.Start(ctx); err != nil {
		slog.Error("failed to start watcher", "error", err)
		return 1
	}

	if opts.ui {
		if err := runUI(app); err != nil {
			slog.Error("failed to run UI", "error", err)
			return 1
		}
		return 0
	}

	if err := watch.Subscribe(ctx, func(update ports.SessionResult) {
		if err := writeOutputs(cfg, projectRoot, update); err != nil {
			slog.Error("failed to regenerate outputs", "error", err)
		}
		printSummary(cfg, 0, update.Duration, update)
	}); err != nil {
		slog.Error("failed to subscribe to updates", "error", err)
		return 1
	}

	select {}
}

func runSingleFile(ctx context.Context, analysis ports.AnalysisService, path string) int {
	result, err := analysis.AnalyzeFile(ctx, path)
	if err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		return 1
	}

	fmt.Printf("Analyzed %s in isolation\n", path)
	fmt.Printf("Confidence: %.2f (%s): %s\n", result.Confidence.Score, result.Confidence.Band, result.Confidence.Reason)
	if len(result.Findings) == 0 {
		fmt.Println("No issues found.")
		return 0
	}
	for _, f := range result.Findings {
		printFinding(f)
	}
	if hasErrors(result.Findings) {
		return 1
	}
	return 0
}

func runHistoryMode(opts cliOptions, store ports.HistoryStore, projectKey string) (bool, int) {
	if opts.since == "" {
		return false, 0
	}
	if store == nil {
		fmt.Fprintln(os.Stderr, "--since requires history to be enabled")
		return true, 1
	}

	since, err := parseSince(opts.since)
	if err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		return true, 1
	}

	snapshots, err := store.LoadSnapshots(projectKey, since)
	if err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		return true, 1
	}

	fmt.Printf("History: %d snapshots for %s\n", len(snapshots), projectKey)
	for _, s := range snapshots {
		fmt.Printf("  %s elements=%d errors=%d warnings=%d score=%.2f (%s)\n",
			s.Timestamp.Format(time.RFC3339),
			s.ElementCount,
			s.ErrorCount,
			s.WarningCount,
			s.Score,
			s.Band,
		)
	}
	return true, 0
}

func loadConfig(path string) (*config.Config, error) {
	cfg, err := config.Load(path)
	if err == nil {
		return cfg, nil
	}
	if path == defaultConfigPath {
		if cfg, exErr := config.Load("./a11ylint.example.toml"); exErr == nil {
			return cfg, nil
		}
		if os.IsNotExist(err) {
			// No config file is fine for a quick scan of the current tree.
			return config.Default(), nil
		}
	}
	return nil, err
}

func applyModeOptions(opts *cliOptions, cfg *config.Config) error {
	if opts.file != "" && opts.ui {
		return fmt.Errorf("--file and --ui cannot be used together")
	}
	if opts.file != "" && len(opts.args) > 0 {
		return fmt.Errorf("--file does not accept positional path arguments")
	}

	if len(opts.args) > 0 {
		cfg.WatchPaths = append([]string(nil), opts.args...)
	}

	if opts.sarifPath != "" {
		cfg.Output.SARIF = opts.sarifPath
	}
	if opts.mdPath != "" {
		cfg.Output.Markdown = opts.mdPath
	}

	if opts.disable != "" {
		for _, name := range strings.Split(opts.disable, ",") {
			name = strings.TrimSpace(name)
			if name != "" {
				cfg.Analyzers.Disabled = append(cfg.Analyzers.Disabled, name)
			}
		}
	}

	if opts.since != "" && !opts.history && !cfg.History.Enabled {
		return fmt.Errorf("--since requires --history or history.enabled=true")
	}

	if cfg.Scope == config.ScopeSingleFile && opts.file == "" {
		return fmt.Errorf("scope=single-file requires --file <path>")
	}

	return nil
}

func resolveProjectRoot(cfg *config.Config) (string, error) {
	root := "."
	if len(cfg.WatchPaths) > 0 {
		root = cfg.WatchPaths[0]
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return "", err
	}
	if info, err := os.Stat(abs); err == nil && !info.IsDir() {
		abs = filepath.Dir(abs)
	}
	return abs, nil
}

func openHistoryStoreIfEnabled(forced bool, cfg *config.Config) (*history.Store, error) {
	if !forced && !cfg.History.Enabled {
		return nil, nil
	}
	store, err := history.Open(cfg.History.Path)
	if err != nil {
		return nil, fmt.Errorf("open history store: %w", err)
	}
	return store, nil
}

func writeOutputs(cfg *config.Config, projectRoot string, result ports.SessionResult) error {
	if cfg.Output.SARIF != "" {
		data, err := report.GenerateSARIF(projectRoot, result.Findings)
		if err != nil {
			return err
		}
		if err := util.WriteFileWithDirs(cfg.Output.SARIF, data, 0o644); err != nil {
			return err
		}
	}

	if cfg.Output.Markdown != "" {
		md := report.GenerateMarkdown(result.Findings, result.Confidence, time.Now())
		if err := util.WriteFileWithDirs(cfg.Output.Markdown, []byte(md), 0o644); err != nil {
			return err
		}
	}

	return nil
}

func printSummary(cfg *config.Config, filesScanned int, duration time.Duration, result ports.SessionResult) {
	if !cfg.Alerts.Terminal {
		return
	}

	errs, warns, infos := countBySeverity(result.Findings)

	fmt.Println(strings.Repeat("-", 40))
	if filesScanned > 0 {
		fmt.Printf("Update: %d files, %d fragments, %d elements in %v\n", filesScanned, result.FragmentCount, result.ElementCount, duration.Round(time.Millisecond))
	} else {
		fmt.Printf("Update: %d fragments, %d elements in %v\n", result.FragmentCount, result.ElementCount, duration.Round(time.Millisecond))
	}
	fmt.Printf("Confidence: %.2f (%s): %s\n", result.Confidence.Score, result.Confidence.Band, result.Confidence.Reason)

	if len(result.Findings) > 0 {
		fmt.Printf("⚠️  FOUND %d ISSUES (%d errors, %d warnings, %d info):\n", len(result.Findings), errs, warns, infos)
		for _, f := range result.Findings {
			printFinding(f)
		}
	} else {
		fmt.Println("✅ No accessibility issues found.")
	}

	for _, d := range result.Diagnostics {
		fmt.Printf("   analyzer %s failed: %s\n", d.Analyzer, d.Message)
	}
	fmt.Println(strings.Repeat("-", 40))

	if cfg.Alerts.Beep && len(result.Findings) > 0 {
		fmt.Print("\a")
	}
}

func printFinding(f model.Finding) {
	loc := ""
	if len(f.Locations) > 0 {
		loc = fmt.Sprintf(" in %s:%d", f.Locations[0].File, f.Locations[0].Line)
	}
	fmt.Printf("   [%s] %s: %s%s\n", f.Severity, f.Type, f.Message, loc)
	if f.Fix != nil && f.Fix.Description != "" {
		fmt.Printf("      fix: %s\n", f.Fix.Description)
	}
}

func countBySeverity(findings []model.Finding) (errs, warns, infos int) {
	for _, f := range findings {
		switch f.Severity {
		case model.SeverityError:
			errs++
		case model.SeverityWarning:
			warns++
		case model.SeverityInfo:
			infos++
		}
	}
	return errs, warns, infos
}

func hasErrors(findings []model.Finding) bool {
	for _, f := range findings {
		if f.Severity == model.SeverityError {
			return true
		}
	}
	return false
}

func parseSince(value string) (time.Time, error) {
	raw := strings.TrimSpace(value)
	if raw == "" {
		return time.Time{}, nil
	}

	rfc3339, err := time.Parse(time.RFC3339, raw)
	if err == nil {
		return rfc3339.UTC(), nil
	}

	dateOnly, err := time.Parse("2006-01-02", raw)
	if err == nil {
		return dateOnly.UTC(), nil
	}

	return time.Time{}, fmt.Errorf("--since must be RFC3339 or YYYY-MM-DD, got %q", value)
}

func configureLogging(uiMode, verbose bool) func() {
	logLevel := slog.LevelInfo
	if verbose {
		logLevel = slog.LevelDebug
	}

	output := os.Stdout
	var closeFn func() = func() {}
	if uiMode {
		// In UI mode, avoid stdout logs corrupting the TUI.
		logPath := resolveLogPath()
		if err := os.MkdirAll(filepath.Dir(logPath), 0o700); err != nil {
			fmt.Fprintf(os.Stderr, "warning: failed to create log dir for %s: %v\n", logPath, err)
		} else {
			if fi, err := os.Lstat(logPath); err == nil && (fi.Mode()&os.ModeSymlink) != 0 {
				fmt.Fprintf(os.Stderr, "warning: refusing to write logs to symlink path %s\n", logPath)
			} else {
				f, err := os.OpenFile(logPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o600)
				if err == nil {
					output = f
					closeFn = func() { _ = f.Close() }
				} else {
					fmt.Fprintf(os.Stderr, "warning: failed to open log file %s: %v\n", logPath, err)
				}
			}
		}
	}

	logger := slog.New(slog.NewTextHandler(output, &slog.HandlerOptions{Level: logLevel}))
	slog.SetDefault(logger)
	return closeFn
}

func resolveLogPath() string {
	if xdg := os.Getenv("XDG_STATE_HOME"); xdg != "" {
		return filepath.Join(xdg, "a11ylint", "a11ylint.log")
	}

	home, err := os.UserHomeDir()
	if err == nil && home != "" {
		return filepath.Join(home, ".local", "state", "a11ylint", "a11ylint.log")
	}

	return "a11ylint.log"
}
