package ports

import (
	"context"
	"time"

	"a11ylint/internal/data/history"
	"a11ylint/internal/engine/analyze"
	"a11ylint/internal/model"
)

// CodeParser abstracts dialect parsing and file support checks.
type CodeParser interface {
	ParseFile(path string, content []byte) (*model.SourceModel, error)
	DetectDialect(path string) string
	IsSupportedPath(path string) bool
	SupportedExtensions() []string
}

// HistoryStore abstracts session snapshot persistence.
type HistoryStore interface {
	SaveSnapshot(snapshot history.Snapshot) error
	LoadSnapshots(projectKey string, since time.Time) ([]history.Snapshot, error)
}

// ScanRequest defines a scan operation request for driving adapters.
type ScanRequest struct {
	Paths []string
}

// ScanResult summarizes a completed scan operation.
type ScanResult struct {
	FilesScanned int
	Warnings     []string
}

// SessionResult is the outcome of one analysis session.
type SessionResult struct {
	SessionID     string
	Findings      []model.Finding
	Diagnostics   []analyze.Diagnostic
	Confidence    model.Confidence
	FragmentCount int
	ElementCount  int
	Duration      time.Duration
}

// AnalysisService is the driving-side boundary of the application.
type AnalysisService interface {
	RunScan(ctx context.Context, req ScanRequest) (ScanResult, error)
	Analyze(ctx context.Context) (SessionResult, error)
	AnalyzeFile(ctx context.Context, path string) (SessionResult, error)
	WatchService() WatchService
	Close(ctx context.Context) error
}

// WatchService drives continuous re-analysis on file changes.
type WatchService interface {
	Start(ctx context.Context) error
	Subscribe(ctx context.Context, handler func(SessionResult)) error
}
