// # internal/core/app/service.go
package app

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/trace"

	"a11ylint/internal/core/errors"
	"a11ylint/internal/core/ports"
	"a11ylint/internal/shared/observability"
)

type analysisService struct {
	app *App
}

var _ ports.AnalysisService = (*analysisService)(nil)

func NewAnalysisService(app *App) ports.AnalysisService {
	return &analysisService{app: app}
}

func (a *App) AnalysisService() ports.AnalysisService {
	return NewAnalysisService(a)
}

func (s *analysisService) Unwrap() *App {
	return s.app
}

func (s *analysisService) Close(ctx context.Context) error {
	if s == nil || s.app == nil {
		return nil
	}
	return s.app.Close(ctx)
}

func (s *analysisService) RunScan(ctx context.Context, req ports.ScanRequest) (ports.ScanResult, error) {
	ctx, span := observability.Tracer.Start(ctx, "analysisService.RunScan", trace.WithAttributes())
	defer span.End()

	if err := ctx.Err(); err != nil {
		return ports.ScanResult{}, err
	}
	if s.app == nil {
		return ports.ScanResult{}, fmt.Errorf("app is required")
	}
	if s.app.Config == nil {
		return ports.ScanResult{}, fmt.Errorf("config is required")
	}

	paths := req.Paths
	if len(paths) == 0 {
		paths = s.app.Config.WatchPaths
	}

	files, err := s.app.ScanDirectories(paths, s.app.Config.Exclude.Dirs, s.app.Config.Exclude.Files)
	if err != nil {
		return ports.ScanResult{}, errors.AddContext(err, errors.CtxPath, fmt.Sprintf("%v", paths))
	}

	warnings := make([]string, 0)
	for _, filePath := range files {
		if err := ctx.Err(); err != nil {
			return ports.ScanResult{}, err
		}
		if err := s.app.ProcessFile(filePath); err != nil {
			warnings = append(warnings, fmt.Sprintf("process file %s: %v", filePath, err))
		}
	}

	return ports.ScanResult{
		FilesScanned: len(files),
		Warnings:     warnings,
	}, nil
}

func (s *analysisService) Analyze(ctx context.Context) (ports.SessionResult, error) {
	ctx, span := observability.Tracer.Start(ctx, "analysisService.Analyze")
	defer span.End()

	if s.app == nil {
		return ports.SessionResult{}, fmt.Errorf("app is required")
	}
	result, err := s.app.Rebuild(ctx)
	if err != nil {
		return ports.SessionResult{}, err
	}
	s.app.notify(result)
	return result, nil
}

func (s *analysisService) AnalyzeFile(ctx context.Context, path string) (ports.SessionResult, error) {
	ctx, span := observability.Tracer.Start(ctx, "analysisService.AnalyzeFile")
	defer span.End()

	if s.app == nil {
		return ports.SessionResult{}, fmt.Errorf("app is required")
	}
	result, err := s.app.AnalyzeFile(ctx, path)
	if err != nil {
		return ports.SessionResult{}, errors.AddContext(err, errors.CtxPath, path)
	}
	return result, nil
}

func (s *analysisService) WatchService() ports.WatchService {
	return &watchService{app: s.app}
}

type watchService struct {
	app *App
}

var _ ports.WatchService = (*watchService)(nil)

func (s *watchService) Start(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s.app == nil {
		return fmt.Errorf("app is required")
	}
	return s.app.StartWatcher()
}

func (s *watchService) Subscribe(ctx context.Context, handler func(ports.SessionResult)) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s.app == nil {
		return fmt.Errorf("app is required")
	}
	if handler == nil {
		return fmt.Errorf("handler is required")
	}
	s.app.SetUpdateHandler(func(result ports.SessionResult) {
		if ctx.Err() != nil {
			return
		}
		handler(result)
	})
	return nil
}
