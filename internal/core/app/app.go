// # internal/core/app/app.go
package app

import (
	"context"
	"sync"
	"sync/atomic"

	"a11ylint/internal/core/config"
	"a11ylint/internal/core/ports"
	"a11ylint/internal/core/watcher"
	"a11ylint/internal/engine/analyze"
	"a11ylint/internal/engine/parser"
	"a11ylint/internal/model"
	"a11ylint/internal/shared/util"
)

// App owns the source model set and reruns the merge/analysis
// pipeline whenever it changes. All mutation goes through the mutex;
// the generation counter lets a newer session invalidate results of
// an older one that is still in flight.
type App struct {
	Config *config.Config

	codeParser ports.CodeParser
	registry   *analyze.Registry
	history    ports.HistoryStore
	projectKey string

	mu      sync.Mutex
	models  map[string]*model.SourceModel
	watcher *watcher.Watcher
	limiter *util.Limiter

	generation    atomic.Uint64
	handlerMu     sync.Mutex
	updateHandler func(ports.SessionResult)
	lastResult    ports.SessionResult
}

func New(cfg *config.Config) *App {
	if cfg == nil {
		cfg = config.Default()
	}
	return &App{
		Config:     cfg,
		codeParser: parser.NewParser(),
		registry:   analyze.DefaultRegistry(cfg.Analyzers.Disabled),
		projectKey: "default",
		models:     make(map[string]*model.SourceModel),
		// Bound how often watch churn can trigger full sessions.
		limiter: util.NewLimiter(4, 2),
	}
}

func (a *App) SetHistoryStore(store ports.HistoryStore) {
	a.history = store
}

func (a *App) SetProjectKey(key string) {
	if key != "" {
		a.projectKey = key
	}
}

func (a *App) Parser() ports.CodeParser {
	return a.codeParser
}

// ModelCount returns how many source files currently contribute models.
func (a *App) ModelCount() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.models)
}

func (a *App) SetUpdateHandler(handler func(ports.SessionResult)) {
	a.handlerMu.Lock()
	defer a.handlerMu.Unlock()
	a.updateHandler = handler
}

func (a *App) notify(result ports.SessionResult) {
	a.handlerMu.Lock()
	handler := a.updateHandler
	a.lastResult = result
	a.handlerMu.Unlock()
	if handler != nil {
		handler(result)
	}
}

// LastResult returns the most recent completed session.
func (a *App) LastResult() ports.SessionResult {
	a.handlerMu.Lock()
	defer a.handlerMu.Unlock()
	return a.lastResult
}

func (a *App) Close(ctx context.Context) error {
	_ = ctx
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.watcher != nil {
		err := a.watcher.Close()
		a.watcher = nil
		return err
	}
	return nil
}
