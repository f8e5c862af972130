// # internal/engine/analyze/analyze.go
package analyze

import (
	"fmt"
	"sync"
	"time"

	"a11ylint/internal/engine/merge"
	"a11ylint/internal/engine/relation"
	"a11ylint/internal/model"
	"a11ylint/internal/shared/observability"
)

// View is the read-only graph handed to analyzers: the merged
// document, the resolved relationship graph, and the session's
// completeness confidence. Degraded marks the single-fragment fallback
// used when no merged workspace context exists.
type View struct {
	Doc        *merge.Document
	Relations  *relation.Graph
	Confidence model.Confidence
	Degraded   bool
}

// Analyzer is one independent rule module. Analyze must be pure: it
// reads the view and returns findings, never mutating the graph, so
// analyzers can run in any order or concurrently.
type Analyzer interface {
	Name() string
	Criteria() []string
	DefaultSeverity() model.Severity
	Analyze(view *View) []model.Finding
}

// Diagnostic reports an analyzer that failed. Failures are isolated
// per analyzer and never prevent the session from returning results.
type Diagnostic struct {
	Analyzer string
	Message  string
}

// Registry holds the analyzers of one session. Constructed per
// session and passed by reference; there is no process-wide registry.
type Registry struct {
	analyzers []Analyzer
}

func NewRegistry(analyzers ...Analyzer) *Registry {
	r := &Registry{}
	for _, a := range analyzers {
		r.Register(a)
	}
	return r
}

func (r *Registry) Register(a Analyzer) {
	r.analyzers = append(r.analyzers, a)
}

func (r *Registry) Analyzers() []Analyzer {
	return r.analyzers
}

// DefaultRegistry returns the shipped rule set, minus any disabled
// names.
func DefaultRegistry(disabled []string) *Registry {
	skip := make(map[string]bool, len(disabled))
	for _, name := range disabled {
		skip[name] = true
	}
	r := NewRegistry()
	for _, a := range []Analyzer{
		&ClickWithoutKeyboard{},
		&WidgetPatterns{},
		&AccessibleNames{},
		&FocusManagement{},
		&TabOrder{},
	} {
		if !skip[a.Name()] {
			r.Register(a)
		}
	}
	return r
}

// Run executes every registered analyzer concurrently, stamps the
// session confidence onto each finding, and returns the pooled
// findings in the single deterministic order (file, line, column,
// type). A panicking analyzer is contained and surfaced as a
// diagnostic.
func (r *Registry) Run(view *View) ([]model.Finding, []Diagnostic) {
	results := make([][]model.Finding, len(r.analyzers))
	diags := make([]Diagnostic, len(r.analyzers))

	var wg sync.WaitGroup
	for i, a := range r.analyzers {
		wg.Add(1)
		go func(i int, a Analyzer) {
			defer wg.Done()
			defer func() {
				if rec := recover(); rec != nil {
					diags[i] = Diagnostic{
						Analyzer: a.Name(),
						Message:  fmt.Sprintf("analyzer panicked: %v", rec),
					}
					results[i] = nil
				}
			}()
			start := time.Now()
			results[i] = a.Analyze(view)
			observability.AnalyzerDuration.WithLabelValues(a.Name()).Observe(time.Since(start).Seconds())
		}(i, a)
	}
	wg.Wait()

	findings := make([]model.Finding, 0)
	for _, batch := range results {
		findings = append(findings, batch...)
	}
	for i := range findings {
		findings[i].Confidence = view.Confidence
	}
	model.SortFindings(findings)

	var failed []Diagnostic
	for _, d := range diags {
		if d.Analyzer != "" {
			failed = append(failed, d)
		}
	}
	return findings, failed
}
