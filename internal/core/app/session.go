// # internal/core/app/session.go
package app

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"sort"
	"time"

	"github.com/google/uuid"

	"a11ylint/internal/core/ports"
	"a11ylint/internal/data/history"
	"a11ylint/internal/engine/analyze"
	"a11ylint/internal/engine/merge"
	"a11ylint/internal/engine/relation"
	"a11ylint/internal/engine/score"
	"a11ylint/internal/model"
	"a11ylint/internal/shared/observability"
)

// ErrSuperseded is returned when a newer session started while this
// one was running; its result must not be published.
var ErrSuperseded = errors.New("analysis session superseded by newer input")

// Rebuild runs the full merge/resolve/score/analyze pipeline over the
// current model set and returns one session result.
func (a *App) Rebuild(ctx context.Context) (ports.SessionResult, error) {
	gen := a.generation.Add(1)
	start := time.Now()

	if err := ctx.Err(); err != nil {
		return ports.SessionResult{}, err
	}

	a.mu.Lock()
	models := make([]*model.SourceModel, 0, len(a.models))
	for _, m := range a.models {
		models = append(models, m)
	}
	a.mu.Unlock()

	// Load order is path order, so merges are reproducible no matter
	// which file changed last.
	sort.Slice(models, func(i, j int) bool { return models[i].Path < models[j].Path })

	// merge.Merge samples the merge metrics itself.
	doc := merge.Merge(models)

	rel := relation.Resolve(doc)
	resolved, unresolved := rel.Stats()
	conf := score.Compute(len(doc.Fragments), doc.Stats.Resolved+resolved, doc.Stats.Unresolved+unresolved)

	view := &analyze.View{Doc: doc, Relations: rel, Confidence: conf}
	findings, diags := a.registry.Run(view)
	findings = append(findings, stampConfidence(doc.Structural, conf)...)
	findings = append(findings, stampConfidence(rel.Findings(), conf)...)
	model.SortFindings(findings)

	if a.generation.Load() != gen {
		observability.SessionsDiscardedTotal.Inc()
		return ports.SessionResult{}, ErrSuperseded
	}

	result := ports.SessionResult{
		SessionID:     uuid.NewString(),
		Findings:      findings,
		Diagnostics:   diags,
		Confidence:    conf,
		FragmentCount: len(doc.Fragments),
		ElementCount:  len(doc.Elements()),
		Duration:      time.Since(start),
	}

	publishFindingMetrics(findings)
	a.saveSnapshot(doc, result)
	return result, nil
}

// AnalyzeFile analyzes a single file in isolation. The confidence is
// degraded because cross-file references cannot resolve.
func (a *App) AnalyzeFile(ctx context.Context, path string) (ports.SessionResult, error) {
	if err := ctx.Err(); err != nil {
		return ports.SessionResult{}, err
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return ports.SessionResult{}, err
	}
	m, err := a.codeParser.ParseFile(path, content)
	if err != nil {
		return ports.SessionResult{}, err
	}

	start := time.Now()
	doc := merge.MergeSingle(m)
	rel := relation.Resolve(doc)
	resolved, unresolved := rel.Stats()
	conf := score.Degrade(score.Compute(len(doc.Fragments), doc.Stats.Resolved+resolved, doc.Stats.Unresolved+unresolved))

	view := &analyze.View{Doc: doc, Relations: rel, Confidence: conf, Degraded: true}
	findings, diags := a.registry.Run(view)
	findings = append(findings, stampConfidence(doc.Structural, conf)...)
	findings = append(findings, stampConfidence(rel.Findings(), conf)...)
	model.SortFindings(findings)

	return ports.SessionResult{
		SessionID:     uuid.NewString(),
		Findings:      findings,
		Diagnostics:   diags,
		Confidence:    conf,
		FragmentCount: len(doc.Fragments),
		ElementCount:  len(doc.Elements()),
		Duration:      time.Since(start),
	}, nil
}

func stampConfidence(findings []model.Finding, conf model.Confidence) []model.Finding {
	out := make([]model.Finding, len(findings))
	for i, f := range findings {
		f.Confidence = conf
		out[i] = f
	}
	return out
}

func publishFindingMetrics(findings []model.Finding) {
	counts := map[model.Severity]int{}
	for _, f := range findings {
		counts[f.Severity]++
	}
	for _, sev := range []model.Severity{model.SeverityError, model.SeverityWarning, model.SeverityInfo} {
		observability.FindingsTotal.WithLabelValues(string(sev)).Set(float64(counts[sev]))
	}
}

func (a *App) saveSnapshot(doc *merge.Document, result ports.SessionResult) {
	if a.history == nil {
		return
	}

	counts := map[model.Severity]int{}
	for _, f := range result.Findings {
		counts[f.Severity]++
	}
	snapshot := history.Snapshot{
		SessionID:     result.SessionID,
		ProjectKey:    a.projectKey,
		Timestamp:     time.Now().UTC(),
		FragmentCount: result.FragmentCount,
		ElementCount:  result.ElementCount,
		RuleCount:     len(doc.Rules),
		ActionCount:   len(doc.Actions),
		ErrorCount:    counts[model.SeverityError],
		WarningCount:  counts[model.SeverityWarning],
		InfoCount:     counts[model.SeverityInfo],
		Score:         result.Confidence.Score,
		Band:          string(result.Confidence.Band),
		DurationMS:    result.Duration.Milliseconds(),
	}
	if err := a.history.SaveSnapshot(snapshot); err != nil {
		// History is best effort; a locked db must not block analysis.
		slog.Warn("failed to save session snapshot", "session", result.SessionID, "error", err)
	}
}
