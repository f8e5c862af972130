package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics definitions
var (
	ParsingDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "a11ylint_parsing_seconds",
		Help:    "Time spent parsing a source file.",
		Buckets: prometheus.DefBuckets,
	}, []string{"dialect"})

	MergeDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "a11ylint_merge_seconds",
		Help:    "Time spent merging source models into a document.",
		Buckets: prometheus.DefBuckets,
	})

	FragmentsTotal = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "a11ylint_fragments_total",
		Help: "Number of DOM fragments in the current document.",
	})

	ElementsTotal = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "a11ylint_elements_total",
		Help: "Number of elements in the current document.",
	})

	FindingsTotal = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "a11ylint_findings_total",
		Help: "Findings in the latest session, by severity.",
	}, []string{"severity"})

	AnalyzerDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "a11ylint_analyzer_seconds",
		Help:    "Time spent inside a single analyzer.",
		Buckets: prometheus.DefBuckets,
	}, []string{"analyzer"})

	CompletenessScore = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "a11ylint_completeness_score",
		Help: "Completeness score of the latest merge.",
	})

	WatcherEventsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "a11ylint_watcher_events_total",
		Help: "Total number of file system events received by the watcher.",
	})

	SessionsDiscardedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "a11ylint_sessions_discarded_total",
		Help: "In-flight analysis sessions discarded because newer input arrived.",
	})
)
