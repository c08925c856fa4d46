package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics definitions
var (
	ParsingDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "terradep_parsing_seconds",
		Help:    "Time spent parsing a configuration file.",
		Buckets: prometheus.DefBuckets,
	}, []string{"kind"})

	ParseErrorsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "terradep_parse_errors_total",
		Help: "Total number of files skipped due to parse errors.",
	})

	GraphNodes = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "terradep_graph_nodes_total",
		Help: "Total number of modules in the dependency graph.",
	})

	GraphEdges = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "terradep_graph_edges_total",
		Help: "Total number of dependency edges in the graph.",
	})

	CyclesDetected = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "terradep_cycles_detected",
		Help: "Number of circular dependencies found in the last run.",
	})

	AnalysisDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "terradep_analysis_seconds",
		Help:    "Time spent on high-level analysis tasks.",
		Buckets: prometheus.DefBuckets,
	}, []string{"task"})

	WatcherEventsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "terradep_watcher_events_total",
		Help: "Total number of file system events received by the watcher.",
	})

	RunsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "terradep_runs_total",
		Help: "Total number of completed analysis runs.",
	})

	RunsThrottledTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "terradep_runs_throttled_total",
		Help: "Total number of analysis runs skipped by the rate limiter.",
	})
)
