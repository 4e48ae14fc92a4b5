package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics definitions
var (
	ParseDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "gormwatch_parse_seconds",
		Help:    "Time spent parsing a source file.",
		Buckets: prometheus.DefBuckets,
	}, []string{"language"})

	ScanDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "gormwatch_scan_seconds",
		Help:    "Time spent on a full scan-and-check pass.",
		Buckets: prometheus.DefBuckets,
	})

	FilesTracked = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "gormwatch_files_tracked_total",
		Help: "Number of source files currently tracked.",
	})

	ViolationsFound = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "gormwatch_violations_total",
		Help: "Number of entity persistence call violations in the last pass.",
	})

	ParseErrorsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "gormwatch_parse_errors_total",
		Help: "Total number of files that failed to parse.",
	})

	WatcherEventsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "gormwatch_watcher_events_total",
		Help: "Total number of file system events received by the watcher.",
	})
)
