package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Pipeline and collector metrics. Registered on the default registry and
// served by the monitor server.
var (
	PipelineRuns = promauto.NewCounter(prometheus.CounterOpts{
		Name: "hniq_pipeline_runs_total",
		Help: "Completed scoring pipeline runs",
	})

	CompaniesScored = promauto.NewCounter(prometheus.CounterOpts{
		Name: "hniq_companies_scored_total",
		Help: "Company rows enriched by the feature engineering pipeline",
	})

	DegenerateDistributions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "hniq_degenerate_distributions_total",
		Help: "Metric columns resolved to the neutral midpoint because they had no variance",
	}, []string{"metric"})

	CollectorErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "hniq_collector_errors_total",
		Help: "Symbols skipped during collection, by reason",
	}, []string{"reason"})

	CacheHits = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "hniq_cache_requests_total",
		Help: "Snapshot cache requests by outcome",
	}, []string{"outcome"})
)
