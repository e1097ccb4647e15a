package metrics

import "github.com/prometheus/client_golang/prometheus"

// Pipeline Prometheus metrics.
var (
	PipelineRunsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "orderdex",
			Name:      "pipeline_runs_total",
			Help:      "Total number of pipeline runs",
		},
		[]string{"status"}, // "ok" / "error"
	)

	PipelineStageDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "orderdex",
			Name:      "pipeline_stage_duration_seconds",
			Help:      "Pipeline stage duration in seconds",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.5, 1, 5, 10, 30, 60, 300},
		},
		[]string{"stage"},
	)

	PipelineRecordsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "orderdex",
			Name:      "pipeline_records_total",
			Help:      "Input records processed per kind",
		},
		[]string{"kind", "result"}, // kind "order"/"invoice", result "ok"/"skipped"
	)

	PipelineCompaniesIn = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "orderdex",
			Name:      "pipeline_companies_in",
			Help:      "Distinct company identities before resolution in the last run",
		},
	)

	PipelineCompaniesOut = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "orderdex",
			Name:      "pipeline_companies_out",
			Help:      "Resolved companies after consolidation in the last run",
		},
	)
)

var pipelineMetricsRegistered bool

// RegisterPipelineMetrics registers Prometheus pipeline metrics. Must be called once from main.
func RegisterPipelineMetrics() {
	if pipelineMetricsRegistered {
		return
	}
	prometheus.MustRegister(PipelineRunsTotal)
	prometheus.MustRegister(PipelineStageDuration)
	prometheus.MustRegister(PipelineRecordsTotal)
	prometheus.MustRegister(PipelineCompaniesIn)
	prometheus.MustRegister(PipelineCompaniesOut)
	pipelineMetricsRegistered = true
}
