// Package metrics records ingestion statistics as Prometheus metrics.
//
// The CLI is a batch tool, so the registry is written to a node-exporter
// textfile at the end of a run instead of being served over HTTP.
package metrics

import (
	"context"
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/ukaji3/planingest-go/pkg/planingest"
)

const namespace = "planingest"

// Outcome labels of planingest_runs_total.
const (
	OutcomeOK            = "ok"
	OutcomeNoData        = "no_data"
	OutcomeNoValidData   = "no_valid_data"
	OutcomeUnsupported   = "unsupported_format"
	OutcomeMalformed     = "malformed_workbook"
	OutcomeTooLarge      = "file_too_large"
	OutcomeNotFound      = "file_not_found"
	OutcomeInvalid       = "invalid_options"
	OutcomeCanceled      = "canceled"
	OutcomeOtherFailures = "error"
)

// Recorder implements planingest.Observer. It is safe for concurrent use.
type Recorder struct {
	registry   *prometheus.Registry
	runs       *prometheus.CounterVec
	rows       *prometheus.CounterVec
	records    *prometheus.CounterVec
	cellErrors *prometheus.CounterVec
	duration   *prometheus.HistogramVec
}

// NewRecorder creates a Recorder with its own registry.
func NewRecorder() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		runs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "runs_total",
			Help:      "Ingest calls by plan variant and outcome.",
		}, []string{"variant", "outcome"}),
		rows: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rows_total",
			Help:      "Data rows by plan variant and disposition.",
		}, []string{"variant", "disposition"}),
		records: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "records_emitted_total",
			Help:      "Output records by plan variant.",
		}, []string{"variant"}),
		cellErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cell_errors_total",
			Help:      "Cells emitted as null because they failed to decode.",
		}, []string{"variant"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "ingest_duration_seconds",
			Help:      "Wall time of Ingest calls.",
			Buckets:   prometheus.ExponentialBuckets(0.005, 2, 12),
		}, []string{"variant"}),
	}
	r.registry.MustRegister(r.runs, r.rows, r.records, r.cellErrors, r.duration)
	return r
}

// Registry returns the registry holding the recorder's metrics.
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// ObserveIngest records one Ingest call.
func (r *Recorder) ObserveIngest(variant planingest.Variant, stats planingest.Stats, elapsed time.Duration, err error) {
	v := string(variant)
	r.runs.WithLabelValues(v, Outcome(err)).Inc()
	r.duration.WithLabelValues(v).Observe(elapsed.Seconds())
	if err != nil {
		return
	}
	r.rows.WithLabelValues(v, "read").Add(float64(stats.RowsRead))
	r.rows.WithLabelValues(v, "kept").Add(float64(stats.RowsKept))
	r.rows.WithLabelValues(v, "filtered").Add(float64(stats.RowsFiltered))
	r.rows.WithLabelValues(v, "unexpanded").Add(float64(stats.RowsUnexpanded))
	r.records.WithLabelValues(v).Add(float64(stats.RecordsEmitted))
	r.cellErrors.WithLabelValues(v).Add(float64(stats.CellErrors))
}

// WriteTextfile writes the registry in Prometheus text format to path.
func (r *Recorder) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, r.registry)
}

// Outcome classifies an Ingest error for the outcome label.
func Outcome(err error) string {
	switch {
	case err == nil:
		return OutcomeOK
	case errors.Is(err, planingest.ErrNoValidData):
		return OutcomeNoValidData
	case errors.Is(err, planingest.ErrNoData):
		return OutcomeNoData
	case errors.Is(err, planingest.ErrUnsupportedFormat):
		return OutcomeUnsupported
	case errors.Is(err, planingest.ErrMalformedWorkbook):
		return OutcomeMalformed
	case errors.Is(err, planingest.ErrFileTooLarge):
		return OutcomeTooLarge
	case errors.Is(err, planingest.ErrFileNotFound):
		return OutcomeNotFound
	case errors.Is(err, planingest.ErrInvalidOptions):
		return OutcomeInvalid
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return OutcomeCanceled
	default:
		return OutcomeOtherFailures
	}
}
