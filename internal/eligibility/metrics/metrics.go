package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the eligibility module.
type Metrics struct {
	// Prediction outcomes by call mode and label
	PredictionOutcome *prometheus.CounterVec

	// Pipeline failures by error code
	PipelineErrors *prometheus.CounterVec

	// End-to-end scoring latency per call
	PredictLatency *prometheus.HistogramVec

	// Records per batch call
	BatchSize prometheus.Histogram

	// Probability cache lookups by result
	CacheLookups *prometheus.CounterVec

	// 1 when serving artifacts are loaded
	ModelLoaded prometheus.Gauge
}

// New creates the eligibility metrics and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		PredictionOutcome: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "donorcheck_predictions_total",
			Help: "Total predictions by mode and eligibility label",
		}, []string{"mode", "eligible"}), // mode: "single", "batch"

		PipelineErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "donorcheck_prediction_errors_total",
			Help: "Total rejected prediction calls by error code",
		}, []string{"mode", "code"}),

		PredictLatency: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "donorcheck_predict_duration_seconds",
			Help:    "Duration of a predict or predict-batch call",
			Buckets: []float64{0.0001, 0.00025, 0.0005, 0.001, 0.0025, 0.005, 0.01, 0.05, 0.25, 1},
		}, []string{"mode"}),

		BatchSize: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "donorcheck_batch_size",
			Help:    "Number of donors per batch request",
			Buckets: []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000},
		}),

		CacheLookups: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "donorcheck_probability_cache_lookups_total",
			Help: "Probability cache lookups by result",
		}, []string{"result"}), // result: "hit", "miss", "error"

		ModelLoaded: factory.NewGauge(prometheus.GaugeOpts{
			Name: "donorcheck_model_loaded",
			Help: "Whether serving artifacts loaded successfully (1) or not (0)",
		}),
	}
}

// IncrementOutcome records a prediction outcome.
func (m *Metrics) IncrementOutcome(mode string, eligible bool) {
	if m != nil {
		label := "false"
		if eligible {
			label = "true"
		}
		m.PredictionOutcome.WithLabelValues(mode, label).Inc()
	}
}

// IncrementError records a rejected call.
func (m *Metrics) IncrementError(mode, code string) {
	if m != nil {
		m.PipelineErrors.WithLabelValues(mode, code).Inc()
	}
}

// ObservePredictLatency records the duration of one call.
func (m *Metrics) ObservePredictLatency(mode string, d time.Duration) {
	if m != nil {
		m.PredictLatency.WithLabelValues(mode).Observe(d.Seconds())
	}
}

// ObserveBatchSize records the number of records in a batch call.
func (m *Metrics) ObserveBatchSize(n int) {
	if m != nil {
		m.BatchSize.Observe(float64(n))
	}
}

// IncrementCacheLookup records a cache lookup result.
func (m *Metrics) IncrementCacheLookup(result string) {
	if m != nil {
		m.CacheLookups.WithLabelValues(result).Inc()
	}
}

// SetModelLoaded flips the model-loaded gauge.
func (m *Metrics) SetModelLoaded(loaded bool) {
	if m != nil {
		if loaded {
			m.ModelLoaded.Set(1)
		} else {
			m.ModelLoaded.Set(0)
		}
	}
}
