package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder implements domain.repository.Metrics using Prometheus.
type Recorder struct {
	predictions *prometheus.CounterVec
	errorsTotal *prometheus.CounterVec
	lastRMSE    *prometheus.GaugeVec
	lastMAPE    *prometheus.GaugeVec
	latency     *prometheus.HistogramVec
}

// New creates a new Prometheus metrics recorder.
func New() *Recorder {
	return &Recorder{
		predictions: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "stockcast_predictions_total",
				Help: "Total number of pipeline invocations by outcome",
			},
			[]string{"symbol", "outcome"},
		),
		errorsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "stockcast_errors_total",
				Help: "Total number of errors by stage",
			},
			[]string{"stage"},
		),
		lastRMSE: promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "stockcast_backtest_rmse",
				Help: "Backtest RMSE of the most recent prediction per symbol",
			},
			[]string{"symbol"},
		),
		lastMAPE: promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "stockcast_backtest_mape_percent",
				Help: "Backtest MAPE of the most recent prediction per symbol",
			},
			[]string{"symbol"},
		),
		latency: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "stockcast_operation_duration_seconds",
				Help:    "Duration of pipeline operations in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
	}
}

// RecordPrediction records one completed pipeline invocation.
func (r *Recorder) RecordPrediction(symbol, outcome string) {
	r.predictions.WithLabelValues(symbol, outcome).Inc()
}

// RecordError records an error occurrence by stage.
func (r *Recorder) RecordError(stage string) {
	r.errorsTotal.WithLabelValues(stage).Inc()
}

// RecordAccuracy records the latest backtest metrics for a symbol.
func (r *Recorder) RecordAccuracy(symbol string, rmse, mape float64) {
	r.lastRMSE.WithLabelValues(symbol).Set(rmse)
	r.lastMAPE.WithLabelValues(symbol).Set(mape)
}

// RecordLatency records operation latency in seconds.
func (r *Recorder) RecordLatency(op string, seconds float64) {
	r.latency.WithLabelValues(op).Observe(seconds)
}
