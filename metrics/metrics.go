// Package metrics exposes Prometheus instruments for model training and inference.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Prediction outcomes.
const (
	OutcomeRecommended = "recommended" // at least one crop returned
	OutcomeEmpty       = "empty"       // no crop cleared the threshold
	OutcomeInvalid     = "invalid"     // caller supplied a malformed record
	OutcomeFault       = "fault"       // inference failed and was converted to an empty list
	OutcomeUnavailable = "unavailable" // no model loaded
)

// Recorder holds the instruments of one engine.
type Recorder struct {
	Predictions      *prometheus.CounterVec
	InferenceFaults  prometheus.Counter
	PredictionTime   prometheus.Histogram
	CacheHits        prometheus.Counter
	TrainingDuration prometheus.Gauge
	ModelTrees       prometheus.Gauge
	ModelClasses     prometheus.Gauge
}

// New creates a recorder and registers it with reg. A nil reg leaves the instruments unregistered, which is useful
// in tests and for engines that do not export metrics.
func New(reg prometheus.Registerer) *Recorder {
	r := &Recorder{
		Predictions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cropsuit_predictions_total",
				Help: "Total number of crop predictions by outcome",
			},
			[]string{"outcome"},
		),
		InferenceFaults: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "cropsuit_inference_faults_total",
			Help: "Total number of predictions where the classifier failed",
		}),
		PredictionTime: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "cropsuit_prediction_duration_seconds",
			Help:    "Prediction latency in seconds",
			Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1},
		}),
		CacheHits: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "cropsuit_prediction_cache_hits_total",
			Help: "Total number of predictions served from the recommendation cache",
		}),
		TrainingDuration: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "cropsuit_training_duration_seconds",
			Help: "Duration of the last model training run in seconds",
		}),
		ModelTrees: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "cropsuit_model_trees",
			Help: "Number of trees in the loaded ensemble",
		}),
		ModelClasses: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "cropsuit_model_classes",
			Help: "Number of crops the loaded model can recommend",
		}),
	}
	if reg != nil {
		reg.MustRegister(
			r.Predictions,
			r.InferenceFaults,
			r.PredictionTime,
			r.CacheHits,
			r.TrainingDuration,
			r.ModelTrees,
			r.ModelClasses,
		)
	}
	return r
}

// Observe records the outcome and latency of a prediction.
func (r *Recorder) Observe(outcome string, start time.Time) {
	r.Predictions.WithLabelValues(outcome).Inc()
	r.PredictionTime.Observe(time.Since(start).Seconds())
	if outcome == OutcomeFault {
		r.InferenceFaults.Inc()
	}
}

// Trained records how long a training run took.
func (r *Recorder) Trained(d time.Duration) {
	r.TrainingDuration.Set(d.Seconds())
}

// Loaded records the shape of a newly installed model.
func (r *Recorder) Loaded(trees, classes int) {
	r.ModelTrees.Set(float64(trees))
	r.ModelClasses.Set(float64(classes))
}
