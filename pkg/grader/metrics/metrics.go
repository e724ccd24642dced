// Package metrics records grading outcomes as Prometheus metrics.
package metrics

import (
	"github.com/cotten321/Excel-Grader/pkg/grader/models"
	"github.com/prometheus/client_golang/prometheus"
)

const metricsNamespace = "grader"

// Recorder collects metrics for one process on its own registry.
type Recorder struct {
	registry *prometheus.Registry

	SubmissionsTotal *prometheus.CounterVec
	PointsRatio      prometheus.Histogram
	ChecksTotal      *prometheus.CounterVec
}

// NewRecorder creates a Recorder with every metric registered.
func NewRecorder() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		SubmissionsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Name:      "submissions_total",
				Help:      "Submissions graded by final state",
			},
			[]string{"state"},
		),
		PointsRatio: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: metricsNamespace,
				Name:      "points_ratio",
				Help:      "Points earned divided by points possible per submission",
				Buckets:   []float64{0.5, 0.7, 0.85, 1.0, 1.25},
			},
		),
		ChecksTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Name:      "checks_total",
				Help:      "Checks evaluated by status",
			},
			[]string{"status"},
		),
	}
	r.registry.MustRegister(r.SubmissionsTotal, r.PointsRatio, r.ChecksTotal)
	return r
}

// Registry returns the recorder's registry.
func (r *Recorder) Registry() *prometheus.Registry { return r.registry }

// Observe records one submission result.
func (r *Recorder) Observe(res models.ScoreResult) {
	r.SubmissionsTotal.WithLabelValues(string(res.State)).Inc()
	if res.PointsPossible > 0 {
		r.PointsRatio.Observe(res.PointsEarned / res.PointsPossible)
	}
	for _, c := range res.Checks {
		r.ChecksTotal.WithLabelValues(string(c.Status)).Inc()
	}
}

// WriteTextfile writes the current metrics in the text exposition format,
// suitable for the node exporter's textfile collector.
func (r *Recorder) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, r.registry)
}
