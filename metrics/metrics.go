package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/wippyai/proptest/errors"
	"github.com/wippyai/proptest/fuzz"
	"github.com/wippyai/proptest/shrink"
	"github.com/wippyai/proptest/value"
)

// Collector records trials, shrinks and test results.
type Collector struct {
	registry *prometheus.Registry

	trials   *prometheus.CounterVec
	duration *prometheus.HistogramVec
	shrinks  *prometheus.CounterVec
	tests    *prometheus.CounterVec
}

var _ fuzz.Observer = (*Collector)(nil)

// New creates a collector with a fresh registry.
func New() *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),
		trials: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "proptest_trials_total",
			Help: "Total number of fuzz trials, by test and outcome.",
		}, []string{"test", "outcome"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "proptest_trial_duration_seconds",
			Help:    "Duration of one call of the program under test.",
			Buckets: prometheus.ExponentialBuckets(0.0001, 4, 10),
		}, []string{"test"}),
		shrinks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "proptest_shrink_executions_total",
			Help: "Total number of calls made while shrinking counterexamples, by test.",
		}, []string{"test"}),
		tests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "proptest_tests_total",
			Help: "Total number of finished tests, by status.",
		}, []string{"status"}),
	}
	c.registry.MustRegister(c.trials, c.duration, c.shrinks, c.tests)
	return c
}

// Registry returns the registry holding the collector's metrics.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// TrialFinished implements fuzz.Observer.
func (c *Collector) TrialFinished(test string, t fuzz.Trial) {
	c.trials.WithLabelValues(test, t.Outcome.String()).Inc()
	if t.Result != nil {
		c.duration.WithLabelValues(test).Observe(t.Duration.Seconds())
	}
}

// ShrinkFinished implements fuzz.Observer.
func (c *Collector) ShrinkFinished(test string, _ value.Param, res shrink.Result) {
	c.shrinks.WithLabelValues(test).Add(float64(res.Executions))
}

// TestFinished counts a finished test by its status.
func (c *Collector) TestFinished(status string) {
	c.tests.WithLabelValues(status).Inc()
}

// WriteTextfile writes the registry atomically in text exposition format.
func (c *Collector) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, c.registry); err != nil {
		return errors.Wrap(errors.PhaseStore, errors.KindInvalidData, err, "write metrics "+path)
	}
	return nil
}
