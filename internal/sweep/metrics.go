package sweep

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	// ScenariosTotal counts evaluated grid points by backend and outcome (ok, failed).
	ScenariosTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "frbus_scenarios_total",
			Help: "Total number of sweep scenarios evaluated",
		},
		[]string{"backend", "outcome"},
	)

	// ScenarioDuration tracks backend run time per scenario.
	ScenarioDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "frbus_scenario_duration_seconds",
			Help:    "Time spent simulating one scenario",
			Buckets: prometheus.ExponentialBuckets(1e-6, 4, 12),
		},
		[]string{"backend"},
	)

	// SweepProgress is the completed fraction of the running sweep.
	SweepProgress = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "frbus_sweep_progress_ratio",
			Help: "Completed fraction of the current sweep",
		},
	)
)

func init() {
	prometheus.MustRegister(ScenariosTotal)
	prometheus.MustRegister(ScenarioDuration)
	prometheus.MustRegister(SweepProgress)
}
