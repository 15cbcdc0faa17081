package infrastructure

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"

	"revdiag/pkg/contracts/domain"
)

// RunMetrics are the gauges describing one diagnostics run. They live on a
// private registry and are written once, to a node-exporter textfile.
type RunMetrics struct {
	registry *prometheus.Registry

	RowsLoaded         prometheus.Gauge
	WeeksModeled       prometheus.Gauge
	WeeksByPerformance *prometheus.GaugeVec
	ModelRSquared      prometheus.Gauge
	StageSeconds       *prometheus.GaugeVec
	LastSuccess        prometheus.Gauge
}

// NewRunMetrics creates and registers the run gauges
func NewRunMetrics() *RunMetrics {
	m := &RunMetrics{
		registry: prometheus.NewRegistry(),
		RowsLoaded: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "revdiag",
			Name:      "visit_rows_loaded",
			Help:      "Visit records read from the export.",
		}),
		WeeksModeled: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "revdiag",
			Name:      "weeks_modeled",
			Help:      "Weekly rows fitted by the revenue model.",
		}),
		WeeksByPerformance: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "revdiag",
			Name:      "weeks_by_performance",
			Help:      "Weeks per performance label.",
		}, []string{"performance"}),
		ModelRSquared: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "revdiag",
			Name:      "model_r_squared",
			Help:      "In-sample coefficient of determination of the revenue model.",
		}),
		StageSeconds: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "revdiag",
			Name:      "stage_duration_seconds",
			Help:      "Wall time of each pipeline stage.",
		}, []string{"stage"}),
		LastSuccess: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "revdiag",
			Name:      "last_success_timestamp_seconds",
			Help:      "Unix time of the last completed run.",
		}),
	}

	m.registry.MustRegister(
		m.RowsLoaded,
		m.WeeksModeled,
		m.WeeksByPerformance,
		m.ModelRSquared,
		m.StageSeconds,
		m.LastSuccess,
	)

	for _, p := range []domain.Performance{domain.OverPerformed, domain.UnderPerformed, domain.AveragePerformance} {
		m.WeeksByPerformance.WithLabelValues(string(p)).Set(0)
	}

	return m
}

// Registry exposes the private registry, mainly for tests
func (m *RunMetrics) Registry() *prometheus.Registry {
	return m.registry
}

// WriteTextfile writes the gauges in the text exposition format
func (m *RunMetrics) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return fmt.Errorf("failed to write metrics textfile: %w", err)
	}
	return nil
}
