package metrics

import (
	"strings"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// PricingMetrics tracks the outcome of quote simulations by strategy and
// distribution mechanism so that tenant pricing drift shows up on dashboards.
type PricingMetrics struct {
	simulations *prometheus.CounterVec
	warnings    prometheus.Counter
}

var (
	pricingMetricsOnce sync.Once
	pricingMetrics     *PricingMetrics
)

func Pricing() *PricingMetrics {
	return PricingWithConfig(Config{})
}

func PricingWithConfig(cfg Config) *PricingMetrics {
	pricingMetricsOnce.Do(func() {
		pricingMetrics = newPricingMetrics(prometheus.DefaultRegisterer, cfg)
	})
	return pricingMetrics
}

func ResetPricingMetricsForTest() {
	pricingMetricsOnce = sync.Once{}
	pricingMetrics = nil
}

func newPricingMetrics(registerer prometheus.Registerer, cfg Config) *PricingMetrics {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}

	serviceName := strings.TrimSpace(cfg.ServiceName)
	if serviceName == "" {
		serviceName = "powercee"
	}
	environment := strings.TrimSpace(cfg.Environment)
	if environment == "" {
		environment = "unknown"
	}

	constLabels := prometheus.Labels{
		"service": serviceName,
		"env":     environment,
	}

	simulations := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name:        "powercee_quote_simulations_total",
			Help:        "Total quote simulations by pricing strategy and distribution mechanism.",
			ConstLabels: constLabels,
		},
		[]string{"strategy", "distribution"}, // legacy_grid | cost_plus, proportional | percentage
	)

	warnings := prometheus.NewCounter(
		prometheus.CounterOpts{
			Name:        "powercee_quote_simulation_warnings_total",
			Help:        "Total non-fatal warnings surfaced on quote previews.",
			ConstLabels: constLabels,
		},
	)

	registerer.MustRegister(simulations, warnings)

	return &PricingMetrics{
		simulations: simulations,
		warnings:    warnings,
	}
}

func (m *PricingMetrics) RecordSimulation(strategy string, percentage bool, warnings int) {
	if m == nil {
		return
	}

	distribution := "proportional"
	if percentage {
		distribution = "percentage"
	}

	m.simulations.WithLabelValues(strings.ToLower(strategy), distribution).Inc()
	if warnings > 0 {
		m.warnings.Add(float64(warnings))
	}
}
