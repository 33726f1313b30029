package endpoint

import (
	"context"
	"net/http"
	"strings"

	api "github.com/carbonwatch/carbonwatch/lib-carbonwatch"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics is the Prometheus metrics of carbonwatch.
//
// It implements refresh.Observer to receive the carbon intensity,
// and counts refresh results via ObserveRecord.
type Metrics struct {
	target   string
	registry *prometheus.Registry

	intensity *prometheus.GaugeVec
	alert     *prometheus.GaugeVec
	refreshes *prometheus.CounterVec
	latency   *prometheus.GaugeVec
}

// NewMetrics creates Metrics for the remote data source target, like "co2signal:DE".
func NewMetrics(target string) *Metrics {
	m := &Metrics{
		target:   target,
		registry: prometheus.NewRegistry(),
		intensity: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "carbonwatch_carbon_intensity",
			Help: "The latest carbon intensity in gCO2eq/kWh.",
		}, []string{"target"}),
		alert: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "carbonwatch_alert_active",
			Help: "1 if the carbon intensity alert is active, otherwise 0.",
		}, []string{"target"}),
		refreshes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "carbonwatch_refresh_total",
			Help: "The number of refreshes since carbonwatch started.",
		}, []string{"target", "result"}),
		latency: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "carbonwatch_refresh_latency_seconds",
			Help: "The duration in seconds that taken the latest refresh.",
		}, []string{"target"}),
	}

	m.registry.MustRegister(m.intensity, m.alert, m.refreshes, m.latency)

	for _, s := range []api.Status{api.StatusHealthy, api.StatusUnknown, api.StatusFailure, api.StatusAborted} {
		m.refreshes.WithLabelValues(target, strings.ToLower(s.String()))
	}

	return m
}

// Update sets the gauges. The gauges do not exist until the first Update.
func (m *Metrics) Update(ctx context.Context, intensity float64, alertActive bool) {
	m.intensity.WithLabelValues(m.target).Set(intensity)

	if alertActive {
		m.alert.WithLabelValues(m.target).Set(1)
	} else {
		m.alert.WithLabelValues(m.target).Set(0)
	}
}

// ObserveRecord counts a refresh result.
// Records of the other targets are ignored.
func (m *Metrics) ObserveRecord(r api.Record) {
	if r.Target != m.target {
		return
	}

	m.refreshes.WithLabelValues(m.target, strings.ToLower(r.Status.String())).Inc()

	if r.Latency > 0 {
		m.latency.WithLabelValues(m.target).Set(r.Latency.Seconds())
	}
}

// Handler returns the http.Handler for /metrics.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{
		DisableCompression: true,
	})
}
