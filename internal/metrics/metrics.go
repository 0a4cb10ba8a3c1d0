// Package metrics exposes Prometheus instruments for plugin loading, style
// resolution and registry churn. Metrics live in a private registry so tests
// and multiple runtimes never collide.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const defaultNamespace = "feedkit"

const (
	outcomeSuccess = "success"
	outcomeFailure = "failure"
)

// Metrics implements style.Recorder and plugin.Recorder. A nil *Metrics is a
// valid no-op recorder.
type Metrics struct {
	registry *prometheus.Registry

	pluginLoads        *prometheus.CounterVec
	pluginLoadDuration *prometheus.HistogramVec
	resolutions        *prometheus.CounterVec
	overriddenSlots    *prometheus.CounterVec
	registryVersion    *prometheus.GaugeVec
	themePackReloads   *prometheus.CounterVec
}

// New creates the instruments under namespace ("feedkit" when empty).
func New(namespace string) *Metrics {
	if namespace == "" {
		namespace = defaultNamespace
	}

	registry := prometheus.NewRegistry()

	m := &Metrics{
		registry: registry,

		pluginLoads: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "plugin_loads_total",
				Help:      "Plugin load attempts by plugin and outcome",
			},
			[]string{"plugin", "outcome"},
		),
		pluginLoadDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "plugin_load_duration_seconds",
				Help:      "Time spent applying plugin intents and setup",
				Buckets:   []float64{.0001, .0005, .001, .005, .01, .05, .1, .5, 1},
			},
			[]string{"outcome"},
		),
		resolutions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "style_resolutions_total",
				Help:      "Style resolutions by component and outcome",
			},
			[]string{"component", "outcome"},
		),
		overriddenSlots: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "style_overridden_slots_total",
				Help:      "Slots that had an override merged during resolution",
			},
			[]string{"component"},
		),
		registryVersion: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "registry_version",
				Help:      "Current change version of each registry",
			},
			[]string{"registry"},
		),
		themePackReloads: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "themepack_reloads_total",
				Help:      "Theme pack hot reloads by outcome",
			},
			[]string{"outcome"},
		),
	}

	registry.MustRegister(
		m.pluginLoads,
		m.pluginLoadDuration,
		m.resolutions,
		m.overriddenSlots,
		m.registryVersion,
		m.themePackReloads,
	)
	return m
}

// ObservePluginLoad records one plugin load attempt.
func (m *Metrics) ObservePluginLoad(plugin string, duration time.Duration, err error) {
	if m == nil {
		return
	}
	outcome := outcomeOf(err)
	m.pluginLoads.WithLabelValues(plugin, outcome).Inc()
	m.pluginLoadDuration.WithLabelValues(outcome).Observe(duration.Seconds())
}

// ObserveResolution records one style resolution.
func (m *Metrics) ObserveResolution(component string, overridden int, err error) {
	if m == nil {
		return
	}
	m.resolutions.WithLabelValues(component, outcomeOf(err)).Inc()
	if overridden > 0 {
		m.overriddenSlots.WithLabelValues(component).Add(float64(overridden))
	}
}

// ObserveRegistryVersion publishes the version of the named registry.
func (m *Metrics) ObserveRegistryVersion(registry string, version uint64) {
	if m == nil {
		return
	}
	m.registryVersion.WithLabelValues(registry).Set(float64(version))
}

// ObserveThemePackReload records one hot reload.
func (m *Metrics) ObserveThemePackReload(err error) {
	if m == nil {
		return
	}
	m.themePackReloads.WithLabelValues(outcomeOf(err)).Inc()
}

// Registry returns the private Prometheus registry.
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// Handler serves the metrics in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func outcomeOf(err error) string {
	if err != nil {
		return outcomeFailure
	}
	return outcomeSuccess
}
