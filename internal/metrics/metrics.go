package metrics

import (
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/tomasz-mizak/chatguard/internal/access"
)

// Metrics records access guard outcomes. It satisfies access.Observer.
type Metrics struct {
	Registry *prometheus.Registry

	Validations *prometheus.CounterVec
	KeyLoads    *prometheus.CounterVec
	LoadSeconds prometheus.Histogram
	KeyLoaded   prometheus.Gauge
}

// New creates and registers the guard collectors plus Go and process collectors.
func New(logger zerolog.Logger) *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		Validations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "chatguard_validations_total",
			Help: "Access key checks by outcome",
		}, []string{"outcome"}),
		KeyLoads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "chatguard_key_loads_total",
			Help: "Key file reads by outcome",
		}, []string{"outcome"}),
		LoadSeconds: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "chatguard_key_load_seconds",
			Help:    "Key file read and parse latency",
			Buckets: prometheus.ExponentialBuckets(0.0001, 4, 8),
		}),
		KeyLoaded: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "chatguard_key_loaded",
			Help: "1 once the access key is cached",
		}),
	}
	toRegister := []prometheus.Collector{
		m.Validations, m.KeyLoads, m.LoadSeconds, m.KeyLoaded,
		collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	}
	for _, c := range toRegister {
		_ = m.Registry.Register(c)
	}
	logger.Debug().Msg("Prometheus metrics initialized")
	return m
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{})
}

func (m *Metrics) ObserveLoad(err error, elapsed time.Duration) {
	m.LoadSeconds.Observe(elapsed.Seconds())
	m.KeyLoads.WithLabelValues(Outcome(err)).Inc()
	if err == nil {
		m.KeyLoaded.Set(1)
	}
}

func (m *Metrics) ObserveValidation(err error) {
	m.Validations.WithLabelValues(Outcome(err)).Inc()
}

// Outcome is the label value for an access error.
func Outcome(err error) string {
	if err == nil {
		return "ok"
	}
	var e *access.Error
	if errors.As(err, &e) {
		return e.Code
	}
	return "error"
}
