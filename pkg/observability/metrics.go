package observability

import (
	"context"
	"net/http"
	"time"

	"github.com/aretw0/flowcanvas/pkg/domain"
	"github.com/aretw0/flowcanvas/pkg/ports"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the editor collectors on a private registry.
type Metrics struct {
	registry     *prometheus.Registry
	graphEvents  *prometheus.CounterVec
	saves        *prometheus.CounterVec
	saveDuration prometheus.Histogram
}

// NewMetrics creates and registers the editor collectors.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		graphEvents: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "flowcanvas_graph_events_total",
				Help: "Total number of graph mutations by event type",
			},
			[]string{"type"},
		),
		saves: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "flowcanvas_saves_total",
				Help: "Total number of workflow saves by outcome",
			},
			[]string{"outcome"},
		),
		saveDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "flowcanvas_save_duration_seconds",
				Help:    "Duration of workflow saves",
				Buckets: prometheus.DefBuckets,
			},
		),
	}
	m.registry.MustRegister(m.graphEvents, m.saves, m.saveDuration)
	return m
}

// Registry exposes the registry for tests and custom exporters.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the metrics in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Listener counts graph events.
func (m *Metrics) Listener() domain.Listener {
	return func(e domain.GraphEvent) {
		m.graphEvents.WithLabelValues(string(e.Type)).Inc()
	}
}

// ObserveSave records the outcome of one save.
func (m *Metrics) ObserveSave(d time.Duration, err error) {
	outcome := "success"
	if err != nil {
		outcome = "failure"
	}
	m.saves.WithLabelValues(outcome).Inc()
	m.saveDuration.Observe(d.Seconds())
}

// InstrumentStore wraps store so every Save is measured.
func (m *Metrics) InstrumentStore(store ports.DocumentStore) ports.DocumentStore {
	return &instrumentedStore{next: store, metrics: m}
}

type instrumentedStore struct {
	next    ports.DocumentStore
	metrics *Metrics
}

func (s *instrumentedStore) Save(ctx context.Context, key, document string) error {
	start := time.Now()
	err := s.next.Save(ctx, key, document)
	s.metrics.ObserveSave(time.Since(start), err)
	return err
}
