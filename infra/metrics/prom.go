package metrics

import (
	"errors"

	coremetrics "github.com/kilianp07/sentrybridge/core/metrics"
	"github.com/prometheus/client_golang/prometheus"
)

// PromSink records capture outcomes in Prometheus metrics.
type PromSink struct {
	captures *prometheus.CounterVec
	clients  *prometheus.CounterVec
	created  prometheus.Gauge
}

// NewPromSink registers capture metrics on the default Prometheus registerer.
func NewPromSink() (*PromSink, error) {
	return NewPromSinkWithRegistry(prometheus.DefaultRegisterer)
}

// NewPromSinkWithRegistry registers metrics on the provided registerer.
// A nil registerer defaults to the global Prometheus registerer.
func NewPromSinkWithRegistry(reg prometheus.Registerer) (*PromSink, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	captures := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "sentrybridge_captures_total",
		Help: "Capture requests by kind and outcome",
	}, []string{"kind", "outcome", "level"})
	clients := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "sentrybridge_clients_created_total",
		Help: "Reporting clients created",
	}, []string{"environment", "release"})
	created := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "sentrybridge_client_created_timestamp_seconds",
		Help: "Unix time the last reporting client was created",
	})

	var err error
	if captures, err = register(reg, captures); err != nil {
		return nil, err
	}
	if clients, err = register(reg, clients); err != nil {
		return nil, err
	}
	if created, err = register(reg, created); err != nil {
		return nil, err
	}
	return &PromSink{captures: captures, clients: clients, created: created}, nil
}

func register[C prometheus.Collector](reg prometheus.Registerer, c C) (C, error) {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(C); ok {
				return existing, nil
			}
		}
		return c, err
	}
	return c, nil
}

// RecordCapture increments the capture counter.
func (s *PromSink) RecordCapture(rec coremetrics.CaptureRecord) error {
	s.captures.WithLabelValues(rec.Kind, rec.Outcome, rec.Level).Inc()
	return nil
}

// RecordClientCreated counts the client and stores its creation time.
func (s *PromSink) RecordClientCreated(rec coremetrics.ClientRecord) error {
	s.clients.WithLabelValues(rec.Environment, rec.Release).Inc()
	s.created.Set(float64(rec.Time.Unix()))
	return nil
}
