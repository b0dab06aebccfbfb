package app

import (
	"context"
	"fmt"
	"time"

	"github.com/kilianp07/sentrybridge/auth"
	"github.com/kilianp07/sentrybridge/config"
	"github.com/kilianp07/sentrybridge/core/events"
	coremetrics "github.com/kilianp07/sentrybridge/core/metrics"
	coremon "github.com/kilianp07/sentrybridge/core/monitoring"
	"github.com/kilianp07/sentrybridge/infra/logger"
	"github.com/kilianp07/sentrybridge/infra/metrics"
	"github.com/kilianp07/sentrybridge/infra/monitoring"
	"github.com/kilianp07/sentrybridge/internal/eventbus"
)

// Service wires configuration, logging, metrics and error reporting.
type Service struct {
	Config   *config.Config
	Reporter *monitoring.Reporter
	Pipeline *coremon.Pipeline
	Metrics  coremetrics.MetricsSink

	bus    *eventbus.TypedBus[events.Event]
	log    logger.Logger
	cancel context.CancelFunc
}

// Option customises the service.
type Option func(*settings)

type settings struct {
	reporterOpts []monitoring.Option
	pipelineOpts []coremon.Option
}

// WithReporterOptions passes extra options to the Reporter.
func WithReporterOptions(opts ...monitoring.Option) Option {
	return func(s *settings) { s.reporterOpts = append(s.reporterOpts, opts...) }
}

// WithPipelineOptions passes extra options to the Pipeline.
func WithPipelineOptions(opts ...coremon.Option) Option {
	return func(s *settings) { s.pipelineOpts = append(s.pipelineOpts, opts...) }
}

// New creates a Service from the configuration. A reporter that fails to
// initialize is logged and left unbound; captures are then dropped.
func New(ctx context.Context, cfg *config.Config, opts ...Option) (*Service, error) {
	var st settings
	for _, opt := range opts {
		opt(&st)
	}
	if err := logger.Configure(cfg.Logging.Level, cfg.Logging.Format); err != nil {
		return nil, fmt.Errorf("logging: %w", err)
	}
	logg := logger.New("service")

	sink, err := coremetrics.NewMetricsSink(cfg.Metrics.Sinks)
	if err != nil {
		return nil, fmt.Errorf("metrics sink: %w", err)
	}

	bus := eventbus.NewTyped[events.Event]()
	runCtx, cancel := context.WithCancel(ctx)
	metrics.StartEventCollector(runCtx, bus, sink)

	reporterOpts := append([]monitoring.Option{
		monitoring.WithLogger(logger.New("sentry")),
		monitoring.WithEventBus(bus),
	}, st.reporterOpts...)
	reporter := monitoring.NewReporter(cfg.Sentry, cfg.App, reporterOpts...)
	if err := reporter.Init(runCtx); err != nil {
		logg.Errorf("error reporting unavailable: %v", err)
	}

	pipelineOpts := append([]coremon.Option{
		coremon.WithIdentityResolver(auth.ContextResolver{}),
		coremon.WithEventBus(bus),
		coremon.WithLogger(logger.New("pipeline")),
	}, st.pipelineOpts...)
	pipeline := coremon.NewPipeline(cfg.Sentry.DSN, reporter, pipelineOpts...)

	return &Service{
		Config:   cfg,
		Reporter: reporter,
		Pipeline: pipeline,
		Metrics:  sink,
		bus:      bus,
		log:      logg,
		cancel:   cancel,
	}, nil
}

// Bus exposes the lifecycle event bus.
func (s *Service) Bus() *eventbus.TypedBus[events.Event] { return s.bus }

// StartMetricsServer serves /metrics on the configured address until ctx
// is done. It does nothing when no address is configured.
func (s *Service) StartMetricsServer(ctx context.Context) {
	addr := s.Config.Metrics.PrometheusAddr
	if addr == "" {
		return
	}
	go func() {
		if err := metrics.StartPromServer(ctx, addr); err != nil {
			s.log.Errorf("prom server: %v", err)
		}
	}()
}

// Close flushes pending events and releases resources held by the service.
func (s *Service) Close() error {
	if !s.Reporter.Flush(2 * time.Second) {
		s.log.Warnf("sentry flush timed out")
	}
	s.Reporter.Close()
	s.cancel()
	s.bus.Close()
	if c, ok := s.Metrics.(interface{ Close() }); ok {
		c.Close()
	}
	return nil
}
