package monitoring

import (
	"io/fs"

	"github.com/getsentry/sentry-go"

	"github.com/kilianp07/sentrybridge/core/events"
	"github.com/kilianp07/sentrybridge/core/factory"
	"github.com/kilianp07/sentrybridge/core/logger"
	"github.com/kilianp07/sentrybridge/internal/eventbus"
)

// Option configures a Reporter.
type Option func(*Reporter)

// WithLogger sets the reporter logger.
func WithLogger(l logger.Logger) Option {
	return func(r *Reporter) { r.log = l }
}

// WithEventBus publishes the client created notification on bus.
func WithEventBus(bus eventbus.Publisher[events.Event]) Option {
	return func(r *Reporter) { r.bus = bus }
}

// OnClientCreated registers an observer called once with the new client.
func OnClientCreated(fn func(*sentry.Client)) Option {
	return func(r *Reporter) { r.onCreated = fn }
}

// WithTransportRegistry replaces the registry used to resolve sentry.transport.
func WithTransportRegistry(reg *factory.Registry[sentry.Transport]) Option {
	return func(r *Reporter) { r.transports = reg }
}

// WithTransport forces the delivery transport, bypassing the registry.
func WithTransport(t sentry.Transport) Option {
	return func(r *Reporter) { r.transport = t }
}

// WithRootFS sets the filesystem searched for RELEASE_ marker files.
func WithRootFS(root fs.FS) Option {
	return func(r *Reporter) { r.rootFS = root }
}
