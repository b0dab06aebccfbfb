package monitoring

import (
	"time"

	"github.com/getsentry/sentry-go"

	"github.com/kilianp07/sentrybridge/core/factory"
	"github.com/kilianp07/sentrybridge/infra/mqtt"
)

var transportRegistry = factory.NewRegistry[sentry.Transport]()

// RegisterTransport adds a delivery transport selectable via sentry.transport.type.
func RegisterTransport(name string, f factory.Factory[sentry.Transport]) error {
	return transportRegistry.Register(name, f)
}

// Transports returns the registry of delivery transports.
func Transports() *factory.Registry[sentry.Transport] { return transportRegistry }

// HTTPTransportConfig tunes the SDK HTTP transports.
type HTTPTransportConfig struct {
	BufferSize int           `json:"buffer_size"`
	Timeout    time.Duration `json:"timeout"`
}

// NopTransport drops every event. It is used for dry runs.
type NopTransport struct{}

func (NopTransport) Configure(sentry.ClientOptions) {}
func (NopTransport) SendEvent(*sentry.Event)        {}
func (NopTransport) Flush(time.Duration) bool       { return true }

// init registers built-in transports.
func init() {
	_ = RegisterTransport("http", func(conf map[string]any) (sentry.Transport, error) {
		var c HTTPTransportConfig
		if err := factory.Decode(conf, &c); err != nil {
			return nil, err
		}
		t := sentry.NewHTTPTransport()
		if c.BufferSize > 0 {
			t.BufferSize = c.BufferSize
		}
		if c.Timeout > 0 {
			t.Timeout = c.Timeout
		}
		return t, nil
	})

	_ = RegisterTransport("http_sync", func(conf map[string]any) (sentry.Transport, error) {
		var c HTTPTransportConfig
		if err := factory.Decode(conf, &c); err != nil {
			return nil, err
		}
		t := sentry.NewHTTPSyncTransport()
		if c.Timeout > 0 {
			t.Timeout = c.Timeout
		}
		return t, nil
	})

	_ = RegisterTransport("noop", func(map[string]any) (sentry.Transport, error) {
		return NopTransport{}, nil
	})

	_ = RegisterTransport("mqtt", func(conf map[string]any) (sentry.Transport, error) {
		var c mqtt.Config
		if err := factory.Decode(conf, &c); err != nil {
			return nil, err
		}
		t, err := mqtt.NewTransport(c)
		if err != nil {
			return nil, err
		}
		return t, nil
	})
}
