package monitoring

import (
	"context"
	"fmt"
	"io/fs"
	"maps"
	"net/http"
	"net/url"
	"os"
	"sync"
	"time"

	"github.com/getsentry/sentry-go"

	"github.com/kilianp07/sentrybridge/auth"
	"github.com/kilianp07/sentrybridge/config"
	"github.com/kilianp07/sentrybridge/core/events"
	"github.com/kilianp07/sentrybridge/core/factory"
	corelogger "github.com/kilianp07/sentrybridge/core/logger"
	coremon "github.com/kilianp07/sentrybridge/core/monitoring"
	"github.com/kilianp07/sentrybridge/internal/eventbus"
)

// Reporter implements the pipeline sink on top of a sentry.Hub.
type Reporter struct {
	cfg        config.SentryConfig
	app        config.AppConfig
	log        corelogger.Logger
	bus        eventbus.Publisher[events.Event]
	onCreated  func(*sentry.Client)
	transports *factory.Registry[sentry.Transport]
	transport  sentry.Transport
	rootFS     fs.FS
	now        func() time.Time

	mu       sync.RWMutex
	state    coremon.State
	hub      *sentry.Hub
	release  string
	baseline map[string]string
}

// NewReporter returns an uninitialized reporter. Call Init before capturing.
func NewReporter(cfg config.SentryConfig, app config.AppConfig, opts ...Option) *Reporter {
	r := &Reporter{
		cfg:        cfg,
		app:        app,
		transports: transportRegistry,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	r.log = corelogger.OrNop(r.log)
	if r.rootFS == nil {
		root := cfg.RootPath
		if root == "" {
			root = "."
		}
		r.rootFS = os.DirFS(root)
	}
	return r
}

// Init constructs and binds the Sentry client. It does nothing without a DSN
// and nothing on later calls once a client is bound.
func (r *Reporter) Init(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.cfg.Enabled() {
		r.log.Debugf("sentry disabled: no dsn configured")
		return nil
	}
	if r.state == coremon.StateActive {
		return nil
	}

	release := coremon.ResolveRelease(r.cfg.Release, r.rootFS)
	opts, err := r.clientOptions(ctx, release)
	if err != nil {
		r.log.Errorf("sentry client options: %v", err)
		return err
	}
	client, err := sentry.NewClient(opts)
	if err != nil {
		r.log.Errorf("sentry client creation failed: %v", err)
		return fmt.Errorf("create sentry client: %w", err)
	}

	r.hub = sentry.NewHub(client, sentry.NewScope())
	r.baseline = coremon.CollectProcessContext(r.app.Name, r.app.Version, r.app.Context).Tags()
	r.hub.ConfigureScope(func(s *sentry.Scope) { s.SetTags(r.baseline) })
	if r.cfg.BindGlobal {
		global := sentry.CurrentHub()
		global.BindClient(client)
		global.ConfigureScope(func(s *sentry.Scope) { s.SetTags(r.baseline) })
	}
	r.release = release
	r.state = coremon.StateActive

	r.log.Infof("sentry client created (environment=%q release=%q)", r.cfg.Environment, release)
	if r.bus != nil {
		r.bus.Publish(events.ClientCreated{Environment: r.cfg.Environment, Release: release, Time: r.now()})
	}
	if r.onCreated != nil {
		r.onCreated(client)
	}
	return nil
}

func (r *Reporter) clientOptions(ctx context.Context, release string) (sentry.ClientOptions, error) {
	frames := newFrameProcessor(append(append([]string{}, DefaultInAppExclude...), r.cfg.InAppExclude...), r.cfg.RootPath)
	opts := sentry.ClientOptions{
		Dsn:              r.cfg.DSN,
		Environment:      r.cfg.Environment,
		Release:          release,
		SampleRate:       r.cfg.SampleRateValue(),
		HTTPProxy:        r.cfg.HTTPProxy,
		HTTPSProxy:       r.cfg.HTTPProxy,
		AttachStacktrace: r.cfg.AttachStacktrace,
		Debug:            r.cfg.Debug,
		BeforeSend:       frames.BeforeSend,
	}
	if opts.SampleRate == 0 {
		// The SDK reads a zero rate as unset.
		opts.SampleRate = 1
		opts.BeforeSend = dropAll
	}
	if !r.cfg.IntegrationsEnabled() {
		opts.Integrations = func([]sentry.Integration) []sentry.Integration { return nil }
	}

	switch {
	case r.transport != nil:
		opts.Transport = r.transport
	case !r.cfg.Transport.IsZero():
		t, err := r.transports.Create(r.cfg.Transport)
		if err != nil {
			return opts, fmt.Errorf("sentry transport: %w", err)
		}
		r.transport = t
		opts.Transport = t
	}

	if r.cfg.Auth.Enabled() {
		base, err := proxyClient(r.cfg.HTTPProxy)
		if err != nil {
			return opts, err
		}
		opts.HTTPClient = auth.NewClientCred(r.cfg.Auth).HTTPClient(context.WithoutCancel(ctx), base)
	}
	return opts, nil
}

func dropAll(*sentry.Event, *sentry.EventHint) *sentry.Event { return nil }

func proxyClient(proxy string) (*http.Client, error) {
	base := &http.Client{Timeout: 30 * time.Second}
	if proxy == "" {
		return base, nil
	}
	u, err := url.Parse(proxy)
	if err != nil {
		return nil, fmt.Errorf("http_proxy: %w", err)
	}
	base.Transport = &http.Transport{Proxy: http.ProxyURL(u)}
	return base, nil
}

// CaptureException sends err with the enriched event data.
func (r *Reporter) CaptureException(ev *coremon.CapturedEvent, err error) {
	hub := r.activeHub()
	if hub == nil || ev == nil || err == nil {
		return
	}
	hub.WithScope(func(s *sentry.Scope) {
		applyEvent(s, ev)
		hub.CaptureException(err)
	})
}

// CaptureMessage sends a message event.
func (r *Reporter) CaptureMessage(ev *coremon.CapturedEvent) {
	hub := r.activeHub()
	if hub == nil || ev == nil {
		return
	}
	hub.WithScope(func(s *sentry.Scope) {
		applyEvent(s, ev)
		hub.CaptureMessage(ev.Message)
	})
}

// activeHub returns a private clone of the bound hub, or nil before Init.
func (r *Reporter) activeHub() *sentry.Hub {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.state != coremon.StateActive {
		return nil
	}
	return r.hub.Clone()
}

func applyEvent(s *sentry.Scope, ev *coremon.CapturedEvent) {
	if ev.User != nil {
		s.SetUser(sentry.User{Username: ev.User.Username})
	}
	if ev.Level != "" {
		s.SetLevel(sentry.Level(ev.Level))
	}
	s.SetTags(ev.Tags)
	s.SetExtras(ev.Extra)
}

// Flush waits for buffered events. It returns false on timeout.
func (r *Reporter) Flush(timeout time.Duration) bool {
	hub := r.activeHub()
	if hub == nil {
		return true
	}
	return hub.Flush(timeout)
}

// Close flushes pending events and releases the transport.
func (r *Reporter) Close() {
	r.Flush(2 * time.Second)
	r.mu.RLock()
	t := r.transport
	r.mu.RUnlock()
	if c, ok := t.(interface{ Close() }); ok {
		c.Close()
	}
}

// Client returns the bound client, or nil when none was constructed.
func (r *Reporter) Client() *sentry.Client {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.hub == nil {
		return nil
	}
	return r.hub.Client()
}

// State reports whether a client is bound.
func (r *Reporter) State() coremon.State {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.state
}

// Release returns the release resolved by Init.
func (r *Reporter) Release() string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.release
}

// BaselineTags returns a copy of the process tags set by Init.
func (r *Reporter) BaselineTags() map[string]string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return maps.Clone(r.baseline)
}

// DSN returns the configured DSN.
func (r *Reporter) DSN() string { return r.cfg.DSN }

// Environment returns the configured environment.
func (r *Reporter) Environment() string { return r.cfg.Environment }
