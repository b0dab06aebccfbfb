package monitoring

import (
	"context"
	"fmt"
	"time"

	"github.com/kilianp07/sentrybridge/core/events"
	"github.com/kilianp07/sentrybridge/core/logger"
	"github.com/kilianp07/sentrybridge/internal/eventbus"
)

// Pipeline gates, enriches and forwards errors and messages to a Sink.
type Pipeline struct {
	dsn          string
	sink         Sink
	identity     IdentityResolver
	defaultTags  map[string]string
	defaultExtra map[string]any
	bus          eventbus.Publisher[events.Event]
	log          logger.Logger
	now          func() time.Time
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithIdentityResolver sets the collaborator used to find the current user.
func WithIdentityResolver(r IdentityResolver) Option {
	return func(p *Pipeline) { p.identity = r }
}

// WithDefaultTags sets tags applied to every event before caller tags.
func WithDefaultTags(tags map[string]string) Option {
	return func(p *Pipeline) {
		p.defaultTags = make(map[string]string, len(tags))
		mergeTags(p.defaultTags, tags)
	}
}

// WithDefaultExtra sets extras applied to every event before caller extras.
func WithDefaultExtra(extra map[string]any) Option {
	return func(p *Pipeline) {
		p.defaultExtra = make(map[string]any, len(extra))
		mergeExtra(p.defaultExtra, extra)
	}
}

// WithEventBus publishes capture outcomes on bus.
func WithEventBus(bus eventbus.Publisher[events.Event]) Option {
	return func(p *Pipeline) { p.bus = bus }
}

// WithLogger sets the logger used for swallowed failures.
func WithLogger(l logger.Logger) Option {
	return func(p *Pipeline) { p.log = l }
}

// NewPipeline returns a pipeline forwarding to sink. An empty dsn disables it.
func NewPipeline(dsn string, sink Sink, opts ...Option) *Pipeline {
	p := &Pipeline{
		dsn:      dsn,
		sink:     sink,
		identity: NoIdentity{},
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	p.log = logger.OrNop(p.log)
	return p
}

// Enabled reports whether captures can reach the sink. A sink exposing its
// State must also be Active.
func (p *Pipeline) Enabled() bool {
	if p == nil || p.dsn == "" || p.sink == nil {
		return false
	}
	if s, ok := p.sink.(Stater); ok {
		return s.State() == StateActive
	}
	return true
}

// HandleException reports err with the given extras. It is a no-op when the
// pipeline is disabled or err is nil, including a nil pointer of an error type.
func (p *Pipeline) HandleException(ctx context.Context, err error, extra map[string]any) {
	if p == nil {
		return
	}
	if !p.Enabled() {
		p.skip(events.KindException, events.ReasonDisabled)
		return
	}
	if isNil(err) {
		p.skip(events.KindException, events.ReasonIneligible)
		return
	}

	p.deliver(events.KindException, func() *CapturedEvent {
		ev := newCapturedEvent(LevelError, p.username(ctx))
		ev.Message = err.Error()
		ev.Code = CodeOf(err)
		mergeTags(ev.Tags, p.defaultTags)
		ev.Tags["code"] = ev.Code
		mergeExtra(ev.Extra, p.defaultExtra)
		mergeExtra(ev.Extra, extra)
		if ref, ok := ReferenceCodeOf(err); ok {
			ev.ReferenceCode = ref
			ev.Extra[ReferenceCodeKey] = ref
		}
		return ev
	}, func(ev *CapturedEvent) { p.sink.CaptureException(ev, err) })
}

// HandlePanic reports a value obtained from recover. Only errors are
// reported; any other value is ignored.
func (p *Pipeline) HandlePanic(ctx context.Context, recovered any, extra map[string]any) {
	if p == nil {
		return
	}
	err, ok := recovered.(error)
	if !ok {
		p.skip(events.KindException, events.ReasonIneligible)
		return
	}
	p.HandleException(ctx, err, extra)
}

// SendMessage reports a plain message. An empty level defaults to info.
func (p *Pipeline) SendMessage(ctx context.Context, message string, level Level, extra map[string]any, tags map[string]string) {
	if p == nil {
		return
	}
	if !p.Enabled() {
		p.skip(events.KindMessage, events.ReasonDisabled)
		return
	}
	if message == "" {
		p.skip(events.KindMessage, events.ReasonIneligible)
		return
	}
	if level == "" {
		level = LevelInfo
	}

	p.deliver(events.KindMessage, func() *CapturedEvent {
		ev := newCapturedEvent(level, p.username(ctx))
		ev.Message = message
		mergeTags(ev.Tags, p.defaultTags)
		mergeTags(ev.Tags, tags)
		mergeExtra(ev.Extra, p.defaultExtra)
		mergeExtra(ev.Extra, extra)
		return ev
	}, func(ev *CapturedEvent) { p.sink.CaptureMessage(ev) })
}

// deliver builds the event and hands it to the sink. A panic in either step
// is logged and published as a skipped capture.
func (p *Pipeline) deliver(kind events.Kind, build func() *CapturedEvent, capture func(*CapturedEvent)) {
	reason := events.ReasonEnrichmentFailure
	defer func() {
		if r := recover(); r != nil {
			p.log.Errorf("error reporting failed (%s): %v", reason, r)
			p.publish(events.Skipped{Kind: kind, Reason: reason, Time: p.now()})
		}
	}()
	ev := build()
	reason = events.ReasonSinkFailure
	capture(ev)
	p.publish(events.Captured{Kind: kind, Code: ev.Code, Level: string(ev.Level), Time: p.now()})
}

func (p *Pipeline) skip(kind events.Kind, reason events.Reason) {
	p.publish(events.Skipped{Kind: kind, Reason: reason, Time: p.now()})
}

func (p *Pipeline) publish(ev events.Event) {
	if p.bus != nil {
		p.bus.Publish(ev)
	}
}

// username collapses every lookup failure to the anonymous user.
func (p *Pipeline) username(ctx context.Context) string {
	name, err := p.lookupUsername(ctx)
	if err != nil {
		p.log.Debugf("user lookup failed: %v", err)
		return ""
	}
	return name
}

func (p *Pipeline) lookupUsername(ctx context.Context) (name string, err error) {
	if p.identity == nil {
		return "", nil
	}
	if ctx == nil {
		ctx = context.Background()
	}
	defer func() {
		if r := recover(); r != nil {
			name, err = "", fmt.Errorf("%w: %v", ErrIdentityUnavailable, r)
		}
	}()
	return p.identity.Username(ctx)
}
