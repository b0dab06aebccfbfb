package monitoring

//go:generate mockgen -source=sink.go -destination=sink_mock.go -package=monitoring

// Sink receives enriched events. Implementations own delivery and must not
// block the caller on network I/O.
type Sink interface {
	// CaptureException forwards ev together with the original error so the
	// sink can extract stack traces and the cause chain.
	CaptureException(ev *CapturedEvent, err error)
	// CaptureMessage forwards a message event.
	CaptureMessage(ev *CapturedEvent)
}

// Stater is implemented by sinks that can be unbound. The pipeline skips
// captures while the state is not StateActive.
type Stater interface {
	State() State
}

// NopSink drops every event.
type NopSink struct{}

func (NopSink) CaptureException(*CapturedEvent, error) {}
func (NopSink) CaptureMessage(*CapturedEvent)          {}
