package mqtt

import (
	"encoding/json"
	"sync"
	"sync/atomic"
	"time"

	"github.com/getsentry/sentry-go"

	"github.com/kilianp07/sentrybridge/infra/logger"
)

// Transport is a sentry.Transport publishing each event as JSON to an MQTT
// topic. A relay on the other side forwards the events to Sentry.
type Transport struct {
	client  publisher
	topic   string
	log     logger.Logger
	dropped atomic.Int64

	inflightMu sync.Mutex
	inflight   int
	idle       []chan struct{}

	mu  sync.RWMutex
	dsn string
}

type publisher interface {
	Publish(topic string, payload []byte) error
	Disconnect()
}

// Envelope wraps an event with the routing data a relay needs.
type Envelope struct {
	DSN   string          `json:"dsn"`
	Event json.RawMessage `json:"event"`
}

// NewTransport connects to the broker described by cfg.
func NewTransport(cfg Config) (*Transport, error) {
	cfg.SetDefaults()
	cli, err := NewPahoClient(cfg)
	if err != nil {
		return nil, err
	}
	return newTransport(cli, cfg.Topic), nil
}

func newTransport(cli publisher, topic string) *Transport {
	return &Transport{client: cli, topic: topic, log: logger.New("mqtt_transport")}
}

// Configure records the DSN forwarded in each envelope.
func (t *Transport) Configure(options sentry.ClientOptions) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.dsn = options.Dsn
}

// SendEvent publishes the event asynchronously.
func (t *Transport) SendEvent(event *sentry.Event) {
	if event == nil {
		return
	}
	body, err := json.Marshal(event)
	if err != nil {
		t.log.Errorf("encode event %s: %v", event.EventID, err)
		t.dropped.Add(1)
		return
	}
	t.mu.RLock()
	payload, err := json.Marshal(Envelope{DSN: t.dsn, Event: body})
	t.mu.RUnlock()
	if err != nil {
		t.log.Errorf("encode envelope %s: %v", event.EventID, err)
		t.dropped.Add(1)
		return
	}
	t.begin()
	go func() {
		defer t.end()
		if err := t.client.Publish(t.topic, payload); err != nil {
			t.log.Errorf("drop event %s: %v", event.EventID, err)
			t.dropped.Add(1)
		}
	}()
}

func (t *Transport) begin() {
	t.inflightMu.Lock()
	t.inflight++
	t.inflightMu.Unlock()
}

func (t *Transport) end() {
	t.inflightMu.Lock()
	defer t.inflightMu.Unlock()
	t.inflight--
	if t.inflight > 0 {
		return
	}
	for _, ch := range t.idle {
		close(ch)
	}
	t.idle = nil
}

// Flush waits until no publish is in flight or the timeout elapses. Events
// sent while flushing extend the wait.
func (t *Transport) Flush(timeout time.Duration) bool {
	t.inflightMu.Lock()
	if t.inflight == 0 {
		t.inflightMu.Unlock()
		return true
	}
	done := make(chan struct{})
	t.idle = append(t.idle, done)
	t.inflightMu.Unlock()

	timer := time.NewTimer(timeout)
	defer timer.Stop()
	select {
	case <-done:
		return true
	case <-timer.C:
		return false
	}
}

// Dropped returns the number of events that could not be published.
func (t *Transport) Dropped() int64 { return t.dropped.Load() }

// Close flushes pending events and disconnects from the broker.
func (t *Transport) Close() {
	t.Flush(2 * time.Second)
	t.client.Disconnect()
}
