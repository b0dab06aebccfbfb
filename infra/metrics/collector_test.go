package metrics

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/kilianp07/sentrybridge/core/events"
	coremetrics "github.com/kilianp07/sentrybridge/core/metrics"
	"github.com/kilianp07/sentrybridge/internal/eventbus"
)

type recordingSink struct {
	mu       sync.Mutex
	captures []coremetrics.CaptureRecord
	clients  []coremetrics.ClientRecord
}

func (s *recordingSink) RecordCapture(rec coremetrics.CaptureRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.captures = append(s.captures, rec)
	return nil
}

func (s *recordingSink) RecordClientCreated(rec coremetrics.ClientRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clients = append(s.clients, rec)
	return nil
}

func (s *recordingSink) counts() (int, int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.captures), len(s.clients)
}

func TestStartEventCollector(t *testing.T) {
	bus := eventbus.NewTyped[events.Event]()
	defer bus.Close()
	sink := &recordingSink{}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	StartEventCollector(ctx, bus, sink)
	now := time.Now()
	bus.Publish(events.ClientCreated{Environment: "prod", Release: "v1", Time: now})
	bus.Publish(events.Captured{Kind: events.KindException, Code: "7", Level: "error", Time: now})
	bus.Publish(events.Skipped{Kind: events.KindMessage, Reason: events.ReasonDisabled, Time: now})

	assert.Eventually(t, func() bool {
		c, k := sink.counts()
		return c == 2 && k == 1
	}, time.Second, 10*time.Millisecond)

	sink.mu.Lock()
	defer sink.mu.Unlock()
	assert.Equal(t, coremetrics.CaptureRecord{Kind: "exception", Outcome: "captured", Code: "7", Level: "error", Time: now}, sink.captures[0])
	assert.Equal(t, coremetrics.CaptureRecord{Kind: "message", Outcome: "disabled", Time: now}, sink.captures[1])
	assert.Equal(t, "prod", sink.clients[0].Environment)
}

func TestStartEventCollectorStopsOnCancel(t *testing.T) {
	bus := eventbus.NewTyped[events.Event]()
	defer bus.Close()
	ctx, cancel := context.WithCancel(context.Background())
	StartEventCollector(ctx, bus, &recordingSink{})
	assert.Eventually(t, func() bool { return bus.Subscribers() == 1 }, time.Second, 10*time.Millisecond)
	cancel()
	assert.Eventually(t, func() bool { return bus.Subscribers() == 0 }, time.Second, 10*time.Millisecond)
}

func TestStartEventCollectorNilArgs(t *testing.T) {
	StartEventCollector(context.Background(), nil, &recordingSink{})
	bus := eventbus.NewTyped[events.Event]()
	defer bus.Close()
	StartEventCollector(context.Background(), bus, nil)
	assert.Equal(t, 0, bus.Subscribers())
}
