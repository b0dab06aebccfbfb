package metrics

import (
	"context"

	"github.com/kilianp07/sentrybridge/core/events"
	coremetrics "github.com/kilianp07/sentrybridge/core/metrics"
	"github.com/kilianp07/sentrybridge/infra/logger"
)

// Subscriber is the subset of the event bus used by the collector.
type Subscriber interface {
	Subscribe() <-chan events.Event
	Unsubscribe(<-chan events.Event)
}

// StartEventCollector subscribes to the event bus and records metrics for events.
// It stops when the context is canceled or the bus is closed.
func StartEventCollector(ctx context.Context, bus Subscriber, sink coremetrics.MetricsSink) {
	if bus == nil || sink == nil {
		return
	}
	log := logger.New("metrics-collector")
	sub := bus.Subscribe()
	go func() {
		defer bus.Unsubscribe(sub)
		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-sub:
				if !ok {
					return
				}
				if err := record(sink, ev); err != nil {
					log.Warnf("record %T: %v", ev, err)
				}
			}
		}
	}()
}

func record(sink coremetrics.MetricsSink, ev events.Event) error {
	switch e := ev.(type) {
	case events.Captured:
		return sink.RecordCapture(coremetrics.CaptureRecord{
			Kind:    string(e.Kind),
			Outcome: coremetrics.OutcomeCaptured,
			Code:    e.Code,
			Level:   e.Level,
			Time:    e.Time,
		})
	case events.Skipped:
		return sink.RecordCapture(coremetrics.CaptureRecord{
			Kind:    string(e.Kind),
			Outcome: string(e.Reason),
			Time:    e.Time,
		})
	case events.ClientCreated:
		if r, ok := sink.(coremetrics.ClientRecorder); ok {
			return r.RecordClientCreated(coremetrics.ClientRecord{
				Environment: e.Environment,
				Release:     e.Release,
				Time:        e.Time,
			})
		}
	}
	return nil
}
