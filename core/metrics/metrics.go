package metrics

import "time"

// CaptureRecord describes the outcome of one capture request.
type CaptureRecord struct {
	// Kind is "exception" or "message".
	Kind string
	// Outcome is "captured" or the skip reason.
	Outcome string
	Code    string
	Level   string
	Time    time.Time
}

// OutcomeCaptured marks records for events handed to the sink.
const OutcomeCaptured = "captured"

// MetricsSink records capture outcomes for observability purposes.
type MetricsSink interface {
	RecordCapture(rec CaptureRecord) error
}

// ClientRecord describes a reporting client becoming active.
type ClientRecord struct {
	Environment string
	Release     string
	Time        time.Time
}

// ClientRecorder is implemented by sinks able to record client creation.
type ClientRecorder interface {
	RecordClientCreated(rec ClientRecord) error
}

// NopSink implements every recorder with no-op methods.
type NopSink struct{}

func (NopSink) RecordCapture(CaptureRecord) error       { return nil }
func (NopSink) RecordClientCreated(ClientRecord) error { return nil }
