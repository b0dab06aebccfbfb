package events

import "time"

// Event is implemented by every value published on the reporting bus.
type Event interface {
	EventTime() time.Time
}

// Kind distinguishes exception captures from message captures.
type Kind string

const (
	KindException Kind = "exception"
	KindMessage   Kind = "message"
)

// Reason explains why a capture request did not reach the sink.
type Reason string

const (
	// ReasonDisabled means no DSN is configured or no client is bound.
	ReasonDisabled Reason = "disabled"
	// ReasonIneligible means the value was not an error, or the message was empty.
	ReasonIneligible Reason = "ineligible"
	// ReasonSinkFailure means the sink panicked while capturing.
	ReasonSinkFailure Reason = "sink_failure"
	// ReasonEnrichmentFailure means building the event panicked, for
	// example in a faulty Error method.
	ReasonEnrichmentFailure Reason = "enrichment_failure"
)

// ClientCreated is published once after the reporting client is bound.
type ClientCreated struct {
	Environment string
	Release     string
	Time        time.Time
}

func (e ClientCreated) EventTime() time.Time { return e.Time }

// Captured is published after an event was handed to the sink.
type Captured struct {
	Kind  Kind
	Code  string
	Level string
	Time  time.Time
}

func (e Captured) EventTime() time.Time { return e.Time }

// Skipped is published when a capture request was dropped.
type Skipped struct {
	Kind   Kind
	Reason Reason
	Time   time.Time
}

func (e Skipped) EventTime() time.Time { return e.Time }
