package metrics

// MultiSink fans records out to multiple sinks.
type MultiSink struct {
	Sinks []MetricsSink
}

// NewMultiSink creates a MultiSink with the provided sinks.
func NewMultiSink(sinks ...MetricsSink) *MultiSink {
	return &MultiSink{Sinks: sinks}
}

// RecordCapture forwards the record to all sinks, returning the first error
// encountered. Later sinks still receive the record.
func (m *MultiSink) RecordCapture(rec CaptureRecord) error {
	var first error
	for _, s := range m.Sinks {
		if err := s.RecordCapture(rec); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// RecordClientCreated forwards to sinks implementing ClientRecorder.
func (m *MultiSink) RecordClientCreated(rec ClientRecord) error {
	var first error
	for _, s := range m.Sinks {
		if cr, ok := s.(ClientRecorder); ok {
			if err := cr.RecordClientCreated(rec); err != nil && first == nil {
				first = err
			}
		}
	}
	return first
}

// Close releases sinks holding resources.
func (m *MultiSink) Close() {
	for _, s := range m.Sinks {
		if c, ok := s.(interface{ Close() }); ok {
			c.Close()
		}
	}
}
