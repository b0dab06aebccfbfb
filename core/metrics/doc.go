// Package metrics defines the sinks recording what the capture pipeline did
// with each request: captured, or skipped and why. Sinks like the Prometheus
// and InfluxDB implementations in infra/metrics are registered by name and
// combined with NewMultiSink; NewMetricsSink returns a MultiSink automatically
// when several sinks are configured.
package metrics
