// Package infra contains technical adapters: the Sentry reporter, MQTT
// transport, metrics exporters, HTTP and CLI interceptors and logging.
// These packages depend only on the interfaces defined in the core packages.
package infra
