// Package factory provides a small generic registry used to build pluggable
// modules (delivery transports, metrics sinks) from configuration. A module is
// described by a type name and a map of raw settings; each factory decodes the
// settings into its own struct and returns the concrete implementation.
//
// Example usage:
//
//	reg := factory.NewRegistry[sentry.Transport]()
//	_ = reg.Register("noop", func(map[string]any) (sentry.Transport, error) {
//	    return noopTransport{}, nil
//	})
//	tr, err := reg.Create(factory.ModuleConfig{Type: "noop"})
package factory
