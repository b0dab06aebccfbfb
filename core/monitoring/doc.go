// Package monitoring holds the capture pipeline: the policy deciding whether an
// error or message is reported, and which context is attached before the event
// is handed to a Sink.
//
// The pipeline never returns errors and never panics. It runs inside
// error-handling paths, so every failure degrades to a no-op.
//
//	p := monitoring.NewPipeline(cfg.Sentry.DSN, reporter,
//	    monitoring.WithIdentityResolver(auth.ContextResolver{}),
//	    monitoring.WithEventBus(bus),
//	)
//	p.HandleException(ctx, err, map[string]any{"route": "/orders"})
package monitoring
