package interceptor

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/kilianp07/sentrybridge/core/monitoring"
)

// Render runs a render operation and reports its failure. The error is
// returned unchanged and a panic is re-raised after reporting.
func Render(ctx context.Context, p *monitoring.Pipeline, name string, fn func() error) error {
	return guard(ctx, p, map[string]any{"render": name}, fn)
}

// RunE matches cobra.Command.RunE.
type RunE func(cmd *cobra.Command, args []string) error

// Command wraps a cobra RunE so failing commands are reported.
func Command(p *monitoring.Pipeline, run RunE) RunE {
	return func(cmd *cobra.Command, args []string) error {
		extra := map[string]any{"command": cmd.CommandPath(), "args": args}
		return guard(cmd.Context(), p, extra, func() error { return run(cmd, args) })
	}
}

func guard(ctx context.Context, p *monitoring.Pipeline, extra map[string]any, fn func() error) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			if e, ok := rec.(error); ok && ShouldReport(e) {
				p.HandlePanic(ctx, e, extra)
			}
			panic(rec)
		}
	}()
	err = fn()
	if ShouldReport(err) {
		p.HandleException(ctx, err, extra)
	}
	return err
}
