package cmd

import (
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/cheynewallace/tabby"
	"github.com/spf13/cobra"

	"github.com/kilianp07/sentrybridge/app"
	coremon "github.com/kilianp07/sentrybridge/core/monitoring"
)

// TestExceptionCode identifies the error raised by "sentry test".
const TestExceptionCode = 1516900282

// ErrClientUnavailable is returned when no Sentry client could be built.
var ErrClientUnavailable = errors.New("the Sentry client could not be initialized properly, please check your configuration")

func newSentryCmd(opts *rootOptions) *cobra.Command {
	sentryCmd := &cobra.Command{
		Use:   "sentry",
		Short: "Sentry related commands",
	}
	sentryCmd.AddCommand(&cobra.Command{
		Use:   "test",
		Short: "Send a test exception to the configured Sentry server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runSentryTest(cmd, opts)
		},
	})
	return sentryCmd
}

func runSentryTest(cmd *cobra.Command, opts *rootOptions) error {
	cfg, err := opts.load()
	if err != nil {
		return err
	}
	svc, err := app.New(cmd.Context(), cfg)
	if err != nil {
		return err
	}
	defer func() { _ = svc.Close() }()

	client := svc.Reporter.Client()
	if client == nil {
		return ErrClientUnavailable
	}

	out := cmd.OutOrStdout()
	_, _ = fmt.Fprintln(out, "Sentry is configured with the following options:")
	_, _ = fmt.Fprintln(out)
	options := client.Options()
	printOptions(out, [][2]string{
		{"DSN", options.Dsn},
		{"Environment", options.Environment},
		{"Release", options.Release},
		{"Tags", joinTags(svc.Reporter.BaselineTags())},
	})
	_, _ = fmt.Fprintln(out)
	_, _ = fmt.Fprintf(out, "Triggering a test exception which is sent to the DSN '%s'\n\n", cfg.Sentry.DSN)

	testErr := coremon.NewError(TestExceptionCode, "This is a sentry test exception.")
	svc.Pipeline.HandleException(cmd.Context(), testErr, map[string]any{"command": cmd.CommandPath()})
	if !svc.Reporter.Flush(5 * time.Second) {
		_, _ = fmt.Fprintln(cmd.ErrOrStderr(), "timed out waiting for delivery")
	}
	return testErr
}

func printOptions(w io.Writer, rows [][2]string) {
	t := tabby.NewCustom(tabwriter.NewWriter(w, 0, 0, 2, ' ', 0))
	t.AddHeader("OPTION", "VALUE")
	for _, r := range rows {
		t.AddLine(r[0], r[1])
	}
	t.Print()
}

func joinTags(tags map[string]string) string {
	parts := make([]string, 0, len(tags))
	for k, v := range tags {
		parts = append(parts, k+"="+v)
	}
	sort.Strings(parts)
	return strings.Join(parts, ", ")
}
