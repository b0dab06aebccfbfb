package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kilianp07/sentrybridge/config"
)

type rootOptions struct {
	cfgPath string
}

// NewRootCmd builds the command tree.
func NewRootCmd() *cobra.Command {
	opts := &rootOptions{}
	root := &cobra.Command{
		Use:           "sentrybridge",
		Short:         "Crash reporting bridge for Sentry",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	root.PersistentFlags().StringVarP(&opts.cfgPath, "config", "c", "",
		"configuration file (default: $XDG_CONFIG_HOME/"+config.DefaultFile+")")
	root.AddCommand(newSentryCmd(opts), newServeCmd(opts))
	return root
}

// Execute runs the CLI.
func Execute() error { return NewRootCmd().Execute() }

func (o *rootOptions) load() (*config.Config, error) {
	path := o.cfgPath
	if path == "" {
		path = config.DefaultPath()
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}
