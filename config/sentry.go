package config

import (
	"fmt"

	"github.com/kilianp07/sentrybridge/auth"
	"github.com/kilianp07/sentrybridge/core/factory"
)

// SentryConfig defines settings for Sentry error reporting. An empty DSN
// disables reporting entirely.
type SentryConfig struct {
	DSN         string `json:"dsn"`
	Environment string `json:"environment"`
	// Release overrides the RELEASE_ marker file lookup.
	Release string `json:"release"`
	// SampleRate in [0,1]; unset means 1 and 0 sends nothing.
	SampleRate       *float64 `json:"sample_rate"`
	HTTPProxy        string   `json:"http_proxy"`
	AttachStacktrace bool     `json:"attach_stacktrace"`
	// DefaultIntegrations is true when unset.
	DefaultIntegrations *bool    `json:"default_integrations"`
	InAppExclude        []string `json:"in_app_exclude"`
	// RootPath is the project root. Release markers are searched there and
	// the prefix is stripped from frame filenames.
	RootPath   string `json:"root_path"`
	BindGlobal bool   `json:"bind_global"`
	Debug      bool   `json:"debug"`
	// Transport selects an alternate delivery transport by registered type.
	Transport factory.ModuleConfig `json:"transport"`
	// Auth enables OAuth2 client credentials on the delivery HTTP client.
	Auth auth.Conf `json:"auth"`
}

// Enabled reports whether a DSN is configured.
func (c SentryConfig) Enabled() bool { return c.DSN != "" }

// SampleRateValue resolves the sample_rate setting.
func (c SentryConfig) SampleRateValue() float64 {
	if c.SampleRate == nil {
		return 1
	}
	return *c.SampleRate
}

// IntegrationsEnabled resolves the default_integrations flag.
func (c SentryConfig) IntegrationsEnabled() bool {
	return c.DefaultIntegrations == nil || *c.DefaultIntegrations
}

// SetDefaults applies sane defaults.
func (c *SentryConfig) SetDefaults() {
	if c.RootPath == "" {
		c.RootPath = "."
	}
}

// Validate checks value ranges.
func (c SentryConfig) Validate() error {
	if rate := c.SampleRateValue(); rate < 0 || rate > 1 {
		return fmt.Errorf("sample_rate %v out of range", rate)
	}
	if c.Auth.ClientID != "" && c.Auth.AuthURL == "" {
		return fmt.Errorf("auth.auth_url is required with auth.client_id")
	}
	return nil
}
