package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/adrg/xdg"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, data string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))
	return path
}

func TestLoadYAML(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "config.yaml", `app:
  name: "billing"
  context: "worker"
  version: "1.4.0"
logging:
  level: "debug"
  format: "console"
sentry:
  dsn: "https://key@sentry.example.com/1"
  environment: "prod"
  sample_rate: 0.5
  http_proxy: "http://proxy:3128"
  default_integrations: false
  in_app_exclude: ["github.com/acme/vendor"]
  bind_global: true
  transport:
    type: "mqtt"
    conf:
      broker: "tcp://localhost:1883"
metrics:
  sinks:
    - type: "nop"
  prometheus_addr: ":9100"
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	checks := []struct {
		name string
		got  any
		want any
	}{
		{"app.name", cfg.App.Name, "billing"},
		{"app.context", cfg.App.Context, "worker"},
		{"app.version", cfg.App.Version, "1.4.0"},
		{"logging.level", cfg.Logging.Level, "debug"},
		{"logging.format", cfg.Logging.Format, "console"},
		{"sentry.dsn", cfg.Sentry.DSN, "https://key@sentry.example.com/1"},
		{"sentry.environment", cfg.Sentry.Environment, "prod"},
		{"sentry.sample_rate", cfg.Sentry.SampleRateValue(), 0.5},
		{"sentry.http_proxy", cfg.Sentry.HTTPProxy, "http://proxy:3128"},
		{"sentry.default_integrations", cfg.Sentry.IntegrationsEnabled(), false},
		{"sentry.bind_global", cfg.Sentry.BindGlobal, true},
		{"sentry.transport.type", cfg.Sentry.Transport.Type, "mqtt"},
		{"sentry.transport.conf.broker", cfg.Sentry.Transport.Conf["broker"], "tcp://localhost:1883"},
		{"metrics.sinks", len(cfg.Metrics.Sinks) == 1 && cfg.Metrics.Sinks[0].Type == "nop", true},
		{"metrics.prometheus_addr", cfg.Metrics.PrometheusAddr, ":9100"},
		{"server.addr", cfg.Server.Addr, ":8080"},
	}
	for _, c := range checks {
		assert.Equal(t, c.want, c.got, c.name)
	}
	assert.Equal(t, []string{"github.com/acme/vendor"}, cfg.Sentry.InAppExclude)
}

func TestLoadTOML(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "config.toml", `[app]
name = "billing"

[sentry]
dsn = "https://key@sentry.example.com/1"
release = "2.0.0"

[sentry.transport]
type = "noop"
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "billing", cfg.App.Name)
	assert.Equal(t, "2.0.0", cfg.Sentry.Release)
	assert.Equal(t, "noop", cfg.Sentry.Transport.Type)
	assert.True(t, cfg.Sentry.IntegrationsEnabled())
}

func TestLoadJSONDefaults(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "config.json", `{"sentry": {"environment": "dev"}}`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.False(t, cfg.Sentry.Enabled())
	assert.Nil(t, cfg.Sentry.SampleRate)
	assert.Equal(t, 1.0, cfg.Sentry.SampleRateValue())
	assert.Equal(t, ".", cfg.Sentry.RootPath)
	assert.Equal(t, "sentrybridge", cfg.App.Name)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.Equal(t, "X-Account", cfg.Server.AccountHeader)
}

func TestLoadEnvOverrides(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "config.yaml", "sentry:\n  dsn: \"https://file@sentry.example.com/1\"\n")
	t.Setenv("SB_SENTRY__DSN", "https://env@sentry.example.com/2")
	t.Setenv("SB_SENTRY__ENVIRONMENT", "staging")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "https://env@sentry.example.com/2", cfg.Sentry.DSN)
	assert.Equal(t, "staging", cfg.Sentry.Environment)
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "config.yaml", "app:\n  name: \"svc\"\n")
	writeFile(t, dir, ".env", "SB_APP__CONTEXT=cron\n")
	t.Cleanup(func() { _ = os.Unsetenv("SB_APP__CONTEXT") })

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "cron", cfg.App.Context)
}

func TestLoadEnvOnly(t *testing.T) {
	t.Setenv("SB_SENTRY__RELEASE", "9.9.9")
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "9.9.9", cfg.Sentry.Release)
}

func TestLoadErrors(t *testing.T) {
	dir := t.TempDir()

	_, err := Load(writeFile(t, dir, "config.ini", "x=1"))
	assert.ErrorContains(t, err, "unsupported config format")

	_, err = Load(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)

	_, err = Load(writeFile(t, dir, "bad_rate.yaml", "sentry:\n  sample_rate: 2\n"))
	assert.ErrorContains(t, err, "sample_rate")

	_, err = Load(writeFile(t, dir, "bad_level.yaml", "logging:\n  level: loud\n"))
	assert.ErrorContains(t, err, "unknown level")
}

func TestDefaultPath(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	t.Setenv("XDG_CONFIG_DIRS", dir)
	xdg.Reload()
	assert.Empty(t, DefaultPath())

	require.NoError(t, os.MkdirAll(filepath.Join(dir, "sentrybridge"), 0o755))
	want := writeFile(t, filepath.Join(dir, "sentrybridge"), "config.yaml", "app:\n  name: x\n")
	assert.Equal(t, want, DefaultPath())
}

func TestLoadZeroSampleRate(t *testing.T) {
	dir := t.TempDir()
	cfg, err := Load(writeFile(t, dir, "config.yaml", "sentry:\n  sample_rate: 0\n"))
	require.NoError(t, err)
	require.NotNil(t, cfg.Sentry.SampleRate)
	assert.Equal(t, 0.0, cfg.Sentry.SampleRateValue())
}
