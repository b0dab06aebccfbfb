package e2e

import (
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"testing"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/kilianp07/sentrybridge/app"
	"github.com/kilianp07/sentrybridge/config"
	"github.com/kilianp07/sentrybridge/core/factory"
	coremon "github.com/kilianp07/sentrybridge/core/monitoring"
	"github.com/kilianp07/sentrybridge/infra/mqtt"
	"github.com/kilianp07/sentrybridge/internal/testutil"
)

const (
	influxOrg    = "e2e_org"
	influxBucket = "e2e_bucket"
	influxToken  = "e2e-token"
)

// startInflux starts an InfluxDB 2.7 container with a pre-created bucket and
// returns its base URL.
func startInflux(ctx context.Context, t *testing.T) string {
	t.Helper()
	req := tc.ContainerRequest{
		Image:        "influxdb:2.7",
		ExposedPorts: []string{"8086/tcp"},
		Env: map[string]string{
			"DOCKER_INFLUXDB_INIT_MODE":        "setup",
			"DOCKER_INFLUXDB_INIT_USERNAME":    "e2e",
			"DOCKER_INFLUXDB_INIT_PASSWORD":    "e2e-password",
			"DOCKER_INFLUXDB_INIT_ORG":         influxOrg,
			"DOCKER_INFLUXDB_INIT_BUCKET":      influxBucket,
			"DOCKER_INFLUXDB_INIT_ADMIN_TOKEN": influxToken,
		},
		WaitingFor: wait.ForHTTP("/health").WithPort("8086/tcp").WithStartupTimeout(60 * time.Second),
	}
	cont, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{ContainerRequest: req, Started: true})
	if err != nil {
		t.Skipf("unable to start influx container: %v", err)
	}
	t.Cleanup(func() { _ = cont.Terminate(context.Background()) })
	host, err := cont.Host(ctx)
	require.NoError(t, err)
	port, err := cont.MappedPort(ctx, "8086")
	require.NoError(t, err)
	return fmt.Sprintf("http://%s:%s", host, port.Port())
}

func subscribe(t *testing.T, broker, topic string) <-chan []byte {
	t.Helper()
	received := make(chan []byte, 4)
	cli := paho.NewClient(paho.NewClientOptions().AddBroker(broker).SetClientID("e2e-relay"))
	tok := cli.Connect()
	require.True(t, tok.WaitTimeout(5*time.Second))
	require.NoError(t, tok.Error())
	t.Cleanup(func() { cli.Disconnect(100) })
	tok = cli.Subscribe(topic, 1, func(_ paho.Client, m paho.Message) { received <- m.Payload() })
	require.True(t, tok.WaitTimeout(5*time.Second))
	require.NoError(t, tok.Error())
	return received
}

// Test_E2E_ReportingStack sends an exception through the pipeline, delivers
// it over MQTT and checks the capture was recorded in InfluxDB.
func Test_E2E_ReportingStack(t *testing.T) {
	if testing.Short() {
		t.Skip("short mode")
	}
	if _, err := exec.LookPath("docker"); err != nil {
		t.Skipf("docker not installed: %v", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	influxURL := startInflux(ctx, t)
	broker, cleanup, err := testutil.StartMosquitto(ctx)
	if err != nil {
		t.Skipf("unable to start mosquitto: %v", err)
	}
	defer cleanup()
	received := subscribe(t, broker, "e2e/events")

	cfg := &config.Config{
		App: config.AppConfig{Name: "e2e", Version: "1.0.0"},
		Sentry: config.SentryConfig{
			DSN:         "https://public@sentry.example.com/1",
			Environment: "e2e",
			Release:     "1.0.0",
			Transport: factory.ModuleConfig{Type: "mqtt", Conf: map[string]any{
				"broker": broker,
				"topic":  "e2e/events",
				"qos":    1,
			}},
		},
	}
	cfg.Metrics.Sinks = []factory.ModuleConfig{{Type: "influx", Conf: map[string]any{
		"url": influxURL, "token": influxToken, "org": influxOrg, "bucket": influxBucket,
	}}}
	cfg.SetDefaults()
	require.NoError(t, cfg.Validate())

	svc, err := app.New(ctx, cfg)
	require.NoError(t, err)
	defer func() { _ = svc.Close() }()
	require.Equal(t, coremon.StateActive, svc.Reporter.State())

	svc.Pipeline.HandleException(ctx, coremon.NewError(42, "e2e failure").WithReferenceCode("REF-E2E"), nil)
	require.True(t, svc.Reporter.Flush(5*time.Second))

	select {
	case payload := <-received:
		var env mqtt.Envelope
		require.NoError(t, json.Unmarshal(payload, &env))
		var ev struct {
			Tags  map[string]string `json:"tags"`
			Extra map[string]any    `json:"extra"`
		}
		require.NoError(t, json.Unmarshal(env.Event, &ev))
		assert.Equal(t, "42", ev.Tags["code"])
		assert.Equal(t, "REF-E2E", ev.Extra["referenceCode"])
	case <-time.After(10 * time.Second):
		t.Fatal("event not delivered over MQTT")
	}

	influx := NewInfluxClient(influxURL, influxOrg, influxBucket, influxToken)
	defer influx.Close()
	assert.Eventually(t, func() bool {
		n, err := influx.CountMeasurement(ctx, "capture_event")
		return err == nil && n > 0
	}, 10*time.Second, 200*time.Millisecond)
}
