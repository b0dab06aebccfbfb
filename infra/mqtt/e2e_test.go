package mqtt_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"
	"github.com/getsentry/sentry-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/sentrybridge/infra/mqtt"
	"github.com/kilianp07/sentrybridge/internal/testutil"
)

func TestTransportWithMosquitto(t *testing.T) {
	if testing.Short() {
		t.Skip("short mode")
	}
	ctx := context.Background()
	broker, cleanup, err := testutil.StartMosquitto(ctx)
	if err != nil {
		t.Skipf("docker unavailable: %v", err)
	}
	defer cleanup()

	received := make(chan []byte, 1)
	sub := paho.NewClient(paho.NewClientOptions().AddBroker(broker).SetClientID("relay"))
	tok := sub.Connect()
	require.True(t, tok.WaitTimeout(5*time.Second))
	require.NoError(t, tok.Error())
	defer sub.Disconnect(100)
	tok = sub.Subscribe("crash/events", 1, func(_ paho.Client, m paho.Message) {
		received <- m.Payload()
	})
	require.True(t, tok.WaitTimeout(5*time.Second))
	require.NoError(t, tok.Error())

	tr, err := mqtt.NewTransport(mqtt.Config{Broker: broker, Topic: "crash/events", QoS: 1})
	require.NoError(t, err)
	defer tr.Close()

	client, err := sentry.NewClient(sentry.ClientOptions{
		Dsn:       "https://key@sentry.example.com/1",
		Transport: tr,
	})
	require.NoError(t, err)
	hub := sentry.NewHub(client, sentry.NewScope())
	hub.CaptureMessage("hello from the bridge")
	require.True(t, hub.Flush(5*time.Second))

	select {
	case payload := <-received:
		var env mqtt.Envelope
		require.NoError(t, json.Unmarshal(payload, &env))
		assert.Equal(t, "https://key@sentry.example.com/1", env.DSN)
		assert.Contains(t, string(env.Event), "hello from the bridge")
	case <-time.After(5 * time.Second):
		t.Fatal("event not received")
	}
}
