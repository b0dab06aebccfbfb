package interceptor

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/sentrybridge/core/monitoring"
)

func TestRenderReportsAndReturnsError(t *testing.T) {
	p, sink := newPipeline(t)
	fail := errors.New("template missing")
	var got *monitoring.CapturedEvent
	sink.EXPECT().CaptureException(gomock.Any(), fail).Do(func(ev *monitoring.CapturedEvent, _ error) { got = ev })

	err := Render(context.Background(), p, "invoice", func() error { return fail })
	assert.Same(t, fail, err)
	require.NotNil(t, got)
	assert.Equal(t, "invoice", got.Extra["render"])
}

func TestRenderRepanics(t *testing.T) {
	p, sink := newPipeline(t)
	boom := errors.New("boom")
	sink.EXPECT().CaptureException(gomock.Any(), boom).Times(1)

	assert.PanicsWithValue(t, boom, func() {
		_ = Render(context.Background(), p, "invoice", func() error { panic(boom) })
	})
}

func TestRenderSuccessAndClientErrors(t *testing.T) {
	p, _ := newPipeline(t)
	assert.NoError(t, Render(context.Background(), p, "ok", func() error { return nil }))

	notFound := NewHTTPError(http.StatusNotFound, errors.New("no such page"))
	assert.Same(t, notFound, Render(context.Background(), p, "page", func() error { return notFound }))
}

func TestCommandReportsFailure(t *testing.T) {
	p, sink := newPipeline(t)
	fail := errors.New("import failed")
	var got *monitoring.CapturedEvent
	sink.EXPECT().CaptureException(gomock.Any(), fail).Do(func(ev *monitoring.CapturedEvent, _ error) { got = ev })

	cmd := &cobra.Command{Use: "import"}
	cmd.SetContext(context.Background())
	run := Command(p, func(*cobra.Command, []string) error { return fail })
	assert.Same(t, fail, run(cmd, []string{"orders.csv"}))
	require.NotNil(t, got)
	assert.Equal(t, "import", got.Extra["command"])
	assert.Equal(t, []string{"orders.csv"}, got.Extra["args"])
}

func TestShouldReport(t *testing.T) {
	assert.False(t, ShouldReport(nil))
	assert.True(t, ShouldReport(errors.New("x")))
	assert.True(t, ShouldReport(NewHTTPError(http.StatusBadGateway, errors.New("x"))))
	assert.False(t, ShouldReport(NewHTTPError(http.StatusConflict, errors.New("x"))))
	assert.Equal(t, http.StatusConflict, StatusOf(NewHTTPError(http.StatusConflict, errors.New("x"))))
	assert.Equal(t, http.StatusInternalServerError, StatusOf(errors.New("x")))
}
