package interceptor

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/sentrybridge/core/monitoring"
)

const testDSN = "https://public@sentry.example.com/1"

func newPipeline(t *testing.T) (*monitoring.Pipeline, *monitoring.MockSink) {
	t.Helper()
	ctrl := gomock.NewController(t)
	sink := monitoring.NewMockSink(ctrl)
	return monitoring.NewPipeline(testDSN, sink), sink
}

func TestMiddlewareReportsPanicAndAnswers500(t *testing.T) {
	p, sink := newPipeline(t)
	boom := errors.New("boom")

	var got *monitoring.CapturedEvent
	sink.EXPECT().CaptureException(gomock.Any(), boom).Do(func(ev *monitoring.CapturedEvent, _ error) { got = ev })

	r := mux.NewRouter()
	r.Use(Middleware(p))
	r.HandleFunc("/orders/{id}", func(http.ResponseWriter, *http.Request) { panic(boom) }).Methods(http.MethodPost)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/orders/7", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	require.NotNil(t, got)
	assert.Equal(t, "POST", got.Extra["method"])
	assert.Equal(t, "/orders/{id}", got.Extra["route"])
	assert.Equal(t, "/orders/7", got.Extra["url"])
}

func TestMiddlewareIgnoresNonErrorPanics(t *testing.T) {
	p, _ := newPipeline(t)
	h := Middleware(p)(http.HandlerFunc(func(http.ResponseWriter, *http.Request) { panic("just a string") }))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestMiddlewareSkipsClientErrors(t *testing.T) {
	p, _ := newPipeline(t)
	h := Middleware(p)(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic(NewHTTPError(http.StatusNotFound, errors.New("missing")))
	}))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestMiddlewarePassesThrough(t *testing.T) {
	p, _ := newPipeline(t)
	h := Middleware(p)(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusTeapot) }))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusTeapot, rec.Code)
}

func TestHandleReportsServerErrors(t *testing.T) {
	p, sink := newPipeline(t)
	fail := errors.New("db down")
	sink.EXPECT().CaptureException(gomock.Any(), fail).Times(1)

	h := Handle(p, func(http.ResponseWriter, *http.Request) error { return fail })
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestHandleAnswersStatusWithoutReporting(t *testing.T) {
	p, _ := newPipeline(t)
	h := Handle(p, func(http.ResponseWriter, *http.Request) error {
		return NewHTTPError(http.StatusBadRequest, errors.New("bad input"))
	})
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleCustomPolicy(t *testing.T) {
	p, _ := newPipeline(t)
	h := Handle(p, func(http.ResponseWriter, *http.Request) error { return errors.New("quiet") },
		WithPolicy(func(error) bool { return false }))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestMiddlewareReportsHTTPErrorWithoutCause(t *testing.T) {
	p, sink := newPipeline(t)
	var got *monitoring.CapturedEvent
	sink.EXPECT().CaptureException(gomock.Any(), gomock.Any()).Do(func(ev *monitoring.CapturedEvent, _ error) { got = ev })

	h := Middleware(p)(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic(NewHTTPError(http.StatusInternalServerError, nil))
	}))
	rec := httptest.NewRecorder()
	assert.NotPanics(t, func() {
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	})

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	require.NotNil(t, got)
	assert.Equal(t, "Internal Server Error", got.Message)
}

func TestHTTPErrorNilSafety(t *testing.T) {
	var typed *HTTPError
	assert.Equal(t, "<nil>", typed.Error())
	assert.NoError(t, typed.Unwrap())
	assert.Equal(t, "Bad Gateway", NewHTTPError(http.StatusBadGateway, nil).Error())
	assert.Equal(t, "Internal Server Error", NewHTTPError(1, nil).Error())
	assert.Equal(t, http.StatusInternalServerError, StatusOf(NewHTTPError(1, nil)))
}
