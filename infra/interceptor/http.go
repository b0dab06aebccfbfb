package interceptor

import (
	"fmt"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/kilianp07/sentrybridge/core/monitoring"
)

// Option configures the HTTP interceptors.
type Option func(*options)

type options struct {
	policy Policy
}

// WithPolicy replaces ShouldReport.
func WithPolicy(p Policy) Option {
	return func(o *options) { o.policy = p }
}

func newOptions(opts []Option) options {
	o := options{policy: ShouldReport}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// Middleware recovers handler panics, reports error values and answers 500.
// It never re-panics. It can be passed to mux.Router.Use.
func Middleware(p *monitoring.Pipeline, opts ...Option) mux.MiddlewareFunc {
	o := newOptions(opts)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sw := &statusWriter{ResponseWriter: w}
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				if rec == http.ErrAbortHandler {
					panic(rec)
				}
				if err, ok := rec.(error); ok && o.policy(err) {
					p.HandlePanic(r.Context(), err, requestExtra(r))
				}
				if !sw.wroteHeader {
					http.Error(sw, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
				}
			}()
			next.ServeHTTP(sw, r)
		})
	}
}

// HandlerFunc is an HTTP handler returning an error.
type HandlerFunc func(w http.ResponseWriter, r *http.Request) error

// Handle adapts fn to http.Handler. Returned errors are reported when the
// policy allows it and answered with their status.
func Handle(p *monitoring.Pipeline, fn HandlerFunc, opts ...Option) http.Handler {
	o := newOptions(opts)
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sw := &statusWriter{ResponseWriter: w}
		err := fn(sw, r)
		if err == nil {
			return
		}
		if o.policy(err) {
			p.HandleException(r.Context(), err, requestExtra(r))
		}
		if !sw.wroteHeader {
			status := StatusOf(err)
			http.Error(sw, http.StatusText(status), status)
		}
	})
}

func requestExtra(r *http.Request) map[string]any {
	extra := map[string]any{
		"method": r.Method,
		"url":    r.URL.String(),
	}
	if route := mux.CurrentRoute(r); route != nil {
		if tpl, err := route.GetPathTemplate(); err == nil {
			extra["route"] = tpl
		}
		if name := route.GetName(); name != "" {
			extra["route_name"] = name
		}
	}
	if len(mux.Vars(r)) > 0 {
		extra["vars"] = fmt.Sprint(mux.Vars(r))
	}
	return extra
}

type statusWriter struct {
	http.ResponseWriter
	wroteHeader bool
}

func (w *statusWriter) WriteHeader(code int) {
	w.wroteHeader = true
	w.ResponseWriter.WriteHeader(code)
}

func (w *statusWriter) Write(b []byte) (int, error) {
	w.wroteHeader = true
	return w.ResponseWriter.Write(b)
}
