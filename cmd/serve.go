package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/kilianp07/sentrybridge/app"
	"github.com/kilianp07/sentrybridge/auth"
	coremon "github.com/kilianp07/sentrybridge/core/monitoring"
	"github.com/kilianp07/sentrybridge/infra/interceptor"
	"github.com/kilianp07/sentrybridge/infra/logger"
)

func newServeCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve HTTP with crash reporting enabled",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			cfg, err := opts.load()
			if err != nil {
				return err
			}
			svc, err := app.New(ctx, cfg)
			if err != nil {
				return err
			}
			defer func() {
				if err := svc.Close(); err != nil {
					logger.New("main").Errorf("service close: %v", err)
				}
			}()
			svc.StartMetricsServer(ctx)
			serve := interceptor.Command(svc.Pipeline, func(*cobra.Command, []string) error {
				return listen(ctx, cfg.Server.Addr, newRouter(svc))
			})
			return serve(cmd, args)
		},
	}
}

func newRouter(svc *app.Service) *mux.Router {
	r := mux.NewRouter()
	r.Use(mux.MiddlewareFunc(auth.Middleware(auth.HeaderExtractor(svc.Config.Server.AccountHeader))))
	r.Use(interceptor.Middleware(svc.Pipeline))

	r.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	}).Methods(http.MethodGet)
	r.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)

	debug := r.PathPrefix("/debug/sentry").Subrouter()
	debug.HandleFunc("/panic", func(http.ResponseWriter, *http.Request) {
		panic(coremon.NewError(TestExceptionCode, "This is a sentry test exception."))
	}).Name("sentry-panic")
	debug.Handle("/message", interceptor.Handle(svc.Pipeline, func(w http.ResponseWriter, r *http.Request) error {
		msg := r.URL.Query().Get("text")
		if msg == "" {
			return interceptor.NewHTTPError(http.StatusBadRequest, errors.New("text is required"))
		}
		level := coremon.Level(r.URL.Query().Get("level"))
		svc.Pipeline.SendMessage(r.Context(), msg, level, nil, map[string]string{"source": "debug"})
		w.WriteHeader(http.StatusAccepted)
		return nil
	})).Methods(http.MethodPost)
	return r
}

func listen(ctx context.Context, addr string, h http.Handler) error {
	log := logger.New("http")
	srv := &http.Server{Addr: addr, Handler: h, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Warnf("http shutdown: %v", err)
		}
	}()
	log.Infof("listening on %s", addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("http server: %w", err)
	}
	return nil
}
