// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/ManuGH/confj"
	"github.com/ManuGH/confj/internal/api"
	xglog "github.com/ManuGH/confj/internal/log"
	"github.com/ManuGH/confj/internal/telemetry"
)

type serveFlags struct {
	listen       string
	watch        bool
	debounce     time.Duration
	rateLimit    int
	otelEndpoint string
	otelExporter string
	otelSampling float64
	otelInsecure bool
	otelEnv      string
}

func runServe(ctx context.Context, args []string, _ io.Writer, stderr io.Writer) error {
	var sf sourceFlags
	var vf serveFlags
	fs := newFlagSet("serve", stderr)
	sf.register(fs)
	fs.StringVar(&vf.listen, "listen", ":8080", "HTTP listen address")
	fs.BoolVar(&vf.watch, "watch", false, "reload when the source changes on disk")
	fs.DurationVar(&vf.debounce, "debounce", confj.DefaultDebounce, "delay between a file change and the reload")
	fs.IntVar(&vf.rateLimit, "rate-limit", 600, "requests per minute per client IP (0 disables)")
	fs.StringVar(&vf.otelEndpoint, "otel-endpoint", "", "OTLP collector endpoint; empty disables tracing")
	fs.StringVar(&vf.otelExporter, "otel-exporter", "grpc", "OTLP exporter: grpc or http")
	fs.Float64Var(&vf.otelSampling, "otel-sampling", 1.0, "trace sampling rate (0.0 to 1.0)")
	fs.BoolVar(&vf.otelInsecure, "otel-insecure", true, "send spans without TLS")
	fs.StringVar(&vf.otelEnv, "otel-env", "", "deployment environment recorded on spans")
	if err := parse(fs, args); err != nil {
		return err
	}
	if vf.watch && sf.remote != "" {
		return fmt.Errorf("%w: -watch needs a file or directory source", errUsage)
	}
	sf.configureLogging(stderr)
	logger := xglog.WithComponent("serve")

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	sourceKind := "path"
	if sf.remote != "" {
		sourceKind = sf.remote
	}
	provider, err := telemetry.NewProvider(ctx, telemetry.Config{
		Enabled:        vf.otelEndpoint != "",
		ServiceVersion: Version,
		Environment:    vf.otelEnv,
		Exporter:       vf.otelExporter,
		Endpoint:       vf.otelEndpoint,
		Insecure:       vf.otelInsecure,
		SamplingRate:   vf.otelSampling,
		SourceKind:     sourceKind,
		Source:         sf.source,
	})
	if err != nil {
		return fmt.Errorf("init tracing: %w", err)
	}
	defer func() { _ = provider.Shutdown(context.Background()) }()

	cfg, closeFn, err := sf.load(ctx)
	defer closeFn()
	if err != nil {
		return err
	}

	opts := api.Options{RateLimitRequests: vf.rateLimit}
	if vf.otelEndpoint != "" {
		opts.TracingService = "confj"
	}

	var src api.Source
	if sf.remote == "" {
		holder := confj.NewHolder(cfg, sf.source)
		holder.SetDebounce(vf.debounce)
		opts.Reloader = holder
		if vf.watch {
			if err := holder.StartWatcher(ctx); err != nil {
				return err
			}
			defer holder.Stop()
		}
		src = holder
	} else {
		src = staticSource{data: &cfg.Data}
	}

	srv := &http.Server{
		Addr:              vf.listen,
		Handler:           api.New(src, opts).Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info().
			Str(xglog.FieldEvent, "server.listening").
			Str("addr", vf.listen).
			Msg("serving configuration")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	logger.Info().Str(xglog.FieldEvent, "server.shutdown").Msg("shutting down")
	return srv.Shutdown(shutdownCtx)
}

// staticSource serves a document that is never reloaded.
type staticSource struct {
	data *confj.Data
}

func (s staticSource) Current() *confj.Data { return s.data }
