// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

// Package api serves a read-only HTTP view of the current configuration.
package api

import (
	"context"
	"net/http"
	"time"

	"github.com/ManuGH/confj"
	"github.com/ManuGH/confj/internal/api/middleware"
	xglog "github.com/ManuGH/confj/internal/log"
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

// Source publishes the configuration to serve. *confj.Holder implements it.
type Source interface {
	Current() *confj.Data
}

// Reloader reloads the configuration on demand. *confj.Holder implements it.
type Reloader interface {
	Reload(ctx context.Context) error
}

// Options configures the server.
type Options struct {
	// Reloader enables POST /v1/reload when set.
	Reloader Reloader

	// TracingService names the otelhttp server spans; empty disables tracing.
	TracingService string

	// RateLimitRequests per minute per client IP; zero disables the limit.
	RateLimitRequests int
}

// Server exposes the configuration over HTTP.
type Server struct {
	source   Source
	reloader Reloader
	opts     Options
	logger   zerolog.Logger
	started  time.Time
}

// New creates a server reading from source.
func New(source Source, opts Options) *Server {
	return &Server{
		source:   source,
		reloader: opts.Reloader,
		opts:     opts,
		logger:   xglog.WithComponent("api"),
		started:  time.Now(),
	}
}

// Handler builds the router.
func (s *Server) Handler() http.Handler {
	r := middleware.NewRouter(middleware.StackConfig{
		EnableMetrics:     true,
		TracingService:    s.opts.TracingService,
		EnableLogging:     true,
		RateLimitRequests: s.opts.RateLimitRequests,
	})

	r.Get("/healthz", s.handleHealth)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/v1", func(r chi.Router) {
		r.Get("/config", s.handleConfig)
		r.Get("/config/*", s.handleQuery)
		if s.reloader != nil {
			r.With(middleware.ReloadRateLimit()).Post("/reload", s.handleReload)
		}
	})
	return r
}
