// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package middleware

import (
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Limiter scopes.
const (
	ScopeAPI    = "api"
	ScopeReload = "reload"
)

var rateLimitedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "confj_http_rate_limited_total",
	Help: "Requests rejected by a rate limiter",
}, []string{"scope"})

// RateLimitConfig configures one sliding-window limiter.
type RateLimitConfig struct {
	// Scope names the limiter in metrics and error responses; empty means ScopeAPI.
	Scope        string
	RequestLimit int
	WindowSize   time.Duration
	// KeyFunc defaults to the client IP.
	KeyFunc func(r *http.Request) (string, error)
}

// RateLimit limits requests per key with httprate. Rejected requests get a
// 429 JSON error with Retry-After set to the window in whole seconds.
func RateLimit(cfg RateLimitConfig) func(http.Handler) http.Handler {
	scope := cfg.Scope
	if scope == "" {
		scope = ScopeAPI
	}
	keyFunc := cfg.KeyFunc
	if keyFunc == nil {
		keyFunc = httprate.KeyByIP
	}
	retryAfter := strconv.Itoa(retryAfterSeconds(cfg.WindowSize))
	body, _ := json.Marshal(map[string]string{
		"error":  "rate_limit_exceeded",
		"detail": fmt.Sprintf("too many %s requests, limit is %d per %s", scope, cfg.RequestLimit, cfg.WindowSize),
	})

	return httprate.Limit(
		cfg.RequestLimit,
		cfg.WindowSize,
		httprate.WithKeyFuncs(keyFunc),
		httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
			rateLimitedTotal.WithLabelValues(scope).Inc()
			w.Header().Set("Content-Type", "application/json")
			w.Header().Set("Retry-After", retryAfter)
			w.WriteHeader(http.StatusTooManyRequests)
			_, _ = w.Write(append(body, '\n'))
		}),
	)
}

func retryAfterSeconds(window time.Duration) int {
	return max(1, int(math.Ceil(window.Seconds())))
}

// ReloadRateLimit allows 10 reloads per minute per client IP.
func ReloadRateLimit() func(http.Handler) http.Handler {
	return RateLimit(RateLimitConfig{
		Scope:        ScopeReload,
		RequestLimit: 10,
		WindowSize:   time.Minute,
	})
}
