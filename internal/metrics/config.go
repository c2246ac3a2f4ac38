// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

// Package metrics exposes Prometheus collectors for config loading.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	loadsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "confj_loads_total",
		Help: "Config loads by source kind and outcome",
	}, []string{"kind", "outcome"}) // kind=file|dir|object|remote, outcome=success|failure

	loadDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "confj_load_duration_seconds",
		Help:    "Time spent loading config by source kind",
		Buckets: prometheus.ExponentialBuckets(0.0005, 4, 8),
	}, []string{"kind"})

	sectionsLoaded = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "confj_sections_loaded",
		Help: "Number of subsections merged by the last directory load",
	})

	reloadsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "confj_reloads_total",
		Help: "Holder reloads by outcome",
	}, []string{"outcome"})

	lastReloadTimestamp = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "confj_last_reload_timestamp_seconds",
		Help: "Unix time of the last successful reload",
	})

	validationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "confj_validations_total",
		Help: "Schema validations by outcome",
	}, []string{"outcome"}) // outcome=valid|invalid|error
)

func outcome(err error) string {
	if err != nil {
		return "failure"
	}
	return "success"
}

// ObserveLoad records one load attempt.
func ObserveLoad(kind string, d time.Duration, err error) {
	loadsTotal.WithLabelValues(kind, outcome(err)).Inc()
	loadDuration.WithLabelValues(kind).Observe(d.Seconds())
}

// RecordSections records how many subsections a directory load produced.
func RecordSections(n int) { sectionsLoaded.Set(float64(n)) }

// ObserveReload records one holder reload.
func ObserveReload(err error) {
	reloadsTotal.WithLabelValues(outcome(err)).Inc()
	if err == nil {
		lastReloadTimestamp.SetToCurrentTime()
	}
}

// ObserveValidation records one schema validation. outcome is valid, invalid or error.
func ObserveValidation(outcome string) { validationsTotal.WithLabelValues(outcome).Inc() }
