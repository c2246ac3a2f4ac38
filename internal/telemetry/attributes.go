// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package telemetry

import (
	"fmt"

	"go.opentelemetry.io/otel/attribute"
)

// Common attribute keys for consistent tracing.
const (
	// Config source attributes
	SourcePathKey = "config.source.path"
	SourceKindKey = "config.source.kind" // file|dir|object|remote
	SectionsKey   = "config.sections"
	RemoteKey     = "config.remote"

	// Validation attributes
	ValidKey      = "config.valid"
	ViolationsKey = "config.violations"

	// Error attributes
	ErrorKey     = "error"
	ErrorTypeKey = "error.type"
)

// SourceAttributes describes the config source being loaded. Empty values are skipped.
func SourceAttributes(kind, path string) []attribute.KeyValue {
	attrs := make([]attribute.KeyValue, 0, 2)
	if kind != "" {
		attrs = append(attrs, attribute.String(SourceKindKey, kind))
	}
	if path != "" {
		attrs = append(attrs, attribute.String(SourcePathKey, path))
	}
	return attrs
}

// ValidationAttributes describes a schema validation outcome.
func ValidationAttributes(valid bool, violations int) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.Bool(ValidKey, valid),
		attribute.Int(ViolationsKey, violations),
	}
}

// ErrorAttributes creates error-related span attributes.
func ErrorAttributes(err error) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.Bool(ErrorKey, true),
		attribute.String(ErrorTypeKey, fmt.Sprintf("%T", err)),
	}
}
