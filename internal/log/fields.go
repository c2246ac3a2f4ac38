// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package log

// Canonical field name constants for structured logging.
const (
	// Identity fields
	FieldService       = "service"
	FieldComponent     = "component"
	FieldRequestID     = "request_id"
	FieldCorrelationID = "correlation_id"
	FieldReloadID      = "reload_id"

	// Process fields
	FieldEvent    = "event"
	FieldDuration = "duration"

	// Source fields
	FieldPath       = "path"
	FieldSource     = "source"
	FieldSourceKind = "source_kind"
	FieldSection    = "section"
	FieldRemote     = "remote"
)
