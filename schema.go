// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package confj

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/ManuGH/confj/internal/metrics"
	"github.com/ManuGH/confj/internal/telemetry"
	"github.com/xeipuuv/gojsonschema"
)

// Violation is one failed schema constraint.
type Violation struct {
	Field       string // "(root)" or a dotted path such as "db.port"
	Type        string // constraint kind, e.g. "invalid_type", "required"
	Description string
}

// ValidationError is returned when a document does not satisfy a schema.
// It is not part of the ErrConfig taxonomy.
type ValidationError struct {
	Violations []Violation
}

func (e *ValidationError) Error() string {
	if len(e.Violations) == 0 {
		return "schema validation failed"
	}
	parts := make([]string, 0, len(e.Violations))
	for _, v := range e.Violations {
		parts = append(parts, v.Field+": "+v.Description)
	}
	return "schema validation failed: " + strings.Join(parts, "; ")
}

// Schema is a compiled JSON Schema (draft 4, 6 or 7).
type Schema struct {
	compiled *gojsonschema.Schema
	constant *bool // boolean schema: true accepts everything, false nothing
}

// CompileSchema compiles schema. It accepts a Go value, a *Data, raw JSON
// ([]byte, json.RawMessage or string) or a boolean schema.
func CompileSchema(schema any) (*Schema, error) {
	var loader gojsonschema.JSONLoader
	switch s := schema.(type) {
	case bool:
		return &Schema{constant: &s}, nil
	case []byte:
		loader = gojsonschema.NewBytesLoader(s)
	case json.RawMessage:
		loader = gojsonschema.NewBytesLoader(s)
	case string:
		loader = gojsonschema.NewStringLoader(s)
	default:
		plain, err := Normalize(schema)
		if err != nil {
			return nil, configError("compile_schema", "cannot use %T as schema: %v", schema, err)
		}
		if b, ok := plain.(bool); ok {
			return &Schema{constant: &b}, nil
		}
		loader = gojsonschema.NewGoLoader(plain)
	}

	compiled, err := gojsonschema.NewSchema(loader)
	if err != nil {
		return nil, configError("compile_schema", "invalid schema: %v", err)
	}
	return &Schema{compiled: compiled}, nil
}

// Validate checks v against the schema. Any *Data inside v is unwrapped to
// its raw value first, so wrappers validate exactly like plain mappings.
func (s *Schema) Validate(v any) error {
	if s.constant != nil {
		if *s.constant {
			return nil
		}
		return &ValidationError{Violations: []Violation{{
			Field:       "(root)",
			Type:        "false_schema",
			Description: "schema rejects every document",
		}}}
	}

	plain, err := Normalize(v)
	if err != nil {
		return configError("validate", "cannot validate %T: %v", v, err)
	}
	result, err := s.compiled.Validate(gojsonschema.NewGoLoader(plain))
	if err != nil {
		return configError("validate", "validator failed: %v", err)
	}
	if result.Valid() {
		return nil
	}

	verr := &ValidationError{}
	for _, desc := range result.Errors() {
		verr.Violations = append(verr.Violations, Violation{
			Field:       desc.Field(),
			Type:        desc.Type(),
			Description: desc.Description(),
		})
	}
	return verr
}

// Validate checks the data against schema. An invalid document returns
// (false, nil) unless raise is set, in which case the *ValidationError is
// returned. A schema that cannot be compiled is always an error.
func (d *Data) Validate(schema any, raise bool) (bool, error) {
	_, span := telemetry.Start(context.Background(), "config.validate")

	s, err := CompileSchema(schema)
	if err == nil {
		err = s.Validate(d)
	}

	var verr *ValidationError
	switch {
	case err == nil:
		metrics.ObserveValidation("valid")
		span.SetAttributes(telemetry.ValidationAttributes(true, 0)...)
		telemetry.End(span, nil)
		return true, nil
	case errors.As(err, &verr):
		metrics.ObserveValidation("invalid")
		span.SetAttributes(telemetry.ValidationAttributes(false, len(verr.Violations))...)
		telemetry.End(span, nil)
		if raise {
			return false, err
		}
		return false, nil
	default:
		metrics.ObserveValidation("error")
		telemetry.End(span, err)
		return false, fmt.Errorf("validate config: %w", err)
	}
}
