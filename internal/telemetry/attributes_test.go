// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package telemetry

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.opentelemetry.io/otel/attribute"
)

func attrMap(attrs []attribute.KeyValue) map[string]attribute.Value {
	out := make(map[string]attribute.Value, len(attrs))
	for _, a := range attrs {
		out[string(a.Key)] = a.Value
	}
	return out
}

func TestSourceAttributes(t *testing.T) {
	tests := []struct {
		name    string
		kind    string
		path    string
		wantLen int
	}{
		{name: "all", kind: "dir", path: "/etc/app", wantLen: 2},
		{name: "kind only", kind: "object", wantLen: 1},
		{name: "none", wantLen: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SourceAttributes(tt.kind, tt.path)
			assert.Len(t, got, tt.wantLen)
		})
	}
}

func TestValidationAttributes(t *testing.T) {
	got := attrMap(ValidationAttributes(false, 3))
	assert.False(t, got[ValidKey].AsBool())
	assert.Equal(t, int64(3), got[ViolationsKey].AsInt64())
}

func TestErrorAttributes(t *testing.T) {
	got := attrMap(ErrorAttributes(errors.New("boom")))
	assert.True(t, got[ErrorKey].AsBool())
	assert.Equal(t, "*errors.errorString", got[ErrorTypeKey].AsString())
}
