// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package metrics

import (
	"errors"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObserveLoad(t *testing.T) {
	before := testutil.ToFloat64(loadsTotal.WithLabelValues("file", "failure"))
	ObserveLoad("file", 3*time.Millisecond, errors.New("boom"))
	after := testutil.ToFloat64(loadsTotal.WithLabelValues("file", "failure"))
	assert.Equal(t, before+1, after)

	before = testutil.ToFloat64(loadsTotal.WithLabelValues("dir", "success"))
	ObserveLoad("dir", time.Millisecond, nil)
	assert.Equal(t, before+1, testutil.ToFloat64(loadsTotal.WithLabelValues("dir", "success")))
}

func TestRecordSections(t *testing.T) {
	RecordSections(4)
	assert.Equal(t, 4.0, testutil.ToFloat64(sectionsLoaded))
}

func TestObserveReload(t *testing.T) {
	ObserveReload(nil)
	assert.Greater(t, testutil.ToFloat64(lastReloadTimestamp), 0.0)

	before := testutil.ToFloat64(reloadsTotal.WithLabelValues("failure"))
	ObserveReload(errors.New("bad json"))
	assert.Equal(t, before+1, testutil.ToFloat64(reloadsTotal.WithLabelValues("failure")))
}

func TestObserveValidation(t *testing.T) {
	for _, o := range []string{"valid", "invalid", "error"} {
		before := testutil.ToFloat64(validationsTotal.WithLabelValues(o))
		ObserveValidation(o)
		assert.Equal(t, before+1, testutil.ToFloat64(validationsTotal.WithLabelValues(o)))
	}
}

func TestPromhttpExposure(t *testing.T) {
	ObserveLoad("object", time.Millisecond, nil)

	rec := httptest.NewRecorder()
	promhttp.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	require.Equal(t, 200, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), "confj_loads_total"))
}
