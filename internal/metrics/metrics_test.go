// Outfitter - Wardrobe Recommendation and Compatibility Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/outfitter

package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRecordModelLoad(t *testing.T) {
	before := testutil.ToFloat64(ModelLoadAttempts.WithLabelValues("local", "success"))
	RecordModelLoad("local", "success", 150*time.Millisecond)
	RecordModelLoad("registry", "miss", 0)

	if got := testutil.ToFloat64(ModelLoadAttempts.WithLabelValues("local", "success")); got != before+1 {
		t.Errorf("local success attempts = %v, want %v", got, before+1)
	}
	if got := testutil.ToFloat64(ModelLoadAttempts.WithLabelValues("registry", "miss")); got < 1 {
		t.Errorf("registry miss attempts = %v, want >= 1", got)
	}
}

func TestRecordModelKeys(t *testing.T) {
	RecordModelKeys(20, 18, 2, 1)

	if got := testutil.ToFloat64(ModelKeys.WithLabelValues("missing")); got != 2 {
		t.Errorf("missing gauge = %v, want 2", got)
	}
	if got := testutil.ToFloat64(ModelLoaded); got != 1 {
		t.Errorf("loaded gauge = %v, want 1", got)
	}
}

func TestRecordScoreBatch(t *testing.T) {
	before := testutil.ToFloat64(PairsScored)
	RecordScoreBatch(25, 3*time.Millisecond)
	if got := testutil.ToFloat64(PairsScored); got != before+25 {
		t.Errorf("pairs scored = %v, want %v", got, before+25)
	}
}

func TestRecordAPIRequest(t *testing.T) {
	before := testutil.ToFloat64(APIRequestsTotal.WithLabelValues("GET", "/api/v1/recommend", "200"))
	RecordAPIRequest("GET", "/api/v1/recommend", "200", 12*time.Millisecond)
	if got := testutil.ToFloat64(APIRequestsTotal.WithLabelValues("GET", "/api/v1/recommend", "200")); got != before+1 {
		t.Errorf("requests = %v, want %v", got, before+1)
	}
}
