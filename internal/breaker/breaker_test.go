// Outfitter - Wardrobe Recommendation and Compatibility Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/outfitter

package breaker

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/tomtom215/outfitter/internal/metrics"
)

type payload struct{ n int }

func TestExecute_Success(t *testing.T) {
	b := New("test-success", Settings{})

	got, err := Cast[payload](b.Execute(func() (interface{}, error) {
		return &payload{n: 7}, nil
	}))
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if got.n != 7 {
		t.Errorf("payload = %d, want 7", got.n)
	}
	if v := testutil.ToFloat64(metrics.CircuitBreakerRequests.WithLabelValues("test-success", "success")); v != 1 {
		t.Errorf("success counter = %v, want 1", v)
	}
}

func TestExecute_OpensAfterFailures(t *testing.T) {
	b := New("test-open", Settings{MinRequests: 2, FailureRatio: 0.5, Timeout: time.Hour})
	boom := errors.New("boom")

	for i := 0; i < 2; i++ {
		if _, err := b.Execute(func() (interface{}, error) { return nil, boom }); !errors.Is(err, boom) {
			t.Fatalf("attempt %d: error = %v, want boom", i, err)
		}
	}
	if b.State() != "open" {
		t.Fatalf("State() = %s, want open", b.State())
	}

	_, err := b.Execute(func() (interface{}, error) { return nil, nil })
	if !IsRejected(err) {
		t.Fatalf("expected rejection while open, got %v", err)
	}
	if v := testutil.ToFloat64(metrics.CircuitBreakerState.WithLabelValues("test-open")); v != 2 {
		t.Errorf("state gauge = %v, want 2", v)
	}
}

func TestExecute_IsSuccessfulDoesNotTrip(t *testing.T) {
	notFound := errors.New("not found")
	b := New("test-classified", Settings{
		MinRequests:  2,
		FailureRatio: 0.5,
		Timeout:      time.Hour,
		IsSuccessful: func(err error) bool { return errors.Is(err, notFound) },
	})
	for i := 0; i < 5; i++ {
		if _, err := b.Execute(func() (interface{}, error) { return nil, notFound }); !errors.Is(err, notFound) {
			t.Fatalf("attempt %d: error = %v, want not found", i, err)
		}
	}
	if b.State() != "closed" {
		t.Errorf("State() = %s, want closed", b.State())
	}
	if v := testutil.ToFloat64(metrics.CircuitBreakerRequests.WithLabelValues("test-classified", "failure")); v != 0 {
		t.Errorf("failure counter = %v, want 0", v)
	}
}

func TestCast_WrongType(t *testing.T) {
	if _, err := Cast[payload]("nope", nil); err == nil {
		t.Error("expected type error")
	}
	got, err := Cast[payload](nil, nil)
	if err != nil || got != nil {
		t.Errorf("Cast(nil) = %v, %v; want nil, nil", got, err)
	}
}
