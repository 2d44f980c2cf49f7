// Menurec - Restaurant Menu Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/menurec

package database

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"

	"github.com/tomtom215/menurec/internal/ingest"
	"github.com/tomtom215/menurec/internal/metrics"
)

// flakySource fails while failing is set.
type flakySource struct {
	mu      sync.Mutex
	failing bool
	err     error
	calls   int
}

func (f *flakySource) Name() string { return "flaky" }

func (f *flakySource) LoadOrders(ctx context.Context) ([]ingest.OrderRow, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.failing {
		return nil, f.err
	}
	return []ingest.OrderRow{{OrderID: "1", RestaurantID: "R1"}}, nil
}

func (f *flakySource) setFailing(failing bool) {
	f.mu.Lock()
	f.failing = failing
	f.mu.Unlock()
}

func (f *flakySource) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func TestBreakerSource_OpensAndRecovers(t *testing.T) {
	t.Parallel()

	upstream := &flakySource{failing: true, err: errors.New("connection refused")}
	b := NewBreakerSource(upstream, BreakerConfig{
		Name:             "test-opens-recovers",
		FailureThreshold: 2,
		OpenTimeout:      50 * time.Millisecond,
	}, zerolog.Nop())

	for i := 0; i < 2; i++ {
		if _, err := b.LoadOrders(context.Background()); err == nil {
			t.Fatalf("call %d: error = nil", i)
		}
	}
	if b.State() != "open" {
		t.Fatalf("State() = %q after 2 failures, want open", b.State())
	}

	_, err := b.LoadOrders(context.Background())
	if !errors.Is(err, ErrSourceUnavailable) {
		t.Errorf("open circuit error = %v, want ErrSourceUnavailable", err)
	}
	if upstream.callCount() != 2 {
		t.Errorf("upstream called %d times, want 2 (open circuit must not call through)", upstream.callCount())
	}
	if got := testutil.ToFloat64(metrics.CircuitBreakerState.WithLabelValues("test-opens-recovers")); got != 2 {
		t.Errorf("state gauge = %v, want 2", got)
	}

	upstream.setFailing(false)
	time.Sleep(80 * time.Millisecond)

	orders, err := b.LoadOrders(context.Background())
	if err != nil {
		t.Fatalf("trial call error = %v", err)
	}
	if len(orders) != 1 {
		t.Errorf("orders = %v", orders)
	}
	if b.State() != "closed" {
		t.Errorf("State() = %q after successful trial, want closed", b.State())
	}
	if got := testutil.ToFloat64(metrics.CircuitBreakerTransitions.WithLabelValues("test-opens-recovers", "closed", "open")); got != 1 {
		t.Errorf("closed->open transitions = %v, want 1", got)
	}
}

func TestBreakerSource_CancelledLoadDoesNotTrip(t *testing.T) {
	t.Parallel()

	upstream := &flakySource{failing: true, err: context.Canceled}
	b := NewBreakerSource(upstream, BreakerConfig{Name: "test-cancelled", FailureThreshold: 1}, zerolog.Nop())

	for i := 0; i < 3; i++ {
		if _, err := b.LoadOrders(context.Background()); !errors.Is(err, context.Canceled) {
			t.Fatalf("error = %v, want context.Canceled", err)
		}
	}
	if b.State() != "closed" {
		t.Errorf("State() = %q, want closed", b.State())
	}
}

func TestBreakerConfig_Defaults(t *testing.T) {
	t.Parallel()

	cfg := BreakerConfig{}.withDefaults()
	if cfg.Name != "order-source" || cfg.FailureThreshold != 3 || cfg.OpenTimeout != 2*time.Minute {
		t.Errorf("withDefaults() = %+v", cfg)
	}
	b := NewBreakerSource(&flakySource{}, BreakerConfig{Name: "test-name"}, zerolog.Nop())
	if b.Name() != "flaky" {
		t.Errorf("Name() = %q, want wrapped source name", b.Name())
	}
}
