// Menurec - Restaurant Menu Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/menurec

package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/tomtom215/menurec/internal/ingest"
	"github.com/tomtom215/menurec/internal/metrics"
)

// BreakerConfig tunes the circuit breaker around an order source.
type BreakerConfig struct {
	// Name labels the breaker in logs and metrics.
	Name string

	// FailureThreshold is the number of consecutive failed loads that
	// opens the circuit. Default: 3
	FailureThreshold uint32

	// OpenTimeout is how long the circuit stays open before one trial
	// load is let through. Default: 2m
	OpenTimeout time.Duration
}

func (c BreakerConfig) withDefaults() BreakerConfig {
	if c.Name == "" {
		c.Name = "order-source"
	}
	if c.FailureThreshold == 0 {
		c.FailureThreshold = 3
	}
	if c.OpenTimeout <= 0 {
		c.OpenTimeout = 2 * time.Minute
	}
	return c
}

// BreakerSource guards an ingest.OrderSource with a circuit breaker.
// Reloads are rare, so the breaker trips on consecutive failures rather
// than on a failure ratio over a window.
type BreakerSource struct {
	source ingest.OrderSource
	cb     *gobreaker.CircuitBreaker[[]ingest.OrderRow]
	name   string
	logger zerolog.Logger
}

// NewBreakerSource wraps source.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewBreakerSource(source ingest.OrderSource, cfg BreakerConfig, logger zerolog.Logger) *BreakerSource {
	cfg = cfg.withDefaults()
	logger = logger.With().Str("component", "circuit-breaker").Str("breaker", cfg.Name).Logger()

	metrics.CircuitBreakerState.WithLabelValues(cfg.Name).Set(0)
	metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(cfg.Name).Set(0)

	threshold := cfg.FailureThreshold
	cb := gobreaker.NewCircuitBreaker[[]ingest.OrderRow](gobreaker.Settings{
		Name:        cfg.Name,
		MaxRequests: 1,
		Timeout:     cfg.OpenTimeout,

		ReadyToTrip: func(counts gobreaker.Counts) bool {
			shouldTrip := counts.ConsecutiveFailures >= threshold
			if shouldTrip {
				logger.Warn().Uint32("consecutive_failures", counts.ConsecutiveFailures).Msg("[CIRCUIT BREAKER] Opening circuit")
			}
			return shouldTrip
		},

		// A cancelled reload says nothing about the upstream's health.
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, context.Canceled)
		},

		OnStateChange: func(name string, from, to gobreaker.State) {
			fromStr, toStr := stateToString(from), stateToString(to)
			logger.Info().Str("from", fromStr).Str("to", toStr).Msg("[CIRCUIT BREAKER] State transition")

			metrics.CircuitBreakerState.WithLabelValues(name).Set(stateToFloat(to))
			metrics.CircuitBreakerTransitions.WithLabelValues(name, fromStr, toStr).Inc()
			if to == gobreaker.StateClosed {
				metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(name).Set(0)
			}
		},
	})

	return &BreakerSource{source: source, cb: cb, name: cfg.Name, logger: logger}
}

// Name implements ingest.OrderSource.
func (b *BreakerSource) Name() string {
	return b.source.Name()
}

// State returns the breaker state as "closed", "half-open" or "open".
func (b *BreakerSource) State() string {
	return stateToString(b.cb.State())
}

// LoadOrders implements ingest.OrderSource. When the circuit is open the
// call fails immediately with ErrSourceUnavailable.
func (b *BreakerSource) LoadOrders(ctx context.Context) ([]ingest.OrderRow, error) {
	orders, err := b.cb.Execute(func() ([]ingest.OrderRow, error) {
		return b.source.LoadOrders(ctx)
	})

	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			metrics.CircuitBreakerRequests.WithLabelValues(b.name, "rejected").Inc()
			b.logger.Warn().Err(err).Msg("[CIRCUIT BREAKER] Request rejected")
			return nil, fmt.Errorf("%w: %w", ErrSourceUnavailable, err)
		}
		metrics.CircuitBreakerRequests.WithLabelValues(b.name, "failure").Inc()
		metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(b.name).Set(float64(b.cb.Counts().ConsecutiveFailures))
		return nil, err
	}

	metrics.CircuitBreakerRequests.WithLabelValues(b.name, "success").Inc()
	metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(b.name).Set(0)
	return orders, nil
}

// stateToFloat maps breaker states onto the circuit_breaker_state gauge.
func stateToFloat(state gobreaker.State) float64 {
	switch state {
	case gobreaker.StateClosed:
		return 0
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return -1
	}
}

func stateToString(state gobreaker.State) string {
	switch state {
	case gobreaker.StateClosed:
		return "closed"
	case gobreaker.StateHalfOpen:
		return "half-open"
	case gobreaker.StateOpen:
		return "open"
	default:
		return "unknown"
	}
}
