// Menurec - Restaurant Menu Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/menurec

package recommend

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/rs/zerolog"
)

// Note: This package has no dependencies on other internal packages. Metrics
// are recorded by callers from the returned Response and SnapshotInfo.

// Reasons attached to responses.
const (
	ReasonNotTrained        = "model not trained"
	ReasonUnknownRestaurant = "new/unrecognized restaurant"
)

// Engine answers prediction requests against the currently published
// Snapshot. It is safe for concurrent use.
type Engine struct {
	config *Config
	logger zerolog.Logger

	snapshot atomic.Pointer[Snapshot]

	requestCount atomic.Int64
	failureCount atomic.Int64
}

// NewEngine creates a new recommendation engine with no snapshot.
// Until Publish is called every prediction ends in the untrained guard.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewEngine(cfg *Config, logger zerolog.Logger) (*Engine, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &Engine{
		config: cfg,
		logger: logger.With().Str("component", "recommend").Logger(),
	}, nil
}

// Config returns the engine configuration.
func (e *Engine) Config() *Config {
	return e.config
}

// Publish atomically replaces the current snapshot.
func (e *Engine) Publish(s *Snapshot) {
	if s == nil {
		s = EmptySnapshot()
	}
	e.snapshot.Store(s)

	info := s.Info()
	e.logger.Info().
		Str("snapshot_id", info.ID).
		Int("rows", info.Rows).
		Int("trained", len(info.TrainedRestaurants)).
		Int("skipped", len(info.SkippedRestaurants)).
		Msg("snapshot published")
}

// Snapshot returns the current snapshot, or nil if none was published.
func (e *Engine) Snapshot() *Snapshot {
	return e.snapshot.Load()
}

// Ready reports whether a snapshot has been published.
func (e *Engine) Ready() bool {
	return e.snapshot.Load() != nil
}

// Rebuild trains a new snapshot from records and publishes it. On error the
// current snapshot stays in place.
func (e *Engine) Rebuild(ctx context.Context, records []InteractionRecord) (*Snapshot, error) {
	s, err := BuildSnapshot(ctx, records, e.config, e.logger)
	if err != nil {
		return nil, err
	}
	e.Publish(s)
	return s, nil
}

// Stats returns the number of predictions served and the number that hit a
// classifier failure.
func (e *Engine) Stats() (requests, failures int64) {
	return e.requestCount.Load(), e.failureCount.Load()
}

// tierResult is the outcome of one decision tier. ok=false passes the
// request to the next tier.
type tierResult struct {
	ok        bool
	items     []string
	reason    string
	modelType ModelType
}

// predictInput is a request after customer normalization.
type predictInput struct {
	req         Request
	customerKey string
}

// Predict runs the decision tiers in order and returns the first answer.
// It never fails: every path ends in a valid response.
//
//nolint:gocritic // hugeParam: req passed by value for immutability
func (e *Engine) Predict(req Request) *Response {
	e.requestCount.Add(1)

	s := e.snapshot.Load()
	if s == nil {
		s = EmptySnapshot()
	}
	in := predictInput{req: req, customerKey: NormalizeCustomer(req.CustomerID)}

	tiers := []func(*Snapshot, predictInput) tierResult{
		e.untrainedGuard,
		e.unknownRestaurantGuard,
		e.bundleTier,
		e.classifierTier,
	}

	var result tierResult
	for _, tier := range tiers {
		if result = tier(s, in); result.ok {
			break
		}
	}
	if !result.ok {
		// classifierTier always answers; this is unreachable.
		result = tierResult{
			items:     []string{e.config.Fallback.PlaceholderItem},
			reason:    ReasonNotTrained,
			modelType: ModelTypeFallback,
		}
	}

	e.logger.Debug().
		Str("restaurant_id", req.RestaurantID).
		Str("customer_key", in.customerKey).
		Str("model_type", string(result.modelType)).
		Strs("recommendation", result.items).
		Msg("prediction served")

	return &Response{
		RestaurantID:   req.RestaurantID,
		CustomerID:     req.CustomerID,
		Recommendation: result.items,
		Reason:         result.reason,
		ModelType:      result.modelType,
	}
}

// untrainedGuard answers when no restaurant has a model.
func (e *Engine) untrainedGuard(s *Snapshot, _ predictInput) tierResult {
	if s.bank.Len() > 0 {
		return tierResult{}
	}
	return tierResult{
		ok:        true,
		items:     []string{e.config.Fallback.PlaceholderItem},
		reason:    ReasonNotTrained,
		modelType: ModelTypeFallback,
	}
}

// unknownRestaurantGuard answers when the restaurant has no model.
func (e *Engine) unknownRestaurantGuard(s *Snapshot, in predictInput) tierResult {
	if _, ok := s.bank.Get(in.req.RestaurantID); ok {
		return tierResult{}
	}
	return tierResult{
		ok:        true,
		items:     []string{e.config.Fallback.PlaceholderItem},
		reason:    ReasonUnknownRestaurant,
		modelType: ModelTypeFallback,
	}
}

// bundleTier replays the customer's habitual order. Anonymous customers
// share UnknownCustomerKey, so their pooled history is never replayed.
func (e *Engine) bundleTier(s *Snapshot, in predictInput) tierResult {
	if in.customerKey == UnknownCustomerKey {
		return tierResult{}
	}
	items, ok := s.history.RecurrentBundle(in.req.RestaurantID, in.customerKey, e.config.Bundle.MinOrders)
	if !ok {
		return tierResult{}
	}
	return tierResult{
		ok:        true,
		items:     items,
		reason:    fmt.Sprintf("your usual order at %s", in.req.RestaurantID),
		modelType: ModelTypeBundle,
	}
}

// classifierTier queries the restaurant's model, falling back to popularity
// for unknown customers and classifier failures.
func (e *Engine) classifierTier(s *Snapshot, in predictInput) tierResult {
	restaurantID := in.req.RestaurantID
	model, ok := s.bank.Get(restaurantID)
	if !ok {
		return tierResult{}
	}

	popular := func(reason string, modelType ModelType) tierResult {
		return tierResult{
			ok:        true,
			items:     s.popularity.TopItems(restaurantID, e.config.TopK),
			reason:    reason,
			modelType: modelType,
		}
	}
	newCustomer := func() tierResult {
		return popular(fmt.Sprintf("new customer at %s: popular items", restaurantID), ModelTypeHeuristic)
	}

	if in.customerKey == UnknownCustomerKey || !model.KnowsCustomer(in.customerKey) {
		return newCustomer()
	}

	items, err := model.PredictTopK(in.customerKey, in.req.TicketAverage, in.req.Hour, in.req.DayOfWeek, e.config.TopK)
	if err == nil {
		return tierResult{
			ok:        true,
			items:     items,
			reason:    fmt.Sprintf("based on your varied preferences at %s", restaurantID),
			modelType: ModelTypeNeuralNetwork,
		}
	}

	if errors.Is(err, ErrUnknownCategory) {
		return newCustomer()
	}

	class := FailureInternal
	var failure *PredictionFailure
	if errors.As(err, &failure) {
		class = failure.Class
	}
	e.failureCount.Add(1)
	e.logger.Warn().
		Err(err).
		Str("restaurant_id", restaurantID).
		Str("customer_key", in.customerKey).
		Str("failure_class", class).
		Msg("classifier failed, serving popular items")

	return popular(fmt.Sprintf("prediction failed (%s): popular items at %s", class, restaurantID), ModelTypeErrorFallback)
}
