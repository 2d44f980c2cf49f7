// Menurec - Restaurant Menu Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/menurec

package recommend

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Model is the trained classifier for one restaurant together with its
// closed customer and item vocabularies.
type Model struct {
	restaurantID string
	customers    *Encoder
	items        *Encoder
	net          *network
	rows         int
	trainTime    time.Duration
}

// ModelInfo summarizes a trained model for status endpoints and metrics.
type ModelInfo struct {
	RestaurantID  string        `json:"restaurant_id"`
	Customers     int           `json:"customers"`
	Items         int           `json:"items"`
	Rows          int           `json:"rows"`
	Epochs        int           `json:"epochs"`
	Loss          float64       `json:"loss"`
	TrainDuration time.Duration `json:"train_duration"`
}

// RestaurantID returns the restaurant the model was trained for.
func (m *Model) RestaurantID() string {
	return m.restaurantID
}

// KnowsCustomer reports whether the customer key is in the trained vocabulary.
func (m *Model) KnowsCustomer(customerKey string) bool {
	return m.customers.Contains(customerKey)
}

// Info returns a summary of the model.
func (m *Model) Info() ModelInfo {
	return ModelInfo{
		RestaurantID:  m.restaurantID,
		Customers:     m.customers.Len(),
		Items:         m.items.Len(),
		Rows:          m.rows,
		Epochs:        m.net.epochs,
		Loss:          m.net.loss,
		TrainDuration: m.trainTime,
	}
}

// PredictTopK returns the k most probable items for the customer in the
// given context, most probable first. Ties keep item encoding order.
//
// An unknown customer yields an *UnknownCategoryError. Numeric faults yield a
// *PredictionFailure. The method never panics.
func (m *Model) PredictTopK(customerKey string, ticket float64, hour, day, k int) (items []string, err error) {
	defer func() {
		if r := recover(); r != nil {
			items = nil
			err = &PredictionFailure{Class: FailureInternal, Cause: fmt.Errorf("panic: %v", r)}
		}
	}()

	code, err := m.customers.Encode(customerKey)
	if err != nil {
		return nil, err
	}

	features := []float64{float64(code), ticket, float64(hour), float64(day)}
	for _, v := range features {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, &PredictionFailure{
				Class: FailureNonFiniteInput,
				Cause: fmt.Errorf("feature vector %v", features),
			}
		}
	}

	probs := m.net.predictProba(features)
	if len(probs) != m.items.Len() {
		return nil, &PredictionFailure{
			Class: FailureEncoding,
			Cause: fmt.Errorf("classifier produced %d classes, item vocabulary has %d", len(probs), m.items.Len()),
		}
	}
	for i, p := range probs {
		if math.IsNaN(p) || math.IsInf(p, 0) {
			return nil, &PredictionFailure{
				Class: FailureNonFiniteOutput,
				Cause: fmt.Errorf("probability of class %d is %v", i, p),
			}
		}
	}

	ranked := make([]int, len(probs))
	for i := range ranked {
		ranked[i] = i
	}
	sort.SliceStable(ranked, func(a, b int) bool {
		return probs[ranked[a]] > probs[ranked[b]]
	})

	if k <= 0 || k > len(ranked) {
		k = len(ranked)
	}
	items = make([]string, 0, k)
	for _, class := range ranked[:k] {
		name, decodeErr := m.items.Decode(class)
		if decodeErr != nil {
			return nil, &PredictionFailure{Class: FailureEncoding, Cause: decodeErr}
		}
		items = append(items, name)
	}
	return items, nil
}

// ModelBank maps restaurant IDs to their trained models. It is immutable
// after TrainModelBank returns.
type ModelBank struct {
	models  map[string]*Model
	skipped map[string]string
}

// Get returns the restaurant's model.
func (b *ModelBank) Get(restaurantID string) (*Model, bool) {
	if b == nil {
		return nil, false
	}
	m, ok := b.models[restaurantID]
	return m, ok
}

// Len returns the number of trained restaurants.
func (b *ModelBank) Len() int {
	if b == nil {
		return 0
	}
	return len(b.models)
}

// Restaurants returns the trained restaurant IDs in sorted order.
func (b *ModelBank) Restaurants() []string {
	if b == nil {
		return []string{}
	}
	ids := make([]string, 0, len(b.models))
	for id := range b.models {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Skipped returns a copy of the restaurants that were not trained, keyed by
// restaurant ID with the reason as value.
func (b *ModelBank) Skipped() map[string]string {
	out := make(map[string]string)
	if b == nil {
		return out
	}
	for id, reason := range b.skipped {
		out[id] = reason
	}
	return out
}

// Infos returns a summary of every model, sorted by restaurant ID.
func (b *ModelBank) Infos() []ModelInfo {
	ids := b.Restaurants()
	out := make([]ModelInfo, 0, len(ids))
	for _, id := range ids {
		out = append(out, b.models[id].Info())
	}
	return out
}

// TrainModelBank trains one model per restaurant found in records.
// Restaurants with too few distinct items or customers are skipped and
// reported through Skipped. Training runs on at most cfg.Training.Workers
// goroutines; every restaurant uses its own RNG seeded from cfg.Seed, so the
// result does not depend on scheduling.
//
// The only error returned is a context cancellation.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func TrainModelBank(ctx context.Context, records []InteractionRecord, cfg *Config, logger zerolog.Logger) (*ModelBank, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}

	groups := make(map[string][]InteractionRecord)
	for i := range records {
		if records[i].ItemName == "" {
			continue
		}
		groups[records[i].RestaurantID] = append(groups[records[i].RestaurantID], records[i])
	}

	ids := make([]string, 0, len(groups))
	for id := range groups {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	bank := &ModelBank{
		models:  make(map[string]*Model, len(ids)),
		skipped: make(map[string]string),
	}

	workers := cfg.Training.Workers
	if workers < 1 {
		workers = 1
	}
	sem := make(chan struct{}, workers)

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		firstErr error
	)

	for _, id := range ids {
		if err := ctx.Err(); err != nil {
			break
		}

		sem <- struct{}{}
		wg.Add(1)
		go func(restaurantID string, rows []InteractionRecord) {
			defer wg.Done()
			defer func() { <-sem }()

			model, reason, err := trainModel(ctx, restaurantID, rows, cfg)

			mu.Lock()
			defer mu.Unlock()

			switch {
			case err != nil:
				if ctx.Err() != nil {
					if firstErr == nil {
						firstErr = ctx.Err()
					}
					return
				}
				bank.skipped[restaurantID] = err.Error()
				logger.Warn().Err(err).Str("restaurant_id", restaurantID).Msg("model training failed, restaurant skipped")
			case reason != "":
				bank.skipped[restaurantID] = reason
				logger.Info().Str("restaurant_id", restaurantID).Str("reason", reason).Msg("restaurant skipped")
			default:
				bank.models[restaurantID] = model
				logger.Debug().
					Str("restaurant_id", restaurantID).
					Int("rows", model.rows).
					Int("customers", model.customers.Len()).
					Int("items", model.items.Len()).
					Int("epochs", model.net.epochs).
					Float64("loss", model.net.loss).
					Dur("duration", model.trainTime).
					Msg("model trained")
			}
		}(id, groups[id])
	}

	wg.Wait()

	if firstErr == nil {
		firstErr = ctx.Err()
	}
	if firstErr != nil {
		return nil, fmt.Errorf("train model bank: %w", firstErr)
	}
	return bank, nil
}

// trainModel fits one restaurant. A non-empty reason means the restaurant
// was skipped for lack of data.
func trainModel(ctx context.Context, restaurantID string, rows []InteractionRecord, cfg *Config) (*Model, string, error) {
	start := time.Now()

	customerKeys := make([]string, len(rows))
	itemNames := make([]string, len(rows))
	for i := range rows {
		customerKeys[i] = rows[i].CustomerKey
		itemNames[i] = rows[i].ItemName
	}

	customers := NewEncoder("customer", customerKeys)
	items := NewEncoder("item", itemNames)

	if items.Len() < cfg.Training.MinItems {
		return nil, fmt.Sprintf("only %d distinct items, need %d", items.Len(), cfg.Training.MinItems), nil
	}
	if customers.Len() < cfg.Training.MinCustomers {
		return nil, fmt.Sprintf("only %d distinct customers, need %d", customers.Len(), cfg.Training.MinCustomers), nil
	}

	X := make([][]float64, len(rows))
	y := make([]int, len(rows))
	for i := range rows {
		c, err := customers.Encode(rows[i].CustomerKey)
		if err != nil {
			return nil, "", err
		}
		label, err := items.Encode(rows[i].ItemName)
		if err != nil {
			return nil, "", err
		}
		X[i] = []float64{float64(c), rows[i].TicketValue, float64(rows[i].HourOfDay), float64(rows[i].DayOfWeek)}
		y[i] = label
	}

	net, err := trainNetwork(ctx, X, y, items.Len(), cfg.Model, cfg.seed())
	if err != nil {
		return nil, "", err
	}

	return &Model{
		restaurantID: restaurantID,
		customers:    customers,
		items:        items,
		net:          net,
		rows:         len(rows),
		trainTime:    time.Since(start),
	}, "", nil
}
