// Menurec - Restaurant Menu Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/menurec

package recommend

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
)

// testConfig returns a small network so tests train quickly. Bundles must
// repeat at least twice so customers with varied orders reach the classifier.
func testConfig() *Config {
	cfg := DefaultConfig()
	cfg.Model.HiddenLayers = []int{16, 8}
	cfg.Model.MaxIterations = 200
	cfg.Bundle.MinOrders = 2
	return cfg
}

// order explodes one order into interaction records the way ingestion does.
func order(restaurantID, customer, orderID string, ticket float64, hour, day int, items ...string) []InteractionRecord {
	signature := BundleSignature(items)
	key := NormalizeCustomer(customer)
	out := make([]InteractionRecord, 0, len(items))
	for _, item := range items {
		out = append(out, InteractionRecord{
			RestaurantID:    restaurantID,
			CustomerKey:     key,
			ItemName:        item,
			TicketValue:     ticket,
			HourOfDay:       hour,
			DayOfWeek:       day,
			BundleSignature: signature,
			OrderID:         orderID,
		})
	}
	return out
}

// concat joins record slices.
func concat(parts ...[]InteractionRecord) []InteractionRecord {
	var out []InteractionRecord
	for _, p := range parts {
		out = append(out, p...)
	}
	return out
}

// scenarioRecords builds a two-restaurant history:
//   - R1: customer 555-0101 ordered "Pizza, Coke" twice and "Salad" once,
//     customer 555-0202 ordered a different bundle every time, customer
//     555-0303 ordered once.
//   - R2: a single item only, so it is never trained.
func scenarioRecords() []InteractionRecord {
	return concat(
		order("R1", "555-0101", "o1", 20, 20, 4, "Pizza", "Coke"),
		order("R1", "555-0202", "o2", 12, 13, 1, "Salad"),
		order("R1", "555-0101", "o3", 21, 21, 5, "Pizza", "Coke"),
		order("R1", "555-0202", "o4", 30, 12, 2, "Pasta", "Wine"),
		order("R1", "555-0202", "o5", 15, 19, 3, "Burger", "Coke"),
		order("R1", "555-0303", "o6", 9, 9, 0, "Coffee"),
		order("R1", "555-0101", "o8", 14, 13, 2, "Salad"),
		order("R2", "555-0101", "o7", 5, 8, 0, "Bagel"),
	)
}

// buildTestEngine returns an engine with a snapshot built from records.
func buildTestEngine(t *testing.T, cfg *Config, records []InteractionRecord) *Engine {
	t.Helper()
	engine, err := NewEngine(cfg, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewEngine() error = %v", err)
	}
	if _, err := engine.Rebuild(context.Background(), records); err != nil {
		t.Fatalf("Rebuild() error = %v", err)
	}
	return engine
}
