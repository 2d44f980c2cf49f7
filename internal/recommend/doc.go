// Menurec - Restaurant Menu Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/menurec

// Package recommend implements the tiered menu-item recommendation engine.
//
// # Architecture
//
// A Snapshot bundles three read-only structures built from one cleaned
// interaction table:
//
//   - HistoryStore: rows grouped by restaurant and customer
//   - PopularityIndex: top items per restaurant by frequency
//   - ModelBank: one trained feed-forward classifier per restaurant, with
//     closed customer and item vocabularies
//
// The Engine answers predictions against the currently published snapshot.
// Tiers are evaluated in a fixed order and the first one that applies wins:
//
//  1. untrained guard (no restaurant was trained)
//  2. unknown-restaurant guard
//  3. recurrent bundle (the customer's habitual order)
//  4. classifier top-K, or popularity for customers outside the vocabulary
//  5. error fallback to popularity when inference fails
//
// Identifiers without digits normalize to UnknownCustomerKey. That key is
// shared by every anonymous order, so it skips tier 3 and gets popularity
// in tier 4.
//
// # Determinism
//
// Encoders assign codes in lexicographic order and every restaurant's
// classifier is trained with its own RNG seeded from Config.Seed, so the
// same snapshot and seed always produce the same vocabularies and the same
// top-K predictions, regardless of how many training workers run.
//
// # Thread Safety
//
// Snapshots are never mutated after BuildSnapshot returns. The engine
// publishes a new snapshot with a single atomic pointer swap, so Predict
// needs no locks and never observes a half-built state.
//
// # Usage
//
//	engine, err := recommend.NewEngine(recommend.DefaultConfig(), logger)
//	if err != nil {
//	    return err
//	}
//	if _, err := engine.Rebuild(ctx, records); err != nil {
//	    return err
//	}
//	resp := engine.Predict(recommend.Request{
//	    RestaurantID: "R1",
//	    CustomerID:   "+51 999-123",
//	    Hour:         20,
//	    DayOfWeek:    5,
//	})
package recommend
