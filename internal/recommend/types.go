// Menurec - Restaurant Menu Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/menurec

package recommend

import (
	"sort"
	"strings"
	"time"
)

// BundleSeparator joins item names inside a bundle signature.
const BundleSeparator = ", "

// UnknownCustomerKey is the customer key used when a raw identifier has no digits.
const UnknownCustomerKey = "UNKNOWN"

// InteractionRecord is one (order, item) row of the cleaned history.
// All rows exploded from the same order share BundleSignature and OrderID.
type InteractionRecord struct {
	// RestaurantID identifies the restaurant that received the order.
	RestaurantID string `json:"restaurant_id"`

	// CustomerKey is the normalized customer identifier (see NormalizeCustomer).
	CustomerKey string `json:"customer_key"`

	// ItemName is the cleaned menu item name.
	ItemName string `json:"item_name"`

	// TicketValue is the order total. Zero when the source value was unusable.
	TicketValue float64 `json:"ticket_value"`

	// HourOfDay is 0-23.
	HourOfDay int `json:"hour_of_day"`

	// DayOfWeek is 0-6 with Monday=0.
	DayOfWeek int `json:"day_of_week"`

	// BundleSignature is the sorted item list of the originating order,
	// joined by BundleSeparator. Duplicates are kept.
	BundleSignature string `json:"bundle_signature"`

	// OrderID identifies the originating order. Optional.
	OrderID string `json:"order_id,omitempty"`
}

// BundleSignature builds the canonical signature for an order's items.
// The input slice is not modified.
func BundleSignature(items []string) string {
	if len(items) == 0 {
		return ""
	}
	sorted := make([]string, len(items))
	copy(sorted, items)
	sort.Strings(sorted)
	return strings.Join(sorted, BundleSeparator)
}

// SplitBundle reverses BundleSignature.
func SplitBundle(signature string) []string {
	if signature == "" {
		return nil
	}
	return strings.Split(signature, BundleSeparator)
}

// ModelType labels the tier that produced a response.
type ModelType string

// Model types reported to callers.
const (
	ModelTypeFallback      ModelType = "Fallback"
	ModelTypeHeuristic     ModelType = "Heuristic (Top Sellers)"
	ModelTypeBundle        ModelType = "Pattern Recognition (Recurrent Bundle)"
	ModelTypeNeuralNetwork ModelType = "Neural Network (Top-3 Probabilistic)"
	ModelTypeErrorFallback ModelType = "Error Fallback"
)

// AllModelTypes returns every model type in tier order.
func AllModelTypes() []ModelType {
	return []ModelType{
		ModelTypeFallback,
		ModelTypeBundle,
		ModelTypeHeuristic,
		ModelTypeNeuralNetwork,
		ModelTypeErrorFallback,
	}
}

// Request is a single prediction request.
type Request struct {
	// RestaurantID selects the per-restaurant model.
	RestaurantID string

	// CustomerID is the caller's raw identifier, usually a phone number.
	CustomerID string

	// TicketAverage is the approximate spend of the current order.
	TicketAverage float64

	// Hour is 0-23.
	Hour int

	// DayOfWeek is 0-6 with Monday=0.
	DayOfWeek int
}

// Response is the result of a prediction. It is always populated.
type Response struct {
	RestaurantID   string    `json:"restaurant_id"`
	CustomerID     string    `json:"customer_id"`
	Recommendation []string  `json:"recommendation"`
	Reason         string    `json:"reason"`
	ModelType      ModelType `json:"model_type"`
}

// SnapshotInfo summarizes a published snapshot.
type SnapshotInfo struct {
	ID                  string            `json:"id"`
	BuiltAt             time.Time         `json:"built_at"`
	Rows                int               `json:"rows"`
	Restaurants         int               `json:"restaurants"`
	TrainedRestaurants  []string          `json:"trained_restaurants"`
	SkippedRestaurants  map[string]string `json:"skipped_restaurants,omitempty"`
	BuildDurationMillis int64             `json:"build_duration_ms"`
}
