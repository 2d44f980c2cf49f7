// Menurec - Restaurant Menu Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/menurec

package ingest

import (
	"context"
	"time"
)

// OrderRow is one raw order as stored upstream. Nullable columns are pointers.
type OrderRow struct {
	// OrderID identifies the order. Sources without a key generate one.
	OrderID string

	// RestaurantID is the restaurant_id column.
	RestaurantID string

	// Customer is the cliente_telefono column.
	Customer *string

	// Items is the raw items column (JSON or text).
	Items *string

	// Ticket is the Total_monto column in its textual form.
	Ticket *string

	// CreatedAt is the created_at column.
	CreatedAt *time.Time
}

// OrderSource loads every order used for training.
type OrderSource interface {
	// LoadOrders returns all orders sorted by creation time.
	LoadOrders(ctx context.Context) ([]OrderRow, error)

	// Name identifies the source in logs and metrics.
	Name() string
}

// Stats holds counters for one mapping pass.
type Stats struct {
	// Orders is the number of order rows read.
	Orders int `json:"orders"`

	// Rows is the number of interaction records produced.
	Rows int `json:"rows"`

	// EmptyOrders counts orders left without items after cleaning.
	EmptyOrders int `json:"empty_orders"`

	// MissingRestaurant counts orders dropped for lacking a restaurant ID.
	MissingRestaurant int `json:"missing_restaurant"`

	// Blacklisted counts item entries dropped by the blacklist.
	Blacklisted int `json:"blacklisted"`

	// InvalidTickets counts tickets that could not be parsed or were negative.
	InvalidTickets int `json:"invalid_tickets"`
}

// ReloadStats describes one completed reload.
type ReloadStats struct {
	Source    string    `json:"source"`
	Mapping   Stats     `json:"mapping"`
	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`
}

// Duration returns how long the reload took.
func (s *ReloadStats) Duration() time.Duration {
	if s.EndTime.IsZero() {
		return time.Since(s.StartTime)
	}
	return s.EndTime.Sub(s.StartTime)
}
