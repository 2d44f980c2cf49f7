// Menurec - Restaurant Menu Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/menurec

package database

import (
	"context"

	"github.com/tomtom215/menurec/internal/ingest"
)

// DriverNone selects EmptySource.
const DriverNone = "none"

// EmptySource returns no orders. It backs deployments without an upstream,
// which then serve "model not trained" until a source is configured.
type EmptySource struct{}

// Name implements ingest.OrderSource.
func (EmptySource) Name() string { return DriverNone }

// LoadOrders implements ingest.OrderSource.
func (EmptySource) LoadOrders(ctx context.Context) ([]ingest.OrderRow, error) {
	return nil, ctx.Err()
}
