// Menurec - Restaurant Menu Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/menurec

package recommend

import "strings"

// historyKey identifies one customer at one restaurant.
type historyKey struct {
	restaurantID string
	customerKey  string
}

// HistoryStore holds the interaction table indexed by restaurant and customer.
// It is immutable after construction.
type HistoryStore struct {
	rows  []InteractionRecord
	index map[historyKey][]int
}

// NewHistoryStore indexes records. The slice is copied, so later changes by
// the caller are not visible to the store.
func NewHistoryStore(records []InteractionRecord) *HistoryStore {
	rows := make([]InteractionRecord, len(records))
	copy(rows, records)

	index := make(map[historyKey][]int)
	for i := range rows {
		key := historyKey{restaurantID: rows[i].RestaurantID, customerKey: rows[i].CustomerKey}
		index[key] = append(index[key], i)
	}

	return &HistoryStore{rows: rows, index: index}
}

// Len returns the number of rows in the store.
func (h *HistoryStore) Len() int {
	if h == nil {
		return 0
	}
	return len(h.rows)
}

// Lookup returns the rows for a restaurant and customer in snapshot order.
// It returns an empty slice when nothing matches.
func (h *HistoryStore) Lookup(restaurantID, customerKey string) []InteractionRecord {
	if h == nil {
		return []InteractionRecord{}
	}
	positions := h.index[historyKey{restaurantID: restaurantID, customerKey: customerKey}]
	out := make([]InteractionRecord, 0, len(positions))
	for _, pos := range positions {
		out = append(out, h.rows[pos])
	}
	return out
}

// bundleTally accumulates order counts for one signature.
type bundleTally struct {
	orders   map[string]struct{}
	rows     int
	lastSeen int
}

// count returns the number of orders behind the tally. Rows without an
// order ID are converted to orders by the signature's item count, since each
// order explodes into exactly that many rows.
func (t *bundleTally) count(signature string) int {
	if len(t.orders) > 0 {
		return len(t.orders)
	}
	items := strings.Count(signature, BundleSeparator) + 1
	return (t.rows + items - 1) / items
}

// RecurrentBundle returns the customer's most frequent non-empty bundle
// signature at the restaurant, split into item names. The bundle must appear
// in at least minOrders orders. When two signatures are equally frequent the
// one whose latest order comes last in the snapshot wins.
func (h *HistoryStore) RecurrentBundle(restaurantID, customerKey string, minOrders int) ([]string, bool) {
	if h == nil {
		return nil, false
	}
	positions := h.index[historyKey{restaurantID: restaurantID, customerKey: customerKey}]
	if len(positions) == 0 {
		return nil, false
	}

	tallies := make(map[string]*bundleTally)
	for _, pos := range positions {
		row := &h.rows[pos]
		if row.BundleSignature == "" {
			continue
		}
		t, ok := tallies[row.BundleSignature]
		if !ok {
			t = &bundleTally{}
			tallies[row.BundleSignature] = t
		}
		t.rows++
		t.lastSeen = pos
		if row.OrderID != "" {
			if t.orders == nil {
				t.orders = make(map[string]struct{})
			}
			t.orders[row.OrderID] = struct{}{}
		}
	}

	best := ""
	bestCount := 0
	bestSeen := -1
	for signature, t := range tallies {
		n := t.count(signature)
		if n > bestCount || (n == bestCount && t.lastSeen > bestSeen) {
			best, bestCount, bestSeen = signature, n, t.lastSeen
		}
	}

	if best == "" || bestCount < minOrders {
		return nil, false
	}
	return SplitBundle(best), true
}
