// Menurec - Restaurant Menu Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/menurec

package ingest

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/tomtom215/menurec/internal/recommend"
)

// Defaults applied when created_at is missing.
const (
	DefaultHour      = 12
	DefaultDayOfWeek = 0
)

// Mapper converts OrderRow values to interaction records.
type Mapper struct {
	cleaner  *Cleaner
	location *time.Location
}

// NewMapper creates a mapper. Timestamps are converted to loc before hour
// and day are extracted; nil means UTC.
func NewMapper(loc *time.Location, blacklist []string) *Mapper {
	if loc == nil {
		loc = time.UTC
	}
	return &Mapper{
		cleaner:  NewCleaner(blacklist),
		location: loc,
	}
}

// Map explodes rows into interaction records, preserving row order.
func (m *Mapper) Map(rows []OrderRow) ([]recommend.InteractionRecord, Stats) {
	var stats Stats
	records := make([]recommend.InteractionRecord, 0, len(rows))

	for i := range rows {
		row := &rows[i]
		stats.Orders++

		restaurantID := strings.TrimSpace(row.RestaurantID)
		if restaurantID == "" {
			stats.MissingRestaurant++
			continue
		}

		items, blacklisted := m.cleaner.Clean(ParseItems(row.Items))
		stats.Blacklisted += blacklisted
		if len(items) == 0 {
			stats.EmptyOrders++
			continue
		}

		ticket, ok := parseTicket(row.Ticket)
		if !ok {
			stats.InvalidTickets++
		}
		hour, day := m.hourAndDay(row.CreatedAt)

		customer := recommend.UnknownCustomerKey
		if row.Customer != nil {
			customer = recommend.NormalizeCustomer(*row.Customer)
		}

		signature := recommend.BundleSignature(items)
		for _, item := range items {
			records = append(records, recommend.InteractionRecord{
				RestaurantID:    restaurantID,
				CustomerKey:     customer,
				ItemName:        item,
				TicketValue:     ticket,
				HourOfDay:       hour,
				DayOfWeek:       day,
				BundleSignature: signature,
				OrderID:         row.OrderID,
			})
		}
	}

	stats.Rows = len(records)
	return records, stats
}

// hourAndDay returns the local hour and the weekday with Monday=0.
func (m *Mapper) hourAndDay(ts *time.Time) (hour, day int) {
	if ts == nil || ts.IsZero() {
		return DefaultHour, DefaultDayOfWeek
	}
	local := ts.In(m.location)
	return local.Hour(), (int(local.Weekday()) + 6) % 7
}

// parseTicket coerces the ticket column to a non-negative finite number.
// ok is false when a present value had to be replaced by 0.
func parseTicket(raw *string) (value float64, ok bool) {
	if raw == nil {
		return 0, true
	}
	text := strings.TrimSpace(*raw)
	if text == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(text, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0, false
	}
	return v, true
}
