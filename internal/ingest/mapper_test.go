// Menurec - Restaurant Menu Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/menurec

package ingest

import (
	"testing"
	"time"

	"github.com/tomtom215/menurec/internal/recommend"
)

func timePtr(t time.Time) *time.Time { return &t }

func TestMapper_Map(t *testing.T) {
	t.Parallel()

	// Friday 2026-03-06 21:30 UTC
	friday := time.Date(2026, 3, 6, 21, 30, 0, 0, time.UTC)

	rows := []OrderRow{
		{
			OrderID:      "o1",
			RestaurantID: "R1",
			Customer:     strPtr("+54 9 11 5555-0101"),
			Items:        strPtr(`["*1x Pizza", "Coke", "Total: 20"]`),
			Ticket:       strPtr("20.50"),
			CreatedAt:    timePtr(friday),
		},
		{
			OrderID:      "o2",
			RestaurantID: "",
			Items:        strPtr(`["Pizza"]`),
		},
		{
			OrderID:      "o3",
			RestaurantID: "R1",
			Items:        strPtr(`["Total: 5"]`),
		},
		{
			OrderID:      "o4",
			RestaurantID: " R2 ",
			Customer:     nil,
			Items:        strPtr(`{'items': ['Flan']}`),
			Ticket:       strPtr("abc"),
		},
	}

	records, stats := NewMapper(time.UTC, DefaultBlacklist()).Map(rows)

	if len(records) != 3 {
		t.Fatalf("Map() returned %d records, want 3", len(records))
	}

	first := records[0]
	if first.RestaurantID != "R1" || first.CustomerKey != "5491155550101" {
		t.Errorf("first record = %+v", first)
	}
	if first.ItemName != "Pizza" || records[1].ItemName != "Coke" {
		t.Errorf("items = %q, %q", first.ItemName, records[1].ItemName)
	}
	if first.BundleSignature != "Coke, Pizza" || records[1].BundleSignature != "Coke, Pizza" {
		t.Errorf("signature = %q", first.BundleSignature)
	}
	if first.TicketValue != 20.5 {
		t.Errorf("TicketValue = %v, want 20.5", first.TicketValue)
	}
	if first.HourOfDay != 21 || first.DayOfWeek != 4 {
		t.Errorf("hour/day = %d/%d, want 21/4", first.HourOfDay, first.DayOfWeek)
	}
	if first.OrderID != "o1" {
		t.Errorf("OrderID = %q", first.OrderID)
	}

	last := records[2]
	if last.RestaurantID != "R2" || last.ItemName != "Flan" {
		t.Errorf("last record = %+v", last)
	}
	if last.CustomerKey != recommend.UnknownCustomerKey {
		t.Errorf("CustomerKey = %q, want %q", last.CustomerKey, recommend.UnknownCustomerKey)
	}
	if last.HourOfDay != DefaultHour || last.DayOfWeek != DefaultDayOfWeek {
		t.Errorf("hour/day = %d/%d, want defaults", last.HourOfDay, last.DayOfWeek)
	}
	if last.TicketValue != 0 {
		t.Errorf("TicketValue = %v, want 0", last.TicketValue)
	}

	want := Stats{Orders: 4, Rows: 3, EmptyOrders: 1, MissingRestaurant: 1, Blacklisted: 2, InvalidTickets: 1}
	if stats != want {
		t.Errorf("stats = %+v, want %+v", stats, want)
	}
}

func TestMapper_TimeZone(t *testing.T) {
	t.Parallel()

	loc := time.FixedZone("UTC-5", -5*3600)
	// Monday 02:00 UTC is Sunday 21:00 at UTC-5.
	ts := time.Date(2026, 3, 9, 2, 0, 0, 0, time.UTC)

	records, _ := NewMapper(loc, nil).Map([]OrderRow{{
		RestaurantID: "R1",
		Items:        strPtr(`["Tea"]`),
		CreatedAt:    timePtr(ts),
	}})
	if len(records) != 1 {
		t.Fatalf("got %d records", len(records))
	}
	if records[0].HourOfDay != 21 || records[0].DayOfWeek != 6 {
		t.Errorf("hour/day = %d/%d, want 21/6", records[0].HourOfDay, records[0].DayOfWeek)
	}
}

func TestParseTicket(t *testing.T) {
	tests := []struct {
		name   string
		raw    *string
		want   float64
		wantOK bool
	}{
		{name: "null", raw: nil, want: 0, wantOK: true},
		{name: "integer", raw: strPtr("15000"), want: 15000, wantOK: true},
		{name: "decimal", raw: strPtr(" 12.75 "), want: 12.75, wantOK: true},
		{name: "empty", raw: strPtr(""), want: 0, wantOK: false},
		{name: "text", raw: strPtr("gratis"), want: 0, wantOK: false},
		{name: "negative", raw: strPtr("-3"), want: 0, wantOK: false},
		{name: "nan", raw: strPtr("NaN"), want: 0, wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, ok := parseTicket(tt.raw)
			if got != tt.want || ok != tt.wantOK {
				t.Errorf("parseTicket() = %v, %v; want %v, %v", got, ok, tt.want, tt.wantOK)
			}
		})
	}
}
