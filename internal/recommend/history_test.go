// Menurec - Restaurant Menu Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/menurec

package recommend

import (
	"reflect"
	"testing"
)

func TestHistoryStore_Lookup(t *testing.T) {
	t.Parallel()

	store := NewHistoryStore(scenarioRecords())

	rows := store.Lookup("R1", NormalizeCustomer("555-0101"))
	if len(rows) != 5 {
		t.Fatalf("Lookup() returned %d rows, want 5", len(rows))
	}
	wantOrders := []string{"o1", "o1", "o3", "o3", "o8"}
	for i, row := range rows {
		if row.OrderID != wantOrders[i] {
			t.Errorf("row %d order = %q, want %q", i, row.OrderID, wantOrders[i])
		}
	}

	if got := store.Lookup("R1", "nobody"); got == nil || len(got) != 0 {
		t.Errorf("Lookup() for unknown customer = %v, want empty non-nil slice", got)
	}
	if got := store.Lookup("R9", NormalizeCustomer("555-0101")); len(got) != 0 {
		t.Errorf("Lookup() for unknown restaurant = %v, want empty", got)
	}
}

func TestHistoryStore_Empty(t *testing.T) {
	t.Parallel()

	store := NewHistoryStore(nil)
	if store.Len() != 0 {
		t.Errorf("Len() = %d, want 0", store.Len())
	}
	if got := store.Lookup("R1", "1"); len(got) != 0 {
		t.Errorf("Lookup() = %v, want empty", got)
	}
	if _, ok := store.RecurrentBundle("R1", "1", 1); ok {
		t.Error("RecurrentBundle() on empty store returned ok")
	}

	var nilStore *HistoryStore
	if nilStore.Len() != 0 {
		t.Error("nil store Len() != 0")
	}
}

func TestHistoryStore_CopiesInput(t *testing.T) {
	t.Parallel()

	records := order("R1", "1", "o1", 10, 12, 0, "Tea")
	store := NewHistoryStore(records)
	records[0].ItemName = "Changed"

	if got := store.Lookup("R1", "1")[0].ItemName; got != "Tea" {
		t.Errorf("store saw caller mutation: %q", got)
	}
}

func TestHistoryStore_RecurrentBundle(t *testing.T) {
	tests := []struct {
		name      string
		records   []InteractionRecord
		minOrders int
		want      []string
		wantOK    bool
	}{
		{
			name: "repeated bundle",
			records: concat(
				order("R1", "1", "o1", 10, 12, 0, "Pizza", "Coke"),
				order("R1", "1", "o2", 10, 12, 0, "Pizza", "Coke"),
			),
			minOrders: 2,
			want:      []string{"Coke", "Pizza"},
			wantOK:    true,
		},
		{
			name:      "single order below threshold",
			records:   order("R1", "1", "o1", 10, 12, 0, "Pizza", "Coke"),
			minOrders: 2,
			wantOK:    false,
		},
		{
			name:      "single order with threshold of one",
			records:   order("R1", "1", "o1", 10, 12, 0, "Pizza", "Coke"),
			minOrders: 1,
			want:      []string{"Coke", "Pizza"},
			wantOK:    true,
		},
		{
			name: "orders counted not rows",
			records: concat(
				order("R1", "1", "o1", 10, 12, 0, "A", "B", "C"),
				order("R1", "1", "o2", 10, 12, 0, "Tea"),
				order("R1", "1", "o3", 10, 12, 0, "Tea"),
			),
			minOrders: 1,
			want:      []string{"Tea"},
			wantOK:    true,
		},
		{
			name: "rows without order id",
			records: concat(
				order("R1", "1", "", 10, 12, 0, "A", "B", "C"),
				order("R1", "1", "", 10, 12, 0, "Tea"),
				order("R1", "1", "", 10, 12, 0, "Tea"),
			),
			minOrders: 2,
			want:      []string{"Tea"},
			wantOK:    true,
		},
		{
			name: "tie goes to most recent",
			records: concat(
				order("R1", "1", "o1", 10, 12, 0, "Soup"),
				order("R1", "1", "o2", 10, 12, 0, "Tea"),
				order("R1", "1", "o3", 10, 12, 0, "Tea"),
				order("R1", "1", "o4", 10, 12, 0, "Soup"),
			),
			minOrders: 2,
			want:      []string{"Soup"},
			wantOK:    true,
		},
		{
			name: "other restaurant ignored",
			records: concat(
				order("R2", "1", "o1", 10, 12, 0, "Tea"),
				order("R2", "1", "o2", 10, 12, 0, "Tea"),
			),
			minOrders: 1,
			wantOK:    false,
		},
		{
			name: "duplicate items preserved",
			records: concat(
				order("R1", "1", "o1", 10, 12, 0, "Coke", "Pizza", "Coke"),
				order("R1", "1", "o2", 10, 12, 0, "Coke", "Coke", "Pizza"),
			),
			minOrders: 2,
			want:      []string{"Coke", "Coke", "Pizza"},
			wantOK:    true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			store := NewHistoryStore(tt.records)
			got, ok := store.RecurrentBundle("R1", "1", tt.minOrders)
			if ok != tt.wantOK {
				t.Fatalf("RecurrentBundle() ok = %v, want %v", ok, tt.wantOK)
			}
			if tt.wantOK && !reflect.DeepEqual(got, tt.want) {
				t.Errorf("RecurrentBundle() = %v, want %v", got, tt.want)
			}
		})
	}
}
