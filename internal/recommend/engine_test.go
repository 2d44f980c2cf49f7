// Menurec - Restaurant Menu Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/menurec

package recommend

import (
	"context"
	"math"
	"reflect"
	"strings"
	"sync"
	"testing"

	"github.com/rs/zerolog"
)

func TestNewEngine(t *testing.T) {
	t.Run("nil config uses defaults", func(t *testing.T) {
		t.Parallel()
		engine, err := NewEngine(nil, zerolog.Nop())
		if err != nil {
			t.Fatalf("NewEngine() error = %v", err)
		}
		if engine.Config().TopK != 3 {
			t.Errorf("TopK = %d, want 3", engine.Config().TopK)
		}
		if engine.Ready() {
			t.Error("Ready() = true before any snapshot")
		}
	})

	t.Run("invalid config rejected", func(t *testing.T) {
		t.Parallel()
		cfg := DefaultConfig()
		cfg.TopK = 0
		if _, err := NewEngine(cfg, zerolog.Nop()); err == nil {
			t.Error("NewEngine() error = nil, want error")
		}
	})
}

func TestEngine_Predict(t *testing.T) {
	t.Parallel()

	engine := buildTestEngine(t, testConfig(), scenarioRecords())

	tests := []struct {
		name          string
		req           Request
		wantType      ModelType
		wantItems     []string
		wantReason    string
		wantItemCount int
	}{
		{
			name:       "recurrent bundle beats a less frequent order",
			req:        Request{RestaurantID: "R1", CustomerID: "555-0101", TicketAverage: 30, Hour: 20, DayOfWeek: 5},
			wantType:   ModelTypeBundle,
			wantItems:  []string{"Coke", "Pizza"},
			wantReason: "your usual order at R1",
		},
		{
			name:       "customer without digits gets popular items",
			req:        Request{RestaurantID: "R1", CustomerID: "NEWPHONE", Hour: 12},
			wantType:   ModelTypeHeuristic,
			wantItems:  []string{"Coke", "Pizza", "Salad"},
			wantReason: "new customer at R1: popular items",
		},
		{
			name:      "unseen phone gets popular items",
			req:       Request{RestaurantID: "R1", CustomerID: "555-9999", Hour: 12},
			wantType:  ModelTypeHeuristic,
			wantItems: []string{"Coke", "Pizza", "Salad"},
		},
		{
			name:       "unknown restaurant",
			req:        Request{RestaurantID: "Ghost", CustomerID: "555-0101"},
			wantType:   ModelTypeFallback,
			wantItems:  []string{"Plato del Día"},
			wantReason: ReasonUnknownRestaurant,
		},
		{
			name:       "untrained restaurant",
			req:        Request{RestaurantID: "R2", CustomerID: "555-0101"},
			wantType:   ModelTypeFallback,
			wantItems:  []string{"Plato del Día"},
			wantReason: ReasonUnknownRestaurant,
		},
		{
			name:          "varied customer uses classifier",
			req:           Request{RestaurantID: "R1", CustomerID: "555-0202", TicketAverage: 18, Hour: 13, DayOfWeek: 2},
			wantType:      ModelTypeNeuralNetwork,
			wantReason:    "based on your varied preferences at R1",
			wantItemCount: 3,
		},
		{
			name:       "classifier failure falls back to popularity",
			req:        Request{RestaurantID: "R1", CustomerID: "555-0202", TicketAverage: math.Inf(1), Hour: 13},
			wantType:   ModelTypeErrorFallback,
			wantItems:  []string{"Coke", "Pizza", "Salad"},
			wantReason: "prediction failed (non-finite input): popular items at R1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			resp := engine.Predict(tt.req)

			if resp.ModelType != tt.wantType {
				t.Errorf("ModelType = %q, want %q", resp.ModelType, tt.wantType)
			}
			if tt.wantItems != nil && !reflect.DeepEqual(resp.Recommendation, tt.wantItems) {
				t.Errorf("Recommendation = %v, want %v", resp.Recommendation, tt.wantItems)
			}
			if tt.wantItemCount > 0 && len(resp.Recommendation) != tt.wantItemCount {
				t.Errorf("len(Recommendation) = %d, want %d", len(resp.Recommendation), tt.wantItemCount)
			}
			if tt.wantReason != "" && resp.Reason != tt.wantReason {
				t.Errorf("Reason = %q, want %q", resp.Reason, tt.wantReason)
			}
			if resp.RestaurantID != tt.req.RestaurantID {
				t.Errorf("RestaurantID = %q, want %q", resp.RestaurantID, tt.req.RestaurantID)
			}
			if resp.CustomerID != tt.req.CustomerID {
				t.Errorf("CustomerID = %q, want original %q", resp.CustomerID, tt.req.CustomerID)
			}
		})
	}
}

func TestEngine_Predict_AnonymousCustomers(t *testing.T) {
	t.Parallel()

	// Orders without a usable phone all share the anonymous key.
	records := concat(
		scenarioRecords(),
		order("R1", "", "a1", 8, 10, 0, "Tea", "Cake"),
		order("R1", "WALK-IN", "a2", 8, 11, 1, "Tea", "Cake"),
	)

	for _, minOrders := range []int{1, 2} {
		cfg := testConfig()
		cfg.Bundle.MinOrders = minOrders
		engine := buildTestEngine(t, cfg, records)

		for _, customer := range []string{"NEWPHONE", "", UnknownCustomerKey} {
			resp := engine.Predict(Request{RestaurantID: "R1", CustomerID: customer, Hour: 12})
			if resp.ModelType != ModelTypeHeuristic {
				t.Errorf("minOrders=%d customer %q: ModelType = %q, want %q",
					minOrders, customer, resp.ModelType, ModelTypeHeuristic)
			}
			if want := []string{"Coke", "Pizza", "Salad"}; !reflect.DeepEqual(resp.Recommendation, want) {
				t.Errorf("minOrders=%d customer %q: Recommendation = %v, want %v",
					minOrders, customer, resp.Recommendation, want)
			}
		}
	}
}

func TestEngine_Predict_SingleOrderBundle(t *testing.T) {
	t.Parallel()

	cfg := testConfig()
	cfg.Bundle.MinOrders = DefaultConfig().Bundle.MinOrders
	engine := buildTestEngine(t, cfg, scenarioRecords())

	tests := []struct {
		name      string
		customer  string
		wantItems []string
	}{
		{name: "only order replayed", customer: "555-0303", wantItems: []string{"Coffee"}},
		{name: "tie goes to latest order", customer: "555-0202", wantItems: []string{"Burger", "Coke"}},
		{name: "most frequent bundle", customer: "555-0101", wantItems: []string{"Coke", "Pizza"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			resp := engine.Predict(Request{RestaurantID: "R1", CustomerID: tt.customer, Hour: 9})
			if resp.ModelType != ModelTypeBundle {
				t.Errorf("ModelType = %q, want %q", resp.ModelType, ModelTypeBundle)
			}
			if !reflect.DeepEqual(resp.Recommendation, tt.wantItems) {
				t.Errorf("Recommendation = %v, want %v", resp.Recommendation, tt.wantItems)
			}
		})
	}
}

func TestEngine_Predict_NotTrained(t *testing.T) {
	t.Parallel()

	engine, err := NewEngine(testConfig(), zerolog.Nop())
	if err != nil {
		t.Fatal(err)
	}

	check := func(stage string) {
		resp := engine.Predict(Request{RestaurantID: "R1", CustomerID: "555-0101"})
		if resp.Reason != ReasonNotTrained || resp.ModelType != ModelTypeFallback {
			t.Errorf("%s: got %q / %q, want %q / Fallback", stage, resp.Reason, resp.ModelType, ReasonNotTrained)
		}
		if !reflect.DeepEqual(resp.Recommendation, []string{"Plato del Día"}) {
			t.Errorf("%s: Recommendation = %v", stage, resp.Recommendation)
		}
	}

	check("no snapshot")

	engine.Publish(EmptySnapshot())
	if !engine.Ready() {
		t.Error("Ready() = false after publishing empty snapshot")
	}
	check("empty snapshot")

	if _, err := engine.Rebuild(context.Background(), nil); err != nil {
		t.Fatal(err)
	}
	check("rebuilt from no records")
}

func TestEngine_Predict_ErrorReasonHidesCause(t *testing.T) {
	t.Parallel()

	engine := buildTestEngine(t, testConfig(), scenarioRecords())
	resp := engine.Predict(Request{RestaurantID: "R1", CustomerID: "555-0202", TicketAverage: math.NaN()})

	if strings.Contains(resp.Reason, "feature vector") || strings.Contains(resp.Reason, "NaN") {
		t.Errorf("Reason leaks error detail: %q", resp.Reason)
	}
	if _, failures := engine.Stats(); failures != 1 {
		t.Errorf("failures = %d, want 1", failures)
	}
}

func TestEngine_Predict_Deterministic(t *testing.T) {
	t.Parallel()

	a := buildTestEngine(t, testConfig(), scenarioRecords())
	b := buildTestEngine(t, testConfig(), scenarioRecords())

	req := Request{RestaurantID: "R1", CustomerID: "555-0202", TicketAverage: 22, Hour: 19, DayOfWeek: 3}
	ra, rb := a.Predict(req), b.Predict(req)
	if !reflect.DeepEqual(ra.Recommendation, rb.Recommendation) {
		t.Errorf("predictions differ: %v vs %v", ra.Recommendation, rb.Recommendation)
	}

	if !reflect.DeepEqual(a.Snapshot().Bank().Restaurants(), b.Snapshot().Bank().Restaurants()) {
		t.Error("trained restaurants differ")
	}
	ma, _ := a.Snapshot().Bank().Get("R1")
	mb, _ := b.Snapshot().Bank().Get("R1")
	if !reflect.DeepEqual(ma.customers.Classes(), mb.customers.Classes()) ||
		!reflect.DeepEqual(ma.items.Classes(), mb.items.Classes()) {
		t.Error("encoder vocabularies differ")
	}
}

func TestEngine_RebuildFailureKeepsSnapshot(t *testing.T) {
	t.Parallel()

	engine := buildTestEngine(t, testConfig(), scenarioRecords())
	before := engine.Snapshot()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := engine.Rebuild(ctx, scenarioRecords()); err == nil {
		t.Fatal("Rebuild() error = nil with cancelled context")
	}
	if engine.Snapshot() != before {
		t.Error("snapshot replaced after failed rebuild")
	}
}

func TestEngine_ConcurrentPredictAndPublish(t *testing.T) {
	t.Parallel()

	engine := buildTestEngine(t, testConfig(), scenarioRecords())
	snapshot := engine.Snapshot()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				resp := engine.Predict(Request{RestaurantID: "R1", CustomerID: "555-0101"})
				if len(resp.Recommendation) == 0 {
					t.Error("empty recommendation")
					return
				}
			}
		}()
	}
	for i := 0; i < 10; i++ {
		engine.Publish(snapshot)
	}
	wg.Wait()

	if requests, _ := engine.Stats(); requests != 400 {
		t.Errorf("requests = %d, want 400", requests)
	}
}

func TestSnapshot_Info(t *testing.T) {
	t.Parallel()

	engine := buildTestEngine(t, testConfig(), scenarioRecords())
	info := engine.Snapshot().Info()

	if info.ID == "" {
		t.Error("ID is empty")
	}
	if info.Rows != 12 {
		t.Errorf("Rows = %d, want 12", info.Rows)
	}
	if info.Restaurants != 2 {
		t.Errorf("Restaurants = %d, want 2", info.Restaurants)
	}
	if !reflect.DeepEqual(info.TrainedRestaurants, []string{"R1"}) {
		t.Errorf("TrainedRestaurants = %v", info.TrainedRestaurants)
	}
	if _, ok := info.SkippedRestaurants["R2"]; !ok {
		t.Errorf("SkippedRestaurants = %v", info.SkippedRestaurants)
	}
}
