// Menurec - Restaurant Menu Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/menurec

package validation

import (
	"math"
	"strings"
	"testing"
)

type orderQuery struct {
	RestaurantID string   `json:"restaurant_id" validate:"required,notblank,max=16"`
	Ticket       *float64 `json:"ticket_average" validate:"omitempty,finite,gte=0"`
	Hour         *int     `json:"hour" validate:"omitempty,gte=0,lte=23"`
	Mode         string   `json:"mode" validate:"omitempty,oneof=fast slow"`
	Internal     int      `json:"-" validate:"min=0"`
}

func ptr[T any](v T) *T { return &v }

func TestGetValidator_Singleton(t *testing.T) {
	t.Parallel()

	if GetValidator() != GetValidator() {
		t.Error("GetValidator() returned different instances")
	}
}

func TestValidateStruct(t *testing.T) {
	tests := []struct {
		name      string
		input     orderQuery
		wantField string
		wantTag   string
		wantMsg   string
	}{
		{name: "valid", input: orderQuery{RestaurantID: "R1", Ticket: ptr(12.5), Hour: ptr(0)}},
		{name: "optional fields omitted", input: orderQuery{RestaurantID: "R1"}},
		{name: "missing restaurant", input: orderQuery{}, wantField: "restaurant_id", wantTag: "required", wantMsg: "restaurant_id is required"},
		{name: "blank restaurant", input: orderQuery{RestaurantID: "   "}, wantField: "restaurant_id", wantTag: "notblank", wantMsg: "restaurant_id must not be blank"},
		{name: "restaurant too long", input: orderQuery{RestaurantID: strings.Repeat("x", 17)}, wantField: "restaurant_id", wantTag: "max", wantMsg: "restaurant_id must be at most 16 characters"},
		{name: "hour out of range", input: orderQuery{RestaurantID: "R1", Hour: ptr(24)}, wantField: "hour", wantTag: "lte", wantMsg: "hour must be less than or equal to 23"},
		{name: "negative ticket", input: orderQuery{RestaurantID: "R1", Ticket: ptr(-1.0)}, wantField: "ticket_average", wantTag: "gte"},
		{name: "NaN ticket", input: orderQuery{RestaurantID: "R1", Ticket: ptr(math.NaN())}, wantField: "ticket_average", wantTag: "finite", wantMsg: "ticket_average must be a finite number"},
		{name: "infinite ticket", input: orderQuery{RestaurantID: "R1", Ticket: ptr(math.Inf(1))}, wantField: "ticket_average", wantTag: "finite"},
		{name: "bad enum", input: orderQuery{RestaurantID: "R1", Mode: "medium"}, wantField: "mode", wantTag: "oneof", wantMsg: "mode must be one of: fast slow"},
		{name: "json dash uses struct name", input: orderQuery{RestaurantID: "R1", Internal: -1}, wantField: "Internal", wantTag: "min", wantMsg: "Internal must be at least 0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			verr := ValidateStruct(&tt.input)
			if tt.wantField == "" {
				if verr != nil {
					t.Fatalf("ValidateStruct() = %v, want nil", verr)
				}
				return
			}
			if verr == nil {
				t.Fatal("ValidateStruct() = nil, want error")
			}
			if len(verr.Errors()) != 1 {
				t.Fatalf("got %d errors, want 1: %v", len(verr.Errors()), verr)
			}
			fe := verr.Errors()[0]
			if fe.Field() != tt.wantField || fe.Tag() != tt.wantTag {
				t.Errorf("field/tag = %s/%s, want %s/%s", fe.Field(), fe.Tag(), tt.wantField, tt.wantTag)
			}
			if tt.wantMsg != "" && fe.Error() != tt.wantMsg {
				t.Errorf("message = %q, want %q", fe.Error(), tt.wantMsg)
			}
		})
	}
}

func TestRequestValidationError_ToAPIError(t *testing.T) {
	t.Parallel()

	t.Run("single", func(t *testing.T) {
		verr := ValidateStruct(&orderQuery{RestaurantID: "R1", Hour: ptr(30)})
		apiErr := verr.ToAPIError()
		if apiErr.Code != ErrorCode {
			t.Errorf("Code = %q", apiErr.Code)
		}
		if apiErr.Details["field"] != "hour" || apiErr.Details["tag"] != "lte" {
			t.Errorf("Details = %v", apiErr.Details)
		}
	})

	t.Run("multiple", func(t *testing.T) {
		verr := ValidateStruct(&orderQuery{Hour: ptr(-1)})
		apiErr := verr.ToAPIError()
		fields, ok := apiErr.Details["fields"].([]map[string]interface{})
		if !ok || len(fields) != 2 {
			t.Fatalf("Details = %v, want 2 fields", apiErr.Details)
		}
		if !strings.Contains(apiErr.Message, "restaurant_id: ") || !strings.Contains(apiErr.Message, "hour: ") {
			t.Errorf("Message = %q", apiErr.Message)
		}
		if verr.Error() == "" {
			t.Error("Error() is empty")
		}
	})

	t.Run("empty", func(t *testing.T) {
		apiErr := (&RequestValidationError{}).ToAPIError()
		if apiErr.Message != "Validation failed" {
			t.Errorf("Message = %q", apiErr.Message)
		}
	})
}

func TestValidateStruct_NonStruct(t *testing.T) {
	t.Parallel()

	verr := ValidateStruct("not a struct")
	if verr == nil || verr.Errors()[0].Field() != "unknown" {
		t.Errorf("ValidateStruct(string) = %v, want unknown-field error", verr)
	}
}
