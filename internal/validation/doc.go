// Menurec - Restaurant Menu Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/menurec

// Package validation wraps go-playground/validator v10 with a shared
// validator instance and the API's VALIDATION_ERROR envelope.
//
// Two tags are added to the built-in set:
//   - notblank: string is not empty after trimming whitespace
//   - finite: float is neither NaN nor infinite
//
// Error field names come from json tags, so a failure on
//
//	Hour *int `json:"hour" validate:"omitempty,gte=0,lte=23"`
//
// is reported as "hour must be less than or equal to 23".
package validation
