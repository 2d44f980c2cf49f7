// Menurec - Restaurant Menu Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/menurec

package recommend

import (
	"errors"
	"fmt"
)

// Sentinel errors for errors.Is checks.
var (
	// ErrUnknownCategory is matched by every *UnknownCategoryError.
	ErrUnknownCategory = errors.New("unknown category")

	// ErrPredictionFailure is matched by every *PredictionFailure.
	ErrPredictionFailure = errors.New("prediction failure")
)

// UnknownCategoryError reports a value outside a closed training vocabulary.
type UnknownCategoryError struct {
	Field string
	Value string
}

func (e *UnknownCategoryError) Error() string {
	return fmt.Sprintf("unknown %s %q", e.Field, e.Value)
}

// Is makes errors.Is(err, ErrUnknownCategory) succeed.
func (e *UnknownCategoryError) Is(target error) bool {
	return target == ErrUnknownCategory
}

// Failure classes reported by PredictionFailure.
const (
	FailureNonFiniteInput  = "non-finite input"
	FailureNonFiniteOutput = "non-finite output"
	FailureEncoding        = "encoding fault"
	FailureInternal        = "internal fault"
)

// PredictionFailure is a recoverable classifier fault. Class is safe to show
// to end users; Cause carries the detail for logs.
type PredictionFailure struct {
	Class string
	Cause error
}

func (e *PredictionFailure) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("prediction failure (%s): %v", e.Class, e.Cause)
	}
	return fmt.Sprintf("prediction failure (%s)", e.Class)
}

// Unwrap returns the underlying cause.
func (e *PredictionFailure) Unwrap() error {
	return e.Cause
}

// Is makes errors.Is(err, ErrPredictionFailure) succeed.
func (e *PredictionFailure) Is(target error) bool {
	return target == ErrPredictionFailure
}
