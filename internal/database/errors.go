// Menurec - Restaurant Menu Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/menurec

package database

import (
	"errors"
	"io"
)

var (
	// ErrSourceUnavailable is returned when orders cannot be read, either
	// because the query failed or the circuit breaker is open.
	ErrSourceUnavailable = errors.New("order source unavailable")

	// ErrUnsupportedDriver is returned for an unknown driver name.
	ErrUnsupportedDriver = errors.New("unsupported source driver")

	// ErrInvalidTable is returned when the table name is not a plain identifier.
	ErrInvalidTable = errors.New("invalid table name")
)

// closeQuietly closes a resource on an error path where the Close error
// is not actionable.
func closeQuietly(closer io.Closer) {
	if closer != nil {
		_ = closer.Close()
	}
}
