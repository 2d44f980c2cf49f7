// Menurec - Restaurant Menu Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/menurec

package recommend

import (
	"strings"
	"unicode"
)

// NormalizeCustomer reduces a raw customer identifier to its digits,
// so "+51 999-123" and "51999123" map to the same key. Identifiers without
// any digit map to UnknownCustomerKey. Normalizing a key twice is a no-op.
func NormalizeCustomer(raw string) string {
	if raw == UnknownCustomerKey {
		return raw
	}

	var b strings.Builder
	b.Grow(len(raw))
	for _, r := range raw {
		if unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}

	if b.Len() == 0 {
		return UnknownCustomerKey
	}
	return b.String()
}
