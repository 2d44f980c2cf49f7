// Menurec - Restaurant Menu Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/menurec

package recommend

import (
	"fmt"
	"sort"
)

// Encoder maps a closed vocabulary of strings to dense integer codes.
// Codes follow the lexicographic order of the values.
type Encoder struct {
	field   string
	classes []string
	index   map[string]int
}

// NewEncoder builds an encoder over the distinct values. The field name is
// only used in error messages.
func NewEncoder(field string, values []string) *Encoder {
	index := make(map[string]int, len(values))
	classes := make([]string, 0, len(values))
	for _, v := range values {
		if _, ok := index[v]; ok {
			continue
		}
		index[v] = 0
		classes = append(classes, v)
	}
	sort.Strings(classes)
	for i, v := range classes {
		index[v] = i
	}
	return &Encoder{field: field, classes: classes, index: index}
}

// Contains reports whether the value is part of the vocabulary.
func (e *Encoder) Contains(value string) bool {
	_, ok := e.index[value]
	return ok
}

// Encode returns the code for value or an *UnknownCategoryError.
func (e *Encoder) Encode(value string) (int, error) {
	code, ok := e.index[value]
	if !ok {
		return 0, &UnknownCategoryError{Field: e.field, Value: value}
	}
	return code, nil
}

// Decode returns the value for code.
func (e *Encoder) Decode(code int) (string, error) {
	if code < 0 || code >= len(e.classes) {
		return "", fmt.Errorf("%s code %d out of range [0,%d)", e.field, code, len(e.classes))
	}
	return e.classes[code], nil
}

// Len returns the vocabulary size.
func (e *Encoder) Len() int {
	return len(e.classes)
}

// Classes returns a copy of the vocabulary in code order.
func (e *Encoder) Classes() []string {
	out := make([]string, len(e.classes))
	copy(out, e.classes)
	return out
}
