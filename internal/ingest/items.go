// Menurec - Restaurant Menu Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/menurec

package ingest

import (
	"strconv"
	"strings"

	"github.com/goccy/go-json"
)

// ParseItems decodes the raw items column into a list of entries.
//
// Accepted shapes:
//   - JSON array: each element becomes one entry
//   - JSON object with an "items" key: that array is used; any other value
//     under "items" yields no entries
//   - single-quoted pseudo-JSON, e.g. ['Pizza', 'Coke']
//   - any other JSON value: a single entry with its text form
//   - anything else: a single entry holding the raw text
//
// A nil column yields no entries.
func ParseItems(raw *string) []string {
	if raw == nil {
		return nil
	}
	text := *raw

	parsed, ok := decodeJSON(text)
	if !ok && strings.Contains(text, "'") {
		parsed, ok = decodeJSON(strings.ReplaceAll(text, "'", `"`))
	}
	if !ok {
		return []string{text}
	}

	switch v := parsed.(type) {
	case []any:
		return itemStrings(v)
	case map[string]any:
		inner, found := v["items"]
		if !found {
			return []string{text}
		}
		if list, isList := inner.([]any); isList {
			return itemStrings(list)
		}
		return nil
	case nil:
		return nil
	default:
		return []string{itemString(v)}
	}
}

// decodeJSON unmarshals text into a generic value.
func decodeJSON(text string) (any, bool) {
	var v any
	if err := json.Unmarshal([]byte(text), &v); err != nil {
		return nil, false
	}
	return v, true
}

func itemStrings(list []any) []string {
	out := make([]string, 0, len(list))
	for _, elem := range list {
		out = append(out, itemString(elem))
	}
	return out
}

// itemString renders one decoded JSON value as an item entry.
func itemString(v any) string {
	switch x := v.(type) {
	case string:
		return x
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(x)
	case nil:
		return ""
	default:
		data, err := json.Marshal(x)
		if err != nil {
			return ""
		}
		return string(data)
	}
}
