// Menurec - Restaurant Menu Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/menurec

package ingest

import (
	"strings"
	"unicode"
)

// DefaultBlacklist returns the receipt tokens that mark an entry as not
// being a menu item.
func DefaultBlacklist() []string {
	return []string{
		"Total:", "Pago:", "Vuelto:", "Envio", "Recargo",
		"Son:", "Dirección", "Nombre:", "Fecha:", "Mesa:",
	}
}

// Cleaner normalizes item entries and removes receipt noise.
type Cleaner struct {
	blacklist []string
}

// NewCleaner creates a cleaner. Blacklist tokens match case-insensitively
// anywhere in an entry.
func NewCleaner(blacklist []string) *Cleaner {
	lowered := make([]string, 0, len(blacklist))
	for _, token := range blacklist {
		if token = strings.TrimSpace(token); token != "" {
			lowered = append(lowered, strings.ToLower(token))
		}
	}
	return &Cleaner{blacklist: lowered}
}

// Clean returns the cleaned entries and the number dropped by the
// blacklist. Entries that end up empty are dropped without being counted.
func (c *Cleaner) Clean(entries []string) (cleaned []string, blacklisted int) {
	cleaned = make([]string, 0, len(entries))
	for _, entry := range entries {
		item := CleanItem(entry)
		if item == "" {
			continue
		}
		if c.isBlacklisted(item) {
			blacklisted++
			continue
		}
		cleaned = append(cleaned, item)
	}
	return cleaned, blacklisted
}

func (c *Cleaner) isBlacklisted(item string) bool {
	lower := strings.ToLower(item)
	for _, token := range c.blacklist {
		if strings.Contains(lower, token) {
			return true
		}
	}
	return false
}

// CleanItem trims an entry, drops one leading '*' and a leading quantity
// token such as "2x ".
func CleanItem(entry string) string {
	s := strings.TrimSpace(entry)
	if strings.HasPrefix(s, "*") {
		s = strings.TrimSpace(s[1:])
	}

	if head, rest, found := strings.Cut(s, " "); found && isQuantity(head) {
		s = strings.TrimSpace(rest)
	}
	return s
}

// isQuantity reports whether token is digits followed by 'x', like "12x".
func isQuantity(token string) bool {
	digits, ok := strings.CutSuffix(token, "x")
	if !ok || digits == "" {
		return false
	}
	for _, r := range digits {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}
