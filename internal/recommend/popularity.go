// Menurec - Restaurant Menu Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/menurec

package recommend

import "sort"

// PopularityIndex ranks each restaurant's items by how often they were ordered.
// It provides the cold-start answer for customers the classifier has never seen.
type PopularityIndex struct {
	ranked      map[string][]string
	placeholder string
}

// itemCount tracks an item's frequency and where it first appeared.
type itemCount struct {
	name  string
	count int
	first int
}

// NewPopularityIndex counts items per restaurant. Ties are broken by the
// position of each item's first appearance in records.
func NewPopularityIndex(records []InteractionRecord, placeholder string) *PopularityIndex {
	counts := make(map[string]map[string]*itemCount)
	for i := range records {
		rec := &records[i]
		if rec.ItemName == "" {
			continue
		}
		items, ok := counts[rec.RestaurantID]
		if !ok {
			items = make(map[string]*itemCount)
			counts[rec.RestaurantID] = items
		}
		c, ok := items[rec.ItemName]
		if !ok {
			c = &itemCount{name: rec.ItemName, first: i}
			items[rec.ItemName] = c
		}
		c.count++
	}

	ranked := make(map[string][]string, len(counts))
	for restaurantID, items := range counts {
		list := make([]*itemCount, 0, len(items))
		for _, c := range items {
			list = append(list, c)
		}
		sort.Slice(list, func(i, j int) bool {
			if list[i].count != list[j].count {
				return list[i].count > list[j].count
			}
			return list[i].first < list[j].first
		})
		names := make([]string, len(list))
		for i, c := range list {
			names[i] = c.name
		}
		ranked[restaurantID] = names
	}

	return &PopularityIndex{ranked: ranked, placeholder: placeholder}
}

// TopItems returns up to n items for the restaurant, most popular first.
// A restaurant without rows gets the single placeholder item.
func (p *PopularityIndex) TopItems(restaurantID string, n int) []string {
	if n <= 0 {
		n = 3
	}
	var names []string
	if p != nil {
		names = p.ranked[restaurantID]
	}
	if len(names) == 0 {
		placeholder := "Menú de la Casa"
		if p != nil && p.placeholder != "" {
			placeholder = p.placeholder
		}
		return []string{placeholder}
	}
	if len(names) > n {
		names = names[:n]
	}
	out := make([]string, len(names))
	copy(out, names)
	return out
}

// Restaurants returns the number of restaurants with at least one item.
func (p *PopularityIndex) Restaurants() int {
	if p == nil {
		return 0
	}
	return len(p.ranked)
}
