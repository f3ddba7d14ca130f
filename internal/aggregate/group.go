// internal/aggregate/group.go

// Package aggregate derives per-slot summaries from loaded meal records.
// Every function is pure: the same records always give the same output,
// and groups appear in the order their key is first seen in the input.
package aggregate

import "mcp-meal-map/internal/models"

// groupBy partitions records by key. Keys are returned in first-seen order
// and each group keeps input order.
func groupBy[K comparable](records []models.RawRecord, key func(models.RawRecord) K) ([]K, map[K][]models.RawRecord) {
	var keys []K
	groups := make(map[K][]models.RawRecord)
	for _, r := range records {
		k := key(r)
		if _, seen := groups[k]; !seen {
			keys = append(keys, k)
		}
		groups[k] = append(groups[k], r)
	}
	return keys, groups
}

func byDay(r models.RawRecord) int  { return r.Day }
func byHour(r models.RawRecord) int { return r.Hour }
func bySlot(r models.RawRecord) models.Key {
	return r.Key()
}
