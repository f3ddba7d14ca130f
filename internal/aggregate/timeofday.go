// internal/aggregate/timeofday.go
package aggregate

import "mcp-meal-map/internal/models"

// TimeOfDay counts records per time_of_day label. Records without a label
// are skipped.
func TimeOfDay(records []models.RawRecord) []models.TimeOfDayCount {
	counts := []models.TimeOfDayCount{}
	index := make(map[string]int)
	for _, r := range records {
		if r.TimeOfDay == "" {
			continue
		}
		i, ok := index[r.TimeOfDay]
		if !ok {
			i = len(counts)
			index[r.TimeOfDay] = i
			counts = append(counts, models.TimeOfDayCount{Label: r.TimeOfDay})
		}
		counts[i].Count++
	}
	return counts
}
