// internal/aggregate/frequency.go
package aggregate

import "mcp-meal-map/internal/models"

type FrequencyResult struct {
	ByDayHour []models.FrequencyEntry     `json:"by_day_hour"`
	ByHour    []models.HourFrequencyEntry `json:"by_hour"`
}

// AggregateFrequency counts records per (day, hour) and per hour, and finds
// the most frequent food of each group. Groups without records are absent.
func AggregateFrequency(records []models.RawRecord) FrequencyResult {
	result := FrequencyResult{
		ByDayHour: []models.FrequencyEntry{},
		ByHour:    []models.HourFrequencyEntry{},
	}

	days, dayGroups := groupBy(records, byDay)
	for _, day := range days {
		hours, hourGroups := groupBy(dayGroups[day], byHour)
		for _, hour := range hours {
			group := hourGroups[hour]
			food, count := MostFrequent(group)
			result.ByDayHour = append(result.ByDayHour, models.FrequencyEntry{
				Day:          day,
				Hour:         hour,
				MealCount:    len(group),
				TopFood:      food,
				TopFoodCount: count,
			})
		}
	}

	hours, hourGroups := groupBy(records, byHour)
	for _, hour := range hours {
		group := hourGroups[hour]
		food, count := MostFrequent(group)
		result.ByHour = append(result.ByHour, models.HourFrequencyEntry{
			Hour:         hour,
			MealCount:    len(group),
			TopFood:      food,
			TopFoodCount: count,
		})
	}

	return result
}

// MostFrequent returns the food with the highest count. On a tie the food
// seen first in records wins.
func MostFrequent(records []models.RawRecord) (string, int) {
	var order []string
	counts := make(map[string]int)
	for _, r := range records {
		if _, seen := counts[r.Food]; !seen {
			order = append(order, r.Food)
		}
		counts[r.Food]++
	}

	var top string
	var best int
	for _, food := range order {
		if counts[food] > best {
			top, best = food, counts[food]
		}
	}
	return top, best
}
