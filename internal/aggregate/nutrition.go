// internal/aggregate/nutrition.go
package aggregate

import "mcp-meal-map/internal/models"

// AggregateNutrition sums calories, carbs and sugar per class for each
// (day, hour) slot. A class label is the food of the first record of that
// class in the slot, not the most frequent one. Records whose class is not
// exactly Meal, Snack or Beverage count toward no class.
func AggregateNutrition(records []models.RawRecord) []models.NutritionEntry {
	keys, groups := groupBy(records, bySlot)

	entries := make([]models.NutritionEntry, 0, len(keys))
	for _, key := range keys {
		group := groups[key]
		entries = append(entries, models.NutritionEntry{
			Day:      key.Day,
			Hour:     key.Hour,
			Meal:     Summarize(group, models.ClassMeal),
			Snack:    Summarize(group, models.ClassSnack),
			Beverage: Summarize(group, models.ClassBeverage),
		})
	}
	return entries
}

// Summarize sums the nutrients of the records of one class. NaN values
// propagate into the sums.
func Summarize(records []models.RawRecord, class models.FoodClass) models.NutrientSummary {
	s := models.EmptySummary()
	found := false
	for _, r := range records {
		if r.Class != class {
			continue
		}
		if !found {
			s.Label = r.Food
			found = true
		}
		s.Calories += r.Calories
		s.Carbs += r.Carbs
		s.Sugar += r.Sugar
	}
	return s
}
