// internal/query/lookup.go
package query

import "mcp-meal-map/internal/models"

// Lookup merges the frequency and nutrition entries for key. Only the
// first match of each collection is used. A key without frequency data
// yields a view with HasFrequency false; a key without nutrition data gets
// sentinel summaries with zero sums.
func Lookup(key models.Key, freq []models.FrequencyEntry, nutr []models.NutritionEntry) models.MergedView {
	var f *models.FrequencyEntry
	for i := range freq {
		if freq[i].Key() == key {
			f = &freq[i]
			break
		}
	}

	var n *models.NutritionEntry
	for i := range nutr {
		if nutr[i].Key() == key {
			n = &nutr[i]
			break
		}
	}

	return merge(key, f, n)
}

// EmptyView is the view of a slot with no data at all.
func EmptyView(key models.Key) models.MergedView {
	return merge(key, nil, nil)
}

func merge(key models.Key, f *models.FrequencyEntry, n *models.NutritionEntry) models.MergedView {
	view := models.MergedView{
		Day:      key.Day,
		Hour:     key.Hour,
		Meal:     models.EmptySummary(),
		Snack:    models.EmptySummary(),
		Beverage: models.EmptySummary(),
	}

	if f != nil {
		view.HasFrequency = true
		view.MealCount = f.MealCount
		view.TopFood = f.TopFood
		view.TopFoodCount = f.TopFoodCount
	}

	if n != nil {
		view.HasNutrition = true
		view.Meal = n.Meal
		view.Snack = n.Snack
		view.Beverage = n.Beverage
	}

	return view
}
