// internal/models/summary.go
package models

import (
	"encoding/json"
	"math"
)

// Sentinel marks a class with no records in a slot.
const Sentinel = "no info available"

type FrequencyEntry struct {
	Day          int    `json:"day"`
	Hour         int    `json:"hour"`
	MealCount    int    `json:"meal_count"`
	TopFood      string `json:"top_food"`
	TopFoodCount int    `json:"top_food_count"`
}

func (e FrequencyEntry) Key() Key {
	return Key{Day: e.Day, Hour: e.Hour}
}

type HourFrequencyEntry struct {
	Hour         int    `json:"hour"`
	MealCount    int    `json:"meal_count"`
	TopFood      string `json:"top_food"`
	TopFoodCount int    `json:"top_food_count"`
}

type NutrientSummary struct {
	Label    string  `json:"label"`
	Calories float64 `json:"calories"`
	Carbs    float64 `json:"carbs"`
	Sugar    float64 `json:"sugar"`
}

// EmptySummary is the summary of a class with zero records.
func EmptySummary() NutrientSummary {
	return NutrientSummary{Label: Sentinel}
}

// Empty reports whether the summary carries the sentinel label.
func (s NutrientSummary) Empty() bool {
	return s.Label == Sentinel
}

// MarshalJSON writes NaN sums as null; encoding/json refuses NaN.
func (s NutrientSummary) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Label    string   `json:"label"`
		Calories *float64 `json:"calories"`
		Carbs    *float64 `json:"carbs"`
		Sugar    *float64 `json:"sugar"`
	}{
		Label:    s.Label,
		Calories: finite(s.Calories),
		Carbs:    finite(s.Carbs),
		Sugar:    finite(s.Sugar),
	})
}

func finite(v float64) *float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}

type NutritionEntry struct {
	Day      int             `json:"day"`
	Hour     int             `json:"hour"`
	Meal     NutrientSummary `json:"meal"`
	Snack    NutrientSummary `json:"snack"`
	Beverage NutrientSummary `json:"beverage"`
}

func (e NutritionEntry) Key() Key {
	return Key{Day: e.Day, Hour: e.Hour}
}

// TimeOfDayCount is the number of records carrying a time_of_day label.
type TimeOfDayCount struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

// MergedView is the frequency and nutrition data for one slot, as handed
// to presentation. A view with HasFrequency false is the normal result for
// a slot without data.
type MergedView struct {
	Day          int             `json:"day"`
	Hour         int             `json:"hour"`
	HasFrequency bool            `json:"has_frequency"`
	HasNutrition bool            `json:"has_nutrition"`
	MealCount    int             `json:"meal_count"`
	TopFood      string          `json:"top_food"`
	TopFoodCount int             `json:"top_food_count"`
	Meal         NutrientSummary `json:"meal"`
	Snack        NutrientSummary `json:"snack"`
	Beverage     NutrientSummary `json:"beverage"`
}
