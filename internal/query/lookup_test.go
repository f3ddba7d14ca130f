package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mcp-meal-map/internal/aggregate"
	"mcp-meal-map/internal/models"
)

var (
	frequency = []models.FrequencyEntry{
		{Day: 1, Hour: 8, MealCount: 3, TopFood: "eggs", TopFoodCount: 2},
		{Day: 2, Hour: 12, MealCount: 1, TopFood: "burrito", TopFoodCount: 1},
		{Day: 4, Hour: 21, MealCount: 2, TopFood: "popcorn", TopFoodCount: 2},
	}
	nutrition = []models.NutritionEntry{
		{
			Day: 1, Hour: 8,
			Meal:     models.NutrientSummary{Label: "eggs", Calories: 310, Carbs: 2.2, Sugar: 2.2},
			Snack:    models.EmptySummary(),
			Beverage: models.NutrientSummary{Label: "coffee", Calories: 2},
		},
		{
			Day: 1, Hour: 8,
			Meal:     models.NutrientSummary{Label: "duplicate", Calories: 1},
			Snack:    models.EmptySummary(),
			Beverage: models.EmptySummary(),
		},
		{
			Day: 3, Hour: 7,
			Meal:     models.NutrientSummary{Label: "oatmeal", Calories: 150},
			Snack:    models.EmptySummary(),
			Beverage: models.EmptySummary(),
		},
	}
)

func TestLookup(t *testing.T) {
	tests := []struct {
		name          string
		key           models.Key
		wantFrequency bool
		wantNutrition bool
		wantMealLabel string
		wantMealCount int
	}{
		{name: "both present, first nutrition match wins", key: models.Key{Day: 1, Hour: 8}, wantFrequency: true, wantNutrition: true, wantMealLabel: "eggs", wantMealCount: 3},
		{name: "frequency only", key: models.Key{Day: 2, Hour: 12}, wantFrequency: true, wantMealLabel: models.Sentinel, wantMealCount: 1},
		{name: "nutrition only", key: models.Key{Day: 3, Hour: 7}, wantNutrition: true, wantMealLabel: "oatmeal"},
		{name: "miss", key: models.Key{Day: 9, Hour: 23}, wantMealLabel: models.Sentinel},
	}

	snapshot := NewSnapshot(frequencyResult(), nutrition, nil, 6)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, view := range []models.MergedView{
				Lookup(tt.key, frequency, nutrition),
				snapshot.Lookup(tt.key),
			} {
				assert.Equal(t, tt.key.Day, view.Day)
				assert.Equal(t, tt.key.Hour, view.Hour)
				assert.Equal(t, tt.wantFrequency, view.HasFrequency)
				assert.Equal(t, tt.wantNutrition, view.HasNutrition)
				assert.Equal(t, tt.wantMealLabel, view.Meal.Label)
				assert.Equal(t, tt.wantMealCount, view.MealCount)
			}
		})
	}
}

func TestLookup_MissIsDefaultView(t *testing.T) {
	key := models.Key{Day: 9, Hour: 23}

	view := Lookup(key, frequency, nutrition)

	assert.Equal(t, EmptyView(key), view)
	for _, s := range []models.NutrientSummary{view.Meal, view.Snack, view.Beverage} {
		assert.Equal(t, models.Sentinel, s.Label)
		assert.Zero(t, s.Calories)
		assert.Zero(t, s.Carbs)
		assert.Zero(t, s.Sugar)
	}
	assert.Empty(t, view.TopFood)

	assert.Equal(t, view, Lookup(key, nil, nil))
}

func TestSnapshot_ReadOnly(t *testing.T) {
	snapshot := NewSnapshot(frequencyResult(), nutrition, []models.TimeOfDayCount{{Label: "morning", Count: 3}}, 6)

	got := snapshot.Frequency()
	got[0].TopFood = "mutated"
	tod := snapshot.TimeOfDay()
	tod[0].Count = 99

	assert.Equal(t, "eggs", snapshot.Frequency()[0].TopFood)
	assert.Equal(t, "eggs", snapshot.Lookup(models.Key{Day: 1, Hour: 8}).TopFood)
	assert.Equal(t, 3, snapshot.TimeOfDay()[0].Count)
}

func TestSnapshot_Stats(t *testing.T) {
	snapshot := NewSnapshot(frequencyResult(), nutrition, nil, 6)

	assert.Equal(t, Stats{Records: 6, Slots: 3, NutritionSlots: 3, MaxMealCount: 3}, snapshot.Stats())
	assert.Equal(t, Stats{}, Empty().Stats())
}

func TestBuild(t *testing.T) {
	freqRecords := []models.RawRecord{
		{Day: 1, Hour: 8, Food: "eggs", TimeOfDay: "morning"},
		{Day: 1, Hour: 8, Food: "eggs", TimeOfDay: "morning"},
		{Day: 1, Hour: 8, Food: "toast", TimeOfDay: "morning"},
	}
	nutrRecords := []models.RawRecord{
		{Day: 1, Hour: 8, Food: "eggs", Class: models.ClassMeal, Calories: 155},
		{Day: 1, Hour: 8, Food: "orange juice", Class: models.ClassBeverage, Calories: 110},
	}

	snapshot := Build(freqRecords, nutrRecords)

	view := snapshot.Lookup(models.Key{Day: 1, Hour: 8})
	assert.Equal(t, 3, view.MealCount)
	assert.Equal(t, "eggs", view.TopFood)
	assert.Equal(t, 2, view.TopFoodCount)
	assert.Equal(t, "orange juice", view.Beverage.Label)
	assert.True(t, view.Snack.Empty())

	require.Len(t, snapshot.TimeOfDay(), 1)
	assert.Equal(t, 3, snapshot.TimeOfDay()[0].Count)
}

func TestEmptySnapshot(t *testing.T) {
	s := Empty()
	assert.NotNil(t, s.Frequency())
	assert.Empty(t, s.Frequency())
	assert.Empty(t, s.HourlyFrequency())
	assert.Empty(t, s.Nutrition())
	assert.Empty(t, s.TimeOfDay())
	assert.False(t, s.Lookup(models.Key{Day: 1, Hour: 1}).HasFrequency)
}

func frequencyResult() aggregate.FrequencyResult {
	return aggregate.FrequencyResult{ByDayHour: frequency}
}
