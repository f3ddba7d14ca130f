package models

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFoodClass_Valid(t *testing.T) {
	tests := []struct {
		class FoodClass
		want  bool
	}{
		{ClassMeal, true},
		{ClassSnack, true},
		{ClassBeverage, true},
		{"meal", false},
		{"", false},
		{"Dessert", false},
	}

	for _, tt := range tests {
		t.Run(string(tt.class), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.class.Valid())
		})
	}
}

func TestNutrientSummary_MarshalJSON(t *testing.T) {
	s := NutrientSummary{Label: "toast", Calories: math.NaN(), Carbs: 12.5, Sugar: 0}

	data, err := json.Marshal(s)
	require.NoError(t, err)
	assert.JSONEq(t, `{"label":"toast","calories":null,"carbs":12.5,"sugar":0}`, string(data))
}

func TestEmptySummary(t *testing.T) {
	s := EmptySummary()
	assert.True(t, s.Empty())
	assert.Equal(t, Sentinel, s.Label)
	assert.Zero(t, s.Calories)
	assert.Zero(t, s.Carbs)
	assert.Zero(t, s.Sugar)
}
