package pipeline

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mcp-meal-map/internal/loader"
	"mcp-meal-map/internal/metrics"
	"mcp-meal-map/internal/models"
)

type fakeLoader struct {
	data  map[string][]models.RawRecord
	errs  map[string]error
	calls []string
}

func (f *fakeLoader) Load(_ context.Context, source string) ([]models.RawRecord, error) {
	f.calls = append(f.calls, source)
	if err, ok := f.errs[source]; ok {
		return nil, err
	}
	return f.data[source], nil
}

func TestPipeline_Run(t *testing.T) {
	fl := &fakeLoader{data: map[string][]models.RawRecord{
		"data1.csv": {
			{Day: 1, Hour: 8, Food: "eggs"},
			{Day: 1, Hour: 8, Food: "eggs"},
			{Day: 1, Hour: 8, Food: "toast"},
		},
		"avg_foods.csv": {
			{Day: 1, Hour: 8, Food: "eggs", Class: models.ClassMeal, Calories: 155},
		},
	}}

	session := New(fl, metrics.New(prometheus.NewRegistry()), nil).Run(context.Background(), Sources{
		Frequency: "data1.csv",
		Nutrition: "avg_foods.csv",
	})

	require.True(t, session.Healthy())
	assert.NotEmpty(t, session.ID)
	assert.Equal(t, []string{"data1.csv", "avg_foods.csv"}, fl.calls)

	view := session.Snapshot.Lookup(models.Key{Day: 1, Hour: 8})
	assert.Equal(t, 3, view.MealCount)
	assert.Equal(t, "eggs", view.Meal.Label)
	assert.Equal(t, 155.0, view.Meal.Calories)
}

func TestPipeline_SharedSource(t *testing.T) {
	fl := &fakeLoader{data: map[string][]models.RawRecord{
		"meals.csv": {{Day: 2, Hour: 12, Food: "burrito", Class: models.ClassMeal, Calories: 500}},
	}}

	session := New(fl, nil, nil).Run(context.Background(), Sources{Frequency: "meals.csv"})

	require.True(t, session.Healthy())
	assert.Equal(t, []string{"meals.csv"}, fl.calls)
	view := session.Snapshot.Lookup(models.Key{Day: 2, Hour: 12})
	assert.Equal(t, 1, view.MealCount)
	assert.Equal(t, 500.0, view.Meal.Calories)
}

func TestPipeline_FailureAbortsSession(t *testing.T) {
	loadErr := &loader.LoadError{Source: "avg_foods.csv", StatusCode: 503, Err: errors.New("Service Unavailable")}
	fl := &fakeLoader{
		data: map[string][]models.RawRecord{"data1.csv": {{Day: 1, Hour: 8, Food: "eggs"}}},
		errs: map[string]error{"avg_foods.csv": loadErr},
	}

	session := New(fl, nil, nil).Run(context.Background(), Sources{Frequency: "data1.csv", Nutrition: "avg_foods.csv"})

	assert.False(t, session.Healthy())
	var le *loader.LoadError
	require.ErrorAs(t, session.Err, &le)
	assert.Equal(t, 503, le.StatusCode)

	assert.Empty(t, session.Snapshot.Frequency(), "no partial aggregation")
	assert.False(t, session.Snapshot.Lookup(models.Key{Day: 1, Hour: 8}).HasFrequency)
}

func TestPipeline_RealLoader(t *testing.T) {
	dir := t.TempDir()
	freq := filepath.Join(dir, "data1.csv")
	nutr := filepath.Join(dir, "avg_foods.csv")
	require.NoError(t, os.WriteFile(freq, []byte("day,hour,simplified_food\n2,12,burrito\n"), 0644))
	require.NoError(t, os.WriteFile(nutr, []byte("day,hour,simplified_food,class,calorie,carb,sugar\n2,12,burrito,Meal,500,60,4\n"), 0644))

	session := New(loader.New(loader.Options{}, nil), nil, nil).Run(context.Background(), Sources{Frequency: freq, Nutrition: nutr})
	require.NoError(t, session.Err)

	view := session.Snapshot.Lookup(models.Key{Day: 2, Hour: 12})
	assert.Equal(t, models.NutrientSummary{Label: "burrito", Calories: 500, Carbs: 60, Sugar: 4}, view.Meal)
	assert.Equal(t, models.Sentinel, view.Snack.Label)
	assert.Equal(t, models.Sentinel, view.Beverage.Label)
}

func TestReason(t *testing.T) {
	assert.Equal(t, "parse", reason(&loader.ParseError{Source: "x", Err: errors.New("bad")}))
	assert.Equal(t, "load", reason(&loader.LoadError{Source: "x", Err: errors.New("down")}))
}
