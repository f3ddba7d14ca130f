// internal/query/snapshot.go
package query

import (
	"slices"

	"mcp-meal-map/internal/aggregate"
	"mcp-meal-map/internal/models"
)

// Stats summarises a snapshot. MaxMealCount is the upper bound of the
// heatmap colour domain.
type Stats struct {
	Records        int `json:"records"`
	Slots          int `json:"slots"`
	NutritionSlots int `json:"nutrition_slots"`
	MaxMealCount   int `json:"max_meal_count"`
}

// Snapshot holds the aggregated collections of one load. It is built once
// and never modified, so concurrent readers need no locking. Accessors
// return copies.
type Snapshot struct {
	frequency []models.FrequencyEntry
	hourly    []models.HourFrequencyEntry
	nutrition []models.NutritionEntry
	timeOfDay []models.TimeOfDayCount
	records   int

	freqIndex map[models.Key]int
	nutrIndex map[models.Key]int
}

// Build aggregates the frequency records and the nutrition records, which
// may come from different sources.
func Build(freqRecords, nutrRecords []models.RawRecord) *Snapshot {
	freq := aggregate.AggregateFrequency(freqRecords)
	return NewSnapshot(freq, aggregate.AggregateNutrition(nutrRecords), aggregate.TimeOfDay(freqRecords), len(freqRecords))
}

func NewSnapshot(freq aggregate.FrequencyResult, nutr []models.NutritionEntry, tod []models.TimeOfDayCount, records int) *Snapshot {
	s := &Snapshot{
		frequency: slices.Clone(freq.ByDayHour),
		hourly:    slices.Clone(freq.ByHour),
		nutrition: slices.Clone(nutr),
		timeOfDay: slices.Clone(tod),
		records:   records,
		freqIndex: make(map[models.Key]int, len(freq.ByDayHour)),
		nutrIndex: make(map[models.Key]int, len(nutr)),
	}

	for i, e := range s.frequency {
		if _, dup := s.freqIndex[e.Key()]; !dup {
			s.freqIndex[e.Key()] = i
		}
	}
	for i, e := range s.nutrition {
		if _, dup := s.nutrIndex[e.Key()]; !dup {
			s.nutrIndex[e.Key()] = i
		}
	}
	return s
}

// Empty is the snapshot of a failed or blank load.
func Empty() *Snapshot {
	return NewSnapshot(aggregate.FrequencyResult{}, nil, nil, 0)
}

func (s *Snapshot) Frequency() []models.FrequencyEntry {
	return nonNil(slices.Clone(s.frequency))
}

func (s *Snapshot) HourlyFrequency() []models.HourFrequencyEntry {
	return nonNil(slices.Clone(s.hourly))
}

func (s *Snapshot) Nutrition() []models.NutritionEntry {
	return nonNil(slices.Clone(s.nutrition))
}

func (s *Snapshot) TimeOfDay() []models.TimeOfDayCount {
	return nonNil(slices.Clone(s.timeOfDay))
}

// Lookup is the indexed equivalent of the package-level Lookup.
func (s *Snapshot) Lookup(key models.Key) models.MergedView {
	var f *models.FrequencyEntry
	if i, ok := s.freqIndex[key]; ok {
		f = &s.frequency[i]
	}
	var n *models.NutritionEntry
	if i, ok := s.nutrIndex[key]; ok {
		n = &s.nutrition[i]
	}
	return merge(key, f, n)
}

func (s *Snapshot) Stats() Stats {
	st := Stats{
		Records:        s.records,
		Slots:          len(s.frequency),
		NutritionSlots: len(s.nutrition),
	}
	for _, e := range s.frequency {
		st.MaxMealCount = max(st.MaxMealCount, e.MealCount)
	}
	return st
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
