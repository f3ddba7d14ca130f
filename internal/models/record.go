// internal/models/record.go
package models

type FoodClass string

const (
	ClassMeal     FoodClass = "Meal"
	ClassSnack    FoodClass = "Snack"
	ClassBeverage FoodClass = "Beverage"
)

// Valid reports whether c is one of the three known classes. Matching is
// case-sensitive: "meal" is not a Meal.
func (c FoodClass) Valid() bool {
	switch c {
	case ClassMeal, ClassSnack, ClassBeverage:
		return true
	}
	return false
}

// RawRecord is one parsed input row. Records are never mutated after load.
type RawRecord struct {
	Day       int       `json:"day"`
	Hour      int       `json:"hour"`
	Food      string    `json:"food"`
	Class     FoodClass `json:"class,omitempty"`
	Calories  float64   `json:"calories"`
	Carbs     float64   `json:"carbs"`
	Sugar     float64   `json:"sugar"`
	TimeOfDay string    `json:"time_of_day,omitempty"`
}

// Key identifies a (day, hour) slot.
type Key struct {
	Day  int `json:"day"`
	Hour int `json:"hour"`
}

func (r RawRecord) Key() Key {
	return Key{Day: r.Day, Hour: r.Hour}
}
