// internal/loader/classmap.go
package loader

import (
	"encoding/json"
	"fmt"
	"os"

	"mcp-meal-map/internal/models"
)

// LoadClassMap reads a JSON object mapping food labels to classes, the
// output of the manual food labelling step.
func LoadClassMap(path string) (map[string]models.FoodClass, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read class map: %w", err)
	}

	var raw map[string]string
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse class map: %w", err)
	}

	classes := make(map[string]models.FoodClass, len(raw))
	for food, class := range raw {
		c := models.FoodClass(class)
		if !c.Valid() {
			return nil, fmt.Errorf("class map: food %q has unknown class %q", food, class)
		}
		classes[food] = c
	}
	return classes, nil
}
