// internal/loader/parse.go
package loader

import (
	"bytes"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/hashicorp/go-multierror"

	"mcp-meal-map/internal/models"
)

// Column names of the meal-log format.
const (
	ColDay       = "day"
	ColHour      = "hour"
	ColFood      = "simplified_food"
	ColClass     = "class"
	ColCalorie   = "calorie"
	ColCarb      = "carb"
	ColSugar     = "sugar"
	ColTimeOfDay = "time_of_day"
)

var requiredColumns = []string{ColDay, ColHour, ColFood}

type parser struct {
	source   string
	strict   bool
	classMap map[string]models.FoodClass
	columns  map[string]int
}

// parseRows turns a header-first table into records. Day and hour must be
// integers in every mode. Nutrients that fail to parse become NaN unless
// strict is set, in which case the row is rejected. All row errors are
// collected before returning.
func (p *parser) parseRows(rows [][]string) ([]models.RawRecord, error) {
	if len(rows) == 0 {
		return nil, &ParseError{Source: p.source, Line: 1, Err: errors.New("missing header row")}
	}

	p.columns = make(map[string]int, len(rows[0]))
	for i, name := range rows[0] {
		name = strings.ToLower(strings.TrimSpace(string(bytes.TrimPrefix([]byte(name), utf8BOM))))
		if _, dup := p.columns[name]; !dup {
			p.columns[name] = i
		}
	}

	var result *multierror.Error
	for _, col := range requiredColumns {
		if _, ok := p.columns[col]; !ok {
			result = multierror.Append(result, &ParseError{Source: p.source, Line: 1, Column: col, Err: ErrMissingColumn})
		}
	}
	if result != nil {
		return nil, result.ErrorOrNil()
	}

	records := make([]models.RawRecord, 0, len(rows)-1)
	for i, row := range rows[1:] {
		if blank(row) {
			continue
		}
		rec, errs := p.parseRow(i+2, row)
		if len(errs) > 0 {
			result = multierror.Append(result, errs...)
			continue
		}
		records = append(records, rec)
	}

	if err := result.ErrorOrNil(); err != nil {
		return nil, err
	}
	return records, nil
}

func (p *parser) parseRow(line int, row []string) (models.RawRecord, []error) {
	var errs []error
	fail := func(col, value string, err error) {
		errs = append(errs, &ParseError{Source: p.source, Line: line, Column: col, Value: value, Err: err})
	}

	rec := models.RawRecord{
		Food:      p.cell(row, ColFood),
		Class:     models.FoodClass(p.cell(row, ColClass)),
		TimeOfDay: p.cell(row, ColTimeOfDay),
	}

	var err error
	if rec.Day, err = parseInt(p.cell(row, ColDay)); err != nil {
		fail(ColDay, p.cell(row, ColDay), err)
	} else if p.strict && rec.Day < 1 {
		fail(ColDay, p.cell(row, ColDay), errors.New("day must be at least 1"))
	}
	if rec.Hour, err = parseInt(p.cell(row, ColHour)); err != nil {
		fail(ColHour, p.cell(row, ColHour), err)
	} else if p.strict && (rec.Hour < 0 || rec.Hour > 23) {
		fail(ColHour, p.cell(row, ColHour), errors.New("hour must be within 0..23"))
	}

	nutrient := func(col string) float64 {
		raw := p.cell(row, col)
		v, err := parseNutrient(raw)
		if err == nil && p.strict && v < 0 {
			err = errors.New("must not be negative")
		}
		if err != nil && p.strict {
			fail(col, raw, err)
		}
		return v
	}
	rec.Calories = nutrient(ColCalorie)
	rec.Carbs = nutrient(ColCarb)
	rec.Sugar = nutrient(ColSugar)

	if rec.Class == "" {
		if c, ok := p.classMap[rec.Food]; ok {
			rec.Class = c
		}
	}
	if p.strict && rec.Class != "" && !rec.Class.Valid() {
		fail(ColClass, string(rec.Class), fmt.Errorf("unknown class, want %s, %s or %s",
			models.ClassMeal, models.ClassSnack, models.ClassBeverage))
	}

	return rec, errs
}

func (p *parser) cell(row []string, col string) string {
	i, ok := p.columns[col]
	if !ok || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

func blank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

// parseInt accepts integral floats such as "8.0", which spreadsheet and
// SQLite REAL columns produce.
func parseInt(s string) (int, error) {
	if s == "" {
		return 0, errors.New("value is required")
	}
	if n, err := strconv.Atoi(s); err == nil {
		return n, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) {
		return 0, errors.New("not an integer")
	}
	return int(f), nil
}

// parseNutrient returns 0 for an empty cell and NaN with an error for text
// that is not a finite number.
func parseNutrient(s string) (float64, error) {
	if s == "" {
		return 0, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return math.NaN(), errors.New("not a number")
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return math.NaN(), errors.New("not a finite number")
	}
	return f, nil
}
