package service

import (
	"encoding/json"
	"errors"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/pensao-tracker/internal/models"
)

var errBadValue = errors.New("bad value")

// Request bodies carry loosely typed JSON: amounts and references may arrive
// as numbers or numeric strings. These helpers normalise them.

// isMissing reports whether a required field is absent or empty.
func isMissing(v interface{}) bool {
	switch x := v.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(x) == ""
	}
	return false
}

func parseFloat(v interface{}) (float64, error) {
	var f float64
	switch x := v.(type) {
	case float64:
		f = x
	case json.Number:
		parsed, err := x.Float64()
		if err != nil {
			return 0, errBadValue
		}
		f = parsed
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(x), 64)
		if err != nil {
			return 0, errBadValue
		}
		f = parsed
	case int:
		f = float64(x)
	default:
		return 0, errBadValue
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, errBadValue
	}
	return f, nil
}

func parseInt(v interface{}) (int, error) {
	switch x := v.(type) {
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(x))
		if err != nil {
			return 0, errBadValue
		}
		return n, nil
	case int:
		return x, nil
	}
	f, err := parseFloat(v)
	if err != nil {
		return 0, err
	}
	if f != math.Trunc(f) || math.Abs(f) > math.MaxInt32 {
		return 0, errBadValue
	}
	return int(f), nil
}

func parseID(v interface{}) (uint, error) {
	n, err := parseInt(v)
	if err != nil || n <= 0 {
		return 0, errBadValue
	}
	return uint(n), nil
}

// parseDate parses a YYYY-MM-DD calendar date at UTC midnight.
func parseDate(v interface{}) (time.Time, error) {
	s, ok := v.(string)
	if !ok {
		return time.Time{}, errBadValue
	}
	d, err := time.Parse(models.DateLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, errBadValue
	}
	return d, nil
}

// parseYears accepts only a JSON list of whole numbers.
func parseYears(v interface{}) ([]int, error) {
	list, ok := v.([]interface{})
	if !ok {
		return nil, errBadValue
	}
	years := make([]int, 0, len(list))
	for _, item := range list {
		y, err := parseInt(item)
		if err != nil {
			return nil, err
		}
		years = append(years, y)
	}
	return years, nil
}

// today returns the calendar date of now in now's own zone (local time under
// time.Now), placed at UTC midnight so it compares with
// values from parseDate.
func today(now time.Time) time.Time {
	y, m, d := now.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
