package importer

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// FieldResult is the outcome of parsing one cell.
type FieldResult[T any] struct {
	Value T
	Err   error
}

// DateLayouts are tried in order: ISO, day/month/year, year/month/day.
var DateLayouts = []string{"2006-01-02", "02/01/2006", "2006/01/02"}

// ParseNumber accepts plain numbers plus currency symbols, thousands
// separators and a trailing percent sign. Infinities and NaN are rejected;
// strconv spells them as numbers but no planning field can hold one.
func ParseNumber(raw string) FieldResult[float64] {
	s := strings.TrimSpace(raw)
	if s == "" {
		return FieldResult[float64]{Err: fmt.Errorf("value is empty")}
	}
	s = strings.TrimSuffix(s, "%")
	s = strings.NewReplacer("$", "", "£", "", "€", "", ",", "", " ", "").Replace(s)
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsInf(v, 0) || math.IsNaN(v) {
		return FieldResult[float64]{Err: fmt.Errorf("%q is not a valid number", raw)}
	}
	return FieldResult[float64]{Value: v}
}

// ParseInt parses a whole number.
func ParseInt(raw string) FieldResult[int] {
	n := ParseNumber(raw)
	if n.Err != nil {
		return FieldResult[int]{Err: n.Err}
	}
	if n.Value != float64(int(n.Value)) {
		return FieldResult[int]{Err: fmt.Errorf("%q is not a whole number", raw)}
	}
	return FieldResult[int]{Value: int(n.Value)}
}

// ParseDate accepts any of DateLayouts.
func ParseDate(raw string) FieldResult[time.Time] {
	s := strings.TrimSpace(raw)
	if s == "" {
		return FieldResult[time.Time]{Err: fmt.Errorf("value is empty")}
	}
	for _, layout := range DateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return FieldResult[time.Time]{Value: t}
		}
	}
	return FieldResult[time.Time]{Err: fmt.Errorf("%q is not a valid date (expected YYYY-MM-DD, DD/MM/YYYY or YYYY/MM/DD)", raw)}
}

// ParseBool accepts true/false, yes/no, y/n and 1/0 in any case.
func ParseBool(raw string) FieldResult[bool] {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "true", "yes", "y", "1":
		return FieldResult[bool]{Value: true}
	case "false", "no", "n", "0":
		return FieldResult[bool]{Value: false}
	}
	return FieldResult[bool]{Err: fmt.Errorf("%q is not a valid boolean", raw)}
}

// splitList splits a semicolon or pipe separated cell.
func splitList(raw string) []string {
	var out []string
	for _, part := range strings.FieldsFunc(raw, func(r rune) bool { return r == ';' || r == '|' }) {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
