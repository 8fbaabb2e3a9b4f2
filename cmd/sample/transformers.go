package main

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/tushar-indygen/leadform"
)

// mapperFunc adapts a plain function to the FieldMapper interface.
type mapperFunc func(csvValue string) (any, error)

func (f mapperFunc) Map(csvValue string) (any, error) {
	return f(csvValue)
}

// Identity returns a mapper that passes values through unchanged.
func Identity() FieldMapper {
	return mapperFunc(func(v string) (any, error) {
		return v, nil
	})
}

// Trim returns a mapper that trims surrounding whitespace.
func Trim() FieldMapper {
	return mapperFunc(func(v string) (any, error) {
		return strings.TrimSpace(v), nil
	})
}

// ToFloat64 returns a mapper that parses a numeric value. Empty input
// maps to nil so optional number columns stay absent.
func ToFloat64() FieldMapper {
	return mapperFunc(func(v string) (any, error) {
		v = strings.TrimSpace(v)
		if v == "" {
			return nil, nil
		}
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid number format: %v", err)
		}
		return f, nil
	})
}

// ToBool returns a mapper accepting true/false, 1/0 and yes/no in any
// case.
func ToBool() FieldMapper {
	return mapperFunc(func(v string) (any, error) {
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "":
			return nil, nil
		case "true", "1", "yes":
			return true, nil
		case "false", "0", "no":
			return false, nil
		}
		return nil, fmt.Errorf("invalid boolean value: %q (expected true/false/1/0/yes/no)", v)
	})
}

// ToDate returns a mapper that parses the given layout and re-emits the
// date as YYYY-MM-DD, the form the date control binds.
func ToDate(layout string) FieldMapper {
	return mapperFunc(func(v string) (any, error) {
		v = strings.TrimSpace(v)
		if v == "" {
			return nil, nil
		}
		t, err := time.Parse(layout, v)
		if err != nil {
			return nil, fmt.Errorf("invalid date format (expected %s): %v", layout, err)
		}
		return t.Format("2006-01-02"), nil
	})
}

// Enum returns a mapper that rejects values outside the allowed set.
func Enum(allowed ...string) FieldMapper {
	return mapperFunc(func(v string) (any, error) {
		v = strings.TrimSpace(v)
		if v == "" {
			return nil, nil
		}
		for _, a := range allowed {
			if v == a {
				return v, nil
			}
		}
		return nil, fmt.Errorf("invalid value %q: must be one of %v", v, allowed)
	})
}

// LeadStatus returns a mapper that normalizes lead status values to the
// canonical pipeline spelling (case-insensitive input).
func LeadStatus() FieldMapper {
	return mapperFunc(func(v string) (any, error) {
		v = strings.TrimSpace(v)
		if v == "" {
			return nil, nil
		}
		for _, status := range leadform.AllLeadStatuses {
			if strings.EqualFold(v, string(status)) {
				return string(status), nil
			}
		}
		return nil, fmt.Errorf("unknown lead status %q", v)
	})
}

// Default returns a mapper that substitutes a default when the input is
// empty, otherwise applies inner (or passes the trimmed value through when
// inner is nil).
func Default(defaultValue any, inner FieldMapper) FieldMapper {
	return mapperFunc(func(v string) (any, error) {
		trimmed := strings.TrimSpace(v)
		if trimmed == "" {
			return defaultValue, nil
		}
		if inner != nil {
			return inner.Map(v)
		}
		return trimmed, nil
	})
}
