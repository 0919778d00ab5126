package validate

import (
	"time"

	"github.com/shopspring/decimal"
)

// Typed accessors for cleaned field maps. Each returns the zero value when
// the field is absent, so callers can rely on rule defaults or model zeros.

func Str(m map[string]any, field string) string {
	v, _ := m[field].(string)
	return v
}

func Int(m map[string]any, field string) int {
	v, _ := m[field].(int)
	return v
}

func Float(m map[string]any, field string) float64 {
	v, _ := m[field].(float64)
	return v
}

func Bool(m map[string]any, field string) bool {
	v, _ := m[field].(bool)
	return v
}

func Dec(m map[string]any, field string) decimal.Decimal {
	v, _ := m[field].(decimal.Decimal)
	return v
}

func Time(m map[string]any, field string) (time.Time, bool) {
	v, ok := m[field].(time.Time)
	return v, ok
}

// TimePtr returns the field as a nullable timestamp.
func TimePtr(m map[string]any, field string) *time.Time {
	if v, ok := m[field].(time.Time); ok {
		return &v
	}
	return nil
}

// UintPtr returns an id field as a nullable foreign key.
func UintPtr(m map[string]any, field string) *uint {
	if v, ok := m[field].(int); ok && v > 0 {
		u := uint(v)
		return &u
	}
	return nil
}

func Uint(m map[string]any, field string) uint {
	v, _ := m[field].(int)
	if v < 0 {
		return 0
	}
	return uint(v)
}

// Has reports whether the field survived validation.
func Has(m map[string]any, field string) bool {
	_, ok := m[field]
	return ok
}
