// Package validate checks raw JSON input against per-entity rule tables and
// reports every failing field, not just the first.
package validate

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type Kind string

const (
	KindString   Kind = "string"
	KindInt      Kind = "int"
	KindFloat    Kind = "float"
	KindBool     Kind = "bool"
	KindDate     Kind = "date"     // "2006-01-02"
	KindDateTime Kind = "datetime" // RFC3339
	KindEnum     Kind = "enum"
	KindDecimal  Kind = "decimal" // JSON number or numeric string
)

type Rule struct {
	Field    string
	Kind     Kind
	Required bool
	Min      *float64 // numeric lower bound (inclusive)
	Max      *float64 // numeric upper bound (inclusive)
	MaxLen   int      // string length cap, 0 = unlimited
	Values   []string // allowed values for Enum
	Default  any      // applied when the field is absent
}

type RuleSet []Rule

// FieldErrors maps field name to the reason it failed.
type FieldErrors map[string]string

func (e FieldErrors) Error() string {
	keys := make([]string, 0, len(e))
	for k := range e {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e[k])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Apply validates input against rules and returns the cleaned, typed field
// map. Missing optional fields stay absent unless the rule declares a
// Default. A non-nil FieldErrors means the input must be rejected.
func Apply(rules RuleSet, input map[string]any) (map[string]any, FieldErrors) {
	return run(rules, input, false)
}

// ApplyPartial behaves like Apply but skips required checks for absent
// fields, for partial updates. Supplied fields are still fully checked.
func ApplyPartial(rules RuleSet, input map[string]any) (map[string]any, FieldErrors) {
	return run(rules, input, true)
}

func run(rules RuleSet, input map[string]any, partial bool) (map[string]any, FieldErrors) {
	cleaned := make(map[string]any, len(rules))
	errs := FieldErrors{}

	for _, r := range rules {
		raw, present := input[r.Field]
		if !present || raw == nil {
			if r.Required && !partial {
				errs[r.Field] = "is required"
				continue
			}
			if r.Default != nil && !partial {
				cleaned[r.Field] = r.Default
			}
			continue
		}

		v, err := coerce(r, raw)
		if err != "" {
			errs[r.Field] = err
			continue
		}
		cleaned[r.Field] = v
	}

	if len(errs) > 0 {
		return nil, errs
	}
	return cleaned, nil
}

func coerce(r Rule, raw any) (any, string) {
	switch r.Kind {
	case KindString:
		s, ok := raw.(string)
		if !ok {
			return nil, "must be a string"
		}
		s = strings.TrimSpace(s)
		if r.Required && s == "" {
			return nil, "must not be empty"
		}
		if r.MaxLen > 0 && len(s) > r.MaxLen {
			return nil, fmt.Sprintf("must be at most %d characters", r.MaxLen)
		}
		return s, ""

	case KindInt:
		f, ok := raw.(float64)
		if !ok {
			return nil, "must be an integer"
		}
		if f != math.Trunc(f) {
			return nil, "must be a whole number"
		}
		if msg := checkRange(r, f); msg != "" {
			return nil, msg
		}
		return int(f), ""

	case KindFloat:
		f, ok := raw.(float64)
		if !ok {
			return nil, "must be a number"
		}
		if msg := checkRange(r, f); msg != "" {
			return nil, msg
		}
		return f, ""

	case KindBool:
		b, ok := raw.(bool)
		if !ok {
			return nil, "must be true or false"
		}
		return b, ""

	case KindDate:
		s, ok := raw.(string)
		if !ok {
			return nil, "must be a date string 'YYYY-MM-DD'"
		}
		t, err := time.Parse("2006-01-02", s)
		if err != nil {
			return nil, "must be a date in 'YYYY-MM-DD' format"
		}
		return t, ""

	case KindDateTime:
		s, ok := raw.(string)
		if !ok {
			return nil, "must be an RFC3339 timestamp"
		}
		t, err := time.Parse(time.RFC3339, s)
		if err != nil {
			return nil, "must be an RFC3339 timestamp"
		}
		return t, ""

	case KindEnum:
		s, ok := raw.(string)
		if !ok {
			return nil, "must be a string"
		}
		for _, v := range r.Values {
			if s == v {
				return s, ""
			}
		}
		return nil, "must be one of: " + strings.Join(r.Values, ", ")

	case KindDecimal:
		switch v := raw.(type) {
		case float64:
			d := decimal.NewFromFloat(v)
			if msg := checkRange(r, v); msg != "" {
				return nil, msg
			}
			return d, ""
		case string:
			d, err := decimal.NewFromString(v)
			if err != nil {
				return nil, "must be a decimal number"
			}
			f, _ := d.Float64()
			if msg := checkRange(r, f); msg != "" {
				return nil, msg
			}
			return d, ""
		default:
			return nil, "must be a decimal number"
		}

	default:
		return nil, "unsupported field kind"
	}
}

func checkRange(r Rule, f float64) string {
	if r.Min != nil && f < *r.Min {
		return fmt.Sprintf("must be at least %v", *r.Min)
	}
	if r.Max != nil && f > *r.Max {
		return fmt.Sprintf("must be at most %v", *r.Max)
	}
	return ""
}

// MinOf and MaxOf build bound pointers for rule literals.
func MinOf(v float64) *float64 { return &v }
func MaxOf(v float64) *float64 { return &v }
