package validate

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testRules = RuleSet{
	{Field: "name", Kind: KindString, Required: true, MaxLen: 10},
	{Field: "quantity", Kind: KindInt, Required: true, Min: MinOf(0)},
	{Field: "score", Kind: KindFloat, Min: MinOf(0), Max: MaxOf(100)},
	{Field: "active", Kind: KindBool, Default: true},
	{Field: "level", Kind: KindEnum, Values: []string{"low", "medium", "high"}, Default: "medium"},
	{Field: "price", Kind: KindDecimal, Min: MinOf(0)},
	{Field: "starts_at", Kind: KindDateTime},
	{Field: "expiry", Kind: KindDate},
}

func TestApplyValid(t *testing.T) {
	fields, errs := Apply(testRules, map[string]any{
		"name":      "gloves",
		"quantity":  float64(5),
		"score":     72.5,
		"price":     "19.99",
		"starts_at": "2026-03-01T10:00:00Z",
		"expiry":    "2026-12-31",
	})
	require.Nil(t, errs)

	assert.Equal(t, "gloves", Str(fields, "name"))
	assert.Equal(t, 5, Int(fields, "quantity"))
	assert.Equal(t, 72.5, Float(fields, "score"))
	assert.True(t, decimal.RequireFromString("19.99").Equal(Dec(fields, "price")))

	ts, ok := Time(fields, "starts_at")
	require.True(t, ok)
	assert.Equal(t, 10, ts.Hour())
	require.NotNil(t, TimePtr(fields, "expiry"))
}

func TestApplyDefaults(t *testing.T) {
	fields, errs := Apply(testRules, map[string]any{
		"name":     "gel",
		"quantity": float64(1),
	})
	require.Nil(t, errs)
	assert.Equal(t, true, Bool(fields, "active"))
	assert.Equal(t, "medium", Str(fields, "level"))
	assert.False(t, Has(fields, "score"))
}

func TestApplyReportsEveryFailure(t *testing.T) {
	_, errs := Apply(testRules, map[string]any{
		"quantity": float64(-1),
		"score":    150.0,
		"level":    "urgent",
	})
	require.NotNil(t, errs)

	assert.Contains(t, errs, "name")
	assert.Contains(t, errs, "quantity")
	assert.Contains(t, errs, "score")
	assert.Contains(t, errs, "level")
	assert.Len(t, errs, 4)
}

func TestApplyRejectsWrongTypes(t *testing.T) {
	_, errs := Apply(testRules, map[string]any{
		"name":      "ok",
		"quantity":  "five",
		"active":    "yes",
		"starts_at": "not-a-time",
	})
	require.NotNil(t, errs)
	assert.Contains(t, errs, "quantity")
	assert.Contains(t, errs, "active")
	assert.Contains(t, errs, "starts_at")
}

func TestApplyRejectsFractionalInt(t *testing.T) {
	_, errs := Apply(testRules, map[string]any{
		"name":     "ok",
		"quantity": 2.5,
	})
	require.NotNil(t, errs)
	assert.Contains(t, errs, "quantity")
}

func TestApplyPartialSkipsRequiredAndDefaults(t *testing.T) {
	fields, errs := ApplyPartial(testRules, map[string]any{
		"score": 88.0,
	})
	require.Nil(t, errs)

	assert.Equal(t, 88.0, Float(fields, "score"))
	assert.False(t, Has(fields, "name"))
	assert.False(t, Has(fields, "active"), "defaults must not leak into partial updates")
}

func TestApplyPartialStillChecksSuppliedFields(t *testing.T) {
	_, errs := ApplyPartial(testRules, map[string]any{
		"score": -3.0,
	})
	require.NotNil(t, errs)
	assert.Contains(t, errs, "score")
}

func TestFieldErrorsMessageIsStable(t *testing.T) {
	errs := FieldErrors{"b": "is required", "a": "must be a string"}
	assert.Equal(t, "validation failed: a: must be a string; b: is required", errs.Error())
}

func TestStringTrimmedAndLengthCapped(t *testing.T) {
	fields, errs := Apply(testRules, map[string]any{
		"name":     "  mask  ",
		"quantity": float64(0),
	})
	require.Nil(t, errs)
	assert.Equal(t, "mask", Str(fields, "name"))

	_, errs = Apply(testRules, map[string]any{
		"name":     "a very long item name",
		"quantity": float64(0),
	})
	require.NotNil(t, errs)
	assert.Contains(t, errs, "name")
}
