package models

import "github.com/shopspring/decimal"

// Recipe units are free-form strings; only the pairs below carry physical
// conversions. Everything else (e.g. grams per bag) is a per-ingredient
// business fact the user supplies.
const (
	UnitGram  = "g"
	UnitKilo  = "kg"
	UnitMilli = "ml"
	UnitLiter = "l"
	UnitPiece = "個"
	UnitBag   = "袋"
	UnitShake = "振り"
	UnitSheet = "枚"
)

type unitPair struct {
	From string
	To   string
}

// process-wide read-only data, never mutated at runtime
var unitConversionTable = map[unitPair]decimal.Decimal{
	{UnitGram, UnitKilo}:   decimal.NewFromInt(1000),
	{"mg", UnitGram}:       decimal.NewFromInt(1000),
	{UnitMilli, UnitLiter}: decimal.NewFromInt(1000),
	{"cc", UnitMilli}:      decimal.NewFromInt(1),
	{UnitKilo, "t"}:        decimal.NewFromInt(1000),
}

// UnitFactor returns how many `from` units make up one `to` unit.
// Same unit is always 1; unregistered pairs in either direction return false
// and the caller decides the fallback (catalog entry uses a 1:1 default).
func UnitFactor(from string, to string) (decimal.Decimal, bool) {
	if from == to {
		return decimal.NewFromInt(1), true
	}
	if f, ok := unitConversionTable[unitPair{From: from, To: to}]; ok {
		return f, true
	}
	if f, ok := unitConversionTable[unitPair{From: to, To: from}]; ok {
		return decimal.NewFromInt(1).Div(f), true
	}
	return decimal.Decimal{}, false
}
