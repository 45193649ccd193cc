package models

import "github.com/shopspring/decimal"

// DiscountRate is the fixed markdown applied to a menu's selling price when
// suggesting a discount price. Business policy constant, not per-tenant.
var DiscountRate = decimal.RequireFromString("0.873")

var oneHundred = decimal.NewFromInt(100)

// IngredientCost converts a recipe quantity into a currency cost.
//
// unitPrice is the price per one pricingUnit; conversionFactor states how
// many recipe units make up one pricingUnit (e.g. ¥350 per bag of 250 g).
// quantity/conversionFactor is then the fraction of a pricingUnit consumed.
//
// When the ingredient has no pricing metadata (legacy entries), the quantity
// is priced directly at unitPrice per recipe unit.
//
// conversionFactor > 0 is enforced at ingredient create/update; a
// non-positive factor here degrades to legacy mode instead of dividing.
// No currency rounding happens here; values keep full precision until a
// display or report boundary.
func IngredientCost(quantity decimal.Decimal, unitPrice decimal.Decimal, pricingUnit string, conversionFactor decimal.Decimal) decimal.Decimal {
	if pricingUnit == "" || !conversionFactor.IsPositive() {
		return quantity.Mul(unitPrice)
	}
	return quantity.Div(conversionFactor).Mul(unitPrice)
}

// SuggestedPricingUnits lists pricing-unit candidates for a recipe unit,
// most likely first. The first element is the default suggestion.
func SuggestedPricingUnits(recipeUnit string) []string {
	switch recipeUnit {
	case UnitGram:
		return []string{UnitGram, UnitKilo, UnitBag}
	case UnitMilli:
		return []string{UnitMilli, UnitLiter, UnitBag}
	case UnitPiece:
		return []string{UnitPiece, UnitBag}
	case UnitShake:
		return []string{UnitShake, UnitBag}
	case UnitSheet:
		return []string{UnitSheet, UnitBag}
	default:
		return []string{recipeUnit, UnitBag}
	}
}

// heuristic contents-per-bag defaults, overridable by the user
var bagDefaults = map[string]int64{
	UnitGram:  250,
	UnitMilli: 500,
	UnitPiece: 10,
	UnitShake: 50,
	UnitSheet: 20,
}

// DefaultConversionFactor suggests how many recipe units one pricing unit
// holds. Registered physical pairs win; bags fall back to per-unit
// heuristics; anything else degrades to 1:1. These are data-entry
// suggestions only and must never be trusted for costing without the user
// confirming them.
func DefaultConversionFactor(recipeUnit string, pricingUnit string) decimal.Decimal {
	if f, ok := UnitFactor(recipeUnit, pricingUnit); ok {
		return f
	}
	if pricingUnit == UnitBag {
		if n, ok := bagDefaults[recipeUnit]; ok {
			return decimal.NewFromInt(n)
		}
		return decimal.NewFromInt(1)
	}
	return decimal.NewFromInt(1)
}

// CostRate is total ingredient cost as a percentage of selling price.
// Zero selling price yields zero, not a division error.
func CostRate(totalCost decimal.Decimal, sellingPrice decimal.Decimal) decimal.Decimal {
	if !sellingPrice.IsPositive() {
		return decimal.Zero
	}
	return totalCost.Div(sellingPrice).Mul(oneHundred)
}

// DiscountPrice applies the fixed markdown to a selling price, rounded to a
// whole currency amount.
func DiscountPrice(sellingPrice decimal.Decimal) decimal.Decimal {
	return sellingPrice.Mul(DiscountRate).Round(0)
}

type PricingSummary struct {
	CostRate      decimal.Decimal `json:"cost_rate"`
	DiscountPrice decimal.Decimal `json:"discount_price"`
}

func SummarizePricing(totalCost decimal.Decimal, sellingPrice decimal.Decimal) PricingSummary {
	return PricingSummary{
		CostRate:      CostRate(totalCost, sellingPrice),
		DiscountPrice: DiscountPrice(sellingPrice),
	}
}
