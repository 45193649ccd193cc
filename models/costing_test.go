package models_test

import (
	"testing"

	"github.com/mmdatafocus/menucost_backend/models"
	"github.com/shopspring/decimal"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestIngredientCost_PricingUnitConversion(t *testing.T) {
	// 12 g of an ingredient sold at ¥350 per 250 g bag.
	cost := models.IngredientCost(d("12"), d("350"), models.UnitBag, d("250"))
	if !cost.Equal(d("16.8")) {
		t.Fatalf("expected 16.8, got %s", cost.String())
	}
}

func TestIngredientCost_LegacyEntries(t *testing.T) {
	cases := []struct {
		name             string
		pricingUnit      string
		conversionFactor decimal.Decimal
	}{
		{"no pricing unit", "", d("250")},
		{"zero factor", models.UnitBag, decimal.Zero},
		{"negative factor", models.UnitBag, d("-5")},
	}
	for _, tc := range cases {
		cost := models.IngredientCost(d("5"), d("100"), tc.pricingUnit, tc.conversionFactor)
		if !cost.Equal(d("500")) {
			t.Fatalf("%s: expected 500, got %s", tc.name, cost.String())
		}
	}
}

func TestCostRate(t *testing.T) {
	cases := []struct {
		name         string
		totalCost    string
		sellingPrice string
		expected     string
	}{
		{"typical", "150", "500", "30"},
		{"fractional", "16.8", "450", "3.7333"},
		{"zero selling price", "150", "0", "0"},
		{"negative selling price", "150", "-1", "0"},
	}
	for _, tc := range cases {
		rate := models.CostRate(d(tc.totalCost), d(tc.sellingPrice)).Round(4)
		if !rate.Equal(d(tc.expected)) {
			t.Fatalf("%s: expected %s, got %s", tc.name, tc.expected, rate.String())
		}
	}
}

func TestDiscountPrice_RoundsToWholeYen(t *testing.T) {
	cases := []struct {
		sellingPrice string
		expected     string
	}{
		{"450", "393"},  // 392.85
		{"980", "856"},  // 855.54
		{"1000", "873"}, // exact
		{"0", "0"},
	}
	for _, tc := range cases {
		got := models.DiscountPrice(d(tc.sellingPrice))
		if !got.Equal(d(tc.expected)) {
			t.Fatalf("DiscountPrice(%s) expected %s, got %s", tc.sellingPrice, tc.expected, got.String())
		}
	}
}

func TestSuggestedPricingUnits(t *testing.T) {
	cases := []struct {
		recipeUnit string
		expected   []string
	}{
		{"g", []string{"g", "kg", "袋"}},
		{"ml", []string{"ml", "l", "袋"}},
		{"個", []string{"個", "袋"}},
		{"振り", []string{"振り", "袋"}},
		{"枚", []string{"枚", "袋"}},
		{"本", []string{"本", "袋"}},
	}
	for _, tc := range cases {
		got := models.SuggestedPricingUnits(tc.recipeUnit)
		if len(got) != len(tc.expected) {
			t.Fatalf("SuggestedPricingUnits(%q) expected %v, got %v", tc.recipeUnit, tc.expected, got)
		}
		for i := range got {
			if got[i] != tc.expected[i] {
				t.Fatalf("SuggestedPricingUnits(%q) expected %v, got %v", tc.recipeUnit, tc.expected, got)
			}
		}
	}
}

func TestDefaultConversionFactor(t *testing.T) {
	cases := []struct {
		recipeUnit  string
		pricingUnit string
		expected    string
	}{
		{"g", "kg", "1000"},
		{"ml", "l", "1000"},
		{"g", "g", "1"},
		{"g", "袋", "250"},
		{"ml", "袋", "500"},
		{"個", "袋", "10"},
		{"振り", "袋", "50"},
		{"枚", "袋", "20"},
		{"本", "袋", "1"},
		{"g", "l", "1"},
	}
	for _, tc := range cases {
		got := models.DefaultConversionFactor(tc.recipeUnit, tc.pricingUnit)
		if !got.Equal(d(tc.expected)) {
			t.Fatalf("DefaultConversionFactor(%q, %q) expected %s, got %s",
				tc.recipeUnit, tc.pricingUnit, tc.expected, got.String())
		}
	}
}

func TestSummarizePricing(t *testing.T) {
	summary := models.SummarizePricing(d("150"), d("500"))
	if !summary.CostRate.Equal(d("30")) {
		t.Fatalf("cost rate expected 30, got %s", summary.CostRate.String())
	}
	if !summary.DiscountPrice.Equal(d("437")) { // 436.5 rounds up
		t.Fatalf("discount price expected 437, got %s", summary.DiscountPrice.String())
	}
}
