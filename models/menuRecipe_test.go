package models_test

import (
	"errors"
	"testing"

	"github.com/mmdatafocus/menucost_backend/models"
	"github.com/mmdatafocus/menucost_backend/utils"
	"github.com/shopspring/decimal"
)

func flourIngredient() *models.Ingredient {
	return &models.Ingredient{
		ID:               1,
		Name:             "薄力粉",
		DefaultUnit:      models.UnitGram,
		PricingUnit:      models.UnitBag,
		ConversionFactor: d("250"),
		CurrentPrice:     d("350"),
	}
}

func eggIngredient() *models.Ingredient {
	// legacy entry, priced per recipe unit
	return &models.Ingredient{
		ID:           2,
		Name:         "卵",
		DefaultUnit:  models.UnitPiece,
		CurrentPrice: d("30"),
	}
}

func TestMenuRecipe_TotalCostNeverStale(t *testing.T) {
	r := models.NewMenuRecipe()
	flour := flourIngredient()
	egg := eggIngredient()

	if err := r.AddLine(flour, d("12")); err != nil {
		t.Fatalf("AddLine flour: %v", err)
	}
	if !r.TotalCost().Equal(d("16.8")) {
		t.Fatalf("after first add expected 16.8, got %s", r.TotalCost().String())
	}

	if err := r.AddLine(egg, d("2")); err != nil {
		t.Fatalf("AddLine egg: %v", err)
	}
	if !r.TotalCost().Equal(d("76.8")) {
		t.Fatalf("after second add expected 76.8, got %s", r.TotalCost().String())
	}

	if err := r.UpdateLineQuantity(flour, d("24")); err != nil {
		t.Fatalf("UpdateLineQuantity: %v", err)
	}
	if !r.TotalCost().Equal(d("93.6")) {
		t.Fatalf("after quantity update expected 93.6, got %s", r.TotalCost().String())
	}

	if err := r.RemoveLine(egg.ID); err != nil {
		t.Fatalf("RemoveLine: %v", err)
	}
	if !r.TotalCost().Equal(d("33.6")) {
		t.Fatalf("after remove expected 33.6, got %s", r.TotalCost().String())
	}

	if err := r.RemoveLine(flour.ID); err != nil {
		t.Fatalf("RemoveLine: %v", err)
	}
	if !r.TotalCost().IsZero() {
		t.Fatalf("empty recipe expected zero cost, got %s", r.TotalCost().String())
	}
}

func TestMenuRecipe_DuplicateIngredientKeepsLineCount(t *testing.T) {
	r := models.NewMenuRecipe()
	flour := flourIngredient()

	if err := r.AddLine(flour, d("12")); err != nil {
		t.Fatalf("AddLine: %v", err)
	}
	err := r.AddLine(flour, d("99"))
	if !errors.Is(err, utils.ErrorDuplicateIngredient) {
		t.Fatalf("expected ErrorDuplicateIngredient, got %v", err)
	}
	if len(r.Lines()) != 1 {
		t.Fatalf("expected 1 line after duplicate add, got %d", len(r.Lines()))
	}
	if !r.TotalCost().Equal(d("16.8")) {
		t.Fatalf("total must be unchanged after rejected add, got %s", r.TotalCost().String())
	}
}

func TestMenuRecipe_RejectsNonPositiveQuantity(t *testing.T) {
	r := models.NewMenuRecipe()
	for _, qty := range []decimal.Decimal{decimal.Zero, d("-1")} {
		err := r.AddLine(flourIngredient(), qty)
		if !utils.IsValidationError(err) {
			t.Fatalf("AddLine(%s) expected validation error, got %v", qty.String(), err)
		}
	}
	if len(r.Lines()) != 0 {
		t.Fatalf("rejected adds must not leave lines, got %d", len(r.Lines()))
	}
}

func TestMenuRecipe_LoadRecomputesFromLines(t *testing.T) {
	lines := []models.RecipeLine{
		{IngredientId: 1, Quantity: d("12"), CalculatedCost: d("16.8")},
		{IngredientId: 2, Quantity: d("2"), CalculatedCost: d("60")},
	}
	r := models.LoadMenuRecipe(lines)
	if !r.TotalCost().Equal(d("76.8")) {
		t.Fatalf("expected 76.8, got %s", r.TotalCost().String())
	}
	if !r.HasIngredient(2) {
		t.Fatalf("expected ingredient 2 present")
	}
	if err := r.RemoveLine(3); !errors.Is(err, utils.ErrorRecordNotFound) {
		t.Fatalf("expected ErrorRecordNotFound, got %v", err)
	}
}
