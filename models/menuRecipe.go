package models

import (
	"github.com/mmdatafocus/menucost_backend/utils"
	"github.com/shopspring/decimal"
)

// MenuRecipe is the in-memory recipe of one menu while it is being edited.
// A menu holds at most one line per ingredient, so lines are keyed by
// ingredient id. The total is recomputed synchronously on every mutation;
// the aggregate is never observed stale between a mutation and a read.
type MenuRecipe struct {
	lines     []RecipeLine
	totalCost decimal.Decimal
}

func NewMenuRecipe() *MenuRecipe {
	return &MenuRecipe{totalCost: decimal.Zero}
}

// LoadMenuRecipe rebuilds the aggregate from persisted lines.
func LoadMenuRecipe(lines []RecipeLine) *MenuRecipe {
	r := &MenuRecipe{lines: append([]RecipeLine(nil), lines...)}
	r.recompute()
	return r
}

func (r *MenuRecipe) HasIngredient(ingredientId int) bool {
	return r.indexOf(ingredientId) >= 0
}

// AddLine appends a costed line for the ingredient. Adding an ingredient the
// recipe already contains returns ErrorDuplicateIngredient (warning-grade,
// quantities are never merged).
func (r *MenuRecipe) AddLine(ingredient *Ingredient, quantity decimal.Decimal) error {
	if !quantity.IsPositive() {
		return utils.NewValidationError("quantity", "quantity must be positive")
	}
	if r.HasIngredient(ingredient.ID) {
		return utils.ErrorDuplicateIngredient
	}
	r.lines = append(r.lines, RecipeLine{
		IngredientId:   ingredient.ID,
		Quantity:       quantity,
		CalculatedCost: lineCost(ingredient, quantity),
	})
	r.recompute()
	return nil
}

// UpdateLineQuantity re-costs the ingredient's line from its current pricing
// metadata.
func (r *MenuRecipe) UpdateLineQuantity(ingredient *Ingredient, quantity decimal.Decimal) error {
	if !quantity.IsPositive() {
		return utils.NewValidationError("quantity", "quantity must be positive")
	}
	i := r.indexOf(ingredient.ID)
	if i < 0 {
		return utils.ErrorRecordNotFound
	}
	r.lines[i].Quantity = quantity
	r.lines[i].CalculatedCost = lineCost(ingredient, quantity)
	r.recompute()
	return nil
}

func (r *MenuRecipe) RemoveLine(ingredientId int) error {
	i := r.indexOf(ingredientId)
	if i < 0 {
		return utils.ErrorRecordNotFound
	}
	r.lines = append(r.lines[:i], r.lines[i+1:]...)
	r.recompute()
	return nil
}

func (r *MenuRecipe) Lines() []RecipeLine {
	return r.lines
}

func (r *MenuRecipe) TotalCost() decimal.Decimal {
	return r.totalCost
}

func (r *MenuRecipe) indexOf(ingredientId int) int {
	for i, line := range r.lines {
		if line.IngredientId == ingredientId {
			return i
		}
	}
	return -1
}

func (r *MenuRecipe) recompute() {
	total := decimal.Zero
	for _, line := range r.lines {
		total = total.Add(line.CalculatedCost)
	}
	r.totalCost = total
}

func lineCost(ingredient *Ingredient, quantity decimal.Decimal) decimal.Decimal {
	return IngredientCost(quantity, ingredient.CurrentPrice, ingredient.PricingUnit, ingredient.ConversionFactor)
}
