package models_test

import (
	"context"
	"testing"

	"github.com/mmdatafocus/menucost_backend/models"
	"github.com/mmdatafocus/menucost_backend/utils"
)

// Catalog writes are shop-scoped. A context that carries only the business id
// must be rejected before any query runs.
func TestCreateIngredient_RequiresShopContext(t *testing.T) {
	ctx := utils.SetBusinessIdInContext(context.Background(), "biz-1")

	_, err := models.CreateIngredient(ctx, &models.NewIngredient{
		Name:        "砂糖",
		DefaultUnit: models.UnitGram,
	})
	if err == nil || err.Error() != "shop id is required" {
		t.Fatalf("expected shop id requirement, got %v", err)
	}
}

func TestCreateIngredient_RequiresBusinessContext(t *testing.T) {
	_, err := models.CreateIngredient(context.Background(), &models.NewIngredient{
		Name:        "砂糖",
		DefaultUnit: models.UnitGram,
	})
	if err == nil || err.Error() != "business id is required" {
		t.Fatalf("expected business id requirement, got %v", err)
	}
}
