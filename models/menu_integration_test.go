package models_test

import (
	"context"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/mmdatafocus/menucost_backend/config"
	"github.com/mmdatafocus/menucost_backend/models"
	"github.com/mmdatafocus/menucost_backend/utils"
)

// Requires a MySQL reachable via the DB_* env vars.
func integrationContext(t *testing.T) context.Context {
	t.Helper()
	if strings.TrimSpace(os.Getenv("INTEGRATION_TESTS")) == "" {
		t.Skip("set INTEGRATION_TESTS=1 to run integration tests (requires MySQL via DB_* env)")
	}

	config.ConnectDatabaseWithRetry()
	models.MigrateTable()

	ctx := context.Background()
	ctx = utils.SetUserIdInContext(ctx, 1)
	ctx = utils.SetUsernameInContext(ctx, "test@local")
	return ctx
}

func newTestBusiness(t *testing.T, ctx context.Context, name string) context.Context {
	t.Helper()
	biz, err := models.CreateBusiness(ctx, &models.NewBusiness{
		Name:  name,
		Email: strings.ToLower(strings.ReplaceAll(name, " ", "")) + "@menucost.test",
	})
	if err != nil {
		t.Fatalf("CreateBusiness: %v", err)
	}
	ctx = utils.SetBusinessIdInContext(ctx, biz.ID.String())

	shops, err := models.GetShops(ctx)
	if err != nil || len(shops) == 0 {
		t.Fatalf("expected bootstrap shop, err=%v", err)
	}
	return utils.SetShopIdInContext(ctx, shops[0].ID)
}

func TestMenuRoundTrip_CategoryDerivedFromSubcategory(t *testing.T) {
	ctx := integrationContext(t)
	ctx = newTestBusiness(t, ctx, "Roundtrip Diner")

	category, err := models.CreateCategory(ctx, &models.NewCategory{Name: "メイン"})
	if err != nil {
		t.Fatalf("CreateCategory: %v", err)
	}
	subcategory, err := models.CreateSubcategory(ctx, &models.NewSubcategory{
		Name:       "麺類",
		CategoryId: category.ID,
	})
	if err != nil {
		t.Fatalf("CreateSubcategory: %v", err)
	}

	flour, err := models.CreateIngredient(ctx, &models.NewIngredient{
		Name:             "薄力粉",
		DefaultUnit:      models.UnitGram,
		PricingUnit:      models.UnitBag,
		ConversionFactor: d("250"),
		CurrentPrice:     d("350"),
	})
	if err != nil {
		t.Fatalf("CreateIngredient: %v", err)
	}
	egg, err := models.CreateIngredient(ctx, &models.NewIngredient{
		Name:         "卵",
		DefaultUnit:  models.UnitPiece,
		CurrentPrice: d("30"),
	})
	if err != nil {
		t.Fatalf("CreateIngredient: %v", err)
	}

	menu, err := models.CreateMenu(ctx, &models.NewMenu{
		Name:          "焼きそば",
		SubcategoryId: subcategory.ID,
		SellingPrice:  d("450"),
		Lines: []models.NewRecipeLine{
			{IngredientId: flour.ID, Quantity: d("12")},
			{IngredientId: egg.ID, Quantity: d("2")},
		},
	})
	if err != nil {
		t.Fatalf("CreateMenu: %v", err)
	}

	// category is always derived from the subcategory, whatever the client sent
	if menu.CategoryId != category.ID {
		t.Fatalf("expected category %d derived from subcategory, got %d", category.ID, menu.CategoryId)
	}
	if !menu.TotalCost.Equal(d("76.8")) {
		t.Fatalf("expected total 76.8, got %s", menu.TotalCost.String())
	}

	loaded, err := models.GetMenuWithLines(ctx, menu.ID)
	if err != nil {
		t.Fatalf("GetMenuWithLines: %v", err)
	}
	if len(loaded.Lines) != 2 {
		t.Fatalf("expected 2 lines after round-trip, got %d", len(loaded.Lines))
	}
	reloaded := models.LoadMenuRecipe(loaded.Lines)
	if !reloaded.TotalCost().Equal(loaded.TotalCost) {
		t.Fatalf("snapshot %s disagrees with recomputed %s",
			loaded.TotalCost.String(), reloaded.TotalCost().String())
	}

	// deleting a referenced ingredient must be blocked
	if _, err := models.DeleteIngredient(ctx, flour.ID); err == nil {
		t.Fatalf("expected delete of referenced ingredient to be blocked")
	}
}

func TestMenuUpdate_StaleTokenRejected(t *testing.T) {
	ctx := integrationContext(t)
	ctx = newTestBusiness(t, ctx, "Stale Writer")

	menu, err := models.CreateMenu(ctx, &models.NewMenu{
		Name:         "日替わり定食",
		SellingPrice: d("800"),
	})
	if err != nil {
		t.Fatalf("CreateMenu: %v", err)
	}
	// take the token from the stored row; the driver-local timestamp on the
	// create result can round across a second boundary
	created, err := models.GetMenuWithLines(ctx, menu.ID)
	if err != nil {
		t.Fatalf("GetMenuWithLines: %v", err)
	}
	staleToken := created.UpdatedAt

	// tokens compare at second precision; make sure the first update lands
	// in a later second
	time.Sleep(1100 * time.Millisecond)
	if _, err := models.UpdateMenu(ctx, menu.ID, &models.NewMenu{
		Name:         "日替わり定食",
		SellingPrice: d("850"),
		UpdatedAt:    &staleToken,
	}); err != nil {
		t.Fatalf("first update: %v", err)
	}

	_, err = models.UpdateMenu(ctx, menu.ID, &models.NewMenu{
		Name:         "日替わり定食",
		SellingPrice: d("900"),
		UpdatedAt:    &staleToken,
	})
	if err != utils.ErrorStaleWrite {
		t.Fatalf("expected ErrorStaleWrite, got %v", err)
	}
}

func TestSubcategoryMove_MenusFollowParent(t *testing.T) {
	ctx := integrationContext(t)
	ctx = newTestBusiness(t, ctx, "Moving Kitchen")

	oldParent, err := models.CreateCategory(ctx, &models.NewCategory{Name: "和食"})
	if err != nil {
		t.Fatalf("CreateCategory: %v", err)
	}
	newParent, err := models.CreateCategory(ctx, &models.NewCategory{Name: "洋食"})
	if err != nil {
		t.Fatalf("CreateCategory: %v", err)
	}
	subcategory, err := models.CreateSubcategory(ctx, &models.NewSubcategory{
		Name:       "丼もの",
		CategoryId: oldParent.ID,
	})
	if err != nil {
		t.Fatalf("CreateSubcategory: %v", err)
	}
	menu, err := models.CreateMenu(ctx, &models.NewMenu{
		Name:          "カツ丼",
		SubcategoryId: subcategory.ID,
		SellingPrice:  d("780"),
	})
	if err != nil {
		t.Fatalf("CreateMenu: %v", err)
	}
	if menu.CategoryId != oldParent.ID {
		t.Fatalf("expected category %d, got %d", oldParent.ID, menu.CategoryId)
	}

	// moving the subcategory re-parents its menus in the same transaction
	if _, err := models.UpdateSubcategory(ctx, subcategory.ID, &models.NewSubcategory{
		Name:       "丼もの",
		CategoryId: newParent.ID,
	}); err != nil {
		t.Fatalf("UpdateSubcategory: %v", err)
	}

	moved, err := models.GetMenuWithLines(ctx, menu.ID)
	if err != nil {
		t.Fatalf("GetMenuWithLines: %v", err)
	}
	if moved.CategoryId != newParent.ID {
		t.Fatalf("expected menu re-parented to category %d, got %d", newParent.ID, moved.CategoryId)
	}
}

func TestMenuCreate_AfterDefaultTaxonomyDeleted(t *testing.T) {
	ctx := integrationContext(t)
	ctx = newTestBusiness(t, ctx, "Pruned Tenant")

	taxonomy, err := models.EnsureDefaultTaxonomy(ctx)
	if err != nil {
		t.Fatalf("EnsureDefaultTaxonomy: %v", err)
	}

	// an unused default pair is deletable; the cached ids must not outlive it
	if _, err := models.DeleteSubcategory(ctx, taxonomy.SubcategoryId); err != nil {
		t.Fatalf("DeleteSubcategory: %v", err)
	}
	if _, err := models.DeleteCategory(ctx, taxonomy.CategoryId); err != nil {
		t.Fatalf("DeleteCategory: %v", err)
	}

	menu, err := models.CreateMenu(ctx, &models.NewMenu{
		Name:         "本日のスープ",
		SellingPrice: d("600"),
	})
	if err != nil {
		t.Fatalf("CreateMenu after taxonomy delete: %v", err)
	}
	if menu.SubcategoryId == taxonomy.SubcategoryId {
		t.Fatalf("menu still points at the deleted subcategory %d", taxonomy.SubcategoryId)
	}
	subcategory, err := models.GetSubcategory(ctx, menu.SubcategoryId)
	if err != nil {
		t.Fatalf("GetSubcategory: %v", err)
	}
	if subcategory.Name != models.DefaultSubcategoryName {
		t.Fatalf("expected reprovisioned default subcategory, got %q", subcategory.Name)
	}
}

func TestIngredientUniqueness_ScopedPerShop(t *testing.T) {
	ctx := integrationContext(t)
	ctx = newTestBusiness(t, ctx, "Two Shop Group")

	salt := models.NewIngredient{
		Name:         "塩",
		DefaultUnit:  models.UnitGram,
		CurrentPrice: d("100"),
	}
	if _, err := models.CreateIngredient(ctx, &salt); err != nil {
		t.Fatalf("CreateIngredient in first shop: %v", err)
	}

	branch, err := models.CreateShop(ctx, &models.NewShop{Name: "2号店"})
	if err != nil {
		t.Fatalf("CreateShop: %v", err)
	}
	branchCtx := utils.SetShopIdInContext(ctx, branch.ID)

	// same name in a different shop is a separate catalog entry
	if _, err := models.CreateIngredient(branchCtx, &salt); err != nil {
		t.Fatalf("CreateIngredient in second shop: %v", err)
	}
	if _, err := models.CreateIngredient(branchCtx, &salt); err == nil {
		t.Fatalf("expected duplicate name within one shop to be rejected")
	}
}

func TestMenuCreate_EmptyTaxonomyProvisionsDefault(t *testing.T) {
	ctx := integrationContext(t)
	ctx = newTestBusiness(t, ctx, "Fresh Tenant")

	menu, err := models.CreateMenu(ctx, &models.NewMenu{
		Name:         "おまかせ",
		SellingPrice: d("1200"),
	})
	if err != nil {
		t.Fatalf("CreateMenu: %v", err)
	}

	subcategory, err := models.GetSubcategory(ctx, menu.SubcategoryId)
	if err != nil {
		t.Fatalf("GetSubcategory: %v", err)
	}
	if subcategory.Name != models.DefaultSubcategoryName {
		t.Fatalf("expected default subcategory %q, got %q", models.DefaultSubcategoryName, subcategory.Name)
	}
	if menu.CategoryId != subcategory.CategoryId {
		t.Fatalf("menu category %d does not match subcategory parent %d", menu.CategoryId, subcategory.CategoryId)
	}
}
