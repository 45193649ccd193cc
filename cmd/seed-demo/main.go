package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/mmdatafocus/menucost_backend/config"
	"github.com/mmdatafocus/menucost_backend/models"
	"github.com/mmdatafocus/menucost_backend/utils"
	"github.com/shopspring/decimal"
)

type seedIngredient struct {
	input    models.NewIngredient
	quantity decimal.Decimal
}

func main() {
	name := flag.String("name", "デモ食堂", "Business name to seed")
	email := flag.String("email", "demo@example.com", "Owner email")
	flag.Parse()

	ctx := context.Background()
	config.ConnectDatabaseWithRetry()
	db := config.GetDB()
	if db == nil {
		fmt.Fprintln(os.Stderr, "database not initialized (config.GetDB returned nil)")
		os.Exit(1)
	}
	models.MigrateTable()

	ctx = utils.SetUserIdInContext(ctx, 0)
	ctx = utils.SetUsernameInContext(ctx, "SeedDemo")

	business, err := models.CreateBusiness(ctx, &models.NewBusiness{
		Name:  strings.TrimSpace(*name),
		Email: strings.TrimSpace(*email),
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create business: %v\n", err)
		os.Exit(1)
	}
	businessId := business.ID.String()
	ctx = utils.SetBusinessIdInContext(ctx, businessId)
	fmt.Printf("business %s (%s)\n", business.Name, businessId)

	// ingredient and menu writes are shop-scoped; use the bootstrap shop
	shops, err := models.GetShops(ctx)
	if err != nil || len(shops) == 0 {
		fmt.Fprintf(os.Stderr, "failed to resolve bootstrap shop: %v\n", err)
		os.Exit(1)
	}
	ctx = utils.SetShopIdInContext(ctx, shops[0].ID)

	// CreateBusiness already provisioned the default shop and taxonomy;
	// EnsureDefaultTaxonomy just reads back the ids here.
	taxonomy, err := models.EnsureDefaultTaxonomy(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to resolve default taxonomy: %v\n", err)
		os.Exit(1)
	}

	seeds := []seedIngredient{
		{
			input: models.NewIngredient{
				Name:             "薄力粉",
				DefaultUnit:      models.UnitGram,
				PricingUnit:      models.UnitBag,
				ConversionFactor: decimal.NewFromInt(250),
				CurrentPrice:     decimal.NewFromInt(350),
				Category:         "粉類",
			},
			quantity: decimal.NewFromInt(12),
		},
		{
			input: models.NewIngredient{
				Name:             "牛乳",
				DefaultUnit:      models.UnitMilli,
				PricingUnit:      models.UnitLiter,
				ConversionFactor: decimal.NewFromInt(1000),
				CurrentPrice:     decimal.NewFromInt(220),
				Category:         "乳製品",
			},
			quantity: decimal.NewFromInt(200),
		},
		{
			input: models.NewIngredient{
				Name:         "卵",
				DefaultUnit:  models.UnitPiece,
				CurrentPrice: decimal.NewFromInt(30),
				Category:     "卵",
			},
			quantity: decimal.NewFromInt(2),
		},
	}

	lines := make([]models.NewRecipeLine, 0, len(seeds))
	for _, s := range seeds {
		ingredient, err := models.CreateIngredient(ctx, &s.input)
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to create ingredient %s: %v\n", s.input.Name, err)
			os.Exit(1)
		}
		fmt.Printf("ingredient %s (id=%d)\n", ingredient.Name, ingredient.ID)
		lines = append(lines, models.NewRecipeLine{
			IngredientId: ingredient.ID,
			Quantity:     s.quantity,
		})
	}

	menu, err := models.CreateMenu(ctx, &models.NewMenu{
		Name:          "パンケーキ",
		SubcategoryId: taxonomy.SubcategoryId,
		SellingPrice:  decimal.NewFromInt(450),
		Lines:         lines,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create menu: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("menu %s (id=%d totalCost=%s costRate=%s)\n",
		menu.Name, menu.ID, menu.TotalCost.String(), menu.CostRate.StringFixed(2))
}
