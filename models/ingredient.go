package models

import (
	"context"
	"errors"
	"time"

	"github.com/mmdatafocus/menucost_backend/config"
	"github.com/mmdatafocus/menucost_backend/utils"
	"github.com/shopspring/decimal"
)

// Ingredient is a purchasable catalog entry. DefaultUnit is the unit recipes
// consume it in; PricingUnit is the unit it is bought in; ConversionFactor is
// how many DefaultUnit one PricingUnit holds; CurrentPrice is per PricingUnit.
type Ingredient struct {
	ID               int             `gorm:"primary_key" json:"id"`
	BusinessId       string          `gorm:"index;not null" json:"business_id"`
	ShopId           int             `gorm:"index;not null" json:"shop_id"`
	Name             string          `gorm:"index;size:100;not null" json:"name" binding:"required"`
	DefaultUnit      string          `gorm:"size:20;not null" json:"default_unit" binding:"required"`
	PricingUnit      string          `gorm:"size:20;not null" json:"pricing_unit"`
	ConversionFactor decimal.Decimal `gorm:"type:decimal(20,4);default:1" json:"conversion_factor"`
	CurrentPrice     decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"current_price"`
	Category         string          `gorm:"size:100" json:"category"`
	Description      string          `gorm:"type:text" json:"description"`
	IsActive         *bool           `gorm:"not null;default:true" json:"is_active"`
	CreatedAt        time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt        time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

func (i Ingredient) GetBusinessId() string { return i.BusinessId }

// node
// returns decoded cursor string
func (i Ingredient) GetCursor() string { return i.Name }

type NewIngredient struct {
	Name             string          `json:"name" binding:"required"`
	DefaultUnit      string          `json:"default_unit" binding:"required"`
	PricingUnit      string          `json:"pricing_unit"`
	ConversionFactor decimal.Decimal `json:"conversion_factor"`
	CurrentPrice     decimal.Decimal `json:"current_price"`
	Category         string          `json:"category"`
	Description      string          `json:"description"`
}

// implements methods for pagination
type IngredientsEdge Edge[Ingredient]
type IngredientsConnection struct {
	PageInfo *PageInfo          `json:"pageInfo"`
	Edges    []*IngredientsEdge `json:"edges"`
}

// validate input for both create & update. (id = 0 for create)
// Fills the pricing defaults: a blank pricing unit gets the first suggestion
// for the recipe unit, a zero conversion factor gets the heuristic default.
func (input *NewIngredient) validate(ctx context.Context, businessId string, shopId int, id int) error {
	// the catalog is shop-owned, so the name is unique per shop
	var count int64
	var err error
	if id == 0 {
		count, err = utils.ResourceCountWhere[Ingredient](ctx, businessId,
			"shop_id = ? AND name = ?", shopId, input.Name)
	} else {
		count, err = utils.ResourceCountWhere[Ingredient](ctx, businessId,
			"shop_id = ? AND name = ? AND NOT id = ?", shopId, input.Name, id)
	}
	if err != nil {
		return err
	}
	if count > 0 {
		return errors.New("duplicate name")
	}
	if input.CurrentPrice.IsNegative() {
		return utils.NewValidationError("current_price", "price cannot be negative")
	}
	if input.ConversionFactor.IsNegative() {
		return utils.NewValidationError("conversion_factor", "conversion factor must be positive")
	}
	if input.PricingUnit == "" {
		input.PricingUnit = SuggestedPricingUnits(input.DefaultUnit)[0]
	}
	if input.ConversionFactor.IsZero() {
		if config.StrictConversionFactorConfirm() {
			return utils.NewValidationError("conversion_factor", "conversion factor is required")
		}
		input.ConversionFactor = DefaultConversionFactor(input.DefaultUnit, input.PricingUnit)
	}
	return nil
}

func CreateIngredient(ctx context.Context, input *NewIngredient) (*Ingredient, error) {

	businessId, ok := utils.GetBusinessIdFromContext(ctx)
	if !ok || businessId == "" {
		return nil, errors.New("business id is required")
	}
	shopId, ok := utils.GetShopIdFromContext(ctx)
	if !ok || shopId == 0 {
		return nil, errors.New("shop id is required")
	}

	if err := input.validate(ctx, businessId, shopId, 0); err != nil {
		return nil, err
	}

	ingredient := Ingredient{
		BusinessId:       businessId,
		ShopId:           shopId,
		Name:             input.Name,
		DefaultUnit:      input.DefaultUnit,
		PricingUnit:      input.PricingUnit,
		ConversionFactor: input.ConversionFactor,
		CurrentPrice:     input.CurrentPrice,
		Category:         input.Category,
		Description:      input.Description,
		IsActive:         utils.NewTrue(),
	}

	db := config.GetDB()
	if err := db.WithContext(ctx).Create(&ingredient).Error; err != nil {
		if utils.IsDuplicateKeyError(err) {
			return nil, utils.NewValidationError("name", "ingredient name already exists")
		}
		return nil, err
	}

	clearResourceCache[Ingredient](businessId, ingredient.ID)
	return &ingredient, nil
}

func UpdateIngredient(ctx context.Context, id int, input *NewIngredient) (*Ingredient, error) {

	businessId, ok := utils.GetBusinessIdFromContext(ctx)
	if !ok || businessId == "" {
		return nil, errors.New("business id is required")
	}
	ingredient, err := utils.FetchModel[Ingredient](ctx, businessId, id)
	if err != nil {
		return nil, err
	}
	// uniqueness is scoped to the shop the ingredient already belongs to
	if err := input.validate(ctx, businessId, ingredient.ShopId, id); err != nil {
		return nil, err
	}

	db := config.GetDB()
	err = db.WithContext(ctx).Model(&ingredient).Updates(map[string]interface{}{
		"Name":             input.Name,
		"DefaultUnit":      input.DefaultUnit,
		"PricingUnit":      input.PricingUnit,
		"ConversionFactor": input.ConversionFactor,
		"CurrentPrice":     input.CurrentPrice,
		"Category":         input.Category,
		"Description":      input.Description,
	}).Error
	if err != nil {
		return nil, err
	}

	clearResourceCache[Ingredient](businessId, id)
	return ingredient, nil
}

func DeleteIngredient(ctx context.Context, id int) (*Ingredient, error) {

	businessId, ok := utils.GetBusinessIdFromContext(ctx)
	if !ok || businessId == "" {
		return nil, errors.New("business id is required")
	}
	result, err := utils.FetchModel[Ingredient](ctx, businessId, id)
	if err != nil {
		return nil, err
	}

	// don't delete while a recipe still uses the ingredient
	count, err := utils.ResourceCountWhere[RecipeLine](ctx, "", "ingredient_id = ?", id)
	if err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, errors.New("used by menu recipe")
	}

	db := config.GetDB()
	if err := db.WithContext(ctx).Delete(&result).Error; err != nil {
		return nil, err
	}

	clearResourceCache[Ingredient](businessId, id)
	return result, nil
}

func GetIngredient(ctx context.Context, id int) (*Ingredient, error) {

	return GetResource[Ingredient](ctx, id)
}

func GetIngredients(ctx context.Context, name *string) ([]*Ingredient, error) {

	// unfiltered listing is served from the per-business cache
	if name == nil || *name == "" {
		return ListAllResource[Ingredient](ctx, "name")
	}

	businessId, ok := utils.GetBusinessIdFromContext(ctx)
	if !ok || businessId == "" {
		return nil, errors.New("business id is required")
	}

	db := config.GetDB()
	var results []*Ingredient
	dbCtx := db.WithContext(ctx).Where("business_id = ?", businessId).
		Where("name LIKE ?", "%"+*name+"%")
	if err := dbCtx.Order("name").Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func ToggleActiveIngredient(ctx context.Context, id int, isActive bool) (*Ingredient, error) {
	businessId, ok := utils.GetBusinessIdFromContext(ctx)
	if !ok || businessId == "" {
		return nil, errors.New("business id is required")
	}

	return ToggleActiveModel[Ingredient](ctx, businessId, id, isActive)
}

func PaginateIngredients(ctx context.Context, limit *int, after *string, name *string) (*IngredientsConnection, error) {
	businessId, ok := utils.GetBusinessIdFromContext(ctx)
	if !ok || businessId == "" {
		return nil, errors.New("business id is required")
	}

	pageSize := config.SearchLimit
	if limit != nil && *limit > 0 {
		pageSize = *limit
	}
	db := config.GetDB()
	dbCtx := db.WithContext(ctx).Where("business_id = ?", businessId)
	if name != nil && *name != "" {
		dbCtx.Where("name LIKE ?", "%"+*name+"%")
	}
	edges, pageInfo, err := FetchPagePureCursor[Ingredient](dbCtx, pageSize, after, "name", ">")
	if err != nil {
		return nil, err
	}
	var ingredientsConnection IngredientsConnection
	ingredientsConnection.PageInfo = pageInfo
	for _, edge := range edges {
		ingredientEdge := IngredientsEdge(edge)
		ingredientsConnection.Edges = append(ingredientsConnection.Edges, &ingredientEdge)
	}
	return &ingredientsConnection, nil
}

// PricingSuggestion bundles the data-entry defaults for a recipe unit.
type PricingSuggestion struct {
	PricingUnits     []string        `json:"pricing_units"`
	ConversionFactor decimal.Decimal `json:"conversion_factor"`
}

func SuggestPricing(recipeUnit string, pricingUnit *string) PricingSuggestion {
	units := SuggestedPricingUnits(recipeUnit)
	selected := units[0]
	if pricingUnit != nil && *pricingUnit != "" {
		selected = *pricingUnit
	}
	return PricingSuggestion{
		PricingUnits:     units,
		ConversionFactor: DefaultConversionFactor(recipeUnit, selected),
	}
}
