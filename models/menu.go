package models

import (
	"context"
	"errors"
	"time"

	"github.com/mmdatafocus/menucost_backend/config"
	"github.com/mmdatafocus/menucost_backend/utils"
	"github.com/shopspring/decimal"
)

// Menu is a sellable dish. TotalCost and CostRate are denormalized
// snapshots of the recipe lines; they are rewritten in the same transaction
// as every line mutation and are never editable on their own. CategoryId is
// always derived from the subcategory, never taken from the client.
type Menu struct {
	ID            int             `gorm:"primary_key" json:"id"`
	BusinessId    string          `gorm:"index;not null" json:"business_id"`
	ShopId        int             `gorm:"index;not null" json:"shop_id"`
	Name          string          `gorm:"index;size:100;not null" json:"name" binding:"required"`
	ImageUrl      string          `json:"image_url"`
	CategoryId    int             `gorm:"index;not null" json:"category_id"`
	SubcategoryId int             `gorm:"index;not null" json:"subcategory_id"`
	SellingPrice  decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"selling_price"`
	TotalCost     decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"total_cost"`
	CostRate      decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"cost_rate"`
	Lines         []RecipeLine    `gorm:"foreignkey:MenuId" json:"lines"`
	CreatedAt     time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

func (m Menu) GetBusinessId() string { return m.BusinessId }

// node
// returns decoded cursor string
func (m Menu) GetCursor() string { return m.CreatedAt.String() }

func (m Menu) GetId() int { return m.ID }

// RecipeLine links a menu to an ingredient with a quantity in the
// ingredient's recipe unit and a cost snapshot. Owned exclusively by one
// menu; replaced wholesale on every recipe edit.
type RecipeLine struct {
	ID             int             `gorm:"primary_key" json:"id"`
	MenuId         int             `gorm:"index;not null" json:"menu_id"`
	IngredientId   int             `gorm:"index;not null" json:"ingredient_id"`
	Quantity       decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"quantity"`
	CalculatedCost decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"calculated_cost"`
}

type NewRecipeLine struct {
	IngredientId int             `json:"ingredient_id" binding:"required"`
	Quantity     decimal.Decimal `json:"quantity" binding:"required"`
}

type NewMenu struct {
	Name          string          `json:"name" binding:"required"`
	ImageUrl      string          `json:"image_url"`
	SubcategoryId int             `json:"subcategory_id"`
	SellingPrice  decimal.Decimal `json:"selling_price"`
	Lines         []NewRecipeLine `json:"lines"`
	// concurrency token; an update carrying a stale value is rejected
	UpdatedAt *time.Time `json:"updated_at"`
}

// implements methods for pagination
type MenusEdge Edge[Menu]
type MenusConnection struct {
	PageInfo *PageInfo    `json:"pageInfo"`
	Edges    []*MenusEdge `json:"edges"`
}

func (input *NewMenu) validate(ctx context.Context, businessId string) error {
	if input.SellingPrice.IsNegative() {
		return utils.NewValidationError("selling_price", "selling price cannot be negative")
	}
	return nil
}

// buildRecipe costs every input line against the current catalog.
// Duplicate ingredients and unknown ingredient ids reject the whole edit.
func buildRecipe(ctx context.Context, businessId string, lines []NewRecipeLine) (*MenuRecipe, error) {
	recipe := NewMenuRecipe()
	for _, line := range lines {
		ingredient, err := utils.FetchModel[Ingredient](ctx, businessId, line.IngredientId)
		if err != nil {
			return nil, errors.New("ingredient not found")
		}
		if err := recipe.AddLine(ingredient, line.Quantity); err != nil {
			return nil, err
		}
	}
	return recipe, nil
}

func CreateMenu(ctx context.Context, input *NewMenu) (*Menu, error) {

	businessId, ok := utils.GetBusinessIdFromContext(ctx)
	if !ok || businessId == "" {
		return nil, errors.New("business id is required")
	}
	shopId, ok := utils.GetShopIdFromContext(ctx)
	if !ok || shopId == 0 {
		return nil, errors.New("shop id is required")
	}

	if err := input.validate(ctx, businessId); err != nil {
		return nil, err
	}

	// an empty taxonomy must never block menu creation
	if input.SubcategoryId == 0 {
		taxonomy, err := EnsureDefaultTaxonomy(ctx)
		if err != nil {
			return nil, err
		}
		input.SubcategoryId = taxonomy.SubcategoryId
	}
	categoryId, err := ResolveCategoryForSubcategory(ctx, input.SubcategoryId)
	if err != nil {
		return nil, errors.New("subcategory not found")
	}

	recipe, err := buildRecipe(ctx, businessId, input.Lines)
	if err != nil {
		return nil, err
	}

	totalCost := recipe.TotalCost()
	menu := Menu{
		BusinessId:    businessId,
		ShopId:        shopId,
		Name:          input.Name,
		ImageUrl:      input.ImageUrl,
		CategoryId:    categoryId,
		SubcategoryId: input.SubcategoryId,
		SellingPrice:  input.SellingPrice,
		TotalCost:     totalCost,
		CostRate:      CostRate(totalCost, input.SellingPrice),
		Lines:         recipe.Lines(),
	}

	db := config.GetDB()
	if err := db.WithContext(ctx).Create(&menu).Error; err != nil {
		config.LogError(config.GetLogger(), "menu.go", "CreateMenu", "Create", input, err)
		return nil, utils.ErrorInfrastructure
	}

	clearResourceCache[Menu](businessId, menu.ID)
	return &menu, nil
}

// UpdateMenu replaces the whole recipe: delete the menu's current lines,
// insert the new set, and rewrite the snapshot fields, all in one
// transaction so a partial failure can never leave an empty recipe behind.
func UpdateMenu(ctx context.Context, id int, input *NewMenu) (*Menu, error) {

	businessId, ok := utils.GetBusinessIdFromContext(ctx)
	if !ok || businessId == "" {
		return nil, errors.New("business id is required")
	}
	if err := input.validate(ctx, businessId); err != nil {
		return nil, err
	}

	menu, err := utils.FetchModel[Menu](ctx, businessId, id)
	if err != nil {
		return nil, err
	}

	// reject a save based on a version another user has since replaced
	if input.UpdatedAt != nil && input.UpdatedAt.Unix() != menu.UpdatedAt.Unix() {
		return nil, utils.ErrorStaleWrite
	}

	if input.SubcategoryId == 0 {
		input.SubcategoryId = menu.SubcategoryId
	}
	categoryId, err := ResolveCategoryForSubcategory(ctx, input.SubcategoryId)
	if err != nil {
		return nil, errors.New("subcategory not found")
	}

	recipe, err := buildRecipe(ctx, businessId, input.Lines)
	if err != nil {
		return nil, err
	}

	totalCost := recipe.TotalCost()

	db := config.GetDB()
	tx := db.Begin()

	if err := tx.WithContext(ctx).Where("menu_id = ?", menu.ID).Delete(&RecipeLine{}).Error; err != nil {
		tx.Rollback()
		config.LogError(config.GetLogger(), "menu.go", "UpdateMenu", "delete lines", menu.ID, err)
		return nil, utils.ErrorInfrastructure
	}
	lines := recipe.Lines()
	for i := range lines {
		lines[i].MenuId = menu.ID
	}
	if len(lines) > 0 {
		if err := tx.WithContext(ctx).Create(&lines).Error; err != nil {
			tx.Rollback()
			config.LogError(config.GetLogger(), "menu.go", "UpdateMenu", "insert lines", menu.ID, err)
			return nil, utils.ErrorInfrastructure
		}
	}

	if err := tx.WithContext(ctx).Model(&menu).Updates(map[string]interface{}{
		"Name":          input.Name,
		"ImageUrl":      input.ImageUrl,
		"CategoryId":    categoryId,
		"SubcategoryId": input.SubcategoryId,
		"SellingPrice":  input.SellingPrice,
		"TotalCost":     totalCost,
		"CostRate":      CostRate(totalCost, input.SellingPrice),
	}).Error; err != nil {
		tx.Rollback()
		config.LogError(config.GetLogger(), "menu.go", "UpdateMenu", "update menu", menu.ID, err)
		return nil, utils.ErrorInfrastructure
	}

	if err := tx.Commit().Error; err != nil {
		return nil, utils.ErrorInfrastructure
	}

	clearResourceCache[Menu](businessId, id)
	menu.Lines = lines
	return menu, nil
}

// DeleteMenu removes the menu and cascades to its recipe lines.
func DeleteMenu(ctx context.Context, id int) (*Menu, error) {

	businessId, ok := utils.GetBusinessIdFromContext(ctx)
	if !ok || businessId == "" {
		return nil, errors.New("business id is required")
	}
	result, err := utils.FetchModel[Menu](ctx, businessId, id)
	if err != nil {
		return nil, err
	}

	db := config.GetDB()
	tx := db.Begin()
	if err := tx.WithContext(ctx).Where("menu_id = ?", id).Delete(&RecipeLine{}).Error; err != nil {
		tx.Rollback()
		config.LogError(config.GetLogger(), "menu.go", "DeleteMenu", "delete lines", id, err)
		return nil, utils.ErrorInfrastructure
	}
	if err := tx.WithContext(ctx).Delete(&result).Error; err != nil {
		tx.Rollback()
		config.LogError(config.GetLogger(), "menu.go", "DeleteMenu", "delete menu", id, err)
		return nil, utils.ErrorInfrastructure
	}
	if err := tx.Commit().Error; err != nil {
		return nil, utils.ErrorInfrastructure
	}

	clearResourceCache[Menu](businessId, id)
	return result, nil
}

// GetMenuWithLines loads the menu and its recipe lines.
func GetMenuWithLines(ctx context.Context, id int) (*Menu, error) {

	businessId, ok := utils.GetBusinessIdFromContext(ctx)
	if !ok || businessId == "" {
		return nil, errors.New("business id is required")
	}
	return utils.FetchModel[Menu](ctx, businessId, id, "Lines")
}

func GetMenus(ctx context.Context, name *string, subcategoryId *int) ([]*Menu, error) {

	businessId, ok := utils.GetBusinessIdFromContext(ctx)
	if !ok || businessId == "" {
		return nil, errors.New("business id is required")
	}

	db := config.GetDB()
	var results []*Menu
	dbCtx := db.WithContext(ctx).Where("business_id = ?", businessId)
	if name != nil && len(*name) > 0 {
		dbCtx = dbCtx.Where("name LIKE ?", "%"+*name+"%")
	}
	if subcategoryId != nil && *subcategoryId > 0 {
		dbCtx = dbCtx.Where("subcategory_id = ?", *subcategoryId)
	}
	if err := dbCtx.Order("name").Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func PaginateMenus(ctx context.Context, limit *int, after *string, name *string, subcategoryId *int) (*MenusConnection, error) {

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
	if subcategoryId != nil && *subcategoryId > 0 {
		dbCtx.Where("subcategory_id = ?", *subcategoryId)
	}
	edges, pageInfo, err := FetchPageCompositeCursor[Menu](dbCtx, pageSize, after, "created_at", "<")
	if err != nil {
		return nil, err
	}
	var menusConnection MenusConnection
	menusConnection.PageInfo = pageInfo
	for _, edge := range edges {
		menuEdge := MenusEdge(edge)
		menusConnection.Edges = append(menusConnection.Edges, &menuEdge)
	}
	return &menusConnection, nil
}

// GetMenuPricingSummary derives cost rate and discount price for display.
func GetMenuPricingSummary(ctx context.Context, id int) (*PricingSummary, error) {
	menu, err := GetMenuWithLines(ctx, id)
	if err != nil {
		return nil, err
	}
	summary := SummarizePricing(menu.TotalCost, menu.SellingPrice)
	return &summary, nil
}

// RecalculateMenuCost re-costs every line of one menu from the current
// ingredient prices and rewrites the snapshots in one transaction.
func RecalculateMenuCost(ctx context.Context, menuId int) (*Menu, error) {

	businessId, ok := utils.GetBusinessIdFromContext(ctx)
	if !ok || businessId == "" {
		return nil, errors.New("business id is required")
	}

	menu, err := utils.FetchModel[Menu](ctx, businessId, menuId, "Lines")
	if err != nil {
		return nil, err
	}

	db := config.GetDB()
	tx := db.Begin()

	total := decimal.Zero
	for i := range menu.Lines {
		ingredient, err := utils.FetchModel[Ingredient](ctx, businessId, menu.Lines[i].IngredientId)
		if err != nil {
			// catalog entry gone; keep the stored snapshot
			total = total.Add(menu.Lines[i].CalculatedCost)
			continue
		}
		cost := lineCost(ingredient, menu.Lines[i].Quantity)
		if !cost.Equal(menu.Lines[i].CalculatedCost) {
			if err := tx.WithContext(ctx).Model(&menu.Lines[i]).
				UpdateColumn("calculated_cost", cost).Error; err != nil {
				tx.Rollback()
				return nil, err
			}
			menu.Lines[i].CalculatedCost = cost
		}
		total = total.Add(cost)
	}

	if err := tx.WithContext(ctx).Model(&menu).Updates(map[string]interface{}{
		"TotalCost": total,
		"CostRate":  CostRate(total, menu.SellingPrice),
	}).Error; err != nil {
		tx.Rollback()
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		return nil, err
	}

	clearResourceCache[Menu](businessId, menuId)
	return menu, nil
}

// MenuIdsForBusiness lists menu ids for offline recalculation.
func MenuIdsForBusiness(ctx context.Context, businessId string) ([]int, error) {
	db := config.GetDB()
	var ids []int
	err := db.WithContext(ctx).Model(&Menu{}).
		Where("business_id = ?", businessId).
		Select("id").Scan(&ids).Error
	return ids, err
}
