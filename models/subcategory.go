package models

import (
	"context"
	"errors"
	"time"

	"github.com/mmdatafocus/menucost_backend/config"
	"github.com/mmdatafocus/menucost_backend/utils"
)

// Subcategory always belongs to exactly one Category. A menu references the
// subcategory; its category id is derived, never taken from the client.
type Subcategory struct {
	ID          int       `gorm:"primary_key" json:"id"`
	BusinessId  string    `gorm:"index;not null" json:"business_id"`
	CategoryId  int       `gorm:"index;not null" json:"category_id"`
	Name        string    `gorm:"index;size:100;not null" json:"name" binding:"required"`
	Description string    `gorm:"type:text" json:"description"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (sc Subcategory) GetBusinessId() string { return sc.BusinessId }

type NewSubcategory struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	CategoryId  int    `json:"category_id" binding:"required"`
}

func (input *NewSubcategory) validate(ctx context.Context, businessId string, id int) error {
	if err := utils.ValidateUnique[Subcategory](ctx, businessId, "name", input.Name, id); err != nil {
		return err
	}
	// parent category
	if err := utils.ValidateResourceId[Category](ctx, businessId, input.CategoryId); err != nil {
		return errors.New("category not found")
	}
	return nil
}

func CreateSubcategory(ctx context.Context, input *NewSubcategory) (*Subcategory, error) {

	businessId, ok := utils.GetBusinessIdFromContext(ctx)
	if !ok || businessId == "" {
		return nil, errors.New("business id is required")
	}

	if err := input.validate(ctx, businessId, 0); err != nil {
		return nil, err
	}

	subcategory := Subcategory{
		BusinessId:  businessId,
		CategoryId:  input.CategoryId,
		Name:        input.Name,
		Description: input.Description,
	}

	db := config.GetDB()
	if err := db.WithContext(ctx).Create(&subcategory).Error; err != nil {
		return nil, err
	}

	clearResourceCache[Subcategory](businessId, subcategory.ID)
	return &subcategory, nil
}

func UpdateSubcategory(ctx context.Context, id int, input *NewSubcategory) (*Subcategory, error) {

	businessId, ok := utils.GetBusinessIdFromContext(ctx)
	if !ok || businessId == "" {
		return nil, errors.New("business id is required")
	}
	if err := input.validate(ctx, businessId, id); err != nil {
		return nil, err
	}

	subcategory, err := utils.FetchModel[Subcategory](ctx, businessId, id)
	if err != nil {
		return nil, err
	}

	db := config.GetDB()

	var menuIds []int
	err = db.WithContext(ctx).Model(&Menu{}).
		Where("business_id = ? AND subcategory_id = ?", businessId, id).
		Pluck("id", &menuIds).Error
	if err != nil {
		return nil, err
	}

	// the re-parent and the menu updates must land together, otherwise
	// menus under the moved subcategory point at the old category
	tx := db.Begin()
	err = tx.WithContext(ctx).Model(&subcategory).Updates(map[string]interface{}{
		"Name":        input.Name,
		"Description": input.Description,
		"CategoryId":  input.CategoryId,
	}).Error
	if err != nil {
		tx.Rollback()
		return nil, err
	}

	err = tx.WithContext(ctx).Model(&Menu{}).
		Where("business_id = ? AND subcategory_id = ?", businessId, id).
		UpdateColumn("category_id", input.CategoryId).Error
	if err != nil {
		tx.Rollback()
		return nil, err
	}
	if err := tx.Commit().Error; err != nil {
		return nil, utils.ErrorInfrastructure
	}

	clearResourceCache[Subcategory](businessId, id)
	for _, menuId := range menuIds {
		clearResourceCache[Menu](businessId, menuId)
	}
	return subcategory, nil
}

func DeleteSubcategory(ctx context.Context, id int) (*Subcategory, error) {

	businessId, ok := utils.GetBusinessIdFromContext(ctx)
	if !ok || businessId == "" {
		return nil, errors.New("business id is required")
	}
	result, err := utils.FetchModel[Subcategory](ctx, businessId, id)
	if err != nil {
		return nil, err
	}

	// don't delete if the subcategory is used by a menu
	count, err := utils.ResourceCountWhere[Menu](ctx, businessId, "subcategory_id = ?", id)
	if err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, errors.New("used by menu")
	}

	db := config.GetDB()
	if err := db.WithContext(ctx).Delete(&result).Error; err != nil {
		return nil, err
	}

	clearResourceCache[Subcategory](businessId, id)
	clearDefaultTaxonomyCache(businessId)
	return result, nil
}

func GetSubcategory(ctx context.Context, id int) (*Subcategory, error) {

	return GetResource[Subcategory](ctx, id)
}

func GetSubcategories(ctx context.Context, categoryId *int) ([]*Subcategory, error) {

	if categoryId == nil || *categoryId == 0 {
		return ListAllResource[Subcategory](ctx, "name")
	}

	businessId, ok := utils.GetBusinessIdFromContext(ctx)
	if !ok || businessId == "" {
		return nil, errors.New("business id is required")
	}

	db := config.GetDB()
	var results []*Subcategory
	dbCtx := db.WithContext(ctx).Where("business_id = ?", businessId).
		Where("category_id = ?", *categoryId)
	if err := dbCtx.Order("name").Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

// ResolveCategoryForSubcategory returns the parent category id for a
// subcategory. Menu writes always go through this; a category id supplied by
// the client is ignored.
func ResolveCategoryForSubcategory(ctx context.Context, subcategoryId int) (int, error) {

	businessId, ok := utils.GetBusinessIdFromContext(ctx)
	if !ok || businessId == "" {
		return 0, errors.New("business id is required")
	}

	subcategory, err := utils.FetchModel[Subcategory](ctx, businessId, subcategoryId)
	if err != nil {
		return 0, err
	}
	return subcategory.CategoryId, nil
}
