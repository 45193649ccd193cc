package models

import (
	"context"
	"errors"
	"time"

	"github.com/mmdatafocus/menucost_backend/config"
	"github.com/mmdatafocus/menucost_backend/utils"
)

// Category is the top level of the two-level menu taxonomy.
type Category struct {
	ID          int       `gorm:"primary_key" json:"id"`
	BusinessId  string    `gorm:"index;not null" json:"business_id"`
	Name        string    `gorm:"index;size:100;not null" json:"name" binding:"required"`
	Description string    `gorm:"type:text" json:"description"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (c Category) GetBusinessId() string { return c.BusinessId }

type NewCategory struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
}

func (input *NewCategory) validate(ctx context.Context, businessId string, id int) error {
	// name
	if err := utils.ValidateUnique[Category](ctx, businessId, "name", input.Name, id); err != nil {
		return err
	}
	return nil
}

func CreateCategory(ctx context.Context, input *NewCategory) (*Category, error) {

	businessId, ok := utils.GetBusinessIdFromContext(ctx)
	if !ok || businessId == "" {
		return nil, errors.New("business id is required")
	}

	if err := input.validate(ctx, businessId, 0); err != nil {
		return nil, err
	}

	category := Category{
		BusinessId:  businessId,
		Name:        input.Name,
		Description: input.Description,
	}

	db := config.GetDB()
	if err := db.WithContext(ctx).Create(&category).Error; err != nil {
		return nil, err
	}

	clearResourceCache[Category](businessId, category.ID)
	return &category, nil
}

func UpdateCategory(ctx context.Context, id int, input *NewCategory) (*Category, error) {

	businessId, ok := utils.GetBusinessIdFromContext(ctx)
	if !ok || businessId == "" {
		return nil, errors.New("business id is required")
	}
	if err := input.validate(ctx, businessId, id); err != nil {
		return nil, err
	}

	category, err := utils.FetchModel[Category](ctx, businessId, id)
	if err != nil {
		return nil, err
	}

	db := config.GetDB()
	err = db.WithContext(ctx).Model(&category).Updates(map[string]interface{}{
		"Name":        input.Name,
		"Description": input.Description,
	}).Error
	if err != nil {
		return nil, err
	}

	clearResourceCache[Category](businessId, id)
	return category, nil
}

func DeleteCategory(ctx context.Context, id int) (*Category, error) {

	businessId, ok := utils.GetBusinessIdFromContext(ctx)
	if !ok || businessId == "" {
		return nil, errors.New("business id is required")
	}
	result, err := utils.FetchModel[Category](ctx, businessId, id)
	if err != nil {
		return nil, err
	}

	// don't delete if the category has subcategories
	count, err := utils.ResourceCountWhere[Subcategory](ctx, businessId, "category_id = ?", id)
	if err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, errors.New("category has subcategories")
	}

	// don't delete if the category is used by a menu
	count, err = utils.ResourceCountWhere[Menu](ctx, businessId, "category_id = ?", id)
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

	clearResourceCache[Category](businessId, id)
	clearDefaultTaxonomyCache(businessId)
	return result, nil
}

func GetCategory(ctx context.Context, id int) (*Category, error) {

	return GetResource[Category](ctx, id)
}

func GetCategories(ctx context.Context, name *string) ([]*Category, error) {

	if name == nil || *name == "" {
		// name ordering is delegated to the DB collation
		return ListAllResource[Category](ctx, "name")
	}

	businessId, ok := utils.GetBusinessIdFromContext(ctx)
	if !ok || businessId == "" {
		return nil, errors.New("business id is required")
	}

	db := config.GetDB()
	var results []*Category
	dbCtx := db.WithContext(ctx).Where("business_id = ?", businessId).
		Where("name LIKE ?", "%"+*name+"%")
	if err := dbCtx.Order("name").Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
