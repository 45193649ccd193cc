package models

import (
	"context"
	"errors"
	"fmt"

	"github.com/mmdatafocus/menucost_backend/config"
	"github.com/mmdatafocus/menucost_backend/utils"
	"gorm.io/gorm"
)

const (
	DefaultCategoryName    = "未分類"
	DefaultSubcategoryName = "未分類"
)

// DefaultTaxonomy holds the ids of the fallback category/subcategory pair.
type DefaultTaxonomy struct {
	CategoryId    int `json:"category_id"`
	SubcategoryId int `json:"subcategory_id"`
}

func defaultTaxonomyCacheKey(businessId string) string {
	return "DefaultTaxonomy:" + fmt.Sprint(businessId)
}

// clearDefaultTaxonomyCache drops the cached fallback ids. Called whenever a
// category or subcategory is deleted so the cache never serves a dead pair.
func clearDefaultTaxonomyCache(businessId string) {
	if err := config.RemoveRedisKey(defaultTaxonomyCacheKey(businessId)); err != nil {
		config.LogError(config.GetLogger(), "default.go", "clearDefaultTaxonomyCache", "RemoveRedisKey", businessId, err)
	}
}

// createDefaultTaxonomy inserts the fallback pair inside the caller's tx.
// Used by tenant bootstrap; the caller owns commit/rollback.
func createDefaultTaxonomy(tx *gorm.DB, ctx context.Context, businessId string) (*Category, *Subcategory, error) {

	category := Category{
		BusinessId: businessId,
		Name:       DefaultCategoryName,
	}
	if err := tx.WithContext(ctx).Create(&category).Error; err != nil {
		return nil, nil, err
	}

	subcategory := Subcategory{
		BusinessId: businessId,
		CategoryId: category.ID,
		Name:       DefaultSubcategoryName,
	}
	if err := tx.WithContext(ctx).Create(&subcategory).Error; err != nil {
		return nil, nil, err
	}

	return &category, &subcategory, nil
}

// EnsureDefaultTaxonomy guarantees the tenant has at least one
// category/subcategory pair so menu creation is never blocked by an empty
// taxonomy. Idempotent; called explicitly at the start of menu-create flows
// instead of lazily inside read paths.
func EnsureDefaultTaxonomy(ctx context.Context) (*DefaultTaxonomy, error) {

	businessId, ok := utils.GetBusinessIdFromContext(ctx)
	if !ok || businessId == "" {
		return nil, errors.New("business id is required")
	}

	var cached DefaultTaxonomy
	exists, err := config.GetRedisObject(defaultTaxonomyCacheKey(businessId), &cached)
	if err != nil {
		return nil, err
	}
	if exists && cached.SubcategoryId > 0 {
		return &cached, nil
	}

	db := config.GetDB()

	var category Category
	err = db.WithContext(ctx).Where("business_id = ?", businessId).
		Order("id").First(&category).Error
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		category = Category{BusinessId: businessId, Name: DefaultCategoryName}
		if err := db.WithContext(ctx).Create(&category).Error; err != nil {
			return nil, err
		}
		clearResourceCache[Category](businessId, category.ID)
	}

	var subcategory Subcategory
	err = db.WithContext(ctx).Where("business_id = ? AND category_id = ?", businessId, category.ID).
		Order("id").First(&subcategory).Error
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		subcategory = Subcategory{
			BusinessId: businessId,
			CategoryId: category.ID,
			Name:       DefaultSubcategoryName,
		}
		if err := db.WithContext(ctx).Create(&subcategory).Error; err != nil {
			return nil, err
		}
		clearResourceCache[Subcategory](businessId, subcategory.ID)
	}

	taxonomy := DefaultTaxonomy{
		CategoryId:    category.ID,
		SubcategoryId: subcategory.ID,
	}
	if err := config.SetRedisObject(defaultTaxonomyCacheKey(businessId), &taxonomy, utils.GetCacheLifespan()); err != nil {
		return nil, err
	}
	return &taxonomy, nil
}
