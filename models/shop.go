package models

import (
	"context"
	"errors"
	"time"

	"github.com/mmdatafocus/menucost_backend/config"
	"github.com/mmdatafocus/menucost_backend/utils"
	"gorm.io/gorm"
)

// Shop is one physical restaurant location of a business. Menus and the
// ingredient catalog are owned per shop.
type Shop struct {
	ID         int       `gorm:"primary_key" json:"id"`
	BusinessId string    `gorm:"index;not null" json:"business_id"`
	Name       string    `gorm:"index;size:100;not null" json:"name" binding:"required"`
	Phone      string    `gorm:"size:20" json:"phone"`
	Address    string    `gorm:"type:text" json:"address"`
	IsActive   *bool     `gorm:"not null;default:true" json:"is_active"`
	CreatedAt  time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (s Shop) GetBusinessId() string { return s.BusinessId }

type NewShop struct {
	Name    string `json:"name" binding:"required"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
}

func (input *NewShop) validate(ctx context.Context, businessId string, id int) error {
	if err := utils.ValidateUnique[Shop](ctx, businessId, "name", input.Name, id); err != nil {
		return err
	}
	if input.Phone != "" {
		if err := utils.ValidatePhoneNumber(input.Phone, utils.CountryCode); err != nil {
			return utils.NewValidationError("phone", "invalid phone number")
		}
	}
	return nil
}

func CreateShop(ctx context.Context, input *NewShop) (*Shop, error) {

	businessId, ok := utils.GetBusinessIdFromContext(ctx)
	if !ok || businessId == "" {
		return nil, errors.New("business id is required")
	}

	if err := input.validate(ctx, businessId, 0); err != nil {
		return nil, err
	}

	shop := Shop{
		BusinessId: businessId,
		Name:       input.Name,
		Phone:      input.Phone,
		Address:    input.Address,
		IsActive:   utils.NewTrue(),
	}

	db := config.GetDB()
	if err := db.WithContext(ctx).Create(&shop).Error; err != nil {
		return nil, err
	}
	return &shop, nil
}

func UpdateShop(ctx context.Context, id int, input *NewShop) (*Shop, error) {

	businessId, ok := utils.GetBusinessIdFromContext(ctx)
	if !ok || businessId == "" {
		return nil, errors.New("business id is required")
	}
	if err := input.validate(ctx, businessId, id); err != nil {
		return nil, err
	}

	shop, err := utils.FetchModel[Shop](ctx, businessId, id)
	if err != nil {
		return nil, err
	}

	db := config.GetDB()
	err = db.WithContext(ctx).Model(&shop).Updates(map[string]interface{}{
		"Name":    input.Name,
		"Phone":   input.Phone,
		"Address": input.Address,
	}).Error
	if err != nil {
		return nil, err
	}
	return shop, nil
}

func DeleteShop(ctx context.Context, id int) (*Shop, error) {

	businessId, ok := utils.GetBusinessIdFromContext(ctx)
	if !ok || businessId == "" {
		return nil, errors.New("business id is required")
	}
	result, err := utils.FetchModel[Shop](ctx, businessId, id)
	if err != nil {
		return nil, err
	}

	// don't delete while the shop still owns menus or ingredients
	count, err := utils.ResourceCountWhere[Menu](ctx, businessId, "shop_id = ?", id)
	if err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, errors.New("used by menu")
	}
	count, err = utils.ResourceCountWhere[Ingredient](ctx, businessId, "shop_id = ?", id)
	if err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, errors.New("used by ingredient")
	}

	db := config.GetDB()
	if err := db.WithContext(ctx).Delete(&result).Error; err != nil {
		return nil, err
	}
	return result, nil
}

func GetShop(ctx context.Context, id int) (*Shop, error) {
	businessId, ok := utils.GetBusinessIdFromContext(ctx)
	if !ok || businessId == "" {
		return nil, errors.New("business id is required")
	}
	return utils.FetchModel[Shop](ctx, businessId, id)
}

func GetShops(ctx context.Context) ([]*Shop, error) {
	businessId, ok := utils.GetBusinessIdFromContext(ctx)
	if !ok || businessId == "" {
		return nil, errors.New("business id is required")
	}

	db := config.GetDB()
	var results []*Shop
	err := db.WithContext(ctx).Where("business_id = ?", businessId).Order("name").Find(&results).Error
	if err != nil {
		return nil, err
	}
	return results, nil
}

func CreateDefaultShop(tx *gorm.DB, ctx context.Context, businessId string, name string) (*Shop, error) {

	shop := Shop{
		BusinessId: businessId,
		Name:       name,
		IsActive:   utils.NewTrue(),
	}

	if err := tx.WithContext(ctx).Create(&shop).Error; err != nil {
		return nil, err
	}
	return &shop, nil
}
