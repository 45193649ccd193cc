package models

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/mmdatafocus/menucost_backend/config"
	"github.com/mmdatafocus/menucost_backend/utils"
)

// Business is the tenant: one restaurant organization owning shops, the
// ingredient catalog, the taxonomy, and the menus.
type Business struct {
	ID        uuid.UUID `gorm:"primary_key" json:"id"`
	LogoUrl   string    `json:"logo_url"`
	Name      string    `gorm:"index;size:100;not null" json:"name" binding:"required"`
	Email     string    `gorm:"size:255" json:"email"`
	Phone     string    `gorm:"size:20" json:"phone"`
	Address   string    `gorm:"type:text" json:"address"`
	Timezone  string    `gorm:"size:50" json:"timezone"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

type NewBusiness struct {
	LogoUrl  string `json:"logo_url"`
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required"`
	Phone    string `json:"phone"`
	Address  string `json:"address"`
	Timezone string `json:"timezone"`
}

func (input *NewBusiness) validate(ctx context.Context) error {
	if !utils.IsValidEmail(input.Email) {
		return utils.NewValidationError("email", "invalid email")
	}
	if input.Phone != "" {
		if err := utils.ValidatePhoneNumber(input.Phone, utils.CountryCode); err != nil {
			return utils.NewValidationError("phone", "invalid phone number")
		}
	}
	return nil
}

// CreateBusiness bootstraps a tenant:
// - create the business row
// - create a default shop
// - create the default category/subcategory pair
// - create the owner user
// All in one transaction.
func CreateBusiness(ctx context.Context, input *NewBusiness) (*Business, error) {

	if err := input.validate(ctx); err != nil {
		return nil, err
	}
	db := config.GetDB()

	tx := db.Begin()

	BID := uuid.New()
	timezone := "Asia/Tokyo"
	if input.Timezone != "" {
		timezone = input.Timezone
	}

	business := Business{
		ID:       BID,
		LogoUrl:  input.LogoUrl,
		Name:     input.Name,
		Email:    input.Email,
		Phone:    input.Phone,
		Address:  input.Address,
		Timezone: timezone,
	}
	if err := tx.WithContext(ctx).Create(&business).Error; err != nil {
		tx.Rollback()
		return nil, err
	}

	businessId := BID.String()

	if _, err := CreateDefaultShop(tx, ctx, businessId, input.Name+" 本店"); err != nil {
		tx.Rollback()
		return nil, err
	}
	if _, _, err := createDefaultTaxonomy(tx, ctx, businessId); err != nil {
		tx.Rollback()
		return nil, err
	}
	if _, err := CreateDefaultOwner(tx, ctx, businessId, input.Email, input.Name); err != nil {
		tx.Rollback()
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		return nil, err
	}
	return &business, nil
}

func GetBusinessById(ctx context.Context, businessId string) (*Business, error) {
	db := config.GetDB()
	var business Business
	if err := db.WithContext(ctx).Where("id = ?", businessId).First(&business).Error; err != nil {
		return nil, utils.ErrorRecordNotFound
	}
	return &business, nil
}

func GetBusiness(ctx context.Context) (*Business, error) {
	businessId, ok := utils.GetBusinessIdFromContext(ctx)
	if !ok || businessId == "" {
		return nil, errors.New("business id is required")
	}
	return GetBusinessById(ctx, businessId)
}
