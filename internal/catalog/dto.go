package catalog

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/metalbaza/metalbaza-backend/pkg/db/models"
)

// ProductFilters describe the inputs supported by the product list.
type ProductFilters struct {
	CategoryID    *uuid.UUID
	Query         string
	OnlyAvailable bool
	OnlyRental    *bool
}

// ProductView is the storefront shape of a product. Name and Description are
// localized for the requested language, falling back to Uzbek when the Russian
// translation is missing.
type ProductView struct {
	ID                    uuid.UUID       `json:"id"`
	Name                  string          `json:"name"`
	Description           *string         `json:"description,omitempty"`
	Price                 decimal.Decimal `json:"price"`
	DeliveryPrice         decimal.Decimal `json:"delivery_price"`
	FreeDeliveryThreshold decimal.Decimal `json:"free_delivery_threshold"`
	CategoryID            *uuid.UUID      `json:"category_id,omitempty"`
	ImageURL              *string         `json:"image_url,omitempty"`
	IsAvailable           bool            `json:"is_available"`
	IsRental              bool            `json:"is_rental"`
	Unit                  string          `json:"unit"`
	CreatedAt             time.Time       `json:"created_at"`
}

// CategoryView is the storefront shape of a category.
type CategoryView struct {
	ID         uuid.UUID `json:"id"`
	Name       string    `json:"name"`
	Icon       *string   `json:"icon,omitempty"`
	OrderIndex int       `json:"order_index"`
	IsActive   bool      `json:"is_active"`
}

// ProductList wraps the paginated products plus the next page cursor.
type ProductList struct {
	Products   []ProductView `json:"products"`
	NextCursor string        `json:"next_cursor,omitempty"`
}

// CreateProductInput carries the admin product creation payload.
type CreateProductInput struct {
	NameUz                string           `json:"name_uz" validate:"required,min=1,max=255"`
	NameRu                *string          `json:"name_ru,omitempty" validate:"omitempty,max=255"`
	DescriptionUz         *string          `json:"description_uz,omitempty"`
	DescriptionRu         *string          `json:"description_ru,omitempty"`
	Price                 decimal.Decimal  `json:"price" validate:"required"`
	DeliveryPrice         *decimal.Decimal `json:"delivery_price,omitempty"`
	FreeDeliveryThreshold *decimal.Decimal `json:"free_delivery_threshold,omitempty"`
	CategoryID            *uuid.UUID       `json:"category_id,omitempty"`
	ImageURL              *string          `json:"image_url,omitempty"`
	IsAvailable           *bool            `json:"is_available,omitempty"`
	IsRental              *bool            `json:"is_rental,omitempty"`
	Unit                  *string          `json:"unit,omitempty" validate:"omitempty,max=50"`
}

// UpdateProductInput carries the admin product update payload. Nil fields are
// left unchanged.
type UpdateProductInput struct {
	NameUz                *string          `json:"name_uz,omitempty" validate:"omitempty,min=1,max=255"`
	NameRu                *string          `json:"name_ru,omitempty" validate:"omitempty,max=255"`
	DescriptionUz         *string          `json:"description_uz,omitempty"`
	DescriptionRu         *string          `json:"description_ru,omitempty"`
	Price                 *decimal.Decimal `json:"price,omitempty"`
	DeliveryPrice         *decimal.Decimal `json:"delivery_price,omitempty"`
	FreeDeliveryThreshold *decimal.Decimal `json:"free_delivery_threshold,omitempty"`
	CategoryID            *uuid.UUID       `json:"category_id,omitempty"`
	ImageURL              *string          `json:"image_url,omitempty"`
	IsAvailable           *bool            `json:"is_available,omitempty"`
	IsRental              *bool            `json:"is_rental,omitempty"`
	Unit                  *string          `json:"unit,omitempty" validate:"omitempty,max=50"`
}

// CreateCategoryInput carries the admin category creation payload.
type CreateCategoryInput struct {
	NameUz     string  `json:"name_uz" validate:"required,min=1,max=255"`
	NameRu     *string `json:"name_ru,omitempty" validate:"omitempty,max=255"`
	Icon       *string `json:"icon,omitempty" validate:"omitempty,max=100"`
	OrderIndex *int    `json:"order_index,omitempty"`
	IsActive   *bool   `json:"is_active,omitempty"`
}

// UpdateCategoryInput carries the admin category update payload.
type UpdateCategoryInput struct {
	NameUz     *string `json:"name_uz,omitempty" validate:"omitempty,min=1,max=255"`
	NameRu     *string `json:"name_ru,omitempty" validate:"omitempty,max=255"`
	Icon       *string `json:"icon,omitempty" validate:"omitempty,max=100"`
	OrderIndex *int    `json:"order_index,omitempty"`
	IsActive   *bool   `json:"is_active,omitempty"`
}

// Localize picks the requested language with an Uzbek fallback.
func Localize(lang string, uz string, ru *string) string {
	if lang == "ru" && ru != nil && *ru != "" {
		return *ru
	}
	return uz
}

func localizePtr(lang string, uz, ru *string) *string {
	if lang == "ru" && ru != nil && *ru != "" {
		return ru
	}
	return uz
}

// ProductViewFromModel maps the persistence model to the localized API shape.
func ProductViewFromModel(product *models.Product, lang string) ProductView {
	return ProductView{
		ID:                    product.ID,
		Name:                  Localize(lang, product.NameUz, product.NameRu),
		Description:           localizePtr(lang, product.DescriptionUz, product.DescriptionRu),
		Price:                 product.Price,
		DeliveryPrice:         product.DeliveryPrice,
		FreeDeliveryThreshold: product.FreeDeliveryThreshold,
		CategoryID:            product.CategoryID,
		ImageURL:              product.ImageURL,
		IsAvailable:           product.IsAvailable,
		IsRental:              product.IsRental,
		Unit:                  product.Unit,
		CreatedAt:             product.CreatedAt,
	}
}

// CategoryViewFromModel maps the persistence model to the localized API shape.
func CategoryViewFromModel(category *models.Category, lang string) CategoryView {
	return CategoryView{
		ID:         category.ID,
		Name:       Localize(lang, category.NameUz, category.NameRu),
		Icon:       category.Icon,
		OrderIndex: category.OrderIndex,
		IsActive:   category.IsActive,
	}
}
