package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Product is a catalog listing. Price fields are authoritative at read time:
// carts never snapshot them, orders freeze them at materialization.
//
// DeliveryPrice is the flat per-line delivery fee; FreeDeliveryThreshold is
// the line-subtotal floor at or above which that fee is waived. Both default
// to zero, which means delivery is free for the product.
type Product struct {
	ID                    uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	NameUz                string          `gorm:"column:name_uz;not null"`
	NameRu                *string         `gorm:"column:name_ru"`
	DescriptionUz         *string         `gorm:"column:description_uz"`
	DescriptionRu         *string         `gorm:"column:description_ru"`
	Price                 decimal.Decimal `gorm:"column:price;type:numeric(12,2);not null"`
	DeliveryPrice         decimal.Decimal `gorm:"column:delivery_price;type:numeric(12,2);not null;default:0"`
	FreeDeliveryThreshold decimal.Decimal `gorm:"column:free_delivery_threshold;type:numeric(12,2);not null;default:0"`
	CategoryID            *uuid.UUID      `gorm:"column:category_id;type:uuid"`
	Category              *Category       `gorm:"foreignKey:CategoryID"`
	ImageURL              *string         `gorm:"column:image_url"`
	IsAvailable           bool            `gorm:"column:is_available;not null;default:true"`
	IsRental              bool            `gorm:"column:is_rental;not null;default:false"`
	Unit                  string          `gorm:"column:unit;not null;default:'dona'"`
	CreatedAt             time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt             time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}

func (p *Product) BeforeCreate(*gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}
