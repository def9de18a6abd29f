package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/metalbaza/metalbaza-backend/pkg/enums"
)

// Order is a materialized checkout. TotalAmount and DeliveryAmount are
// server-computed from catalog data at creation time and must equal the sums
// recomputed from the order's items; they are never taken from the client.
type Order struct {
	ID                uuid.UUID         `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	UserID            uuid.UUID         `gorm:"column:user_id;type:uuid;not null;index"`
	TotalAmount       decimal.Decimal   `gorm:"column:total_amount;type:numeric(12,2);not null"`
	DeliveryAmount    decimal.Decimal   `gorm:"column:delivery_amount;type:numeric(12,2);not null;default:0"`
	IsDelivery        bool              `gorm:"column:is_delivery;not null;default:false"`
	DeliveryAddress   *string           `gorm:"column:delivery_address"`
	DeliveryLatitude  *float64          `gorm:"column:delivery_latitude;type:numeric(9,6)"`
	DeliveryLongitude *float64          `gorm:"column:delivery_longitude;type:numeric(9,6)"`
	DeliveryDate      *time.Time        `gorm:"column:delivery_date"`
	Notes             *string           `gorm:"column:notes"`
	Status            enums.OrderStatus `gorm:"column:status;type:text;not null;default:'pending'"`
	Items             []OrderItem       `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	CreatedAt         time.Time         `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt         time.Time         `gorm:"column:updated_at;autoUpdateTime"`
}

func (o *Order) BeforeCreate(*gorm.DB) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	return nil
}
