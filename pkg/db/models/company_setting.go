package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CompanySetting is a singleton row with storefront-wide settings.
type CompanySetting struct {
	ID           uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	IsDelivery   bool      `gorm:"column:is_delivery;not null;default:false"`
	SupportPhone *string   `gorm:"column:support_phone"`
	Address      *string   `gorm:"column:address"`
	UpdatedAt    time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (c *CompanySetting) BeforeCreate(*gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}
