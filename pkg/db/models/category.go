package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Category groups products; names are bilingual with Uzbek as the required
// primary language.
type Category struct {
	ID         uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	NameUz     string    `gorm:"column:name_uz;not null"`
	NameRu     *string   `gorm:"column:name_ru"`
	Icon       *string   `gorm:"column:icon"`
	OrderIndex int       `gorm:"column:order_index;not null;default:0"`
	IsActive   bool      `gorm:"column:is_active;not null;default:true"`
	CreatedAt  time.Time `gorm:"column:created_at;autoCreateTime"`
}

func (c *Category) BeforeCreate(*gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}
