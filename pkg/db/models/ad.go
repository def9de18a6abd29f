package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Ad is a storefront banner shown while active and inside its date window.
type Ad struct {
	ID            uuid.UUID  `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	TitleUz       string     `gorm:"column:title_uz;not null"`
	TitleRu       *string    `gorm:"column:title_ru"`
	DescriptionUz *string    `gorm:"column:description_uz"`
	DescriptionRu *string    `gorm:"column:description_ru"`
	ImageURL      *string    `gorm:"column:image_url"`
	LinkURL       *string    `gorm:"column:link_url"`
	IsActive      bool       `gorm:"column:is_active;not null;default:true"`
	StartDate     *time.Time `gorm:"column:start_date"`
	EndDate       *time.Time `gorm:"column:end_date"`
	CreatedAt     time.Time  `gorm:"column:created_at;autoCreateTime"`
}

func (a *Ad) BeforeCreate(*gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}
