package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/metalbaza/metalbaza-backend/pkg/enums"
)

// User represents the canonical identity entity. Accounts originate from the
// Telegram bot registration flow; workers carry additional marketplace fields.
type User struct {
	ID               uuid.UUID          `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Phone            string             `gorm:"column:phone;not null;uniqueIndex"`
	FirstName        string             `gorm:"column:first_name;not null"`
	LastName         string             `gorm:"column:last_name;not null"`
	TelegramUsername *string            `gorm:"column:telegram_username"`
	TelegramID       *int64             `gorm:"column:telegram_id;uniqueIndex"`
	Role             enums.UserRole     `gorm:"column:role;type:text;not null;default:'client'"`
	Provider         enums.AuthProvider `gorm:"column:type;type:text;not null;default:'telegram'"`
	// SwitchedTo lets an admin present as another role without losing
	// admin identity. Never consulted by pricing.
	SwitchedTo *enums.UserRole `gorm:"column:switched_to;type:text"`

	// Worker marketplace fields, null for clients.
	Specialization   *string          `gorm:"column:specialization"`
	ExperienceYears  *int             `gorm:"column:experience_years"`
	HourlyRate       *decimal.Decimal `gorm:"column:hourly_rate;type:numeric(12,2)"`
	Address          *string          `gorm:"column:address"`
	PassportSeries   *string          `gorm:"column:passport_series"`
	PassportNumber   *string          `gorm:"column:passport_number"`
	PassportIssuedBy *string          `gorm:"column:passport_issued_by"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

// BeforeCreate assigns the primary key when the database has no uuid default
// (SQLite in dev/tests).
func (u *User) BeforeCreate(*gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}
