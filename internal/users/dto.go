package users

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/metalbaza/metalbaza-backend/pkg/db/models"
	"github.com/metalbaza/metalbaza-backend/pkg/enums"
)

// Profile is the authenticated user's own view of their account.
type Profile struct {
	ID               uuid.UUID          `json:"id"`
	Phone            string             `json:"phone"`
	FirstName        string             `json:"first_name"`
	LastName         string             `json:"last_name"`
	TelegramUsername *string            `json:"telegram_username,omitempty"`
	Role             enums.UserRole     `json:"role"`
	SwitchedTo       *enums.UserRole    `json:"switched_to,omitempty"`
	Specialization   *string            `json:"specialization,omitempty"`
	ExperienceYears  *int               `json:"experience_years,omitempty"`
	HourlyRate       *decimal.Decimal   `json:"hourly_rate,omitempty"`
	Address          *string            `json:"address,omitempty"`
	CreatedAt        time.Time          `json:"created_at"`
}

// List wraps a paginated admin user listing plus the next page cursor.
type List struct {
	Users      []Profile `json:"users"`
	NextCursor string    `json:"next_cursor,omitempty"`
}

// UpdateProfileInput carries the mutable profile fields.
type UpdateProfileInput struct {
	FirstName *string
	LastName  *string
	Phone     *string
}

// ProfileFromModel maps the persistence model to the API shape.
func ProfileFromModel(user *models.User) Profile {
	return Profile{
		ID:               user.ID,
		Phone:            user.Phone,
		FirstName:        user.FirstName,
		LastName:         user.LastName,
		TelegramUsername: user.TelegramUsername,
		Role:             user.Role,
		SwitchedTo:       user.SwitchedTo,
		Specialization:   user.Specialization,
		ExperienceYears:  user.ExperienceYears,
		HourlyRate:       user.HourlyRate,
		Address:          user.Address,
		CreatedAt:        user.CreatedAt,
	}
}
