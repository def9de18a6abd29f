package auth

import (
	"github.com/metalbaza/metalbaza-backend/internal/users"
)

// TelegramLoginInput carries the raw Mini App init data string.
type TelegramLoginInput struct {
	InitData string `json:"init_data" validate:"required"`
}

// LoginResult returns the minted token plus the resolved profile.
type LoginResult struct {
	AccessToken string        `json:"access_token"`
	Profile     users.Profile `json:"user"`
}

// RegisterInput captures the bot-driven registration payload.
type RegisterInput struct {
	TelegramID       int64   `json:"telegram_id" validate:"required,gt=0"`
	Phone            string  `json:"phone" validate:"required,min=7,max=20"`
	FirstName        string  `json:"first_name" validate:"required,min=1,max=100"`
	LastName         string  `json:"last_name" validate:"required,min=1,max=100"`
	TelegramUsername *string `json:"telegram_username,omitempty" validate:"omitempty,max=100"`
}
