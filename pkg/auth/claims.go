package auth

import (
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/metalbaza/metalbaza-backend/pkg/enums"
)

// AccessTokenPayload captures the data available when minting a JWT.
type AccessTokenPayload struct {
	UserID     uuid.UUID
	Role       enums.UserRole
	SwitchedTo *enums.UserRole
	TelegramID *int64
	JTI        string
}

// AccessTokenClaims represents the typed JWT issued to clients.
type AccessTokenClaims struct {
	UserID     uuid.UUID       `json:"user_id"`
	Role       enums.UserRole  `json:"role"`
	SwitchedTo *enums.UserRole `json:"switched_to,omitempty"`
	TelegramID *int64          `json:"telegram_id,omitempty"`
	jwt.RegisteredClaims
}

// EffectiveRole returns the role requests should be authorized against. Admins
// browsing as another role keep admin off until they switch back.
func (c *AccessTokenClaims) EffectiveRole() enums.UserRole {
	if c.SwitchedTo != nil && c.SwitchedTo.IsValid() {
		return *c.SwitchedTo
	}
	return c.Role
}
