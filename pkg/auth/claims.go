package auth

import (
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/angelmondragon/stockroom-backend/pkg/enums"
)

// AccessTokenPayload captures the data available when minting a JWT.
type AccessTokenPayload struct {
	UserID      uuid.UUID
	Email       string
	Role        enums.StaffRole
	IsSuperuser bool
	// JTI identifies the server-side session; generated when empty.
	JTI string
}

// AccessTokenClaims represents the typed JWT issued to staff clients.
type AccessTokenClaims struct {
	UserID      uuid.UUID       `json:"user_id"`
	Email       string          `json:"email"`
	Role        enums.StaffRole `json:"role,omitempty"`
	IsSuperuser bool            `json:"is_superuser,omitempty"`
	jwt.RegisteredClaims
}
