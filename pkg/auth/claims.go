package auth

import (
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/outletplus/pos-backend/pkg/enums"
)

// AccessTokenPayload captures the data available when minting a JWT.
type AccessTokenPayload struct {
	UserID      uuid.UUID
	Role        enums.UserRole
	Permissions []enums.Permission
	JTI         string
}

// AccessTokenClaims represents the typed JWT issued to clients.
type AccessTokenClaims struct {
	UserID      uuid.UUID          `json:"user_id"`
	Role        enums.UserRole     `json:"role"`
	Permissions []enums.Permission `json:"permissions,omitempty"`
	jwt.RegisteredClaims
}

// HasPermission reports whether the token grants the permission.
func (c *AccessTokenClaims) HasPermission(p enums.Permission) bool {
	for _, candidate := range c.Permissions {
		if candidate == p {
			return true
		}
	}
	return false
}
