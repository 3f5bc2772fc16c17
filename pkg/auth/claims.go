package auth

import (
	"github.com/golang-jwt/jwt/v5"

	"github.com/afigueroa/mailprov-backend/pkg/enums"
)

// Claims is the access-token payload minted by the auth collaborator. The
// backend only ever parses these; it never issues tokens.
type Claims struct {
	UserID    string         `json:"uid"`
	Email     string         `json:"email"`
	Role      enums.UserRole `json:"role"`
	SessionID string         `json:"sid"`
	jwt.RegisteredClaims
}
