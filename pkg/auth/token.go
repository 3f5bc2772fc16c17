package auth

import (
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"

	"github.com/afigueroa/mailprov-backend/pkg/config"
)

var (
	errEmptyToken       = errors.New("token is empty")
	errMissingIdentity  = errors.New("token missing user identity")
	errUnexpectedMethod = errors.New("unexpected signing method")
)

// ParseAccessToken validates the signature and standard claims of an access
// token and returns its payload.
func ParseAccessToken(cfg config.JWTConfig, raw string) (*Claims, error) {
	if raw == "" {
		return nil, errEmptyToken
	}

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("%w: %s", errUnexpectedMethod, t.Method.Alg())
		}
		return []byte(cfg.Secret), nil
	}, jwt.WithIssuer(cfg.Issuer), jwt.WithExpirationRequired())
	if err != nil {
		return nil, fmt.Errorf("parse access token: %w", err)
	}
	if !token.Valid {
		return nil, errors.New("invalid access token")
	}

	if claims.UserID == "" {
		return nil, errMissingIdentity
	}
	if !claims.Role.Valid() {
		return nil, fmt.Errorf("unknown role %q", claims.Role)
	}
	return claims, nil
}
