// Package token issues and verifies the signed credentials handed to clients
// after signup and signin.
package token

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/vasapolrittideah/account-api/services/auth-service/internal/model"
	"github.com/vasapolrittideah/account-api/shared/auth"
)

// ValidFor is the fixed lifetime of an issued token.
const ValidFor = 7 * 24 * time.Hour

var (
	ErrTokenExpired   = errors.New("token has expired")
	ErrTokenMalformed = errors.New("token is malformed")
	ErrTokenInvalid   = errors.New("token is invalid")
)

// Claims is the payload of an issued token.
type Claims struct {
	UserID string     `json:"_id"`
	Role   model.Role `json:"role"`
	jwt.RegisteredClaims
}

// Codec signs and verifies tokens with a single shared secret.
type Codec struct {
	jwtAuth auth.JWTAuthenticator
	secret  string
}

func NewCodec(jwtAuth auth.JWTAuthenticator, secret string) *Codec {
	return &Codec{
		jwtAuth: jwtAuth,
		secret:  secret,
	}
}

// Issue signs a token for the given user and role.
func (c *Codec) Issue(userID string, role model.Role) (string, error) {
	now := c.jwtAuth.Now()
	claims := Claims{
		UserID: userID,
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    c.jwtAuth.Issuer(),
			Audience:  jwt.ClaimStrings{c.jwtAuth.Audience()},
			Subject:   userID,
			ExpiresAt: jwt.NewNumericDate(now.Add(ValidFor)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	return c.jwtAuth.GenerateToken(claims, c.secret)
}

// Verify checks the signature and temporal claims of tokenString and returns
// its payload. Errors are one of ErrTokenExpired, ErrTokenMalformed or ErrTokenInvalid.
func (c *Codec) Verify(tokenString string) (*Claims, error) {
	claims := &Claims{}
	if _, err := c.jwtAuth.ValidateTokenWithClaims(tokenString, c.secret, claims); err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, ErrTokenExpired
		case errors.Is(err, jwt.ErrTokenMalformed):
			return nil, ErrTokenMalformed
		default:
			return nil, ErrTokenInvalid
		}
	}

	if claims.UserID == "" || !claims.Role.IsValid() {
		return nil, ErrTokenMalformed
	}

	return claims, nil
}
