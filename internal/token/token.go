// Package token mints and verifies the identity tokens handed out after a
// successful phone verification.
package token

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"starbound/internal/models"
)

var ErrInvalidToken = errors.New("invalid token")

// Claims is the JWT payload carried by identity tokens
type Claims struct {
	UserID string `json:"user_id"`
	Phone  string `json:"phone"`
	Name   string `json:"name"`
	jwt.RegisteredClaims
}

// Minter signs and verifies identity tokens with a shared HMAC secret
type Minter struct {
	secret   []byte
	duration time.Duration
}

// NewMinter creates a token minter. The secret must not be empty.
func NewMinter(secret string, duration time.Duration) (*Minter, error) {
	if secret == "" {
		return nil, errors.New("JWT_SECRET is required")
	}
	return &Minter{secret: []byte(secret), duration: duration}, nil
}

// Mint issues a signed identity token for a user
func (m *Minter) Mint(user *models.User) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID: user.UserID,
		Phone:  user.Phone,
		Name:   user.Name,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.duration)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
}

// Verify parses a token and returns the user id it was minted for
func (m *Minter) Verify(tokenString string) (string, error) {
	parsed, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return m.secret, nil
	})
	if err != nil || !parsed.Valid {
		return "", ErrInvalidToken
	}
	claims, ok := parsed.Claims.(*Claims)
	if !ok || claims.UserID == "" {
		return "", ErrInvalidToken
	}
	return claims.UserID, nil
}
