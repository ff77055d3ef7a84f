package auth

import (
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/nixfunds/finance-api/internal/config"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("token has expired")
)

// TokenClaims is what a verified bearer token says about its holder
type TokenClaims struct {
	UserID    string    `json:"id"` // UUID stored as string in token
	Email     string    `json:"email"`
	IssuedAt  time.Time `json:"iat"`
	ExpiresAt time.Time `json:"exp"`
}

// TokenService defines the interface for token creation and validation.
// Implementations include PasetoService (PASETO v4.local) and JWTService (HS256).
type TokenService interface {
	CreateToken(userID uuid.UUID, email string, duration time.Duration) (string, error)
	VerifyToken(tokenStr string) (*TokenClaims, error)
}

// NewTokenService builds the implementation selected by TOKEN_FORMAT
func NewTokenService(cfg config.AuthConfig) (TokenService, error) {
	if cfg.TokenFormat == config.TokenPaseto {
		return NewPasetoService([]byte(cfg.PasetoKey))
	}
	return NewJWTService([]byte(cfg.JWTSecret))
}
