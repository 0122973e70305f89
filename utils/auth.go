package utils

import (
	"errors"
	"fmt"
	"time"

	"go-shop/errs"
	"go-shop/models"

	"github.com/dgrijalva/jwt-go"
)

// DefaultTokenTTL is the session token validity window.
const DefaultTokenTTL = 24 * time.Hour

// Claims represents the JWT claims
type Claims struct {
	ID       string      `json:"id"`
	Username string      `json:"username"`
	Email    string      `json:"email"`
	Role     models.Role `json:"role"`
	jwt.StandardClaims
}

// Identity returns the authenticated identity carried by the claims.
func (c *Claims) Identity() models.Identity {
	return models.Identity{ID: c.ID, Username: c.Username, Email: c.Email, Role: c.Role}
}

// TokenManager signs and verifies session tokens with a server-held secret.
type TokenManager struct {
	key []byte
	ttl time.Duration
	now func() time.Time
}

// NewTokenManager returns a manager for HS256 tokens. An empty secret is a
// configuration error.
func NewTokenManager(secret []byte, ttl time.Duration) (*TokenManager, error) {
	if len(secret) == 0 {
		return nil, errors.New("token signing key is empty")
	}
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	return &TokenManager{key: secret, ttl: ttl, now: time.Now}, nil
}

// TTL is the validity window of issued tokens.
func (m *TokenManager) TTL() time.Duration { return m.ttl }

// Issue generates a signed token for the identity.
func (m *TokenManager) Issue(id models.Identity) (string, time.Time, error) {
	now := m.now()
	expiresAt := now.Add(m.ttl)
	claims := &Claims{
		ID:       id.ID,
		Username: id.Username,
		Email:    id.Email,
		Role:     id.Role,
		StandardClaims: jwt.StandardClaims{
			IssuedAt:  now.Unix(),
			ExpiresAt: expiresAt.Unix(),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(m.key)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}
	return signed, expiresAt, nil
}

// Parse validates signature and expiry and returns the claims. Every failure
// is reported as errs.ErrUnauthenticated.
func (m *TokenManager) Parse(tokenStr string) (*Claims, error) {
	if tokenStr == "" {
		return nil, errs.ErrUnauthenticated
	}
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return m.key, nil
	})
	if err != nil || !token.Valid {
		return nil, errs.ErrUnauthenticated
	}
	if claims.ExpiresAt == 0 || claims.ID == "" || !claims.Role.Valid() {
		return nil, errs.ErrUnauthenticated
	}
	return claims, nil
}

// Remaining is how long the token stays valid, clamped to [0, TTL].
func (m *TokenManager) Remaining(c *Claims) time.Duration {
	left := time.Unix(c.ExpiresAt, 0).Sub(m.now())
	if left < 0 {
		return 0
	}
	if left > m.ttl {
		return m.ttl
	}
	return left
}
