package utils

import (
	"errors"
	"fmt"
	"time"

	"employee_roster/internal/domain"

	"github.com/golang-jwt/jwt/v4"
)

// DefaultTokenTTL is the validity window of a session token.
const DefaultTokenTTL = 7 * 24 * time.Hour

type Claims struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}

// TokenCodec signs and verifies HS256 session tokens. Verification needs
// nothing but the secret and the clock, so tokens cannot be revoked.
type TokenCodec struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewTokenCodec(secretKey string, ttl time.Duration) *TokenCodec {
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	return &TokenCodec{secret: []byte(secretKey), ttl: ttl, now: time.Now}
}

// WithClock returns a copy of the codec that reads time from now.
func (c *TokenCodec) WithClock(now func() time.Time) *TokenCodec {
	cp := *c
	cp.now = now
	return &cp
}

func (c *TokenCodec) Issue(user *domain.User) (string, error) {
	issuedAt := c.now()
	claims := &Claims{
		ID:       user.ID,
		Username: user.Username,
		Role:     string(user.Role),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(issuedAt.Add(c.ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(c.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// Verify checks signature and expiry. It fails with ErrTokenMalformed,
// ErrTokenBadSignature or ErrTokenExpired.
func (c *TokenCodec) Verify(tokenString string) (domain.Claims, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return c.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithoutClaimsValidation())
	if err != nil {
		if errors.Is(err, jwt.ErrTokenMalformed) {
			return domain.Claims{}, fmt.Errorf("%w: %v", domain.ErrTokenMalformed, err)
		}
		return domain.Claims{}, fmt.Errorf("%w: %v", domain.ErrTokenBadSignature, err)
	}

	if !claims.VerifyExpiresAt(c.now(), true) {
		return domain.Claims{}, domain.ErrTokenExpired
	}
	if claims.ID == "" || claims.Role == "" {
		return domain.Claims{}, fmt.Errorf("%w: missing identity claims", domain.ErrTokenMalformed)
	}

	return domain.Claims{
		AccountID: claims.ID,
		Username:  claims.Username,
		Role:      domain.Role(claims.Role),
	}, nil
}

// ExpiresAt reads the expiry of a token without verifying it.
func ExpiresAt(tokenString string) (time.Time, error) {
	claims := &Claims{}
	if _, _, err := jwt.NewParser().ParseUnverified(tokenString, claims); err != nil {
		return time.Time{}, fmt.Errorf("%w: %v", domain.ErrTokenMalformed, err)
	}
	if claims.ExpiresAt == nil {
		return time.Time{}, domain.ErrTokenMalformed
	}
	return claims.ExpiresAt.Time, nil
}
