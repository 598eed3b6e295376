package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/loggpt/components-room/internal/common"
)

const (
	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"
)

var (
	ErrInvalidToken  = errors.New("invalid or expired token")
	ErrWrongTokenUse = errors.New("wrong token type")
)

type Claims struct {
	UserID    uint64 `json:"uid"`
	Email     string `json:"email"`
	Role      string `json:"role"`
	TokenType string `json:"typ"`
	jwt.RegisteredClaims
}

func signToken(userID uint64, email, role, tokenType, secret string, ttl time.Duration) (string, error) {
	jti, err := common.NewULID()
	if err != nil {
		return "", err
	}
	now := time.Now()
	claims := Claims{
		UserID:    userID,
		Email:     email,
		Role:      role,
		TokenType: tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        jti,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}

// NewTokenPair issues the access/refresh pair returned by register, login and
// refresh.
func NewTokenPair(userID uint64, email, role, secret string, accessTTL, refreshTTL time.Duration) (access string, refresh string, err error) {
	access, err = signToken(userID, email, role, TokenTypeAccess, secret, accessTTL)
	if err != nil {
		return "", "", err
	}
	refresh, err = signToken(userID, email, role, TokenTypeRefresh, secret, refreshTTL)
	if err != nil {
		return "", "", err
	}
	return access, refresh, nil
}

func ParseToken(tokenStr, secret string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return []byte(secret), nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// ParseTokenOfType additionally enforces the typ claim so a refresh token
// cannot be replayed as an access token (or the reverse).
func ParseTokenOfType(tokenStr, secret, tokenType string) (*Claims, error) {
	claims, err := ParseToken(tokenStr, secret)
	if err != nil {
		return nil, err
	}
	if claims.TokenType != tokenType {
		return nil, ErrWrongTokenUse
	}
	return claims, nil
}
