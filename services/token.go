package services

import (
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

type Claims struct {
	UserID  uint `json:"uid"`
	IsAdmin bool `json:"adm"`
	jwt.RegisteredClaims
}

type TokenManager struct {
	secretKey []byte
	ttl       time.Duration
	now       func() time.Time
}

func NewTokenManager(secretKey string, ttl time.Duration) *TokenManager {
	return &TokenManager{
		secretKey: []byte(secretKey),
		ttl:       ttl,
		now:       time.Now,
	}
}

func (m *TokenManager) Generate(userID uint, isAdmin bool) (string, error) {
	now := m.now()
	claims := Claims{
		UserID:  userID,
		IsAdmin: isAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatUint(uint64(userID), 10),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.secretKey)
}

func (m *TokenManager) Verify(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return m.secretKey, nil
	}, jwt.WithTimeFunc(m.now))
	if err != nil {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.UserID == 0 {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
