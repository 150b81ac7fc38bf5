package auth

import (
	"errors"
	"time"

	"casthub_backend/internal/models"

	"github.com/golang-jwt/jwt/v5"
)

var (
	jwtSecret []byte
	tokenTTL  = 24 * time.Hour
)

// Claims - полезная нагрузка токена: кто действует и какой у аккаунта тип
type Claims struct {
	UserID string          `json:"user_id"`
	Role   models.UserRole `json:"role"`
	jwt.RegisteredClaims
}

// InitJWT настраивает секрет и TTL. Вызывается один раз из app.
func InitJWT(secret string, ttlHours int) {
	jwtSecret = []byte(secret)
	if ttlHours > 0 {
		tokenTTL = time.Duration(ttlHours) * time.Hour
	}
}

// GenerateToken выпускает подписанный HS256 токен
func GenerateToken(userID string, role models.UserRole) (string, error) {
	claims := &Claims{
		UserID: userID,
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(tokenTTL)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(jwtSecret)
}

// ParseToken валидирует токен и возвращает claims
func ParseToken(tokenStr string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return jwtSecret, nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, errors.New("invalid token")
	}
	return claims, nil
}
