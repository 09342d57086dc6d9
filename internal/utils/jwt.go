package utils

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"school-clinic-server/internal/config"
	"school-clinic-server/internal/models"
)

// ErrTokenExpired is returned by ValidateToken when the token was once valid
// but has passed its expiry. Callers can use it to tell an expired session
// apart from a forged or corrupted token.
var ErrTokenExpired = errors.New("token expired")

// Claims represents the JWT claims.
type Claims struct {
	UserID   string      `json:"user_id"`
	Role     models.Role `json:"role"`
	FullName string      `json:"full_name"`
	jwt.RegisteredClaims
}

// GenerateToken issues a signed bearer token binding the user's id, role and
// display name for the configured number of days.
func GenerateToken(user *models.User, cfg *config.Config) (string, error) {
	expirationTime := time.Now().Add(time.Duration(cfg.TokenExpiryDays) * 24 * time.Hour)
	claims := &Claims{
		UserID:   user.ID,
		Role:     user.Role,
		FullName: user.FullName,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expirationTime),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			Subject:   user.ID,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(cfg.JWTSecret))
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return tokenString, nil
}

// ValidateToken validates a JWT token.
func ValidateToken(tokenString string, secretKey string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(secretKey), nil
	})

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, fmt.Errorf("invalid token: %w", err)
	}

	if !token.Valid {
		return nil, errors.New("invalid token")
	}

	return claims, nil
}
