package service

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/snapcal/backend/internal/middleware"
)

var ErrInvalidToken = errors.New("invalid token")

// AuthService issues and validates device tokens. There are no passwords:
// the app pairs once per install by presenting its device id and keeps the
// signed token for subsequent calls.
type AuthService struct {
	jwtSecret string
}

// NewAuthService creates an AuthService signing with the given secret.
func NewAuthService(jwtSecret string) *AuthService {
	return &AuthService{jwtSecret: jwtSecret}
}

// IssueToken signs a token for the given device id.
func (s *AuthService) IssueToken(deviceID string) (string, error) {
	if deviceID == "" {
		return "", errors.New("device id required")
	}

	claims := jwt.MapClaims{
		"device_id": deviceID,
		"exp":       time.Now().Add(30 * 24 * time.Hour).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.jwtSecret))
}

// ValidateToken parses a token and returns its claims.
func (s *AuthService) ValidateToken(tokenString string) (*middleware.TokenClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(s.jwtSecret), nil
	})
	if err != nil {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}

	deviceID, ok := claims["device_id"].(string)
	if !ok || deviceID == "" {
		return nil, ErrInvalidToken
	}

	return &middleware.TokenClaims{DeviceID: deviceID}, nil
}
