package services

import (
	"errors"
	"log/slog"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// tokenLifetime matches the 24h session the frontend expects.
const tokenLifetime = 24 * time.Hour

// JWTService signs and verifies bearer tokens with a pre-shared HS256
// secret. One signing implementation, one interface.
type JWTService struct {
	secretKey []byte
	lifetime  time.Duration
	now       func() time.Time
}

// Claims identify the token holder. Email doubles as the user id.
type Claims struct {
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
	Role  string `json:"role,omitempty"`
	jwt.RegisteredClaims
}

func NewJWTService(secret string) *JWTService {
	if secret == "" {
		secret = "your-super-secret-jwt-key-change-in-production"
		slog.Warn("Using default JWT secret - change in production!")
	}
	return &JWTService{
		secretKey: []byte(secret),
		lifetime:  tokenLifetime,
		now:       time.Now,
	}
}

// GenerateToken signs a token carrying {email, name?, role?} expiring in 24h.
func (s *JWTService) GenerateToken(email, name, role string) (string, error) {
	claims := &Claims{
		Email: email,
		Name:  name,
		Role:  role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(s.now().Add(s.lifetime)),
			IssuedAt:  jwt.NewNumericDate(s.now()),
			Subject:   email,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secretKey)
}

// ValidateToken verifies signature and expiry and returns the claims.
// Expired or tampered tokens fail here; call sites treat any error as
// unauthenticated.
func (s *JWTService) ValidateToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("invalid token signing method")
		}
		return s.secretKey, nil
	}, jwt.WithTimeFunc(func() time.Time { return s.now() }))
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, errors.New("invalid token")
	}

	claims, ok := token.Claims.(*Claims)
	if !ok {
		return nil, errors.New("invalid token claims")
	}
	return claims, nil
}
