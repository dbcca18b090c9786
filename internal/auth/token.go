// Package auth implements JWT issuing and verification shared by the services.
package auth

import (
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"commons/internal/models"
)

// TokenService signs and verifies HS256 tokens. The signing key is derived
// from the configured secret once, on first use, so constructing the service
// is free and config can be loaded lazily at startup.
type TokenService struct {
	secret string
	ttl    time.Duration

	once sync.Once
	key  []byte
}

// NewTokenService returns a TokenService using the given secret and token lifetime.
func NewTokenService(secret string, ttl time.Duration) *TokenService {
	return &TokenService{secret: secret, ttl: ttl}
}

func (s *TokenService) signingKey() []byte {
	s.once.Do(func() {
		s.key = []byte(s.secret)
	})
	return s.key
}

// Claims carried by Commons tokens. The subject is the user ID in decimal form.
type Claims struct {
	UserID  uint
	Email   string
	IsAdmin bool
}

// GenerateToken issues a signed token for the user.
func (s *TokenService) GenerateToken(userID uint, email string, isAdmin bool) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":      strconv.FormatUint(uint64(userID), 10),
		"email":    email,
		"is_admin": isAdmin,
		"iat":      now.Unix(),
		"exp":      now.Add(s.ttl).Unix(),
	})

	signed, err := token.SignedString(s.signingKey())
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// VerifyToken parses and validates a token string and returns its claims.
func (s *TokenService) VerifyToken(tokenString string) (*Claims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return s.signingKey(), nil
	})
	if err != nil || !token.Valid {
		return nil, models.NewUnauthorizedError("invalid or expired token")
	}

	mapClaims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, models.NewUnauthorizedError("invalid token claims")
	}

	sub, err := mapClaims.GetSubject()
	if err != nil || sub == "" {
		return nil, models.NewUnauthorizedError("token missing subject")
	}

	userID, err := strconv.ParseUint(sub, 10, 32)
	if err != nil {
		return nil, models.NewUnauthorizedError("invalid user ID in token")
	}

	claims := &Claims{UserID: uint(userID)}
	if email, ok := mapClaims["email"].(string); ok {
		claims.Email = email
	}
	if isAdmin, ok := mapClaims["is_admin"].(bool); ok {
		claims.IsAdmin = isAdmin
	}
	return claims, nil
}

// ExtractUserID verifies the token and returns only the user ID.
func (s *TokenService) ExtractUserID(tokenString string) (uint, error) {
	claims, err := s.VerifyToken(tokenString)
	if err != nil {
		return 0, err
	}
	return claims.UserID, nil
}
