// server/internal/auth/auth.go
package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("token expired")
)

// JWTClaims defines the payload for the JWT.
type JWTClaims struct {
	UserID   string `json:"userID"`
	Name     string `json:"name"`
	Role     string `json:"role"`
	BranchID string `json:"branchID"`
	jwt.RegisteredClaims
}

// Service signs and validates tokens with a config-provided secret.
type Service struct {
	secret []byte
	expiry time.Duration
}

// NewService builds an auth service. expiration is a duration string like
// "24h"; an unparsable value falls back to 24 hours.
func NewService(secret, expiration string) *Service {
	exp := 24 * time.Hour
	if parsed, err := time.ParseDuration(expiration); err == nil && parsed > 0 {
		exp = parsed
	}
	return &Service{secret: []byte(secret), expiry: exp}
}

// Hashing
func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	return string(bytes), err
}

func CheckPasswordHash(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}

// GenerateToken issues an HS256 token for the given identity.
func (s *Service) GenerateToken(userID, name, role, branchID string) (string, error) {
	claims := &JWTClaims{
		UserID:   userID,
		Name:     name,
		Role:     role,
		BranchID: branchID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(s.expiry)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// ValidateToken parses a token string and returns its claims.
func (s *Service) ValidateToken(tokenString string) (*JWTClaims, error) {
	claims := &JWTClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return s.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, ErrInvalidToken
	}
	if !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
