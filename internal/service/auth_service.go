package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"quizdeck/internal/config"
	"quizdeck/internal/dto"

	"github.com/golang-jwt/jwt/v5"
)

const tokenTypeAccess = "access"

var ErrInvalidJWTToken = errors.New("invalid jwt token")

// AuthService validates the access tokens the middleware extracts user
// identity from. Login flows and token refresh live in the identity
// provider, outside this service.
type AuthService interface {
	ValidateJWT(ctx context.Context, tokenString string) (*dto.AuthClaims, error)
	CreateJWT(ctx context.Context, userID string, ttl time.Duration) (string, error)
}

type authServiceImpl struct {
	appConfig *config.Config
}

// NewAuthService creates a new instance of AuthService.
func NewAuthService(appConfig *config.Config) (AuthService, error) {
	if len(appConfig.JWT.SecretKey) == 0 {
		return nil, errors.New("jwt secret key is not configured")
	}
	return &authServiceImpl{appConfig: appConfig}, nil
}

type jwtClaims struct {
	UserID    string `json:"user_id"`
	TokenType string `json:"token_type"`
	jwt.RegisteredClaims
}

func (s *authServiceImpl) CreateJWT(ctx context.Context, userID string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := jwtClaims{
		UserID:    userID,
		TokenType: tokenTypeAccess,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			Subject:   userID,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.appConfig.JWT.SecretKey))
	if err != nil {
		return "", fmt.Errorf("failed to sign jwt: %w", err)
	}
	return signed, nil
}

func (s *authServiceImpl) ValidateJWT(ctx context.Context, tokenString string) (*dto.AuthClaims, error) {
	var claims jwtClaims
	token, err := jwt.ParseWithClaims(tokenString, &claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(s.appConfig.JWT.SecretKey), nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidJWTToken, err)
	}
	if !token.Valid || claims.UserID == "" {
		return nil, ErrInvalidJWTToken
	}

	return &dto.AuthClaims{
		UserID:    claims.UserID,
		TokenType: claims.TokenType,
	}, nil
}
