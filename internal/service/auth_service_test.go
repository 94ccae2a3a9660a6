package service

import (
	"context"
	"testing"
	"time"

	"quizdeck/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestAuthService(t *testing.T) AuthService {
	t.Helper()
	cfg := &config.Config{}
	cfg.JWT.SecretKey = "test-secret-key"
	cfg.JWT.AccessTokenTTL = time.Hour

	svc, err := NewAuthService(cfg)
	require.NoError(t, err)
	return svc
}

func TestAuthService(t *testing.T) {
	ctx := context.Background()

	t.Run("round-trips a valid token", func(t *testing.T) {
		svc := newTestAuthService(t)

		token, err := svc.CreateJWT(ctx, "user-1", time.Hour)
		require.NoError(t, err)

		claims, err := svc.ValidateJWT(ctx, token)
		require.NoError(t, err)
		assert.Equal(t, "user-1", claims.UserID)
		assert.Equal(t, "access", claims.TokenType)
	})

	t.Run("rejects an expired token", func(t *testing.T) {
		svc := newTestAuthService(t)

		token, err := svc.CreateJWT(ctx, "user-1", -time.Minute)
		require.NoError(t, err)

		_, err = svc.ValidateJWT(ctx, token)
		assert.ErrorIs(t, err, ErrInvalidJWTToken)
	})

	t.Run("rejects garbage", func(t *testing.T) {
		svc := newTestAuthService(t)
		_, err := svc.ValidateJWT(ctx, "not-a-token")
		assert.ErrorIs(t, err, ErrInvalidJWTToken)
	})

	t.Run("refuses to start without a secret", func(t *testing.T) {
		_, err := NewAuthService(&config.Config{})
		assert.Error(t, err)
	})
}
