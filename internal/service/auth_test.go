package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront/internal/repo"
	"storefront/pkg/tokens"
)

func newAuthService(t *testing.T) *AuthService {
	t.Helper()

	return &AuthService{
		Store:     &repo.GormRepo{DB: newTestDB(t)},
		JWTSecret: []byte("test-secret"),
		AccessTTL: 15 * time.Minute,
	}
}

func TestAuthService_RegisterAndLogin(t *testing.T) {
	t.Parallel()

	svc := newAuthService(t)
	ctx := context.Background()

	require.NoError(t, svc.Register(ctx, "ada", "s3cret"))

	token, err := svc.Login(ctx, "ada", "s3cret")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := tokens.AccessClaimsFromToken(token, svc.JWTSecret)
	require.NoError(t, err)
	assert.Equal(t, "user", claims.Role)
	assert.NotEmpty(t, claims.Subject)
}

func TestAuthService_Register_DuplicateUsername(t *testing.T) {
	t.Parallel()

	svc := newAuthService(t)
	ctx := context.Background()

	require.NoError(t, svc.Register(ctx, "ada", "s3cret"))

	err := svc.Register(ctx, "ada", "other")
	assert.ErrorIs(t, err, ErrConflict)
}

func TestAuthService_Register_Validation(t *testing.T) {
	t.Parallel()

	svc := newAuthService(t)
	ctx := context.Background()

	tests := []struct {
		name     string
		username string
		password string
	}{
		{name: "empty username", username: "", password: "pw"},
		{name: "empty password", username: "ada", password: ""},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := svc.Register(ctx, tt.username, tt.password)
			assert.ErrorIs(t, err, ErrValidation)
		})
	}
}

func TestAuthService_Login_WrongPassword(t *testing.T) {
	t.Parallel()

	svc := newAuthService(t)
	ctx := context.Background()

	require.NoError(t, svc.Register(ctx, "ada", "s3cret"))

	_, err := svc.Login(ctx, "ada", "wrong")
	assert.ErrorIs(t, err, ErrValidation)
}

func TestAuthService_Login_UnknownUser(t *testing.T) {
	t.Parallel()

	svc := newAuthService(t)

	_, err := svc.Login(context.Background(), "ghost", "pw")
	assert.ErrorIs(t, err, ErrNotFound)
}
