package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"storefront/internal/hash"
	"storefront/internal/models"
	"storefront/pkg/tokens"
)

type UserStore interface {
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
}

type AuthService struct {
	Store     UserStore
	JWTSecret []byte
	AccessTTL time.Duration
}

func (s *AuthService) Register(ctx context.Context, username, password string) error {
	if username == "" || password == "" {
		return fmt.Errorf("username and password required: %w", ErrValidation)
	}

	if _, err := s.Store.GetUserByUsername(ctx, username); err == nil {
		return fmt.Errorf("username taken: %w", ErrConflict)
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	passwordHash, err := hash.HashPassword(password)
	if err != nil {
		return err
	}

	return s.Store.CreateUser(ctx, &models.User{
		ID:           uuid.New(),
		Username:     username,
		PasswordHash: passwordHash,
		Role:         "user",
	})
}

func (s *AuthService) Login(ctx context.Context, username, password string) (string, error) {
	if username == "" || password == "" {
		return "", fmt.Errorf("username and password required: %w", ErrValidation)
	}

	user, err := s.Store.GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", fmt.Errorf("unknown user: %w", ErrNotFound)
		}
		return "", err
	}

	if !hash.CheckPassword(user.PasswordHash, password) {
		return "", fmt.Errorf("wrong password: %w", ErrValidation)
	}

	exp := time.Now().Add(s.AccessTTL).UTC()
	return tokens.CreateAccessToken(s.JWTSecret, user.ID.String(), user.Role, exp)
}
