package auth

import (
	"context"
	"errors"
	"time"

	"crateDigger/pkg/logger"
	"crateDigger/pkg/utils"
)

const (
	RoleAdmin = "admin"

	tokenTTL = 24 * time.Hour
)

// TokenRepository contract interface
type TokenRepository interface {
	StoreToken(ctx context.Context, userID, token string, ttl time.Duration) error
	ValidateToken(ctx context.Context, token string) (string, error)
	RevokeToken(ctx context.Context, token string) error
}

// AuthService authenticates the single admin operator against the configured
// credentials and manages the session token lifecycle.
type AuthService struct {
	adminUsername     string
	adminPasswordHash string
	tokenRepo         TokenRepository
}

func NewAuthService(adminUsername, adminPasswordHash string, tokenRepo TokenRepository) *AuthService {
	return &AuthService{
		adminUsername:     adminUsername,
		adminPasswordHash: adminPasswordHash,
		tokenRepo:         tokenRepo,
	}
}

func (s *AuthService) Login(ctx context.Context, username, password string) (string, error) {
	if username != s.adminUsername || !utils.CheckPassword(password, s.adminPasswordHash) {
		logger.Warn("failed admin login attempt", "username", username)
		return "", errors.New("invalid credentials")
	}

	token, err := utils.GenerateJWT(username, RoleAdmin, tokenTTL)
	if err != nil {
		logger.Error("failed to generate token", err)
		return "", errors.New("failed to generate token")
	}

	if s.tokenRepo != nil {
		if err := s.tokenRepo.StoreToken(ctx, username, token, tokenTTL); err != nil {
			logger.Error("failed to store session token", err)
			return "", errors.New("failed to store session token")
		}
	}

	return token, nil
}

func (s *AuthService) Logout(ctx context.Context, token string) error {
	if s.tokenRepo == nil {
		return nil
	}
	return s.tokenRepo.RevokeToken(ctx, token)
}
