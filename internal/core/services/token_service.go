package services

import (
	"context"
	"time"

	"github.com/immoplus-app/immoplus-backend/internal/core/domain"
	portssvc "github.com/immoplus-app/immoplus-backend/internal/core/ports/services"
	"github.com/immoplus-app/immoplus-backend/internal/platform/config"
	"github.com/immoplus-app/immoplus-backend/internal/utils"
)

// tokenService issues the JWT access tokens the auth middleware consumes.
type tokenService struct {
	cfg *config.Config
}

// NewTokenService creates a new instance of tokenService.
func NewTokenService(cfg *config.Config) portssvc.TokenSvcFacade {
	return &tokenService{cfg: cfg}
}

// Ensure tokenService implements the facade.
var _ portssvc.TokenSvcFacade = (*tokenService)(nil)

// GenerateAccessToken creates a new JWT access token carrying the user's role,
// so downstream requests reconstruct a complete principal from the token alone.
func (s *tokenService) GenerateAccessToken(ctx context.Context, user *domain.User) (string, time.Time, error) {
	expiryTime := time.Now().Add(s.cfg.JWTExpiryDuration)
	accessToken, err := utils.GenerateJWT(user.UserID, string(user.Role), s.cfg.JWTSecret, s.cfg.JWTExpiryDuration, s.cfg.JWTIssuer)
	if err != nil {
		return "", time.Time{}, err
	}
	return accessToken, expiryTime, nil
}
