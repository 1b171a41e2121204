package services

import (
	"context"
	"time"

	"github.com/immoplus-app/immoplus-backend/internal/core/domain"
	"github.com/immoplus-app/immoplus-backend/internal/dto"
)

// UserSvcFacade manages platform users. Registration itself is an external
// collaborator; this facade is the admin-facing boundary plus the lookups the
// auth layer needs.
type UserSvcFacade interface {
	CreateUser(ctx context.Context, principal domain.Principal, req dto.CreateUserRequest) (*domain.User, error)
	GetUserByID(ctx context.Context, userID string) (*domain.User, error)
	ListUsers(ctx context.Context, principal domain.Principal, limit, offset int) ([]domain.User, error)
	DeleteUser(ctx context.Context, principal domain.Principal, userID string) error

	// AuthenticateUser checks username/password and returns the user on success,
	// apperrors.ErrUnauthorized otherwise.
	AuthenticateUser(ctx context.Context, username, password string) (*domain.User, error)
}

// TokenSvcFacade issues the JWT access tokens the auth middleware consumes. The
// role travels inside the token so every request carries a complete principal.
type TokenSvcFacade interface {
	GenerateAccessToken(ctx context.Context, user *domain.User) (string, time.Time, error)
}
