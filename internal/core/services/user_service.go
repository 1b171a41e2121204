package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/immoplus-app/immoplus-backend/internal/apperrors"
	"github.com/immoplus-app/immoplus-backend/internal/core/domain"
	portsrepo "github.com/immoplus-app/immoplus-backend/internal/core/ports/repositories"
	portssvc "github.com/immoplus-app/immoplus-backend/internal/core/ports/services"
	"github.com/immoplus-app/immoplus-backend/internal/dto"
	"github.com/immoplus-app/immoplus-backend/internal/utils"
)

// userService manages platform users. User provisioning is admin-only; the
// authenticate path serves the login boundary.
type userService struct {
	BaseService
	userRepo portsrepo.UserRepository
	clock    Clock
}

// NewUserService creates a new UserService.
func NewUserService(userRepo portsrepo.UserRepository, clock Clock) portssvc.UserSvcFacade {
	if clock == nil {
		clock = NewRealClock()
	}
	return &userService{userRepo: userRepo, clock: clock}
}

// Ensure userService implements the facade.
var _ portssvc.UserSvcFacade = (*userService)(nil)

// CreateUser provisions a user with a role. Admin only.
func (s *userService) CreateUser(ctx context.Context, principal domain.Principal, req dto.CreateUserRequest) (*domain.User, error) {
	if !principal.IsAdmin() {
		return nil, fmt.Errorf("%w: only admins may create users", apperrors.ErrForbidden)
	}
	role := domain.Role(req.Role)
	if !role.IsValid() {
		return nil, fmt.Errorf("%w: unknown role %q", apperrors.ErrValidation, req.Role)
	}

	existing, err := s.userRepo.FindUserByUsername(ctx, req.Username)
	if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		s.LogError(ctx, err, "Failed to check username uniqueness", slog.String("username", req.Username))
		return nil, fmt.Errorf("failed to check username: %w", err)
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: username %s", apperrors.ErrDuplicate, req.Username)
	}

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	now := s.clock.Now()
	user := domain.User{
		UserID:       uuid.NewString(),
		Username:     req.Username,
		Name:         req.Name,
		Role:         role,
		PasswordHash: &hash,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     principal.UserID,
			LastUpdatedAt: now,
			LastUpdatedBy: principal.UserID,
		},
	}
	if err := s.userRepo.SaveUser(ctx, user); err != nil {
		s.LogError(ctx, err, "Failed to save user", slog.String("username", req.Username))
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.LogInfo(ctx, "User created", slog.String("user_id", user.UserID), slog.String("role", string(role)))
	return &user, nil
}

// GetUserByID fetches one user.
func (s *userService) GetUserByID(ctx context.Context, userID string) (*domain.User, error) {
	return s.userRepo.FindUserByID(ctx, userID)
}

// ListUsers lists users. Admin only.
func (s *userService) ListUsers(ctx context.Context, principal domain.Principal, limit, offset int) ([]domain.User, error) {
	if !principal.IsAdmin() {
		return nil, fmt.Errorf("%w: only admins may list users", apperrors.ErrForbidden)
	}
	users, err := s.userRepo.FindUsers(ctx, limit, offset)
	if err != nil {
		s.LogError(ctx, err, "Failed to list users")
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	if users == nil {
		users = []domain.User{}
	}
	return users, nil
}

// DeleteUser soft-deletes a user. Admin only.
func (s *userService) DeleteUser(ctx context.Context, principal domain.Principal, userID string) error {
	if !principal.IsAdmin() {
		return fmt.Errorf("%w: only admins may delete users", apperrors.ErrForbidden)
	}
	if err := s.userRepo.MarkUserDeleted(ctx, userID, s.clock.Now(), principal.UserID); err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to mark user deleted", slog.String("user_id", userID))
		}
		return err
	}
	s.LogInfo(ctx, "User deleted", slog.String("user_id", userID), slog.String("deleted_by", principal.UserID))
	return nil
}

// AuthenticateUser checks credentials. Both a missing user and a wrong
// password come back as ErrUnauthorized so login probes learn nothing.
func (s *userService) AuthenticateUser(ctx context.Context, username, password string) (*domain.User, error) {
	user, err := s.userRepo.FindUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.ErrUnauthorized
		}
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}
	if user.PasswordHash == nil || !utils.CheckPasswordHash(password, *user.PasswordHash) {
		return nil, apperrors.ErrUnauthorized
	}
	return user, nil
}
