package repositories

import (
	"context"
	"time"

	"github.com/immoplus-app/immoplus-backend/internal/core/domain"
)

// ProjectRepository persists projects and their phases.
type ProjectRepository interface {
	SaveProject(ctx context.Context, project domain.Project) error

	// FindProjectByID returns apperrors.ErrNotFound when no row exists.
	FindProjectByID(ctx context.Context, projectID string) (*domain.Project, error)

	// FindProjects lists projects visible under scope (owner = client, agent =
	// assignee), newest first.
	FindProjects(ctx context.Context, scope domain.VisibilityScope) ([]domain.Project, error)

	UpdateProject(ctx context.Context, project domain.Project) error

	// DeleteProject removes the project and its phases.
	DeleteProject(ctx context.Context, projectID string) error

	SavePhase(ctx context.Context, phase domain.ProjectPhase) error
	FindPhaseByID(ctx context.Context, phaseID string) (*domain.ProjectPhase, error)
	FindPhasesByProjectID(ctx context.Context, projectID string) ([]domain.ProjectPhase, error)
	UpdatePhase(ctx context.Context, phase domain.ProjectPhase) error
	DeletePhase(ctx context.Context, phaseID string) error
}

// UserRepository persists platform users.
type UserRepository interface {
	SaveUser(ctx context.Context, user domain.User) error
	FindUserByID(ctx context.Context, userID string) (*domain.User, error)
	FindUserByUsername(ctx context.Context, username string) (*domain.User, error)
	FindUsers(ctx context.Context, limit, offset int) ([]domain.User, error)
	MarkUserDeleted(ctx context.Context, userID string, deletedAt time.Time, deleterUserID string) error
}
