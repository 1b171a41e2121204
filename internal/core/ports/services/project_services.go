package services

import (
	"context"

	"github.com/immoplus-app/immoplus-backend/internal/core/domain"
	"github.com/immoplus-app/immoplus-backend/internal/dto"
)

// ProjectSvcFacade covers project and phase CRUD, gated by the same time-window
// mutation policy as the ledger for the client role.
type ProjectSvcFacade interface {
	CreateProject(ctx context.Context, principal domain.Principal, req dto.CreateProjectRequest) (*domain.Project, error)
	GetProjectByID(ctx context.Context, principal domain.Principal, projectID string) (*domain.Project, error)
	ListProjects(ctx context.Context, principal domain.Principal) ([]domain.Project, error)
	UpdateProject(ctx context.Context, principal domain.Principal, projectID string, req dto.UpdateProjectRequest) (*domain.Project, error)
	DeleteProject(ctx context.Context, principal domain.Principal, projectID string) error

	CreatePhase(ctx context.Context, principal domain.Principal, projectID string, req dto.CreatePhaseRequest) (*domain.ProjectPhase, error)
	ListPhases(ctx context.Context, principal domain.Principal, projectID string) ([]domain.ProjectPhase, error)
	UpdatePhase(ctx context.Context, principal domain.Principal, projectID, phaseID string, req dto.UpdatePhaseRequest) (*domain.ProjectPhase, error)
	DeletePhase(ctx context.Context, principal domain.Principal, projectID, phaseID string) error
}
