package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/immoplus-app/immoplus-backend/internal/apperrors"
	"github.com/immoplus-app/immoplus-backend/internal/core/domain"
	portsrepo "github.com/immoplus-app/immoplus-backend/internal/core/ports/repositories"
	portssvc "github.com/immoplus-app/immoplus-backend/internal/core/ports/services"
	"github.com/immoplus-app/immoplus-backend/internal/dto"
)

// projectService handles project and phase CRUD. The interesting part is the
// gate: the same time-window policy as the ledger applies to client mutations,
// while assigned agents mutate without a time limit and never delete.
type projectService struct {
	BaseService
	projectRepo portsrepo.ProjectRepository
	window      *TimeWindowPolicy
	clock       Clock
}

// NewProjectService creates a new ProjectService.
func NewProjectService(projectRepo portsrepo.ProjectRepository, window *TimeWindowPolicy, clock Clock) portssvc.ProjectSvcFacade {
	if clock == nil {
		clock = NewRealClock()
	}
	return &projectService{
		projectRepo: projectRepo,
		window:      window,
		clock:       clock,
	}
}

// Ensure projectService implements the facade.
var _ portssvc.ProjectSvcFacade = (*projectService)(nil)

// CreateProject creates a project owned by the principal (client) or, for
// admins, by the client named in the request.
func (s *projectService) CreateProject(ctx context.Context, principal domain.Principal, req dto.CreateProjectRequest) (*domain.Project, error) {
	clientID := principal.UserID
	switch principal.Role {
	case domain.RoleClient:
		// owns what they create
	case domain.RoleAdmin:
		if req.ClientID != nil && *req.ClientID != "" {
			clientID = *req.ClientID
		}
	case domain.RoleAgent:
		return nil, fmt.Errorf("%w: agents cannot create projects", apperrors.ErrForbidden)
	default:
		return nil, apperrors.ErrForbidden
	}

	now := s.clock.Now()
	project := domain.Project{
		ProjectID:   uuid.NewString(),
		ClientID:    clientID,
		AgentID:     req.AgentID,
		Name:        req.Name,
		Description: req.Description,
		Status:      domain.ProjectPending,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     principal.UserID,
			LastUpdatedAt: now,
			LastUpdatedBy: principal.UserID,
		},
	}

	if err := s.projectRepo.SaveProject(ctx, project); err != nil {
		s.LogError(ctx, err, "Failed to save project", slog.String("client_id", clientID))
		return nil, fmt.Errorf("failed to create project: %w", err)
	}

	s.LogInfo(ctx, "Project created", slog.String("project_id", project.ProjectID), slog.String("client_id", clientID))
	return &project, nil
}

// GetProjectByID returns the project when visible, ErrNotFound otherwise.
func (s *projectService) GetProjectByID(ctx context.Context, principal domain.Principal, projectID string) (*domain.Project, error) {
	project, err := s.projectRepo.FindProjectByID(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if !s.canViewProject(principal, project) {
		return nil, apperrors.ErrNotFound
	}
	return project, nil
}

// ListProjects lists projects visible to the principal.
func (s *projectService) ListProjects(ctx context.Context, principal domain.Principal) ([]domain.Project, error) {
	scope := projectScopeFor(principal)
	projects, err := s.projectRepo.FindProjects(ctx, scope)
	if err != nil {
		s.LogError(ctx, err, "Failed to list projects", slog.String("principal_id", principal.UserID))
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	if projects == nil {
		projects = []domain.Project{}
	}
	return projects, nil
}

// UpdateProject applies field changes after the mutation gate.
func (s *projectService) UpdateProject(ctx context.Context, principal domain.Principal, projectID string, req dto.UpdateProjectRequest) (*domain.Project, error) {
	project, err := s.projectRepo.FindProjectByID(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if !s.canViewProject(principal, project) {
		return nil, apperrors.ErrNotFound
	}
	if err := s.authorizeProjectMutation(ctx, principal, project, project.CreatedAt); err != nil {
		return nil, err
	}

	if req.Name != nil {
		project.Name = *req.Name
	}
	if req.Description != nil {
		project.Description = *req.Description
	}
	if req.AgentID != nil {
		if principal.Role == domain.RoleClient {
			return nil, fmt.Errorf("%w: only agents and admins may reassign a project", apperrors.ErrForbidden)
		}
		project.AgentID = req.AgentID
	}
	if req.Status != nil {
		status := domain.ProjectStatus(*req.Status)
		if !status.IsValid() {
			return nil, fmt.Errorf("%w: unknown project status %q", apperrors.ErrValidation, *req.Status)
		}
		project.Status = status
	}
	project.LastUpdatedAt = s.clock.Now()
	project.LastUpdatedBy = principal.UserID

	if err := s.projectRepo.UpdateProject(ctx, *project); err != nil {
		s.LogError(ctx, err, "Failed to update project", slog.String("project_id", projectID))
		return nil, fmt.Errorf("failed to update project: %w", err)
	}
	return project, nil
}

// DeleteProject removes the project and its phases. Agents never delete.
func (s *projectService) DeleteProject(ctx context.Context, principal domain.Principal, projectID string) error {
	project, err := s.projectRepo.FindProjectByID(ctx, projectID)
	if err != nil {
		return err
	}
	if !s.canViewProject(principal, project) {
		return apperrors.ErrNotFound
	}
	if principal.Role == domain.RoleAgent {
		return fmt.Errorf("%w: agents cannot delete projects", apperrors.ErrForbidden)
	}
	if err := s.authorizeProjectMutation(ctx, principal, project, project.CreatedAt); err != nil {
		return err
	}
	if err := s.projectRepo.DeleteProject(ctx, projectID); err != nil {
		s.LogError(ctx, err, "Failed to delete project", slog.String("project_id", projectID))
		return fmt.Errorf("failed to delete project: %w", err)
	}
	s.LogInfo(ctx, "Project deleted", slog.String("project_id", projectID), slog.String("deleted_by", principal.UserID))
	return nil
}

// CreatePhase adds a phase to a project the principal may mutate. Creation is
// not window-bound; only later edits of the phase are.
func (s *projectService) CreatePhase(ctx context.Context, principal domain.Principal, projectID string, req dto.CreatePhaseRequest) (*domain.ProjectPhase, error) {
	project, err := s.projectRepo.FindProjectByID(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if !s.canViewProject(principal, project) {
		return nil, apperrors.ErrNotFound
	}

	now := s.clock.Now()
	phase := domain.ProjectPhase{
		PhaseID:   uuid.NewString(),
		ProjectID: projectID,
		Name:      req.Name,
		Status:    domain.ProjectPending,
		Progress:  req.Progress,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     principal.UserID,
			LastUpdatedAt: now,
			LastUpdatedBy: principal.UserID,
		},
	}
	if err := s.projectRepo.SavePhase(ctx, phase); err != nil {
		s.LogError(ctx, err, "Failed to save phase", slog.String("project_id", projectID))
		return nil, fmt.Errorf("failed to create phase: %w", err)
	}
	s.LogInfo(ctx, "Phase created", slog.String("phase_id", phase.PhaseID), slog.String("project_id", projectID))
	return &phase, nil
}

// ListPhases lists the phases of a visible project.
func (s *projectService) ListPhases(ctx context.Context, principal domain.Principal, projectID string) ([]domain.ProjectPhase, error) {
	project, err := s.projectRepo.FindProjectByID(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if !s.canViewProject(principal, project) {
		return nil, apperrors.ErrNotFound
	}
	phases, err := s.projectRepo.FindPhasesByProjectID(ctx, projectID)
	if err != nil {
		s.LogError(ctx, err, "Failed to list phases", slog.String("project_id", projectID))
		return nil, fmt.Errorf("failed to list phases: %w", err)
	}
	if phases == nil {
		phases = []domain.ProjectPhase{}
	}
	return phases, nil
}

// UpdatePhase applies field changes; the client window is anchored on the
// phase's own creation time.
func (s *projectService) UpdatePhase(ctx context.Context, principal domain.Principal, projectID, phaseID string, req dto.UpdatePhaseRequest) (*domain.ProjectPhase, error) {
	project, phase, err := s.loadProjectPhase(ctx, principal, projectID, phaseID)
	if err != nil {
		return nil, err
	}
	if err := s.authorizeProjectMutation(ctx, principal, project, phase.CreatedAt); err != nil {
		return nil, err
	}

	if req.Name != nil {
		phase.Name = *req.Name
	}
	if req.Status != nil {
		status := domain.ProjectStatus(*req.Status)
		if !status.IsValid() {
			return nil, fmt.Errorf("%w: unknown phase status %q", apperrors.ErrValidation, *req.Status)
		}
		phase.Status = status
	}
	if req.Progress != nil {
		if *req.Progress < 0 || *req.Progress > 100 {
			return nil, fmt.Errorf("%w: progress must be between 0 and 100", apperrors.ErrValidation)
		}
		phase.Progress = *req.Progress
	}
	phase.LastUpdatedAt = s.clock.Now()
	phase.LastUpdatedBy = principal.UserID

	if err := s.projectRepo.UpdatePhase(ctx, *phase); err != nil {
		s.LogError(ctx, err, "Failed to update phase", slog.String("phase_id", phaseID))
		return nil, fmt.Errorf("failed to update phase: %w", err)
	}
	return phase, nil
}

// DeletePhase removes a phase under the same gate as update, except agents
// never delete.
func (s *projectService) DeletePhase(ctx context.Context, principal domain.Principal, projectID, phaseID string) error {
	project, phase, err := s.loadProjectPhase(ctx, principal, projectID, phaseID)
	if err != nil {
		return err
	}
	if principal.Role == domain.RoleAgent {
		return fmt.Errorf("%w: agents cannot delete phases", apperrors.ErrForbidden)
	}
	if err := s.authorizeProjectMutation(ctx, principal, project, phase.CreatedAt); err != nil {
		return err
	}
	if err := s.projectRepo.DeletePhase(ctx, phaseID); err != nil {
		s.LogError(ctx, err, "Failed to delete phase", slog.String("phase_id", phaseID))
		return fmt.Errorf("failed to delete phase: %w", err)
	}
	return nil
}

func (s *projectService) loadProjectPhase(ctx context.Context, principal domain.Principal, projectID, phaseID string) (*domain.Project, *domain.ProjectPhase, error) {
	project, err := s.projectRepo.FindProjectByID(ctx, projectID)
	if err != nil {
		return nil, nil, err
	}
	if !s.canViewProject(principal, project) {
		return nil, nil, apperrors.ErrNotFound
	}
	phase, err := s.projectRepo.FindPhaseByID(ctx, phaseID)
	if err != nil {
		return nil, nil, err
	}
	if phase.ProjectID != project.ProjectID {
		return nil, nil, apperrors.ErrNotFound
	}
	return project, phase, nil
}

func (s *projectService) canViewProject(principal domain.Principal, project *domain.Project) bool {
	switch principal.Role {
	case domain.RoleAdmin:
		return true
	case domain.RoleClient:
		return project.ClientID == principal.UserID
	case domain.RoleAgent:
		return project.AgentID != nil && *project.AgentID == principal.UserID
	}
	return false
}

// authorizeProjectMutation applies the shared time-window predicate. The
// record must already be visible to the principal; windowAnchor is the
// creation time of the record being mutated (the project's, or the phase's
// own), so phase edits get their own one-hour window.
func (s *projectService) authorizeProjectMutation(ctx context.Context, principal domain.Principal, project *domain.Project, windowAnchor time.Time) error {
	isOwner := project.ClientID == principal.UserID
	isAssigned := project.AgentID != nil && *project.AgentID == principal.UserID
	if s.window.CanMutate(principal.Role, isOwner, isAssigned, windowAnchor) {
		return nil
	}
	s.LogWarn(ctx, "Project mutation denied",
		slog.String("project_id", project.ProjectID),
		slog.String("principal_id", principal.UserID),
		slog.String("role", string(principal.Role)))
	return fmt.Errorf("%w: mutation window elapsed or principal not entitled", apperrors.ErrForbidden)
}

func projectScopeFor(principal domain.Principal) domain.VisibilityScope {
	switch principal.Role {
	case domain.RoleAdmin:
		return domain.ScopeAll()
	case domain.RoleAgent:
		return domain.ScopeAgent(principal.UserID)
	case domain.RoleClient:
		return domain.ScopeOwner(principal.UserID)
	}
	return domain.VisibilityScope{}
}
