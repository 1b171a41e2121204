package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/immoplus-app/immoplus-backend/internal/apperrors"
	"github.com/immoplus-app/immoplus-backend/internal/core/domain"
	portssvc "github.com/immoplus-app/immoplus-backend/internal/core/ports/services"
	"github.com/immoplus-app/immoplus-backend/internal/core/services"
	"github.com/immoplus-app/immoplus-backend/internal/dto"
)

// --- Mock ProjectRepository ---
type MockProjectRepository struct {
	mock.Mock
}

func (m *MockProjectRepository) SaveProject(ctx context.Context, project domain.Project) error {
	args := m.Called(ctx, project)
	return args.Error(0)
}

func (m *MockProjectRepository) FindProjectByID(ctx context.Context, projectID string) (*domain.Project, error) {
	args := m.Called(ctx, projectID)
	var project *domain.Project
	if args.Get(0) != nil {
		project = args.Get(0).(*domain.Project)
	}
	return project, args.Error(1)
}

func (m *MockProjectRepository) FindProjects(ctx context.Context, scope domain.VisibilityScope) ([]domain.Project, error) {
	args := m.Called(ctx, scope)
	var projects []domain.Project
	if args.Get(0) != nil {
		projects = args.Get(0).([]domain.Project)
	}
	return projects, args.Error(1)
}

func (m *MockProjectRepository) UpdateProject(ctx context.Context, project domain.Project) error {
	args := m.Called(ctx, project)
	return args.Error(0)
}

func (m *MockProjectRepository) DeleteProject(ctx context.Context, projectID string) error {
	args := m.Called(ctx, projectID)
	return args.Error(0)
}

func (m *MockProjectRepository) SavePhase(ctx context.Context, phase domain.ProjectPhase) error {
	args := m.Called(ctx, phase)
	return args.Error(0)
}

func (m *MockProjectRepository) FindPhaseByID(ctx context.Context, phaseID string) (*domain.ProjectPhase, error) {
	args := m.Called(ctx, phaseID)
	var phase *domain.ProjectPhase
	if args.Get(0) != nil {
		phase = args.Get(0).(*domain.ProjectPhase)
	}
	return phase, args.Error(1)
}

func (m *MockProjectRepository) FindPhasesByProjectID(ctx context.Context, projectID string) ([]domain.ProjectPhase, error) {
	args := m.Called(ctx, projectID)
	var phases []domain.ProjectPhase
	if args.Get(0) != nil {
		phases = args.Get(0).([]domain.ProjectPhase)
	}
	return phases, args.Error(1)
}

func (m *MockProjectRepository) UpdatePhase(ctx context.Context, phase domain.ProjectPhase) error {
	args := m.Called(ctx, phase)
	return args.Error(0)
}

func (m *MockProjectRepository) DeletePhase(ctx context.Context, phaseID string) error {
	args := m.Called(ctx, phaseID)
	return args.Error(0)
}

type ProjectServiceTestSuite struct {
	suite.Suite
	projectRepo *MockProjectRepository
	clock       *fakeClock
	service     portssvc.ProjectSvcFacade

	client domain.Principal
	agent  domain.Principal
	admin  domain.Principal
}

func (s *ProjectServiceTestSuite) SetupTest() {
	s.projectRepo = new(MockProjectRepository)
	s.clock = newFakeClock()
	s.service = services.NewProjectService(s.projectRepo, services.NewTimeWindowPolicy(s.clock), s.clock)

	s.client = domain.Principal{UserID: "client-1", Role: domain.RoleClient}
	s.agent = domain.Principal{UserID: "agent-1", Role: domain.RoleAgent}
	s.admin = domain.Principal{UserID: "admin-1", Role: domain.RoleAdmin}
}

func (s *ProjectServiceTestSuite) storedProject(clientID string, agentID *string) *domain.Project {
	return &domain.Project{
		ProjectID:   "proj-1",
		ClientID:    clientID,
		AgentID:     agentID,
		Name:        "Renovation",
		Status:      domain.ProjectPending,
		AuditFields: domain.AuditFields{CreatedAt: s.clock.Now()},
	}
}

func (s *ProjectServiceTestSuite) TestClientCreatesOwnProject() {
	ctx := context.Background()
	s.projectRepo.On("SaveProject", ctx, mock.MatchedBy(func(p domain.Project) bool {
		return p.ClientID == "client-1" && p.Status == domain.ProjectPending
	})).Return(nil).Once()

	project, err := s.service.CreateProject(ctx, s.client, dto.CreateProjectRequest{Name: "Renovation"})
	s.Require().NoError(err)
	s.Equal("client-1", project.ClientID)
}

func (s *ProjectServiceTestSuite) TestAdminCreatesProjectForNamedClient() {
	ctx := context.Background()
	clientID := "client-9"
	s.projectRepo.On("SaveProject", ctx, mock.MatchedBy(func(p domain.Project) bool {
		return p.ClientID == "client-9" && p.CreatedBy == "admin-1"
	})).Return(nil).Once()

	project, err := s.service.CreateProject(ctx, s.admin, dto.CreateProjectRequest{Name: "Villa", ClientID: &clientID})
	s.Require().NoError(err)
	s.Equal("client-9", project.ClientID)
}

func (s *ProjectServiceTestSuite) TestAgentCannotCreateProject() {
	_, err := s.service.CreateProject(context.Background(), s.agent, dto.CreateProjectRequest{Name: "x"})
	s.ErrorIs(err, apperrors.ErrForbidden)
	s.projectRepo.AssertNotCalled(s.T(), "SaveProject")
}

func (s *ProjectServiceTestSuite) TestForeignProjectIsNotFound() {
	ctx := context.Background()
	s.projectRepo.On("FindProjectByID", ctx, "proj-1").Return(s.storedProject("client-2", nil), nil).Once()

	_, err := s.service.GetProjectByID(ctx, s.client, "proj-1")
	s.ErrorIs(err, apperrors.ErrNotFound)
}

func (s *ProjectServiceTestSuite) TestClientUpdateInsideWindow() {
	ctx := context.Background()
	project := s.storedProject("client-1", nil)
	s.clock.Advance(30 * time.Minute)
	s.projectRepo.On("FindProjectByID", ctx, "proj-1").Return(project, nil).Once()
	s.projectRepo.On("UpdateProject", ctx, mock.MatchedBy(func(p domain.Project) bool {
		return p.Name == "Renamed"
	})).Return(nil).Once()

	name := "Renamed"
	updated, err := s.service.UpdateProject(ctx, s.client, "proj-1", dto.UpdateProjectRequest{Name: &name})
	s.Require().NoError(err)
	s.Equal("Renamed", updated.Name)
}

func (s *ProjectServiceTestSuite) TestClientDeleteOutsideWindowForbidden() {
	ctx := context.Background()
	project := s.storedProject("client-1", nil)
	s.clock.Advance(90 * time.Minute)
	s.projectRepo.On("FindProjectByID", ctx, "proj-1").Return(project, nil).Once()

	err := s.service.DeleteProject(ctx, s.client, "proj-1")
	s.ErrorIs(err, apperrors.ErrForbidden)
	s.projectRepo.AssertNotCalled(s.T(), "DeleteProject")
}

func (s *ProjectServiceTestSuite) TestClientCannotReassignAgent() {
	ctx := context.Background()
	project := s.storedProject("client-1", nil)
	s.projectRepo.On("FindProjectByID", ctx, "proj-1").Return(project, nil).Once()

	agentID := "agent-7"
	_, err := s.service.UpdateProject(ctx, s.client, "proj-1", dto.UpdateProjectRequest{AgentID: &agentID})
	s.ErrorIs(err, apperrors.ErrForbidden)
}

func (s *ProjectServiceTestSuite) TestAssignedAgentUpdatesWithoutTimeLimit() {
	ctx := context.Background()
	agentID := "agent-1"
	project := s.storedProject("client-1", &agentID)
	s.clock.Advance(30 * 24 * time.Hour)
	s.projectRepo.On("FindProjectByID", ctx, "proj-1").Return(project, nil).Once()
	s.projectRepo.On("UpdateProject", ctx, mock.Anything).Return(nil).Once()

	status := string(domain.ProjectInProgress)
	updated, err := s.service.UpdateProject(ctx, s.agent, "proj-1", dto.UpdateProjectRequest{Status: &status})
	s.Require().NoError(err)
	s.Equal(domain.ProjectInProgress, updated.Status)
}

func (s *ProjectServiceTestSuite) TestAgentCannotDeleteProject() {
	ctx := context.Background()
	agentID := "agent-1"
	project := s.storedProject("client-1", &agentID)
	s.projectRepo.On("FindProjectByID", ctx, "proj-1").Return(project, nil).Once()

	err := s.service.DeleteProject(ctx, s.agent, "proj-1")
	s.ErrorIs(err, apperrors.ErrForbidden)
}

func (s *ProjectServiceTestSuite) TestPhaseWindowAnchoredOnPhaseCreation() {
	// The project is old but the phase is fresh; the client edit passes
	// because the window anchors on the phase's own creation time.
	ctx := context.Background()
	project := s.storedProject("client-1", nil)
	s.clock.Advance(48 * time.Hour)
	phase := &domain.ProjectPhase{
		PhaseID:     "phase-1",
		ProjectID:   "proj-1",
		Name:        "Foundation",
		Status:      domain.ProjectPending,
		Progress:    10,
		AuditFields: domain.AuditFields{CreatedAt: s.clock.Now()},
	}
	s.clock.Advance(20 * time.Minute)

	s.projectRepo.On("FindProjectByID", ctx, "proj-1").Return(project, nil).Once()
	s.projectRepo.On("FindPhaseByID", ctx, "phase-1").Return(phase, nil).Once()
	s.projectRepo.On("UpdatePhase", ctx, mock.MatchedBy(func(p domain.ProjectPhase) bool {
		return p.Progress == 40
	})).Return(nil).Once()

	progress := 40
	updated, err := s.service.UpdatePhase(ctx, s.client, "proj-1", "phase-1", dto.UpdatePhaseRequest{Progress: &progress})
	s.Require().NoError(err)
	s.Equal(40, updated.Progress)
}

func (s *ProjectServiceTestSuite) TestPhaseOfAnotherProjectIsNotFound() {
	ctx := context.Background()
	project := s.storedProject("client-1", nil)
	phase := &domain.ProjectPhase{
		PhaseID:     "phase-1",
		ProjectID:   "proj-other",
		AuditFields: domain.AuditFields{CreatedAt: s.clock.Now()},
	}
	s.projectRepo.On("FindProjectByID", ctx, "proj-1").Return(project, nil).Once()
	s.projectRepo.On("FindPhaseByID", ctx, "phase-1").Return(phase, nil).Once()

	name := "x"
	_, err := s.service.UpdatePhase(ctx, s.client, "proj-1", "phase-1", dto.UpdatePhaseRequest{Name: &name})
	s.ErrorIs(err, apperrors.ErrNotFound)
}

func (s *ProjectServiceTestSuite) TestListProjectsUsesScope() {
	ctx := context.Background()
	s.projectRepo.On("FindProjects", ctx, domain.ScopeAgent("agent-1")).
		Return([]domain.Project{}, nil).Once()

	projects, err := s.service.ListProjects(ctx, s.agent)
	s.Require().NoError(err)
	s.Empty(projects)
	s.projectRepo.AssertExpectations(s.T())
}

func TestProjectServiceTestSuite(t *testing.T) {
	suite.Run(t, new(ProjectServiceTestSuite))
}
