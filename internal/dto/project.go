package dto

import (
	"time"

	"github.com/immoplus-app/immoplus-backend/internal/core/domain"
)

// CreateProjectRequest is the body of POST /projects. ClientID is only honored
// for admin callers; clients always own the projects they create.
type CreateProjectRequest struct {
	Name        string  `json:"name" binding:"required"`
	Description string  `json:"description,omitempty"`
	AgentID     *string `json:"agentId,omitempty"`
	ClientID    *string `json:"clientId,omitempty"`
}

// UpdateProjectRequest is the body of PUT /projects/:projectID. Nil fields are
// left untouched.
type UpdateProjectRequest struct {
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
	AgentID     *string `json:"agentId,omitempty"`
	Status      *string `json:"status,omitempty" binding:"omitempty,projectstatus"`
}

// CreatePhaseRequest is the body of POST /projects/:projectID/phases.
type CreatePhaseRequest struct {
	Name     string `json:"name" binding:"required"`
	Progress int    `json:"progress" binding:"min=0,max=100"`
}

// UpdatePhaseRequest is the body of PUT /projects/:projectID/phases/:phaseID.
type UpdatePhaseRequest struct {
	Name     *string `json:"name,omitempty"`
	Status   *string `json:"status,omitempty" binding:"omitempty,projectstatus"`
	Progress *int    `json:"progress,omitempty" binding:"omitempty,min=0,max=100"`
}

// ProjectResponse is the wire shape of a project.
type ProjectResponse struct {
	ProjectID   string    `json:"projectID"`
	ClientID    string    `json:"clientID"`
	AgentID     *string   `json:"agentId,omitempty"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// PhaseResponse is the wire shape of a project phase.
type PhaseResponse struct {
	PhaseID   string    `json:"phaseID"`
	ProjectID string    `json:"projectID"`
	Name      string    `json:"name"`
	Status    string    `json:"status"`
	Progress  int       `json:"progress"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// ToProjectResponse converts a domain.Project to its wire shape.
func ToProjectResponse(p *domain.Project) ProjectResponse {
	return ProjectResponse{
		ProjectID:   p.ProjectID,
		ClientID:    p.ClientID,
		AgentID:     p.AgentID,
		Name:        p.Name,
		Description: p.Description,
		Status:      string(p.Status),
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.LastUpdatedAt,
	}
}

// ToProjectResponses converts a slice of domain projects.
func ToProjectResponses(projects []domain.Project) []ProjectResponse {
	responses := make([]ProjectResponse, len(projects))
	for i := range projects {
		responses[i] = ToProjectResponse(&projects[i])
	}
	return responses
}

// ToPhaseResponse converts a domain.ProjectPhase to its wire shape.
func ToPhaseResponse(p *domain.ProjectPhase) PhaseResponse {
	return PhaseResponse{
		PhaseID:   p.PhaseID,
		ProjectID: p.ProjectID,
		Name:      p.Name,
		Status:    string(p.Status),
		Progress:  p.Progress,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.LastUpdatedAt,
	}
}

// ToPhaseResponses converts a slice of domain phases.
func ToPhaseResponses(phases []domain.ProjectPhase) []PhaseResponse {
	responses := make([]PhaseResponse, len(phases))
	for i := range phases {
		responses[i] = ToPhaseResponse(&phases[i])
	}
	return responses
}
