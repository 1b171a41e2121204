package domain

// ProjectStatus is the closed status enumeration for projects.
type ProjectStatus string

const (
	ProjectPending    ProjectStatus = "PENDING"
	ProjectInProgress ProjectStatus = "IN_PROGRESS"
	ProjectCompleted  ProjectStatus = "COMPLETED"
	ProjectCancelled  ProjectStatus = "CANCELLED"
)

// IsValid reports whether s is one of the known project statuses.
func (s ProjectStatus) IsValid() bool {
	switch s {
	case ProjectPending, ProjectInProgress, ProjectCompleted, ProjectCancelled:
		return true
	}
	return false
}

// Project is a client-owned engagement, optionally assigned to an agent. It is
// peripheral to the ledger core but shares the time-window mutation policy.
type Project struct {
	ProjectID   string        `json:"projectID"` // Primary Key (e.g., UUID)
	ClientID    string        `json:"clientID"`  // Owning client
	AgentID     *string       `json:"agentID,omitempty"`
	Name        string        `json:"name"`
	Description string        `json:"description,omitempty"`
	Status      ProjectStatus `json:"status"`
	AuditFields
}

// ProjectPhase belongs to exactly one project.
type ProjectPhase struct {
	PhaseID   string        `json:"phaseID"` // Primary Key (e.g., UUID)
	ProjectID string        `json:"projectID"`
	Name      string        `json:"name"`
	Status    ProjectStatus `json:"status"`
	Progress  int           `json:"progress"` // 0-100
	AuditFields
}
