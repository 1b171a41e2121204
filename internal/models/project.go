package models

// Project is the persistence shape of a project.
type Project struct {
	ProjectID   string  `db:"project_id"`
	ClientID    string  `db:"client_id"`
	AgentID     *string `db:"agent_id"`
	Name        string  `db:"name"`
	Description *string `db:"description"`
	Status      string  `db:"status"`
	AuditFields
}

// ProjectPhase is the persistence shape of a project phase.
type ProjectPhase struct {
	PhaseID   string `db:"phase_id"`
	ProjectID string `db:"project_id"`
	Name      string `db:"name"`
	Status    string `db:"status"`
	Progress  int    `db:"progress"`
	AuditFields
}
