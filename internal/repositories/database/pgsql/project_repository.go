package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/immoplus-app/immoplus-backend/internal/apperrors"
	"github.com/immoplus-app/immoplus-backend/internal/core/domain"
	portsrepo "github.com/immoplus-app/immoplus-backend/internal/core/ports/repositories"
	"github.com/immoplus-app/immoplus-backend/internal/models"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PgxProjectRepository persists projects and their phases in PostgreSQL.
type PgxProjectRepository struct {
	BaseRepository
}

func newPgxProjectRepository(db *pgxpool.Pool) portsrepo.ProjectRepository {
	return &PgxProjectRepository{BaseRepository: BaseRepository{Pool: db}}
}

var _ portsrepo.ProjectRepository = (*PgxProjectRepository)(nil)

func toModelProject(d domain.Project) models.Project {
	m := models.Project{
		ProjectID: d.ProjectID,
		ClientID:  d.ClientID,
		AgentID:   d.AgentID,
		Name:      d.Name,
		Status:    string(d.Status),
		AuditFields: models.AuditFields{
			CreatedAt:     d.CreatedAt,
			CreatedBy:     d.CreatedBy,
			LastUpdatedAt: d.LastUpdatedAt,
			LastUpdatedBy: d.LastUpdatedBy,
		},
	}
	if d.Description != "" {
		m.Description = &d.Description
	}
	return m
}

func toDomainProject(m models.Project) domain.Project {
	d := domain.Project{
		ProjectID: m.ProjectID,
		ClientID:  m.ClientID,
		AgentID:   m.AgentID,
		Name:      m.Name,
		Status:    domain.ProjectStatus(m.Status),
		AuditFields: domain.AuditFields{
			CreatedAt:     m.CreatedAt,
			CreatedBy:     m.CreatedBy,
			LastUpdatedAt: m.LastUpdatedAt,
			LastUpdatedBy: m.LastUpdatedBy,
		},
	}
	if m.Description != nil {
		d.Description = *m.Description
	}
	return d
}

func toDomainPhase(m models.ProjectPhase) domain.ProjectPhase {
	return domain.ProjectPhase{
		PhaseID:   m.PhaseID,
		ProjectID: m.ProjectID,
		Name:      m.Name,
		Status:    domain.ProjectStatus(m.Status),
		Progress:  m.Progress,
		AuditFields: domain.AuditFields{
			CreatedAt:     m.CreatedAt,
			CreatedBy:     m.CreatedBy,
			LastUpdatedAt: m.LastUpdatedAt,
			LastUpdatedBy: m.LastUpdatedBy,
		},
	}
}

const projectColumns = `project_id, client_id, agent_id, name, description, status,
	created_at, created_by, last_updated_at, last_updated_by`

func scanProject(row pgx.Row) (*domain.Project, error) {
	var m models.Project
	err := row.Scan(
		&m.ProjectID,
		&m.ClientID,
		&m.AgentID,
		&m.Name,
		&m.Description,
		&m.Status,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	d := toDomainProject(m)
	return &d, nil
}

const phaseColumns = `phase_id, project_id, name, status, progress,
	created_at, created_by, last_updated_at, last_updated_by`

func scanPhase(row pgx.Row) (*domain.ProjectPhase, error) {
	var m models.ProjectPhase
	err := row.Scan(
		&m.PhaseID,
		&m.ProjectID,
		&m.Name,
		&m.Status,
		&m.Progress,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	d := toDomainPhase(m)
	return &d, nil
}

// SaveProject inserts a new project.
func (r *PgxProjectRepository) SaveProject(ctx context.Context, project domain.Project) error {
	m := toModelProject(project)
	query := `
		INSERT INTO projects (` + projectColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10);
	`
	_, err := r.Pool.Exec(ctx, query,
		m.ProjectID, m.ClientID, m.AgentID, m.Name, m.Description, m.Status,
		m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to save project: %w", err)
	}
	return nil
}

// FindProjectByID fetches one project.
func (r *PgxProjectRepository) FindProjectByID(ctx context.Context, projectID string) (*domain.Project, error) {
	query := `SELECT ` + projectColumns + ` FROM projects WHERE project_id = $1;`
	project, err := scanProject(r.Pool.QueryRow(ctx, query, projectID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find project %s: %w", projectID, err)
	}
	return project, nil
}

// FindProjects lists the scoped projects newest first.
func (r *PgxProjectRepository) FindProjects(ctx context.Context, scope domain.VisibilityScope) ([]domain.Project, error) {
	args := make([]any, 0, 1)
	where := "TRUE"
	switch {
	case scope.All:
	case scope.AgentUserID != "":
		args = append(args, scope.AgentUserID)
		where = "agent_id = $1"
	case scope.OwnerUserID != "":
		args = append(args, scope.OwnerUserID)
		where = "client_id = $1"
	default:
		where = "FALSE"
	}

	query := fmt.Sprintf(`SELECT %s FROM projects WHERE %s ORDER BY created_at DESC;`, projectColumns, where)
	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query projects: %w", err)
	}
	defer rows.Close()

	var result []domain.Project
	for rows.Next() {
		project, err := scanProject(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan project row: %w", err)
		}
		result = append(result, *project)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate project rows: %w", err)
	}
	return result, nil
}

// UpdateProject writes the mutable project fields.
func (r *PgxProjectRepository) UpdateProject(ctx context.Context, project domain.Project) error {
	m := toModelProject(project)
	query := `
		UPDATE projects SET
			agent_id = $1,
			name = $2,
			description = $3,
			status = $4,
			last_updated_at = $5,
			last_updated_by = $6
		WHERE project_id = $7;
	`
	tag, err := r.Pool.Exec(ctx, query,
		m.AgentID, m.Name, m.Description, m.Status,
		m.LastUpdatedAt, m.LastUpdatedBy, m.ProjectID,
	)
	if err != nil {
		return fmt.Errorf("failed to update project %s: %w", m.ProjectID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// DeleteProject removes the project and its phases in one transaction.
func (r *PgxProjectRepository) DeleteProject(ctx context.Context, projectID string) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = r.Rollback(ctx, tx) }()

	if _, err := tx.Exec(ctx, `DELETE FROM project_phases WHERE project_id = $1;`, projectID); err != nil {
		return fmt.Errorf("failed to delete phases of project %s: %w", projectID, err)
	}
	tag, err := tx.Exec(ctx, `DELETE FROM projects WHERE project_id = $1;`, projectID)
	if err != nil {
		return fmt.Errorf("failed to delete project %s: %w", projectID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return r.Commit(ctx, tx)
}

// SavePhase inserts a new phase.
func (r *PgxProjectRepository) SavePhase(ctx context.Context, phase domain.ProjectPhase) error {
	query := `
		INSERT INTO project_phases (` + phaseColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9);
	`
	_, err := r.Pool.Exec(ctx, query,
		phase.PhaseID, phase.ProjectID, phase.Name, string(phase.Status), phase.Progress,
		phase.CreatedAt, phase.CreatedBy, phase.LastUpdatedAt, phase.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to save phase: %w", err)
	}
	return nil
}

// FindPhaseByID fetches one phase.
func (r *PgxProjectRepository) FindPhaseByID(ctx context.Context, phaseID string) (*domain.ProjectPhase, error) {
	query := `SELECT ` + phaseColumns + ` FROM project_phases WHERE phase_id = $1;`
	phase, err := scanPhase(r.Pool.QueryRow(ctx, query, phaseID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find phase %s: %w", phaseID, err)
	}
	return phase, nil
}

// FindPhasesByProjectID lists a project's phases in creation order.
func (r *PgxProjectRepository) FindPhasesByProjectID(ctx context.Context, projectID string) ([]domain.ProjectPhase, error) {
	query := `SELECT ` + phaseColumns + ` FROM project_phases WHERE project_id = $1 ORDER BY created_at ASC;`
	rows, err := r.Pool.Query(ctx, query, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to query phases: %w", err)
	}
	defer rows.Close()

	var result []domain.ProjectPhase
	for rows.Next() {
		phase, err := scanPhase(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan phase row: %w", err)
		}
		result = append(result, *phase)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate phase rows: %w", err)
	}
	return result, nil
}

// UpdatePhase writes the mutable phase fields.
func (r *PgxProjectRepository) UpdatePhase(ctx context.Context, phase domain.ProjectPhase) error {
	query := `
		UPDATE project_phases SET
			name = $1,
			status = $2,
			progress = $3,
			last_updated_at = $4,
			last_updated_by = $5
		WHERE phase_id = $6;
	`
	tag, err := r.Pool.Exec(ctx, query,
		phase.Name, string(phase.Status), phase.Progress,
		phase.LastUpdatedAt, phase.LastUpdatedBy, phase.PhaseID,
	)
	if err != nil {
		return fmt.Errorf("failed to update phase %s: %w", phase.PhaseID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// DeletePhase removes the phase.
func (r *PgxProjectRepository) DeletePhase(ctx context.Context, phaseID string) error {
	tag, err := r.Pool.Exec(ctx, `DELETE FROM project_phases WHERE phase_id = $1;`, phaseID)
	if err != nil {
		return fmt.Errorf("failed to delete phase %s: %w", phaseID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
