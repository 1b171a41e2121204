package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/immoplus-app/immoplus-backend/internal/apperrors"
	"github.com/immoplus-app/immoplus-backend/internal/core/domain"
	portsrepo "github.com/immoplus-app/immoplus-backend/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PgxLinkRegistry resolves link targets against the linkable-entity tables.
type PgxLinkRegistry struct {
	BaseRepository
}

func newPgxLinkRegistry(db *pgxpool.Pool) portsrepo.LinkRegistry {
	return &PgxLinkRegistry{BaseRepository: BaseRepository{Pool: db}}
}

var _ portsrepo.LinkRegistry = (*PgxLinkRegistry)(nil)

// ResolveLink fetches ownership and assignment facts for the entity behind
// target. Each linkable kind lives in its own table; orders carry no agent.
func (r *PgxLinkRegistry) ResolveLink(ctx context.Context, target domain.LinkTarget) (*domain.LinkFacts, error) {
	if target.IsNone() {
		return nil, nil
	}

	var query string
	switch target.Kind {
	case domain.LinkService:
		query = `SELECT client_id, agent_id FROM services WHERE service_id = $1;`
	case domain.LinkTask:
		query = `SELECT client_id, agent_id FROM tasks WHERE task_id = $1;`
	case domain.LinkProject:
		query = `SELECT client_id, agent_id FROM projects WHERE project_id = $1;`
	case domain.LinkOrder:
		query = `SELECT client_id, NULL::text FROM orders WHERE order_id = $1;`
	default:
		return nil, fmt.Errorf("%w: unknown link kind %q", apperrors.ErrValidation, target.Kind)
	}

	facts := domain.LinkFacts{Kind: target.Kind, ID: target.ID}
	err := r.Pool.QueryRow(ctx, query, target.ID).Scan(&facts.OwnerUserID, &facts.AssignedAgentID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to resolve %s link %s: %w", target.Kind, target.ID, err)
	}
	return &facts, nil
}
