package pgsql

import (
	portsrepo "github.com/immoplus-app/immoplus-backend/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

// RepositoryContainer bundles the PostgreSQL-backed repositories behind their
// ports so the service layer wires against interfaces only.
type RepositoryContainer struct {
	User         portsrepo.UserRepository
	Transaction  portsrepo.TransactionRepository
	Project      portsrepo.ProjectRepository
	LinkRegistry portsrepo.LinkRegistry
}

// NewRepositoryContainer builds all repositories over one shared pool.
func NewRepositoryContainer(db *pgxpool.Pool) *RepositoryContainer {
	return &RepositoryContainer{
		User:         newPgxUserRepository(db),
		Transaction:  newPgxTransactionRepository(db),
		Project:      newPgxProjectRepository(db),
		LinkRegistry: newPgxLinkRegistry(db),
	}
}
