package services

import (
	portssvc "github.com/immoplus-app/immoplus-backend/internal/core/ports/services"
	"github.com/immoplus-app/immoplus-backend/internal/platform/config"
	"github.com/immoplus-app/immoplus-backend/internal/repositories/database/pgsql"
	"github.com/jackc/pgx/v5/pgxpool"
)

// NewServiceContainer wires the repositories, the shared entitlement evaluator
// and all services off one database pool.
func NewServiceContainer(dbPool *pgxpool.Pool, cfg *config.Config) *portssvc.ServiceContainer {
	repos := pgsql.NewRepositoryContainer(dbPool)
	return newServiceContainerWithRepos(repos, cfg, NewRealClock())
}

func newServiceContainerWithRepos(repos *pgsql.RepositoryContainer, cfg *config.Config, clock Clock) *portssvc.ServiceContainer {
	window := NewTimeWindowPolicy(clock)
	entitlements := NewEntitlementEvaluator(repos.LinkRegistry, window)

	return &portssvc.ServiceContainer{
		User:        NewUserService(repos.User, clock),
		Token:       NewTokenService(cfg),
		Transaction: NewTransactionService(repos.Transaction, entitlements, clock),
		Project:     NewProjectService(repos.Project, window, clock),
	}
}
