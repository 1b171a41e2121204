package services

import (
	"context"

	"github.com/immoplus-app/immoplus-backend/internal/core/domain"
	"github.com/immoplus-app/immoplus-backend/internal/dto"
)

// TransactionSvcFacade is the ledger core: every operation takes the
// authenticated principal and runs through the entitlement evaluator before
// touching storage.
type TransactionSvcFacade interface {
	// CreateTransaction validates the draft, resolves its link, derives the
	// initial status and persists the entry attributed to the principal.
	CreateTransaction(ctx context.Context, principal domain.Principal, req dto.CreateTransactionRequest) (*domain.Transaction, error)

	// GetTransactionByID returns the entry when it is inside the principal's
	// visibility scope, apperrors.ErrNotFound otherwise.
	GetTransactionByID(ctx context.Context, principal domain.Principal, transactionID string) (*domain.Transaction, error)

	// ListTransactions returns the principal's scoped, filtered list.
	ListTransactions(ctx context.Context, principal domain.Principal, filter domain.TransactionFilter) ([]domain.Transaction, error)

	// UpdateTransaction applies the allowed field changes after entitlement and
	// state-machine checks.
	UpdateTransaction(ctx context.Context, principal domain.Principal, transactionID string, req dto.UpdateTransactionRequest) (*domain.Transaction, error)

	// DeleteTransaction removes the entry under the same gates as update;
	// agents can never delete.
	DeleteTransaction(ctx context.Context, principal domain.Principal, transactionID string) error

	// SummarizeTransactions aggregates the principal's scoped set; admins
	// additionally receive the per-role breakdown.
	SummarizeTransactions(ctx context.Context, principal domain.Principal, filter domain.TransactionFilter) (*domain.TransactionSummary, error)
}
