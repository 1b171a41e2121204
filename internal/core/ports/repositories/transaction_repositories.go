package repositories

import (
	"context"
	"errors"

	"github.com/immoplus-app/immoplus-backend/internal/core/domain"
)

// ErrStaleStatus signals that a guarded status update found a different stored
// status than the one the caller validated against.
var ErrStaleStatus = errors.New("stored status changed since read")

// TransactionRepository persists ledger entries. Every read is scoped: there is
// no unrestricted query path.
type TransactionRepository interface {
	// SaveTransaction inserts a new ledger entry.
	SaveTransaction(ctx context.Context, txn domain.Transaction) error

	// FindTransactionByID fetches one entry regardless of scope; callers must
	// run it through the entitlement evaluator before surfacing it.
	// Returns apperrors.ErrNotFound when no row exists.
	FindTransactionByID(ctx context.Context, transactionID string) (*domain.Transaction, error)

	// FindTransactions lists the entries visible under scope, newest first,
	// optionally narrowed by filter.
	FindTransactions(ctx context.Context, scope domain.VisibilityScope, filter domain.TransactionFilter) ([]domain.Transaction, error)

	// UpdateTransaction writes the mutable fields of txn. The row's status is
	// re-checked against expectedStatus at write time; when the stored status no
	// longer matches (a concurrent writer got there first) the write is not
	// applied and ErrStaleStatus is returned so the caller can re-evaluate the
	// transition against the freshest state.
	UpdateTransaction(ctx context.Context, txn domain.Transaction, expectedStatus domain.TransactionStatus) error

	// DeleteTransaction removes the entry. Returns apperrors.ErrNotFound when no
	// row exists.
	DeleteTransaction(ctx context.Context, transactionID string) error

	// FindSummaryRows fetches the per-(type, owner role) totals over the scoped,
	// filtered set in a single query.
	FindSummaryRows(ctx context.Context, scope domain.VisibilityScope, filter domain.TransactionFilter) ([]domain.SummaryRow, error)
}
