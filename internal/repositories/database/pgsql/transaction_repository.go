package pgsql

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/immoplus-app/immoplus-backend/internal/apperrors"
	"github.com/immoplus-app/immoplus-backend/internal/core/domain"
	portsrepo "github.com/immoplus-app/immoplus-backend/internal/core/ports/repositories"
	"github.com/immoplus-app/immoplus-backend/internal/models"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const defaultListLimit = 50

// PgxTransactionRepository persists ledger entries in PostgreSQL.
type PgxTransactionRepository struct {
	BaseRepository
}

func newPgxTransactionRepository(db *pgxpool.Pool) portsrepo.TransactionRepository {
	return &PgxTransactionRepository{BaseRepository: BaseRepository{Pool: db}}
}

// Ensure PgxTransactionRepository implements the port.
var _ portsrepo.TransactionRepository = (*PgxTransactionRepository)(nil)

// Helper to convert domain.Transaction to models.Transaction
func toModelTransaction(d domain.Transaction) models.Transaction {
	m := models.Transaction{
		TransactionID: d.TransactionID,
		OwnerUserID:   d.OwnerUserID,
		Type:          string(d.Type),
		Amount:        d.Amount,
		CurrencyCode:  d.CurrencyCode,
		Status:        string(d.Status),
		ProofFilePath: d.ProofFilePath,
		AuditFields: models.AuditFields{
			CreatedAt:     d.CreatedAt,
			CreatedBy:     d.CreatedBy,
			LastUpdatedAt: d.LastUpdatedAt,
			LastUpdatedBy: d.LastUpdatedBy,
		},
	}
	if d.PaymentMethod != "" {
		m.PaymentMethod = &d.PaymentMethod
	}
	if d.Description != "" {
		m.Description = &d.Description
	}
	if !d.Link.IsNone() {
		id := d.Link.ID
		switch d.Link.Kind {
		case domain.LinkService:
			m.ServiceID = &id
		case domain.LinkTask:
			m.TaskID = &id
		case domain.LinkProject:
			m.ProjectID = &id
		case domain.LinkOrder:
			m.OrderID = &id
		}
	}
	return m
}

// Helper to convert models.Transaction to domain.Transaction
func toDomainTransaction(m models.Transaction) (domain.Transaction, error) {
	link, err := domain.NewLinkTarget(m.ServiceID, m.TaskID, m.ProjectID, m.OrderID)
	if err != nil {
		// More than one link column set: latent data corruption, surface it.
		return domain.Transaction{}, fmt.Errorf("%w: transaction %s has multiple links", apperrors.ErrLinkIntegrity, m.TransactionID)
	}
	d := domain.Transaction{
		TransactionID: m.TransactionID,
		OwnerUserID:   m.OwnerUserID,
		Type:          domain.TransactionType(m.Type),
		Amount:        m.Amount,
		CurrencyCode:  m.CurrencyCode,
		Status:        domain.TransactionStatus(m.Status),
		ProofFilePath: m.ProofFilePath,
		Link:          link,
		AuditFields: domain.AuditFields{
			CreatedAt:     m.CreatedAt,
			CreatedBy:     m.CreatedBy,
			LastUpdatedAt: m.LastUpdatedAt,
			LastUpdatedBy: m.LastUpdatedBy,
		},
	}
	if m.PaymentMethod != nil {
		d.PaymentMethod = *m.PaymentMethod
	}
	if m.Description != nil {
		d.Description = *m.Description
	}
	return d, nil
}

const transactionColumns = `transaction_id, owner_user_id, type, amount, currency_code, status,
	payment_method, description, proof_file_path, service_id, task_id, project_id, order_id,
	created_at, created_by, last_updated_at, last_updated_by`

func scanTransaction(row pgx.Row) (*domain.Transaction, error) {
	var m models.Transaction
	err := row.Scan(
		&m.TransactionID,
		&m.OwnerUserID,
		&m.Type,
		&m.Amount,
		&m.CurrencyCode,
		&m.Status,
		&m.PaymentMethod,
		&m.Description,
		&m.ProofFilePath,
		&m.ServiceID,
		&m.TaskID,
		&m.ProjectID,
		&m.OrderID,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	d, err := toDomainTransaction(m)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// scopeClause translates a visibility scope into a WHERE fragment over alias t.
// An agent sees their own entries plus entries linked to services, tasks or
// projects where they are the assigned agent.
func scopeClause(scope domain.VisibilityScope, args *[]any) string {
	if scope.All {
		return "TRUE"
	}
	if scope.AgentUserID != "" {
		*args = append(*args, scope.AgentUserID)
		n := len(*args)
		return fmt.Sprintf(`(t.owner_user_id = $%d
			OR t.service_id IN (SELECT service_id FROM services WHERE agent_id = $%d)
			OR t.task_id IN (SELECT task_id FROM tasks WHERE agent_id = $%d)
			OR t.project_id IN (SELECT project_id FROM projects WHERE agent_id = $%d))`, n, n, n, n)
	}
	if scope.OwnerUserID != "" {
		*args = append(*args, scope.OwnerUserID)
		return fmt.Sprintf("t.owner_user_id = $%d", len(*args))
	}
	// Unknown role: match nothing rather than everything.
	return "FALSE"
}

func filterClauses(filter domain.TransactionFilter, args *[]any) []string {
	var clauses []string
	if filter.From != nil {
		*args = append(*args, *filter.From)
		clauses = append(clauses, fmt.Sprintf("t.created_at >= $%d", len(*args)))
	}
	if filter.To != nil {
		*args = append(*args, *filter.To)
		clauses = append(clauses, fmt.Sprintf("t.created_at <= $%d", len(*args)))
	}
	if filter.Type != "" {
		*args = append(*args, string(filter.Type))
		clauses = append(clauses, fmt.Sprintf("t.type = $%d", len(*args)))
	}
	if filter.Linked != nil {
		if *filter.Linked {
			clauses = append(clauses, "(t.service_id IS NOT NULL OR t.task_id IS NOT NULL OR t.project_id IS NOT NULL OR t.order_id IS NOT NULL)")
		} else {
			clauses = append(clauses, "t.service_id IS NULL AND t.task_id IS NULL AND t.project_id IS NULL AND t.order_id IS NULL")
		}
	}
	return clauses
}

// SaveTransaction inserts a new ledger entry.
func (r *PgxTransactionRepository) SaveTransaction(ctx context.Context, txn domain.Transaction) error {
	m := toModelTransaction(txn)
	query := `
		INSERT INTO transactions (` + transactionColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17);
	`
	_, err := r.Pool.Exec(ctx, query,
		m.TransactionID,
		m.OwnerUserID,
		m.Type,
		m.Amount,
		m.CurrencyCode,
		m.Status,
		m.PaymentMethod,
		m.Description,
		m.ProofFilePath,
		m.ServiceID,
		m.TaskID,
		m.ProjectID,
		m.OrderID,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to save transaction: %w", err)
	}
	return nil
}

// FindTransactionByID fetches one entry without scoping; authorization happens
// above this layer.
func (r *PgxTransactionRepository) FindTransactionByID(ctx context.Context, transactionID string) (*domain.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE transaction_id = $1;`
	txn, err := scanTransaction(r.Pool.QueryRow(ctx, query, transactionID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find transaction %s: %w", transactionID, err)
	}
	return txn, nil
}

// FindTransactions lists the scoped, filtered entries newest first using a
// keyset cursor.
func (r *PgxTransactionRepository) FindTransactions(ctx context.Context, scope domain.VisibilityScope, filter domain.TransactionFilter) ([]domain.Transaction, error) {
	args := make([]any, 0, 8)
	clauses := []string{scopeClause(scope, &args)}
	clauses = append(clauses, filterClauses(filter, &args)...)

	if filter.AfterCreatedAt != nil && filter.AfterID != "" {
		args = append(args, *filter.AfterCreatedAt, filter.AfterID)
		clauses = append(clauses, fmt.Sprintf("(t.created_at, t.transaction_id) < ($%d, $%d)", len(args)-1, len(args)))
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = defaultListLimit
	}
	args = append(args, limit)

	query := fmt.Sprintf(`
		SELECT %s FROM transactions t
		WHERE %s
		ORDER BY t.created_at DESC, t.transaction_id DESC
		LIMIT $%d;`, transactionColumns, strings.Join(clauses, " AND "), len(args))

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query transactions: %w", err)
	}
	defer rows.Close()

	var result []domain.Transaction
	for rows.Next() {
		txn, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan transaction row: %w", err)
		}
		result = append(result, *txn)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate transaction rows: %w", err)
	}
	return result, nil
}

// UpdateTransaction writes the mutable fields guarded on the stored status. A
// zero-row update means either the row vanished (ErrNotFound) or a concurrent
// writer changed the status since the caller's read (ErrStaleStatus); the
// service re-validates the transition against the fresh row in the latter case.
func (r *PgxTransactionRepository) UpdateTransaction(ctx context.Context, txn domain.Transaction, expectedStatus domain.TransactionStatus) error {
	m := toModelTransaction(txn)
	query := `
		UPDATE transactions SET
			amount = $1,
			payment_method = $2,
			description = $3,
			status = $4,
			proof_file_path = $5,
			last_updated_at = $6,
			last_updated_by = $7
		WHERE transaction_id = $8 AND status = $9;
	`
	tag, err := r.Pool.Exec(ctx, query,
		m.Amount,
		m.PaymentMethod,
		m.Description,
		m.Status,
		m.ProofFilePath,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
		m.TransactionID,
		string(expectedStatus),
	)
	if err != nil {
		return fmt.Errorf("failed to update transaction %s: %w", m.TransactionID, err)
	}
	if tag.RowsAffected() == 0 {
		var stored string
		err := r.Pool.QueryRow(ctx, `SELECT status FROM transactions WHERE transaction_id = $1;`, m.TransactionID).Scan(&stored)
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.ErrNotFound
		}
		if err != nil {
			return fmt.Errorf("failed to re-check transaction %s: %w", m.TransactionID, err)
		}
		return portsrepo.ErrStaleStatus
	}
	return nil
}

// DeleteTransaction removes the entry.
func (r *PgxTransactionRepository) DeleteTransaction(ctx context.Context, transactionID string) error {
	tag, err := r.Pool.Exec(ctx, `DELETE FROM transactions WHERE transaction_id = $1;`, transactionID)
	if err != nil {
		return fmt.Errorf("failed to delete transaction %s: %w", transactionID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// FindSummaryRows fetches the per-(type, owner role) totals over the scoped,
// filtered set in one query; the aggregation engine folds them in memory.
func (r *PgxTransactionRepository) FindSummaryRows(ctx context.Context, scope domain.VisibilityScope, filter domain.TransactionFilter) ([]domain.SummaryRow, error) {
	args := make([]any, 0, 8)
	clauses := []string{scopeClause(scope, &args)}
	clauses = append(clauses, filterClauses(filter, &args)...)

	query := fmt.Sprintf(`
		SELECT t.type, u.role, SUM(t.amount) AS total
		FROM transactions t
		JOIN users u ON u.user_id = t.owner_user_id
		WHERE %s
		GROUP BY t.type, u.role;`, strings.Join(clauses, " AND "))

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query summary rows: %w", err)
	}
	defer rows.Close()

	var result []domain.SummaryRow
	for rows.Next() {
		var row domain.SummaryRow
		var txnType, role string
		if err := rows.Scan(&txnType, &role, &row.Total); err != nil {
			return nil, fmt.Errorf("failed to scan summary row: %w", err)
		}
		row.Type = domain.TransactionType(txnType)
		row.OwnerRole = domain.Role(role)
		result = append(result, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate summary rows: %w", err)
	}
	if result == nil {
		result = []domain.SummaryRow{}
	}
	return result, nil
}
