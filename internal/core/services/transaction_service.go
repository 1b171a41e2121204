package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/immoplus-app/immoplus-backend/internal/apperrors"
	"github.com/immoplus-app/immoplus-backend/internal/core/domain"
	portsrepo "github.com/immoplus-app/immoplus-backend/internal/core/ports/repositories"
	portssvc "github.com/immoplus-app/immoplus-backend/internal/core/ports/services"
	"github.com/immoplus-app/immoplus-backend/internal/dto"
)

// guardedUpdateAttempts bounds the re-read/re-validate cycle when a concurrent
// writer changes the stored status between our read and our write.
const guardedUpdateAttempts = 3

// transactionService implements the ledger core: creation with derived status,
// entitlement-gated mutation, scoped reads and aggregation.
type transactionService struct {
	BaseService
	txnRepo      portsrepo.TransactionRepository
	entitlements *EntitlementEvaluator
	clock        Clock
}

// NewTransactionService creates a new TransactionService.
func NewTransactionService(txnRepo portsrepo.TransactionRepository, entitlements *EntitlementEvaluator, clock Clock) portssvc.TransactionSvcFacade {
	if clock == nil {
		clock = NewRealClock()
	}
	return &transactionService{
		txnRepo:      txnRepo,
		entitlements: entitlements,
		clock:        clock,
	}
}

// Ensure transactionService implements the facade.
var _ portssvc.TransactionSvcFacade = (*transactionService)(nil)

// CreateTransaction validates the draft, resolves its link and persists the
// entry. Owner is always the principal; a requested status only survives for
// admins (DeriveInitialStatus drops it otherwise).
func (s *transactionService) CreateTransaction(ctx context.Context, principal domain.Principal, req dto.CreateTransactionRequest) (*domain.Transaction, error) {
	txnType := domain.TransactionType(req.Type)
	if !txnType.IsValid() {
		return nil, fmt.Errorf("%w: unknown transaction type %q", apperrors.ErrValidation, req.Type)
	}
	if req.Amount.LessThanOrEqual(decimal.Zero) {
		return nil, fmt.Errorf("%w: amount must be positive", apperrors.ErrValidation)
	}

	link, err := domain.NewLinkTarget(req.ServiceID, req.TaskID, req.ProjectID, req.OrderID)
	if err != nil {
		s.LogWarn(ctx, "Multiple link ids supplied on create", slog.String("principal_id", principal.UserID))
		return nil, fmt.Errorf("%w: at most one of serviceId/taskId/projectId/orderId may be set", err)
	}
	if _, err := s.entitlements.ValidateLink(ctx, link); err != nil {
		return nil, err
	}

	var requestedStatus *domain.TransactionStatus
	if req.Status != nil {
		status := domain.TransactionStatus(*req.Status)
		if !status.IsValid() {
			return nil, fmt.Errorf("%w: unknown status %q", apperrors.ErrValidation, *req.Status)
		}
		requestedStatus = &status
	}

	currency := req.CurrencyCode
	if currency == "" {
		currency = domain.DefaultCurrencyCode
	}

	now := s.clock.Now()
	txn := domain.Transaction{
		TransactionID: uuid.NewString(),
		OwnerUserID:   principal.UserID,
		Type:          txnType,
		Amount:        req.Amount,
		CurrencyCode:  currency,
		Status:        DeriveInitialStatus(link, requestedStatus, principal.Role),
		PaymentMethod: req.PaymentMethod,
		Description:   req.Description,
		ProofFilePath: req.ProofFilePath,
		Link:          link,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     principal.UserID,
			LastUpdatedAt: now,
			LastUpdatedBy: principal.UserID,
		},
	}

	if err := s.txnRepo.SaveTransaction(ctx, txn); err != nil {
		s.LogError(ctx, err, "Failed to save transaction", slog.String("principal_id", principal.UserID))
		return nil, fmt.Errorf("failed to create transaction: %w", err)
	}

	s.LogInfo(ctx, "Transaction created",
		slog.String("transaction_id", txn.TransactionID),
		slog.String("type", string(txn.Type)),
		slog.String("status", string(txn.Status)),
		slog.String("link_kind", string(txn.Link.Kind)))
	return &txn, nil
}

// GetTransactionByID returns the entry when visible, ErrNotFound otherwise.
func (s *transactionService) GetTransactionByID(ctx context.Context, principal domain.Principal, transactionID string) (*domain.Transaction, error) {
	txn, err := s.txnRepo.FindTransactionByID(ctx, transactionID)
	if err != nil {
		return nil, err
	}
	if err := s.entitlements.RequireVisible(ctx, principal, txn); err != nil {
		return nil, err
	}
	return txn, nil
}

// ListTransactions returns the principal's scoped, filtered list.
func (s *transactionService) ListTransactions(ctx context.Context, principal domain.Principal, filter domain.TransactionFilter) ([]domain.Transaction, error) {
	if filter.Type != "" && !filter.Type.IsValid() {
		return nil, fmt.Errorf("%w: unknown transaction type %q", apperrors.ErrValidation, filter.Type)
	}
	scope := s.entitlements.ScopeFor(principal)
	txns, err := s.txnRepo.FindTransactions(ctx, scope, filter)
	if err != nil {
		s.LogError(ctx, err, "Failed to list transactions", slog.String("principal_id", principal.UserID))
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	if txns == nil {
		txns = []domain.Transaction{}
	}
	return txns, nil
}

// UpdateTransaction applies the allowed field changes. Type is immutable; a
// status change runs through the state machine, and the transition is
// re-validated against the freshest stored row at write time via the
// repository's guarded update.
func (s *transactionService) UpdateTransaction(ctx context.Context, principal domain.Principal, transactionID string, req dto.UpdateTransactionRequest) (*domain.Transaction, error) {
	txn, err := s.txnRepo.FindTransactionByID(ctx, transactionID)
	if err != nil {
		return nil, err
	}
	if err := s.entitlements.AuthorizeUpdate(ctx, principal, txn); err != nil {
		return nil, err
	}

	if req.Type != nil && domain.TransactionType(*req.Type) != txn.Type {
		return nil, fmt.Errorf("%w: transaction type is immutable", apperrors.ErrValidation)
	}
	if req.Amount != nil && req.Amount.LessThanOrEqual(decimal.Zero) {
		return nil, fmt.Errorf("%w: amount must be positive", apperrors.ErrValidation)
	}

	for attempt := 0; attempt < guardedUpdateAttempts; attempt++ {
		expectedStatus := txn.Status

		updated := *txn
		if req.Amount != nil {
			updated.Amount = *req.Amount
		}
		if req.PaymentMethod != nil {
			updated.PaymentMethod = *req.PaymentMethod
		}
		if req.Description != nil {
			updated.Description = *req.Description
		}
		if req.Status != nil {
			newStatus := domain.TransactionStatus(*req.Status)
			if err := ValidateStatusTransition(txn.Status, newStatus); err != nil {
				return nil, err
			}
			updated.Status = newStatus
		}
		updated.LastUpdatedAt = s.clock.Now()
		updated.LastUpdatedBy = principal.UserID

		err = s.txnRepo.UpdateTransaction(ctx, updated, expectedStatus)
		if err == nil {
			s.LogInfo(ctx, "Transaction updated",
				slog.String("transaction_id", updated.TransactionID),
				slog.String("status", string(updated.Status)))
			return &updated, nil
		}
		if !errors.Is(err, portsrepo.ErrStaleStatus) {
			s.LogError(ctx, err, "Failed to update transaction", slog.String("transaction_id", transactionID))
			return nil, fmt.Errorf("failed to update transaction: %w", err)
		}

		// A concurrent writer moved the status; re-read and re-validate
		// against the freshest stored state.
		txn, err = s.txnRepo.FindTransactionByID(ctx, transactionID)
		if err != nil {
			return nil, err
		}
	}
	return nil, fmt.Errorf("%w: transaction %s kept changing concurrently", apperrors.ErrInvalidStateTransition, transactionID)
}

// DeleteTransaction removes the entry under the same gates as update; agents
// always receive ErrForbidden.
func (s *transactionService) DeleteTransaction(ctx context.Context, principal domain.Principal, transactionID string) error {
	txn, err := s.txnRepo.FindTransactionByID(ctx, transactionID)
	if err != nil {
		return err
	}
	if err := s.entitlements.AuthorizeDelete(ctx, principal, txn); err != nil {
		return err
	}
	if err := s.txnRepo.DeleteTransaction(ctx, transactionID); err != nil {
		s.LogError(ctx, err, "Failed to delete transaction", slog.String("transaction_id", transactionID))
		return fmt.Errorf("failed to delete transaction: %w", err)
	}
	s.LogInfo(ctx, "Transaction deleted",
		slog.String("transaction_id", transactionID),
		slog.String("deleted_by", principal.UserID))
	return nil
}

// SummarizeTransactions aggregates the scoped, filtered set in one fetch.
// Admins get the per-role partition from the same rows at no extra query cost.
func (s *transactionService) SummarizeTransactions(ctx context.Context, principal domain.Principal, filter domain.TransactionFilter) (*domain.TransactionSummary, error) {
	if filter.Type != "" && !filter.Type.IsValid() {
		return nil, fmt.Errorf("%w: unknown transaction type %q", apperrors.ErrValidation, filter.Type)
	}
	scope := s.entitlements.ScopeFor(principal)
	rows, err := s.txnRepo.FindSummaryRows(ctx, scope, filter)
	if err != nil {
		s.LogError(ctx, err, "Failed to fetch summary rows", slog.String("principal_id", principal.UserID))
		return nil, fmt.Errorf("failed to summarize transactions: %w", err)
	}
	return AggregateSummary(rows, principal.IsAdmin()), nil
}
