package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/immoplus-app/immoplus-backend/internal/apperrors"
	"github.com/immoplus-app/immoplus-backend/internal/core/domain"
	portsrepo "github.com/immoplus-app/immoplus-backend/internal/core/ports/repositories"
)

// EntitlementEvaluator decides, for a (principal, operation, entry) tuple,
// whether the operation is permitted and what the principal may see. It is the
// single choke point for ledger authorization: handlers and services never
// compare roles themselves.
//
// Failure vocabulary: an entry outside the principal's visibility is
// ErrNotFound (indistinguishable from a missing entry, so existence never
// leaks); an entry the principal can see but may not mutate is ErrForbidden.
type EntitlementEvaluator struct {
	BaseService
	linkRegistry portsrepo.LinkRegistry
	window       *TimeWindowPolicy
}

// NewEntitlementEvaluator creates an evaluator backed by the link registry and
// the shared time-window policy.
func NewEntitlementEvaluator(linkRegistry portsrepo.LinkRegistry, window *TimeWindowPolicy) *EntitlementEvaluator {
	return &EntitlementEvaluator{
		linkRegistry: linkRegistry,
		window:       window,
	}
}

// Window exposes the shared time-window policy so peripheral components
// (projects, phases) apply the identical predicate.
func (e *EntitlementEvaluator) Window() *TimeWindowPolicy {
	return e.window
}

// ScopeFor computes the principal's visibility scope. Computed once per
// request and reused for both list filtering and detail pre-validation.
func (e *EntitlementEvaluator) ScopeFor(principal domain.Principal) domain.VisibilityScope {
	switch principal.Role {
	case domain.RoleAdmin:
		return domain.ScopeAll()
	case domain.RoleAgent:
		return domain.ScopeAgent(principal.UserID)
	case domain.RoleClient:
		return domain.ScopeOwner(principal.UserID)
	}
	// Unknown role: a scope that matches nothing.
	return domain.VisibilityScope{}
}

// ValidateLink resolves the draft's link target, surfacing ErrLinkIntegrity
// when the referenced entity does not exist. Standalone entries resolve to nil
// facts.
func (e *EntitlementEvaluator) ValidateLink(ctx context.Context, link domain.LinkTarget) (*domain.LinkFacts, error) {
	if link.IsNone() {
		return nil, nil
	}
	facts, err := e.linkRegistry.ResolveLink(ctx, link)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s %s does not exist", apperrors.ErrLinkIntegrity, link.Kind, link.ID)
		}
		return nil, fmt.Errorf("failed to resolve link %s/%s: %w", link.Kind, link.ID, err)
	}
	return facts, nil
}

// CanView reports whether the entry is inside the principal's visibility
// scope. An entry with no link is visible only to its owner and admin; a
// linked entry is additionally visible to the assigned agent.
func (e *EntitlementEvaluator) CanView(ctx context.Context, principal domain.Principal, txn *domain.Transaction) (bool, error) {
	switch principal.Role {
	case domain.RoleAdmin:
		return true, nil
	case domain.RoleClient:
		return txn.OwnerUserID == principal.UserID, nil
	case domain.RoleAgent:
		if txn.OwnerUserID == principal.UserID {
			return true, nil
		}
		facts, err := e.resolveFacts(ctx, txn)
		if err != nil {
			return false, err
		}
		return facts.IsAssignedAgent(principal.UserID), nil
	}
	return false, nil
}

// RequireVisible turns an out-of-scope entry into ErrNotFound.
func (e *EntitlementEvaluator) RequireVisible(ctx context.Context, principal domain.Principal, txn *domain.Transaction) error {
	visible, err := e.CanView(ctx, principal, txn)
	if err != nil {
		return err
	}
	if !visible {
		e.LogWarn(ctx, "Entry outside principal visibility",
			slog.String("transaction_id", txn.TransactionID),
			slog.String("principal_id", principal.UserID),
			slog.String("role", string(principal.Role)))
		return apperrors.ErrNotFound
	}
	return nil
}

// AuthorizeUpdate gates PUT /transactions/:id. Visibility first (NotFound),
// then role rules: admin unrestricted; agent only on entries they own or are
// assigned to and only while non-terminal; client only on own entries inside
// the mutation window.
func (e *EntitlementEvaluator) AuthorizeUpdate(ctx context.Context, principal domain.Principal, txn *domain.Transaction) error {
	if err := e.RequireVisible(ctx, principal, txn); err != nil {
		return err
	}
	switch principal.Role {
	case domain.RoleAdmin:
		return nil
	case domain.RoleAgent:
		if txn.Status.IsTerminal() {
			return fmt.Errorf("%w: entry is %s", apperrors.ErrForbidden, txn.Status)
		}
		return nil // visibility already proved ownership or assignment
	case domain.RoleClient:
		if !e.window.CanMutate(principal.Role, txn.OwnerUserID == principal.UserID, false, txn.CreatedAt) {
			return fmt.Errorf("%w: mutation window elapsed", apperrors.ErrForbidden)
		}
		return nil
	}
	return apperrors.ErrForbidden
}

// AuthorizeDelete gates DELETE /transactions/:id. Agents can never delete,
// regardless of ownership; clients are bound by the same window as update.
func (e *EntitlementEvaluator) AuthorizeDelete(ctx context.Context, principal domain.Principal, txn *domain.Transaction) error {
	if err := e.RequireVisible(ctx, principal, txn); err != nil {
		return err
	}
	switch principal.Role {
	case domain.RoleAdmin:
		return nil
	case domain.RoleAgent:
		return fmt.Errorf("%w: agents cannot delete ledger entries", apperrors.ErrForbidden)
	case domain.RoleClient:
		if !e.window.CanMutate(principal.Role, txn.OwnerUserID == principal.UserID, false, txn.CreatedAt) {
			return fmt.Errorf("%w: mutation window elapsed", apperrors.ErrForbidden)
		}
		return nil
	}
	return apperrors.ErrForbidden
}

func (e *EntitlementEvaluator) resolveFacts(ctx context.Context, txn *domain.Transaction) (*domain.LinkFacts, error) {
	if txn.Link.IsNone() {
		return nil, nil
	}
	facts, err := e.linkRegistry.ResolveLink(ctx, txn.Link)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			// Stored link points at a vanished entity; treat as unassigned
			// rather than failing the read.
			e.LogWarn(ctx, "Stored link no longer resolves",
				slog.String("transaction_id", txn.TransactionID),
				slog.String("link_kind", string(txn.Link.Kind)),
				slog.String("link_id", txn.Link.ID))
			return nil, nil
		}
		return nil, err
	}
	return facts, nil
}
