package services

import (
	"fmt"

	"github.com/immoplus-app/immoplus-backend/internal/apperrors"
	"github.com/immoplus-app/immoplus-backend/internal/core/domain"
)

// DeriveInitialStatus computes the status a new ledger entry starts in.
//
// Entries with no settlement dependency (standalone, or tied only to a
// service/task) are self-contained and complete immediately. Entries linked to
// a project or order represent money whose finality depends on an external
// workflow and start pending. A caller-requested status is honored only for
// admins; any other caller's requested value is ignored, never an error.
func DeriveInitialStatus(link domain.LinkTarget, requested *domain.TransactionStatus, role domain.Role) domain.TransactionStatus {
	if requested != nil && role == domain.RoleAdmin && requested.IsValid() {
		return *requested
	}
	if link.RequiresSettlement() {
		return domain.StatusPending
	}
	return domain.StatusCompleted
}

// ValidateStatusTransition checks whether moving from one status to another is
// legal. Pending may move to either terminal state; terminal states are frozen.
// A no-op transition is always allowed.
func ValidateStatusTransition(from, to domain.TransactionStatus) error {
	if !to.IsValid() {
		return fmt.Errorf("%w: unknown status %q", apperrors.ErrValidation, to)
	}
	if from == to {
		return nil
	}
	if from.IsTerminal() {
		return fmt.Errorf("%w: %s is terminal, cannot move to %s", apperrors.ErrInvalidStateTransition, from, to)
	}
	return nil
}
