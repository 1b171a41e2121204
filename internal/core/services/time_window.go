package services

import (
	"time"

	"github.com/immoplus-app/immoplus-backend/internal/core/domain"
)

// ClientMutationWindow is the grace period during which a client may still
// mutate a record they created.
const ClientMutationWindow = time.Hour

// TimeWindowPolicy is the single reusable mutation predicate shared by
// transactions, projects and project phases. Admins always pass; agents pass
// when assigned, with no time limit; clients pass only while they own the
// record and the window since creation has not elapsed.
type TimeWindowPolicy struct {
	clock Clock
}

// NewTimeWindowPolicy creates a policy backed by the given clock.
func NewTimeWindowPolicy(clock Clock) *TimeWindowPolicy {
	if clock == nil {
		clock = NewRealClock()
	}
	return &TimeWindowPolicy{clock: clock}
}

// CanMutate evaluates the predicate at the moment of the request. isOwner and
// isAssignedAgent are resolved by the caller against the record and its link.
func (p *TimeWindowPolicy) CanMutate(role domain.Role, isOwner, isAssignedAgent bool, createdAt time.Time) bool {
	switch role {
	case domain.RoleAdmin:
		return true
	case domain.RoleAgent:
		return isOwner || isAssignedAgent
	case domain.RoleClient:
		return isOwner && p.clock.Now().Sub(createdAt) <= ClientMutationWindow
	}
	return false
}

// Remaining returns how much of the window is left for a record created at
// createdAt. Derived on every call, never persisted; floors at zero.
func (p *TimeWindowPolicy) Remaining(createdAt time.Time) time.Duration {
	remaining := ClientMutationWindow - p.clock.Now().Sub(createdAt)
	if remaining < 0 {
		return 0
	}
	return remaining
}
