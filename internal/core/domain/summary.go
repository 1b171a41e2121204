package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// VisibilityScope is the subset of ledger entries a principal may see. It is
// computed once per request and used both to filter list/summary fetches and to
// pre-validate detail access.
type VisibilityScope struct {
	All         bool   // admin: no restriction
	OwnerUserID string // entries owned by this user
	AgentUserID string // plus entries linked to this agent's assignments (agents only)
}

// ScopeAll is the unrestricted admin scope.
func ScopeAll() VisibilityScope { return VisibilityScope{All: true} }

// ScopeOwner restricts to entries owned by userID.
func ScopeOwner(userID string) VisibilityScope { return VisibilityScope{OwnerUserID: userID} }

// ScopeAgent restricts to entries owned by userID plus entries linked to
// services/tasks/projects where userID is the assigned agent.
func ScopeAgent(userID string) VisibilityScope {
	return VisibilityScope{OwnerUserID: userID, AgentUserID: userID}
}

// TransactionFilter narrows a scoped fetch. Zero values mean "no constraint".
// AfterCreatedAt/AfterID form the keyset cursor for paginated lists; summary
// fetches ignore them.
type TransactionFilter struct {
	From           *time.Time
	To             *time.Time
	Type           TransactionType
	Linked         *bool // true: only linked entries, false: only standalone
	Limit          int
	AfterCreatedAt *time.Time
	AfterID        string
}

// TypeTotals holds the four-way totals over a set of ledger entries plus the
// derived balance. Balance is revenue minus everything that reduces it.
type TypeTotals struct {
	Revenue    decimal.Decimal `json:"revenue"`
	Expense    decimal.Decimal `json:"expense"`
	Commission decimal.Decimal `json:"commission"`
	Adjustment decimal.Decimal `json:"adjustment"`
	Balance    decimal.Decimal `json:"balance"`
}

// SummaryRow is one grouped slice of the scoped set, as fetched in a single
// query: the exact total per (type, owner role) pair.
type SummaryRow struct {
	Type      TransactionType
	OwnerRole Role
	Total     decimal.Decimal
}

// TransactionSummary is the aggregation engine output. ByRole is only populated
// for admin callers.
type TransactionSummary struct {
	Totals TypeTotals          `json:"totals"`
	ByRole map[Role]TypeTotals `json:"byRole,omitempty"`
}
