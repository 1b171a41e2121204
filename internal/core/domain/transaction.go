package domain

import "github.com/shopspring/decimal"

// TransactionType classifies a money movement.
type TransactionType string

const (
	TypeRevenue    TransactionType = "REVENUE"
	TypeExpense    TransactionType = "EXPENSE"
	TypeCommission TransactionType = "COMMISSION"
	TypeAdjustment TransactionType = "ADJUSTMENT"
)

// IsValid reports whether t is one of the known transaction types.
func (t TransactionType) IsValid() bool {
	switch t {
	case TypeRevenue, TypeExpense, TypeCommission, TypeAdjustment:
		return true
	}
	return false
}

// TransactionStatus is the state machine over a ledger entry.
type TransactionStatus string

const (
	StatusPending   TransactionStatus = "PENDING"
	StatusCompleted TransactionStatus = "COMPLETED"
	StatusCancelled TransactionStatus = "CANCELLED"
)

// IsValid reports whether s is one of the known statuses.
func (s TransactionStatus) IsValid() bool {
	switch s {
	case StatusPending, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// IsTerminal reports whether s permits no further transition.
func (s TransactionStatus) IsTerminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

// DefaultCurrencyCode is applied when a create request carries no currency.
const DefaultCurrencyCode = "XOF"

// Transaction is a single ledger entry: one money movement attributed to a user
// and optionally to a linked Service/Task/Project/Order.
type Transaction struct {
	TransactionID string            `json:"transactionID"` // Primary Key (e.g., UUID)
	OwnerUserID   string            `json:"ownerUserID"`   // Always the authenticated creator, never client input
	Type          TransactionType   `json:"type"`
	Amount        decimal.Decimal   `json:"amount"` // Positive value; precise decimal type
	CurrencyCode  string            `json:"currencyCode"`
	Status        TransactionStatus `json:"status"`
	PaymentMethod string            `json:"paymentMethod,omitempty"`
	Description   string            `json:"description,omitempty"`
	ProofFilePath *string           `json:"proofFilePath,omitempty"` // Pointer into external file storage
	Link          LinkTarget        `json:"link"`
	AuditFields
}
