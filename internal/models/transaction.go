package models

import "github.com/shopspring/decimal"

// Transaction is the persistence shape of a ledger entry. The four link
// columns are independently nullable; the domain layer collapses them into a
// single tagged link target and a CHECK constraint keeps the table honest.
type Transaction struct {
	TransactionID string          `db:"transaction_id"`
	OwnerUserID   string          `db:"owner_user_id"`
	Type          string          `db:"type"`
	Amount        decimal.Decimal `db:"amount"`
	CurrencyCode  string          `db:"currency_code"`
	Status        string          `db:"status"`
	PaymentMethod *string         `db:"payment_method"`
	Description   *string         `db:"description"`
	ProofFilePath *string         `db:"proof_file_path"`
	ServiceID     *string         `db:"service_id"`
	TaskID        *string         `db:"task_id"`
	ProjectID     *string         `db:"project_id"`
	OrderID       *string         `db:"order_id"`
	AuditFields
}
