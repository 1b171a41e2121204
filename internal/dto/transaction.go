package dto

import (
	"time"

	"github.com/immoplus-app/immoplus-backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateTransactionRequest is the body of POST /transactions. At most one of
// the four link ids may be set. Status is only honored for admin callers; for
// everyone else the state machine derives it.
type CreateTransactionRequest struct {
	Type          string          `json:"type" form:"type" binding:"required,txntype"`
	Amount        decimal.Decimal `json:"amount" form:"amount" binding:"required"`
	CurrencyCode  string          `json:"currency,omitempty" form:"currency"`
	PaymentMethod string          `json:"paymentMethod,omitempty" form:"paymentMethod"`
	Description   string          `json:"description,omitempty" form:"description"`
	ServiceID     *string         `json:"serviceId,omitempty" form:"serviceId"`
	TaskID        *string         `json:"taskId,omitempty" form:"taskId"`
	ProjectID     *string         `json:"projectId,omitempty" form:"projectId"`
	OrderID       *string         `json:"orderId,omitempty" form:"orderId"`
	Status        *string         `json:"status,omitempty" form:"status" binding:"omitempty,txnstatus"`

	// ProofFilePath is filled in by the handler after the upload boundary has
	// stored the file; it is never taken from the request body.
	ProofFilePath *string `json:"-" form:"-"`
}

// UpdateTransactionRequest is the body of PUT /transactions/:id. Nil fields are
// left untouched. Type is immutable: supplying a different type is rejected.
type UpdateTransactionRequest struct {
	Type          *string          `json:"type,omitempty" binding:"omitempty,txntype"`
	Amount        *decimal.Decimal `json:"amount,omitempty"`
	PaymentMethod *string          `json:"paymentMethod,omitempty"`
	Description   *string          `json:"description,omitempty"`
	Status        *string          `json:"status,omitempty" binding:"omitempty,txnstatus"`
}

// ListTransactionsRequest carries the query filters of GET /transactions and
// GET /transactions/summary. NextToken is the opaque keyset cursor from a
// previous page; summary requests ignore limit and cursor.
type ListTransactionsRequest struct {
	From      *time.Time `form:"fromDate" time_format:"2006-01-02"`
	To        *time.Time `form:"toDate" time_format:"2006-01-02"`
	Type      string     `form:"type" binding:"omitempty,txntype"`
	Linked    *bool      `form:"linked"`
	Limit     int        `form:"limit" binding:"omitempty,min=1,max=100"`
	NextToken string     `form:"nextToken"`
}

// ToFilter converts the request into the domain filter; the cursor is decoded
// separately by the handler.
func (r ListTransactionsRequest) ToFilter() domain.TransactionFilter {
	return domain.TransactionFilter{
		From:   r.From,
		To:     r.To,
		Type:   domain.TransactionType(r.Type),
		Linked: r.Linked,
		Limit:  r.Limit,
	}
}

// ListTransactionsResponse is a page of entries plus the cursor for the next
// page (empty when exhausted).
type ListTransactionsResponse struct {
	Transactions []TransactionResponse `json:"transactions"`
	NextToken    string                `json:"nextToken,omitempty"`
}

// TransactionResponse is the wire shape of a ledger entry.
type TransactionResponse struct {
	TransactionID string          `json:"transactionID"`
	OwnerUserID   string          `json:"ownerUserID"`
	Type          string          `json:"type"`
	Amount        decimal.Decimal `json:"amount"`
	CurrencyCode  string          `json:"currency"`
	Status        string          `json:"status"`
	PaymentMethod string          `json:"paymentMethod,omitempty"`
	Description   string          `json:"description,omitempty"`
	ProofFilePath *string         `json:"proofFile,omitempty"`
	ServiceID     *string         `json:"serviceId,omitempty"`
	TaskID        *string         `json:"taskId,omitempty"`
	ProjectID     *string         `json:"projectId,omitempty"`
	OrderID       *string         `json:"orderId,omitempty"`
	CreatedAt     time.Time       `json:"createdAt"`
	LastUpdatedAt time.Time       `json:"updatedAt"`
}

// ToTransactionResponse converts a domain.Transaction to its wire shape,
// flattening the link union back into the four optional id fields.
func ToTransactionResponse(txn *domain.Transaction) TransactionResponse {
	resp := TransactionResponse{
		TransactionID: txn.TransactionID,
		OwnerUserID:   txn.OwnerUserID,
		Type:          string(txn.Type),
		Amount:        txn.Amount,
		CurrencyCode:  txn.CurrencyCode,
		Status:        string(txn.Status),
		PaymentMethod: txn.PaymentMethod,
		Description:   txn.Description,
		ProofFilePath: txn.ProofFilePath,
		CreatedAt:     txn.CreatedAt,
		LastUpdatedAt: txn.LastUpdatedAt,
	}
	if !txn.Link.IsNone() {
		id := txn.Link.ID
		switch txn.Link.Kind {
		case domain.LinkService:
			resp.ServiceID = &id
		case domain.LinkTask:
			resp.TaskID = &id
		case domain.LinkProject:
			resp.ProjectID = &id
		case domain.LinkOrder:
			resp.OrderID = &id
		}
	}
	return resp
}

// ToTransactionResponses converts a slice of domain transactions.
func ToTransactionResponses(txns []domain.Transaction) []TransactionResponse {
	responses := make([]TransactionResponse, len(txns))
	for i := range txns {
		responses[i] = ToTransactionResponse(&txns[i])
	}
	return responses
}
