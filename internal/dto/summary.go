package dto

import (
	"github.com/immoplus-app/immoplus-backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// TypeTotalsResponse mirrors domain.TypeTotals on the wire.
type TypeTotalsResponse struct {
	Revenue    decimal.Decimal `json:"revenue"`
	Expense    decimal.Decimal `json:"expense"`
	Commission decimal.Decimal `json:"commission"`
	Adjustment decimal.Decimal `json:"adjustment"`
	Balance    decimal.Decimal `json:"balance"`
}

// SummaryResponse is the payload of GET /transactions/summary. ByRole is only
// present for admin callers.
type SummaryResponse struct {
	Totals TypeTotalsResponse            `json:"totals"`
	ByRole map[string]TypeTotalsResponse `json:"byRole,omitempty"`
}

func toTypeTotalsResponse(t domain.TypeTotals) TypeTotalsResponse {
	return TypeTotalsResponse{
		Revenue:    t.Revenue,
		Expense:    t.Expense,
		Commission: t.Commission,
		Adjustment: t.Adjustment,
		Balance:    t.Balance,
	}
}

// ToSummaryResponse converts the aggregation engine output to its wire shape.
func ToSummaryResponse(summary *domain.TransactionSummary) SummaryResponse {
	resp := SummaryResponse{Totals: toTypeTotalsResponse(summary.Totals)}
	if summary.ByRole != nil {
		resp.ByRole = make(map[string]TypeTotalsResponse, len(summary.ByRole))
		for role, totals := range summary.ByRole {
			resp.ByRole[string(role)] = toTypeTotalsResponse(totals)
		}
	}
	return resp
}
