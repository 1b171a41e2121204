package services

import (
	"github.com/immoplus-app/immoplus-backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// AggregateSummary folds the grouped rows of one scoped fetch into per-type
// totals and, when byRole is set, the same totals partitioned by the owning
// user's role. Pure function of its input: calling it twice over an unchanged
// set yields identical totals. All arithmetic is exact decimal.
func AggregateSummary(rows []domain.SummaryRow, byRole bool) *domain.TransactionSummary {
	summary := &domain.TransactionSummary{
		Totals: zeroTotals(),
	}
	if byRole {
		summary.ByRole = make(map[domain.Role]domain.TypeTotals)
	}

	for _, row := range rows {
		addRow(&summary.Totals, row)
		if byRole {
			partition, ok := summary.ByRole[row.OwnerRole]
			if !ok {
				partition = zeroTotals()
			}
			addRow(&partition, row)
			summary.ByRole[row.OwnerRole] = partition
		}
	}

	summary.Totals.Balance = balanceOf(summary.Totals)
	for role, partition := range summary.ByRole {
		partition.Balance = balanceOf(partition)
		summary.ByRole[role] = partition
	}
	return summary
}

func zeroTotals() domain.TypeTotals {
	return domain.TypeTotals{
		Revenue:    decimal.Zero,
		Expense:    decimal.Zero,
		Commission: decimal.Zero,
		Adjustment: decimal.Zero,
		Balance:    decimal.Zero,
	}
}

func addRow(totals *domain.TypeTotals, row domain.SummaryRow) {
	switch row.Type {
	case domain.TypeRevenue:
		totals.Revenue = totals.Revenue.Add(row.Total)
	case domain.TypeExpense:
		totals.Expense = totals.Expense.Add(row.Total)
	case domain.TypeCommission:
		totals.Commission = totals.Commission.Add(row.Total)
	case domain.TypeAdjustment:
		totals.Adjustment = totals.Adjustment.Add(row.Total)
	}
}

// balance = revenue - (expense + commission + adjustment)
func balanceOf(t domain.TypeTotals) decimal.Decimal {
	return t.Revenue.Sub(t.Expense).Sub(t.Commission).Sub(t.Adjustment)
}
