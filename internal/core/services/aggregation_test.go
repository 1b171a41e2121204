package services_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/immoplus-app/immoplus-backend/internal/core/domain"
	"github.com/immoplus-app/immoplus-backend/internal/core/services"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func sampleRows() []domain.SummaryRow {
	return []domain.SummaryRow{
		{Type: domain.TypeRevenue, OwnerRole: domain.RoleClient, Total: dec("1000.50")},
		{Type: domain.TypeRevenue, OwnerRole: domain.RoleAgent, Total: dec("250.25")},
		{Type: domain.TypeExpense, OwnerRole: domain.RoleClient, Total: dec("300.10")},
		{Type: domain.TypeCommission, OwnerRole: domain.RoleAgent, Total: dec("75.00")},
		{Type: domain.TypeAdjustment, OwnerRole: domain.RoleAdmin, Total: dec("0.65")},
	}
}

func TestAggregateSummary_Totals(t *testing.T) {
	summary := services.AggregateSummary(sampleRows(), false)

	assert.True(t, dec("1250.75").Equal(summary.Totals.Revenue), "revenue %s", summary.Totals.Revenue)
	assert.True(t, dec("300.10").Equal(summary.Totals.Expense))
	assert.True(t, dec("75.00").Equal(summary.Totals.Commission))
	assert.True(t, dec("0.65").Equal(summary.Totals.Adjustment))
	assert.Nil(t, summary.ByRole)
}

func TestAggregateSummary_BalanceIdentity(t *testing.T) {
	summary := services.AggregateSummary(sampleRows(), false)

	expected := summary.Totals.Revenue.
		Sub(summary.Totals.Expense).
		Sub(summary.Totals.Commission).
		Sub(summary.Totals.Adjustment)
	assert.True(t, expected.Equal(summary.Totals.Balance), "balance %s", summary.Totals.Balance)
	assert.True(t, dec("875.00").Equal(summary.Totals.Balance))
}

func TestAggregateSummary_PerRolePartitionSumsToTotal(t *testing.T) {
	summary := services.AggregateSummary(sampleRows(), true)
	require.NotNil(t, summary.ByRole)
	require.Len(t, summary.ByRole, 3)

	revenueSum := decimal.Zero
	balanceSum := decimal.Zero
	for _, partition := range summary.ByRole {
		revenueSum = revenueSum.Add(partition.Revenue)
		balanceSum = balanceSum.Add(partition.Balance)
	}
	assert.True(t, summary.Totals.Revenue.Equal(revenueSum))
	assert.True(t, summary.Totals.Balance.Equal(balanceSum))

	agent := summary.ByRole[domain.RoleAgent]
	assert.True(t, dec("250.25").Equal(agent.Revenue))
	assert.True(t, dec("75.00").Equal(agent.Commission))
	assert.True(t, dec("175.25").Equal(agent.Balance))
}

func TestAggregateSummary_Idempotent(t *testing.T) {
	first := services.AggregateSummary(sampleRows(), true)
	second := services.AggregateSummary(sampleRows(), true)

	assert.True(t, first.Totals.Balance.Equal(second.Totals.Balance))
	assert.True(t, first.Totals.Revenue.Equal(second.Totals.Revenue))
	for role, partition := range first.ByRole {
		assert.True(t, partition.Balance.Equal(second.ByRole[role].Balance), "role %s", role)
	}
}

func TestAggregateSummary_EmptySetIsAllZero(t *testing.T) {
	summary := services.AggregateSummary(nil, true)

	assert.True(t, summary.Totals.Revenue.IsZero())
	assert.True(t, summary.Totals.Expense.IsZero())
	assert.True(t, summary.Totals.Commission.IsZero())
	assert.True(t, summary.Totals.Adjustment.IsZero())
	assert.True(t, summary.Totals.Balance.IsZero())
	assert.Empty(t, summary.ByRole)
}
