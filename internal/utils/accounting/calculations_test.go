package accounting_test

import (
	"testing"

	"github.com/SscSPs/smb_books_app/internal/core/domain"
	"github.com/SscSPs/smb_books_app/internal/utils/accounting"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestSectionRollsChildrenIntoRoots(t *testing.T) {
	accounts := []domain.Account{
		{AccountID: "cash", Code: "1001", Name: "Cash", Type: domain.Asset},
		{AccountID: "ar", Code: "1122", Name: "AR", Type: domain.Asset},
		{AccountID: "ar-1", ParentID: "ar", Code: "112201", Name: "AR East", Type: domain.Asset},
		{AccountID: "rev", Code: "6001", Name: "Revenue", Type: domain.Revenue},
		{AccountID: "ap", Code: "2202", Name: "AP", Type: domain.Liability},
	}
	tree := domain.NewAccountTree(accounts)
	totals := map[string]domain.BalanceDelta{
		"cash": {Debit: d("100"), Credit: d("30")},
		"ar-1": {Debit: d("250"), Credit: d("0")},
		"rev":  {Debit: d("0"), Credit: d("250")},
	}

	roots := accounting.RootTotals(tree, totals)

	assets, totalAssets := accounting.Section(tree, roots, domain.Asset)
	require.Len(t, assets, 2)
	assert.Equal(t, "1001", assets[0].Code)
	assert.True(t, d("70").Equal(assets[0].NetAmount))
	assert.Equal(t, "1122", assets[1].Code)
	assert.True(t, d("250").Equal(assets[1].NetAmount))
	assert.True(t, d("320").Equal(totalAssets))

	revenue, totalRevenue := accounting.Section(tree, roots, domain.Revenue)
	require.Len(t, revenue, 1)
	assert.True(t, d("250").Equal(totalRevenue))

	liabilities, totalLiabilities := accounting.Section(tree, roots, domain.Liability)
	assert.Empty(t, liabilities, "roots without postings are skipped")
	assert.True(t, totalLiabilities.IsZero())
}

func TestWithinTolerance(t *testing.T) {
	tol := d("0.01")
	assert.True(t, accounting.WithinTolerance(d("10.00"), d("10.01"), tol))
	assert.False(t, accounting.WithinTolerance(d("10.00"), d("10.02"), tol))
}
