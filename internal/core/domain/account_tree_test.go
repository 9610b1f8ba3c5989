package domain_test

import (
	"testing"

	"github.com/SscSPs/smb_books_app/internal/apperrors"
	"github.com/SscSPs/smb_books_app/internal/core/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleTree() *domain.AccountTree {
	return domain.NewAccountTree([]domain.Account{
		{AccountID: "ar", Code: "1122", Type: domain.Asset, NormalBalance: domain.DebitBalance, IsCore: true, Path: "1122"},
		{AccountID: "ar-east", ParentID: "ar", Code: "112201", Type: domain.Asset, NormalBalance: domain.DebitBalance, Path: "1122/112201"},
		{AccountID: "ar-west", ParentID: "ar", Code: "112202", Type: domain.Asset, NormalBalance: domain.DebitBalance, Path: "1122/112202"},
		{AccountID: "ar-west-1", ParentID: "ar-west", Code: "11220201", Type: domain.Asset, NormalBalance: domain.DebitBalance, Path: "1122/112202/11220201"},
		{AccountID: "cash", Code: "1001", Type: domain.Asset, NormalBalance: domain.DebitBalance, IsCore: true, Path: "1001"},
	})
}

func TestAccountTree_Indexes(t *testing.T) {
	tree := sampleTree()

	assert.Equal(t, 5, tree.Len())
	assert.Equal(t, []string{"cash", "ar"}, tree.Roots())
	assert.Equal(t, []string{"ar-east", "ar-west"}, tree.Children("ar"))

	acc, ok := tree.FindByCode("112202")
	require.True(t, ok)
	assert.Equal(t, "ar-west", acc.AccountID)
}

func TestDescendants(t *testing.T) {
	tree := sampleTree()

	assert.Equal(t, []string{"ar", "ar-east", "ar-west", "ar-west-1"}, domain.Descendants(tree, "ar"))
	assert.Equal(t, []string{"cash"}, domain.Descendants(tree, "cash"))
	assert.Empty(t, domain.Descendants(tree, "missing"))
	assert.Equal(t, "ar", domain.RootOf(tree, "ar-west-1"))
}

func TestRollUp(t *testing.T) {
	tree := sampleTree()
	totals := map[string]domain.BalanceDelta{
		"ar-east":   {Debit: decimal.NewFromInt(100), Credit: decimal.Zero},
		"ar-west-1": {Debit: decimal.NewFromInt(50), Credit: decimal.NewFromInt(20)},
		"cash":      {Debit: decimal.NewFromInt(999), Credit: decimal.Zero},
	}

	sum := domain.RollUp(tree, totals, "ar")
	assert.True(t, sum.Debit.Equal(decimal.NewFromInt(150)))
	assert.True(t, sum.Credit.Equal(decimal.NewFromInt(20)))
	assert.True(t, domain.DebitBalance.Signed(sum.Debit, sum.Credit).Equal(decimal.NewFromInt(130)))
	assert.True(t, domain.CreditBalance.Signed(sum.Debit, sum.Credit).Equal(decimal.NewFromInt(-130)))
}

func TestCheckDeletable(t *testing.T) {
	core := domain.Account{AccountID: "cash", Code: domain.CodeCash, IsCore: true}
	leaf := domain.Account{AccountID: "ar-west-1", Code: "1122020101"}
	tests := []struct {
		name        string
		account     domain.Account
		hasChildren bool
		hasLines    bool
		wantErr     error
	}{
		{"core account", core, false, false, apperrors.ErrValidation},
		{"has children", leaf, true, false, apperrors.ErrValidation},
		{"has ledger lines", leaf, false, true, apperrors.ErrValidation},
		{"leaf without lines", leaf, false, false, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := domain.CheckDeletable(tt.account, tt.hasChildren, tt.hasLines)
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestBuildPathAndNest(t *testing.T) {
	tree := sampleTree()
	assert.Equal(t, "1122/112202/11220201/1122020101", domain.BuildPath(tree, "ar-west-1", "1122020101"))
	assert.Equal(t, "2202", domain.BuildPath(tree, "", "2202"))

	nested := domain.Nest(tree)
	require.Len(t, nested, 2)
	assert.Equal(t, "1122", nested[1].Code)
	require.Len(t, nested[1].Children, 2)
	assert.Len(t, nested[1].Children[1].Children, 1)
}

func TestDefaultNormalBalance(t *testing.T) {
	assert.Equal(t, domain.DebitBalance, domain.DefaultNormalBalance(domain.Asset))
	assert.Equal(t, domain.DebitBalance, domain.DefaultNormalBalance(domain.Expense))
	assert.Equal(t, domain.CreditBalance, domain.DefaultNormalBalance(domain.Liability))
	assert.Equal(t, domain.CreditBalance, domain.DefaultNormalBalance(domain.Revenue))
	assert.Equal(t, domain.CreditBalance, domain.DefaultNormalBalance(domain.Common))
}
