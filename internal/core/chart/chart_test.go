package chart_test

import (
	"testing"
	"time"

	"github.com/SscSPs/smb_books_app/internal/core/chart"
	"github.com/SscSPs/smb_books_app/internal/core/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStandardContainsPostingAccounts(t *testing.T) {
	tmpl := chart.Standard()
	require.Len(t, tmpl.Accounts, 29)

	codes := tmpl.Codes()
	for _, code := range []string{
		domain.CodeCash, domain.CodeBankDeposits, domain.CodeAccountsReceivable,
		domain.CodeInventory, domain.CodeAccountsPayable, domain.CodeMainRevenue, domain.CodeMainCOGS,
	} {
		assert.Contains(t, codes, code)
	}
}

func TestMaterializeSkipsExisting(t *testing.T) {
	tmpl := chart.Standard()
	accounts := tmpl.Materialize("co", "u1", map[string]bool{"1001": true, "1002": true}, time.Now())

	require.Len(t, accounts, 27)
	for _, acc := range accounts {
		assert.True(t, acc.IsCore)
		assert.Empty(t, acc.ParentID)
		assert.Equal(t, acc.Code, acc.Path)
		assert.Equal(t, domain.DefaultNormalBalance(acc.Type), acc.NormalBalance)
		assert.NotEqual(t, "1001", acc.Code)
	}
}

func TestParseRejectsBadTemplates(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"unknown type", "accounts:\n  - {code: \"1\", name: X, type: Bogus}\n"},
		{"duplicate code", "accounts:\n  - {code: \"1\", name: X, type: Asset}\n  - {code: \"1\", name: Y, type: Asset}\n"},
		{"missing name", "accounts:\n  - {code: \"1\", type: Asset}\n"},
		{"not yaml", "accounts: [\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := chart.Parse([]byte(tt.yaml))
			assert.Error(t, err)
		})
	}
}
