package domain_test

import (
	"errors"
	"testing"
	"time"

	"github.com/SscSPs/smb_books_app/internal/apperrors"
	"github.com/SscSPs/smb_books_app/internal/core/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJournalBuilder_Build(t *testing.T) {
	date := time.Date(2024, 5, 2, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		build   func(b *domain.JournalBuilder) *domain.JournalBuilder
		wantErr error
	}{
		{
			name: "balanced two-line entry",
			build: func(b *domain.JournalBuilder) *domain.JournalBuilder {
				return b.Debit("inv", dec("50.00"), "").Credit("ap", dec("50.00"), "")
			},
		},
		{
			name: "difference within one cent is accepted",
			build: func(b *domain.JournalBuilder) *domain.JournalBuilder {
				return b.Debit("a", dec("10.00"), "").Credit("b", dec("9.99"), "")
			},
		},
		{
			name: "imbalance beyond tolerance",
			build: func(b *domain.JournalBuilder) *domain.JournalBuilder {
				return b.Debit("a", dec("10.00"), "").Credit("b", dec("9.98"), "")
			},
			wantErr: apperrors.ErrImbalance,
		},
		{
			name: "single line",
			build: func(b *domain.JournalBuilder) *domain.JournalBuilder {
				return b.Debit("a", dec("10.00"), "")
			},
			wantErr: apperrors.ErrValidation,
		},
		{
			name: "negative amount",
			build: func(b *domain.JournalBuilder) *domain.JournalBuilder {
				return b.Debit("a", dec("-1"), "").Credit("b", dec("-1"), "")
			},
			wantErr: apperrors.ErrValidation,
		},
		{
			name: "empty line",
			build: func(b *domain.JournalBuilder) *domain.JournalBuilder {
				return b.Line("a", decimal.Zero, decimal.Zero, "").Credit("b", dec("1"), "")
			},
			wantErr: apperrors.ErrValidation,
		},
		{
			name: "unknown source",
			build: func(b *domain.JournalBuilder) *domain.JournalBuilder {
				return b.Source("XX", "").Debit("a", dec("1"), "").Credit("b", dec("1"), "")
			},
			wantErr: apperrors.ErrValidation,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entry, err := tt.build(domain.NewJournalBuilder("co", date)).Build()
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, entry)
				return
			}
			require.NoError(t, err)
			assert.True(t, entry.TotalDebit.Sub(entry.TotalCredit).Abs().LessThanOrEqual(domain.DefaultBalanceTolerance))
			assert.NoError(t, entry.CheckBalanced(domain.DefaultBalanceTolerance))
			for i, l := range entry.Lines {
				assert.Equal(t, i+1, l.LineNo)
				assert.Equal(t, entry.JournalID, l.JournalID)
			}
		})
	}
}

func TestJournalBuilder_ImbalanceCarriesTotals(t *testing.T) {
	_, err := domain.NewJournalBuilder("co", time.Now()).
		Debit("a", dec("100"), "").
		Credit("b", dec("60"), "").
		Build()

	var imb *apperrors.ImbalanceError
	require.True(t, errors.As(err, &imb))
	assert.True(t, imb.TotalDebit.Equal(dec("100")))
	assert.True(t, imb.TotalCredit.Equal(dec("60")))
}

func TestJournalBuilder_PostedShortcut(t *testing.T) {
	at := time.Date(2024, 5, 2, 9, 0, 0, 0, time.UTC)
	entry, err := domain.NewJournalBuilder("co", at).
		Source(domain.SourcePurchaseOrder, "po-1").
		PostedBy("u1", at).
		Debit("inv", dec("50"), "").
		Credit("ap", dec("50"), "").
		Build()
	require.NoError(t, err)

	assert.True(t, entry.Posted)
	assert.Equal(t, "u1", entry.PostedBy)
	require.NotNil(t, entry.PostedAt)
	assert.Equal(t, domain.SourcePurchaseOrder, entry.SourceType)
	assert.Equal(t, []string{"inv", "ap"}, entry.AccountIDs())
}

func TestJournalEntry_CheckBalancedDetectsTamperedTotals(t *testing.T) {
	entry, err := domain.NewJournalBuilder("co", time.Now()).
		Debit("a", dec("20"), "").
		Credit("b", dec("20"), "").
		Build()
	require.NoError(t, err)

	entry.TotalDebit = dec("25")
	assert.ErrorIs(t, entry.CheckBalanced(domain.DefaultBalanceTolerance), apperrors.ErrImbalance)
}

func TestJournalEntry_BalanceDeltas(t *testing.T) {
	entry, err := domain.NewJournalBuilder("co", time.Now()).
		Debit("a", dec("20"), "").
		Debit("a", dec("5"), "").
		Credit("b", dec("25"), "").
		Build()
	require.NoError(t, err)

	deltas := entry.BalanceDeltas()
	assert.True(t, deltas["a"].Debit.Equal(dec("25")))
	assert.True(t, deltas["b"].Credit.Equal(dec("25")))
}
