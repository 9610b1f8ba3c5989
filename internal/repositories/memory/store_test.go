package memory_test

import (
	"context"
	"testing"
	"time"

	"github.com/SscSPs/smb_books_app/internal/apperrors"
	"github.com/SscSPs/smb_books_app/internal/core/domain"
	portsrepo "github.com/SscSPs/smb_books_app/internal/core/ports/repositories"
	"github.com/SscSPs/smb_books_app/internal/repositories/memory"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedCompany(t *testing.T, s *memory.Store) domain.Company {
	t.Helper()
	ctx := context.Background()
	now := time.Now().UTC()
	c := domain.Company{CompanyID: "co-1", Name: "Acme", IsActive: true, AuditFields: domain.NewAuditFields("u1", now)}
	tx, err := s.Begin(ctx)
	require.NoError(t, err)
	require.NoError(t, s.SaveCompanyInTx(ctx, tx, c))
	require.NoError(t, s.SaveAccountsInTx(ctx, tx, []domain.Account{
		{AccountID: "a-cash", CompanyID: c.CompanyID, Code: "1001", Path: "1001", Type: domain.Asset, NormalBalance: domain.DebitBalance},
		{AccountID: "a-rev", CompanyID: c.CompanyID, Code: "6001", Path: "6001", Type: domain.Revenue, NormalBalance: domain.CreditBalance},
	}))
	require.NoError(t, s.Commit(ctx, tx))
	return c
}

func TestRollbackRestoresSnapshot(t *testing.T) {
	ctx := context.Background()
	s := memory.NewStore()
	c := seedCompany(t, s)

	tx, err := s.Begin(ctx)
	require.NoError(t, err)
	require.NoError(t, s.UpdateAccountBalancesInTx(ctx, tx, map[string]domain.BalanceDelta{
		"a-cash": {Debit: decimal.NewFromInt(50), Credit: decimal.Zero},
	}, "u1", time.Now()))
	require.NoError(t, s.SaveItemsInTx(ctx, tx, []domain.InventoryItem{{InventoryID: "i1", CompanyID: c.CompanyID, ProductID: "p1", Quantity: decimal.NewFromInt(3)}}))
	require.NoError(t, s.Rollback(ctx, tx))

	acc, err := s.FindAccountByID(ctx, c.CompanyID, "a-cash")
	require.NoError(t, err)
	assert.True(t, acc.BalanceDebit.IsZero())

	_, err = s.FindItemByProduct(ctx, c.CompanyID, "p1")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	assert.ErrorIs(t, tx.Rollback(ctx), pgx.ErrTxClosed)
	assert.ErrorIs(t, tx.Commit(ctx), pgx.ErrTxClosed)
}

func TestLockItemsCreatesEmptyItemsWithinTx(t *testing.T) {
	ctx := context.Background()
	s := memory.NewStore()
	c := seedCompany(t, s)

	tx, err := s.Begin(ctx)
	require.NoError(t, err)
	locked, err := s.LockItemsForUpdate(ctx, tx, c.CompanyID, []string{"p1"})
	require.NoError(t, err)
	require.Contains(t, locked, "p1")
	assert.True(t, locked["p1"].Quantity.IsZero())
	assert.NotEmpty(t, locked["p1"].InventoryID)
	require.NoError(t, s.Rollback(ctx, tx))

	_, err = s.FindItemByProduct(ctx, c.CompanyID, "p1")
	assert.ErrorIs(t, err, apperrors.ErrNotFound, "the empty item goes away with the rollback")

	tx, err = s.Begin(ctx)
	require.NoError(t, err)
	first, err := s.LockItemsForUpdate(ctx, tx, c.CompanyID, []string{"p1"})
	require.NoError(t, err)
	again, err := s.LockItemsForUpdate(ctx, tx, c.CompanyID, []string{"p1"})
	require.NoError(t, err)
	assert.Equal(t, first["p1"].InventoryID, again["p1"].InventoryID)
	require.NoError(t, s.Commit(ctx, tx))
}

func TestDeleteAccountFollowsTx(t *testing.T) {
	ctx := context.Background()
	s := memory.NewStore()
	c := seedCompany(t, s)
	require.NoError(t, s.SaveAccountsInTx(ctx, nil, []domain.Account{
		{AccountID: "a-till", CompanyID: c.CompanyID, ParentID: "a-cash", Code: "100101", Path: "1001/100101", Type: domain.Asset, NormalBalance: domain.DebitBalance},
	}))

	tx, err := s.Begin(ctx)
	require.NoError(t, err)
	hasChildren, err := s.HasChildAccountsInTx(ctx, tx, c.CompanyID, "a-cash")
	require.NoError(t, err)
	assert.True(t, hasChildren)
	hasChildren, err = s.HasChildAccountsInTx(ctx, tx, c.CompanyID, "a-till")
	require.NoError(t, err)
	assert.False(t, hasChildren)
	require.NoError(t, s.DeleteAccountInTx(ctx, tx, c.CompanyID, "a-till"))
	require.NoError(t, s.Rollback(ctx, tx))

	_, err = s.FindAccountByID(ctx, c.CompanyID, "a-till")
	require.NoError(t, err, "a rolled back delete keeps the account")

	tx, err = s.Begin(ctx)
	require.NoError(t, err)
	require.NoError(t, s.DeleteAccountInTx(ctx, tx, c.CompanyID, "a-till"))
	require.NoError(t, s.Commit(ctx, tx))
	_, err = s.FindAccountByID(ctx, c.CompanyID, "a-till")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestWritesWithClosedTxFail(t *testing.T) {
	ctx := context.Background()
	s := memory.NewStore()
	c := seedCompany(t, s)

	tx, err := s.Begin(ctx)
	require.NoError(t, err)
	require.NoError(t, s.Commit(ctx, tx))

	err = s.SaveCompanyInTx(ctx, tx, domain.Company{CompanyID: "co-2", Name: c.Name})
	assert.ErrorIs(t, err, pgx.ErrTxClosed)
}

func TestSaveAccountsRejectsDuplicateCode(t *testing.T) {
	ctx := context.Background()
	s := memory.NewStore()
	c := seedCompany(t, s)

	err := s.SaveAccountsInTx(ctx, nil, []domain.Account{{AccountID: "dup", CompanyID: c.CompanyID, Code: "1001", Path: "x"}})
	assert.ErrorIs(t, err, apperrors.ErrDuplicate)

	// the same code in another company is fine
	err = s.SaveAccountsInTx(ctx, nil, []domain.Account{{AccountID: "other", CompanyID: "co-2", Code: "1001", Path: "1001"}})
	assert.NoError(t, err)
}

func TestListJournalsPaginates(t *testing.T) {
	ctx := context.Background()
	s := memory.NewStore()
	c := seedCompany(t, s)

	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		entry, err := domain.NewJournalBuilder(c.CompanyID, base.AddDate(0, 0, i)).
			CreatedBy("u1", base).
			Debit("a-cash", decimal.NewFromInt(10), "").
			Credit("a-rev", decimal.NewFromInt(10), "").
			Build()
		require.NoError(t, err)
		require.NoError(t, s.SaveJournalInTx(ctx, nil, *entry))
	}

	page1, next, err := s.ListJournals(ctx, c.CompanyID, portsrepo.JournalListParams{Limit: 3})
	require.NoError(t, err)
	require.Len(t, page1, 3)
	require.NotNil(t, next)
	assert.True(t, page1[0].Date.After(page1[1].Date), "newest first")

	page2, next2, err := s.ListJournals(ctx, c.CompanyID, portsrepo.JournalListParams{Limit: 3, NextToken: next})
	require.NoError(t, err)
	assert.Len(t, page2, 2)
	assert.Nil(t, next2)
	assert.True(t, page2[0].Date.Before(page1[2].Date))
}

func TestOutstandingCreditCountsPostedCreditOrdersOnly(t *testing.T) {
	ctx := context.Background()
	s := memory.NewStore()
	c := seedCompany(t, s)
	now := time.Now().UTC()

	mk := func(id string, status domain.OrderStatus, method domain.PaymentMethod, total int64) domain.SalesOrder {
		return domain.SalesOrder{
			Order: domain.Order{OrderID: id, CompanyID: c.CompanyID, Kind: domain.SalesOrderKind, Status: status,
				PaymentMethod: method, TotalAmount: decimal.NewFromInt(total), OrderDate: now},
			CustomerID: "cust",
		}
	}
	for _, o := range []domain.SalesOrder{
		mk("so-1", domain.OrderPosted, domain.PaymentCredit, 500),
		mk("so-2", domain.OrderPosted, domain.PaymentCredit, 400),
		mk("so-3", domain.OrderDraft, domain.PaymentCredit, 900),
		mk("so-4", domain.OrderPosted, domain.PaymentCash, 900),
	} {
		require.NoError(t, s.SaveSalesOrderInTx(ctx, nil, o))
	}
	require.NoError(t, s.SaveReceiptInTx(ctx, nil, domain.Receipt{ReceiptID: "r1", CompanyID: c.CompanyID, OrderID: "so-2", Amount: decimal.NewFromInt(100)}))

	debt, err := s.OutstandingCreditInTx(ctx, nil, c.CompanyID, "cust", "")
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(800).Equal(debt), "got %s", debt)

	debt, err = s.OutstandingCreditInTx(ctx, nil, c.CompanyID, "cust", "so-1")
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(300).Equal(debt))
}
