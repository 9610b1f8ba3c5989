package accounting_test

import (
	"testing"
	"time"

	"github.com/SscSPs/smb_books_app/internal/core/domain"
	"github.com/SscSPs/smb_books_app/internal/utils/accounting"
	"github.com/stretchr/testify/assert"
)

func posted(journalID string, src domain.SourceType, day int, accountID, debit, credit string) domain.PostedLine {
	return domain.PostedLine{
		LedgerLine: domain.LedgerLine{JournalID: journalID, AccountID: accountID, Debit: d(debit), Credit: d(credit)},
		Date:       time.Date(2024, 3, day, 0, 0, 0, 0, time.UTC),
		SourceType: src,
	}
}

func TestBuildCashFlow(t *testing.T) {
	tree := domain.NewAccountTree([]domain.Account{
		{AccountID: "cash", Code: domain.CodeCash, Type: domain.Asset},
		{AccountID: "bank", Code: domain.CodeBankDeposits, Type: domain.Asset},
		{AccountID: "bank-east", ParentID: "bank", Code: "100201", Type: domain.Asset},
		{AccountID: "ar", Code: domain.CodeAccountsReceivable, Type: domain.Asset},
		{AccountID: "ap", Code: domain.CodeAccountsPayable, Type: domain.Liability},
		{AccountID: "loan", Code: "2001", Type: domain.Liability},
		{AccountID: "fees", Code: "6602", Type: domain.Expense},
	})
	opening := []domain.PostedLine{
		posted("j0", domain.SourceManual, 1, "cash", "500", "0"),
		posted("j0", domain.SourceManual, 1, "loan", "0", "500"),
	}
	period := []domain.PostedLine{
		posted("j1", domain.SourceReceipt, 10, "bank-east", "300", "0"),
		posted("j1", domain.SourceReceipt, 10, "ar", "0", "300"),
		posted("j2", domain.SourcePayment, 11, "ap", "120", "0"),
		posted("j2", domain.SourcePayment, 11, "cash", "0", "120"),
		posted("j3", domain.SourceManual, 12, "cash", "200", "0"),
		posted("j3", domain.SourceManual, 12, "loan", "0", "200"),
		posted("j4", domain.SourceManual, 13, "bank", "50", "0"),
		posted("j4", domain.SourceManual, 13, "cash", "0", "50"),
		posted("j5", domain.SourceManual, 14, "fees", "10", "0"),
		posted("j5", domain.SourceManual, 14, "bank", "0", "10"),
	}
	var cashToDate []domain.PostedLine
	for _, l := range append(append([]domain.PostedLine{}, opening...), period...) {
		switch l.AccountID {
		case "cash", "bank", "bank-east":
			cashToDate = append(cashToDate, l)
		}
	}

	from := time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC)
	report := accounting.BuildCashFlow(tree, period, cashToDate, from, to)

	assert.True(t, d("300").Equal(report.Operating.CashIn), "operating in %s", report.Operating.CashIn)
	assert.True(t, d("130").Equal(report.Operating.CashOut), "operating out %s", report.Operating.CashOut)
	assert.True(t, d("170").Equal(report.Operating.Net))
	assert.True(t, d("200").Equal(report.Other.CashIn), "transfer between cash accounts is excluded")
	assert.True(t, report.Other.CashOut.IsZero())
	assert.True(t, d("370").Equal(report.NetCashFlow))
	assert.True(t, d("500").Equal(report.OpeningCash))
	assert.True(t, d("870").Equal(report.ClosingCash))
	assert.True(t, report.OpeningCash.Add(report.NetCashFlow).Equal(report.ClosingCash))
}

func TestBuildCashFlowWithoutCashAccounts(t *testing.T) {
	tree := domain.NewAccountTree([]domain.Account{{AccountID: "rev", Code: domain.CodeMainRevenue, Type: domain.Revenue}})
	report := accounting.BuildCashFlow(tree, nil, nil, time.Now(), time.Now())

	assert.True(t, report.NetCashFlow.IsZero())
	assert.True(t, report.OpeningCash.IsZero())
	assert.True(t, report.ClosingCash.IsZero())
}
