package dto

import (
	"time"

	"github.com/SscSPs/smb_books_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateBankAccountRequest defines the data needed to register a bank account.
// LedgerAccountID defaults to the core Bank Deposits account.
type CreateBankAccountRequest struct {
	AccountNumber   string          `json:"accountNumber" binding:"required,max=50"`
	BankName        string          `json:"bankName" binding:"required,max=100"`
	Currency        string          `json:"currency" binding:"omitempty,len=3"`
	InitialBalance  decimal.Decimal `json:"initialBalance"`
	LedgerAccountID *string         `json:"ledgerAccountID"`
	Remark          string          `json:"remark" binding:"max=255"`
}

// CreateStatementRequest adds one bank statement line.
type CreateStatementRequest struct {
	Date        time.Time            `json:"date" binding:"required"`
	Amount      decimal.Decimal      `json:"amount" binding:"gt=0"`
	Type        domain.StatementType `json:"type" binding:"required,oneof=Credit Debit"`
	Balance     *decimal.Decimal     `json:"balance"`
	Description string               `json:"description" binding:"max=255"`
}

// DateRangeParams is an inclusive date range taken from the query string.
type DateRangeParams struct {
	From time.Time `form:"from" time_format:"2006-01-02"`
	To   time.Time `form:"to" time_format:"2006-01-02"`
}

// ToDateRange converts to the domain range.
func (p DateRangeParams) ToDateRange() domain.DateRange {
	return domain.DateRange{From: p.From, To: p.To}
}

// CreateReconciliationRequest links a statement line to a journal entry.
// MatchedAmount defaults to the statement amount.
type CreateReconciliationRequest struct {
	StatementID   string           `json:"statementID" binding:"required"`
	JournalID     string           `json:"journalID" binding:"required"`
	MatchedAmount *decimal.Decimal `json:"matchedAmount" binding:"omitempty,gt=0"`
	Remark        string           `json:"remark" binding:"max=255"`
}

// AutoMatchResponse reports an auto-match run.
type AutoMatchResponse struct {
	MatchedCount    int                     `json:"matchedCount"`
	Reconciliations []domain.Reconciliation `json:"reconciliations"`
}
