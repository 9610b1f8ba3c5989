package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Journal is a row of the journals table.
type Journal struct {
	JournalID   string          `db:"journal_id"`
	CompanyID   string          `db:"company_id"`
	JournalDate time.Time       `db:"journal_date"`
	Description string          `db:"description"`
	SourceType  string          `db:"source_type"`
	SourceID    *string         `db:"source_id"` // Nullable for manual entries
	TotalDebit  decimal.Decimal `db:"total_debit"`
	TotalCredit decimal.Decimal `db:"total_credit"`
	Posted      bool            `db:"posted"`
	PostedBy    *string         `db:"posted_by"`
	PostedAt    *time.Time      `db:"posted_at"`
	AuditFields
}

// LedgerLine is a row of the ledger_lines table.
type LedgerLine struct {
	LineID    string          `db:"line_id"`
	JournalID string          `db:"journal_id"`
	AccountID string          `db:"account_id"`
	LineNo    int             `db:"line_no"`
	Debit     decimal.Decimal `db:"debit"`
	Credit    decimal.Decimal `db:"credit"`
	Memo      string          `db:"memo"`
}
