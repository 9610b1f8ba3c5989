package models

import (
	"github.com/shopspring/decimal"
)

// AccountType defines the fundamental accounting type of an account.
type AccountType string

const (
	Asset     AccountType = "Asset"
	Liability AccountType = "Liability"
	Equity    AccountType = "Equity"
	Revenue   AccountType = "Revenue"
	Expense   AccountType = "Expense"
	Common    AccountType = "Common"
)

// Account is a row of the accounts table.
// ParentID is nil for root accounts.
type Account struct {
	AccountID     string          `db:"account_id"`
	CompanyID     string          `db:"company_id"`
	ParentID      *string         `db:"parent_id"`
	Code          string          `db:"code"`
	Name          string          `db:"name"`
	AccountType   AccountType     `db:"account_type"`
	NormalBalance string          `db:"normal_balance"`
	BalanceDebit  decimal.Decimal `db:"balance_debit"`
	BalanceCredit decimal.Decimal `db:"balance_credit"`
	IsCore        bool            `db:"is_core"`
	Path          string          `db:"path"`
	Remark        string          `db:"remark"`
	AuditFields
}
